package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clarotrack/relay/internal/handlers"
	"github.com/clarotrack/relay/internal/middleware"
)

// NewRouter constructs a ServeMux with the relay API routes registered.
func NewRouter(h *handlers.CollectHandler) http.Handler {
	mux := http.NewServeMux()

	// Collection API
	mux.HandleFunc("/api/collect", h.HandleCollect)
	mux.HandleFunc("/api/collect/", h.HandleCollect)
	mux.HandleFunc("/api/tracking_rules", h.HandleTrackingRules)
	mux.HandleFunc("/api/tracking_rules/", h.HandleTrackingRules)

	// Health endpoints
	mux.HandleFunc("/healthz", h.Health)
	mux.HandleFunc("/readyz", h.Ready)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	return middleware.RequestID(mux)
}
