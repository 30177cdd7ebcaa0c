package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/clarotrack/relay/internal/httputil"
	"github.com/clarotrack/relay/internal/logging"
	"github.com/clarotrack/relay/internal/metrics"
	"github.com/clarotrack/relay/internal/models"
	"github.com/clarotrack/relay/internal/ratelimit"
	"github.com/clarotrack/relay/internal/service"
)

// RelayService is the slice of the orchestrator the handlers use.
type RelayService interface {
	Collect(ctx context.Context, req *models.CollectRequest, userAgent string) (*models.RawEvent, error)
	ListInstrumentationRules(ctx context.Context) ([]*models.InstrumentationRule, error)
}

type CollectHandler struct {
	service RelayService
	limiter ratelimit.RateLimiter
	logger  *logging.Logger
}

func NewCollectHandler(svc RelayService, limiter ratelimit.RateLimiter, logger *logging.Logger) *CollectHandler {
	if limiter == nil {
		limiter = ratelimit.NoOpRateLimiter{}
	}
	return &CollectHandler{
		service: svc,
		limiter: limiter,
		logger:  logger,
	}
}

// HandleCollect accepts one analytics event. The ack depends only on
// validation and persistence; forwarding outcomes never change it.
func (h *CollectHandler) HandleCollect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	clientIP := getClientIP(r)
	allowed, err := h.limiter.Allow(r.Context(), clientIP)
	if err != nil {
		// Rate limiter trouble should not block collection.
		h.logger.WithContext(r.Context()).Warn("rate limiter unavailable",
			logging.IP(clientIP),
			logging.Error(err),
		)
		allowed = true
	}
	if !allowed {
		metrics.EventsTotal.WithLabelValues("rate_limited").Inc()
		httputil.WriteError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		metrics.EventsTotal.WithLabelValues("bad_request").Inc()
		httputil.WriteError(w, http.StatusBadRequest, "unreadable body")
		return
	}
	defer r.Body.Close()

	req, err := models.ParseCollectRequest(body)
	if err != nil {
		metrics.EventsTotal.WithLabelValues("bad_request").Inc()
		httputil.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	event, err := h.service.Collect(r.Context(), req, r.UserAgent())
	if err != nil {
		if errors.Is(err, service.ErrMissingEvent) {
			metrics.EventsTotal.WithLabelValues("missing_event").Inc()
			httputil.WriteError(w, http.StatusBadRequest, "missing event")
			return
		}
		metrics.EventsTotal.WithLabelValues("error").Inc()
		h.logger.WithContext(r.Context()).Error("event collection failed",
			logging.EventName(req.Event),
			logging.Error(err),
		)
		httputil.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	metrics.EventsTotal.WithLabelValues("ok").Inc()
	metrics.EventBytesTotal.Add(float64(len(body)))
	h.logger.WithContext(r.Context()).Info("event collected",
		logging.EventID(event.ID),
		logging.EventName(event.Event),
		logging.Path(event.Path),
	)

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleTrackingRules serves the active instrumentation rules the
// browser-side script polls.
func (h *CollectHandler) HandleTrackingRules(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rules, err := h.service.ListInstrumentationRules(r.Context())
	if err != nil {
		h.logger.WithContext(r.Context()).Error("instrumentation rule listing failed",
			logging.Error(err),
		)
		httputil.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if rules == nil {
		rules = []*models.InstrumentationRule{}
	}
	httputil.WriteJSON(w, http.StatusOK, rules)
}

func (h *CollectHandler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *CollectHandler) Ready(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
