package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/clarotrack/relay/internal/config"
	"github.com/clarotrack/relay/internal/ga4"
	"github.com/clarotrack/relay/internal/handlers"
	"github.com/clarotrack/relay/internal/logging"
	"github.com/clarotrack/relay/internal/mapping"
	"github.com/clarotrack/relay/internal/ratelimit"
	"github.com/clarotrack/relay/internal/repository"
	"github.com/clarotrack/relay/internal/server"
	"github.com/clarotrack/relay/internal/service"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.New(
		logging.ParseLevel(cfg.Logging.Level),
		cfg.Logging.Format,
	).With(logging.Service("relay"))
	logging.SetDefault(logger)

	slog.Info("Starting relay service",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Logging.Level),
		slog.Bool("ga4_configured", ga4.Config{
			MeasurementID: cfg.GA4.MeasurementID,
			APISecret:     cfg.GA4.APISecret,
		}.Configured()),
	)

	// Initialize the event/rule store
	var repo repository.Repository
	switch cfg.Database.Type {
	case "memory":
		slog.Warn("Using in-memory store; events are not durable")
		repo = repository.NewInMemoryRepository()
	default:
		connString := cfg.Database.Postgres.ConnString()

		slog.Info("Running database migrations")
		m, err := migrate.New("file://migrations", connString)
		if err != nil {
			log.Fatalf("Failed to initialize migrations: %v", err)
		}
		if err := m.Up(); err != nil && err != migrate.ErrNoChange {
			log.Fatalf("Failed to run migrations: %v", err)
		}

		pg, err := repository.NewPostgresRepository(context.Background(), connString)
		if err != nil {
			log.Fatalf("Failed to connect to PostgreSQL: %v", err)
		}
		repo = pg
	}
	defer repo.Close()

	// Initialize rate limiter
	var limiter ratelimit.RateLimiter
	if cfg.Redis.Enabled && cfg.Ingestion.RateLimitEnabled {
		rl, err := ratelimit.NewRedisRateLimiter(
			cfg.Redis.URL,
			cfg.Ingestion.RateLimitRequests,
			cfg.Ingestion.RateLimitWindow,
		)
		if err != nil {
			slog.Warn("Failed to initialize Redis rate limiter, continuing without",
				slog.String("error", err.Error()),
			)
			limiter = ratelimit.NoOpRateLimiter{}
		} else {
			slog.Info("Rate limiting enabled",
				slog.Int("requests", cfg.Ingestion.RateLimitRequests),
				slog.Duration("window", cfg.Ingestion.RateLimitWindow),
			)
			limiter = rl
		}
	} else {
		limiter = ratelimit.NoOpRateLimiter{}
	}
	defer limiter.Close()

	// Initialize the forwarding pipeline
	sink := ga4.NewClient(ga4.Config{
		Endpoint:      cfg.GA4.Endpoint,
		MeasurementID: cfg.GA4.MeasurementID,
		APISecret:     cfg.GA4.APISecret,
		Timeout:       cfg.GA4.Timeout,
	}, logger.Logger)

	mapper := mapping.NewMapper(cfg.GA4.PageLocationBase)
	relay := service.NewRelayService(repo, sink, mapper, logger)

	handler := handlers.NewCollectHandler(relay, limiter, logger)
	router := server.NewRouter(handler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		slog.Info("Relay service listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	slog.Info("Server stopped")
}
