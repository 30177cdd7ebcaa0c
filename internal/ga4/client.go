package ga4

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/clarotrack/relay/internal/metrics"
)

const (
	// DefaultEndpoint is the Measurement Protocol collection endpoint.
	DefaultEndpoint = "https://www.google-analytics.com/mp/collect"

	// DefaultTimeout bounds a single send.
	DefaultTimeout = 3 * time.Second
)

// Outcome classifies the result of one send for logging and metrics.
type Outcome string

const (
	OutcomeDelivered        Outcome = "delivered"
	OutcomeSkipped          Outcome = "skipped"
	OutcomeUnexpectedStatus Outcome = "unexpected_status"
	OutcomeTimeout          Outcome = "timeout"
	OutcomeConnectionFailed Outcome = "connection_failed"
	OutcomeError            Outcome = "error"
)

// Delivery is the terminal result of a send. Send never returns an
// error: every failure mode is folded into an outcome.
type Delivery struct {
	Outcome    Outcome
	StatusCode int
	Err        error
}

// Config carries the sink credentials and tuning.
type Config struct {
	Endpoint      string
	MeasurementID string
	APISecret     string
	Timeout       time.Duration
}

// Configured reports whether both credentials are present. An
// unconfigured client skips sends instead of issuing invalid requests.
func (c Config) Configured() bool {
	return c.MeasurementID != "" && c.APISecret != ""
}

// Client performs the outbound Measurement Protocol call. Forwarding is
// best-effort, at-most-once: no retries, no queueing.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// Send posts the payload with the credentials as query parameters. A
// 204 (or any other 2xx) is nominal success. All failures are
// classified, logged, and swallowed; the caller's request must never
// fail because of the sink.
func (c *Client) Send(ctx context.Context, payload *Payload) Delivery {
	eventName := ""
	if len(payload.Events) > 0 {
		eventName = payload.Events[0].Name
	}

	if !c.cfg.Configured() {
		c.logger.Warn("ga4 credentials not configured, skipping send",
			slog.String("event", eventName),
		)
		return c.finish(Delivery{Outcome: OutcomeSkipped})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		c.logger.Error("ga4 payload marshal failed",
			slog.String("event", eventName),
			slog.String("error", err.Error()),
		)
		return c.finish(Delivery{Outcome: OutcomeError, Err: err})
	}

	query := url.Values{}
	query.Set("measurement_id", c.cfg.MeasurementID)
	query.Set("api_secret", c.cfg.APISecret)
	target := c.cfg.Endpoint + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return c.finish(Delivery{Outcome: OutcomeError, Err: err})
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.SinkDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		delivery := Delivery{Outcome: classifySendError(err), Err: err}
		c.logger.Error("ga4 send failed",
			slog.String("event", eventName),
			slog.String("endpoint", c.cfg.Endpoint),
			slog.String("outcome", string(delivery.Outcome)),
			slog.String("error", err.Error()),
		)
		return c.finish(delivery)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.logger.Debug("ga4 event delivered",
			slog.String("event", eventName),
			slog.Int("status", resp.StatusCode),
		)
		return c.finish(Delivery{Outcome: OutcomeDelivered, StatusCode: resp.StatusCode})
	}

	// Read a little of the body for diagnostics; GA4 replies are small.
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	c.logger.Warn("ga4 unexpected response status",
		slog.String("event", eventName),
		slog.String("endpoint", c.cfg.Endpoint),
		slog.Int("status", resp.StatusCode),
		slog.String("body", string(snippet)),
	)
	return c.finish(Delivery{Outcome: OutcomeUnexpectedStatus, StatusCode: resp.StatusCode})
}

func (c *Client) finish(d Delivery) Delivery {
	metrics.ForwardsTotal.WithLabelValues(string(d.Outcome)).Inc()
	return d
}

func classifySendError(err error) Outcome {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return OutcomeTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return OutcomeTimeout
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return OutcomeConnectionFailed
	}
	return OutcomeError
}
