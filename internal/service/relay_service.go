package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/clarotrack/relay/internal/ga4"
	"github.com/clarotrack/relay/internal/logging"
	"github.com/clarotrack/relay/internal/mapping"
	"github.com/clarotrack/relay/internal/metrics"
	"github.com/clarotrack/relay/internal/models"
	"github.com/clarotrack/relay/internal/repository"
	"github.com/clarotrack/relay/internal/rules"
)

// ErrMissingEvent is returned when a collect call carries no event
// name. Nothing is persisted in that case.
var ErrMissingEvent = errors.New("missing event")

// Sender delivers one outbound payload to the analytics sink.
type Sender interface {
	Send(ctx context.Context, payload *ga4.Payload) ga4.Delivery
}

// RelayService drives the collect pipeline: validate, persist the raw
// event, then match, map, build and send one outbound payload per
// matched rule. Forwarding is a best-effort side effect; the caller's
// acknowledgement depends only on persistence.
type RelayService struct {
	repo   repository.Repository
	sink   Sender
	mapper *mapping.Mapper
	logger *logging.Logger
}

func NewRelayService(repo repository.Repository, sink Sender, mapper *mapping.Mapper, logger *logging.Logger) *RelayService {
	return &RelayService{
		repo:   repo,
		sink:   sink,
		mapper: mapper,
		logger: logger,
	}
}

// Collect processes one inbound event. Outbound sends run synchronously
// before the ack is returned, but their failures never surface: once
// the raw event is persisted the call succeeds.
func (s *RelayService) Collect(ctx context.Context, req *models.CollectRequest, userAgent string) (*models.RawEvent, error) {
	if req.Event == "" {
		return nil, ErrMissingEvent
	}

	path := req.Path
	if path == "" {
		path = "/"
	}

	aid := req.AID
	if aid == "" {
		aid = uuid.New().String()
	}

	event := &models.RawEvent{
		AID:       aid,
		Event:     req.Event,
		Path:      path,
		UserAgent: userAgent,
	}

	payload := req.Payload()
	applyTrafficAttribution(event, payload)

	if err := s.repo.CreateEvent(ctx, event); err != nil {
		metrics.StorageErrors.Inc()
		return nil, fmt.Errorf("persist event: %w", err)
	}

	candidates, err := s.repo.ListForwardingRules(ctx, event.Event)
	if err != nil {
		// The event is safe; a rule lookup failure only costs this
		// request's forwarding.
		s.logger.WithContext(ctx).Warn("forwarding rule lookup failed",
			logging.EventName(event.Event),
			logging.Error(err),
		)
		return event, nil
	}

	matched := rules.Match(candidates, event.Event, event.Path)
	metrics.RulesMatched.Observe(float64(len(matched)))

	for _, rule := range matched {
		s.forward(ctx, event, rule, payload)
	}

	return event, nil
}

// forward runs one matched rule's pipeline. It never fails the request:
// the sink client converts every failure into an outcome value.
func (s *RelayService) forward(ctx context.Context, event *models.RawEvent, rule *models.ForwardingRule, payload map[string]interface{}) {
	params, trafficSource := s.mapper.Map(rule.Specs, payload, event.Path)
	outbound := ga4.BuildPayload(rule.FireEvent, event.AID, params, trafficSource)
	delivery := s.sink.Send(ctx, outbound)

	s.logger.WithContext(ctx).Debug("forwarding rule processed",
		logging.EventID(event.ID),
		logging.EventName(event.Event),
		logging.Rule(rule.FireEvent),
		logging.Outcome(string(delivery.Outcome)),
	)
}

// ListInstrumentationRules serves the active DOM-observation rules for
// the browser-side script.
func (s *RelayService) ListInstrumentationRules(ctx context.Context) ([]*models.InstrumentationRule, error) {
	return s.repo.ListInstrumentationRules(ctx)
}

// applyTrafficAttribution copies the utm columns onto the raw event
// when the payload carries a traffic_source object. The payload itself
// is left alone; the mapper strips the key per rule.
func applyTrafficAttribution(event *models.RawEvent, payload map[string]interface{}) {
	ts, ok := payload[mapping.TrafficSourceKey].(map[string]interface{})
	if !ok {
		return
	}
	event.UTMSource = asString(ts["source"])
	event.UTMMedium = asString(ts["medium"])
	event.UTMCampaign = asString(ts["campaign"])
}

func asString(value interface{}) string {
	if s, ok := value.(string); ok {
		return s
	}
	if value == nil {
		return ""
	}
	return fmt.Sprint(value)
}
