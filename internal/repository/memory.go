package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clarotrack/relay/internal/models"
)

// InMemoryRepository is a map-backed Repository used in tests and for
// running the relay without a database.
type InMemoryRepository struct {
	mu         sync.RWMutex
	events     []*models.RawEvent
	forwarding []*models.ForwardingRule
	instrument []*models.InstrumentationRule
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

func (r *InMemoryRepository) CreateEvent(ctx context.Context, event *models.RawEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if event.ID == "" {
		id, _ := uuid.NewV7()
		event.ID = id.String()
	}
	event.CreatedAt = time.Now().UTC()

	stored := *event
	r.events = append(r.events, &stored)
	return nil
}

func (r *InMemoryRepository) ListForwardingRules(ctx context.Context, listenEvent string) ([]*models.ForwardingRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var rules []*models.ForwardingRule
	for _, rule := range r.forwarding {
		if rule.Active && rule.ListenEvent == listenEvent {
			rules = append(rules, rule)
		}
	}
	return rules, nil
}

func (r *InMemoryRepository) ListInstrumentationRules(ctx context.Context) ([]*models.InstrumentationRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var rules []*models.InstrumentationRule
	for _, rule := range r.instrument {
		if rule.Active {
			rules = append(rules, rule)
		}
	}
	return rules, nil
}

// AddForwardingRule stores and compiles a forwarding rule.
func (r *InMemoryRepository) AddForwardingRule(rule *models.ForwardingRule) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rule.ID == "" {
		id, _ := uuid.NewV7()
		rule.ID = id.String()
	}
	rule.Compile()
	r.forwarding = append(r.forwarding, rule)
}

// AddInstrumentationRule stores an instrumentation rule.
func (r *InMemoryRepository) AddInstrumentationRule(rule *models.InstrumentationRule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instrument = append(r.instrument, rule)
}

// Events returns a snapshot of the persisted raw events.
func (r *InMemoryRepository) Events() []*models.RawEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.RawEvent, len(r.events))
	copy(out, r.events)
	return out
}

func (r *InMemoryRepository) Close() {}
