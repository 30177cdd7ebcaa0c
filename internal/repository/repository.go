package repository

import (
	"context"
	"errors"

	"github.com/clarotrack/relay/internal/models"
)

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = errors.New("record not found")

// Repository is the datastore collaborator of the relay. Raw events
// are write-only, rules are read-only; the store provides its own
// concurrency control.
type Repository interface {
	// CreateEvent appends one raw event. It must succeed before any
	// rule processing starts.
	CreateEvent(ctx context.Context, event *models.RawEvent) error

	// ListForwardingRules returns the active forwarding rules listening
	// on the given event name, with their params_map compiled.
	ListForwardingRules(ctx context.Context, listenEvent string) ([]*models.ForwardingRule, error)

	// ListInstrumentationRules returns the active DOM-observation rules
	// served to the browser-side tracking script.
	ListInstrumentationRules(ctx context.Context) ([]*models.InstrumentationRule, error)

	Close()
}
