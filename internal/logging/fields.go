package logging

import "log/slog"

// Common field names for consistent logging across the relay.
const (
	FieldService = "service"
	FieldEvent   = "event"
	FieldEventID = "event_id"
	FieldRule    = "rule"
	FieldPath    = "path"
	FieldStatus  = "status"
	FieldOutcome = "outcome"
	FieldError   = "error"
	FieldIP      = "ip"
)

// Service returns a slog attribute for the service name.
func Service(name string) slog.Attr {
	return slog.String(FieldService, name)
}

// EventName returns a slog attribute for an inbound event name.
func EventName(name string) slog.Attr {
	return slog.String(FieldEvent, name)
}

// EventID returns a slog attribute for a persisted event id.
func EventID(id string) slog.Attr {
	return slog.String(FieldEventID, id)
}

// Rule returns a slog attribute for a forwarding rule's fire event.
func Rule(fireEvent string) slog.Attr {
	return slog.String(FieldRule, fireEvent)
}

// Path returns a slog attribute for the event path.
func Path(path string) slog.Attr {
	return slog.String(FieldPath, path)
}

// Outcome returns a slog attribute for a sink delivery outcome.
func Outcome(outcome string) slog.Attr {
	return slog.String(FieldOutcome, outcome)
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}

// IP returns a slog attribute for a client IP address.
func IP(ip string) slog.Attr {
	return slog.String(FieldIP, ip)
}
