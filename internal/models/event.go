package models

import (
	"encoding/json"
	"time"
)

// RawEvent is one inbound analytics event as persisted. Rows are
// append-only: the relay never updates or deletes them.
type RawEvent struct {
	ID          string    `json:"id"`
	AID         string    `json:"aid"`
	Event       string    `json:"event"`
	Path        string    `json:"path"`
	UserAgent   string    `json:"user_agent,omitempty"`
	UTMSource   string    `json:"utm_source,omitempty"`
	UTMMedium   string    `json:"utm_medium,omitempty"`
	UTMCampaign string    `json:"utm_campaign,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CollectRequest is the inbound body of POST /api/collect. The tracking
// script historically posted the payload under "dataLayer"; newer
// clients use "params". Both are accepted, params wins.
type CollectRequest struct {
	Event     string                 `json:"event"`
	Path      string                 `json:"path"`
	AID       string                 `json:"aid"`
	Params    map[string]interface{} `json:"params"`
	DataLayer map[string]interface{} `json:"dataLayer"`

	// Body holds the full decoded request body, kept so mapping can
	// fall back to top-level fields when no params object was sent.
	Body map[string]interface{} `json:"-"`
}

// ParseCollectRequest decodes the raw body of a collect call.
func ParseCollectRequest(data []byte) (*CollectRequest, error) {
	var req CollectRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &req.Body); err != nil {
		return nil, err
	}
	return &req, nil
}

// Payload returns the object mapping rules resolve against: the params
// sub-object if present, else the legacy dataLayer object, else the
// whole inbound body.
func (r *CollectRequest) Payload() map[string]interface{} {
	if r.Params != nil {
		return r.Params
	}
	if r.DataLayer != nil {
		return r.DataLayer
	}
	return r.Body
}
