package models

import (
	"time"

	"github.com/clarotrack/relay/internal/mapping"
)

// ForwardingRule maps one inbound event type onto one outbound
// analytics event. Rules are managed out of band (admin tooling or the
// rule seeder); the relay only reads them.
type ForwardingRule struct {
	ID          string            `json:"id"`
	ListenEvent string            `json:"listen_event"`
	FireEvent   string            `json:"fire_event"`
	URLContains string            `json:"url_contains"`
	ParamsMap   map[string]string `json:"params_map"`
	Active      bool              `json:"active"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`

	// Specs is ParamsMap parsed into source specifications. Populated
	// by Compile when the rule is loaded from the store.
	Specs map[string]mapping.SourceSpec `json:"-"`
}

// Compile parses the rule's params_map once so request handling never
// re-parses spec strings.
func (r *ForwardingRule) Compile() {
	r.Specs = mapping.ParseSpecs(r.ParamsMap)
}

// InstrumentationRule tells the browser-side tracking script which DOM
// interactions to instrument. Served verbatim to the client; the relay
// attaches no behavior to it.
type InstrumentationRule struct {
	ID          string            `json:"-"`
	ListenEvent string            `json:"listen_event"`
	Selector    string            `json:"selector"`
	URLContains string            `json:"url_contains"`
	FireEvent   string            `json:"fire_event"`
	ParamsMap   map[string]string `json:"params_map"`
	CustomJS    string            `json:"custom_js"`
	Active      bool              `json:"-"`
}
