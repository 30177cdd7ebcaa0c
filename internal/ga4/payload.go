// Package ga4 builds and delivers Measurement Protocol payloads.
package ga4

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

const (
	// AnonymousClientID is the placeholder some callers send instead of
	// a real visitor id. It is never forwarded as-is.
	AnonymousClientID = "anonymous"

	// ItemsKey is the reserved parameter holding ecommerce line items.
	ItemsKey = "items"

	directSource = "(direct)"
	noneMedium   = "(none)"
)

// Payload is the wire body of one Measurement Protocol call. It is
// built per (event, rule) pair and discarded after the send returns.
type Payload struct {
	ClientID      string         `json:"client_id"`
	Events        []Event        `json:"events"`
	TrafficSource *TrafficSource `json:"traffic_source,omitempty"`
}

type Event struct {
	Name   string                 `json:"name"`
	Params map[string]interface{} `json:"params"`
}

type TrafficSource struct {
	Source string `json:"source"`
	Medium string `json:"medium"`
	Name   string `json:"name"`
}

// numericFields must be numbers on the wire. Values that cannot be
// coerced are dropped rather than sent malformed.
var numericFields = []string{"value", "tax", "shipping"}

// itemOptionalFields is the allow-list of item attributes copied
// through verbatim when present.
var itemOptionalFields = []string{
	"affiliation",
	"coupon",
	"discount",
	"index",
	"item_brand",
	"item_category",
	"item_list_id",
	"item_list_name",
	"item_variant",
	"price",
	"quantity",
}

// BuildPayload assembles the outbound payload from mapped parameters.
// It normalizes the client id, validates the reserved items list,
// coerces the numeric fields, and attaches the traffic source block.
// No I/O happens here.
func BuildPayload(fireEvent, clientID string, params, trafficSource map[string]interface{}) *Payload {
	if clientID == "" || clientID == AnonymousClientID {
		clientID = uuid.New().String()
	}

	if params == nil {
		params = map[string]interface{}{}
	}

	if raw, ok := params[ItemsKey]; ok {
		delete(params, ItemsKey)
		if items := buildItems(raw); len(items) > 0 {
			params[ItemsKey] = items
		}
	}

	for _, field := range numericFields {
		raw, ok := params[field]
		if !ok {
			continue
		}
		if n, ok := toFloat(raw); ok {
			params[field] = n
		} else {
			delete(params, field)
		}
	}

	payload := &Payload{
		ClientID: clientID,
		Events:   []Event{{Name: fireEvent, Params: params}},
	}

	if trafficSource != nil {
		payload.TrafficSource = buildTrafficSource(trafficSource)
	}

	return payload
}

// buildItems validates the raw items value. A single record is wrapped
// into a one-element list; entries that are not keyed records are
// dropped.
func buildItems(raw interface{}) []map[string]interface{} {
	list, ok := raw.([]interface{})
	if !ok {
		list = []interface{}{raw}
	}

	items := make([]map[string]interface{}, 0, len(list))
	for _, entry := range list {
		record, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}

		item := map[string]interface{}{
			"item_id":   stringField(record, "item_id"),
			"item_name": stringField(record, "item_name"),
		}
		for _, field := range itemOptionalFields {
			if value, ok := record[field]; ok {
				item[field] = value
			}
		}
		items = append(items, item)
	}
	return items
}

func buildTrafficSource(ts map[string]interface{}) *TrafficSource {
	out := &TrafficSource{
		Source: stringField(ts, "source"),
		Medium: stringField(ts, "medium"),
		Name:   stringField(ts, "campaign"),
	}
	if out.Source == "" {
		out.Source = directSource
	}
	if out.Medium == "" {
		out.Medium = noneMedium
	}
	return out
}

func stringField(record map[string]interface{}, key string) string {
	value, ok := record[key]
	if !ok || value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		n, err := v.Float64()
		return n, err == nil
	case string:
		n, err := strconv.ParseFloat(v, 64)
		return n, err == nil
	default:
		return 0, false
	}
}
