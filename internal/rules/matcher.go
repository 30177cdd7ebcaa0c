// Package rules selects which forwarding rules apply to an inbound
// event.
package rules

import (
	"strings"

	"github.com/clarotrack/relay/internal/models"
)

// Match returns every rule that fires for the given event. A rule
// matches when it is active, its listen_event equals the event name
// exactly (case-sensitive), and its url_contains filter is either empty
// or a substring of the event path. All matches fire independently:
// this is fan-out, not first-match, and order carries no meaning.
func Match(candidates []*models.ForwardingRule, eventName, path string) []*models.ForwardingRule {
	var matched []*models.ForwardingRule
	for _, rule := range candidates {
		if !rule.Active {
			continue
		}
		if rule.ListenEvent != eventName {
			continue
		}
		if rule.URLContains != "" && !strings.Contains(path, rule.URLContains) {
			continue
		}
		matched = append(matched, rule)
	}
	return matched
}
