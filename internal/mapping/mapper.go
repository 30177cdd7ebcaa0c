package mapping

// Reserved payload and parameter keys.
const (
	TrafficSourceKey      = "traffic_source"
	PageLocationKey       = "page_location"
	EngagementTimeKey     = "engagement_time_msec"
	MinimalEngagementMsec = 1
)

// Mapper resolves a rule's compiled params_map against an inbound
// payload.
type Mapper struct {
	// PageLocationBase is prepended to the event path to form the
	// page_location baseline parameter.
	PageLocationBase string
}

func NewMapper(pageLocationBase string) *Mapper {
	return &Mapper{PageLocationBase: pageLocationBase}
}

// Map produces the outbound parameter set for one rule. Constants map
// to their literal, paths are resolved against the payload, and keys
// whose source is absent are omitted entirely. The reserved
// traffic_source object is split off the payload before any resolution
// and returned separately. The two baseline fields (page_location,
// engagement_time_msec) are always set last and overwrite any mapped
// value of the same name. The caller's payload is not modified.
func (m *Mapper) Map(specs map[string]SourceSpec, payload map[string]interface{}, eventPath string) (map[string]interface{}, map[string]interface{}) {
	payload, trafficSource := splitTrafficSource(payload)

	params := make(map[string]interface{}, len(specs)+2)
	for key, spec := range specs {
		if spec.IsConst {
			params[key] = spec.Const
			continue
		}
		if value, ok := Resolve(payload, spec.Path); ok {
			params[key] = value
		}
	}

	if eventPath == "" {
		eventPath = "/"
	}
	params[PageLocationKey] = m.PageLocationBase + eventPath
	params[EngagementTimeKey] = MinimalEngagementMsec

	return params, trafficSource
}

// splitTrafficSource returns the payload without its traffic_source
// key, plus the extracted traffic_source object if it was one. The
// input map is left untouched so that every matched rule maps against
// the same payload.
func splitTrafficSource(payload map[string]interface{}) (map[string]interface{}, map[string]interface{}) {
	raw, ok := payload[TrafficSourceKey]
	if !ok {
		return payload, nil
	}

	stripped := make(map[string]interface{}, len(payload)-1)
	for key, value := range payload {
		if key == TrafficSourceKey {
			continue
		}
		stripped[key] = value
	}

	trafficSource, _ := raw.(map[string]interface{})
	return stripped, trafficSource
}
