package mapping

import "strings"

// ConstPrefix marks a params_map value as a fixed literal instead of a
// payload lookup.
const ConstPrefix = "$const:"

// SourceSpec is one parsed params_map value: either a constant literal
// or a dotted path into the inbound payload. Specs are parsed once when
// a rule is loaded, not per request.
type SourceSpec struct {
	Const   string
	Path    []string
	IsConst bool
}

// ParseSpec parses a single source specification string.
func ParseSpec(raw string) SourceSpec {
	if strings.HasPrefix(raw, ConstPrefix) {
		return SourceSpec{Const: strings.TrimPrefix(raw, ConstPrefix), IsConst: true}
	}
	return SourceSpec{Path: strings.Split(raw, ".")}
}

// ParseSpecs parses a rule's full params_map table.
func ParseSpecs(raw map[string]string) map[string]SourceSpec {
	if len(raw) == 0 {
		return nil
	}
	specs := make(map[string]SourceSpec, len(raw))
	for key, value := range raw {
		specs[key] = ParseSpec(value)
	}
	return specs
}
