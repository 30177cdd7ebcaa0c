package mapping

// Resolve walks a parsed dotted path through nested JSON-style maps.
// It descends only through map[string]interface{} values; a missing key
// or a non-map intermediate value makes the whole path absent. Absence
// is a normal result, never an error.
func Resolve(data map[string]interface{}, path []string) (interface{}, bool) {
	if len(path) == 0 {
		return nil, false
	}

	var current interface{} = data
	for _, segment := range path {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = m[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
