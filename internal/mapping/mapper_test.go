package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap_ConstantsAndPaths(t *testing.T) {
	mapper := NewMapper("http://localhost")

	specs := ParseSpecs(map[string]string{
		"transaction_id": "ecommerce.transaction_id",
		"value":          "ecommerce.value",
		"business_unit":  "business_unit",
		"fuente_track":   "$const:claro_track",
	})
	payload := map[string]interface{}{
		"business_unit": "X",
		"ecommerce": map[string]interface{}{
			"transaction_id": "T1",
			"value":          "99.99",
		},
	}

	params, trafficSource := mapper.Map(specs, payload, "/cart")

	assert.Nil(t, trafficSource)
	assert.Equal(t, "T1", params["transaction_id"])
	assert.Equal(t, "99.99", params["value"])
	assert.Equal(t, "X", params["business_unit"])
	assert.Equal(t, "claro_track", params["fuente_track"])
	assert.Equal(t, "http://localhost/cart", params[PageLocationKey])
	assert.Equal(t, MinimalEngagementMsec, params[EngagementTimeKey])
}

func TestMap_ConstantIgnoresPayload(t *testing.T) {
	mapper := NewMapper("")

	specs := ParseSpecs(map[string]string{"label": "$const:fixed"})

	params, _ := mapper.Map(specs, map[string]interface{}{"label": "from payload"}, "/")
	assert.Equal(t, "fixed", params["label"])

	params, _ = mapper.Map(specs, nil, "/")
	assert.Equal(t, "fixed", params["label"])
}

func TestMap_AbsentSourceOmitsKey(t *testing.T) {
	mapper := NewMapper("")

	specs := ParseSpecs(map[string]string{
		"present": "a",
		"absent":  "a.b.c",
	})
	params, _ := mapper.Map(specs, map[string]interface{}{"a": "value"}, "/")

	assert.Equal(t, "value", params["present"])
	_, ok := params["absent"]
	assert.False(t, ok, "absent sources must be omitted, not nil")
}

func TestMap_BaselineOverwritesMappedKeys(t *testing.T) {
	mapper := NewMapper("http://localhost")

	specs := ParseSpecs(map[string]string{
		PageLocationKey:   "$const:https://spoofed.example",
		EngagementTimeKey: "$const:9000",
	})
	params, _ := mapper.Map(specs, nil, "/cart")

	assert.Equal(t, "http://localhost/cart", params[PageLocationKey])
	assert.Equal(t, MinimalEngagementMsec, params[EngagementTimeKey])
}

func TestMap_EmptyPathDefaults(t *testing.T) {
	mapper := NewMapper("http://localhost")
	params, _ := mapper.Map(nil, nil, "")
	assert.Equal(t, "http://localhost/", params[PageLocationKey])
}

func TestMap_TrafficSourceExtracted(t *testing.T) {
	mapper := NewMapper("")

	specs := ParseSpecs(map[string]string{
		"ts":    "traffic_source",
		"title": "title",
	})
	payload := map[string]interface{}{
		"title": "home",
		"traffic_source": map[string]interface{}{
			"source":   "google",
			"medium":   "cpc",
			"campaign": "verano",
		},
	}

	params, trafficSource := mapper.Map(specs, payload, "/")

	require.NotNil(t, trafficSource)
	assert.Equal(t, "google", trafficSource["source"])
	assert.Equal(t, "cpc", trafficSource["medium"])
	assert.Equal(t, "verano", trafficSource["campaign"])

	// The key is gone before resolution starts.
	_, ok := params["ts"]
	assert.False(t, ok)
	assert.Equal(t, "home", params["title"])

	// The caller's payload is untouched for the next matched rule.
	_, ok = payload[TrafficSourceKey]
	assert.True(t, ok)
}

func TestMap_TrafficSourceWrongShape(t *testing.T) {
	mapper := NewMapper("")

	payload := map[string]interface{}{"traffic_source": "not-an-object"}
	params, trafficSource := mapper.Map(nil, payload, "/")

	assert.Nil(t, trafficSource)
	_, ok := params[TrafficSourceKey]
	assert.False(t, ok)
}
