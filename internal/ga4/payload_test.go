package ga4

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPayload_ClientID(t *testing.T) {
	t.Run("kept when supplied", func(t *testing.T) {
		p := BuildPayload("purchase", "visitor-1", nil, nil)
		assert.Equal(t, "visitor-1", p.ClientID)
	})

	t.Run("synthesized when empty", func(t *testing.T) {
		first := BuildPayload("purchase", "", nil, nil)
		second := BuildPayload("purchase", "", nil, nil)

		assert.NotEmpty(t, first.ClientID)
		assert.NotEqual(t, AnonymousClientID, first.ClientID)
		assert.NotEqual(t, first.ClientID, second.ClientID)
	})

	t.Run("synthesized for anonymous sentinel", func(t *testing.T) {
		p := BuildPayload("purchase", AnonymousClientID, nil, nil)
		assert.NotEmpty(t, p.ClientID)
		assert.NotEqual(t, AnonymousClientID, p.ClientID)
	})
}

func TestBuildPayload_EventShape(t *testing.T) {
	p := BuildPayload("purchase", "v1", map[string]interface{}{"a": "b"}, nil)

	require.Len(t, p.Events, 1)
	assert.Equal(t, "purchase", p.Events[0].Name)
	assert.Equal(t, "b", p.Events[0].Params["a"])
	assert.Nil(t, p.TrafficSource)
}

func TestBuildPayload_ItemsWrapping(t *testing.T) {
	params := map[string]interface{}{
		"items": map[string]interface{}{"item_id": "1"},
	}
	p := BuildPayload("purchase", "v1", params, nil)

	items, ok := p.Events[0].Params[ItemsKey].([]map[string]interface{})
	require.True(t, ok, "items must live inside params")
	require.Len(t, items, 1)
	assert.Equal(t, "1", items[0]["item_id"])
	assert.Equal(t, "", items[0]["item_name"])
}

func TestBuildPayload_ItemsValidation(t *testing.T) {
	params := map[string]interface{}{
		"items": []interface{}{
			map[string]interface{}{
				"item_id":   "SKU-1",
				"item_name": "Plan Max",
				"price":     149.99,
				"quantity":  2,
				"coupon":    "VERANO",
				"unlisted":  "dropped",
			},
			"not-a-record",
			42,
		},
	}
	p := BuildPayload("purchase", "v1", params, nil)

	items, ok := p.Events[0].Params[ItemsKey].([]map[string]interface{})
	require.True(t, ok)
	require.Len(t, items, 1, "non-record entries are dropped")

	item := items[0]
	assert.Equal(t, "SKU-1", item["item_id"])
	assert.Equal(t, "Plan Max", item["item_name"])
	assert.Equal(t, 149.99, item["price"])
	assert.Equal(t, 2, item["quantity"])
	assert.Equal(t, "VERANO", item["coupon"])
	_, ok = item["unlisted"]
	assert.False(t, ok, "fields outside the allow-list are not copied")
}

func TestBuildPayload_ItemsAllDropped(t *testing.T) {
	params := map[string]interface{}{
		"items": []interface{}{"junk", 1},
	}
	p := BuildPayload("purchase", "v1", params, nil)

	_, ok := p.Events[0].Params[ItemsKey]
	assert.False(t, ok, "an empty validated list is omitted")
}

func TestBuildPayload_NumericCoercion(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		want     float64
		wantDrop bool
	}{
		{name: "numeric string", value: "12.50", want: 12.5},
		{name: "float", value: 99.99, want: 99.99},
		{name: "int", value: 7, want: 7},
		{name: "garbage string", value: "abc", wantDrop: true},
		{name: "object", value: map[string]interface{}{}, wantDrop: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := BuildPayload("purchase", "v1", map[string]interface{}{"value": tt.value}, nil)
			got, ok := p.Events[0].Params["value"]
			if tt.wantDrop {
				assert.False(t, ok, "uncoercible numeric fields are dropped")
			} else {
				require.True(t, ok)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestBuildPayload_TaxAndShippingCoerced(t *testing.T) {
	p := BuildPayload("purchase", "v1", map[string]interface{}{
		"tax":      "1.99",
		"shipping": "bad",
	}, nil)

	assert.Equal(t, 1.99, p.Events[0].Params["tax"])
	_, ok := p.Events[0].Params["shipping"]
	assert.False(t, ok)
}

func TestBuildPayload_TrafficSource(t *testing.T) {
	t.Run("full block", func(t *testing.T) {
		p := BuildPayload("page_view", "v1", nil, map[string]interface{}{
			"source":   "google",
			"medium":   "cpc",
			"campaign": "verano",
		})

		require.NotNil(t, p.TrafficSource)
		assert.Equal(t, "google", p.TrafficSource.Source)
		assert.Equal(t, "cpc", p.TrafficSource.Medium)
		assert.Equal(t, "verano", p.TrafficSource.Name)
	})

	t.Run("sentinel defaults", func(t *testing.T) {
		p := BuildPayload("page_view", "v1", nil, map[string]interface{}{
			"campaign": "verano",
		})

		require.NotNil(t, p.TrafficSource)
		assert.Equal(t, "(direct)", p.TrafficSource.Source)
		assert.Equal(t, "(none)", p.TrafficSource.Medium)
	})
}
