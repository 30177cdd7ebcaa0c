package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	data := map[string]interface{}{
		"business_unit": "X",
		"ecommerce": map[string]interface{}{
			"transaction_id": "T1",
			"value":          "99.99",
			"items":          []interface{}{map[string]interface{}{"item_id": "1"}},
			"deep": map[string]interface{}{
				"leaf": 42,
			},
		},
		"scalar": "not-a-map",
		"null":   nil,
	}

	tests := []struct {
		name      string
		path      []string
		want      interface{}
		wantFound bool
	}{
		{
			name:      "top-level key",
			path:      []string{"business_unit"},
			want:      "X",
			wantFound: true,
		},
		{
			name:      "nested key",
			path:      []string{"ecommerce", "transaction_id"},
			want:      "T1",
			wantFound: true,
		},
		{
			name:      "deeply nested key",
			path:      []string{"ecommerce", "deep", "leaf"},
			want:      42,
			wantFound: true,
		},
		{
			name:      "list value returned as-is",
			path:      []string{"ecommerce", "items"},
			want:      data["ecommerce"].(map[string]interface{})["items"],
			wantFound: true,
		},
		{
			name:      "missing top-level key",
			path:      []string{"nope"},
			wantFound: false,
		},
		{
			name:      "missing nested key",
			path:      []string{"ecommerce", "nope"},
			wantFound: false,
		},
		{
			name:      "descend through non-map",
			path:      []string{"scalar", "anything"},
			wantFound: false,
		},
		{
			name:      "descend through nil value",
			path:      []string{"null", "anything"},
			wantFound: false,
		},
		{
			name:      "path past the leaf",
			path:      []string{"ecommerce", "transaction_id", "more"},
			wantFound: false,
		},
		{
			name:      "empty path",
			path:      nil,
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := Resolve(data, tt.path)
			assert.Equal(t, tt.wantFound, found)
			if tt.wantFound {
				assert.Equal(t, tt.want, got)
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

func TestResolve_NilData(t *testing.T) {
	got, found := Resolve(nil, []string{"a", "b"})
	assert.False(t, found)
	assert.Nil(t, got)
}
