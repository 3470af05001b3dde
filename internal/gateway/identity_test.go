package gateway

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveClientID(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		expected string
	}{
		{
			"forwarded-for first entry",
			map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1, 10.0.0.2"},
			"203.0.113.9",
		},
		{
			"forwarded-for single entry",
			map[string]string{"X-Forwarded-For": "203.0.113.9"},
			"203.0.113.9",
		},
		{
			"real-ip fallback",
			map[string]string{"X-Real-Ip": " 198.51.100.4 "},
			"198.51.100.4",
		},
		{
			"forwarded-for wins over real-ip",
			map[string]string{"X-Forwarded-For": "203.0.113.9", "X-Real-Ip": "198.51.100.4"},
			"203.0.113.9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			for k, v := range tt.headers {
				h.Set(k, v)
			}
			assert.Equal(t, tt.expected, resolveClientID(h))
		})
	}
}

func TestResolveClientID_FallbackHash(t *testing.T) {
	h := http.Header{}
	h.Set("User-Agent", "Mozilla/5.0")
	h.Set("X-Api-Key", "widget-key")

	id1 := resolveClientID(h)
	id2 := resolveClientID(h)

	// Deterministic, and marked as a fallback bucket.
	assert.Equal(t, id1, id2)
	assert.True(t, strings.HasPrefix(id1, "anon-"))

	// Empty headers still resolve to a stable bucket.
	empty := resolveClientID(http.Header{})
	assert.True(t, strings.HasPrefix(empty, "anon-"))
	assert.Equal(t, empty, resolveClientID(http.Header{}))
	assert.NotEqual(t, id1, empty)
}
