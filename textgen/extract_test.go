package textgen

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON_Recovers(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"raw json", `{"title":"Lamps","items":[{"title":"a"}]}`},
		{"json fence", "```json\n{\"title\":\"Lamps\",\"items\":[{\"title\":\"a\"}]}\n```"},
		{"bare fence", "```\n{\"title\":\"Lamps\",\"items\":[{\"title\":\"a\"}]}\n```"},
		{"prose around", "Sure! Here you go:\n{\"title\":\"Lamps\",\"items\":[{\"title\":\"a\"}]}\nEnjoy."},
		{"trailing commas", "{\"title\":\"Lamps\",\"items\":[{\"title\":\"a\",},],}"},
		{"fence and trailing commas", "Here:\n```json\n{\"title\":\"Lamps\",\n\"items\":[{\"title\":\"a\"} ,\n]\n}\n```\nDone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got response
			require.NoError(t, DecodeJSON(tt.raw, &got))
			assert.Equal(t, "Lamps", got.Title)
			require.Len(t, got.Items, 1)
			assert.Equal(t, "a", got.Items[0].Title)
		})
	}
}

func TestExtractJSON_FenceTakesPriority(t *testing.T) {
	raw := "{\"ignored\":true}\n```json\n{\"title\":\"x\"}\n```"
	assert.Equal(t, `{"title":"x"}`, ExtractJSON(raw))
}

func TestDecodeJSON_Malformed(t *testing.T) {
	raw := "I'm sorry, I can't help with that." + strings.Repeat("x", 1000)
	var got response
	err := DecodeJSON(raw, &got)

	var malformed *MalformedResponseError
	require.True(t, errors.As(err, &malformed))
	assert.Len(t, []rune(malformed.Sample), sampleLength)
	assert.True(t, strings.HasPrefix(malformed.Sample, "I'm sorry"))
}

func TestDecodeJSON_BrokenObject(t *testing.T) {
	var got response
	err := DecodeJSON(`{"title": "unterminated}`, &got)

	var malformed *MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	assert.Contains(t, malformed.Error(), "unterminated")
}
