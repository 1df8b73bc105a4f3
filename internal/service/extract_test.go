package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractObject(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]interface{}
	}{
		{
			name:  "surrounding prose",
			input: `prefix {"a":1} suffix`,
			want:  map[string]interface{}{"a": float64(1)},
		},
		{
			name:  "plain object",
			input: `{"title":"Feedback"}`,
			want:  map[string]interface{}{"title": "Feedback"},
		},
		{
			name:  "markdown fences outside braces",
			input: "```json\n{\"suggestion\":\"Better?\"}\n```",
			want:  map[string]interface{}{"suggestion": "Better?"},
		},
		{
			name:  "no braces",
			input: "no braces here",
			want:  nil,
		},
		{
			name:  "unterminated object",
			input: `{broken`,
			want:  nil,
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "close brace before open",
			input: `} nothing {`,
			want:  nil,
		},
		{
			// The span rule covers first '{' to last '}', so two
			// adjacent objects produce an unparseable substring.
			name:  "two adjacent objects",
			input: `{"a":1}{"b":2}`,
			want:  nil,
		},
		{
			name:  "nested object",
			input: `The result: {"theme":{"primaryColor":"#fff"}}`,
			want:  map[string]interface{}{"theme": map[string]interface{}{"primaryColor": "#fff"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractObject(tt.input)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractInto(t *testing.T) {
	var payload struct {
		Suggestion string `json:"suggestion"`
	}

	require.True(t, extractInto(`Sure! Here you go: {"suggestion":"How was your day?"}`, &payload))
	assert.Equal(t, "How was your day?", payload.Suggestion)

	assert.False(t, extractInto("not json at all", &payload))
	assert.False(t, extractInto(`{"suggestion": }`, &payload))
}
