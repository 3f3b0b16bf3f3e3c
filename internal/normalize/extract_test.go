// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractOutputText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"output string", `{"output":"hello"}`, "hello"},
		{"message segment", `{"output":[{"type":"message","content":[{"type":"refusal"},{"type":"output_text","text":"from message"}]}]}`, "from message"},
		{"skips tool calls", `{"output":[{"type":"web_search_call"},{"type":"message","content":[{"type":"output_text","text":"after tool"}]}]}`, "after tool"},
		{"text object", `{"output":[{"text":"plain object"}]}`, "plain object"},
		{"bare string entry", `{"output":[42,"bare"]}`, "bare"},
		{"first non-empty wins", `{"output":[{"text":""},{"text":"second"}]}`, "second"},
		{"choices", `{"choices":[{"message":{"role":"assistant","content":"legacy"}}]}`, "legacy"},
		{"choices without message skipped", `{"choices":[{"delta":{}},{"message":{"content":"later"}}]}`, "later"},
		{"empty output falls to choices", `{"output":[],"choices":[{"message":{"content":"fallback"}}]}`, "fallback"},
		{"nothing", `{"id":"x"}`, ""},
		{"output wrong type", `{"output":{"text":"nested"}}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractOutputText(decode(t, tt.raw)))
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		wantOK bool
		want   int // number of items
	}{
		{"bare", `{"items":[{},{}]}`, true, 2},
		{"fenced with prose", "Sure!\n```json\n{\"items\":[{}]}\n```\nEnjoy.", true, 1},
		{"no items key", `{"results":[]}`, false, 0},
		{"invalid json", `{"items":[}`, false, 0},
		{"no braces", `items`, false, 0},
		{"trailing brace in prose breaks greedy match", `{"items":[]} and {curly}`, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, ok := ExtractJSONObject(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				items, _ := obj["items"].([]any)
				assert.Len(t, items, tt.want)
			}
		})
	}
}
