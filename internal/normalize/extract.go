// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"encoding/json"
	"regexp"
	"sort"
)

// itemsObjectRe grabs everything from the first "{" to the last "}" as long
// as "items" appears in between. Models wrap their JSON in prose and code
// fences; the greedy span usually recovers the whole object.
var itemsObjectRe = regexp.MustCompile(`\{[\s\S]*"items"[\s\S]*\}`)

// ExtractOutputText finds the model-authored text in a response body. It
// probes, in order: an "output" string; an "output" list of message
// segments, text-bearing objects or bare strings; the legacy
// choices[].message.content shape. It returns "" when none yields text.
func ExtractOutputText(raw map[string]any) string {
	switch out := raw["output"].(type) {
	case string:
		if out != "" {
			return out
		}
	case []any:
		for _, entry := range out {
			if text := segmentText(entry); text != "" {
				return text
			}
		}
	}

	if choices, ok := raw["choices"].([]any); ok {
		for _, c := range choices {
			choice, ok := c.(map[string]any)
			if !ok {
				continue
			}
			msg, ok := choice["message"].(map[string]any)
			if !ok {
				continue
			}
			content, _ := msg["content"].(string)
			return content
		}
	}
	return ""
}

func segmentText(entry any) string {
	switch seg := entry.(type) {
	case string:
		return seg
	case map[string]any:
		if seg["type"] == "message" {
			content, _ := seg["content"].([]any)
			for _, c := range content {
				part, ok := c.(map[string]any)
				if ok && part["type"] == "output_text" {
					text, _ := part["text"].(string)
					return text
				}
			}
			return ""
		}
		text, _ := seg["text"].(string)
		return text
	}
	return ""
}

// ExtractJSONObject decodes the first {...} span that mentions "items". It
// reports false when no span matches or the span is not a JSON object.
func ExtractJSONObject(text string) (map[string]any, bool) {
	span := itemsObjectRe.FindString(text)
	if span == "" {
		return nil, false
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(span), &obj); err != nil {
		return nil, false
	}
	return obj, obj != nil
}

// topLevelKeys lists a response's keys for diagnostics.
func topLevelKeys(raw map[string]any) []string {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
