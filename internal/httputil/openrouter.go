// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"strings"

	"github.com/pdiddy/last30days/pkg/types"
)

// OpenRouterHeaders returns the bearer and attribution headers sent with
// every OpenRouter request. Empty attribution fields use the defaults.
func OpenRouterHeaders(apiKey string, h types.HTTPConfig) map[string]string {
	referer := h.Referer
	if referer == "" {
		referer = types.DefaultReferer
	}
	title := h.Title
	if title == "" {
		title = types.DefaultTitle
	}
	headers := map[string]string{
		"HTTP-Referer": referer,
		"X-Title":      title,
	}
	if key := strings.TrimSpace(apiKey); key != "" {
		headers["Authorization"] = "Bearer " + key
	}
	return headers
}

// BaseURL returns the configured OpenRouter root without a trailing slash.
func BaseURL(h types.HTTPConfig) string {
	if h.BaseURL == "" {
		return types.DefaultBaseURL
	}
	return strings.TrimRight(h.BaseURL, "/")
}
