// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxErrorBody bounds how much of a failed response is kept on HTTPError.
const maxErrorBody = 64 << 10

// HTTPError is returned for non-2xx responses. Body holds the raw response
// text so callers can classify provider errors.
type HTTPError struct {
	StatusCode int
	Body       string
	URL        string
}

func (e *HTTPError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("HTTP %d from %s: %s", e.StatusCode, e.URL, strings.TrimSpace(body))
}

// StatusCode extracts the status of an *HTTPError anywhere in err's chain,
// or 0 when err is not an HTTP error.
func StatusCode(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode
	}
	return 0
}

// modelAccessPhrases mark a 400/403 as "this key cannot use this model"
// rather than a malformed request.
var modelAccessPhrases = []string{
	"verified",
	"organization must be",
	"does not have access",
	"not available",
	"not found",
}

// IsModelAccessError reports whether err is a 400 or 403 whose body says the
// requested model is unavailable to the caller.
func IsModelAccessError(err error) bool {
	var he *HTTPError
	if !errors.As(err, &he) {
		return false
	}
	if he.StatusCode != http.StatusBadRequest && he.StatusCode != http.StatusForbidden {
		return false
	}
	body := strings.ToLower(he.Body)
	if body == "" {
		return false
	}
	for _, phrase := range modelAccessPhrases {
		if strings.Contains(body, phrase) {
			return true
		}
	}
	return false
}

// Client issues JSON requests and decodes JSON object bodies. The zero value
// is not usable; construct with NewClient.
type Client struct {
	http       *http.Client
	userAgent  string
	maxRetries int
	timeout    time.Duration
}

// NewClient returns a transport that sends userAgent on every request.
// A nil hc uses a fresh http.Client; per-call timeouts come from contexts.
func NewClient(hc *http.Client, userAgent string) *Client {
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{http: hc, userAgent: userAgent}
}

// WithTimeout sets the client-wide request budget. A call that passes no
// timeout uses it, and a call whose own budget is longer is cut to it.
func (c *Client) WithTimeout(d time.Duration) *Client {
	c.timeout = d
	return c
}

// budget resolves the effective timeout for one call.
func (c *Client) budget(timeout time.Duration) time.Duration {
	if c.timeout <= 0 {
		return timeout
	}
	if timeout <= 0 || timeout > c.timeout {
		return c.timeout
	}
	return timeout
}

// GetJSON performs a GET and decodes the body as a JSON object.
func (c *Client) GetJSON(ctx context.Context, url string, headers map[string]string, timeout time.Duration) (map[string]any, error) {
	return c.do(ctx, http.MethodGet, url, nil, headers, timeout)
}

// PostJSON marshals payload, POSTs it and decodes the JSON object response.
func (c *Client) PostJSON(ctx context.Context, url string, payload any, headers map[string]string, timeout time.Duration) (map[string]any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}
	return c.do(ctx, http.MethodPost, url, body, headers, timeout)
}

func (c *Client) do(ctx context.Context, method, url string, body []byte, headers map[string]string, timeout time.Duration) (map[string]any, error) {
	if timeout = c.budget(timeout); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := DoWithRetry(ctx, c.http, req, c.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(raw), URL: url}
	}

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding response from %s: %w", url, err)
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}
