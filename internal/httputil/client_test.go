// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/last30days/pkg/types"
)

func TestClientGetJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "test-agent/1.0", r.Header.Get("User-Agent"))
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"data":[{"id":"a"}]}`)
	}))
	defer ts.Close()

	c := NewClient(ts.Client(), "test-agent/1.0")
	got, err := c.GetJSON(context.Background(), ts.URL, map[string]string{"Authorization": "Bearer k"}, time.Second)
	require.NoError(t, err)

	data, ok := got["data"].([]any)
	require.True(t, ok)
	assert.Len(t, data, 1)
}

func TestClientPostJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "m", body["model"])
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer ts.Close()

	c := NewClient(ts.Client(), "")
	got, err := c.PostJSON(context.Background(), ts.URL, map[string]any{"model": "m"}, nil, time.Second)
	require.NoError(t, err)
	assert.Equal(t, true, got["ok"])
}

func TestClientNon2xxReturnsHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"message":"Your organization must be verified"}}`)
	}))
	defer ts.Close()

	c := NewClient(ts.Client(), "")
	_, err := c.GetJSON(context.Background(), ts.URL, nil, time.Second)
	require.Error(t, err)

	var he *HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusForbidden, he.StatusCode)
	assert.Contains(t, he.Body, "organization must be verified")
	assert.Equal(t, http.StatusForbidden, StatusCode(err))
	assert.True(t, IsModelAccessError(err))
}

func TestClientMalformedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `not json`)
	}))
	defer ts.Close()

	c := NewClient(ts.Client(), "")
	_, err := c.GetJSON(context.Background(), ts.URL, nil, time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding response")
	assert.Equal(t, 0, StatusCode(err))
}

func TestClientTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer ts.Close()

	c := NewClient(ts.Client(), "")
	_, err := c.GetJSON(context.Background(), ts.URL, nil, 50*time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClientDefaultTimeoutCapsCallBudget(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer ts.Close()

	c := NewClient(ts.Client(), "").WithTimeout(50 * time.Millisecond)

	start := time.Now()
	_, err := c.GetJSON(context.Background(), ts.URL, nil, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = c.GetJSON(context.Background(), ts.URL, nil, time.Minute)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestClientBudget(t *testing.T) {
	tests := []struct {
		name string
		def  time.Duration
		call time.Duration
		want time.Duration
	}{
		{"no default keeps call budget", 0, 5 * time.Second, 5 * time.Second},
		{"no default no call budget", 0, 0, 0},
		{"default fills missing budget", 30 * time.Second, 0, 30 * time.Second},
		{"shorter call budget wins", 30 * time.Second, 5 * time.Second, 5 * time.Second},
		{"longer call budget is capped", 30 * time.Second, time.Minute, 30 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(nil, "").WithTimeout(tt.def)
			assert.Equal(t, tt.want, c.budget(tt.call))
		})
	}
}

func TestIsModelAccessError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("not found"), false},
		{"400 not found", &HTTPError{StatusCode: 400, Body: "Model Not Found"}, true},
		{"403 no access", &HTTPError{StatusCode: 403, Body: "key does not have access"}, true},
		{"400 unrelated", &HTTPError{StatusCode: 400, Body: "invalid json"}, false},
		{"404 not found", &HTTPError{StatusCode: 404, Body: "not found"}, false},
		{"403 empty body", &HTTPError{StatusCode: 403}, false},
		{"wrapped", fmt.Errorf("search: %w", &HTTPError{StatusCode: 400, Body: "model not available"}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsModelAccessError(tt.err))
		})
	}
}

func TestOpenRouterHeaders(t *testing.T) {
	h := OpenRouterHeaders(" sk-or-1 ", types.HTTPConfig{})
	assert.Equal(t, "Bearer sk-or-1", h["Authorization"])
	assert.Equal(t, types.DefaultReferer, h["HTTP-Referer"])
	assert.Equal(t, types.DefaultTitle, h["X-Title"])

	h = OpenRouterHeaders("", types.HTTPConfig{Referer: "https://example.org", Title: "mine"})
	_, hasAuth := h["Authorization"]
	assert.False(t, hasAuth)
	assert.Equal(t, "https://example.org", h["HTTP-Referer"])
	assert.Equal(t, "mine", h["X-Title"])
}

func TestBaseURL(t *testing.T) {
	assert.Equal(t, types.DefaultBaseURL, BaseURL(types.HTTPConfig{}))
	assert.Equal(t, "http://127.0.0.1:9000/v1", BaseURL(types.HTTPConfig{BaseURL: "http://127.0.0.1:9000/v1/"}))
}
