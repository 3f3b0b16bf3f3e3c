// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search issues the research queries: one web-search request per
// source to the OpenRouter Responses API, plus the deterministic per-community
// search against Reddit's public JSON endpoint.
package search

import (
	"context"
	"fmt"
	"text/template"

	"go.uber.org/zap"

	"github.com/pdiddy/last30days/internal/dates"
	"github.com/pdiddy/last30days/internal/httputil"
	"github.com/pdiddy/last30days/internal/logging"
	"github.com/pdiddy/last30days/pkg/types"
)

// Client talks to OpenRouter and Reddit. It holds no mutable state.
type Client struct {
	http    *httputil.Client
	baseURL string
	headers map[string]string
	log     *zap.Logger

	// redditHeaders identify the app to Reddit and never carry the key.
	redditHeaders map[string]string
}

// NewClient builds a client from cfg's key and HTTP settings.
func NewClient(hc *httputil.Client, cfg types.Config, log *zap.Logger) *Client {
	return &Client{
		http:    hc,
		baseURL: httputil.BaseURL(cfg.HTTP),
		headers: httputil.OpenRouterHeaders(cfg.APIKey, cfg.HTTP),
		log:     logging.OrNop(log),

		redditHeaders: httputil.OpenRouterHeaders("", cfg.HTTP),
	}
}

// SearchReddit asks model to find Reddit threads about topic and returns the
// raw response body for the normalizer. Transport and HTTP errors are
// returned unchanged so callers can classify them.
func (c *Client) SearchReddit(ctx context.Context, model, topic string, window dates.Window, depth Depth) (map[string]any, error) {
	return c.searchDomain(ctx, redditPromptTmpl, "reddit.com", model, topic, window, depth)
}

// SearchX asks model to find X posts about topic.
func (c *Client) SearchX(ctx context.Context, model, topic string, window dates.Window, depth Depth) (map[string]any, error) {
	return c.searchDomain(ctx, xPromptTmpl, "x.com", model, topic, window, depth)
}

func (c *Client) searchDomain(ctx context.Context, tmpl *template.Template, domain, model, topic string, window dates.Window, depth Depth) (map[string]any, error) {
	input, err := renderPrompt(tmpl, topic, window, depth)
	if err != nil {
		return nil, fmt.Errorf("rendering %s prompt: %w", domain, err)
	}
	payload := responsesRequest{
		Model: model,
		Tools: []webSearchTool{{
			Type:    "web_search",
			Filters: webSearchFilter{AllowedDomains: []string{domain}},
		}},
		Include: []string{"web_search_call.action.sources"},
		Input:   input,
	}

	c.log.Debug("searching", zap.String("domain", domain), zap.String("model", model), zap.String("depth", string(depth)))
	return c.http.PostJSON(ctx, c.baseURL+"/responses", payload, c.headers, depth.Timeout())
}

// responsesRequest is the body of a Responses API call with web search.
type responsesRequest struct {
	Model   string          `json:"model"`
	Tools   []webSearchTool `json:"tools"`
	Include []string        `json:"include"`
	Input   string          `json:"input"`
}

type webSearchTool struct {
	Type    string          `json:"type"`
	Filters webSearchFilter `json:"filters"`
}

type webSearchFilter struct {
	AllowedDomains []string `json:"allowed_domains"`
}
