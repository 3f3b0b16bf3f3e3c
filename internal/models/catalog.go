// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package models

import (
	"context"
	"fmt"
	"time"

	"github.com/pdiddy/last30days/internal/httputil"
	"github.com/pdiddy/last30days/pkg/types"
)

const catalogTimeout = 15 * time.Second

// OpenRouterCatalog lists models through GET {base}/models.
type OpenRouterCatalog struct {
	client  *httputil.Client
	baseURL string
	headers map[string]string
}

// NewOpenRouterCatalog returns a prober using cfg's key and HTTP settings.
func NewOpenRouterCatalog(client *httputil.Client, cfg types.Config) *OpenRouterCatalog {
	return &OpenRouterCatalog{
		client:  client,
		baseURL: httputil.BaseURL(cfg.HTTP),
		headers: httputil.OpenRouterHeaders(cfg.APIKey, cfg.HTTP),
	}
}

// Models returns the set of data[].id values. A body without a data list
// or with no usable ids is an error.
func (c *OpenRouterCatalog) Models(ctx context.Context) (map[string]bool, error) {
	resp, err := c.client.GetJSON(ctx, c.baseURL+"/models", c.headers, catalogTimeout)
	if err != nil {
		return nil, fmt.Errorf("listing models: %w", err)
	}
	data, ok := resp["data"].([]any)
	if !ok {
		return nil, fmt.Errorf("listing models: response has no data list")
	}
	ids := make(map[string]bool, len(data))
	for _, entry := range data {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if id, ok := m["id"].(string); ok && id != "" {
			ids[id] = true
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("listing models: catalog is empty")
	}
	return ids, nil
}
