// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/pdiddy/last30days/internal/bird"
	"github.com/pdiddy/last30days/internal/httputil"
	"github.com/pdiddy/last30days/internal/logging"
	"github.com/pdiddy/last30days/internal/memo"
	"github.com/pdiddy/last30days/internal/models"
	"github.com/pdiddy/last30days/internal/search"
	"github.com/pdiddy/last30days/pkg/types"
)

// Open builds a production pipeline from cfg. The caller must Close it to
// release the model memo.
func Open(ctx context.Context, cfg types.Config, log *zap.Logger) (*Pipeline, error) {
	log = logging.OrNop(log)
	m, err := memo.Open(ctx, cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("opening model memo: %w", err)
	}

	hc := httputil.NewClient(&http.Client{}, cfg.HTTP.UserAgent).WithTimeout(cfg.HTTP.Timeout)
	return &Pipeline{
		Config: cfg,
		Search: search.NewClient(hc, cfg, log),
		Selector: &models.Selector{
			Memo:    m,
			Catalog: models.NewOpenRouterCatalog(hc, cfg),
			Log:     log,
		},
		Bird: bird.NewProbe(cfg.BirdBinary),
		Log:  log,
	}, nil
}

// Close releases the selector's memo.
func (p *Pipeline) Close() error {
	if p.Selector == nil || p.Selector.Memo == nil {
		return nil
	}
	return p.Selector.Memo.Close()
}
