// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package memo

import (
	"context"
	"fmt"

	"github.com/pdiddy/last30days/pkg/types"
)

// Open builds the memo backend named by cfg.Backend. An empty backend means
// the file backend.
func Open(ctx context.Context, cfg types.CacheConfig) (Memo, error) {
	switch cfg.Backend {
	case types.MemoMemory:
		return NewMemory(), nil

	case "", types.MemoFile:
		if cfg.Path == "" {
			return nil, fmt.Errorf("file memo requires a path")
		}
		return NewFile(cfg.Path), nil

	case types.MemoSQLite:
		if cfg.Path == "" {
			return nil, fmt.Errorf("sqlite memo requires a path")
		}
		return NewSQLite(cfg.Path)

	case types.MemoRedis:
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("redis address is required")
		}
		return NewRedis(ctx, RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})

	default:
		return nil, fmt.Errorf("unknown memo backend: %s", cfg.Backend)
	}
}
