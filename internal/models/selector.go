// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package models picks the OpenRouter model for each research task. A pinned
// model always wins; otherwise the last choice is remembered in a memo and
// reused without touching the network, and only a cold memo triggers a
// catalog probe.
package models

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/last30days/internal/logging"
	"github.com/pdiddy/last30days/internal/memo"
	"github.com/pdiddy/last30days/pkg/types"
)

// Task identifies a model-backed research task. The value doubles as its
// memo key.
type Task string

const (
	TaskReddit Task = "openrouter_reddit"
	TaskX      Task = "openrouter_x"
)

// Tasks lists every task in display order.
var Tasks = []Task{TaskReddit, TaskX}

// RedditChain is the Reddit preference order, best first.
var RedditChain = []string{
	"openai/gpt-5.2:online",
	"openai/gpt-5.1:online",
	"openai/gpt-5:online",
	"openai/gpt-4o:online",
}

// XDefault is the X model. X selection never probes the catalog.
const XDefault = "x-ai/grok-4.1-fast:online"

const onlineSuffix = ":online"

// Choice pairs a task with its resolved model.
type Choice struct {
	Task  Task   `json:"task" yaml:"task"`
	Model string `json:"model" yaml:"model"`
}

// CatalogProber lists the model ids the API currently serves.
type CatalogProber interface {
	Models(ctx context.Context) (map[string]bool, error)
}

// Selector resolves models. Memo and Catalog may be nil: a nil memo always
// misses, a nil catalog always fails the probe.
type Selector struct {
	Memo    memo.Memo
	Catalog CatalogProber
	Log     *zap.Logger
}

// Select returns the model for task. It never fails: every degraded path
// ends at the task's fallback model.
func (s *Selector) Select(ctx context.Context, task Task, override string) string {
	if m, ok := s.resolveOverride(override); ok {
		return m
	}
	if m, ok := s.resolveMemo(ctx, task); ok {
		return m
	}
	m, _ := s.resolveProbeOrFallback(ctx, task)
	return m
}

// SelectAll resolves every task using the pins in cfg. Without an API key
// no model can be used and the result is empty.
func (s *Selector) SelectAll(ctx context.Context, cfg types.Config) map[Task]string {
	out := make(map[Task]string)
	if !cfg.HasAPIKey() {
		return out
	}
	out[TaskReddit] = s.Select(ctx, TaskReddit, cfg.RedditModel)
	out[TaskX] = s.Select(ctx, TaskX, cfg.XModel)
	return out
}

// Remember memoizes model for task, e.g. after a retry found a working one.
func (s *Selector) Remember(ctx context.Context, task Task, model string) {
	s.store(ctx, task, model)
}

func (s *Selector) resolveOverride(override string) (string, bool) {
	if override == "" {
		return "", false
	}
	return override, true
}

func (s *Selector) resolveMemo(ctx context.Context, task Task) (string, bool) {
	if s.Memo == nil {
		return "", false
	}
	v, ok, err := s.Memo.Get(ctx, string(task))
	if err != nil {
		s.log().Warn("model memo read failed", zap.String("task", string(task)), zap.Error(err))
		return "", false
	}
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// resolveProbeOrFallback always yields a model; the bool reports whether it
// came from the catalog.
func (s *Selector) resolveProbeOrFallback(ctx context.Context, task Task) (string, bool) {
	if task == TaskReddit {
		if m, ok := s.probe(ctx); ok {
			s.store(ctx, task, m)
			return m, true
		}
	}
	m := Fallback(task)
	s.store(ctx, task, m)
	return m, false
}

func (s *Selector) probe(ctx context.Context) (string, bool) {
	if s.Catalog == nil {
		return "", false
	}
	available, err := s.Catalog.Models(ctx)
	if err != nil {
		s.log().Warn("model catalog probe failed, using fallback", zap.Error(err))
		return "", false
	}
	if m, ok := FirstAvailable(RedditChain, available); ok {
		return m, true
	}
	s.log().Warn("no preferred Reddit model in catalog, using fallback", zap.Int("catalog_size", len(available)))
	return "", false
}

func (s *Selector) store(ctx context.Context, task Task, model string) {
	if s.Memo == nil {
		return
	}
	if err := s.Memo.Set(ctx, string(task), model); err != nil {
		s.log().Warn("model memo write failed", zap.String("task", string(task)), zap.Error(err))
	}
}

func (s *Selector) log() *zap.Logger {
	return logging.OrNop(s.Log)
}

// Fallback returns the model used when nothing better is known.
func Fallback(task Task) string {
	if task == TaskX {
		return XDefault
	}
	return RedditChain[0]
}

// FirstAvailable walks chain in order and returns the first entry present in
// available either verbatim or without its ":online" suffix.
func FirstAvailable(chain []string, available map[string]bool) (string, bool) {
	for _, m := range chain {
		if available[m] || available[strings.TrimSuffix(m, onlineSuffix)] {
			return m, true
		}
	}
	return "", false
}

// NextInChain returns the first chain entry after failed, or the head of the
// chain when failed is not part of it. It reports false when nothing
// different is left to try.
func NextInChain(task Task, failed string) (string, bool) {
	if task != TaskReddit {
		return "", false
	}
	start := 0
	for i, m := range RedditChain {
		if m == failed {
			start = i + 1
			break
		}
	}
	for _, m := range RedditChain[start:] {
		if m != failed {
			return m, true
		}
	}
	return "", false
}
