// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package memo stores small string values that survive between runs, such
// as the model chosen for each research task. Values never expire; a stale
// entry is replaced only by an explicit Set or Clear.
package memo

import (
	"context"
	"sort"
	"sync"
)

// Memo is a string key-value store. Get reports a miss with ok=false and a
// nil error; errors are reserved for backend failures.
type Memo interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Keys lists stored keys in sorted order.
	Keys(ctx context.Context) ([]string, error)
	// Clear removes every entry.
	Clear(ctx context.Context) error
	Close() error
}

// Memory is an in-process Memo. The zero value is ready to use.
type Memory struct {
	mu sync.Mutex
	m  map[string]string
}

// NewMemory returns an empty in-process memo.
func NewMemory() *Memory {
	return &Memory{}
}

func (s *Memory) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *Memory) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.m == nil {
		s.m = make(map[string]string)
	}
	s.m[key] = value
	return nil
}

func (s *Memory) Keys(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedKeys(s.m), nil
}

func (s *Memory) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m = nil
	return nil
}

func (s *Memory) Close() error { return nil }

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
