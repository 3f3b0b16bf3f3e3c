// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"github.com/pdiddy/last30days/internal/bird"
	"github.com/pdiddy/last30days/pkg/types"
)

// XStrategy names how X posts are retrieved.
type XStrategy string

const (
	// XBird uses the local helper's logged-in session at no API cost.
	XBird XStrategy = "bird"
	// XAI routes X search through the OpenRouter X model.
	XAI XStrategy = "xai"
	// XNone means X retrieval is unavailable.
	XNone XStrategy = "none"
)

// Helper is the local X helper as seen by the resolver. bird.Probe
// implements it.
type Helper interface {
	IsInstalled() bool
	Identity() (string, bool)
	Status() bird.Status
}

// ResolveXStrategy prefers the helper when it is installed and logged in,
// then the API key, then nothing. A nil helper counts as not installed.
func ResolveXStrategy(cfg types.Config, helper Helper) XStrategy {
	if helper != nil && helper.IsInstalled() {
		if _, ok := helper.Identity(); ok {
			return XBird
		}
	}
	if cfg.HasAPIKey() {
		return XAI
	}
	return XNone
}
