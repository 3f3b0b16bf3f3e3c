// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sources decides which research sources a run may use, given the
// configured credentials, the caller's request and the local X helper.
package sources

import (
	"strings"

	"github.com/pdiddy/last30days/pkg/types"
)

// Availability is what the current credentials can reach.
type Availability string

const (
	// AvailableBoth means the OpenRouter key is present, so Reddit and X
	// retrieval are both possible.
	AvailableBoth Availability = "both"
	// AvailableWeb means no key is configured and only the external web
	// search fallback remains.
	AvailableWeb Availability = "web"
)

// Requested source tokens accepted from the caller.
const (
	RequestAuto   = "auto"
	RequestWeb    = "web"
	RequestBoth   = "both"
	RequestReddit = "reddit"
	RequestX      = "x"
)

// NoKeyAdvisory is returned when a specific source was requested but no key
// is configured.
const NoKeyAdvisory = "No OPENROUTER_API_KEY configured. Using WebSearch fallback. Add key to .env in project root."

// Set is the effective set of sources for a run. Raw carries a requested
// token the resolver does not understand; such a token passes through
// unchanged and no flag is set.
type Set struct {
	Reddit bool
	X      bool
	Web    bool
	Raw    string
}

// Token renders the set as its legacy string form.
func (s Set) Token() string {
	if s.Raw != "" {
		return s.Raw
	}
	switch {
	case s.Reddit && s.X && s.Web:
		return "all"
	case s.Reddit && s.X:
		return "both"
	case s.Reddit && s.Web:
		return "reddit-web"
	case s.X && s.Web:
		return "x-web"
	case s.Reddit:
		return "reddit"
	case s.X:
		return "x"
	case s.Web:
		return "web"
	}
	return ""
}

func (s Set) String() string { return s.Token() }

// IsZero reports whether the set names no source at all.
func (s Set) IsZero() bool {
	return !s.Reddit && !s.X && !s.Web && s.Raw == ""
}

// ParseSet is the inverse of Token. Unrecognized tokens are kept in Raw.
func ParseSet(token string) Set {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "all":
		return Set{Reddit: true, X: true, Web: true}
	case "both":
		return Set{Reddit: true, X: true}
	case "reddit-web":
		return Set{Reddit: true, Web: true}
	case "x-web":
		return Set{X: true, Web: true}
	case "reddit":
		return Set{Reddit: true}
	case "x":
		return Set{X: true}
	case "web":
		return Set{Web: true}
	case "":
		return Set{}
	}
	return Set{Raw: token}
}

// ResolveAvailability reports "both" iff an OpenRouter key is configured.
func ResolveAvailability(cfg types.Config) Availability {
	if cfg.HasAPIKey() {
		return AvailableBoth
	}
	return AvailableWeb
}

// MissingKeys reports which credentials are absent: "none" when the key is
// present, otherwise "both" since a single key serves Reddit and X.
func MissingKeys(cfg types.Config) string {
	if cfg.HasAPIKey() {
		return "none"
	}
	return "both"
}

// ResolveEffective combines the requested token with what is available.
// The returned message is non-empty only when the caller asked for a
// specific source that cannot be honored without a key.
func ResolveEffective(requested string, available Availability, includeWeb bool) (Set, string) {
	if available == AvailableWeb {
		msg := ""
		if requested != RequestAuto && requested != RequestWeb {
			msg = NoKeyAdvisory
		}
		return Set{Web: true}, msg
	}

	switch requested {
	case RequestAuto, RequestBoth:
		return Set{Reddit: true, X: true, Web: includeWeb}, ""
	case RequestWeb:
		return Set{Web: true}, ""
	case RequestReddit:
		return Set{Reddit: true, Web: includeWeb}, ""
	case RequestX:
		return Set{X: true, Web: includeWeb}, ""
	}
	return Set{Raw: requested}, ""
}
