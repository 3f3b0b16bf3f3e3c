// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the last30days pipeline:
// the runtime configuration and the canonical research item consumed by
// synthesis.
package types

import "math"

// MaxCount bounds engagement counters decoded from untrusted JSON.
const MaxCount = math.MaxInt32

// Count converts a decoded JSON number to an engagement counter, clamped to
// [-MaxCount, MaxCount] and truncated toward zero. NaN yields 0.
func Count(f float64) int {
	switch {
	case math.IsNaN(f):
		return 0
	case f > MaxCount:
		return MaxCount
	case f < -MaxCount:
		return -MaxCount
	}
	return int(f)
}

// Source names the platform a research item came from.
type Source string

const (
	SourceReddit Source = "reddit"
	SourceX      Source = "x"
)

// Engagement carries platform counters when the retrieval path exposes them.
// Only the deterministic subreddit search and the bird helper fill it.
type Engagement struct {
	Score    int `json:"score,omitempty" yaml:"score,omitempty"`
	Comments int `json:"comments,omitempty" yaml:"comments,omitempty"`
	Likes    int `json:"likes,omitempty" yaml:"likes,omitempty"`
	Reposts  int `json:"reposts,omitempty" yaml:"reposts,omitempty"`
}

// ResearchItem is the canonical, validated record produced by the
// normalizer. Items reach this shape only after their URL has been checked
// against the source domain.
type ResearchItem struct {
	// ID is run-scoped: R<n> for model-sourced Reddit items, RS<n> for
	// subreddit search items, X<n> for X posts.
	ID string `json:"id" yaml:"id"`

	Title string `json:"title" yaml:"title"`

	// URL always contains the source domain (reddit.com or x.com).
	URL string `json:"url" yaml:"url"`

	// Subreddit is the community name without the "r/" prefix (Reddit only).
	Subreddit string `json:"subreddit,omitempty" yaml:"subreddit,omitempty"`

	// Author is the handle without the "@" prefix (X only).
	Author string `json:"author_handle,omitempty" yaml:"author_handle,omitempty"`

	// Text is the post body when the retrieval path returns one (X only).
	Text string `json:"text,omitempty" yaml:"text,omitempty"`

	// Date is YYYY-MM-DD, or nil when unknown or malformed.
	Date *string `json:"date" yaml:"date"`

	WhyRelevant string `json:"why_relevant" yaml:"why_relevant"`

	// Relevance is passed through from the model, clamped to [0, 1].
	Relevance float64 `json:"relevance" yaml:"relevance"`

	Source Source `json:"source" yaml:"source"`

	Engagement *Engagement `json:"engagement,omitempty" yaml:"engagement,omitempty"`
}

// DateString returns the item date or "" when it is unknown.
func (r ResearchItem) DateString() string {
	if r.Date == nil {
		return ""
	}
	return *r.Date
}
