// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"strings"
	"time"
)

// Depth trades thoroughness for latency. Larger depths ask the model for
// more items and allow a longer request budget.
type Depth string

const (
	DepthQuick   Depth = "quick"
	DepthDefault Depth = "default"
	DepthDeep    Depth = "deep"
)

type depthProfile struct {
	min, max int
	timeout  time.Duration
}

// Item hints over-ask on purpose: many results are dropped by the date
// window afterwards.
var depthProfiles = map[Depth]depthProfile{
	DepthQuick:   {15, 25, 90 * time.Second},
	DepthDefault: {30, 50, 120 * time.Second},
	DepthDeep:    {70, 100, 180 * time.Second},
}

// ParseDepth maps a flag value to a Depth. Unknown values mean default.
func ParseDepth(s string) Depth {
	d := Depth(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := depthProfiles[d]; ok {
		return d
	}
	return DepthDefault
}

func (d Depth) profile() depthProfile {
	if p, ok := depthProfiles[d]; ok {
		return p
	}
	return depthProfiles[DepthDefault]
}

// ItemRange is the (min, max) number of items requested from the model.
func (d Depth) ItemRange() (int, int) {
	p := d.profile()
	return p.min, p.max
}

// Timeout is the request budget for one primary search.
func (d Depth) Timeout() time.Duration {
	return d.profile().timeout
}
