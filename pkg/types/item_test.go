// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCount(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{42.9, 42},
		{-7, -7},
		{math.MaxInt32, MaxCount},
		{1e300, MaxCount},
		{-1e300, -MaxCount},
		{math.Inf(1), MaxCount},
		{math.Inf(-1), -MaxCount},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Count(tt.in), "Count(%v)", tt.in)
	}
}
