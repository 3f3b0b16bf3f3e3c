// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/last30days/pkg/types"
)

func TestResolveAvailability(t *testing.T) {
	assert.Equal(t, AvailableBoth, ResolveAvailability(types.Config{APIKey: "sk-or-1"}))
	assert.Equal(t, AvailableWeb, ResolveAvailability(types.Config{}))
	assert.Equal(t, AvailableWeb, ResolveAvailability(types.Config{APIKey: "   "}))
}

func TestMissingKeys(t *testing.T) {
	assert.Equal(t, "none", MissingKeys(types.Config{APIKey: "k"}))
	assert.Equal(t, "both", MissingKeys(types.Config{}))
}

func TestResolveEffective(t *testing.T) {
	tests := []struct {
		name       string
		requested  string
		available  Availability
		includeWeb bool
		wantToken  string
		wantMsg    bool
	}{
		{"auto with key", "auto", AvailableBoth, false, "both", false},
		{"auto with key and web", "auto", AvailableBoth, true, "all", false},
		{"both", "both", AvailableBoth, false, "both", false},
		{"both and web", "both", AvailableBoth, true, "all", false},
		{"reddit", "reddit", AvailableBoth, false, "reddit", false},
		{"reddit and web", "reddit", AvailableBoth, true, "reddit-web", false},
		{"x", "x", AvailableBoth, false, "x", false},
		{"x and web", "x", AvailableBoth, true, "x-web", false},
		{"web with key", "web", AvailableBoth, true, "web", false},
		{"unknown passes through", "mastodon", AvailableBoth, true, "mastodon", false},
		{"auto without key", "auto", AvailableWeb, false, "web", false},
		{"web without key", "web", AvailableWeb, false, "web", false},
		{"reddit without key", "reddit", AvailableWeb, false, "web", true},
		{"x without key", "x", AvailableWeb, true, "web", true},
		{"both without key", "both", AvailableWeb, false, "web", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, msg := ResolveEffective(tt.requested, tt.available, tt.includeWeb)
			assert.Equal(t, tt.wantToken, set.Token())
			if tt.wantMsg {
				assert.Equal(t, NoKeyAdvisory, msg)
			} else {
				assert.Empty(t, msg)
			}
		})
	}
}

func TestUnknownTokenSetsNoFlags(t *testing.T) {
	set, _ := ResolveEffective("mastodon", AvailableBoth, true)
	assert.False(t, set.Reddit)
	assert.False(t, set.X)
	assert.False(t, set.Web)
	assert.False(t, set.IsZero())
}

func TestParseSetRoundTrip(t *testing.T) {
	for _, token := range []string{"all", "both", "reddit-web", "x-web", "reddit", "x", "web", "custom"} {
		assert.Equal(t, token, ParseSet(token).Token(), token)
	}
	assert.True(t, ParseSet("").IsZero())
}
