// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synth

import (
	"fmt"
	"strings"
	"testing"

	"github.com/pdiddy/last30days/pkg/types"
)

func TestRedditSummary(t *testing.T) {
	if got := redditSummary(nil); got != "No Reddit threads found." {
		t.Errorf("empty summary = %q", got)
	}

	items := []types.ResearchItem{
		{Title: "First", Subreddit: "golang", WhyRelevant: "on topic", Engagement: &types.Engagement{Score: 10}},
		{Title: "Second"},
	}
	want := "- r/golang (score:10): First\n  *on topic*\n- r/unknown (score:0): Second"
	if got := redditSummary(items); got != want {
		t.Errorf("redditSummary =\n%s\nwant\n%s", got, want)
	}
}

func TestXSummary(t *testing.T) {
	if got := xSummary(nil); got != "No X posts found." {
		t.Errorf("empty summary = %q", got)
	}

	items := []types.ResearchItem{{
		Author:     "gopher",
		Text:       "use table tests",
		Engagement: &types.Engagement{Score: 3, Likes: 50, Reposts: 7},
	}}
	want := "- @gopher (score:3, 50likes, 7rt): use table tests"
	if got := xSummary(items); got != want {
		t.Errorf("xSummary = %q, want %q", got, want)
	}
}

func TestSummaryLimits(t *testing.T) {
	var items []types.ResearchItem
	for i := 0; i < 20; i++ {
		items = append(items, types.ResearchItem{Title: fmt.Sprintf("t%d", i), Subreddit: "s"})
	}
	got := redditSummary(items)
	if n := strings.Count(got, "\n") + 1; n != summaryItems {
		t.Errorf("summary lines = %d, want %d", n, summaryItems)
	}

	long := strings.Repeat("x", 300)
	line := xSummary([]types.ResearchItem{{Author: "a", Text: long, WhyRelevant: long}})
	parts := strings.Split(line, "\n")
	if !strings.HasSuffix(parts[0], ": "+strings.Repeat("x", xTextMax)) {
		t.Errorf("x text not clipped to %d: %q", xTextMax, parts[0])
	}
	if parts[1] != "  *"+strings.Repeat("x", whyMax)+"*" {
		t.Errorf("why not clipped to %d", whyMax)
	}
}
