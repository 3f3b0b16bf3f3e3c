// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/last30days/internal/dates"
	"github.com/pdiddy/last30days/pkg/types"
)

func strp(s string) *string { return &s }

func TestMerge(t *testing.T) {
	primary := []types.ResearchItem{
		{ID: "R1", Title: "Hooks in Claude Code", URL: "https://www.reddit.com/r/ClaudeAI/comments/abc/hooks/", Relevance: 0.6},
		{ID: "R2", Title: "Subagents", URL: "https://reddit.com/r/ClaudeAI/comments/def/subagents/", Relevance: 0.9},
	}
	supplemental := []types.ResearchItem{
		{ID: "RS1", Title: "hooks in claude code", URL: "https://old.reddit.com/r/ClaudeAI/comments/abc/hooks?utm=1",
			Subreddit: "ClaudeAI", Date: strp("2026-10-02"), Relevance: 0.65,
			Engagement: &types.Engagement{Score: 40, Comments: 12}},
		{ID: "RS2", Title: "  Subagents ", URL: "https://reddit.com/r/other/comments/zzz/", Relevance: 0.65},
		{ID: "RS3", Title: "MCP servers", URL: "https://reddit.com/r/mcp/comments/ghi/", Relevance: 0.65},
	}

	merged, removed := Merge(primary, supplemental)
	assert.Equal(t, 2, removed)
	require.Len(t, merged, 3)

	assert.Equal(t, []string{"R1", "R2", "RS3"}, []string{merged[0].ID, merged[1].ID, merged[2].ID})

	hooks := merged[0]
	assert.Equal(t, "Hooks in Claude Code", hooks.Title, "kept item's own fields win")
	assert.Equal(t, "ClaudeAI", hooks.Subreddit, "empty fields are filled")
	assert.Equal(t, "2026-10-02", hooks.DateString())
	assert.Equal(t, 0.65, hooks.Relevance, "higher relevance wins")
	require.NotNil(t, hooks.Engagement)
	assert.Equal(t, 40, hooks.Engagement.Score)

	assert.Equal(t, 0.9, merged[1].Relevance)
}

func TestMergeEmpty(t *testing.T) {
	merged, removed := Merge(nil, nil)
	assert.Empty(t, merged)
	assert.Zero(t, removed)
}

func TestMergeUntitledItemsDedupByURLOnly(t *testing.T) {
	merged, removed := Merge(
		[]types.ResearchItem{{ID: "R1", URL: "https://reddit.com/r/a/comments/1"}},
		[]types.ResearchItem{{ID: "RS1", URL: "https://reddit.com/r/a/comments/2"}},
	)
	assert.Zero(t, removed)
	assert.Len(t, merged, 2)
}

func TestURLKey(t *testing.T) {
	want := "reddit.com/r/golang/comments/1/title"
	for _, u := range []string{
		"https://www.reddit.com/r/golang/comments/1/title/",
		"http://old.reddit.com/r/golang/comments/1/title",
		"https://reddit.com/r/golang/comments/1/title/?share=1",
		"HTTPS://Reddit.com/r/golang/comments/1/title#top",
	} {
		assert.Equal(t, want, urlKey(u), u)
	}
}

func TestFilterByWindow(t *testing.T) {
	w := dates.Window{From: "2026-09-17", To: "2026-10-17"}
	items := []types.ResearchItem{
		{ID: "R1", Date: strp("2026-10-01")},
		{ID: "R2", Date: strp("2026-08-01")},
		{ID: "R3"},
		{ID: "R4", Date: strp("2026-09-17")},
		{ID: "R5", Date: strp("2026-10-18")},
	}
	got := FilterByWindow(items, w)
	var ids []string
	for _, it := range got {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []string{"R1", "R3", "R4"}, ids)
}

func TestTitleKey(t *testing.T) {
	assert.Equal(t, "whats new in go 125", titleKey("  What's new in Go 1.25?! "))
	assert.Equal(t, "", titleKey("!!!"))
}
