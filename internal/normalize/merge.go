// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"strings"
	"unicode"

	"github.com/pdiddy/last30days/internal/dates"
	"github.com/pdiddy/last30days/pkg/types"
)

// Merge appends supplemental items to primary and drops duplicates. Two
// items are duplicates when their normalized URLs match or their
// normalized titles match. The first occurrence is kept, missing fields are
// filled from the duplicate and the higher relevance wins. IDs are left as
// assigned. Merge returns the merged list and how many items were dropped.
func Merge(primary, supplemental []types.ResearchItem) ([]types.ResearchItem, int) {
	out := make([]types.ResearchItem, 0, len(primary)+len(supplemental))
	byURL := make(map[string]int)
	byTitle := make(map[string]int)
	removed := 0

	for _, list := range [][]types.ResearchItem{primary, supplemental} {
		for _, it := range list {
			uk, tk := urlKey(it.URL), titleKey(it.Title)
			idx, dup := byURL[uk]
			if !dup && tk != "" {
				idx, dup = byTitle[tk]
			}
			if dup {
				absorb(&out[idx], it)
				removed++
				continue
			}
			out = append(out, it)
			byURL[uk] = len(out) - 1
			if tk != "" {
				byTitle[tk] = len(out) - 1
			}
		}
	}
	return out, removed
}

func absorb(kept *types.ResearchItem, dup types.ResearchItem) {
	if kept.Title == "" {
		kept.Title = dup.Title
	}
	if kept.Subreddit == "" {
		kept.Subreddit = dup.Subreddit
	}
	if kept.Author == "" {
		kept.Author = dup.Author
	}
	if kept.Text == "" {
		kept.Text = dup.Text
	}
	if kept.Date == nil {
		kept.Date = dup.Date
	}
	if kept.WhyRelevant == "" {
		kept.WhyRelevant = dup.WhyRelevant
	}
	if kept.Engagement == nil {
		kept.Engagement = dup.Engagement
	}
	if dup.Relevance > kept.Relevance {
		kept.Relevance = dup.Relevance
	}
}

// urlKey lowercases the URL and strips scheme, "www."/"old." host prefixes,
// query, fragment and trailing slashes.
func urlKey(u string) string {
	k := strings.ToLower(strings.TrimSpace(u))
	if i := strings.Index(k, "://"); i >= 0 {
		k = k[i+3:]
	}
	for _, p := range []string{"www.", "old."} {
		k = strings.TrimPrefix(k, p)
	}
	if i := strings.IndexAny(k, "?#"); i >= 0 {
		k = k[:i]
	}
	return strings.TrimRight(k, "/")
}

// titleKey lowercases the title and drops punctuation.
func titleKey(t string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(t) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// FilterByWindow drops dated items outside w. Undated items are kept since
// the model often cannot tell when a thread was posted.
func FilterByWindow(items []types.ResearchItem, w dates.Window) []types.ResearchItem {
	out := make([]types.ResearchItem, 0, len(items))
	for _, it := range items {
		if it.Date == nil || w.Contains(*it.Date) {
			out = append(out, it)
		}
	}
	return out
}
