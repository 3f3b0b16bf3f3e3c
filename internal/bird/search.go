// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bird

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/last30days/internal/dates"
	"github.com/pdiddy/last30days/internal/textutil"
	"github.com/pdiddy/last30days/pkg/types"
)

// helperRelevance is assigned to every helper result. The helper returns
// posts in its own order without a relevance signal.
const helperRelevance = 0.7

const searchTimeout = 60 * time.Second

// tweetTimeLayouts covers the timestamp shapes the helper has emitted.
var tweetTimeLayouts = []string{
	time.RFC3339,
	time.RubyDate, // "Mon Jan 02 15:04:05 -0700 2006", X's legacy created_at
	dates.Layout,
}

// Search runs "bird search -n <count> --json -- <query>" and maps the posts
// to canonical X items with IDs X1..Xn. The query follows "--" so a topic
// starting with a dash is never read as a flag. Posts without an id or author are
// skipped because no stable URL can be built for them.
func (p *Probe) Search(ctx context.Context, query string, count int) ([]types.ResearchItem, error) {
	if count <= 0 {
		count = 20
	}
	ctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	out, err := p.exec.Output(ctx, p.bin, "search", "-n", strconv.Itoa(count), "--json", "--", query)
	if err != nil {
		return nil, fmt.Errorf("running %s search: %w", p.bin, err)
	}
	return parseTweets(out)
}

// parseTweets decodes helper JSON output: either a bare array or an object
// wrapping the array under "tweets" or "data".
func parseTweets(out []byte) ([]types.ResearchItem, error) {
	// UseNumber keeps 19-digit post ids intact.
	dec := json.NewDecoder(bytes.NewReader(out))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parsing %s output: %w", DefaultBinary, err)
	}

	var list []any
	switch v := raw.(type) {
	case []any:
		list = v
	case map[string]any:
		for _, key := range []string{"tweets", "data", "results"} {
			if l, ok := v[key].([]any); ok {
				list = l
				break
			}
		}
	}

	var items []types.ResearchItem
	for _, entry := range list {
		tw, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		id := firstString(tw, "id", "id_str", "rest_id")
		handle := tweetAuthor(tw)
		if id == "" || handle == "" {
			continue
		}

		text := strings.TrimSpace(firstString(tw, "text", "full_text"))
		item := types.ResearchItem{
			ID:          fmt.Sprintf("X%d", len(items)+1),
			Title:       textutil.Truncate(text, 100),
			Text:        text,
			URL:         fmt.Sprintf("https://x.com/%s/status/%s", handle, id),
			Author:      handle,
			Date:        tweetDate(firstString(tw, "createdAt", "created_at")),
			WhyRelevant: "Found via bird search",
			Relevance:   helperRelevance,
			Source:      types.SourceX,
			Engagement: &types.Engagement{
				Likes:   firstInt(tw, "likeCount", "favorite_count", "likes"),
				Reposts: firstInt(tw, "retweetCount", "retweet_count", "reposts"),
			},
		}
		items = append(items, item)
	}
	return items, nil
}

func tweetAuthor(tw map[string]any) string {
	if a, ok := tw["author"].(map[string]any); ok {
		if h := firstString(a, "username", "screen_name", "handle"); h != "" {
			return strings.TrimPrefix(h, "@")
		}
	}
	return strings.TrimPrefix(firstString(tw, "username", "screen_name", "author_handle"), "@")
}

func tweetDate(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range tweetTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := t.UTC().Format(dates.Layout)
			return &d
		}
	}
	return nil
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case json.Number:
			return v.String()
		}
	}
	return ""
}

func firstInt(m map[string]any, keys ...string) int {
	for _, k := range keys {
		if v, ok := m[k].(json.Number); ok {
			if f, err := v.Float64(); err == nil {
				return types.Count(f)
			}
		}
	}
	return 0
}
