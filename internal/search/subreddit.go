// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/last30days/internal/dates"
	"github.com/pdiddy/last30days/pkg/types"
)

// redditBaseURL is Reddit's public site root. Package-level var for test
// substitution.
var redditBaseURL = "https://www.reddit.com"

const (
	// DefaultCountPer is how many posts each community search returns.
	DefaultCountPer = 5

	subredditTimeout   = 15 * time.Second
	subredditRelevance = 0.65
)

// noisePhrases and noiseWords are dropped when reducing a topic to the
// subject a search engine should see.
var (
	noisePhrases = [][2]string{{"how", "to"}, {"tips", "for"}}
	noiseWords   = map[string]bool{
		"best": true, "top": true, "practices": true, "features": true,
		"killer": true, "guide": true, "tutorial": true, "recommendations": true,
		"advice": true, "prompting": true, "using": true, "for": true,
		"with": true, "the": true, "of": true, "in": true, "on": true,
	}
)

// ExtractCoreSubject lowercases topic, removes filler words and keeps at
// most three of the remaining words. When everything is filler the topic
// itself is returned.
func ExtractCoreSubject(topic string) string {
	words := strings.Fields(strings.ToLower(topic))
	var kept []string
	for i := 0; i < len(words); i++ {
		if i+1 < len(words) && isNoisePhrase(words[i], words[i+1]) {
			i++
			continue
		}
		if noiseWords[words[i]] {
			continue
		}
		kept = append(kept, words[i])
	}
	if len(kept) > 3 {
		kept = kept[:3]
	}
	if len(kept) == 0 {
		return topic
	}
	return strings.Join(kept, " ")
}

func isNoisePhrase(a, b string) bool {
	for _, p := range noisePhrases {
		if p[0] == a && p[1] == b {
			return true
		}
	}
	return false
}

// SearchSubreddits searches each named community for the topic's core
// subject, newest first. Communities are queried one after another in the
// given order; a failing community is logged and skipped. Kept posts get IDs
// RS1..RSn across all communities.
func (c *Client) SearchSubreddits(ctx context.Context, names []string, topic string, _ dates.Window, countPer int) []types.ResearchItem {
	if countPer <= 0 {
		countPer = DefaultCountPer
	}
	core := ExtractCoreSubject(topic)

	var items []types.ResearchItem
	for _, name := range names {
		sub := strings.TrimPrefix(strings.TrimSpace(name), "r/")
		if sub == "" {
			continue
		}
		if ctx.Err() != nil {
			c.log.Warn("subreddit search cancelled", zap.String("subreddit", sub), zap.Error(ctx.Err()))
			break
		}

		endpoint := fmt.Sprintf("%s/r/%s/search/.json?q=%s&restrict_sr=on&sort=new&limit=%d&raw_json=1",
			redditBaseURL, url.PathEscape(sub), url.QueryEscape(core), countPer)
		resp, err := c.http.GetJSON(ctx, endpoint, c.redditHeaders, subredditTimeout)
		if err != nil {
			c.log.Warn("subreddit search failed", zap.String("subreddit", sub), zap.Error(err))
			continue
		}

		for _, post := range listingPosts(resp) {
			permalink, _ := post["permalink"].(string)
			if permalink == "" {
				continue
			}
			item := types.ResearchItem{
				ID:          fmt.Sprintf("RS%d", len(items)+1),
				Title:       strings.TrimSpace(stringField(post, "title")),
				URL:         "https://www.reddit.com" + permalink,
				Subreddit:   sub,
				WhyRelevant: fmt.Sprintf("Found in r/%s supplemental search", sub),
				Relevance:   subredditRelevance,
				Source:      types.SourceReddit,
			}
			if s := strings.TrimSpace(stringField(post, "subreddit")); s != "" {
				item.Subreddit = s
			}
			if created, ok := post["created_utc"].(float64); ok {
				item.Date = dates.FromEpochSeconds(created)
			}
			score, _ := post["score"].(float64)
			comments, _ := post["num_comments"].(float64)
			if score != 0 || comments != 0 {
				item.Engagement = &types.Engagement{Score: types.Count(score), Comments: types.Count(comments)}
			}
			items = append(items, item)
		}
	}
	return items
}

// listingPosts returns the data of every t3 (link) child in a Reddit
// listing.
func listingPosts(resp map[string]any) []map[string]any {
	data, _ := resp["data"].(map[string]any)
	children, _ := data["children"].([]any)
	var posts []map[string]any
	for _, c := range children {
		child, ok := c.(map[string]any)
		if !ok || child["kind"] != "t3" {
			continue
		}
		if post, ok := child["data"].(map[string]any); ok {
			posts = append(posts, post)
		}
	}
	return posts
}

func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
