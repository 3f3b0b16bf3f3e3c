// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize turns free-form model output into canonical research
// items. Every step is total: malformed input yields fewer items, never an
// error, and the reason is logged.
package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/last30days/internal/dates"
	"github.com/pdiddy/last30days/internal/logging"
	"github.com/pdiddy/last30days/internal/textutil"
	"github.com/pdiddy/last30days/pkg/types"
)

// DefaultRelevance is used when the model omits relevance or sends
// something that is not a number.
const DefaultRelevance = 0.5

const xTitleMax = 100

// Profile describes how one source's items are validated and labelled.
type Profile struct {
	// Domain must appear in every accepted URL.
	Domain string
	// AltDomains are accepted in place of Domain.
	AltDomains []string
	// IDPrefix is prepended to the 1-based list position.
	IDPrefix string
	// NameKey is the entry field holding the community or author.
	NameKey string
	// NamePrefix is stripped from the name when present.
	NamePrefix string
	Source     types.Source
}

// Reddit is the profile for model-sourced Reddit threads.
var Reddit = Profile{
	Domain:     "reddit.com",
	IDPrefix:   "R",
	NameKey:    "subreddit",
	NamePrefix: "r/",
	Source:     types.SourceReddit,
}

// X is the profile for model-sourced X posts.
var X = Profile{
	Domain:     "x.com",
	AltDomains: []string{"twitter.com"},
	IDPrefix:   "X",
	NameKey:    "author_handle",
	NamePrefix: "@",
	Source:     types.SourceX,
}

func (p Profile) acceptsURL(url string) bool {
	if strings.Contains(url, p.Domain) {
		return true
	}
	for _, d := range p.AltDomains {
		if strings.Contains(url, d) {
			return true
		}
	}
	return false
}

// ParseResponse extracts canonical items from a search response. It never
// panics and never fails; an API error, missing text or unparseable JSON
// all yield an empty list plus a diagnostic on log.
func ParseResponse(raw map[string]any, p Profile, log *zap.Logger) (items []types.ResearchItem) {
	log = logging.OrNop(log)
	defer func() {
		if r := recover(); r != nil {
			log.Error("normalizer recovered from panic", zap.Any("panic", r), zap.Int("items_kept", len(items)))
		}
	}()

	if msg, ok := apiError(raw); ok {
		log.Error("OpenRouter API error: "+msg, zap.String("source", string(p.Source)))
		return nil
	}

	text := ExtractOutputText(raw)
	if text == "" {
		log.Warn("no output text found in OpenRouter response",
			zap.String("source", string(p.Source)),
			zap.Strings("keys", topLevelKeys(raw)))
		return nil
	}

	obj, ok := ExtractJSONObject(text)
	if !ok {
		log.Warn("no items object in model output", zap.String("source", string(p.Source)))
		return nil
	}
	entries, _ := obj["items"].([]any)

	for i, entry := range entries {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		item, ok := p.normalizeEntry(m)
		if !ok {
			continue
		}
		item.ID = fmt.Sprintf("%s%d", p.IDPrefix, i+1)
		items = append(items, item)
	}
	if dropped := len(entries) - len(items); dropped > 0 {
		log.Debug("rejected malformed entries", zap.String("source", string(p.Source)), zap.Int("dropped", dropped))
	}
	return items
}

// apiError reports a non-empty "error" field and its message.
func apiError(raw map[string]any) (string, bool) {
	v, ok := raw["error"]
	if !ok || v == nil {
		return "", false
	}
	switch e := v.(type) {
	case map[string]any:
		if len(e) == 0 {
			return "", false
		}
		if msg, ok := e["message"].(string); ok && msg != "" {
			return msg, true
		}
		return fmt.Sprint(e), true
	case string:
		return e, e != ""
	case bool:
		return "error", e
	case float64:
		return fmt.Sprint(e), e != 0
	case []any:
		return fmt.Sprint(e), len(e) > 0
	}
	return fmt.Sprint(v), true
}

func (p Profile) normalizeEntry(m map[string]any) (types.ResearchItem, bool) {
	url, ok := m["url"].(string)
	url = strings.TrimSpace(url)
	if !ok || url == "" || !p.acceptsURL(url) {
		return types.ResearchItem{}, false
	}

	name := strings.TrimPrefix(stringify(m[p.NameKey]), p.NamePrefix)
	item := types.ResearchItem{
		Title:       stringify(m["title"]),
		URL:         url,
		Text:        stringify(m["text"]),
		Date:        coerceDate(m["date"]),
		WhyRelevant: stringify(m["why_relevant"]),
		Relevance:   coerceRelevance(m["relevance"]),
		Source:      p.Source,
		Engagement:  coerceEngagement(m["engagement"]),
	}
	switch p.Source {
	case types.SourceX:
		item.Author = name
		if item.Title == "" {
			item.Title = textutil.Truncate(item.Text, xTitleMax)
		}
	default:
		item.Subreddit = name
	}
	return item, true
}

// stringify trims strings and renders other scalars; nil becomes "".
func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// coerceRelevance accepts numbers and numeric strings and clamps them to
// [0, 1]. Anything else, NaN included, becomes DefaultRelevance.
func coerceRelevance(v any) float64 {
	var f float64
	switch r := v.(type) {
	case float64:
		f = r
	case int:
		f = float64(r)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(r), 64)
		if err != nil {
			return DefaultRelevance
		}
		f = parsed
	default:
		return DefaultRelevance
	}
	if math.IsNaN(f) {
		return DefaultRelevance
	}
	return math.Min(1, math.Max(0, f))
}

// coerceDate keeps only strings in strict YYYY-MM-DD form.
func coerceDate(v any) *string {
	s, ok := v.(string)
	if !ok || !dates.IsISODate(s) {
		return nil
	}
	return &s
}

func coerceEngagement(v any) *types.Engagement {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	e := types.Engagement{
		Score:    intField(m, "score"),
		Comments: intField(m, "comments", "num_comments"),
		Likes:    intField(m, "likes"),
		Reposts:  intField(m, "reposts", "retweets"),
	}
	if e == (types.Engagement{}) {
		return nil
	}
	return &e
}

func intField(m map[string]any, keys ...string) int {
	for _, k := range keys {
		if f, ok := m[k].(float64); ok && !math.IsNaN(f) && f >= 0 {
			return types.Count(f)
		}
	}
	return 0
}
