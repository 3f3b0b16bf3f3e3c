// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package research runs one collection pass: it resolves which sources can
// be used, picks models, queries each source in turn and normalizes the
// answers into canonical items. Calls are sequential; a failing source is
// recorded on the result and the others still run.
package research

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/pdiddy/last30days/internal/dates"
	"github.com/pdiddy/last30days/internal/httputil"
	"github.com/pdiddy/last30days/internal/logging"
	"github.com/pdiddy/last30days/internal/models"
	"github.com/pdiddy/last30days/internal/normalize"
	"github.com/pdiddy/last30days/internal/search"
	"github.com/pdiddy/last30days/internal/sources"
	"github.com/pdiddy/last30days/pkg/types"
)

// ErrEmptyTopic is returned when a run is requested without a topic.
var ErrEmptyTopic = errors.New("topic is empty")

// Searcher issues the source queries.
type Searcher interface {
	SearchReddit(ctx context.Context, model, topic string, window dates.Window, depth search.Depth) (map[string]any, error)
	SearchX(ctx context.Context, model, topic string, window dates.Window, depth search.Depth) (map[string]any, error)
	SearchSubreddits(ctx context.Context, names []string, topic string, window dates.Window, countPer int) []types.ResearchItem
}

// XHelper is the local X helper: capability probes plus search.
type XHelper interface {
	sources.Helper
	Search(ctx context.Context, query string, count int) ([]types.ResearchItem, error)
}

// Request describes one run.
type Request struct {
	Topic      string
	Sources    string
	IncludeWeb bool
	Depth      search.Depth
	Days       int
	Subreddits []string
	// CountPer is the per-community limit of the supplemental search.
	CountPer int
	// Now anchors the date window. Zero means time.Now().
	Now time.Time
}

// Result is everything a run produced. It is also the saved run format.
type Result struct {
	ID                string               `json:"id" yaml:"id"`
	Topic             string               `json:"topic" yaml:"topic"`
	Window            dates.Window         `json:"window" yaml:"window"`
	Depth             search.Depth         `json:"depth" yaml:"depth"`
	Sources           string               `json:"sources" yaml:"sources"`
	Message           string               `json:"message,omitempty" yaml:"message,omitempty"`
	XStrategy         sources.XStrategy    `json:"x_strategy" yaml:"x_strategy"`
	Models            []models.Choice      `json:"models,omitempty" yaml:"models,omitempty"`
	Reddit            []types.ResearchItem `json:"reddit" yaml:"reddit"`
	X                 []types.ResearchItem `json:"x" yaml:"x"`
	DuplicatesRemoved int                  `json:"duplicates_removed" yaml:"duplicates_removed"`
	OutOfWindow       int                  `json:"out_of_window" yaml:"out_of_window"`
	Errors            []string             `json:"errors,omitempty" yaml:"errors,omitempty"`
	Timestamp         time.Time            `json:"timestamp" yaml:"timestamp"`
}

// Items returns Reddit items followed by X items.
func (r *Result) Items() []types.ResearchItem {
	out := make([]types.ResearchItem, 0, len(r.Reddit)+len(r.X))
	out = append(out, r.Reddit...)
	return append(out, r.X...)
}

// SourceSet parses the effective sources the run was made with.
func (r *Result) SourceSet() sources.Set {
	return sources.ParseSet(r.Sources)
}

// Model returns the model used for task, or "".
func (r *Result) Model(task models.Task) string {
	for _, c := range r.Models {
		if c.Task == task {
			return c.Model
		}
	}
	return ""
}

// Pipeline wires the collaborators of a run. Bird may be nil.
type Pipeline struct {
	Config   types.Config
	Search   Searcher
	Selector *models.Selector
	Bird     XHelper
	Log      *zap.Logger
}

// Run executes req. It returns an error when the topic is empty or when
// every source that was attempted failed; partial failures are listed in
// Result.Errors.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, ErrEmptyTopic
	}
	log := p.log()

	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}
	requested := req.Sources
	if requested == "" {
		requested = sources.RequestAuto
	}
	depth := search.ParseDepth(string(req.Depth))
	window := dates.NewWindow(req.Days, now)

	set, msg := sources.ResolveEffective(requested, sources.ResolveAvailability(p.Config), req.IncludeWeb)
	if msg != "" {
		log.Warn(msg)
	}

	res := &Result{
		ID:        newRunID(now),
		Topic:     topic,
		Window:    window,
		Depth:     depth,
		Sources:   set.Token(),
		Message:   msg,
		XStrategy: sources.ResolveXStrategy(p.Config, p.helper()),
		Timestamp: now.UTC(),
	}

	attempted, failed := 0, 0
	if set.Reddit {
		attempted++
		if err := p.collectReddit(ctx, req, topic, window, depth, res); err != nil {
			failed++
			res.Errors = append(res.Errors, "reddit: "+err.Error())
		}
	}
	if set.X {
		attempted++
		if err := p.collectX(ctx, topic, window, depth, res); err != nil {
			failed++
			res.Errors = append(res.Errors, "x: "+err.Error())
		}
	}

	log.Info("research run complete",
		zap.String("id", res.ID),
		zap.String("sources", res.Sources),
		zap.Int("reddit", len(res.Reddit)),
		zap.Int("x", len(res.X)),
		zap.Int("errors", len(res.Errors)))

	if attempted > 0 && failed == attempted {
		return res, fmt.Errorf("all sources failed: %s", strings.Join(res.Errors, "; "))
	}
	return res, nil
}

func (p *Pipeline) collectReddit(ctx context.Context, req Request, topic string, window dates.Window, depth search.Depth, res *Result) error {
	log := p.log()
	model := p.Selector.Select(ctx, models.TaskReddit, p.Config.RedditModel)

	raw, err := p.Search.SearchReddit(ctx, model, topic, window, depth)
	if httputil.IsModelAccessError(err) {
		if next, ok := models.NextInChain(models.TaskReddit, model); ok {
			log.Warn("reddit model unavailable, retrying with next in chain",
				zap.String("model", model), zap.String("next", next), zap.Error(err))
			raw, err = p.Search.SearchReddit(ctx, next, topic, window, depth)
			if err == nil {
				p.Selector.Remember(ctx, models.TaskReddit, next)
				model = next
			}
		}
	}
	res.Models = append(res.Models, models.Choice{Task: models.TaskReddit, Model: model})

	var items []types.ResearchItem
	if err != nil {
		log.Error("reddit search failed",
			zap.String("model", model), zap.Int("status", httputil.StatusCode(err)), zap.Error(err))
	} else {
		items = normalize.ParseResponse(raw, normalize.Reddit, log)
	}

	// The subreddit search needs no model, so it still runs when the
	// primary search failed.
	if len(req.Subreddits) > 0 {
		supp := p.Search.SearchSubreddits(ctx, req.Subreddits, topic, window, req.CountPer)
		var removed int
		items, removed = normalize.Merge(items, supp)
		res.DuplicatesRemoved += removed
	}
	res.Reddit = p.filter(items, window, res)

	if err != nil {
		if len(items) == 0 {
			return err
		}
		res.Errors = append(res.Errors, "reddit: "+err.Error())
	}
	return nil
}

func (p *Pipeline) collectX(ctx context.Context, topic string, window dates.Window, depth search.Depth, res *Result) error {
	log := p.log()
	if res.XStrategy == sources.XBird && p.Bird != nil {
		_, hi := depth.ItemRange()
		items, err := p.Bird.Search(ctx, topic, hi)
		if err == nil {
			res.X = p.filter(items, window, res)
			return nil
		}
		if !p.Config.HasAPIKey() {
			log.Error("bird search failed", zap.Error(err))
			return err
		}
		log.Warn("bird search failed, falling back to OpenRouter", zap.Error(err))
		res.XStrategy = sources.XAI
	}

	model := p.Selector.Select(ctx, models.TaskX, p.Config.XModel)
	res.Models = append(res.Models, models.Choice{Task: models.TaskX, Model: model})
	raw, err := p.Search.SearchX(ctx, model, topic, window, depth)
	if err != nil {
		log.Error("x search failed", zap.String("model", model), zap.Error(err))
		return err
	}
	res.X = p.filter(normalize.ParseResponse(raw, normalize.X, log), window, res)
	return nil
}

func (p *Pipeline) filter(items []types.ResearchItem, window dates.Window, res *Result) []types.ResearchItem {
	kept := normalize.FilterByWindow(items, window)
	res.OutOfWindow += len(items) - len(kept)
	return kept
}

// helper returns p.Bird as a sources.Helper, keeping a nil pointer out of
// the interface.
func (p *Pipeline) helper() sources.Helper {
	if p.Bird == nil {
		return nil
	}
	return p.Bird
}

func (p *Pipeline) log() *zap.Logger {
	return logging.OrNop(p.Log)
}

func newRunID(now time.Time) string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(now), entropy).String()
}
