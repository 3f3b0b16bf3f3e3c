// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package api exposes research runs and capability checks over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/pdiddy/last30days/internal/bird"
	"github.com/pdiddy/last30days/internal/logging"
	"github.com/pdiddy/last30days/internal/models"
	"github.com/pdiddy/last30days/internal/research"
	"github.com/pdiddy/last30days/internal/search"
	"github.com/pdiddy/last30days/internal/sources"
	"github.com/pdiddy/last30days/pkg/types"
)

const maxBody = 1 << 20

// Runner executes research runs.
type Runner interface {
	Run(ctx context.Context, req research.Request) (*research.Result, error)
}

// Server serves the API. Helper may be nil.
type Server struct {
	cfg      types.Config
	runner   Runner
	selector *models.Selector
	helper   sources.Helper
	log      *zap.Logger
}

// NewServer returns a server backed by the given collaborators.
func NewServer(cfg types.Config, runner Runner, selector *models.Selector, helper sources.Helper, log *zap.Logger) *Server {
	return &Server{cfg: cfg, runner: runner, selector: selector, helper: helper, log: logging.OrNop(log)}
}

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.health)
	r.Get("/sources", s.getSources)
	r.Get("/models", s.getModels)
	r.Post("/research", s.postResearch)
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

type sourcesResponse struct {
	Available   sources.Availability `json:"available"`
	Effective   string               `json:"effective"`
	Message     string               `json:"message,omitempty"`
	MissingKeys string               `json:"missing_keys"`
	XStrategy   sources.XStrategy    `json:"x_strategy"`
	Bird        *bird.Status         `json:"bird,omitempty"`
}

// getSources reports capabilities. Query parameters "sources" and
// "include_web" mirror the CLI flags.
func (s *Server) getSources(w http.ResponseWriter, r *http.Request) {
	requested := r.URL.Query().Get("sources")
	if requested == "" {
		requested = sources.RequestAuto
	}
	includeWeb := r.URL.Query().Get("include_web") == "true"

	available := sources.ResolveAvailability(s.cfg)
	set, msg := sources.ResolveEffective(requested, available, includeWeb)
	resp := sourcesResponse{
		Available:   available,
		Effective:   set.Token(),
		Message:     msg,
		MissingKeys: sources.MissingKeys(s.cfg),
		XStrategy:   sources.ResolveXStrategy(s.cfg, s.helper),
	}
	if s.helper != nil {
		st := s.helper.Status()
		resp.Bird = &st
	}
	writeJSON(w, resp, http.StatusOK)
}

func (s *Server) getModels(w http.ResponseWriter, r *http.Request) {
	choices := []models.Choice{}
	if s.selector != nil {
		selected := s.selector.SelectAll(r.Context(), s.cfg)
		for _, task := range models.Tasks {
			if m, ok := selected[task]; ok {
				choices = append(choices, models.Choice{Task: task, Model: m})
			}
		}
	}
	writeJSON(w, map[string]any{"models": choices}, http.StatusOK)
}

type researchRequest struct {
	Topic      string   `json:"topic"`
	Sources    string   `json:"sources"`
	IncludeWeb bool     `json:"include_web"`
	Depth      string   `json:"depth"`
	Days       int      `json:"days"`
	Subreddits []string `json:"subreddits"`
}

func (s *Server) postResearch(w http.ResponseWriter, r *http.Request) {
	var body researchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&body); err != nil {
		writeError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(body.Topic) == "" {
		writeError(w, research.ErrEmptyTopic.Error(), http.StatusBadRequest)
		return
	}

	res, err := s.runner.Run(r.Context(), research.Request{
		Topic:      body.Topic,
		Sources:    body.Sources,
		IncludeWeb: body.IncludeWeb,
		Depth:      search.ParseDepth(body.Depth),
		Days:       body.Days,
		Subreddits: body.Subreddits,
	})
	if err != nil {
		s.log.Error("research run failed", zap.String("topic", body.Topic), zap.Error(err))
		status := http.StatusBadGateway
		if errors.Is(err, research.ErrEmptyTopic) {
			status = http.StatusBadRequest
		}
		writeError(w, err.Error(), status)
		return
	}
	writeJSON(w, res, http.StatusOK)
}

func writeJSON(w http.ResponseWriter, value any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, map[string]string{"error": msg}, status)
}
