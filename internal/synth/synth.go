// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package synth turns collected research into a written synthesis and then
// into ready-to-use prompts, through the OpenRouter chat completions API.
package synth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pdiddy/last30days/internal/httputil"
	"github.com/pdiddy/last30days/pkg/types"
)

// ErrEmptyCompletion is returned when the API answers without choices or
// error.
var ErrEmptyCompletion = errors.New("no response from model")

const (
	synthesisMaxTokens = 2000
	promptMaxTokens    = 3000
	chatTimeout        = 60 * time.Second
)

// Synthesizer calls the chat completions endpoint with one fixed model.
type Synthesizer struct {
	http    *httputil.Client
	baseURL string
	headers map[string]string
	model   string
}

// New returns a synthesizer. An empty model uses cfg.SynthModel, then
// types.DefaultSynthModel.
func New(hc *httputil.Client, cfg types.Config, model string) *Synthesizer {
	if model == "" {
		model = cfg.SynthModel
	}
	if model == "" {
		model = types.DefaultSynthModel
	}
	return &Synthesizer{
		http:    hc,
		baseURL: httputil.BaseURL(cfg.HTTP),
		headers: httputil.OpenRouterHeaders(cfg.APIKey, cfg.HTTP),
		model:   model,
	}
}

// Model returns the chat model in use.
func (s *Synthesizer) Model() string { return s.model }

// chatRequest is the request body for the chat completions API.
type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Synthesize summarizes the top Reddit and X items for topic and asks the
// model for the recurring patterns.
func (s *Synthesizer) Synthesize(ctx context.Context, topic string, reddit, x []types.ResearchItem) (string, error) {
	user, err := render(synthesisUserTmpl, struct {
		Topic, RedditSummary, XSummary string
	}{topic, redditSummary(reddit), xSummary(x)})
	if err != nil {
		return "", fmt.Errorf("rendering synthesis prompt: %w", err)
	}
	text, err := s.complete(ctx, synthesisSystemPrompt, user, synthesisMaxTokens)
	if err != nil {
		return "", fmt.Errorf("Synthesis failed: %w", err)
	}
	return text, nil
}

// GeneratePrompt writes one prompt for vision that applies the patterns in
// synthesis.
func (s *Synthesizer) GeneratePrompt(ctx context.Context, synthesis, vision string) (string, error) {
	user, err := render(promptGenUserTmpl, struct{ Synthesis, Vision string }{synthesis, vision})
	if err != nil {
		return "", fmt.Errorf("rendering prompt generation prompt: %w", err)
	}
	text, err := s.complete(ctx, promptGenSystemPrompt, user, promptMaxTokens)
	if err != nil {
		return "", fmt.Errorf("Prompt generation failed: %w", err)
	}
	return text, nil
}

func (s *Synthesizer) complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	req := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens: maxTokens,
	}
	resp, err := s.http.PostJSON(ctx, s.baseURL+"/chat/completions", req, s.headers, chatTimeout)
	if err != nil {
		return "", err
	}

	if choices, ok := resp["choices"].([]any); ok && len(choices) > 0 {
		choice, _ := choices[0].(map[string]any)
		msg, _ := choice["message"].(map[string]any)
		content, ok := msg["content"].(string)
		if !ok {
			return "", ErrEmptyCompletion
		}
		return content, nil
	}
	if e, ok := resp["error"]; ok && e != nil {
		if m, ok := e.(map[string]any); ok {
			if msg, ok := m["message"].(string); ok {
				return "", errors.New(msg)
			}
		}
		return "", fmt.Errorf("%v", e)
	}
	return "", ErrEmptyCompletion
}
