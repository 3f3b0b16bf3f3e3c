package types

import (
	"strings"
	"time"
)

// HTTPConfig holds shared HTTP settings used by every outbound request.
type HTTPConfig struct {
	// Timeout bounds every outbound request. It is the budget for calls
	// that set none and a ceiling for calls that set a longer one.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "last30days/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// Referer and Title are the two identification headers OpenRouter
	// uses to attribute traffic (HTTP-Referer and X-Title).
	Referer string `json:"referer" yaml:"referer"`
	Title   string `json:"title" yaml:"title"`

	// BaseURL is the OpenRouter API root (default https://openrouter.ai/api/v1).
	BaseURL string `json:"base_url" yaml:"base_url"`
}

// MemoBackend selects where resolved model choices are remembered.
type MemoBackend string

const (
	MemoMemory MemoBackend = "memory"
	MemoFile   MemoBackend = "file"
	MemoSQLite MemoBackend = "sqlite"
	MemoRedis  MemoBackend = "redis"
)

// CacheConfig holds settings for the model-choice memo.
type CacheConfig struct {
	// Backend is one of memory, file, sqlite, redis (default file).
	Backend MemoBackend `json:"backend" yaml:"backend"`

	// Path is the file or database path for the file and sqlite backends.
	Path string `json:"path" yaml:"path"`

	RedisAddr     string `json:"redis_addr,omitempty" yaml:"redis_addr,omitempty"`
	RedisPassword string `json:"redis_password,omitempty" yaml:"redis_password,omitempty"`
	RedisDB       int    `json:"redis_db,omitempty" yaml:"redis_db,omitempty"`
	RedisPrefix   string `json:"redis_prefix,omitempty" yaml:"redis_prefix,omitempty"`
}

// LogConfig holds settings for the diagnostic logger.
type LogConfig struct {
	// Level is the minimum level: debug, info, warn, error.
	Level string `json:"level" yaml:"level"`

	// File, when set, receives JSON log lines with rotation.
	File string `json:"file,omitempty" yaml:"file,omitempty"`

	// Development switches stderr output to colored console lines.
	Development bool `json:"development" yaml:"development"`
}

// Config is the fully resolved runtime configuration. It is built once by
// internal/config and passed by value; nothing mutates it afterwards.
type Config struct {
	// APIKey is the OpenRouter API key. Empty means web fallback only.
	APIKey string `json:"-" yaml:"-"`

	// RedditModel and XModel pin the model for a search task and bypass
	// model selection entirely.
	RedditModel string `json:"reddit_model,omitempty" yaml:"reddit_model,omitempty"`
	XModel      string `json:"x_model,omitempty" yaml:"x_model,omitempty"`

	// SynthModel is the chat model used for synthesis and prompt generation.
	SynthModel string `json:"synth_model,omitempty" yaml:"synth_model,omitempty"`

	// BirdBinary is the name or path of the local X helper (default "bird").
	BirdBinary string `json:"bird_binary" yaml:"bird_binary"`

	HTTP  HTTPConfig  `json:"http" yaml:"http"`
	Cache CacheConfig `json:"cache" yaml:"cache"`
	Log   LogConfig   `json:"log" yaml:"log"`
}

// HasAPIKey reports whether a non-blank OpenRouter key is configured.
func (c Config) HasAPIKey() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// Defaults applied when configuration leaves a field empty.
const (
	DefaultBaseURL    = "https://openrouter.ai/api/v1"
	DefaultReferer    = "https://github.com/last30days-skill"
	DefaultTitle      = "last30days-skill"
	DefaultUserAgent  = "last30days/0.1"
	DefaultSynthModel = "anthropic/claude-sonnet-4.5"
	DefaultTimeout    = 180 * time.Second
)
