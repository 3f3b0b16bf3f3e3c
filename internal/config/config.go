// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config assembles the runtime configuration. Sources are layered,
// highest precedence first: command-line flags, process environment, the
// secrets directory, a .env file, the YAML config file, built-in defaults.
// Each call to Load uses its own viper instance; nothing is global.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/last30days/internal/logging"
	"github.com/pdiddy/last30days/internal/secrets"
	"github.com/pdiddy/last30days/pkg/types"
)

// AppName names the config file, the config directory and the env prefix.
const AppName = "last30days"

// Config keys.
const (
	KeyAPIKey        = "api_key"
	KeyRedditModel   = "reddit_model"
	KeyXModel        = "x_model"
	KeySynthModel    = "synth_model"
	KeyBirdBinary    = "bird_binary"
	KeyHTTPTimeout   = "http.timeout"
	KeyUserAgent     = "http.user_agent"
	KeyReferer       = "http.referer"
	KeyTitle         = "http.title"
	KeyBaseURL       = "http.base_url"
	KeyCacheBackend  = "cache.backend"
	KeyCachePath     = "cache.path"
	KeyRedisAddr     = "cache.redis_addr"
	KeyRedisPassword = "cache.redis_password"
	KeyRedisDB       = "cache.redis_db"
	KeyRedisPrefix   = "cache.redis_prefix"
	KeyLogLevel      = "log.level"
	KeyLogFile       = "log.file"
	KeyLogDev        = "log.development"
)

// envNames maps config keys to environment variable names. The model keys
// keep their historical names; everything else is LAST30DAYS_<KEY>.
var envNames = func() map[string]string {
	m := map[string]string{
		KeyAPIKey:      "OPENROUTER_API_KEY",
		KeyRedditModel: "OPENROUTER_MODEL_REDDIT",
		KeyXModel:      "OPENROUTER_MODEL_X",
		KeySynthModel:  "OPENROUTER_MODEL_SYNTH",
	}
	for _, k := range []string{
		KeyBirdBinary, KeyHTTPTimeout, KeyUserAgent, KeyReferer, KeyTitle, KeyBaseURL,
		KeyCacheBackend, KeyCachePath, KeyRedisAddr, KeyRedisPassword, KeyRedisDB, KeyRedisPrefix,
		KeyLogLevel, KeyLogFile, KeyLogDev,
	} {
		m[k] = strings.ToUpper(AppName) + "_" + strings.ToUpper(strings.ReplaceAll(k, ".", "_"))
	}
	return m
}()

// secretKeys maps secret file names to config keys.
var secretKeys = map[string]string{
	secrets.OpenRouterAPIKey: KeyAPIKey,
	secrets.RedisPassword:    KeyRedisPassword,
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"log-level":    KeyLogLevel,
	"log-file":     KeyLogFile,
	"memo":         KeyCacheBackend,
	"memo-path":    KeyCachePath,
	"bird":         KeyBirdBinary,
	"reddit-model": KeyRedditModel,
	"x-model":      KeyXModel,
	"model":        KeySynthModel,
	"base-url":     KeyBaseURL,
}

// Options controls where Load looks.
type Options struct {
	// ConfigFile is an explicit YAML config path. Empty searches
	// ./last30days.yaml and ~/.config/last30days/last30days.yaml; a missing
	// file is only an error when ConfigFile is set.
	ConfigFile string
	// EnvFile is a dotenv path. Empty means ./.env if it exists.
	EnvFile string
	// SecretsDir defaults to secrets.DefaultDir.
	SecretsDir string
	// HomeDir overrides the user home directory.
	HomeDir string
	// Flags, when set, contributes any flag named in flagKeys that the
	// user changed.
	Flags *pflag.FlagSet
	Log   *zap.Logger
}

// Load builds the configuration.
func Load(opts Options) (types.Config, error) {
	log := logging.OrNop(opts.Log)
	home := opts.HomeDir
	if home == "" {
		home, _ = os.UserHomeDir()
	}

	v := viper.New()
	setDefaults(v)

	if err := readConfigFile(v, opts.ConfigFile, home, log); err != nil {
		return types.Config{}, err
	}

	envFile, err := readEnvFile(opts.EnvFile)
	if err != nil {
		return types.Config{}, err
	}
	if err := v.MergeConfigMap(nest(envFile)); err != nil {
		return types.Config{}, fmt.Errorf("merging env file: %w", err)
	}

	secretsDir := opts.SecretsDir
	if secretsDir == "" {
		secretsDir = secrets.DefaultDir
	}
	s, err := secrets.Load(secretsDir, log)
	if err != nil {
		return types.Config{}, err
	}
	fromSecrets := make(map[string]string)
	for name, key := range secretKeys {
		if val, ok := s[name]; ok {
			fromSecrets[key] = val
		}
	}
	if err := v.MergeConfigMap(nest(fromSecrets)); err != nil {
		return types.Config{}, fmt.Errorf("merging secrets: %w", err)
	}

	for key, env := range envNames {
		if err := v.BindEnv(key, env); err != nil {
			return types.Config{}, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return types.Config{}, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	return build(v, home), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeySynthModel, types.DefaultSynthModel)
	v.SetDefault(KeyBirdBinary, "bird")
	v.SetDefault(KeyHTTPTimeout, types.DefaultTimeout)
	v.SetDefault(KeyUserAgent, types.DefaultUserAgent)
	v.SetDefault(KeyReferer, types.DefaultReferer)
	v.SetDefault(KeyTitle, types.DefaultTitle)
	v.SetDefault(KeyBaseURL, types.DefaultBaseURL)
	v.SetDefault(KeyCacheBackend, string(types.MemoFile))
	v.SetDefault(KeyLogLevel, "warn")
}

func readConfigFile(v *viper.Viper, explicit, home string, log *zap.Logger) error {
	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.SetConfigName(AppName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home != "" {
			v.AddConfigPath(filepath.Join(home, ".config", AppName))
		}
	}

	err := v.ReadInConfig()
	if err == nil {
		log.Debug("using config file", zap.String("path", v.ConfigFileUsed()))
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if explicit == "" && errors.As(err, &notFound) {
		return nil
	}
	return fmt.Errorf("reading config file: %w", err)
}

// readEnvFile parses a dotenv file and returns config-keyed values. Only
// variables listed in envNames are recognized.
func readEnvFile(path string) (map[string]string, error) {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading env file: %w", err)
	}

	ev := viper.New()
	ev.SetConfigFile(path)
	ev.SetConfigType("env")
	if err := ev.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}

	out := make(map[string]string)
	for key, env := range envNames {
		if val := unquote(ev.GetString(strings.ToLower(env))); val != "" {
			out[key] = val
		}
	}
	return out, nil
}

// unquote strips one layer of matching quotes the dotenv parser left behind.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// nest turns dotted keys into the nested maps viper merges.
func nest(flat map[string]string) map[string]any {
	out := make(map[string]any)
	for key, val := range flat {
		parts := strings.Split(key, ".")
		m := out
		for _, p := range parts[:len(parts)-1] {
			child, ok := m[p].(map[string]any)
			if !ok {
				child = make(map[string]any)
				m[p] = child
			}
			m = child
		}
		m[parts[len(parts)-1]] = val
	}
	return out
}

func build(v *viper.Viper, home string) types.Config {
	cfg := types.Config{
		APIKey:      strings.TrimSpace(v.GetString(KeyAPIKey)),
		RedditModel: v.GetString(KeyRedditModel),
		XModel:      v.GetString(KeyXModel),
		SynthModel:  v.GetString(KeySynthModel),
		BirdBinary:  v.GetString(KeyBirdBinary),
		HTTP: types.HTTPConfig{
			Timeout:   v.GetDuration(KeyHTTPTimeout),
			UserAgent: v.GetString(KeyUserAgent),
			Referer:   v.GetString(KeyReferer),
			Title:     v.GetString(KeyTitle),
			BaseURL:   v.GetString(KeyBaseURL),
		},
		Cache: types.CacheConfig{
			Backend:       types.MemoBackend(strings.ToLower(v.GetString(KeyCacheBackend))),
			Path:          v.GetString(KeyCachePath),
			RedisAddr:     v.GetString(KeyRedisAddr),
			RedisPassword: v.GetString(KeyRedisPassword),
			RedisDB:       v.GetInt(KeyRedisDB),
			RedisPrefix:   v.GetString(KeyRedisPrefix),
		},
		Log: types.LogConfig{
			Level:       v.GetString(KeyLogLevel),
			File:        v.GetString(KeyLogFile),
			Development: v.GetBool(KeyLogDev),
		},
	}
	if cfg.Cache.Path == "" {
		cfg.Cache.Path = defaultMemoPath(cfg.Cache.Backend, home)
	}
	return cfg
}

// defaultMemoPath places the memo under ~/.cache/last30days.
func defaultMemoPath(backend types.MemoBackend, home string) string {
	name := "models.yaml"
	if backend == types.MemoSQLite {
		name = "models.db"
	}
	return filepath.Join(home, ".cache", AppName, name)
}

// EnvName returns the environment variable bound to a config key.
func EnvName(key string) string {
	return envNames[key]
}
