// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the last30days CLI. It researches what
// Reddit and X said about a topic over the last days and turns the findings
// into a synthesis and ready-to-use prompts.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/last30days/internal/config"
	"github.com/pdiddy/last30days/internal/httputil"
	"github.com/pdiddy/last30days/internal/logging"
	"github.com/pdiddy/last30days/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// cfg and logger are populated by the root command before any subcommand
// runs.
var (
	cfg    types.Config
	logger = zap.NewNop()
)

// rootCmd is the base command for the last30days CLI.
var rootCmd = &cobra.Command{
	Use:   "last30days",
	Short: "Research the last 30 days of Reddit and X discussion on a topic",
	Long: `last30days asks OpenRouter web-search models for recent Reddit threads and X
posts about a topic, normalizes what they return into one item list and can
synthesize the findings into prompts.

Configuration is read, highest precedence first, from flags, the environment
(OPENROUTER_API_KEY, OPENROUTER_MODEL_REDDIT, OPENROUTER_MODEL_X,
LAST30DAYS_*), the .secrets/ directory, a .env file and last30days.yaml.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfgFile, _ := cmd.Flags().GetString("config")
		envFile, _ := cmd.Flags().GetString("env-file")
		secretsDir, _ := cmd.Flags().GetString("secrets-dir")

		c, err := config.Load(config.Options{
			ConfigFile: cfgFile,
			EnvFile:    envFile,
			SecretsDir: secretsDir,
			Flags:      cmd.Flags(),
		})
		if err != nil {
			return err
		}
		log, err := logging.New(c.Log, os.Stderr)
		if err != nil {
			return err
		}
		cfg, logger = c, log
		logger.Debug("configuration loaded",
			zap.Bool("api_key", cfg.HasAPIKey()),
			zap.String("memo", string(cfg.Cache.Backend)),
			zap.String("memo_path", cfg.Cache.Path))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./last30days.yaml or ~/.config/last30days/last30days.yaml)")
	pf.String("env-file", "", "dotenv file (default: ./.env)")
	pf.String("secrets-dir", "", "directory of secret files (default: .secrets)")
	pf.String("log-level", "", "diagnostic level: debug, info, warn, error")
	pf.String("log-file", "", "also write JSON diagnostics to this rotated file")
	pf.String("memo", "", "model memo backend: memory, file, sqlite, redis")
	pf.String("memo-path", "", "model memo file or database path")
	pf.String("bird", "", "bird helper binary")
	pf.String("base-url", "", "OpenRouter API base URL")
	pf.String("reddit-model", "", "pin the Reddit search model")
	pf.String("x-model", "", "pin the X search model")
}

// newHTTPClient returns the JSON transport every command shares.
func newHTTPClient() *httputil.Client {
	return httputil.NewClient(&http.Client{}, cfg.HTTP.UserAgent).WithTimeout(cfg.HTTP.Timeout)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
