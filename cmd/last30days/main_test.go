// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/last30days/internal/research"
)

// execute runs the root command in an isolated environment and returns
// stdout. Flags in args override the isolation defaults.
func execute(t *testing.T, apiKey string, args ...string) (string, error) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("OPENROUTER_API_KEY", apiKey)

	base := []string{
		"--secrets-dir", filepath.Join(home, "secrets"),
		"--bird", "last30days-test-no-such-bird",
		"--memo", "memory",
	}
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append(base, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "last30days dev\n", out)
}

func TestSourcesCommand(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		args      []string
		effective string
		strategy  string
		message   bool
	}{
		{"no key", "", []string{"sources", "--json", "--sources", "reddit"}, "web", "none", true},
		{"key auto", "sk-or-test", []string{"sources", "--json", "--sources", "auto"}, "both", "xai", false},
		{"key x only", "sk-or-test", []string{"sources", "--json", "--sources", "x"}, "x", "xai", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.key, tt.args...)
			require.NoError(t, err)

			var got sourcesReport
			require.NoError(t, json.Unmarshal([]byte(out), &got))
			assert.Equal(t, tt.effective, got.Effective)
			assert.Equal(t, tt.strategy, string(got.XStrategy))
			assert.Equal(t, tt.message, got.Message != "")
			assert.False(t, got.Bird.Installed)
		})
	}
}

func TestModelsCommandWithoutKey(t *testing.T) {
	out, err := execute(t, "", "models")
	require.NoError(t, err)
	assert.Contains(t, out, "no models in use")
}

func TestModelsCommandPinned(t *testing.T) {
	out, err := execute(t, "sk-or-test", "models", "--reddit-model", "pinned/r", "--x-model", "pinned/x")
	require.NoError(t, err)
	assert.Contains(t, out, "openrouter_reddit   pinned/r")
	assert.Contains(t, out, "openrouter_x        pinned/x")
}

func TestSynthesizeRequiresFrom(t *testing.T) {
	_, err := execute(t, "sk-or-test", "synthesize")
	require.Error(t, err)
}

func TestSynthesizeRejectsWebOnlyRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, research.SaveRun(path, &research.Result{
		ID:        "01JWEBONLY",
		Topic:     "kubernetes operators",
		Sources:   "web",
		Timestamp: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
	}))

	_, err := execute(t, "sk-or-test", "synthesize", "--from", path, "--vision", "a poster")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no Reddit or X results to synthesize")
	assert.Contains(t, err.Error(), `"web"`)
}

func TestModelsClearReportsEntries(t *testing.T) {
	memoPath := filepath.Join(t.TempDir(), "models.yaml")
	require.NoError(t, os.WriteFile(memoPath, []byte("openrouter_reddit: a/one\nopenrouter_x: b/two\n"), 0o644))

	out, err := execute(t, "", "models", "--clear", "--memo", "file", "--memo-path", memoPath)
	require.NoError(t, err)
	assert.Equal(t, "Model memo cleared (2 entries).\n", out)
	assert.NoFileExists(t, memoPath)
}
