// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bird

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	availableBins map[string]bool   // binary -> whether LookPath succeeds
	outputs       map[string]string // "bin arg1 arg2" -> stdout
	calls         []string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	key := name + " " + strings.Join(args, " ")
	m.calls = append(m.calls, key)
	if out, ok := m.outputs[key]; ok {
		return []byte(out), nil
	}
	return nil, errors.New("command failed: " + key)
}

func TestNewProbeDefaultsBinary(t *testing.T) {
	assert.Equal(t, DefaultBinary, NewProbe("").Binary())
	assert.Equal(t, "/opt/bird", NewProbe("/opt/bird").Binary())
}

func TestProbeIdentity(t *testing.T) {
	tests := []struct {
		name       string
		exec       *mockExecutor
		wantHandle string
		wantOK     bool
	}{
		{
			name: "logged in",
			exec: &mockExecutor{
				availableBins: map[string]bool{"bird": true},
				outputs:       map[string]string{"bird whoami": "@jane (Jane Doe)\n"},
			},
			wantHandle: "jane",
			wantOK:     true,
		},
		{
			name: "labelled output",
			exec: &mockExecutor{
				availableBins: map[string]bool{"bird": true},
				outputs:       map[string]string{"bird whoami": "Logged in as @dev_42."},
			},
			wantHandle: "dev_42",
			wantOK:     true,
		},
		{
			name: "not logged in",
			exec: &mockExecutor{
				availableBins: map[string]bool{"bird": true},
				outputs:       map[string]string{"bird whoami": "Not logged in. Run bird login."},
			},
		},
		{
			name: "whoami fails",
			exec: &mockExecutor{
				availableBins: map[string]bool{"bird": true},
			},
		},
		{
			name: "not installed",
			exec: &mockExecutor{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProbe("", tt.exec)
			handle, ok := p.Identity()
			assert.Equal(t, tt.wantHandle, handle)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestProbeIdentitySkipsWhoamiWhenMissing(t *testing.T) {
	exec := &mockExecutor{}
	_, ok := newProbe("", exec).Identity()
	assert.False(t, ok)
	assert.Empty(t, exec.calls)
}

func TestProbeStatus(t *testing.T) {
	tests := []struct {
		name string
		exec *mockExecutor
		want Status
	}{
		{
			name: "installed and authenticated",
			exec: &mockExecutor{
				availableBins: map[string]bool{"bird": true},
				outputs:       map[string]string{"bird whoami": "@jane"},
			},
			want: Status{Installed: true, Authenticated: true, Identity: "jane"},
		},
		{
			name: "installed without session",
			exec: &mockExecutor{availableBins: map[string]bool{"bird": true}},
			want: Status{Installed: true},
		},
		{
			name: "missing but installable",
			exec: &mockExecutor{availableBins: map[string]bool{"npm": true}},
			want: Status{CanInstall: true},
		},
		{
			name: "missing and no installer",
			exec: &mockExecutor{},
			want: Status{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, newProbe("", tt.exec).Status())
		})
	}
}

func TestProbeSearch(t *testing.T) {
	exec := &mockExecutor{
		availableBins: map[string]bool{"bird": true},
		outputs: map[string]string{
			"bird search -n 10 --json -- claude code": `[
				{"id":"1900000000000000001","text":"Claude Code hooks are great","createdAt":"2026-10-01T12:00:00Z",
				 "author":{"username":"jane"},"likeCount":12,"retweetCount":3}
			]`,
		},
	}
	items, err := newProbe("", exec).Search(context.Background(), "claude code", 10)
	require.NoError(t, err)
	require.Len(t, items, 1)

	it := items[0]
	assert.Equal(t, "X1", it.ID)
	assert.Equal(t, "https://x.com/jane/status/1900000000000000001", it.URL)
	assert.Equal(t, "jane", it.Author)
	assert.Equal(t, "2026-10-01", it.DateString())
	assert.Equal(t, 12, it.Engagement.Likes)
	assert.Equal(t, 3, it.Engagement.Reposts)
}

func TestSearchTopicStartingWithDash(t *testing.T) {
	exec := &mockExecutor{
		availableBins: map[string]bool{"bird": true},
		outputs: map[string]string{
			"bird search -n 5 --json -- --version drama": `[]`,
		},
	}
	items, err := newProbe("", exec).Search(context.Background(), "--version drama", 5)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, []string{"bird search -n 5 --json -- --version drama"}, exec.calls)
}

func TestProbeSearchCommandFailure(t *testing.T) {
	exec := &mockExecutor{availableBins: map[string]bool{"bird": true}}
	_, err := newProbe("", exec).Search(context.Background(), "topic", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "running bird search")
}
