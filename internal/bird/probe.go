// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bird detects and drives the optional local "bird" X helper. When
// the helper is installed and logged in, X retrieval runs through it at no
// API cost; otherwise callers fall back to the OpenRouter X model.
package bird

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

const (
	// DefaultBinary is the helper's executable name on PATH.
	DefaultBinary = "bird"

	// installer is the package manager the helper ships through.
	installer = "npm"

	probeTimeout = 10 * time.Second
)

// Status is a point-in-time snapshot of the helper. It is recomputed on
// every call and never cached.
type Status struct {
	Installed     bool   `json:"installed" yaml:"installed"`
	Authenticated bool   `json:"authenticated" yaml:"authenticated"`
	Identity      string `json:"identity,omitempty" yaml:"identity,omitempty"`
	CanInstall    bool   `json:"can_install" yaml:"can_install"`
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osExecutor) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Probe inspects and runs the helper binary.
type Probe struct {
	bin  string
	exec executor
}

// NewProbe returns a probe for bin; an empty bin uses DefaultBinary.
func NewProbe(bin string) *Probe {
	return newProbe(bin, osExecutor{})
}

func newProbe(bin string, exec executor) *Probe {
	if strings.TrimSpace(bin) == "" {
		bin = DefaultBinary
	}
	return &Probe{bin: bin, exec: exec}
}

// Binary returns the executable the probe runs.
func (p *Probe) Binary() string { return p.bin }

// IsInstalled reports whether the helper binary is on PATH.
func (p *Probe) IsInstalled() bool {
	_, err := p.exec.LookPath(p.bin)
	return err == nil
}

// Identity runs "bird whoami" and returns the logged-in handle. It returns
// false when the helper is missing, exits non-zero, or prints nothing
// recognizable.
func (p *Probe) Identity() (string, bool) {
	if !p.IsInstalled() {
		return "", false
	}
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	out, err := p.exec.Output(ctx, p.bin, "whoami")
	if err != nil {
		return "", false
	}
	handle := parseWhoami(string(out))
	return handle, handle != ""
}

// Status gathers installed, authenticated, identity and whether the helper
// could be installed with the local package manager.
func (p *Probe) Status() Status {
	st := Status{Installed: p.IsInstalled()}
	if st.Installed {
		st.Identity, st.Authenticated = p.Identity()
	} else {
		_, err := p.exec.LookPath(installer)
		st.CanInstall = err == nil
	}
	return st
}

// parseWhoami picks the handle out of whoami output. The helper prints
// either "@handle" or "@handle (Display Name)", possibly after a label
// such as "Logged in as"; lines mentioning "not logged in" mean no session.
func parseWhoami(out string) string {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		if strings.Contains(lower, "not logged in") || strings.Contains(lower, "not authenticated") {
			return ""
		}
		for _, field := range strings.Fields(line) {
			if strings.HasPrefix(field, "@") && len(field) > 1 {
				return strings.TrimRight(strings.TrimPrefix(field, "@"), ".,:;)")
			}
		}
	}
	return ""
}
