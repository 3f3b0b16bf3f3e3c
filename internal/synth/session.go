// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synth

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/pdiddy/last30days/pkg/types"
)

// Engine is what a Session needs from a synthesizer.
type Engine interface {
	Model() string
	Synthesize(ctx context.Context, topic string, reddit, x []types.ResearchItem) (string, error)
	GeneratePrompt(ctx context.Context, synthesis, vision string) (string, error)
}

// LineReader yields one line of user input per call and io.EOF when input
// ends.
type LineReader interface {
	Readline() (string, error)
	Close() error
}

// Session prints a synthesis and then generates prompts for the visions the
// user types. With a fixed Vision it runs once without reading input.
type Session struct {
	Engine Engine
	Out    io.Writer
	// Input is consulted only when Vision is empty. Nil uses a terminal
	// reader on stdin.
	Input  LineReader
	Vision string
}

const rule = "============================================================"

// Run synthesizes once, then loops on visions until the user quits with
// q, quit, exit, an empty line or end of input.
func (s *Session) Run(ctx context.Context, topic string, reddit, x []types.ResearchItem) error {
	out := s.Out
	if out == nil {
		out = os.Stdout
	}

	fmt.Fprintf(out, "\n%s\nSynthesizing research with %s...\n%s\n\n", rule, s.Engine.Model(), rule)
	synthesis, err := s.Engine.Synthesize(ctx, topic, reddit, x)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, synthesis)
	fmt.Fprintf(out, "\n%s\nResearch Stats:\n   Reddit: %d threads\n   X: %d posts\n%s\n\n", rule, len(reddit), len(x), rule)

	if s.Vision != "" {
		fmt.Fprintf(out, "Vision provided: %s\n\n", s.Vision)
		return s.generate(ctx, out, synthesis, s.Vision)
	}

	in := s.Input
	if in == nil {
		in = newTerminalReader()
	}
	defer in.Close()

	fmt.Fprintln(out, "What do you want to create? Describe your vision:")
	fmt.Fprintln(out, "   (Type your idea and press Enter)")
	fmt.Fprintln(out)
	vision, ok := readVision(in)
	if !ok {
		fmt.Fprintln(out, "\n[No vision provided - exiting]")
		return nil
	}
	if err := s.generate(ctx, out, synthesis, vision); err != nil {
		return err
	}

	for {
		fmt.Fprintln(out, "Want another prompt? Describe what you want to create (or 'q' to quit):")
		fmt.Fprintln(out)
		vision, ok := readVision(in)
		if !ok {
			return nil
		}
		if err := s.generate(ctx, out, synthesis, vision); err != nil {
			return err
		}
	}
}

func (s *Session) generate(ctx context.Context, out io.Writer, synthesis, vision string) error {
	fmt.Fprintf(out, "%s\nGenerating your prompt...\n%s\n\n", rule, rule)
	prompt, err := s.Engine.GeneratePrompt(ctx, synthesis, vision)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, prompt)
	fmt.Fprintf(out, "\n%s\n\n", rule)
	return nil
}

// readVision returns the next vision, or false when the user is done.
func readVision(in LineReader) (string, bool) {
	line, err := in.Readline()
	if err != nil {
		return "", false
	}
	v := strings.TrimSpace(line)
	switch strings.ToLower(v) {
	case "", "q", "quit", "exit":
		return "", false
	}
	return v, true
}

// newTerminalReader prefers readline for history and line editing and falls
// back to plain buffered stdin.
func newTerminalReader() LineReader {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     filepath.Join(os.TempDir(), ".last30days_history"),
		HistoryLimit:    100,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return &plainReader{r: bufio.NewReader(os.Stdin), prompt: "> ", out: os.Stdout}
	}
	return interruptAsEOF{rl}
}

// interruptAsEOF ends the session on Ctrl-C like on Ctrl-D.
type interruptAsEOF struct{ *readline.Instance }

func (r interruptAsEOF) Readline() (string, error) {
	line, err := r.Instance.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", io.EOF
	}
	return line, err
}

type plainReader struct {
	r      *bufio.Reader
	prompt string
	out    io.Writer
}

// NewPlainReader reads lines from r, writing prompt to out before each.
func NewPlainReader(r io.Reader, prompt string, out io.Writer) LineReader {
	return &plainReader{r: bufio.NewReader(r), prompt: prompt, out: out}
}

func (p *plainReader) Readline() (string, error) {
	if p.out != nil && p.prompt != "" {
		fmt.Fprint(p.out, p.prompt)
	}
	line, err := p.r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (p *plainReader) Close() error { return nil }
