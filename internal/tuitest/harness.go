// Package tuitest drives a terminal program inside a pseudo-terminal and
// records what it draws, so end-to-end tests can assert on rendered screens.
package tuitest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
)

const (
	defaultWidth   = 120
	defaultHeight  = 32
	defaultTimeout = 5 * time.Second
	pollInterval   = 25 * time.Millisecond
)

// Step is one scripted interaction. Delay runs first, then the step blocks
// until Expect appears on screen (when set), then Input is written.
type Step struct {
	Delay  time.Duration
	Expect string
	Input  []byte
}

// Config configures how the harness spawns and drives the program.
type Config struct {
	Command          []string
	Dir              string
	Env              []string
	Width            int
	Height           int
	Steps            []Step
	Timeout          time.Duration
	AllowedExitCodes []int
	AllowInterrupt   bool
}

func (cfg Config) withDefaults() Config {
	if cfg.Width <= 0 {
		cfg.Width = defaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = defaultHeight
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return cfg
}

// exitAllowed reports whether a non-nil wait error is an acceptable way for
// the program to end.
func (cfg Config) exitAllowed(err error) bool {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		for _, code := range cfg.AllowedExitCodes {
			if exitErr.ExitCode() == code {
				return true
			}
		}
	}
	return cfg.AllowInterrupt && strings.Contains(err.Error(), "signal: interrupt")
}

// Recording contains the raw terminal stream plus parsed frames.
type Recording struct {
	Raw      []byte
	Frames   []Frame
	Duration time.Duration
}

// screenBuffer collects pty output and is read concurrently by Expect steps.
type screenBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *screenBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *screenBuffer) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.buf.Bytes()...)
}

func (s *screenBuffer) Contains(text string) bool {
	return strings.Contains(stripANSI(string(s.Bytes())), text)
}

// Run starts the command in a pty, replays the steps, and records all output.
func Run(ctx context.Context, cfg Config) (*Recording, error) {
	if len(cfg.Command) == 0 {
		return nil, errors.New("tuitest: command is required")
	}
	cfg = cfg.withDefaults()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, cfg.Command[0], cfg.Command[1:]...)
	cmd.Dir = cfg.Dir
	cmd.Env = buildEnv(cfg.Env)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(cfg.Height), Cols: uint16(cfg.Width)})
	if err != nil {
		return nil, fmt.Errorf("tuitest: start program: %w", err)
	}
	defer func() { _ = ptmx.Close() }()

	screen := &screenBuffer{}
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		responder := newTerminalResponder(ptmx)
		chunk := make([]byte, 4096)
		for {
			n, readErr := ptmx.Read(chunk)
			if n > 0 {
				responder.Process(chunk[:n])
				_, _ = screen.Write(chunk[:n])
			}
			// EOF, a closed pty, or EIO after the child exits.
			if readErr != nil {
				return
			}
		}
	}()

	start := time.Now()
	for i, step := range cfg.Steps {
		if err := playStep(ctx, ptmx, screen, step); err != nil {
			return nil, fmt.Errorf("tuitest: step %d: %w", i, err)
		}
	}

	waitErr := make(chan error, 1)
	go func() { waitErr <- cmd.Wait() }()

	select {
	case err := <-waitErr:
		if err != nil && !cfg.exitAllowed(err) {
			return nil, fmt.Errorf("tuitest: program exited with error: %w", err)
		}
	case <-ctx.Done():
		return nil, fmt.Errorf("tuitest: timeout waiting for program exit: %w", ctx.Err())
	}

	_ = ptmx.Close()
	<-drained

	raw := screen.Bytes()
	return &Recording{Raw: raw, Frames: parseFrames(raw), Duration: time.Since(start)}, nil
}

func playStep(ctx context.Context, w interface{ Write([]byte) (int, error) }, screen *screenBuffer, step Step) error {
	if step.Delay > 0 {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context done before script finished: %w", ctx.Err())
		case <-time.After(step.Delay):
		}
	}
	if step.Expect != "" {
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		for !screen.Contains(step.Expect) {
			select {
			case <-ctx.Done():
				return fmt.Errorf("%q never appeared: %w", step.Expect, ctx.Err())
			case <-ticker.C:
			}
		}
	}
	if len(step.Input) > 0 {
		if _, err := w.Write(step.Input); err != nil {
			return fmt.Errorf("write input: %w", err)
		}
	}
	return nil
}

func buildEnv(extra []string) []string {
	env := append(os.Environ(), extra...)
	for _, entry := range env {
		if strings.HasPrefix(entry, "TERM=") {
			return env
		}
	}
	return append(env, "TERM=xterm-256color")
}

// Wait pauses the script.
func Wait(d time.Duration) Step {
	return Step{Delay: d}
}

// WaitFor blocks the script until text has been drawn.
func WaitFor(text string) Step {
	return Step{Expect: text}
}

// Type sends text the way keystrokes arrive.
func Type(text string) Step {
	return Step{Input: []byte(text)}
}

// Press sends a single key sequence.
func Press(key []byte) Step {
	return Step{Input: key}
}

// Paste wraps text in bracketed-paste markers, which is what a terminal sends
// when files are dragged onto its window.
func Paste(text string) Step {
	input := make([]byte, 0, len(text)+len(pasteStart)+len(pasteEnd))
	input = append(input, pasteStart...)
	input = append(input, text...)
	input = append(input, pasteEnd...)
	return Step{Input: input}
}

var (
	pasteStart = []byte("\x1b[200~")
	pasteEnd   = []byte("\x1b[201~")

	KeyEnter = []byte{'\r'}
	KeyCtrlC = []byte{3}
	// KeyCtrlL toggles the staged file list.
	KeyCtrlL = []byte{12}
	// KeyCtrlO opens the attachment picker.
	KeyCtrlO = []byte{15}
	KeyEsc   = []byte{27}
)
