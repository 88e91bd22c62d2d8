package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"pandoc-hq/bridge/pkg/apierr"
)

// Engine runs the external conversion binary. It is an interface so the
// service and registry can be tested without pandoc installed.
type Engine interface {
	// Run executes the binary with the given arguments, feeding stdin
	// when non-nil, and returns stdout. Failures come back as typed
	// *apierr.Error values.
	Run(ctx context.Context, args []string, stdin []byte, fromFormat, toFormat string) ([]byte, error)

	// ListFormats returns the reader ("input") or writer ("output")
	// format names supported by the binary.
	ListFormats(ctx context.Context, direction string) ([]string, error)

	// Version returns the binary's version line, "unknown" when the
	// binary misbehaves, or "not installed" when it is absent.
	Version(ctx context.Context) string
}

// PandocEngine is the production Engine invoking a pandoc binary.
type PandocEngine struct {
	binary  string
	timeout time.Duration
}

// NewPandocEngine creates an engine for the given binary path and
// per-conversion timeout.
func NewPandocEngine(binary string, timeout time.Duration) *PandocEngine {
	return &PandocEngine{binary: binary, timeout: timeout}
}

// Run implements Engine.
func (e *PandocEngine) Run(ctx context.Context, args []string, stdin []byte, fromFormat, toFormat string) ([]byte, error) {
	runCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, e.binary, args...)
	setProcessGroup(cmd)
	cmd.Cancel = func() error { return killProcessGroup(cmd) }
	cmd.WaitDelay = 5 * time.Second

	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.Bytes(), nil
	}

	if runCtx.Err() == context.DeadlineExceeded {
		return nil, apierr.NewTimeout(int(e.timeout.Seconds()))
	}

	if errors.Is(err, exec.ErrNotFound) {
		return nil, apierr.NewConversion(
			"Pandoc is not installed or not found in PATH",
			fromFormat, toFormat, "")
	}

	engineError := strings.TrimSpace(stderr.String())
	return nil, apierr.NewConversion(
		fmt.Sprintf("Pandoc conversion failed: %s", engineError),
		fromFormat, toFormat, engineError)
}

// ListFormats implements Engine.
func (e *PandocEngine) ListFormats(ctx context.Context, direction string) ([]string, error) {
	runCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	out, err := exec.CommandContext(runCtx, e.binary, "--list-"+direction+"-formats").Output()
	if err != nil {
		return nil, fmt.Errorf("failed to list %s formats: %w", direction, err)
	}

	var formats []string
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			formats = append(formats, line)
		}
	}
	return formats, nil
}

// Version implements Engine.
func (e *PandocEngine) Version(ctx context.Context) string {
	runCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	out, err := exec.CommandContext(runCtx, e.binary, "--version").Output()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "not installed"
		}
		return "unknown"
	}

	first, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return strings.TrimSpace(first)
}
