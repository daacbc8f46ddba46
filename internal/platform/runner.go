package platform

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/yndnr/netkeep-go/internal/core/domain"
	"github.com/yndnr/netkeep-go/internal/telemetry/logger"
)

// DefaultCommandTimeout bounds commands whose context has no deadline.
const DefaultCommandTimeout = 15 * time.Second

// Command is one external tool invocation.
type Command struct {
	Name string
	Args []string

	// Privileged commands run through sudo when the runner is configured
	// for it.
	Privileged bool
}

// String renders the command line with secrets masked.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Name)
	mask := false
	for _, a := range c.Args {
		if mask {
			parts = append(parts, "****")
			mask = false
			continue
		}
		parts = append(parts, a)
		switch a {
		case "password", "wifi-sec.psk":
			mask = true
		}
	}
	return strings.Join(parts, " ")
}

// Runner executes external commands and returns their stdout.
type Runner interface {
	Run(ctx context.Context, cmd Command) (string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// UseSudo prefixes privileged commands with "sudo -n".
	UseSudo bool

	// Timeout applies when the context carries no deadline.
	Timeout time.Duration

	Logger *slog.Logger
}

// NewExecRunner creates an ExecRunner.
func NewExecRunner(useSudo bool, timeout time.Duration, logger *slog.Logger) *ExecRunner {
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ExecRunner{UseSudo: useSudo, Timeout: timeout, Logger: logger}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, c Command) (string, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	name, args := c.Name, c.Args
	if c.Privileged && r.UseSudo {
		name, args = "sudo", append([]string{"-n", c.Name}, c.Args...)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	r.Logger.Debug("command finished", append(traceAttrs(ctx),
		"command", c.String(),
		"duration", time.Since(start),
		"error", err)...)

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return stdout.String(), domain.ErrCommandTimeout.WithDetails(c.String()).WithCause(ctx.Err())
		}
		details := c.String()
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			details += ": " + msg
		}
		return stdout.String(), domain.ErrCommandFailure.WithDetails(details).WithCause(err)
	}
	return stdout.String(), nil
}

// traceAttrs returns the cycle and request IDs carried by ctx.
func traceAttrs(ctx context.Context) []any {
	var attrs []any
	if id := logger.CycleIDFromContext(ctx); id != "" {
		attrs = append(attrs, "cycle_id", id)
	}
	if id := logger.RequestIDFromContext(ctx); id != "" {
		attrs = append(attrs, "request_id", id)
	}
	return attrs
}
