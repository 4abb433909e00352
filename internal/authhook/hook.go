// Package authhook runs the pluggable auth header generator. The hook is
// a zero-argument producer of {headerName, headerValue}; failures are
// reported at the call site and never touch existing header state.
package authhook

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/ShayestehHS/apidock/internal/models"
)

// Hook produces one auth header per invocation.
type Hook interface {
	Generate(ctx context.Context) (models.AuthHeader, error)
}

// Func adapts a plain function to the Hook interface.
type Func func(ctx context.Context) (models.AuthHeader, error)

// Generate calls the wrapped function.
func (f Func) Generate(ctx context.Context) (models.AuthHeader, error) {
	return f(ctx)
}

// CommandHook runs an external command expected to print the auth header
// as JSON on stdout.
type CommandHook struct {
	command string
	timeout time.Duration
}

// NewCommandHook creates a command hook. An empty command returns nil:
// auto-auth is disabled.
func NewCommandHook(command string, timeout time.Duration) *CommandHook {
	if strings.TrimSpace(command) == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &CommandHook{command: command, timeout: timeout}
}

// Generate runs the command and validates its output. Both header fields
// must be non-empty strings or the result is invalid.
func (h *CommandHook) Generate(ctx context.Context) (models.AuthHeader, error) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", h.command)
	out, err := cmd.Output()
	if err != nil {
		return models.AuthHeader{}, fmt.Errorf("auth hook command failed: %w", err)
	}

	var header models.AuthHeader
	if err := json.Unmarshal(out, &header); err != nil {
		return models.AuthHeader{}, fmt.Errorf("auth hook produced invalid JSON: %w", err)
	}
	if !header.Valid() {
		return models.AuthHeader{}, fmt.Errorf("auth hook produced an incomplete header (headerName=%q)", header.HeaderName)
	}

	return header, nil
}
