package toolexec

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"mkvlang/internal/services"
)

// ExitUnknown is reported when the process never produced an exit status
// (binary missing, killed by timeout, context cancelled).
const ExitUnknown = -1

// pipeDrainDelay bounds how long Run waits for orphaned children holding the
// output pipe after the tool itself was killed.
const pipeDrainDelay = 2 * time.Second

// Result captures a finished tool invocation.
type Result struct {
	Output   string
	ExitCode int
}

// Succeeded reports a clean zero exit status.
func (r Result) Succeeded() bool {
	return r.ExitCode == 0
}

// Runner executes an external tool and captures its combined output.
//
// A non-zero exit is not an error: it is reported through Result.ExitCode so
// callers can apply their own success rules. The error return is reserved for
// invocations that could not complete.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, name string, args ...string) (Result, error)

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, name string, args ...string) (Result, error) {
	return f(ctx, name, args...)
}

// ExecRunner runs tools with os/exec, bounding each call by Timeout when set.
type ExecRunner struct {
	Timeout time.Duration
}

// NewExecRunner constructs an ExecRunner with the provided per-call timeout.
// A zero timeout waits indefinitely.
func NewExecRunner(timeout time.Duration) *ExecRunner {
	return &ExecRunner{Timeout: timeout}
}

// Run executes name with args and blocks until it exits.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Result{ExitCode: ExitUnknown}, fmt.Errorf("%w: empty command", services.ErrExternalTool)
	}
	if r != nil && r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	cmd.WaitDelay = pipeDrainDelay
	output, err := cmd.CombinedOutput()
	result := Result{Output: string(output), ExitCode: ExitUnknown}
	if err == nil {
		result.ExitCode = 0
		return result, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, services.Wrap(services.ErrExternalTool, name, "", "invocation aborted", ctxErr)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	return result, services.Wrap(services.ErrExternalTool, name, "", "start failed", err)
}
