package hledger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultBinary is the hledger executable looked up on PATH.
const DefaultBinary = "hledger"

// ErrInvocation is the kind of every ExecError.
var ErrInvocation = errors.New("hledger invocation failed")

// ExecError reports an hledger process that could not start or exited non-zero.
type ExecError struct {
	Path     string
	Args     []string
	ExitCode int // -1 when the process never ran to completion
	Stderr   string
	Err      error
}

func (e *ExecError) Error() string {
	if e.ExitCode > 0 {
		if e.Stderr != "" {
			return fmt.Sprintf("%s exited with status %d: %s", e.Path, e.ExitCode, e.Stderr)
		}
		return fmt.Sprintf("%s exited with status %d", e.Path, e.ExitCode)
	}
	return fmt.Sprintf("running %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying exec error.
func (e *ExecError) Unwrap() error {
	return e.Err
}

// Is matches ErrInvocation.
func (e *ExecError) Is(target error) bool {
	return target == ErrInvocation
}

// Runner executes hledger with the given arguments and returns its stdout.
type Runner interface {
	Run(ctx context.Context, args []string) ([]byte, error)
}

// ExecRunner runs the hledger binary as a subprocess.
type ExecRunner struct {
	Path string // defaults to DefaultBinary
}

// Run executes the binary. Failures are returned as *ExecError.
func (r ExecRunner) Run(ctx context.Context, args []string) ([]byte, error) {
	path := r.Path
	if path == "" {
		path = DefaultBinary
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		execErr := &ExecError{
			Path:     path,
			Args:     args,
			ExitCode: -1,
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			execErr.ExitCode = exitErr.ExitCode()
		}
		return nil, execErr
	}
	return out, nil
}
