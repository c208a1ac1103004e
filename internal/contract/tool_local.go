package contract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// waitDelay bounds how long Run waits for output pipes after the process is killed.
const waitDelay = 2 * time.Second

// LocalToolRunner implements the ToolRunner interface by executing
// binaries installed on the machine.
type LocalToolRunner struct{}

var _ ToolRunner = &LocalToolRunner{} // Compile-time check

// NewLocalToolRunner creates a new instance of the local tool runner.
func NewLocalToolRunner() *LocalToolRunner {
	return &LocalToolRunner{}
}

// LookPath implements the ToolRunner interface.
func (r *LocalToolRunner) LookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrToolNotFound, name, err)
	}
	return path, nil
}

// Run implements the ToolRunner interface. The process is killed when ctx expires.
func (r *LocalToolRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(ctxErr, context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w: %s", ErrToolTimeout, name)
	}
	if errors.Is(err, exec.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		msg := strings.TrimSpace(stderr.String())
		return stdout.Bytes(), fmt.Errorf("%w: %s exited with code %d: %s", ErrToolExit, name, exitErr.ExitCode(), msg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to run %s: %w", name, err)
	}
	return stdout.Bytes(), nil
}
