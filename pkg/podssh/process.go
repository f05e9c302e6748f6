package podssh

import (
	"context"
	"errors"
	"io"
	"os/exec"
)

// Process describes a local child process such as ssh or rsync.
type Process struct {
	Name   string
	Args   []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

type ProcessRunner interface {
	// Run blocks until the process exits. A non-zero exit is reported as an
	// error that ExitCode understands.
	Run(ctx context.Context, p Process) error
}

type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, p Process) error {
	cmd := exec.CommandContext(ctx, p.Name, p.Args...) //nolint:gosec // argv is built from resolved pod data
	cmd.Stdin = p.Stdin
	cmd.Stdout = p.Stdout
	cmd.Stderr = p.Stderr
	return cmd.Run() //nolint:wrapcheck // callers classify by exit code
}

// ExitCode extracts a child's exit status. Failures to start at all, such as
// a missing binary, report -1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return -1
}
