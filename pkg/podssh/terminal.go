package podssh

import (
	"context"
	"os"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/term"

	breverrors "github.com/runpod/podssh/pkg/errors"
)

const SSHBinary = "ssh"

// BuildTerminalArgs is the ssh argv (without the binary) for an interactive
// login to the pod.
func BuildTerminalArgs(c *Connection) []string {
	args := []string{"-p", strconv.Itoa(c.addr.Port)}
	args = append(args, c.policy.SSHOptions()...)
	args = append(args, "-i", c.keyPath, c.addr.SSHTarget(RemoteUser))
	return args
}

// LaunchTerminal hands the user's terminal to an ssh child process and
// blocks until it exits.
func (c *Connection) LaunchTerminal(ctx context.Context) error {
	if err := c.ensureOpen("terminal"); err != nil {
		return err
	}
	if f, ok := c.stdin.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		c.logger.Warn("stdin is not a terminal, the remote shell will not get a pty")
	}

	p := Process{
		Name:   SSHBinary,
		Args:   BuildTerminalArgs(c),
		Stdin:  c.stdin,
		Stdout: c.stdout,
		Stderr: c.stderr,
	}
	c.logger.Debug("launching terminal", zap.Strings("argv", p.Args))
	if err := c.runner.Run(ctx, p); err != nil {
		return &breverrors.TerminalError{ExitCode: ExitCode(err), Err: err}
	}
	return nil
}
