package podssh

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	breverrors "github.com/runpod/podssh/pkg/errors"
)

// RemoteEnvPrefix loads the pod's shell profile and the environment RunPod
// injects into the container before every remote command.
const RemoteEnvPrefix = "source /root/.bashrc && source /etc/rp_environment && "

func BuildRemoteCommand(command string) string {
	return RemoteEnvPrefix + command
}

// RunCommands runs each command in order, each in a fresh session. Stdout
// lines are printed as they arrive; stderr lines follow once the command is
// done. A non-zero exit does not stop the sequence unless remote failures are
// propagated.
func (c *Connection) RunCommands(ctx context.Context, commands []string) error {
	for _, command := range commands {
		if err := c.ensureOpen("exec"); err != nil {
			return err
		}
		status, err := c.runCommand(ctx, command)
		if err != nil {
			return err
		}
		if status != 0 {
			c.logger.Debug("remote command failed", zap.String("command", command), zap.Int("status", status))
			if c.strict {
				return &breverrors.RemoteCommandError{PodID: c.podID, Command: command, ExitCode: status}
			}
		}
	}
	return nil
}

func (c *Connection) runCommand(ctx context.Context, command string) (int, error) {
	addr := c.addr.String()
	session, err := c.client.NewSession()
	if err != nil {
		return 0, breverrors.NewConnectionError(addr, "session", err)
	}
	defer session.Close() //nolint:errcheck // session already finished or torn down

	stdout, err := session.StdoutPipe()
	if err != nil {
		return 0, breverrors.NewConnectionError(addr, "stdout", err)
	}
	stderr, err := session.StderrPipe()
	if err != nil {
		return 0, breverrors.NewConnectionError(addr, "stderr", err)
	}

	c.logger.Debug("running remote command", zap.String("command", command))
	if err = session.Start(BuildRemoteCommand(command)); err != nil {
		return 0, breverrors.NewConnectionError(addr, "exec", err)
	}

	stop := context.AfterFunc(ctx, func() { _ = session.Close() })
	defer stop()

	// stderr is buffered in the background so a chatty command cannot stall
	// on a full channel window while stdout is still being read
	var errBuf bytes.Buffer
	var g errgroup.Group
	g.Go(func() error {
		_, err := io.Copy(&errBuf, stderr)
		return err //nolint:wrapcheck // wrapped below
	})

	readErr := readLines(stdout, func(line string) {
		if line == "" {
			return
		}
		c.formatter.Success(c.podID, line)
	})
	if readErr != nil {
		_, _ = io.Copy(io.Discard, stdout)
	}
	copyErr := g.Wait()

	stderrErr := readLines(&errBuf, func(line string) {
		c.formatter.Error(c.podID, line)
	})

	if ctx.Err() != nil {
		return 0, breverrors.NewConnectionError(addr, "exec", ctx.Err())
	}
	if readErr != nil {
		return 0, breverrors.NewConnectionError(addr, "read stdout", readErr)
	}
	if copyErr != nil {
		return 0, breverrors.NewConnectionError(addr, "read stderr", copyErr)
	}
	if stderrErr != nil {
		return 0, breverrors.NewConnectionError(addr, "read stderr", stderrErr)
	}
	return exitStatus(addr, session.Wait())
}

// readLines emits every line of r with trailing whitespace removed. Lines
// have no length limit; a final line without a newline is still emitted.
func readLines(r io.Reader, emit func(string)) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			emit(strings.TrimRight(line, " \t\r\n\v\f"))
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err //nolint:wrapcheck // wrapped by the caller
		}
	}
}

func exitStatus(addr string, err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	// *ssh.ExitError
	var exitErr interface{ ExitStatus() int }
	if errors.As(err, &exitErr) {
		return exitErr.ExitStatus(), nil
	}
	// the remote side hung up without reporting a status
	return 0, breverrors.NewConnectionError(addr, "exec", err)
}
