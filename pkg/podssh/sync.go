package podssh

import (
	"context"
	"strconv"

	"github.com/alessio/shellescape"
	"go.uber.org/zap"

	"github.com/runpod/podssh/pkg/entity"
	breverrors "github.com/runpod/podssh/pkg/errors"
)

const RsyncBinary = "rsync"

type SyncRequest struct {
	LocalPath  string
	RemotePath string
	Quiet      bool
	Exclusions []string
}

// BuildSyncArgs is the rsync argv (without the binary) that mirrors
// req.LocalPath into req.RemotePath on the pod. Ownership is never copied.
func BuildSyncArgs(req SyncRequest, addr entity.PodAddress, keyPath string, policy HostKeyPolicy) []string {
	args := []string{"-avz", "--no-owner", "--no-group"}
	for _, pattern := range req.Exclusions {
		args = append(args, "--exclude", pattern)
	}
	if req.Quiet {
		args = append(args, "--quiet")
	}

	sshArgs := []string{SSHBinary}
	sshArgs = append(sshArgs, policy.SSHOptions()...)
	sshArgs = append(sshArgs, "-p", strconv.Itoa(addr.Port), "-i", keyPath)

	return append(args,
		"-e", shellescape.QuoteCommand(sshArgs),
		req.LocalPath,
		addr.SSHTarget(RemoteUser)+":"+req.RemotePath,
	)
}

// Sync mirrors a local directory to the pod with rsync. Exclusions come from
// the connection's provider and are passed in file order.
func (c *Connection) Sync(ctx context.Context, localPath, remotePath string, quiet bool) error {
	if err := c.ensureOpen("sync"); err != nil {
		return err
	}
	var exclusions []string
	if c.exclusions != nil {
		var err error
		exclusions, err = c.exclusions.ListExclusions()
		if err != nil {
			return breverrors.WrapAndTrace(err)
		}
	}

	req := SyncRequest{LocalPath: localPath, RemotePath: remotePath, Quiet: quiet, Exclusions: exclusions}
	p := Process{
		Name:   RsyncBinary,
		Args:   BuildSyncArgs(req, c.addr, c.keyPath, c.policy),
		Stdout: c.stdout,
		Stderr: c.stderr,
	}
	c.logger.Debug("syncing", zap.Strings("argv", p.Args))
	if err := c.runner.Run(ctx, p); err != nil {
		return &breverrors.SyncError{ExitCode: ExitCode(err), Err: err}
	}
	return nil
}
