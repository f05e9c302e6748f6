// Package podssh talks to RunPod pods over ssh: it resolves a pod's public
// address and key, runs commands, copies files, opens interactive shells and
// mirrors directories with rsync.
package podssh

import (
	"context"
	"io"
	"sync"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"

	"github.com/runpod/podssh/pkg/entity"
	breverrors "github.com/runpod/podssh/pkg/errors"
)

var errClosed = breverrors.New("connection is closed")

// Connection is an open ssh session to one pod. It is not safe for
// concurrent use; open one Connection per goroutine.
type Connection struct {
	podID   string
	addr    entity.PodAddress
	keyPath string

	client     RemoteClient
	policy     HostKeyPolicy
	runner     ProcessRunner
	exclusions ExclusionProvider
	formatter  *Formatter
	fs         afero.Fs
	logger     *zap.Logger
	progress   ProgressFunc
	strict     bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	mu     sync.Mutex
	closed bool
}

// NewConnection resolves podID and opens an authenticated session as root.
// Resolution failures never touch the network.
func NewConnection(ctx context.Context, podID string, opts Options) (*Connection, error) {
	opts = opts.withDefaults()
	InitOutput()
	logger := opts.Logger.With(zap.String("pod", podID))

	if opts.Addresses == nil || opts.Keys == nil {
		return nil, breverrors.NewValidationError("an address resolver and a key resolver are required")
	}

	addrOpt, err := opts.Addresses.ResolveAddress(podID)
	if err != nil {
		return nil, breverrors.NewResolutionError(podID, "address lookup failed", err)
	}
	addr, ok := addrOpt.Get()
	if !ok {
		return nil, breverrors.NewResolutionError(podID, "no public ssh address", nil)
	}

	keyOpt, err := opts.Keys.ResolveKeyFile(addr.Host, addr.Port)
	if err != nil {
		return nil, breverrors.NewResolutionError(podID, "key lookup failed", err)
	}
	keyPath, ok := keyOpt.Get()
	if !ok {
		return nil, breverrors.NewResolutionError(podID, "no private key for "+addr.String(), nil)
	}

	signer, err := loadSigner(opts.Fs, keyPath)
	if err != nil {
		return nil, breverrors.NewResolutionError(podID, "unusable private key "+keyPath, err)
	}

	hostKeyCallback, err := opts.HostKeyPolicy.HostKeyCallback()
	if err != nil {
		return nil, breverrors.NewConnectionError(addr.String(), "host key setup", err)
	}

	config := &ssh.ClientConfig{
		User:            RemoteUser,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: hostKeyCallback,
	}

	logger.Debug("dialing pod", zap.Stringer("addr", addr), zap.String("key", keyPath))
	client, err := opts.Dialer.Dial(ctx, addr.String(), config)
	if err != nil {
		return nil, breverrors.NewConnectionError(addr.String(), "dial", err)
	}

	return &Connection{
		podID:      podID,
		addr:       addr,
		keyPath:    keyPath,
		client:     client,
		policy:     opts.HostKeyPolicy,
		runner:     opts.Runner,
		exclusions: opts.Exclusions,
		formatter:  opts.Formatter,
		fs:         opts.Fs,
		logger:     logger,
		progress:   opts.Progress,
		strict:     opts.PropagateRemoteFailures,
		stdin:      opts.Stdin,
		stdout:     opts.Stdout,
		stderr:     opts.Stderr,
	}, nil
}

func loadSigner(fs afero.Fs, keyPath string) (ssh.Signer, error) {
	pem, err := afero.ReadFile(fs, keyPath)
	if err != nil {
		return nil, breverrors.WrapAndTrace(err)
	}
	signer, err := ssh.ParsePrivateKey(pem)
	if err != nil {
		return nil, breverrors.WrapAndTrace(err)
	}
	return signer, nil
}

func (c *Connection) PodID() string { return c.podID }

func (c *Connection) Address() entity.PodAddress { return c.addr }

func (c *Connection) KeyPath() string { return c.keyPath }

// Close releases the session. Closing twice is an error.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return breverrors.NewConnectionError(c.addr.String(), "close", errClosed)
	}
	c.closed = true
	if err := c.client.Close(); err != nil {
		return breverrors.NewConnectionError(c.addr.String(), "close", err)
	}
	c.logger.Debug("connection closed")
	return nil
}

func (c *Connection) ensureOpen(op string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return breverrors.NewConnectionError(c.addr.String(), op, errClosed)
	}
	return nil
}
