package util

import (
	"context"
	"io"
	"path/filepath"

	"github.com/samber/mo"
	"go.uber.org/zap"

	"github.com/runpod/podssh/pkg/entity"
	breverrors "github.com/runpod/podssh/pkg/errors"
	"github.com/runpod/podssh/pkg/featureflag"
	"github.com/runpod/podssh/pkg/podssh"
	"github.com/runpod/podssh/pkg/terminal"
)

// PodStore is everything a command needs to reach a pod.
type PodStore interface {
	PodPollingStore
	podssh.KeyResolver
	podssh.ExclusionProvider
}

// resolvedAddress feeds an address found while polling into the connection
// so the api is not asked twice.
type resolvedAddress entity.PodAddress

func (a resolvedAddress) ResolveAddress(string) (mo.Option[entity.PodAddress], error) {
	return mo.Some(entity.PodAddress(a)), nil
}

// NewConnectionOptions builds connection options from the loaded config.
func NewConnectionOptions(t *terminal.Terminal, logger *zap.Logger) podssh.Options {
	opts := podssh.Options{
		Formatter:               podssh.NewSinkFormatter(t.Out()),
		Stdout:                  t.Out(),
		Stderr:                  t.Err(),
		Logger:                  logger,
		PropagateRemoteFailures: featureflag.PropagateRemoteFailures(),
		Progress: func(name string, size int64) io.Writer {
			return t.NewByteProgressBar(size, filepath.Base(name))
		},
	}
	if kh := featureflag.KnownHostsFile(); kh != "" {
		opts.HostKeyPolicy = podssh.KnownHosts{Path: kh}
	}
	return opts
}

// ConnectToPod waits for the pod's ssh endpoint and opens a connection.
func ConnectToPod(ctx context.Context, t *terminal.Terminal, pstore PodStore, podID string, opts podssh.Options) (*podssh.Connection, error) {
	if featureflag.APIKey() == "" {
		return nil, &breverrors.APIKeyNotFound{}
	}
	addr, err := WaitForAddress(ctx, t.NewSpinner(), pstore, podID, DefaultWaitTimeout, DefaultPollInterval)
	if err != nil {
		return nil, err
	}
	opts.Addresses = resolvedAddress(addr)
	opts.Keys = pstore
	opts.Exclusions = pstore

	conn, err := podssh.NewConnection(ctx, podID, opts)
	if err != nil {
		return nil, breverrors.WrapAndTrace(err)
	}
	return conn, nil
}
