package podssh

import (
	"io"
	"os"

	"github.com/samber/mo"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/runpod/podssh/pkg/entity"
)

// RemoteUser is the only account pods accept ssh logins for.
const RemoteUser = "root"

type AddressResolver interface {
	ResolveAddress(podID string) (mo.Option[entity.PodAddress], error)
}

type KeyResolver interface {
	ResolveKeyFile(host string, port int) (mo.Option[string], error)
}

type ExclusionProvider interface {
	ListExclusions() ([]string, error)
}

// ProgressFunc returns a writer that is fed every copied byte of a transfer
// of the given size. Returning nil disables progress for that transfer.
type ProgressFunc func(name string, size int64) io.Writer

type Options struct {
	Addresses  AddressResolver
	Keys       KeyResolver
	Exclusions ExclusionProvider

	Dialer        Dialer
	Runner        ProcessRunner
	HostKeyPolicy HostKeyPolicy
	Formatter     *Formatter
	Fs            afero.Fs
	Logger        *zap.Logger

	// PropagateRemoteFailures stops RunCommands at the first command that
	// exits non-zero and returns a RemoteCommandError. Off by default:
	// failing commands only show up as error lines.
	PropagateRemoteFailures bool

	Progress ProgressFunc

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func (o Options) withDefaults() Options {
	if o.Dialer == nil {
		o.Dialer = SSHDialer{}
	}
	if o.Runner == nil {
		o.Runner = ExecRunner{}
	}
	if o.HostKeyPolicy == nil {
		o.HostKeyPolicy = TrustOnFirstUse{}
	}
	if o.Fs == nil {
		o.Fs = afero.NewOsFs()
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Formatter == nil {
		o.Formatter = NewSinkFormatter(o.Stdout)
	}
	return o
}
