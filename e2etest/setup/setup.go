// Package setup connects end to end tests to a live pod. Tests are skipped
// unless PODSSH_E2E_POD_ID names a running pod the configured api key can see.
package setup

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/runpod/podssh/pkg/cmd/util"
	breverrors "github.com/runpod/podssh/pkg/errors"
	"github.com/runpod/podssh/pkg/featureflag"
	"github.com/runpod/podssh/pkg/files"
	"github.com/runpod/podssh/pkg/podssh"
	"github.com/runpod/podssh/pkg/store"
	"github.com/runpod/podssh/pkg/terminal"
)

const podIDEnv = "PODSSH_E2E_POD_ID"

type TestPod struct {
	PodID     string
	Conn      *podssh.Connection
	RemoteDir string
	Out       *bytes.Buffer
}

type TestPodOption interface {
	ApplyTestPodOption(opts *podssh.Options)
}

// Strict makes remote failures surface as errors.
type Strict bool

func (s Strict) ApplyTestPodOption(opts *podssh.Options) {
	opts.PropagateRemoteFailures = bool(s)
}

// NewTestPod connects to the pod named by PODSSH_E2E_POD_ID and creates a
// scratch directory on it. Call Done to remove it.
func NewTestPod(t *testing.T, options ...TestPodOption) *TestPod {
	t.Helper()
	podID := os.Getenv(podIDEnv)
	if podID == "" {
		t.Skipf("%s not set", podIDEnv)
	}

	fs := afero.NewOsFs()
	fsStore := store.NewBasicStore().WithFileSystem(fs)
	home, err := fsStore.UserHomeDir()
	require.NoError(t, err)
	_ = featureflag.LoadFeatureFlags(files.GetRunpodDirPath(home))
	if featureflag.APIKey() == "" {
		t.Skip("no runpod api key configured")
	}
	podStore := fsStore.WithAuthHTTPClient(store.NewAuthHTTPClient(featureflag.APIKey(), featureflag.APIURL()))

	var out bytes.Buffer
	term := terminal.NewWithWriters(&out, &out)
	opts := util.NewConnectionOptions(term, zaptest.NewLogger(t))
	opts.Formatter = podssh.NewFormatter(&out, false)
	opts.Stdout = &out
	opts.Stderr = &out
	for _, o := range options {
		o.ApplyTestPodOption(&opts)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	conn, err := util.ConnectToPod(ctx, term, podStore, podID, opts)
	require.NoError(t, err)

	p := &TestPod{
		PodID:     podID,
		Conn:      conn,
		RemoteDir: fmt.Sprintf("/tmp/podssh-e2e-%d", time.Now().UnixNano()),
		Out:       &out,
	}
	require.NoError(t, p.Exec("mkdir -p "+p.RemoteDir))
	return p
}

func (p *TestPod) Exec(commands ...string) error {
	return p.Conn.RunCommands(context.Background(), commands) //nolint:wrapcheck // for tests
}

// Path joins name onto the scratch directory.
func (p *TestPod) Path(name string) string {
	return p.RemoteDir + "/" + name
}

func (p *TestPod) Done() error {
	var allError error
	if err := p.Exec("rm -rf " + p.RemoteDir); err != nil {
		allError = multierror.Append(allError, err)
	}
	if err := p.Conn.Close(); err != nil {
		allError = multierror.Append(allError, err)
	}
	if allError != nil {
		return breverrors.WrapAndTrace(allError)
	}
	return nil
}

func AssertOutputContains(t *testing.T, p *TestPod, command string, want string) {
	t.Helper()
	p.Out.Reset()
	err := p.Exec(command)
	if !assert.NoError(t, err) {
		return
	}
	assert.Contains(t, p.Out.String(), fmt.Sprintf("[%s] %s", p.PodID, want))
}

func AssertRemoteFileContains(t *testing.T, p *TestPod, path string, want string) {
	t.Helper()
	AssertOutputContains(t, p, "cat "+path, strings.TrimSpace(want))
}
