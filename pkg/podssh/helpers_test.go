package podssh

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/samber/mo"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/ssh"

	"github.com/runpod/podssh/pkg/entity"
)

const testKeyPath = "/k"

var testAddr = entity.PodAddress{Host: "1.2.3.4", Port: 2222}

type stubAddresses struct {
	addr mo.Option[entity.PodAddress]
	err  error
}

func (s stubAddresses) ResolveAddress(string) (mo.Option[entity.PodAddress], error) {
	return s.addr, s.err
}

type stubKeys struct {
	path mo.Option[string]
	err  error
}

func (s stubKeys) ResolveKeyFile(string, int) (mo.Option[string], error) {
	return s.path, s.err
}

type stubExclusions []string

func (s stubExclusions) ListExclusions() ([]string, error) { return s, nil }

type mockDialer struct {
	mock.Mock
}

func (m *mockDialer) Dial(ctx context.Context, addr string, config *ssh.ClientConfig) (RemoteClient, error) {
	args := m.Called(ctx, addr, config)
	client, _ := args.Get(0).(RemoteClient)
	return client, args.Error(1)
}

type stubPolicy struct {
	opts []string
}

func (p stubPolicy) HostKeyCallback() (ssh.HostKeyCallback, error) {
	return ssh.InsecureIgnoreHostKey(), nil //nolint:gosec // test double
}

func (p stubPolicy) SSHOptions() []string { return p.opts }

type exitStatusError int

func (e exitStatusError) Error() string   { return "Process exited with status" }
func (e exitStatusError) ExitStatus() int { return int(e) }

// fakeScript is the canned result of one remote command.
type fakeScript struct {
	stdout string
	stderr string
	wait   error
}

type fakeSession struct {
	script  fakeScript
	started string
	closed  atomic.Bool
}

func (s *fakeSession) StdoutPipe() (io.Reader, error) { return strings.NewReader(s.script.stdout), nil }
func (s *fakeSession) StderrPipe() (io.Reader, error) { return strings.NewReader(s.script.stderr), nil }
func (s *fakeSession) Start(cmd string) error         { s.started = cmd; return nil }
func (s *fakeSession) Wait() error                    { return s.script.wait }
func (s *fakeSession) Close() error                   { s.closed.Store(true); return nil }

type fakeClient struct {
	mu         sync.Mutex
	scripts    []fakeScript
	sessions   []*fakeSession
	sessionErr error
	sftp       *fakeSFTP
	closeCount int
}

func (c *fakeClient) NewSession() (Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sessionErr != nil {
		return nil, c.sessionErr
	}
	var script fakeScript
	if len(c.scripts) > 0 {
		script, c.scripts = c.scripts[0], c.scripts[1:]
	}
	s := &fakeSession{script: script}
	c.sessions = append(c.sessions, s)
	return s, nil
}

func (c *fakeClient) NewSFTP() (SFTPClient, error) {
	if c.sftp == nil {
		return nil, os.ErrPermission
	}
	return c.sftp, nil
}

func (c *fakeClient) Close() error {
	c.closeCount++
	return nil
}

func (c *fakeClient) commands() []string {
	out := make([]string, 0, len(c.sessions))
	for _, s := range c.sessions {
		out = append(out, s.started)
	}
	return out
}

// fakeSFTP serves remote files from an in-memory afero filesystem.
type fakeSFTP struct {
	fs     afero.Fs
	closed int
}

func (f *fakeSFTP) Open(path string) (SFTPFile, error)    { return f.fs.Open(path) }
func (f *fakeSFTP) Create(path string) (SFTPFile, error)  { return f.fs.Create(path) }
func (f *fakeSFTP) Stat(path string) (os.FileInfo, error) { return f.fs.Stat(path) }
func (f *fakeSFTP) Close() error                          { f.closed++; return nil }

type recordingRunner struct {
	processes []Process
	err       error
}

func (r *recordingRunner) Run(_ context.Context, p Process) error {
	r.processes = append(r.processes, p)
	return r.err
}

type fakeExitError int

func (e fakeExitError) Error() string { return "exit status" }
func (e fakeExitError) ExitCode() int { return int(e) }

func writeTestKey(t *testing.T, fs afero.Fs, path string) {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	block, err := ssh.MarshalPrivateKey(priv, "")
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fs, path, pem.EncodeToMemory(block), 0o600))
}

type testEnv struct {
	opts   Options
	client *fakeClient
	dialer *mockDialer
	runner *recordingRunner
	out    *bytes.Buffer
	local  afero.Fs
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	local := afero.NewMemMapFs()
	writeTestKey(t, local, testKeyPath)

	client := &fakeClient{sftp: &fakeSFTP{fs: afero.NewMemMapFs()}}
	dialer := &mockDialer{}
	runner := &recordingRunner{}
	out := &bytes.Buffer{}

	return &testEnv{
		opts: Options{
			Addresses:  stubAddresses{addr: mo.Some(testAddr)},
			Keys:       stubKeys{path: mo.Some(testKeyPath)},
			Exclusions: stubExclusions{"*.pyc", ".git/"},
			Dialer:     dialer,
			Runner:     runner,
			Formatter:  NewFormatter(out, false),
			Fs:         local,
			Logger:     zaptest.NewLogger(t),
			Stdin:      strings.NewReader(""),
			Stdout:     io.Discard,
			Stderr:     io.Discard,
		},
		client: client,
		dialer: dialer,
		runner: runner,
		out:    out,
		local:  local,
	}
}

func (e *testEnv) connect(t *testing.T) *Connection {
	t.Helper()
	e.dialer.On("Dial", mock.Anything, "1.2.3.4:2222", mock.Anything).Return(e.client, nil).Once()
	conn, err := NewConnection(context.Background(), "p1", e.opts)
	require.NoError(t, err)
	return conn
}
