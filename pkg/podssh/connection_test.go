package podssh

import (
	"context"
	"errors"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"

	"github.com/runpod/podssh/pkg/entity"
	breverrors "github.com/runpod/podssh/pkg/errors"
)

func TestNewConnectionDialsAsRoot(t *testing.T) {
	env := newTestEnv(t)
	env.dialer.On("Dial", mock.Anything, "1.2.3.4:2222", mock.MatchedBy(func(c *ssh.ClientConfig) bool {
		return c.User == "root" && len(c.Auth) == 1 && c.HostKeyCallback != nil
	})).Return(env.client, nil).Once()

	conn, err := NewConnection(context.Background(), "p1", env.opts)
	require.NoError(t, err)
	env.dialer.AssertExpectations(t)

	assert.Equal(t, "p1", conn.PodID())
	assert.Equal(t, testAddr, conn.Address())
	assert.Equal(t, testKeyPath, conn.KeyPath())
}

func TestNewConnectionResolutionFailuresNeverDial(t *testing.T) {
	tests := []struct {
		name  string
		addrs AddressResolver
		keys  KeyResolver
	}{
		{
			name:  "no address",
			addrs: stubAddresses{addr: mo.None[entity.PodAddress]()},
			keys:  stubKeys{path: mo.Some(testKeyPath)},
		},
		{
			name:  "address lookup error",
			addrs: stubAddresses{err: errors.New("api down")},
			keys:  stubKeys{path: mo.Some(testKeyPath)},
		},
		{
			name:  "no key",
			addrs: stubAddresses{addr: mo.Some(testAddr)},
			keys:  stubKeys{path: mo.None[string]()},
		},
		{
			name:  "key file unreadable",
			addrs: stubAddresses{addr: mo.Some(testAddr)},
			keys:  stubKeys{path: mo.Some("/missing")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.opts.Addresses = tt.addrs
			env.opts.Keys = tt.keys

			conn, err := NewConnection(context.Background(), "p1", env.opts)
			assert.Nil(t, conn)
			var resErr *breverrors.ResolutionError
			require.ErrorAs(t, err, &resErr)
			assert.Equal(t, "p1", resErr.PodID)
			env.dialer.AssertNotCalled(t, "Dial", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestNewConnectionDialFailure(t *testing.T) {
	env := newTestEnv(t)
	env.dialer.On("Dial", mock.Anything, "1.2.3.4:2222", mock.Anything).Return(nil, errors.New("connection refused")).Once()

	_, err := NewConnection(context.Background(), "p1", env.opts)
	var connErr *breverrors.ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, "dial", connErr.Op)
	assert.Equal(t, "1.2.3.4:2222", connErr.Addr)
}

func TestNewConnectionRequiresResolvers(t *testing.T) {
	_, err := NewConnection(context.Background(), "p1", Options{})
	var valErr breverrors.ValidationError
	assert.ErrorAs(t, err, &valErr)
}

func TestCloseTwice(t *testing.T) {
	env := newTestEnv(t)
	conn := env.connect(t)

	require.NoError(t, conn.Close())
	assert.Equal(t, 1, env.client.closeCount)

	var connErr *breverrors.ConnectionError
	assert.ErrorAs(t, conn.Close(), &connErr)
	assert.Equal(t, 1, env.client.closeCount)
}

func TestOperationsAfterClose(t *testing.T) {
	env := newTestEnv(t)
	conn := env.connect(t)
	require.NoError(t, conn.Close())
	ctx := context.Background()

	errs := map[string]error{
		"exec":     conn.RunCommands(ctx, []string{"ls"}),
		"put":      conn.PutFile(ctx, testKeyPath, "/remote"),
		"get":      conn.GetFile(ctx, "/remote", "/local"),
		"terminal": conn.LaunchTerminal(ctx),
		"sync":     conn.Sync(ctx, "/a", "/b", false),
	}
	for op, err := range errs {
		var connErr *breverrors.ConnectionError
		if assert.ErrorAs(t, err, &connErr, op) {
			assert.Equal(t, op, connErr.Op)
		}
	}
	assert.Empty(t, env.client.sessions)
	assert.Empty(t, env.runner.processes)
}

func TestTrustPolicies(t *testing.T) {
	assert.Equal(t, []string{"-o", "StrictHostKeyChecking=no"}, TrustOnFirstUse{}.SSHOptions())
	cb, err := TrustOnFirstUse{}.HostKeyCallback()
	require.NoError(t, err)
	assert.NotNil(t, cb)

	kh := KnownHosts{Path: "/home/user/.ssh/known_hosts"}
	assert.Equal(t, []string{
		"-o", "StrictHostKeyChecking=yes",
		"-o", "UserKnownHostsFile=/home/user/.ssh/known_hosts",
	}, kh.SSHOptions())

	_, err = KnownHosts{Path: "/does/not/exist"}.HostKeyCallback()
	assert.Error(t, err)
}
