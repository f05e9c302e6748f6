package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	breverrors "github.com/runpod/podssh/pkg/errors"
)

func newTestCommand(t *testing.T) (*bytes.Buffer, func(args ...string) error) {
	t.Helper()
	t.Setenv("RUNPOD_CONFIG_DIR", t.TempDir())
	viper.Reset()
	t.Cleanup(viper.Reset)

	var out bytes.Buffer
	return &out, func(args ...string) error {
		c := NewPodSSHCommand(strings.NewReader(""), &out, &out)
		c.SetArgs(args)
		return c.Execute() //nolint:wrapcheck // test helper
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	t.Setenv("RUNPOD_CONFIG_DIR", t.TempDir())
	viper.Reset()
	t.Cleanup(viper.Reset)

	c := NewPodSSHCommand(strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})
	var names []string
	for _, sub := range c.Commands() {
		names = append(names, sub.Name())
	}
	for _, want := range []string{"exec", "copy", "shell", "sync", "configure", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestHelp(t *testing.T) {
	out, run := newTestCommand(t)
	require.NoError(t, run())
	assert.Contains(t, out.String(), "podssh")
}

func TestArgumentErrorsAreValidationErrors(t *testing.T) {
	_, run := newTestCommand(t)

	tests := [][]string{
		{"copy", "only-one"},
		{"copy", "local-a", "local-b"},
		{"shell"},
		{"sync"},
	}
	for _, args := range tests {
		err := run(args...)
		var valErr breverrors.ValidationError
		assert.ErrorAs(t, err, &valErr, strings.Join(args, " "))
	}
}

func TestStrictFlagBindsToConfig(t *testing.T) {
	_, run := newTestCommand(t)
	require.NoError(t, run("--strict"))
	assert.True(t, viper.GetBool("strict"))
}
