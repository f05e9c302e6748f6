package cmderrors

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	breverrors "github.com/runpod/podssh/pkg/errors"
)

func TestDisplayAndHandleError(t *testing.T) {
	orig := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = orig })

	var buf bytes.Buffer
	DisplayAndHandleError(&buf, breverrors.WrapAndTrace(breverrors.NewValidationError("bad pod path")))
	assert.Equal(t, "bad pod path\n", buf.String())

	buf.Reset()
	DisplayAndHandleError(&buf, breverrors.WrapAndTrace(breverrors.NewResolutionError("p1", "pod not found", nil)))
	assert.Contains(t, buf.String(), "could not resolve pod p1: pod not found")
	assert.Contains(t, buf.String(), "~/.runpod/ssh")
	assert.NotContains(t, buf.String(), "[error]")

	buf.Reset()
	DisplayAndHandleError(&buf, nil)
	assert.Empty(t, buf.String())
}

func TestTransformToValidationError(t *testing.T) {
	args := TransformToValidationError(cobra.ExactArgs(2))
	err := args(&cobra.Command{}, []string{"one"})
	var valErr breverrors.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.NoError(t, args(&cobra.Command{}, []string{"one", "two"}))
}
