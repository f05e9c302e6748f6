package shell

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/runpod/podssh/pkg/cmd/cmderrors"
	"github.com/runpod/podssh/pkg/cmd/util"
	breverrors "github.com/runpod/podssh/pkg/errors"
	"github.com/runpod/podssh/pkg/terminal"
)

var (
	shellLong    = "Open an interactive shell on a pod as root"
	shellExample = "podssh shell abc123xyz\npodssh ssh abc123xyz"
)

func NewCmdShell(t *terminal.Terminal, store util.PodStore) *cobra.Command {
	cmd := &cobra.Command{
		Annotations:           map[string]string{"ssh": ""},
		Use:                   "shell <pod-id>",
		Aliases:               []string{"ssh"},
		DisableFlagsInUseLine: true,
		Short:                 "open a shell on a pod",
		Long:                  shellLong,
		Example:               shellExample,
		Args:                  cmderrors.TransformToValidationError(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runShellCommand(cmd.Context(), t, store, args[0])
			if err != nil {
				return breverrors.WrapAndTrace(err)
			}
			return nil
		},
	}

	return cmd
}

func runShellCommand(ctx context.Context, t *terminal.Terminal, store util.PodStore, podID string) error {
	conn, err := util.ConnectToPod(ctx, t, store, podID, util.NewConnectionOptions(t, zap.L()))
	if err != nil {
		return breverrors.WrapAndTrace(err)
	}
	defer conn.Close() //nolint:errcheck // the shell has already exited

	err = conn.LaunchTerminal(ctx)
	if err != nil {
		return breverrors.WrapAndTrace(err)
	}
	return nil
}
