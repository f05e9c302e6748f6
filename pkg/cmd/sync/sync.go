package sync

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/runpod/podssh/pkg/cmd/cmderrors"
	"github.com/runpod/podssh/pkg/cmd/util"
	"github.com/runpod/podssh/pkg/config"
	breverrors "github.com/runpod/podssh/pkg/errors"
	"github.com/runpod/podssh/pkg/terminal"
)

var (
	syncLong = `Mirror a local directory to a pod with rsync.

Patterns in .runpodignore (one per line, # for comments) in the current
directory are excluded on top of __pycache__/, *.pyc, .*.swp and .git/.
File ownership is never copied.`
	syncExample = `  podssh sync abc123xyz
  podssh sync abc123xyz ./project
  podssh sync abc123xyz ./project /workspace/project --quiet`
)

func NewCmdSync(t *terminal.Terminal, store util.PodStore) *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Annotations:           map[string]string{"ssh": ""},
		Use:                   "sync <pod-id> [local-dir] [remote-dir]",
		DisableFlagsInUseLine: true,
		Short:                 "rsync a local directory to a pod",
		Long:                  syncLong,
		Example:               syncExample,
		Args:                  cmderrors.TransformToValidationError(cobra.RangeArgs(1, 3)),
		RunE: func(cmd *cobra.Command, args []string) error {
			podID, local, remote := syncPaths(args)
			err := runSync(cmd.Context(), t, store, podID, local, remote, quiet)
			if err != nil {
				return breverrors.WrapAndTrace(err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress rsync output")

	return cmd
}

func syncPaths(args []string) (podID, local, remote string) {
	podID, local, remote = args[0], ".", config.GlobalConfig.GetDefaultRemoteDir()
	if len(args) > 1 {
		local = args[1]
	}
	if len(args) > 2 {
		remote = args[2]
	}
	return podID, local, remote
}

func runSync(ctx context.Context, t *terminal.Terminal, store util.PodStore, podID, local, remote string, quiet bool) error {
	conn, err := util.ConnectToPod(ctx, t, store, podID, util.NewConnectionOptions(t, zap.L()))
	if err != nil {
		return breverrors.WrapAndTrace(err)
	}
	defer conn.Close() //nolint:errcheck // rsync result is what matters

	err = conn.Sync(ctx, local, remote, quiet)
	if err != nil {
		return breverrors.WrapAndTrace(err)
	}
	if !quiet {
		t.Vprintf("%s\n", t.Green("synced %s -> %s:%s", local, podID, remote))
	}
	return nil
}
