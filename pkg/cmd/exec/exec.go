package exec

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/alessio/shellescape"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/runpod/podssh/pkg/cmd/cmderrors"
	"github.com/runpod/podssh/pkg/cmd/util"
	breverrors "github.com/runpod/podssh/pkg/errors"
	"github.com/runpod/podssh/pkg/podssh"
	"github.com/runpod/podssh/pkg/terminal"
)

var (
	execLong    = "Execute commands on one or more pods non-interactively"
	execExample = `  # Run a command on a pod
  podssh exec abc123xyz "nvidia-smi"

  # Run several commands in order, each in a fresh session
  podssh exec abc123xyz -c "cd /workspace && git pull" -c "python train.py"

  # Run a command on multiple pods
  podssh exec pod1 pod2 pod3 "nvidia-smi"
  podssh exec pod1 pod2 pod3 --parallel "nvidia-smi"

  # Run a script file on the pod (@ prefix reads local file)
  podssh exec abc123xyz @setup.sh

  # Fail on the first command that exits non-zero
  podssh exec abc123xyz --strict -c "pip install -e ." -c "pytest"

  # Read pod ids from stdin
  runpodctl get pod | awk 'NR>1 {print $1}' | podssh exec "nvidia-smi"`
)

type execOptions struct {
	commands []string
	parallel bool
}

func NewCmdExec(t *terminal.Terminal, store util.PodStore, fs afero.Fs, in io.Reader) *cobra.Command {
	var opts execOptions
	cmd := &cobra.Command{
		Annotations:           map[string]string{"ssh": ""},
		Use:                   "exec [pod-id...] <command>",
		DisableFlagsInUseLine: true,
		Short:                 "Execute commands on pod(s)",
		Long:                  execLong,
		Example:               execExample,
		Args:                  cmderrors.TransformToValidationError(cobra.ArbitraryArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			podArgs, rawCommands := splitArgs(args, opts.commands)

			var stdin io.Reader
			if util.IsStdinPiped() {
				stdin = in
			}
			podIDs, err := util.GetPodIDs(podArgs, stdin)
			if err != nil {
				return breverrors.WrapAndTrace(err)
			}

			commands, err := parseCommands(fs, rawCommands)
			if err != nil {
				return breverrors.WrapAndTrace(err)
			}

			err = runExec(cmd.Context(), t, store, podIDs, commands, opts)
			if err != nil {
				return breverrors.WrapAndTrace(err)
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&opts.commands, "command", "c", nil, "command to run; repeat to run several in order")
	cmd.Flags().BoolVar(&opts.parallel, "parallel", false, "run on all pods at once")

	return cmd
}

// splitArgs treats the last positional argument as the command unless
// commands were given with -c.
func splitArgs(args []string, flagCommands []string) (podArgs []string, commands []string) {
	if len(flagCommands) > 0 {
		return args, flagCommands
	}
	if len(args) == 0 {
		return nil, nil
	}
	return args[:len(args)-1], args[len(args)-1:]
}

// parseCommands loads @file arguments from disk and drops empty commands.
func parseCommands(fs afero.Fs, raw []string) ([]string, error) {
	var commands []string
	for _, c := range raw {
		if strings.HasPrefix(c, "@") {
			content, err := afero.ReadFile(fs, strings.TrimPrefix(c, "@"))
			if err != nil {
				return nil, breverrors.WrapAndTrace(err)
			}
			c = string(content)
		}
		if strings.TrimSpace(c) != "" {
			commands = append(commands, c)
		}
	}
	if len(commands) == 0 {
		return nil, breverrors.NewValidationError("command is required")
	}
	return commands, nil
}

func runExec(ctx context.Context, t *terminal.Terminal, store util.PodStore, podIDs []string, commands []string, opts execOptions) error {
	for _, c := range commands {
		t.Vprintf("%s\n", t.Blue("$ %s", shellescape.Quote(c)))
	}

	if len(podIDs) == 1 {
		return runOnPod(ctx, t, store, podIDs[0], commands)
	}

	var (
		mu     sync.Mutex
		result error
	)
	record := func(podID string, err error) {
		if err == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		t.Eprintf("%s\n", t.Red("Error on %s: %v", podID, breverrors.Cause(err)))
		result = multierror.Append(result, err)
	}

	if opts.parallel {
		var g errgroup.Group
		for _, podID := range podIDs {
			podID := podID
			g.Go(func() error {
				record(podID, runOnPod(ctx, t, store, podID, commands))
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for _, podID := range podIDs {
			t.Eprintf("\n=== %s ===\n", podID)
			record(podID, runOnPod(ctx, t, store, podID, commands))
		}
	}

	if result != nil {
		return breverrors.WrapAndTrace(result)
	}
	return nil
}

func runOnPod(ctx context.Context, t *terminal.Terminal, store util.PodStore, podID string, commands []string) error {
	conn, err := util.ConnectToPod(ctx, t, store, podID, util.NewConnectionOptions(t, zap.L()))
	if err != nil {
		return breverrors.WrapAndTrace(err)
	}
	defer closeConnection(conn)

	err = conn.RunCommands(ctx, commands)
	if err != nil {
		return breverrors.WrapAndTrace(err)
	}
	return nil
}

func closeConnection(conn *podssh.Connection) {
	if err := conn.Close(); err != nil {
		zap.L().Debug("closing connection", zap.String("pod", conn.PodID()), zap.Error(err))
	}
}
