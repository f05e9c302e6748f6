// Package cmd is the entrypoint to cli
package cmd

import (
	"io"
	"os"

	resty "github.com/go-resty/resty/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/runpod/podssh/pkg/cmd/configure"
	"github.com/runpod/podssh/pkg/cmd/copy"
	"github.com/runpod/podssh/pkg/cmd/exec"
	"github.com/runpod/podssh/pkg/cmd/shell"
	"github.com/runpod/podssh/pkg/cmd/sync"
	"github.com/runpod/podssh/pkg/cmd/version"
	"github.com/runpod/podssh/pkg/config"
	breverrors "github.com/runpod/podssh/pkg/errors"
	"github.com/runpod/podssh/pkg/featureflag"
	"github.com/runpod/podssh/pkg/files"
	"github.com/runpod/podssh/pkg/store"
	"github.com/runpod/podssh/pkg/terminal"
)

func NewDefaultPodSSHCommand() *cobra.Command {
	cmd := NewPodSSHCommand(os.Stdin, os.Stdout, os.Stderr)
	return cmd
}

func NewPodSSHCommand(in io.Reader, out io.Writer, errOut io.Writer) *cobra.Command {
	t := terminal.NewWithWriters(out, errOut)
	fs := afero.NewOsFs()

	fsStore := store.NewBasicStore().WithFileSystem(fs)
	if home, err := fsStore.UserHomeDir(); err == nil {
		_ = featureflag.LoadFeatureFlags(files.GetRunpodDirPath(home))
	}
	if dir := featureflag.SSHKeyDir(); dir != "" {
		fsStore.WithSSHKeyDir(dir)
	}

	httpClient := store.NewAuthHTTPClient(featureflag.APIKey(), featureflag.APIURL())
	httpClient.SetDebug(config.GlobalConfig.GetDebugHTTP())
	podStore := fsStore.WithAuthHTTPClient(httpClient)

	var verbose bool
	cmds := &cobra.Command{
		Use:   "podssh",
		Short: "ssh, sftp and rsync for RunPod pods",
		Long: `
      podssh runs commands, copies files, opens shells and syncs
      directories on RunPod pods over ssh.

      Find more information at:
            https://docs.runpod.io`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(verbose)
		},
		Run: runHelp,
	}
	cmds.SetIn(in)
	cmds.SetOut(out)
	cmds.SetErr(errOut)

	pflags := cmds.PersistentFlags()
	pflags.BoolVarP(&verbose, "verbose", "v", false, "log what podssh is doing")
	pflags.Bool("debug", false, "print full error traces")
	pflags.Bool("strict", false, "fail when a remote command exits non-zero")
	_ = viper.BindPFlag("debug", pflags.Lookup("debug"))
	_ = viper.BindPFlag("strict", pflags.Lookup("strict"))

	cmds.AddCommand(exec.NewCmdExec(t, podStore, fs, in))
	cmds.AddCommand(copy.NewCmdCopy(t, podStore))
	cmds.AddCommand(shell.NewCmdShell(t, podStore))
	cmds.AddCommand(sync.NewCmdSync(t, podStore))
	cmds.AddCommand(configure.NewCmdConfigure(t, fsStore, terminal.PromptGetInput))
	cmds.AddCommand(version.NewCmdVersion(t, resty.New(), config.GlobalConfig.GetReleaseURL()))

	return cmds
}

func setupLogging(verbose bool) error {
	if !verbose {
		zap.ReplaceGlobals(zap.NewNop())
		return nil
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return breverrors.WrapAndTrace(err)
	}
	zap.ReplaceGlobals(logger)
	return nil
}

func runHelp(cmd *cobra.Command, _ []string) {
	_ = cmd.Help()
}
