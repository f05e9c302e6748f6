// Package configure stores the RunPod API key used to look up pods.
//
// config file format (~/.runpod/config.toml):
//
//	apikey = "rpa_..."
//	# optional
//	ssh_key_dir = "~/.runpod/ssh"
//	known_hosts = "~/.ssh/known_hosts"
//	strict = true
package configure

import (
	"github.com/spf13/cobra"

	"github.com/runpod/podssh/pkg/cmd/cmderrors"
	breverrors "github.com/runpod/podssh/pkg/errors"
	"github.com/runpod/podssh/pkg/featureflag"
	"github.com/runpod/podssh/pkg/files"
	"github.com/runpod/podssh/pkg/terminal"
)

type ConfigureStore interface {
	UserHomeDir() (string, error)
	GetOrCreateDir(dir string) error
}

// PromptFunc asks the user for the key when --apikey is not given.
type PromptFunc func(terminal.PromptContent) (string, error)

func NewCmdConfigure(t *terminal.Terminal, store ConfigureStore, prompt PromptFunc) *cobra.Command {
	var apiKey string
	cmd := &cobra.Command{
		Annotations:           map[string]string{"housekeeping": ""},
		Use:                   "configure",
		DisableFlagsInUseLine: true,
		Short:                 "save your runpod api key",
		Long:                  "Save your RunPod API key to ~/.runpod/config.toml. RUNPOD_API_KEY overrides it.",
		Example:               "podssh configure\npodssh configure --apikey rpa_XXXX",
		Args:                  cmderrors.TransformToValidationError(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runConfigure(t, store, prompt, apiKey)
			if err != nil {
				return breverrors.WrapAndTrace(err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&apiKey, "apikey", "", "runpod api key")

	return cmd
}

func runConfigure(t *terminal.Terminal, store ConfigureStore, prompt PromptFunc, apiKey string) error {
	if apiKey == "" {
		var err error
		apiKey, err = prompt(terminal.PromptContent{
			Label:    "RunPod API key:",
			ErrorMsg: "api key is required",
			Mask:     true,
		})
		if err != nil {
			return breverrors.WrapAndTrace(err)
		}
	}

	home, err := store.UserHomeDir()
	if err != nil {
		return breverrors.WrapAndTrace(err)
	}
	dir := files.GetRunpodDirPath(home)
	if err = store.GetOrCreateDir(dir); err != nil {
		return breverrors.WrapAndTrace(err)
	}
	if err = featureflag.SaveAPIKey(dir, apiKey); err != nil {
		return breverrors.WrapAndTrace(err)
	}

	t.Vprintf("%s\n", t.Green("saved api key to %s", files.GetConfigFilePath(home)))
	return nil
}
