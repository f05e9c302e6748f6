package version

import (
	resty "github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"

	"github.com/runpod/podssh/pkg/terminal"
)

var (
	versionLong    = "Print the podssh version and check for a newer release"
	versionExample = "podssh version"
)

func NewCmdVersion(t *terminal.Terminal, client *resty.Client, releaseURL string) *cobra.Command {
	cmd := &cobra.Command{
		Annotations:           map[string]string{"housekeeping": ""},
		Use:                   "version",
		DisableFlagsInUseLine: true,
		Short:                 "Print version",
		Long:                  versionLong,
		Example:               versionExample,
		Args:                  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			v, err := BuildVersionString(client, releaseURL)
			if err != nil {
				t.Vprintf("Current version: %s\n", Version)
				t.Errprint(err, "Failed to retrieve latest version")
				return
			}
			t.Vprint(v)
		},
	}
	return cmd
}
