package copy

import (
	"context"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/runpod/podssh/pkg/cmd/cmderrors"
	"github.com/runpod/podssh/pkg/cmd/util"
	breverrors "github.com/runpod/podssh/pkg/errors"
	"github.com/runpod/podssh/pkg/terminal"
)

var (
	copyLong    = "Copy a single file between your local machine and a pod over sftp"
	copyExample = "podssh copy abc123xyz:/workspace/out.log ./out.log\npodssh copy ./model.bin abc123xyz:/workspace/model.bin"
)

type copyRequest struct {
	podID      string
	remotePath string
	localPath  string
	isUpload   bool
}

func NewCmdCopy(t *terminal.Terminal, store util.PodStore) *cobra.Command {
	cmd := &cobra.Command{
		Annotations:           map[string]string{"ssh": ""},
		Use:                   "copy <src> <dst>",
		Aliases:               []string{"cp", "scp"},
		DisableFlagsInUseLine: true,
		Short:                 "copy a file between local and a pod",
		Long:                  copyLong,
		Example:               copyExample,
		Args:                  cmderrors.TransformToValidationError(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runCopyCommand(cmd.Context(), t, store, args[0], args[1])
			if err != nil {
				return breverrors.WrapAndTrace(err)
			}
			return nil
		},
	}

	return cmd
}

func runCopyCommand(ctx context.Context, t *terminal.Terminal, store util.PodStore, source, dest string) error {
	req, err := parseCopyArguments(source, dest)
	if err != nil {
		return breverrors.WrapAndTrace(err)
	}

	conn, err := util.ConnectToPod(ctx, t, store, req.podID, util.NewConnectionOptions(t, zap.L()))
	if err != nil {
		return breverrors.WrapAndTrace(err)
	}
	defer conn.Close() //nolint:errcheck // transfer result is what matters

	if req.isUpload {
		err = conn.PutFile(ctx, req.localPath, req.remotePath)
	} else {
		err = conn.GetFile(ctx, req.remotePath, req.localPath)
	}
	if err != nil {
		return breverrors.WrapAndTrace(err)
	}

	t.Vprintf("%s\n", t.Green("copied %s -> %s", source, dest))
	return nil
}

func parseCopyArguments(source, dest string) (copyRequest, error) {
	sourcePod, sourcePath, err := parsePodPath(source)
	if err != nil {
		return copyRequest{}, err
	}

	destPod, destPath, err := parsePodPath(dest)
	if err != nil {
		return copyRequest{}, err
	}

	if (sourcePod == "" && destPod == "") || (sourcePod != "" && destPod != "") {
		return copyRequest{}, breverrors.NewValidationError("exactly one of source or destination must be a pod path (format: pod_id:/path)")
	}

	if sourcePod != "" {
		return copyRequest{podID: sourcePod, remotePath: sourcePath, localPath: dest}, nil
	}
	return copyRequest{podID: destPod, remotePath: destPath, localPath: source, isUpload: true}, nil
}

// localPrefixes mark an argument as local even when it contains a colon.
var localPrefixes = []string{"/", "./", "../", "~"}

func isExplicitLocalPath(path string) bool {
	return lo.SomeBy(localPrefixes, func(prefix string) bool {
		return strings.HasPrefix(path, prefix)
	})
}

func parsePodPath(path string) (podID, filePath string, err error) {
	if !strings.Contains(path, ":") || isExplicitLocalPath(path) {
		return "", path, nil
	}

	parts := strings.SplitN(path, ":", 2)
	if parts[0] == "" || parts[1] == "" {
		return "", "", breverrors.NewValidationError("invalid pod path format, use pod_id:/path")
	}

	return parts[0], parts[1], nil
}
