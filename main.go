package main

import (
	"os"

	"github.com/runpod/podssh/pkg/cmd"
	"github.com/runpod/podssh/pkg/cmd/cmderrors"
	breverrors "github.com/runpod/podssh/pkg/errors"
)

func main() {
	done := breverrors.GetDefaultErrorReporter().Setup()
	defer done()

	command := cmd.NewDefaultPodSSHCommand()
	if err := command.Execute(); err != nil {
		cmderrors.DisplayAndHandleError(os.Stderr, err)
		done()
		os.Exit(1)
	}
}
