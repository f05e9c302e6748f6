package util

import (
	"bufio"
	"io"
	"os"
	"strings"

	breverrors "github.com/runpod/podssh/pkg/errors"
)

// IsStdinPiped returns true if stdin is being piped from another command
func IsStdinPiped() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// GetPodIDs collects pod ids from args, then from in (one per line) when in
// is non-nil. Enables chaining like: runpodctl get pod | podssh exec "nvidia-smi"
func GetPodIDs(args []string, in io.Reader) ([]string, error) {
	var ids []string
	ids = append(ids, args...)

	if in != nil {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			id := strings.TrimSpace(scanner.Text())
			if id != "" {
				ids = append(ids, id)
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, breverrors.WrapAndTrace(err)
		}
	}

	if len(ids) == 0 {
		return nil, breverrors.NewValidationError("pod id required: provide as argument or pipe from another command")
	}
	return ids, nil
}
