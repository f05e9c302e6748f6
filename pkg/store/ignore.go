package store

import (
	"bufio"
	"strings"

	"github.com/samber/lo"

	breverrors "github.com/runpod/podssh/pkg/errors"
	"github.com/runpod/podssh/pkg/files"
)

// DefaultExclusions are always excluded from a sync, ahead of the patterns
// found in the project's ignore file.
var DefaultExclusions = []string{
	"__pycache__/",
	"*.pyc",
	".*.swp",
	".git/",
}

// ListExclusions returns the default patterns followed by every pattern of
// the project's ignore file, in file order. Blank lines and '#' comments are
// skipped; nothing is deduplicated or validated.
func (f FileStore) ListExclusions() ([]string, error) {
	patterns := append([]string{}, DefaultExclusions...)

	dir, err := f.ProjectDir()
	if err != nil {
		return nil, breverrors.WrapAndTrace(err)
	}
	path := files.GetIgnoreFilePath(dir)
	exists, err := files.Exists(f.fs, path, false)
	if err != nil {
		return nil, breverrors.WrapAndTrace(err)
	}
	if !exists {
		return patterns, nil
	}

	content, err := files.ReadString(f.fs, path)
	if err != nil {
		return nil, breverrors.WrapAndTrace(err)
	}
	return append(patterns, parseIgnoreFile(content)...), nil
}

func parseIgnoreFile(content string) []string {
	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	return lo.Filter(lines, func(line string, _ int) bool {
		return line != "" && !strings.HasPrefix(line, "#")
	})
}
