package store

import (
	"os"

	"github.com/spf13/afero"

	breverrors "github.com/runpod/podssh/pkg/errors"
)

// FileStore reads local state: ssh keys, ~/.ssh/config and the project
// ignore file. Every access goes through fs so tests can use a MemMapFs.
type FileStore struct {
	BasicStore
	fs         afero.Fs
	homeDir    string
	projectDir string
	sshKeyDir  string
}

func (b *BasicStore) WithFileSystem(fs afero.Fs) *FileStore {
	return &FileStore{BasicStore: *b, fs: fs}
}

// WithHomeDir pins the home directory instead of asking the OS.
func (f *FileStore) WithHomeDir(home string) *FileStore {
	f.homeDir = home
	return f
}

// WithProjectDir sets where the ignore file is looked up; defaults to the
// working directory.
func (f *FileStore) WithProjectDir(dir string) *FileStore {
	f.projectDir = dir
	return f
}

// WithSSHKeyDir overrides the directory scanned for pod keys.
func (f *FileStore) WithSSHKeyDir(dir string) *FileStore {
	f.sshKeyDir = dir
	return f
}

func (f FileStore) UserHomeDir() (string, error) {
	if f.homeDir != "" {
		return f.homeDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", breverrors.WrapAndTrace(err)
	}
	return home, nil
}

func (f FileStore) ProjectDir() (string, error) {
	if f.projectDir != "" {
		return f.projectDir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", breverrors.WrapAndTrace(err)
	}
	return wd, nil
}

func (f FileStore) FileExists(filepath string) (bool, error) {
	fileExists, err := afero.Exists(f.fs, filepath)
	if err != nil {
		return false, breverrors.WrapAndTrace(err)
	}
	return fileExists, nil
}

// GetOrCreateDir makes sure dir exists with owner-only permissions.
func (f FileStore) GetOrCreateDir(dir string) error {
	if err := f.fs.MkdirAll(dir, 0o700); err != nil {
		return breverrors.WrapAndTrace(err)
	}
	return nil
}
