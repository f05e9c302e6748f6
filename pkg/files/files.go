package files

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/runpod/podssh/pkg/config"
)

const (
	runpodDirectory  = ".runpod"
	sshKeyDirectory  = "ssh"
	configFileName   = "config.toml"
	userSSHDirectory = ".ssh"
	userSSHConfig    = "config"
)

// GetRunpodDirPath is ~/.runpod unless RUNPOD_CONFIG_DIR overrides it.
func GetRunpodDirPath(home string) string {
	if dir := config.GlobalConfig.GetConfigDir(); dir != "" {
		return dir
	}
	return filepath.Join(home, runpodDirectory)
}

func GetConfigFilePath(home string) string {
	return filepath.Join(GetRunpodDirPath(home), configFileName)
}

// GetSSHKeyDirPath is where pod keys created by the runpod tooling live.
func GetSSHKeyDirPath(home string) string {
	if dir := config.GlobalConfig.GetSSHKeyDir(); dir != "" {
		return dir
	}
	return filepath.Join(GetRunpodDirPath(home), sshKeyDirectory)
}

func GetUserSSHConfigPath(home string) string {
	return filepath.Join(home, userSSHDirectory, userSSHConfig)
}

func GetIgnoreFilePath(projectDir string) string {
	return filepath.Join(projectDir, config.GlobalConfig.GetIgnoreFileName())
}

// Exists reports whether path exists and matches the requested kind.
func Exists(fs afero.Fs, path string, isDir bool) (bool, error) {
	info, err := fs.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err //nolint:wrapcheck // thin fs helper
	}
	return info.IsDir() == isDir, nil
}

func ReadString(fs afero.Fs, path string) (string, error) {
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", err //nolint:wrapcheck // thin fs helper
	}
	return string(b), nil
}
