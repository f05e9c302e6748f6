package config

import (
	"os"
)

type EnvVarName string // should be caps with underscore

const (
	runpodAPIURL     EnvVarName = "RUNPOD_API_URL"
	runpodAPIKey     EnvVarName = "RUNPOD_API_KEY"
	runpodConfigDir  EnvVarName = "RUNPOD_CONFIG_DIR"
	runpodSSHKeyDir  EnvVarName = "RUNPOD_SSH_KEY_DIR"
	sentryDSN        EnvVarName = "RUNPOD_SENTRY_DSN"
	releaseURL       EnvVarName = "PODSSH_RELEASE_URL"
	ignoreFileName   EnvVarName = "RUNPOD_IGNORE_FILE"
	debugHTTP        EnvVarName = "DEBUG_HTTP"
	defaultRemoteDir EnvVarName = "RUNPOD_REMOTE_DIR"
)

type ConstantsConfig struct{}

func NewConstants() *ConstantsConfig {
	return &ConstantsConfig{}
}

func (c ConstantsConfig) GetRunpodAPIURL() string {
	return getEnvOrDefault(runpodAPIURL, "https://api.runpod.io/graphql")
}

// GetRunpodAPIKey only reads the environment; the config file value is
// layered on top by featureflag.APIKey.
func (c ConstantsConfig) GetRunpodAPIKey() string {
	return getEnvOrDefault(runpodAPIKey, "")
}

func (c ConstantsConfig) GetConfigDir() string {
	return getEnvOrDefault(runpodConfigDir, "")
}

func (c ConstantsConfig) GetSSHKeyDir() string {
	return getEnvOrDefault(runpodSSHKeyDir, "")
}

func (c ConstantsConfig) GetSentryDSN() string {
	return getEnvOrDefault(sentryDSN, "")
}

func (c ConstantsConfig) GetReleaseURL() string {
	return getEnvOrDefault(releaseURL, "https://api.github.com/repos/runpod/podssh/releases/latest")
}

func (c ConstantsConfig) GetIgnoreFileName() string {
	return getEnvOrDefault(ignoreFileName, ".runpodignore")
}

func (c ConstantsConfig) GetDefaultRemoteDir() string {
	return getEnvOrDefault(defaultRemoteDir, "/workspace")
}

func (c ConstantsConfig) GetDebugHTTP() bool {
	return getEnvOrDefault(debugHTTP, "") != ""
}

func getEnvOrDefault(envVarName EnvVarName, defaultVal string) string {
	val := os.Getenv(string(envVarName))
	if val == "" {
		return defaultVal
	}
	return val
}

var GlobalConfig = NewConstants()
