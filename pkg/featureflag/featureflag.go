package featureflag

import (
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/runpod/podssh/pkg/cmd/version"
	"github.com/runpod/podssh/pkg/config"
)

const (
	keyAPIKey    = "apikey"
	keyAPIURL    = "api_url"
	keySSHKeyDir = "ssh_key_dir"
	keyStrict    = "strict"
	keyKnownHost = "known_hosts"
	keyDebug     = "debug"
	keyDev       = "feature.dev"
)

func IsDev() bool {
	if viper.IsSet(keyDev) {
		return viper.GetBool(keyDev)
	}
	return strings.HasPrefix(version.Version, "dev")
}

func Debug() bool {
	return viper.GetBool(keyDebug)
}

// PropagateRemoteFailures turns on strict mode for remote commands.
func PropagateRemoteFailures() bool {
	return viper.GetBool(keyStrict)
}

// APIKey prefers RUNPOD_API_KEY, then the apikey entry of config.toml.
func APIKey() string {
	if k := config.GlobalConfig.GetRunpodAPIKey(); k != "" {
		return k
	}
	return viper.GetString(keyAPIKey)
}

func APIURL() string {
	if viper.IsSet(keyAPIURL) {
		return viper.GetString(keyAPIURL)
	}
	return config.GlobalConfig.GetRunpodAPIURL()
}

func SSHKeyDir() string {
	return viper.GetString(keySSHKeyDir)
}

// KnownHostsFile pins pod host keys when set; empty means trust on first use.
func KnownHostsFile() string {
	return viper.GetString(keyKnownHost)
}

func LoadFeatureFlags(path string) error {
	viper.SetConfigName("config")
	viper.AddConfigPath("/etc/runpod/")
	viper.AddConfigPath(path)
	viper.SetEnvPrefix("runpod")
	viper.SetConfigType("toml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	_ = viper.ReadInConfig() // do not nead to fail if can't find config file

	return nil
}

// SaveAPIKey persists the key into config.toml under dir.
func SaveAPIKey(dir, apiKey string) error {
	viper.Set(keyAPIKey, apiKey)
	return viper.WriteConfigAs(filepath.Join(dir, "config.toml")) //nolint:wrapcheck // caller wraps
}
