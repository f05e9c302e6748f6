package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvOrDefault(t *testing.T) {
	c := NewConstants()

	t.Setenv(string(runpodAPIURL), "")
	assert.Equal(t, "https://api.runpod.io/graphql", c.GetRunpodAPIURL())

	t.Setenv(string(runpodAPIURL), "http://localhost:8080/graphql")
	assert.Equal(t, "http://localhost:8080/graphql", c.GetRunpodAPIURL())
}

func TestIgnoreFileDefault(t *testing.T) {
	t.Setenv(string(ignoreFileName), "")
	assert.Equal(t, ".runpodignore", GlobalConfig.GetIgnoreFileName())
}

func TestDebugHTTP(t *testing.T) {
	t.Setenv(string(debugHTTP), "")
	assert.False(t, GlobalConfig.GetDebugHTTP())
	t.Setenv(string(debugHTTP), "1")
	assert.True(t, GlobalConfig.GetDebugHTTP())
}
