package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/maxbolgarin/gitpulse/internal/agent"
	"github.com/maxbolgarin/gitpulse/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  address: 127.0.0.1:9000
  timeout: 15s
  location: Europe/Paris
provider:
  type: github
  token: ghp_test
agent:
  type: gemini
  api_key: key
  language: en
speech:
  voice: alloy
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Address)
	assert.Equal(t, 15*time.Second, cfg.Server.Timeout)
	assert.Equal(t, "Europe/Paris", cfg.Server.Location)
	assert.Equal(t, provider.GitHub, cfg.Provider.Type)
	assert.Equal(t, agent.Gemini, cfg.Agent.Type)
	assert.Equal(t, "alloy", cfg.Speech.Voice)
	assert.False(t, cfg.Speech.Enabled())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PROVIDER_TOKEN", "glpat-test")
	t.Setenv("PROVIDER_STATS_WORKERS", "4")
	t.Setenv("AGENT_API_KEY", "sk-test")
	t.Setenv("SPEECH_API_KEY", "sk-speech")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "glpat-test", cfg.Provider.Token)
	assert.Equal(t, 4, cfg.Provider.StatsWorkers)
	assert.Equal(t, "sk-test", cfg.Agent.APIKey)
	assert.True(t, cfg.Speech.Enabled())
}

func TestValidate(t *testing.T) {
	cfg := Config{}
	assert.ErrorIs(t, cfg.Validate(), ErrMissingProviderToken)

	cfg.Provider.Token = "t"
	assert.ErrorIs(t, cfg.Validate(), ErrMissingAgentAPIKey)

	cfg.Agent.APIKey = "k"
	assert.NoError(t, cfg.Validate())
}
