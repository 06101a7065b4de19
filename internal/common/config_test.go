package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "argentum.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, 8000, config.Server.Port)
	assert.Equal(t, "claude", config.LLM.Provider)
	assert.Equal(t, "Analyze this financial document for investment insights", config.Analysis.DefaultQuery)
	assert.True(t, config.Retention.Enabled)
	assert.Equal(t, "168h", config.Retention.MaxAge)
	assert.False(t, config.IsProduction())
}

func TestLoadFromFilesLayering(t *testing.T) {
	first := writeConfigFile(t, `
[server]
port = 9000
host = "127.0.0.1"

[llm]
provider = "gemini"
`)
	second := writeConfigFile(t, `
[server]
port = 9100
`)

	config, err := LoadFromFiles(first, second)
	require.NoError(t, err)

	// Later file wins for port, earlier file's other values survive
	assert.Equal(t, 9100, config.Server.Port)
	assert.Equal(t, "127.0.0.1", config.Server.Host)
	assert.Equal(t, "gemini", config.LLM.Provider)

	// Untouched sections keep defaults
	assert.Equal(t, "0 * * * *", config.Retention.Schedule)
}

func TestLoadFromFilesMissingFile(t *testing.T) {
	_, err := LoadFromFiles(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ARGENTUM_SERVER_PORT", "9200")
	t.Setenv("ARGENTUM_LLM_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "env-gemini-key")

	config, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, 9200, config.Server.Port)
	assert.Equal(t, "gemini", config.LLM.Provider)
	assert.Equal(t, "env-gemini-key", config.Gemini.APIKey)
}

func TestEnvOverridePrefersArgentumKey(t *testing.T) {
	t.Setenv("ARGENTUM_CLAUDE_API_KEY", "argentum-key")
	t.Setenv("ANTHROPIC_API_KEY", "vendor-key")

	config, err := LoadFromFiles()
	require.NoError(t, err)
	assert.Equal(t, "argentum-key", config.Claude.APIKey)
}

func TestApplyFlagOverrides(t *testing.T) {
	config := NewDefaultConfig()

	ApplyFlagOverrides(config, 9300, "localhost")
	assert.Equal(t, 9300, config.Server.Port)
	assert.Equal(t, "localhost", config.Server.Host)

	// Zero values leave config untouched
	ApplyFlagOverrides(config, 0, "")
	assert.Equal(t, 9300, config.Server.Port)
	assert.Equal(t, "localhost", config.Server.Host)
}

func TestValidateRequiresProviderKey(t *testing.T) {
	config := NewDefaultConfig()
	config.Claude.APIKey = ""

	err := config.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Anthropic API key")

	config.Claude.APIKey = "sk-test"
	assert.NoError(t, config.Validate())
}

func TestValidateRejectsUnknownProvider(t *testing.T) {
	config := NewDefaultConfig()
	config.Claude.APIKey = "sk-test"
	config.LLM.Provider = "openai"

	assert.Error(t, config.Validate())
}

func TestValidateRejectsBadDurations(t *testing.T) {
	config := NewDefaultConfig()
	config.Claude.APIKey = "sk-test"

	config.LLM.Timeout = "two minutes"
	assert.Error(t, config.Validate())

	config.LLM.Timeout = "120s"
	config.Retention.MaxAge = "1 week"
	assert.Error(t, config.Validate())

	config.Retention.MaxAge = "168h"
	config.Retention.Schedule = "every hour"
	assert.Error(t, config.Validate())
}
