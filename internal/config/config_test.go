package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateEnv clears variables that would leak the developer's setup into
// the test.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ENIGMA_CONFIG", "ENIGMA_DB", "ENIGMA_DB_DRIVER", "ENIGMA_DB_DSN",
		"ENIGMA_LOG_LEVEL", "ENIGMA_LOG_FORMAT", "ENIGMA_HINT_THRESHOLD",
		"ENIGMA_BATCH_CONCURRENCY", "ENIGMA_LLM_PROVIDER", "ENIGMA_OPENAI_API_KEY",
		"ENIGMA_OPENAI_MODEL", "ENIGMA_LLM_TIMEOUT", "ENIGMA_LLM_MAX_ATTEMPTS",
		"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Empty(t, cfg.Database.DSN)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.OpenAI.Model)
	assert.Equal(t, 3, cfg.Game.HintThreshold)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_FileThenEnv(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  driver: postgres
  dsn: postgres://localhost/enigma
llm:
  provider: anthropic
  timeout: 30s
  anthropic:
    api_key: from-file
game:
  hint_threshold: 5
logging:
  level: info
  format: json
`), 0o600))

	t.Setenv("ENIGMA_HINT_THRESHOLD", "2")
	t.Setenv("ENIGMA_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/enigma", cfg.Database.DSN)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "from-file", cfg.LLM.Anthropic.APIKey)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 2, cfg.Game.HintThreshold, "env overrides file")
	assert.Equal(t, 4, cfg.Game.BatchConcurrency, "unset keys keep defaults")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_DiscoversProviderKey(t *testing.T) {
	isolateEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.LLM.OpenAI.APIKey)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad driver", "database:\n  driver: mysql\n"},
		{"bad provider", "llm:\n  provider: cohere\n"},
		{"zero threshold", "game:\n  hint_threshold: 0\n"},
		{"bad log format", "logging:\n  format: xml\n"},
		{"not yaml", "database: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o600))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Game.HintThreshold = 7
	cfg.LLM.Timeout = 90 * time.Second
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, loaded.Game.HintThreshold)
	assert.Equal(t, 90*time.Second, loaded.LLM.Timeout)
}

func TestDefaultPath(t *testing.T) {
	isolateEnv(t)
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, "/xdg/enigma/config.yaml", DefaultPath())

	t.Setenv("ENIGMA_CONFIG", "/etc/enigma.yaml")
	assert.Equal(t, "/etc/enigma.yaml", DefaultPath())
}
