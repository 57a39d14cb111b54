package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, 5*time.Minute, cfg.Dedup.Window)
	require.Equal(t, 70.0, cfg.Dedup.Threshold)
	require.Equal(t, 3, cfg.Docgen.MaxAttempts)
	require.True(t, cfg.Maintenance.Enabled)
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atmo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9000"
database:
  driver: sqlite
  sqlite_path: ":memory:"
llm:
  provider: anthropic
  model: claude-sonnet
dedup:
  window: 2m
  similarity_threshold: 80
`), 0o600))
	t.Setenv("PORT", "9100")
	t.Setenv("DOCGEN_MAX_ATTEMPTS", "5")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "9100", cfg.Server.Port)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, "anthropic", cfg.LLM.Provider)
	require.Equal(t, 2*time.Minute, cfg.Dedup.Window)
	require.Equal(t, 80.0, cfg.Dedup.Threshold)
	require.Equal(t, 5, cfg.Docgen.MaxAttempts)
}

func TestLoadConfigRejectsUnknownProvider(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "mystery")
	t.Setenv("DB_DRIVER", "mysql")
	_, err := LoadConfig("")
	require.Error(t, err)
	require.Contains(t, err.Error(), "llm.provider")
	require.Contains(t, err.Error(), "database.driver")
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
