package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configData := `
server:
  port: "4000"

database:
  user: "scout"
  host: "db.internal"
  name: "knowledge"
  password: "secret"
  port: "5433"
  sslmode: "disable"
  debug: true
`
	err := os.WriteFile(configPath, []byte(configData), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.Server.Port)
	assert.Equal(t, "scout", cfg.Database.User)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "knowledge", cfg.Database.Name)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, "5433", cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.True(t, cfg.Database.Debug)
}

func TestLoadMissingFileAppliesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "require", cfg.Database.SSLMode)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("DB_USER", "envuser")
	t.Setenv("DB_HOST", "envhost")
	t.Setenv("DB_NAME", "envdb")
	t.Setenv("DB_PASSWORD", "envpass")
	t.Setenv("DB_PORT", "6432")
	t.Setenv("DB_SSLMODE", "disable")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	configData := `
server:
  port: "4000"
database:
  user: "fileuser"
`
	require.NoError(t, os.WriteFile(configPath, []byte(configData), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, "envuser", cfg.Database.User)
	assert.Equal(t, "envhost", cfg.Database.Host)
	assert.Equal(t, "envdb", cfg.Database.Name)
	assert.Equal(t, "envpass", cfg.Database.Password)
	assert.Equal(t, "6432", cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
}
