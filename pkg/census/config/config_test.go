package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/census/pkg/census/logging"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, DefaultMaxDepth, cfg.MaxDepth)
	assert.Equal(t, DefaultPreviewBytes, cfg.PreviewBytes)
	assert.Equal(t, DefaultChecksum, cfg.Checksum)
	assert.True(t, cfg.Content)
	assert.Empty(t, cfg.Roots)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, logging.DefaultLogPath(), cfg.Logging.Path)
	assert.True(t, cfg.Logging.Console)
}

func TestLoadFromFile(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	dir := filepath.Join(configHome, DefaultConfigDirName)
	require.NoError(t, os.MkdirAll(dir, 0o755))

	yaml := `
roots:
  - /srv/a
  - /srv/b
output: /tmp/out.csv
content: false
max_depth: 3
checksum: sha1
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"/srv/a", "/srv/b"}, cfg.Roots)
	assert.Equal(t, "/tmp/out.csv", cfg.Output)
	assert.False(t, cfg.Content)
	assert.Equal(t, 3, cfg.MaxDepth)
	assert.Equal(t, "sha1", cfg.Checksum)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Unset fields keep their defaults.
	assert.Equal(t, DefaultPreviewBytes, cfg.PreviewBytes)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("CENSUS_OUTPUT", "/tmp/env.csv")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/env.csv", cfg.Output)
}

func TestConfigDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)

	dir, err := ConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, DefaultConfigDirName), dir)
}

func TestEnsureConfigDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)

	require.NoError(t, EnsureConfigDir())

	info, err := os.Stat(filepath.Join(home, DefaultConfigDirName))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
