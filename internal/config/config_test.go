package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.TemplatesDir)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.Equal(t, "go", cfg.Framework)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.NotEmpty(t, cfg.Telemetry.Path)
}

func TestLoad_ReadsKestrelYml(t *testing.T) {
	dir := t.TempDir()
	content := `
templates:
  dir: /opt/kestrel/templates
output:
  dir: /srv/projects
framework: wails
telemetry:
  enabled: false
  path: /var/log/kestrel.log
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "kestrel.yml"), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "/opt/kestrel/templates", cfg.TemplatesDir)
	assert.Equal(t, "/srv/projects", cfg.OutputDir)
	assert.Equal(t, "wails", cfg.Framework)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "/var/log/kestrel.log", cfg.Telemetry.Path)
}

func TestLoad_PartialFileKeepsOtherDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "kestrel.yml"), []byte("framework: tui\n"), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "tui", cfg.Framework)
	assert.True(t, cfg.Telemetry.Enabled)
}

func TestLoad_MalformedFileFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "kestrel.yml"), []byte("{broken: [\n"), 0644))

	_, err := Load(dir)
	require.Error(t, err)
}
