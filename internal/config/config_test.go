package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, filepath.Join("data", "accepted"), cfg.Paths.AcceptedDir)
	assert.Equal(t, filepath.Join("data", "rejected"), cfg.Paths.RejectedDir)
	assert.Equal(t, filepath.Join("data", "reports"), cfg.Paths.ReportsDir)
	assert.True(t, cfg.Cleaning.DropIncomplete)
	assert.True(t, cfg.Cleaning.CoerceTypes)
	assert.True(t, cfg.Cleaning.RestrictStatus)
}

func TestLoadFrom_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "loanlens.yml")
	content := `
logging:
  level: debug
  format: text
paths:
  data_dir: /srv/lending
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))

	cfg, err := LoadFrom(configFile)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, filepath.Join("/srv/lending", "accepted"), cfg.Paths.AcceptedDir)
}

func TestLoadFrom_EnvOverride(t *testing.T) {
	t.Setenv("LOANLENS_LOGGING_LEVEL", "warn")
	t.Setenv("LOANLENS_PATHS_DATA_DIR", "/tmp/lending")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, filepath.Join("/tmp/lending", "accepted"), cfg.Paths.AcceptedDir)
}

func TestLoadFrom_InvalidLevel(t *testing.T) {
	t.Setenv("LOANLENS_LOGGING_LEVEL", "loud")

	_, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation")
}

func TestLoadFrom_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "loanlens.yml")
	require.NoError(t, os.WriteFile(configFile, []byte("logging: ["), 0644))

	_, err := LoadFrom(configFile)
	require.Error(t, err)
}

func TestGetReportPath(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("data", "reports", "analysis.xlsx"), cfg.GetReportPath("analysis.xlsx"))
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LOANLENS_PATHS_DATA_DIR", dir)
	t.Setenv("LOANLENS_PATHS_LOGS_DIR", filepath.Join(dir, "logs"))

	cfg, err := LoadFrom(filepath.Join(dir, "missing.yml"))
	require.NoError(t, err)
	require.NoError(t, cfg.EnsureDirectories())

	info, err := os.Stat(cfg.Paths.ReportsDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
