package scopedlog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logging.yaml")
	data := []byte(`level: warn
file_logging: true
rel_log_file_dir: var/logs
log_file_name: portal
log_file_max_size_mb: 50
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	t.Setenv("SCOPEDLOG_LEVEL", "debug")
	t.Setenv("SCOPEDLOG_CONSOLE_LOGGING", "false")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Level)
	assert.False(t, cfg.ConsoleLogging)
	assert.True(t, cfg.FileLogging)
	assert.Equal(t, "var/logs", cfg.RelLogFileDir)
	assert.Equal(t, "portal", cfg.LogFileName)
	assert.Equal(t, 50, cfg.LogFileMaxSizeMB)
	assert.Equal(t, 7, cfg.LogFileMaxAgeDays, "unset keys keep their defaults")
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("level: loud\n"), 0o644))
	_, err = LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), errMsgConfigInvalid)

	unsafe := filepath.Join(t.TempDir(), "unsafe.yaml")
	require.NoError(t, os.WriteFile(unsafe, []byte("rel_log_file_dir: ../../etc\n"), 0o644))
	_, err = LoadConfig(unsafe)
	require.Error(t, err)
	assert.Contains(t, err.Error(), errMsgUnsafeLogDir)
}
