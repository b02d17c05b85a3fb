package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/thermalogd/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"thermalogd"}

	configContent := []byte(`{
    "delay_sec": 5,
    "attempts": 3,
    "data_dir": "/var/lib/thermalogd/data",
    "max_file_size": 8000,
    "max_file_count": 4,
    "log_level": "debug",
    "telemetry": true,
    "database": "/path/to/telemetry.db"
}`)
	configPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(configPath, configContent, 0o600))

	t.Setenv("THERMALOGD_CONFIG", configPath)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.DelaySec, "Expected DelaySec 5")
	assert.Equal(t, 3, cfg.Attempts, "Expected Attempts 3")
	assert.Equal(t, "/var/lib/thermalogd/data", cfg.DataDir)
	assert.Equal(t, int64(8000), cfg.MaxFileSize)
	assert.Equal(t, 4, cfg.MaxFileCount)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Telemetry, "Expected Telemetry true")
	assert.Equal(t, "/path/to/telemetry.db", cfg.Database)
}

func TestLoadDefaults(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"thermalogd"}
	t.Setenv("THERMALOGD_CONFIG", "")

	// Run from an empty directory so no config file is found
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer os.Chdir(oldWd)

	cfg, err := config.Load()
	require.NoError(t, err, "Failed to load config")

	assert.Equal(t, config.DefaultDelaySec, cfg.DelaySec)
	assert.Equal(t, config.DefaultAttempts, cfg.Attempts)
	assert.Equal(t, config.DefaultDataDir, cfg.DataDir)
	assert.Equal(t, int64(config.DefaultMaxFileSize), cfg.MaxFileSize)
	assert.Equal(t, config.DefaultMaxFileCount, cfg.MaxFileCount)
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)
	assert.False(t, cfg.Telemetry)
}

func TestLoadConfigFileInvalidFormat(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"thermalogd"}

	configContent := []byte(`this is not valid JSON`)
	configPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(configPath, configContent, 0o600))

	t.Setenv("THERMALOGD_CONFIG", configPath)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to read configuration")
}

func TestInvalidLogLevel(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"thermalogd"}

	configContent := []byte(`{"log_level": "loud"}`)
	configPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(configPath, configContent, 0o600))

	t.Setenv("THERMALOGD_CONFIG", configPath)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log level")
}

func TestInvalidDelay(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"thermalogd"}

	configContent := []byte(`{"delay_sec": 0}`)
	configPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(configPath, configContent, 0o600))

	t.Setenv("THERMALOGD_CONFIG", configPath)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delay")
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	configContent := []byte(`{"log_level": "error", "data_dir": "from-file"}`)
	configPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(configPath, configContent, 0o600))

	t.Setenv("THERMALOGD_CONFIG", configPath)

	os.Args = []string{"thermalogd", "--log-level", "debug", "--data-dir", "from-flag"}

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel to be set by flag")
	assert.Equal(t, "from-flag", cfg.DataDir)
}
