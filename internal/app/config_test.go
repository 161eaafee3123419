package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileYieldsDefaults(t *testing.T) {
	home := t.TempDir()
	cfg, err := LoadConfig(home)
	require.NoError(t, err)
	require.Equal(t, home, cfg.Home)
	require.Equal(t, "info", cfg.LogLevel)
	require.NotZero(t, cfg.PollWait)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	home := t.TempDir()
	raw := []byte("relay_url: http://relay.internal:9090\nlog_level: debug\n")
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yml"), raw, 0o600))

	cfg, err := LoadConfig(home)
	require.NoError(t, err)
	require.Equal(t, "http://relay.internal:9090", cfg.RelayURL)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, home, cfg.Home)
}

func TestSaveConfig_RoundTrips(t *testing.T) {
	home := t.TempDir()
	cfg := DefaultConfig(home)
	cfg.RelayURL = "http://example.org:8080"
	cfg.PollWait = 10
	require.NoError(t, SaveConfig(cfg))

	got, err := LoadConfig(home)
	require.NoError(t, err)
	require.Equal(t, cfg.RelayURL, got.RelayURL)
	require.Equal(t, cfg.PollWait, got.PollWait)
}

func TestLoadConfig_RejectsMalformedYAML(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yml"), []byte("relay_url: [broken"), 0o600))

	_, err := LoadConfig(home)
	require.Error(t, err)
}
