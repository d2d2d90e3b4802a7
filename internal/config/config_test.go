package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_MissingFile(t *testing.T) {
	_, err := NewConfig(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCfg))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestNewConfig_PartialFileKeepsDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	path := filepath.Join(t.TempDir(), "config.yml")
	body := "server:\n  port: \"8088\"\nytdlp:\n  executable: /usr/local/bin/yt-dlp\n  info_timeout: 5\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := NewConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "8088", cfg.Server.Port)
	assert.Equal(t, "/usr/local/bin/yt-dlp", cfg.YTDLP.Executable)
	assert.Equal(t, 5*time.Second, cfg.YTDLP.InfoTimeoutDuration())
	assert.Equal(t, time.Hour, cfg.Storage.MaxAgeDuration())
	assert.Equal(t, 10*time.Minute, cfg.Storage.CleanupIntervalDuration())
}

func TestNewConfig_PortFromEnv(t *testing.T) {
	t.Setenv("PORT", "9999")
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"8088\"\n"), 0o644))

	cfg, err := NewConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.Server.Port)
}

func TestLoad_WritesDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	path := filepath.Join(t.TempDir(), "configs", "config.yml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)

	again, err := NewConfig(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), *again)
}
