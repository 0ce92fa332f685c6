package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withHome(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()

	require.NoError(t, os.MkdirAll(dir, 0o700))
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	home := withHome(t)

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".okc", "accounts.toml"), cfg.Accounts.Path)
	assert.Equal(t, filepath.Join(home, ".okc", "secrets"), cfg.Secrets.Dir)
	assert.Equal(t, filepath.Join(home, ".okc", "avatars"), cfg.Avatars.Dir)
	assert.Equal(t, "https://www.okcupid.com", cfg.Server.BaseURL())
	assert.Equal(t, "cdn.okcimg.com", cfg.Server.AvatarHost)
	assert.Equal(t, "http://www.okcupid.com/mailbox", cfg.Server.MailboxURL)
	assert.Equal(t, 3*time.Second, cfg.Poll.MinInterval)
	assert.Equal(t, 65*time.Second, cfg.Poll.Timeout)
	assert.Equal(t, 5, cfg.Send.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Send.RetryBase)
	assert.Equal(t, 30*time.Second, cfg.Send.RetryMax)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "auto", cfg.Log.Format)
	assert.Empty(t, cfg.Metrics.Addr)
}

func TestLoadReadsDefaultConfigFile(t *testing.T) {
	home := withHome(t)
	writeConfig(t, filepath.Join(home, ".okc"), `
[server]
host = "staging.okcupid.test"
scheme = "http"

[poll]
min_interval = "5s"

[send]
max_attempts = 2
`)

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "http://staging.okcupid.test", cfg.Server.BaseURL())
	assert.Equal(t, 5*time.Second, cfg.Poll.MinInterval)
	assert.Equal(t, 2, cfg.Send.MaxAttempts)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	home := withHome(t)
	writeConfig(t, filepath.Join(home, ".okc"), "[log]\nlevel = \"warn\"\n")
	t.Setenv("OKC_LOG_LEVEL", "debug")
	t.Setenv("OKC_METRICS_ADDR", "127.0.0.1:9464")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1:9464", cfg.Metrics.Addr)
}

func TestLoadExplicitFileMustExist(t *testing.T) {
	withHome(t)
	v := viper.New()
	v.SetConfigFile(filepath.Join(t.TempDir(), "missing.toml"))

	_, err := Load(v)
	require.Error(t, err)
	assert.ErrorContains(t, err, "read config")
}

func TestLoadExplicitFile(t *testing.T) {
	withHome(t)
	path := writeConfig(t, t.TempDir(), "[avatars]\ndir = \"/tmp/icons\"\n")
	v := viper.New()
	v.SetConfigFile(path)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/icons", cfg.Avatars.Dir)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	home := withHome(t)
	writeConfig(t, filepath.Join(home, ".okc"), `
[server]
scheme = "ftp"

[send]
max_attempts = 0

[log]
format = "xml"
`)

	_, err := Load(viper.New())
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorContains(t, err, "server.scheme")
	assert.ErrorContains(t, err, "send.max_attempts")
	assert.ErrorContains(t, err, "log.format")
}

func TestValidateRetryBounds(t *testing.T) {
	withHome(t)
	cfg, err := Load(viper.New())
	require.NoError(t, err)

	cfg.Send.RetryMax = cfg.Send.RetryBase / 2
	require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg.Send.RetryMax = time.Minute
	cfg.Poll.Timeout = time.Second
	require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}
