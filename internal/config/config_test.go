package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bnema/toplap/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("TOPLAP_TELEGRAM_TOKEN", "")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "https://api.telegram.org", cfg.Telegram.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Telegram.PollTimeout)
	assert.Equal(t, 4, cfg.Telegram.MaxConcurrency)
	assert.Equal(t, 30*time.Second, cfg.Telegram.CallTimeout)
	assert.Equal(t, filepath.Join(home, ".toplap", "users.toml"), cfg.UsersPath)
	assert.Equal(t, filepath.Join(home, ".toplap", "stats.json"), cfg.StatsPath)
	assert.Equal(t, filepath.Join(home, ".toplap", "toplap.log"), cfg.LogFile)
	assert.Equal(t, "Cleaned_Laptop_Data_Final_Version.csv", filepath.Base(cfg.CatalogPath))
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, domain.LocaleArabic, cfg.Locale)
	assert.Equal(t, "coff.ee/toplap", cfg.DonationLink)
	assert.Zero(t, cfg.OperatorID)
	assert.Empty(t, cfg.HTTPAddr)
	assert.ErrorIs(t, cfg.RequireToken(), ErrMissingToken)
}

func TestLoadReadsConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("TOPLAP_TELEGRAM_TOKEN", "")

	dir := filepath.Join(home, ".toplap")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`locale = "en"

[telegram]
token = "file-token"
max_concurrency = 8
poll_timeout = "10s"

[operator]
id = 1234

[users]
path = "~/data/users.toml"
`), 0o600))

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "file-token", cfg.Telegram.Token)
	assert.Equal(t, 8, cfg.Telegram.MaxConcurrency)
	assert.Equal(t, 10*time.Second, cfg.Telegram.PollTimeout)
	assert.Equal(t, domain.UserID(1234), cfg.OperatorID)
	assert.Equal(t, domain.LocaleEnglish, cfg.Locale)
	assert.Equal(t, filepath.Join(home, "data", "users.toml"), cfg.UsersPath)
	assert.NoError(t, cfg.RequireToken())
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("TOPLAP_TELEGRAM_TOKEN", "env-token")
	t.Setenv("TOPLAP_SESSION_TTL", "0s")
	t.Setenv("TOPLAP_HTTP_ADDR", ":8080")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.Telegram.Token)
	assert.Zero(t, cfg.SessionTTL)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
}

func TestLoadHonoursBotTokenAlias(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TOPLAP_TELEGRAM_TOKEN", "")
	t.Setenv("BOT_TOKEN", "legacy-token")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "legacy-token", cfg.Telegram.Token)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TOPLAP_LOCALE", "fr")

	_, err := Load(viper.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported locale")

	t.Setenv("TOPLAP_LOCALE", "ar")
	t.Setenv("TOPLAP_TELEGRAM_MAX_CONCURRENCY", "0")
	t.Setenv("TOPLAP_SESSION_TTL", "-1h")

	_, err = Load(viper.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram.max_concurrency must be at least 1")
	assert.Contains(t, err.Error(), "session.ttl must not be negative")
}

func TestLoadDotEnvMissingFileIsIgnored(t *testing.T) {
	require.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), ".env")))
}

func TestLoadDotEnvExportsVariables(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("TOPLAP_DOTENV_PROBE=from-dotenv\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("TOPLAP_DOTENV_PROBE") })

	require.NoError(t, loadDotEnv(path))

	assert.Equal(t, "from-dotenv", os.Getenv("TOPLAP_DOTENV_PROBE"))
}
