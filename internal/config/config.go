// Package config resolves runtime settings from ~/.toplap/config.toml,
// a local .env file and TOPLAP_ environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/toplap/internal/domain"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configDir  = ".toplap"
	configName = "config"
	configType = "toml"
	envPrefix  = "TOPLAP"

	keyTelegramToken          = "telegram.token"
	keyTelegramBaseURL        = "telegram.base_url"
	keyTelegramPollTimeout    = "telegram.poll_timeout"
	keyTelegramMaxConcurrency = "telegram.max_concurrency"
	keyTelegramCallTimeout    = "telegram.call_timeout"
	keyCatalogPath            = "catalog.path"
	keyAssetsDir              = "assets.dir"
	keyUsersPath              = "users.path"
	keyUsersRedisURL          = "users.redis_url"
	keyStatsPath              = "stats.path"
	keyOperatorID             = "operator.id"
	keySessionTTL             = "session.ttl"
	keyLocale                 = "locale"
	keyLinksDonation          = "links.donation"
	keyLinksContact           = "links.contact"
	keyLoggingFile            = "logging.file"
	keyLoggingProduction      = "logging.production"
	keyHTTPAddr               = "http.addr"
)

var ErrMissingToken = errors.New("telegram token is not configured (set TOPLAP_TELEGRAM_TOKEN or BOT_TOKEN)")

type Telegram struct {
	Token          string
	BaseURL        string
	PollTimeout    time.Duration
	MaxConcurrency int
	CallTimeout    time.Duration
}

type Config struct {
	Telegram Telegram

	CatalogPath   string
	AssetsDir     string
	UsersPath     string
	UsersRedisURL string
	StatsPath     string

	OperatorID domain.UserID
	SessionTTL time.Duration
	Locale     domain.Locale

	DonationLink string
	ContactLink  string

	LogFile       string
	LogProduction bool
	HTTPAddr      string
}

// Load resolves the configuration. A missing config file or .env is not an
// error; a malformed one is.
func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve home directory: %w", err)
	}
	baseDir := filepath.Join(homeDir, configDir)

	if err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}

	setDefaults(v, baseDir)

	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(baseDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv(keyTelegramToken, envPrefix+"_TELEGRAM_TOKEN", "BOT_TOKEN"); err != nil {
		return Config{}, fmt.Errorf("bind token env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	locale, err := domain.ParseLocale(v.GetString(keyLocale))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", keyLocale, err)
	}

	cfg := Config{
		Telegram: Telegram{
			Token:          strings.TrimSpace(v.GetString(keyTelegramToken)),
			BaseURL:        strings.TrimRight(v.GetString(keyTelegramBaseURL), "/"),
			PollTimeout:    v.GetDuration(keyTelegramPollTimeout),
			MaxConcurrency: v.GetInt(keyTelegramMaxConcurrency),
			CallTimeout:    v.GetDuration(keyTelegramCallTimeout),
		},
		UsersRedisURL: strings.TrimSpace(v.GetString(keyUsersRedisURL)),
		OperatorID:    domain.UserID(v.GetInt64(keyOperatorID)),
		SessionTTL:    v.GetDuration(keySessionTTL),
		Locale:        locale,
		DonationLink:  v.GetString(keyLinksDonation),
		ContactLink:   v.GetString(keyLinksContact),
		LogProduction: v.GetBool(keyLoggingProduction),
		HTTPAddr:      strings.TrimSpace(v.GetString(keyHTTPAddr)),
	}

	paths := []struct {
		key    string
		target *string
	}{
		{keyCatalogPath, &cfg.CatalogPath},
		{keyAssetsDir, &cfg.AssetsDir},
		{keyUsersPath, &cfg.UsersPath},
		{keyStatsPath, &cfg.StatsPath},
		{keyLoggingFile, &cfg.LogFile},
	}
	for _, p := range paths {
		resolved, err := expandPath(v.GetString(p.key), homeDir)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", p.key, err)
		}
		*p.target = resolved
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// RequireToken reports ErrMissingToken when no bot token is configured.
func (c Config) RequireToken() error {
	if c.Telegram.Token == "" {
		return ErrMissingToken
	}
	return nil
}

func (c Config) validate() error {
	var errs []error
	if c.Telegram.BaseURL == "" {
		errs = append(errs, fmt.Errorf("%s is empty", keyTelegramBaseURL))
	}
	if c.Telegram.PollTimeout < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", keyTelegramPollTimeout))
	}
	if c.Telegram.MaxConcurrency < 1 {
		errs = append(errs, fmt.Errorf("%s must be at least 1", keyTelegramMaxConcurrency))
	}
	if c.Telegram.CallTimeout < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", keyTelegramCallTimeout))
	}
	if c.SessionTTL < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", keySessionTTL))
	}
	if c.OperatorID < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", keyOperatorID))
	}
	if c.CatalogPath == "" {
		errs = append(errs, fmt.Errorf("%s is empty", keyCatalogPath))
	}
	if c.UsersPath == "" {
		errs = append(errs, fmt.Errorf("%s is empty", keyUsersPath))
	}
	return errors.Join(errs...)
}

func setDefaults(v *viper.Viper, baseDir string) {
	v.SetDefault(keyTelegramToken, "")
	v.SetDefault(keyTelegramBaseURL, "https://api.telegram.org")
	v.SetDefault(keyTelegramPollTimeout, 30*time.Second)
	v.SetDefault(keyTelegramMaxConcurrency, 4)
	v.SetDefault(keyTelegramCallTimeout, 30*time.Second)
	v.SetDefault(keyCatalogPath, "Cleaned_Laptop_Data_Final_Version.csv")
	v.SetDefault(keyAssetsDir, "Toplaps_bot_images")
	v.SetDefault(keyUsersPath, filepath.Join(baseDir, "users.toml"))
	v.SetDefault(keyUsersRedisURL, "")
	v.SetDefault(keyStatsPath, filepath.Join(baseDir, "stats.json"))
	v.SetDefault(keyOperatorID, 0)
	v.SetDefault(keySessionTTL, 24*time.Hour)
	v.SetDefault(keyLocale, string(domain.LocaleArabic))
	v.SetDefault(keyLinksDonation, "coff.ee/toplap")
	v.SetDefault(keyLinksContact, "https://t.me/Ahmed0ksa")
	v.SetDefault(keyLoggingFile, filepath.Join(baseDir, "toplap.log"))
	v.SetDefault(keyLoggingProduction, false)
	v.SetDefault(keyHTTPAddr, "")
}

// loadDotEnv exports variables from path without overriding ones already set.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func expandPath(path, homeDir string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if path == "~" {
		path = homeDir
	} else if strings.HasPrefix(path, "~/") {
		path = filepath.Join(homeDir, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}
	return filepath.Clean(absPath), nil
}
