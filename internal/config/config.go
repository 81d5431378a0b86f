// Package config loads and validates bot configuration via Viper.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	Dictionary DictionaryConfig `mapstructure:"dictionary"`
	HTTP       HTTPConfig       `mapstructure:"http"`
	Spool      SpoolConfig      `mapstructure:"spool"`
	Server     ServerConfig     `mapstructure:"server"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// TelegramConfig configures the Bot API connection and update polling.
type TelegramConfig struct {
	Token              string `mapstructure:"token"`
	APIBaseURL         string `mapstructure:"api_base_url"`
	PollTimeoutSeconds int    `mapstructure:"poll_timeout_seconds"`
	ConcurrentUpdates  int    `mapstructure:"concurrent_updates"`
}

// DictionaryConfig points the link builder at the dictionary sites.
type DictionaryConfig struct {
	LongmanBaseURL string `mapstructure:"longman_base_url"`
	OxfordBaseURL  string `mapstructure:"oxford_base_url"`
}

// HTTPConfig configures the outbound fetcher.
type HTTPConfig struct {
	UserAgent      string `mapstructure:"user_agent"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	MaxBodyBytes   int    `mapstructure:"max_body_bytes"`
	// RequestsPerSecond caps fetches per host; 0 disables the limit.
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// SpoolConfig sets where downloaded audio is staged before upload.
type SpoolConfig struct {
	Dir string `mapstructure:"dir"`
}

// ServerConfig controls the optional ops HTTP server.
type ServerConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

// Load builds a Config from disk/environment. A non-empty envFile is loaded into the
// process environment first; a missing file is not an error.
func Load(path, envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load env file: %w", err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix("AKINGLISH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The bot has always read its token from TOKEN.
	if err := v.BindEnv("telegram.token", "AKINGLISH_TELEGRAM_TOKEN", "TOKEN"); err != nil {
		return Config{}, fmt.Errorf("bind token env: %w", err)
	}

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("telegram.api_base_url", "https://api.telegram.org")
	v.SetDefault("telegram.poll_timeout_seconds", 30)
	v.SetDefault("telegram.concurrent_updates", 1)
	v.SetDefault("dictionary.longman_base_url", "https://www.ldoceonline.com")
	v.SetDefault("dictionary.oxford_base_url", "https://www.oxfordlearnersdictionaries.com")
	v.SetDefault("http.user_agent", "Mozilla/5.0")
	v.SetDefault("http.timeout_seconds", 20)
	v.SetDefault("http.max_body_bytes", 10<<20)
	v.SetDefault("http.requests_per_second", 2.0)
	v.SetDefault("http.burst", 2)
	v.SetDefault("spool.dir", "")
	v.SetDefault("server.enabled", false)
	v.SetDefault("server.port", 8080)
	v.SetDefault("logging.development", false)
	v.SetDefault("logging.level", "")
}

// Validate enforces reasonable limits. The token is checked separately by RequireToken
// since offline commands run without one.
func (c Config) Validate() error {
	if c.Telegram.PollTimeoutSeconds < 0 {
		return fmt.Errorf("telegram.poll_timeout_seconds must be >= 0")
	}
	if c.Telegram.ConcurrentUpdates <= 0 {
		return fmt.Errorf("telegram.concurrent_updates must be > 0")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.HTTP.MaxBodyBytes < 0 {
		return fmt.Errorf("http.max_body_bytes must be >= 0")
	}
	if c.HTTP.RequestsPerSecond < 0 {
		return fmt.Errorf("http.requests_per_second must be >= 0")
	}
	if c.Server.Enabled && c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0 when the server is enabled")
	}
	return nil
}

// RequireToken fails when no bot token is configured.
func (c Config) RequireToken() error {
	if strings.TrimSpace(c.Telegram.Token) == "" {
		return fmt.Errorf("telegram.token must be set (AKINGLISH_TELEGRAM_TOKEN or TOKEN)")
	}
	return nil
}

// FetchTimeout converts the HTTP timeout config into a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}
