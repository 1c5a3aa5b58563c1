// Package config loads evds settings from flags, the environment, an
// optional evds.yaml file, a .env file and the system keyring.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"
)

const (
	// ServiceName for keyring storage
	ServiceName = "evds-ng"
	// KeyringUser is the keyring entry holding the EVDS API key
	KeyringUser = "evds_api_key"
	// EnvPrefix is prepended to every environment variable (EVDS_APIKEY, ...)
	EnvPrefix = "EVDS"
	// DefaultConfigFileName is the name of the config file
	DefaultConfigFileName = "evds"

	dateLayout = "02-01-2006"
)

// Config holds all configuration for one run.
// Priority: CLI flags > env vars > config file > defaults; the API key
// falls back to the keyring last.
type Config struct {
	StartDate   string `mapstructure:"start_date"`
	EndDate     string `mapstructure:"end_date"`
	Frequency   string `mapstructure:"frequency"`
	Formulas    string `mapstructure:"formulas"`
	Aggregation string `mapstructure:"aggregation"`

	Cache       bool          `mapstructure:"cache"`
	CacheDir    string        `mapstructure:"cache_dir"`
	AutoConfirm bool          `mapstructure:"auto_confirm"`
	Verbose     bool          `mapstructure:"verbose"`
	Proxy       string        `mapstructure:"proxy"`
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	APIKey      string        `mapstructure:"apikey"` // From CLI/env/keyring only

	OutDir     string `mapstructure:"out_dir"`
	Delimiter  string `mapstructure:"delimiter"`
	Formats    string `mapstructure:"formats"`
	SQLitePath string `mapstructure:"sqlite"`
	Preview    int    `mapstructure:"preview"`

	// KeySource records where APIKey came from: "config", "keyring" or ""
	KeySource string `mapstructure:"-"`
}

// SetDefaults registers the default values on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("start_date", "01-01-2000")
	v.SetDefault("end_date", "31-12-2100")
	v.SetDefault("frequency", "default")
	v.SetDefault("formulas", "default")
	v.SetDefault("aggregation", "default")

	v.SetDefault("cache", false)
	v.SetDefault("cache_dir", ".caches")
	v.SetDefault("auto_confirm", false)
	v.SetDefault("verbose", false)
	v.SetDefault("proxy", "")
	v.SetDefault("base_url", "")
	v.SetDefault("timeout", 60*time.Second)
	v.SetDefault("apikey", "")

	v.SetDefault("out_dir", ".")
	v.SetDefault("delimiter", ",")
	v.SetDefault("formats", "csv")
	v.SetDefault("sqlite", "")
	v.SetDefault("preview", 0)
}

// Load reads the configuration into a Config. Flags must already be bound
// to v. A missing config file is not an error; an unreadable one is.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, ServiceName))
		}
		v.SetConfigName(DefaultConfigFileName) // evds.yaml
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.APIKey != "" {
		cfg.KeySource = "config"
	} else if key, err := GetAPIKey(); err == nil && key != "" {
		// Non-fatal: the keyring may be unavailable
		cfg.APIKey = key
		cfg.KeySource = "keyring"
	}

	return &cfg, nil
}

// LoadDotEnv loads variables from path without overriding ones already
// set. A missing file is ignored.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Validate checks the date range and the delimiter
func (c *Config) Validate() error {
	start, err := time.Parse(dateLayout, c.StartDate)
	if err != nil {
		return fmt.Errorf("invalid start date %q, expected DD-MM-YYYY", c.StartDate)
	}
	end, err := time.Parse(dateLayout, c.EndDate)
	if err != nil {
		return fmt.Errorf("invalid end date %q, expected DD-MM-YYYY", c.EndDate)
	}
	if end.Before(start) {
		return fmt.Errorf("end date %s is before start date %s", c.EndDate, c.StartDate)
	}
	if _, err := c.DelimiterRune(); err != nil {
		return err
	}
	if c.Cache && c.CacheDir == "" {
		return fmt.Errorf("cache directory must be set when caching is enabled")
	}
	return nil
}

// DelimiterRune returns the CSV delimiter. "tab" and "\t" select a tab.
func (c *Config) DelimiterRune() (rune, error) {
	switch c.Delimiter {
	case "tab", `\t`, "\t":
		return '\t', nil
	}
	if utf8.RuneCountInString(c.Delimiter) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", c.Delimiter)
	}
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("invalid delimiter %q", c.Delimiter)
	}
	return r, nil
}

// GetAPIKey retrieves the API key from the system keyring
func GetAPIKey() (string, error) {
	return keyring.Get(ServiceName, KeyringUser)
}

// SaveAPIKey saves the API key to the system keyring
func SaveAPIKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("API key cannot be empty")
	}
	return keyring.Set(ServiceName, KeyringUser, strings.TrimSpace(key))
}

// DeleteAPIKey removes the API key from the system keyring
func DeleteAPIKey() error {
	return keyring.Delete(ServiceName, KeyringUser)
}

// MaskSecret shows the first and last four characters of a secret
func MaskSecret(secret string) string {
	if len(secret) <= 8 {
		return strings.Repeat("*", len(secret))
	}
	return secret[:4] + strings.Repeat("*", len(secret)-8) + secret[len(secret)-4:]
}
