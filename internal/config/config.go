// Package config loads dashboard settings from .env, an optional config file,
// environment variables and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the dashboard settings.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	DatasetPath   string        `mapstructure:"dataset_path"`
	DatasetURL    string        `mapstructure:"dataset_url"`
	OutputDir     string        `mapstructure:"output_dir"`
	Province      string        `mapstructure:"province"`
	DefaultSource string        `mapstructure:"default_source"`
	TopN          int           `mapstructure:"top_n"`
	Theme         string        `mapstructure:"theme"`
	FetchTimeout  time.Duration `mapstructure:"fetch_timeout"`
}

// Defaults.
const (
	DefaultDatasetPath  = "dashboard_data.json"
	DefaultOutputDir    = "."
	DefaultProvince     = "인천"
	DefaultSource       = "태양광"
	DefaultTopN         = 10
	DefaultTheme        = "light"
	DefaultFetchTimeout = 12 * time.Second
)

const (
	configName = ".energy-dashboard"
	configType = "yaml"
	dotenvFile = ".env"
)

var (
	// ErrInvalidTopN indicates top_n is not positive.
	ErrInvalidTopN = errors.New("top_n must be positive")
	// ErrInvalidTheme indicates an unknown theme.
	ErrInvalidTheme = errors.New("theme must be light or dark")
	// ErrInvalidFetchTimeout indicates a non-positive fetch timeout.
	ErrInvalidFetchTimeout = errors.New("fetch_timeout must be positive")
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	if c.TopN <= 0 {
		return ErrInvalidTopN
	}
	if c.Theme != "light" && c.Theme != "dark" {
		return ErrInvalidTheme
	}
	if c.FetchTimeout <= 0 {
		return ErrInvalidFetchTimeout
	}
	return nil
}

// New returns a viper instance with defaults applied and environment
// lookup enabled, ready for flag binding.
func New() *viper.Viper {
	v := viper.New()
	applyDefaults(v)
	v.AutomaticEnv()
	return v
}

// Load reads .env (if present), the optional config file and the
// environment into v. If configPath is empty the file is searched in the
// working directory and $HOME; a missing file is not an error.
func Load(v *viper.Viper, configPath string) (*Config, error) {
	if err := godotenv.Load(dotenvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", dotenvFile, err)
	}

	v.SetConfigType(configType)
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("dataset_path", DefaultDatasetPath)
	v.SetDefault("dataset_url", "")
	v.SetDefault("output_dir", DefaultOutputDir)
	v.SetDefault("province", DefaultProvince)
	v.SetDefault("default_source", DefaultSource)
	v.SetDefault("top_n", DefaultTopN)
	v.SetDefault("theme", DefaultTheme)
	v.SetDefault("fetch_timeout", DefaultFetchTimeout)
}
