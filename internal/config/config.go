package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const (
	defaultAPIBaseURL = "https://api.stackexchange.com/2.3"
	defaultSite       = "stackoverflow"
	defaultDBPath     = "stackit.db"
	defaultPageSize   = 20
	defaultRateLimit  = 10
	maxPageSize       = 100
)

// Config holds runtime settings for the CLI app.
type Config struct {
	Site        string  `toml:"site"`
	APIKey      string  `toml:"api_key"`
	APIBaseURL  string  `toml:"api_base_url"`
	DBPath      string  `toml:"db_path"`
	PageSize    int     `toml:"page_size"`
	RateLimit   float64 `toml:"rate_limit"`
	LogPath     string  `toml:"log_path"`
	LogLevel    string  `toml:"log_level"`
	MetricsAddr string  `toml:"metrics_addr"`
}

func Default() Config {
	return Config{
		Site:       defaultSite,
		APIBaseURL: defaultAPIBaseURL,
		DBPath:     defaultDBPath,
		PageSize:   defaultPageSize,
		RateLimit:  defaultRateLimit,
		LogLevel:   "info",
	}
}

func LoadFromEnv() (Config, error) {
	return Load("")
}

// Load starts from the defaults, applies the TOML file at path when path is
// set, then the STACKIT_* environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString("STACKIT_SITE", &c.Site)
	setString("STACKIT_API_KEY", &c.APIKey)
	setString("STACKIT_API_BASE_URL", &c.APIBaseURL)
	setString("STACKIT_DB_PATH", &c.DBPath)
	setString("STACKIT_LOG_PATH", &c.LogPath)
	setString("STACKIT_LOG_LEVEL", &c.LogLevel)
	setString("STACKIT_METRICS_ADDR", &c.MetricsAddr)

	if v := os.Getenv("STACKIT_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("STACKIT_PAGE_SIZE must be an integer: %s", v)
		}
		c.PageSize = n
	}
	if v := os.Getenv("STACKIT_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("STACKIT_RATE_LIMIT must be a number: %s", v)
		}
		c.RateLimit = f
	}
	return nil
}

func (c Config) Validate() error {
	if c.Site == "" {
		return errors.New("Site is required")
	}
	if c.APIBaseURL == "" {
		return errors.New("APIBaseURL is required")
	}
	if strings.HasSuffix(c.APIBaseURL, "/") {
		return fmt.Errorf("APIBaseURL must not end with '/': %s", c.APIBaseURL)
	}
	if c.DBPath == "" {
		return errors.New("DBPath is required")
	}
	if c.PageSize < 1 || c.PageSize > maxPageSize {
		return fmt.Errorf("PageSize must be between 1 and %d: %d", maxPageSize, c.PageSize)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("RateLimit must not be negative: %v", c.RateLimit)
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("LogLevel must be debug, info, warn or error: %s", c.LogLevel)
	}
	return nil
}
