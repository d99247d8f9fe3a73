package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"usagestats/internal/common/fsutil"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by WithDefaults.
type Config struct {
	Addr               string   `json:"addr" yaml:"addr" toml:"addr"`
	Enabled            bool     `json:"enabled" yaml:"enabled" toml:"enabled"`
	Endpoint           string   `json:"endpoint" yaml:"endpoint" toml:"endpoint"`
	SendTimeoutSeconds int      `json:"send_timeout_seconds" yaml:"send_timeout_seconds" toml:"send_timeout_seconds"`
	SendRatePerSec     float64  `json:"send_rate_per_sec" yaml:"send_rate_per_sec" toml:"send_rate_per_sec"`
	LogLevel           string   `json:"log_level" yaml:"log_level" toml:"log_level"`
	MaxBodyBytes       int64    `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	EventRateLimit     int      `json:"event_rate_limit" yaml:"event_rate_limit" toml:"event_rate_limit"`
	CORSEnabled        bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins        []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
}

const (
	DefaultAddr               = ":8080"
	DefaultSendTimeoutSeconds = 10
	DefaultSendRatePerSec     = 5
	DefaultLogLevel           = "info"
	DefaultMaxBodyBytes       = 4 << 20
	DefaultEventRateLimit     = 60
)

// WithDefaults returns a copy of c with unspecified fields filled in.
func (c Config) WithDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.SendTimeoutSeconds == 0 {
		c.SendTimeoutSeconds = DefaultSendTimeoutSeconds
	}
	if c.SendRatePerSec == 0 {
		c.SendRatePerSec = DefaultSendRatePerSec
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.MaxBodyBytes == 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.EventRateLimit == 0 {
		c.EventRateLimit = DefaultEventRateLimit
	}
	return c
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	if c.SendTimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("send_timeout_seconds must be >= 0, got %d", c.SendTimeoutSeconds))
	}
	if c.SendRatePerSec < 0 {
		errs = append(errs, fmt.Errorf("send_rate_per_sec must be >= 0, got %v", c.SendRatePerSec))
	}
	if c.MaxBodyBytes < 0 {
		errs = append(errs, fmt.Errorf("max_body_bytes must be >= 0, got %d", c.MaxBodyBytes))
	}
	if c.EventRateLimit < 0 {
		errs = append(errs, fmt.Errorf("event_rate_limit must be >= 0, got %d", c.EventRateLimit))
	}
	if c.LogLevel != "" {
		if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
			errs = append(errs, fmt.Errorf("log_level: %w", err))
		}
	}
	if c.Endpoint != "" && !strings.HasPrefix(c.Endpoint, "http://") && !strings.HasPrefix(c.Endpoint, "https://") {
		errs = append(errs, fmt.Errorf("endpoint must be an http(s) URL, got %q", c.Endpoint))
	}
	return errors.Join(errs...)
}

// Load reads a configuration file based on its extension. A leading '~'
// expands to the home directory.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	path, err := fsutil.ExpandHome(path)
	if err != nil {
		return cfg, err
	}
	if !fsutil.PathExists(path) {
		return cfg, fmt.Errorf("config file %s: %w", path, os.ErrNotExist)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}
