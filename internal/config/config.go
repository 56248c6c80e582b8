// Package config loads application configuration from environment variables
// with an optional YAML file overlay.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Source   SourceConfig   `yaml:"source" envconfig:"SOURCE"`
	Auth     AuthConfig     `yaml:"auth" envconfig:"AUTH"`
	Cache    CacheConfig    `yaml:"cache" envconfig:"CACHE"`
	Branding BrandingConfig `yaml:"branding" envconfig:"BRANDING"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS" default:"50"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST" default:"25"`
}

// SourceConfig identifies the remote spreadsheet the dataset is pulled from.
// SheetID is a required secret supplied by the hosting environment.
type SourceConfig struct {
	SheetID string `yaml:"sheet_id" envconfig:"SHEET_ID"`
	TabName string `yaml:"tab_name" envconfig:"TAB_NAME" default:"Pedidos Individuais"`
}

// AuthConfig holds the access gate settings. Password is a required secret.
type AuthConfig struct {
	Password   string        `yaml:"password" envconfig:"PASSWORD"`
	SessionTTL time.Duration `yaml:"session_ttl" envconfig:"SESSION_TTL" default:"12h"`
}

// CacheConfig controls the dataset validity window.
type CacheConfig struct {
	TTL time.Duration `yaml:"ttl" envconfig:"TTL" default:"600s"`
}

// BrandingConfig points at the optional report branding assets.
type BrandingConfig struct {
	LogoPath string `yaml:"logo_path" envconfig:"LOGO_PATH" default:"logo.png"`
	FontDir  string `yaml:"font_dir" envconfig:"FONT_DIR" default:"fonts"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	File   string `yaml:"file" envconfig:"FILE" default:"logs/app.log"`
}

// Load reads configuration from SALES_-prefixed environment variables, then
// overlays the YAML file when one exists at configPath (empty means skip).
func Load(configPath string) (*Config, error) {
	var cfg Config

	if err := envconfig.Process("SALES", &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := loadFile(configPath, &cfg); err != nil {
				return nil, fmt.Errorf("load config file %s: %w", configPath, err)
			}
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// validate enforces the required secrets and sane bounds. Secrets are never
// defaulted: a missing one is a startup failure, not a silent fallback.
func (c *Config) validate() error {
	if c.Source.SheetID == "" {
		return fmt.Errorf("SALES_SOURCE_SHEET_ID is required")
	}
	if c.Auth.Password == "" {
		return fmt.Errorf("SALES_AUTH_PASSWORD is required")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache ttl must be positive, got %s", c.Cache.TTL)
	}
	return nil
}
