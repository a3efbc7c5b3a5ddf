package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Preview   PreviewConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8040"`
	Host string `envconfig:"HOST" default:"127.0.0.1"`
}

// PreviewConfig holds preview generation configuration.
type PreviewConfig struct {
	// StaticDir is the only directory panels may load local resources from.
	StaticDir string `envconfig:"STATIC_DIR" default:"./static"`
	// WorkspaceRoot is the directory scanned for previewable documents.
	WorkspaceRoot string `envconfig:"WORKSPACE_ROOT" default:"."`
	// SettingsPath points at the map settings YAML file. Empty means defaults.
	SettingsPath string `envconfig:"SETTINGS_PATH" default:""`
	// Origin is the externally visible origin used as the panels' CSP source.
	Origin string `envconfig:"ORIGIN" default:"http://127.0.0.1:8040"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("MAPPREVIEW", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8040",
			Host: "127.0.0.1",
		},
		Preview: PreviewConfig{
			StaticDir:     "./static",
			WorkspaceRoot: ".",
			SettingsPath:  "",
			Origin:        "http://127.0.0.1:8040",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
