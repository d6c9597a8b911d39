package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	// Server configuration
	Server ServerConfig `toml:"server"`

	// Database configuration
	Database DatabaseConfig `toml:"database"`

	// Tournament API configuration
	Topdeck TopdeckConfig `toml:"topdeck"`

	// Card catalog configuration
	Scryfall ScryfallConfig `toml:"scryfall"`

	// Daily generation configuration
	Generation GenerationConfig `toml:"generation"`

	// Application configuration
	App AppConfig `toml:"app"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host           string   `toml:"host"`            // Bind address
	Port           int      `toml:"port"`            // Listen port
	AllowedOrigins []string `toml:"allowed_origins"` // CORS origins
}

// DatabaseConfig contains SQLite settings.
type DatabaseConfig struct {
	Path string `toml:"path"` // Path to the SQLite file
}

// TopdeckConfig contains tournament API settings.
type TopdeckConfig struct {
	BaseURL string `toml:"base_url"` // API base URL
	Timeout string `toml:"timeout"`  // Per-request timeout (e.g., "45s")
}

// ScryfallConfig contains card catalog settings.
type ScryfallConfig struct {
	BaseURL string `toml:"base_url"` // API base URL
	Timeout string `toml:"timeout"`  // Per-request timeout
}

// GenerationConfig contains daily puzzle generation settings.
type GenerationConfig struct {
	Hour    int  `toml:"hour"`    // UTC hour the daily job fires
	Enabled bool `toml:"enabled"` // Run the scheduler in-process
}

// AppConfig contains general application settings.
type AppConfig struct {
	DebugMode bool `toml:"debug_mode"` // Enable debug logging
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			AllowedOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Path: "deckle.db",
		},
		Topdeck: TopdeckConfig{
			BaseURL: "https://topdeck.gg/api",
			Timeout: "45s",
		},
		Scryfall: ScryfallConfig{
			BaseURL: "https://api.scryfall.com",
			Timeout: "45s",
		},
		Generation: GenerationConfig{
			Hour:    2,
			Enabled: true,
		},
		App: AppConfig{
			DebugMode: false,
		},
	}
}

// Load loads the configuration from the given path. Returns default
// config if the file doesn't exist.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if _, err := time.ParseDuration(c.Topdeck.Timeout); err != nil {
		return fmt.Errorf("invalid topdeck timeout %q: %w", c.Topdeck.Timeout, err)
	}
	if _, err := time.ParseDuration(c.Scryfall.Timeout); err != nil {
		return fmt.Errorf("invalid scryfall timeout %q: %w", c.Scryfall.Timeout, err)
	}
	if c.Generation.Hour < 0 || c.Generation.Hour > 23 {
		return fmt.Errorf("generation hour out of range: %d", c.Generation.Hour)
	}
	return nil
}

// Addr returns the host:port the server should bind to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetTopdeckTimeout returns the tournament API timeout as a duration.
func (c *Config) GetTopdeckTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Topdeck.Timeout)
}

// GetScryfallTimeout returns the card catalog timeout as a duration.
func (c *Config) GetScryfallTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Scryfall.Timeout)
}
