package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	// Card database configuration
	Database DatabaseConfig `toml:"database"`

	// Card table configuration
	Cards CardsConfig `toml:"cards"`

	// Scryfall bulk data configuration
	Scryfall ScryfallConfig `toml:"scryfall"`

	// Application configuration
	App AppConfig `toml:"app"`
}

// DatabaseConfig contains SQLite card store settings.
type DatabaseConfig struct {
	Path        string `toml:"path"`         // Path to the SQLite card database
	AutoMigrate bool   `toml:"auto_migrate"` // Apply schema migrations on open
}

// CardsConfig contains in-memory card table settings.
type CardsConfig struct {
	FilePath string `toml:"file_path"` // Path to the card table JSON file
	Watch    bool   `toml:"watch"`     // Reload the table when the file changes
}

// ScryfallConfig contains bulk data download settings.
type ScryfallConfig struct {
	BulkDir   string `toml:"bulk_dir"`   // Directory for downloaded bulk files
	MaxAge    string `toml:"max_age"`    // Re-download bulk data older than this (e.g., "24h")
	UserAgent string `toml:"user_agent"` // User-Agent sent to the Scryfall API
}

// AppConfig contains general application settings.
type AppConfig struct {
	DebugMode bool `toml:"debug_mode"` // Enable debug logging
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:        "",
			AutoMigrate: true,
		},
		Cards: CardsConfig{
			FilePath: "",
			Watch:    true,
		},
		Scryfall: ScryfallConfig{
			BulkDir:   "",
			MaxAge:    "24h",
			UserAgent: "deckport/1.0",
		},
		App: AppConfig{
			DebugMode: false,
		},
	}
}

// configPath returns the path to the configuration file.
func configPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".deckport")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.toml"), nil
}

// Load loads the configuration from the default location. Returns the
// default config if the file doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from path. Returns the default config
// if the file doesn't exist.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &config, nil
}

// Save saves the configuration to the default location.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo saves the configuration to path.
func (c *Config) SaveTo(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if _, err := time.ParseDuration(c.Scryfall.MaxAge); err != nil {
		return fmt.Errorf("invalid bulk data max age %q: %w", c.Scryfall.MaxAge, err)
	}

	if c.Scryfall.UserAgent == "" {
		return fmt.Errorf("scryfall user agent cannot be empty")
	}

	return nil
}

// GetBulkMaxAge returns the bulk data max age as a duration.
func (c *Config) GetBulkMaxAge() (time.Duration, error) {
	return time.ParseDuration(c.Scryfall.MaxAge)
}
