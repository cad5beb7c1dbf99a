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
	// Card database client configuration
	Scryfall ScryfallConfig `toml:"scryfall"`

	// Recommendation service configuration
	EDHREC EDHRECConfig `toml:"edhrec"`

	// Cache configuration
	Cache CacheConfig `toml:"cache"`

	// Local storage configuration
	Storage StorageConfig `toml:"storage"`

	// HTTP API configuration
	API APIConfig `toml:"api"`

	// Application configuration
	App AppConfig `toml:"app"`
}

// ScryfallConfig contains card database client settings.
type ScryfallConfig struct {
	BaseURL string `toml:"base_url"` // Override for testing; empty = public API
	Timeout string `toml:"timeout"`  // HTTP client timeout (e.g., "30s")
}

// EDHRECConfig contains recommendation service settings.
type EDHRECConfig struct {
	BaseURL string `toml:"base_url"` // Override for testing; empty = public API
	Timeout string `toml:"timeout"`  // HTTP client timeout (e.g., "30s")
}

// CacheConfig contains caching settings.
type CacheConfig struct {
	Enabled bool   `toml:"enabled"`  // Enable caching
	TTL     string `toml:"ttl"`      // Recommendation cache TTL (e.g., "24h")
	MaxSize int    `toml:"max_size"` // Max in-memory card entries (0 = default)
}

// StorageConfig contains local card store settings.
type StorageConfig struct {
	Enabled bool   `toml:"enabled"`  // Persist resolved cards across runs
	Path    string `toml:"path"`     // Database file path; empty = default
	CardTTL string `toml:"card_ttl"` // Max age before a stored card is re-fetched
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host string `toml:"host"` // Listen address
	Port int    `toml:"port"` // Listen port
}

// AppConfig contains general application settings.
type AppConfig struct {
	DebugMode bool `toml:"debug_mode"` // Enable debug logging
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Scryfall: ScryfallConfig{
			BaseURL: "",
			Timeout: "30s",
		},
		EDHREC: EDHRECConfig{
			BaseURL: "",
			Timeout: "30s",
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     "24h",
			MaxSize: 0,
		},
		Storage: StorageConfig{
			Enabled: true,
			Path:    "",
			CardTTL: "168h",
		},
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8787,
		},
		App: AppConfig{
			DebugMode: false,
		},
	}
}

// configDir returns the application configuration directory, creating it
// if needed.
func configDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	dir := filepath.Join(homeDir, ".edh-companion")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return dir, nil
}

// configPath returns the path to the configuration file.
func configPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DefaultStoragePath returns the default card store database path.
func DefaultStoragePath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cards.db"), nil
}

// Load loads the configuration from disk. Returns default config if file doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from an explicit path. Returns default
// config if the file doesn't exist.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Unmarshal over the defaults so a partial file keeps sane values
	// for the sections it omits.
	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return config, nil
}

// Save saves the configuration to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}

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
	if _, err := time.ParseDuration(c.Scryfall.Timeout); err != nil {
		return fmt.Errorf("invalid scryfall timeout %q: %w", c.Scryfall.Timeout, err)
	}

	if _, err := time.ParseDuration(c.EDHREC.Timeout); err != nil {
		return fmt.Errorf("invalid edhrec timeout %q: %w", c.EDHREC.Timeout, err)
	}

	if _, err := time.ParseDuration(c.Cache.TTL); err != nil {
		return fmt.Errorf("invalid cache TTL %q: %w", c.Cache.TTL, err)
	}

	if c.Cache.MaxSize < 0 {
		return fmt.Errorf("cache max size cannot be negative: %d", c.Cache.MaxSize)
	}

	if _, err := time.ParseDuration(c.Storage.CardTTL); err != nil {
		return fmt.Errorf("invalid card TTL %q: %w", c.Storage.CardTTL, err)
	}

	if c.API.Port < 0 || c.API.Port > 65535 {
		return fmt.Errorf("invalid API port: %d", c.API.Port)
	}

	return nil
}

// GetCacheTTL returns the cache TTL as a duration.
func (c *Config) GetCacheTTL() (time.Duration, error) {
	return time.ParseDuration(c.Cache.TTL)
}

// GetCardTTL returns the stored-card TTL as a duration.
func (c *Config) GetCardTTL() (time.Duration, error) {
	return time.ParseDuration(c.Storage.CardTTL)
}

// GetScryfallTimeout returns the card database client timeout as a duration.
func (c *Config) GetScryfallTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Scryfall.Timeout)
}

// GetEDHRECTimeout returns the recommendation client timeout as a duration.
func (c *Config) GetEDHRECTimeout() (time.Duration, error) {
	return time.ParseDuration(c.EDHREC.Timeout)
}
