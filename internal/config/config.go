// Package config loads service settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"bom-yield/internal/common"
	"bom-yield/internal/yield"
)

// Config is the service configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Data     DataConfig     `toml:"data"`
	Resolver ResolverConfig `toml:"resolver"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	DevMode bool   `toml:"dev_mode"`
}

// DataConfig locates the catalog source. CatalogPath, when set, takes
// precedence over the SQLite database.
type DataConfig struct {
	DBPath      string `toml:"db_path"`
	CatalogPath string `toml:"catalog_path"`
	SeedOnStart bool   `toml:"seed_on_start"`
}

// ResolverConfig holds resolution defaults.
type ResolverConfig struct {
	DefaultBundle string `toml:"default_bundle"`
	Strategy      string `toml:"strategy"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "",
			Port: 3000,
		},
		Data: DataConfig{
			DBPath: "data/catalog.db",
		},
		Resolver: ResolverConfig{
			DefaultBundle: "1",
			Strategy:      yield.StrategyGreedy.String(),
		},
	}
}

// Load reads path over the defaults. An empty path or a missing file yields
// the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}

		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := Parse(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes TOML data into cfg and validates the result.
func Parse(data []byte, cfg *Config) error {
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg.Validate()
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if !common.IsInRange(0, c.Server.Port, 65535) {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}

	if c.Data.DBPath == "" && c.Data.CatalogPath == "" {
		return errors.New("one of data.db_path or data.catalog_path must be set")
	}

	if _, err := yield.ParseStrategy(c.Resolver.Strategy); err != nil {
		return fmt.Errorf("resolver.strategy: %w", err)
	}

	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
