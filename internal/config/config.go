// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all pokedex configuration.
type Config struct {
	API     API     `yaml:"api"`
	UI      UI      `yaml:"ui"`
	History History `yaml:"history"`
}

// API holds PokéAPI client settings.
type API struct {
	BaseURL  string        `yaml:"base_url"`
	Timeout  time.Duration `yaml:"timeout"`
	CacheTTL time.Duration `yaml:"cache_ttl"` // Response cache TTL; 0 disables.
}

// UI holds interactive display settings.
type UI struct {
	Step int `yaml:"step"` // Counter demo increment per key press.
}

// History holds lookup history settings.
type History struct {
	Limit int    `yaml:"limit"`
	Path  string `yaml:"path"` // Empty means the per-user default location.
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		API: API{
			BaseURL:  "https://pokeapi.co/api/v2",
			Timeout:  10 * time.Second,
			CacheTTL: 10 * time.Minute,
		},
		UI: UI{
			Step: 1,
		},
		History: History{
			Limit: 20,
		},
	}
}

// Load reads a single YAML config file at path and returns a Config.
// For merging multiple config sources, use LoadLayered instead.
// If the file does not exist, defaults are returned without error.
// If the file contains invalid YAML or unknown fields, an error is returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return &cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("config: api.base_url cannot be empty")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("config: api.timeout must be positive, got %v", c.API.Timeout)
	}
	if c.API.CacheTTL < 0 {
		return fmt.Errorf("config: api.cache_ttl must be non-negative, got %v", c.API.CacheTTL)
	}
	if c.UI.Step == 0 {
		return errors.New("config: ui.step cannot be zero")
	}
	if c.History.Limit < 0 {
		return fmt.Errorf("config: history.limit must be non-negative, got %d", c.History.Limit)
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: POKEDEX_BASE_URL, POKEDEX_TIMEOUT, POKEDEX_CACHE_TTL,
// POKEDEX_HISTORY_PATH.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("POKEDEX_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("POKEDEX_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: invalid POKEDEX_TIMEOUT %q: %w", v, err)
		}
		c.API.Timeout = d
	}
	if v := os.Getenv("POKEDEX_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: invalid POKEDEX_CACHE_TTL %q: %w", v, err)
		}
		c.API.CacheTTL = d
	}
	if v := os.Getenv("POKEDEX_HISTORY_PATH"); v != "" {
		c.History.Path = v
	}
	return nil
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	API     *rawAPI     `yaml:"api"`
	UI      *rawUI      `yaml:"ui"`
	History *rawHistory `yaml:"history"`
}

type rawAPI struct {
	BaseURL  *string        `yaml:"base_url"`
	Timeout  *time.Duration `yaml:"timeout"`
	CacheTTL *time.Duration `yaml:"cache_ttl"`
}

type rawUI struct {
	Step *int `yaml:"step"`
}

type rawHistory struct {
	Limit *int    `yaml:"limit"`
	Path  *string `yaml:"path"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if layer.API != nil {
		if layer.API.BaseURL != nil {
			c.API.BaseURL = *layer.API.BaseURL
		}
		if layer.API.Timeout != nil {
			c.API.Timeout = *layer.API.Timeout
		}
		if layer.API.CacheTTL != nil {
			c.API.CacheTTL = *layer.API.CacheTTL
		}
	}
	if layer.UI != nil {
		if layer.UI.Step != nil {
			c.UI.Step = *layer.UI.Step
		}
	}
	if layer.History != nil {
		if layer.History.Limit != nil {
			c.History.Limit = *layer.History.Limit
		}
		if layer.History.Path != nil {
			c.History.Path = *layer.History.Path
		}
	}
}
