// Package config provides configuration loading and management for SparqlDesk.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sparqldesk/sparqldesk/backend"
)

// Config represents the complete SparqlDesk configuration.
type Config struct {
	NATS     NATSConfig       `yaml:"nats"`
	Sweep    SweepConfig      `yaml:"sweep"`
	Metrics  MetricsConfig    `yaml:"metrics"`
	Backends []backend.Config `yaml:"backends"`
}

// NATSConfig configures the NATS connection backing the cache store.
type NATSConfig struct {
	// URL is the NATS server URL (empty = use embedded server)
	URL string `yaml:"url"`
	// Embedded indicates whether to use embedded NATS
	Embedded bool `yaml:"embedded"`
	// StoreDir is the JetStream storage directory for the embedded server
	StoreDir string `yaml:"store_dir"`
}

// SweepConfig configures the background cache refresh sweep.
type SweepConfig struct {
	// Interval between sweep passes (default: 5m)
	Interval time.Duration `yaml:"interval"`
	// Schedule is an optional cron expression overriding Interval
	Schedule string `yaml:"schedule"`
	// RateLimit is the per-backend minimum time between refresh attempts,
	// independent of each cache's TTL (default: 10m)
	RateLimit time.Duration `yaml:"rate_limit"`
}

// MetricsConfig configures the Prometheus endpoint of the sweep daemon.
type MetricsConfig struct {
	// Listen is the metrics listen address (empty = metrics disabled)
	Listen string `yaml:"listen"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		NATS: NATSConfig{
			URL:      "",
			Embedded: true,
		},
		Sweep: SweepConfig{
			Interval:  5 * time.Minute,
			RateLimit: 10 * time.Minute,
		},
		Metrics: MetricsConfig{
			Listen: "",
		},
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Sweep.Interval <= 0 && c.Sweep.Schedule == "" {
		return fmt.Errorf("sweep.interval must be positive")
	}
	if c.Sweep.RateLimit < 0 {
		return fmt.Errorf("sweep.rate_limit must not be negative")
	}
	seen := make(map[string]bool, len(c.Backends))
	for i := range c.Backends {
		if err := c.Backends[i].Validate(); err != nil {
			return err
		}
		if seen[c.Backends[i].ID] {
			return fmt.Errorf("duplicate backend id: %s", c.Backends[i].ID)
		}
		seen[c.Backends[i].ID] = true
	}
	return nil
}

// Merge overlays non-zero values from other onto c. The backend list
// replaces rather than appends: the later layer owns the backend set it
// defines.
func (c *Config) Merge(other *Config) {
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
		c.NATS.Embedded = other.NATS.Embedded
	}
	if other.NATS.StoreDir != "" {
		c.NATS.StoreDir = other.NATS.StoreDir
	}
	if other.Sweep.Interval > 0 {
		c.Sweep.Interval = other.Sweep.Interval
	}
	if other.Sweep.Schedule != "" {
		c.Sweep.Schedule = other.Sweep.Schedule
	}
	if other.Sweep.RateLimit > 0 {
		c.Sweep.RateLimit = other.Sweep.RateLimit
	}
	if other.Metrics.Listen != "" {
		c.Metrics.Listen = other.Metrics.Listen
	}
	if len(other.Backends) > 0 {
		c.Backends = other.Backends
	}
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
