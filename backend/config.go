// Package backend manages SPARQL backend definitions: connection settings,
// per-backend ontology cache configuration, and the registry resolving a
// backend ID to an executor.
package backend

import (
	"fmt"
	"time"
)

// Default cache limits. TTL controls staleness; MaxElements is a hard cap
// that aborts a fetch rather than truncating silently.
const (
	DefaultTTL         = 24 * time.Hour
	DefaultMaxElements = 50000
)

// QueryTemplates holds the three SPARQL queries the fetch engine executes
// verbatim, one per element kind. The dcterms-over-rdfs label preference is
// encoded in the templates via COALESCE, not in application code.
type QueryTemplates struct {
	Classes     string `yaml:"classes" json:"classes"`
	Properties  string `yaml:"properties" json:"properties"`
	Individuals string `yaml:"individuals" json:"individuals"`
}

// CacheConfig is the per-backend ontology cache configuration. It lives with
// the backend definition, not inside the cached envelope.
type CacheConfig struct {
	Enabled     bool           `yaml:"enabled" json:"enabled"`
	TTL         time.Duration  `yaml:"ttl" json:"ttl"`
	MaxElements int            `yaml:"max_elements" json:"maxElements"`
	Queries     QueryTemplates `yaml:"queries" json:"queries"`
}

// DefaultCacheConfig returns a CacheConfig with the bundled query templates
// and default limits. Caching starts enabled.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:     true,
		TTL:         DefaultTTL,
		MaxElements: DefaultMaxElements,
		Queries: QueryTemplates{
			Classes:     DefaultClassQuery,
			Properties:  DefaultPropertyQuery,
			Individuals: DefaultIndividualQuery,
		},
	}
}

// Config defines one SPARQL backend.
type Config struct {
	ID       string        `yaml:"id" json:"id"`
	Name     string        `yaml:"name" json:"name"`
	Endpoint string        `yaml:"endpoint" json:"endpoint"`
	Username string        `yaml:"username,omitempty" json:"username,omitempty"`
	Password string        `yaml:"password,omitempty" json:"password,omitempty"`
	Timeout  time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	Cache    CacheConfig   `yaml:"cache" json:"cache"`
}

// Validate checks the backend definition and fills query-template gaps from
// the bundled defaults.
func (c *Config) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("backend id is required")
	}
	if c.Endpoint == "" {
		return fmt.Errorf("backend %s: endpoint is required", c.ID)
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = DefaultTTL
	}
	if c.Cache.MaxElements <= 0 {
		c.Cache.MaxElements = DefaultMaxElements
	}
	defaults := DefaultCacheConfig().Queries
	if c.Cache.Queries.Classes == "" {
		c.Cache.Queries.Classes = defaults.Classes
	}
	if c.Cache.Queries.Properties == "" {
		c.Cache.Queries.Properties = defaults.Properties
	}
	if c.Cache.Queries.Individuals == "" {
		c.Cache.Queries.Individuals = defaults.Individuals
	}
	return nil
}
