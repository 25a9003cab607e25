package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparqldesk/sparqldesk/backend"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.NATS.Embedded)
	assert.Equal(t, 5*time.Minute, cfg.Sweep.Interval)
	assert.Equal(t, 10*time.Minute, cfg.Sweep.RateLimit)
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsDuplicateBackends(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backends = []backend.Config{
		{ID: "b1", Endpoint: "http://one/sparql"},
		{ID: "b1", Endpoint: "http://two/sparql"},
	}
	assert.Error(t, cfg.Validate())
}

func TestValidateFillsBackendDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backends = []backend.Config{{ID: "b1", Endpoint: "http://one/sparql"}}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, backend.DefaultTTL, cfg.Backends[0].Cache.TTL)
	assert.NotEmpty(t, cfg.Backends[0].Cache.Queries.Classes)
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	overlay := &Config{
		NATS:  NATSConfig{URL: "nats://localhost:4222", Embedded: false},
		Sweep: SweepConfig{Interval: time.Minute},
		Backends: []backend.Config{
			{ID: "b1", Endpoint: "http://one/sparql"},
		},
	}

	base.Merge(overlay)

	assert.Equal(t, "nats://localhost:4222", base.NATS.URL)
	assert.False(t, base.NATS.Embedded)
	assert.Equal(t, time.Minute, base.Sweep.Interval)
	// Untouched fields keep their defaults.
	assert.Equal(t, 10*time.Minute, base.Sweep.RateLimit)
	assert.Len(t, base.Backends, 1)
}

func TestLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := DefaultConfig()
	cfg.NATS.URL = "nats://example:4222"
	cfg.Sweep.Schedule = "*/5 * * * *"
	cfg.Backends = []backend.Config{{
		ID:       "wikidata",
		Name:     "Wikidata",
		Endpoint: "https://query.wikidata.org/sparql",
		Cache: backend.CacheConfig{
			Enabled:     true,
			TTL:         12 * time.Hour,
			MaxElements: 20000,
		},
	}}
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "nats://example:4222", loaded.NATS.URL)
	assert.Equal(t, "*/5 * * * *", loaded.Sweep.Schedule)
	require.Len(t, loaded.Backends, 1)
	assert.Equal(t, "wikidata", loaded.Backends[0].ID)
	assert.Equal(t, 12*time.Hour, loaded.Backends[0].Cache.TTL)
}

func TestLoadFromFileYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sparqldesk.yaml")
	doc := `
nats:
  url: nats://localhost:4222
sweep:
  interval: 2m
  rate_limit: 4m
backends:
  - id: local
    endpoint: http://localhost:3030/ds/sparql
    cache:
      enabled: true
      ttl: 1h
      max_elements: 500
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 2*time.Minute, cfg.Sweep.Interval)
	assert.Equal(t, 4*time.Minute, cfg.Sweep.RateLimit)
	require.Len(t, cfg.Backends, 1)
	b := cfg.Backends[0]
	assert.Equal(t, "local", b.ID)
	assert.True(t, b.Cache.Enabled)
	assert.Equal(t, time.Hour, b.Cache.TTL)
	assert.Equal(t, 500, b.Cache.MaxElements)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
