package backend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	t.Run("requires id and endpoint", func(t *testing.T) {
		cfg := Config{}
		assert.Error(t, cfg.Validate())

		cfg = Config{ID: "b1"}
		assert.Error(t, cfg.Validate())
	})

	t.Run("fills defaults", func(t *testing.T) {
		cfg := Config{ID: "b1", Endpoint: "http://localhost:3030/ds/sparql"}
		require.NoError(t, cfg.Validate())

		assert.Equal(t, DefaultTTL, cfg.Cache.TTL)
		assert.Equal(t, DefaultMaxElements, cfg.Cache.MaxElements)
		assert.Equal(t, DefaultClassQuery, cfg.Cache.Queries.Classes)
		assert.Equal(t, DefaultPropertyQuery, cfg.Cache.Queries.Properties)
		assert.Equal(t, DefaultIndividualQuery, cfg.Cache.Queries.Individuals)
	})

	t.Run("keeps explicit settings", func(t *testing.T) {
		cfg := Config{
			ID:       "b1",
			Endpoint: "http://localhost:3030/ds/sparql",
			Cache: CacheConfig{
				TTL:         time.Hour,
				MaxElements: 100,
				Queries:     QueryTemplates{Classes: "SELECT ?iri WHERE {}"},
			},
		}
		require.NoError(t, cfg.Validate())
		assert.Equal(t, time.Hour, cfg.Cache.TTL)
		assert.Equal(t, 100, cfg.Cache.MaxElements)
		assert.Equal(t, "SELECT ?iri WHERE {}", cfg.Cache.Queries.Classes)
		assert.Equal(t, DefaultPropertyQuery, cfg.Cache.Queries.Properties)
	})
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(nil)

	require.NoError(t, r.Register(Config{ID: "b1", Endpoint: "http://localhost:3030/a/sparql"}))
	require.NoError(t, r.Register(Config{ID: "b2", Endpoint: "http://localhost:3030/b/sparql"}))

	b, err := r.Get("b1")
	require.NoError(t, err)
	assert.Equal(t, "b1", b.Config.ID)
	assert.NotNil(t, b.Executor)

	_, err = r.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, []string{"b1", "b2"}, r.IDs())

	r.Remove("b1")
	_, err = r.Get("b1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistryReplace(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.Register(Config{ID: "b1", Endpoint: "http://one/sparql"}))
	require.NoError(t, r.Register(Config{ID: "b1", Endpoint: "http://two/sparql"}))

	b, err := r.Get("b1")
	require.NoError(t, err)
	assert.Equal(t, "http://two/sparql", b.Config.Endpoint)
	assert.Len(t, r.IDs(), 1)
}
