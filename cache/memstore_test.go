package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparqldesk/sparqldesk/ontology"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	c := &ontology.Cache{
		Metadata: ontology.Metadata{
			BackendID:   "b1",
			LastUpdated: time.Now().UnixMilli(),
			TTL:         time.Hour.Milliseconds(),
			Version:     ontology.SchemaVersion,
		},
		Classes: []ontology.Class{
			{Element: ontology.NewElement(ontology.NamespaceFOAF+"Person", "Person", "A person.")},
		},
		Properties: []ontology.Property{
			{
				Element:      ontology.NewElement(ontology.NamespaceFOAF+"knows", "knows", ""),
				PropertyType: ontology.PropertyTypeObject,
				Domain:       []string{ontology.NamespaceFOAF + "Person"},
				Range:        []string{ontology.NamespaceFOAF + "Person", ontology.NamespaceFOAF + "Agent"},
			},
		},
		Individuals: []ontology.Individual{
			{Element: ontology.NewElement("http://example.org/people/alice", "Alice", ""), Classes: []string{ontology.NamespaceFOAF + "Person"}},
		},
		Namespaces: map[string]string{"foaf": ontology.NamespaceFOAF},
	}
	c.FinalizeStats()

	require.NoError(t, store.Put(ctx, "b1", c))

	got, err := store.Get(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, c.Metadata, got.Metadata)
	assert.Equal(t, c.Classes, got.Classes)
	assert.Equal(t, c.Properties, got.Properties)
	assert.Equal(t, c.Individuals, got.Individuals)
	assert.Equal(t, c.Namespaces, got.Namespaces)
}

func TestMemoryStoreGetMissing(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreReturnsIndependentCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	c := &ontology.Cache{Metadata: ontology.Metadata{BackendID: "b1", Version: ontology.SchemaVersion}}
	require.NoError(t, store.Put(ctx, "b1", c))

	first, err := store.Get(ctx, "b1")
	require.NoError(t, err)
	first.Metadata.BackendID = "mutated"

	second, err := store.Get(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "b1", second.Metadata.BackendID)
}

func TestMemoryStoreDeleteAndKeys(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "b2", &ontology.Cache{}))
	require.NoError(t, store.Put(ctx, "b1", &ontology.Cache{}))

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b1", "b2"}, keys)

	require.NoError(t, store.Delete(ctx, "b1"))
	require.NoError(t, store.Delete(ctx, "b1")) // idempotent

	keys, err = store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b2"}, keys)
}
