package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/sparqldesk/sparqldesk/ontology"
)

// Bucket is the NATS KV bucket holding ontology cache envelopes, one key per
// backend ID.
const Bucket = "SPARQLDESK_ONTOLOGY_CACHE"

// NATSStore is a Store backed by a NATS JetStream key-value bucket. With the
// embedded server this is a local file-backed store; pointing at an external
// NATS shares the cache across clients.
type NATSStore struct {
	kv jetstream.KeyValue
}

// NewNATSStore creates a NATSStore, creating the bucket if it doesn't exist.
func NewNATSStore(ctx context.Context, js jetstream.JetStream) (*NATSStore, error) {
	kv, err := js.KeyValue(ctx, Bucket)
	if err != nil {
		kv, err = js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
			Bucket:      Bucket,
			Description: "SparqlDesk ontology element cache, one envelope per backend",
		})
		if err != nil {
			return nil, fmt.Errorf("create cache bucket: %w", err)
		}
	}
	return &NATSStore{kv: kv}, nil
}

// Get returns the stored envelope for a backend, or ErrNotFound.
func (s *NATSStore) Get(ctx context.Context, backendID string) (*ontology.Cache, error) {
	entry, err := s.kv.Get(ctx, backendID)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, &StorageError{Op: "get", Err: err}
	}

	var c ontology.Cache
	if err := json.Unmarshal(entry.Value(), &c); err != nil {
		return nil, &StorageError{Op: "get", Err: fmt.Errorf("unmarshal envelope: %w", err)}
	}
	return &c, nil
}

// Put stores an envelope, replacing any previous one for the backend.
func (s *NATSStore) Put(ctx context.Context, backendID string, cache *ontology.Cache) error {
	data, err := json.Marshal(cache)
	if err != nil {
		return &StorageError{Op: "put", Err: fmt.Errorf("marshal envelope: %w", err)}
	}
	if _, err := s.kv.Put(ctx, backendID, data); err != nil {
		return &StorageError{Op: "put", Err: err}
	}
	return nil
}

// Delete removes a backend's envelope.
func (s *NATSStore) Delete(ctx context.Context, backendID string) error {
	if err := s.kv.Delete(ctx, backendID); err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil
		}
		return &StorageError{Op: "delete", Err: err}
	}
	return nil
}

// Keys returns the backend IDs with a stored envelope.
func (s *NATSStore) Keys(ctx context.Context) ([]string, error) {
	keys, err := s.kv.Keys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil, nil
		}
		return nil, &StorageError{Op: "keys", Err: err}
	}
	return keys, nil
}
