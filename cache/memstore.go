package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/sparqldesk/sparqldesk/ontology"
)

// MemoryStore is an in-memory Store for tests and ephemeral sessions.
// Envelopes are held serialized so reads return independent copies, the same
// way the durable store does.
type MemoryStore struct {
	mu        sync.RWMutex
	envelopes map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{envelopes: make(map[string][]byte)}
}

// Get returns the stored envelope for a backend, or ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, backendID string) (*ontology.Cache, error) {
	s.mu.RLock()
	data, ok := s.envelopes[backendID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	var c ontology.Cache
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, &StorageError{Op: "get", Err: fmt.Errorf("unmarshal envelope: %w", err)}
	}
	return &c, nil
}

// Put stores an envelope, replacing any previous one for the backend.
func (s *MemoryStore) Put(_ context.Context, backendID string, cache *ontology.Cache) error {
	data, err := json.Marshal(cache)
	if err != nil {
		return &StorageError{Op: "put", Err: fmt.Errorf("marshal envelope: %w", err)}
	}
	s.mu.Lock()
	s.envelopes[backendID] = data
	s.mu.Unlock()
	return nil
}

// Delete removes a backend's envelope.
func (s *MemoryStore) Delete(_ context.Context, backendID string) error {
	s.mu.Lock()
	delete(s.envelopes, backendID)
	s.mu.Unlock()
	return nil
}

// Keys returns the backend IDs with a stored envelope, sorted.
func (s *MemoryStore) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.envelopes))
	for k := range s.envelopes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
