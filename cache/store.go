package cache

import (
	"context"

	"github.com/sparqldesk/sparqldesk/ontology"
)

// Store persists one cache envelope per backend ID. Implementations must
// replace envelopes atomically on Put; same-backend writers are serialized
// upstream by the service's in-flight lock, so no two Puts race on one key.
type Store interface {
	// Get returns the stored envelope for a backend, or ErrNotFound.
	Get(ctx context.Context, backendID string) (*ontology.Cache, error)

	// Put stores an envelope, replacing any previous one for the backend.
	Put(ctx context.Context, backendID string, cache *ontology.Cache) error

	// Delete removes a backend's envelope. Deleting a missing envelope is
	// not an error.
	Delete(ctx context.Context, backendID string) error

	// Keys returns the backend IDs with a stored envelope.
	Keys(ctx context.Context) ([]string, error)
}
