// Package cache implements the ontology element cache: fetching elements
// from a SPARQL backend, storing one envelope per backend, staleness
// validation with stale-while-revalidate refresh, a rate-limited background
// sweep, and ranked search over the cached elements.
package cache

import (
	"errors"
	"fmt"

	"github.com/sparqldesk/sparqldesk/ontology"
)

// Sentinel errors.
var (
	// ErrNotFound is returned by a Store when no envelope exists for a
	// backend ID.
	ErrNotFound = errors.New("cache not found")

	// ErrDisabled is returned when fetching a backend whose cache is
	// disabled and force was not set.
	ErrDisabled = errors.New("ontology cache disabled for backend")

	// ErrAlreadyInProgress is returned when a refresh is requested for a
	// backend that already has a fetch in flight.
	ErrAlreadyInProgress = errors.New("refresh already in progress")
)

// QueryError wraps a transport failure, tagged with the element kind whose
// query failed.
type QueryError struct {
	Kind ontology.Kind
	Err  error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %s elements: %v", e.Kind, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// LimitError reports that the running element total exceeded the backend's
// configured maximum. The fetch is aborted rather than truncated.
type LimitError struct {
	Count int
	Limit int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("element limit exceeded: %d elements, limit %d", e.Count, e.Limit)
}

// StorageError wraps a cache store read or write failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("cache storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
