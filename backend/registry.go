package backend

import (
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/sparqldesk/sparqldesk/sparql"
)

// ErrNotFound is returned when no backend is registered under an ID.
var ErrNotFound = errors.New("backend not found")

// Backend pairs a validated configuration with the executor that queries it.
type Backend struct {
	Config   Config
	Executor sparql.Executor
}

// Registry holds the registered backends. It is safe for concurrent use; the
// UI edits backends while the background sweep reads them.
type Registry struct {
	mu       sync.RWMutex
	backends map[string]*Backend
	logger   *slog.Logger
}

// NewRegistry creates an empty backend registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		backends: make(map[string]*Backend),
		logger:   logger,
	}
}

// Register validates the config and registers a backend with an HTTP
// executor built from its connection settings. Re-registering an ID replaces
// the previous definition.
func (r *Registry) Register(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	opts := []sparql.HTTPOption{sparql.WithLogger(r.logger)}
	if cfg.Username != "" {
		opts = append(opts, sparql.WithBasicAuth(cfg.Username, cfg.Password))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, sparql.WithTimeout(cfg.Timeout))
	}

	r.register(cfg, sparql.NewHTTPClient(cfg.Endpoint, opts...))
	return nil
}

// RegisterExecutor registers a backend with a caller-supplied executor.
func (r *Registry) RegisterExecutor(cfg Config, exec sparql.Executor) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	r.register(cfg, exec)
	return nil
}

func (r *Registry) register(cfg Config, exec sparql.Executor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends[cfg.ID] = &Backend{Config: cfg, Executor: exec}
	r.logger.Debug("backend registered", slog.String("id", cfg.ID), slog.String("endpoint", cfg.Endpoint))
}

// Get returns the backend registered under id, or ErrNotFound.
func (r *Registry) Get(id string) (*Backend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.backends[id]
	if !ok {
		return nil, ErrNotFound
	}
	return b, nil
}

// Remove deletes a backend definition. Removing an unknown ID is a no-op.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.backends, id)
}

// IDs returns the registered backend IDs in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.backends))
	for id := range r.backends {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
