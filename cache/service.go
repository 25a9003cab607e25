package cache

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/sparqldesk/sparqldesk/backend"
	"github.com/sparqldesk/sparqldesk/ontology"
)

// Validation reports a stored cache's freshness. An absent cache is neither
// valid nor stale; a present one is exactly one of the two.
type Validation struct {
	Exists bool          `json:"exists"`
	Valid  bool          `json:"valid"`
	Stale  bool          `json:"stale"`
	Age    time.Duration `json:"age,omitempty"`
	TTL    time.Duration `json:"ttl,omitempty"`
}

// Service is the ontology cache facade consumed by the UI and the assistant
// tool executor. It owns the refresh-coordination state: the in-flight set
// enforcing one fetch per backend, the last-refresh timestamps backing the
// sweep rate limit, and the in-memory search mirror.
type Service struct {
	store   Store
	fetcher *Fetcher
	logger  *slog.Logger
	hub     *progressHub

	mu          sync.Mutex
	inflight    map[string]struct{}
	lastRefresh map[string]time.Time

	indexMu sync.RWMutex
	indexes map[string]*searchIndex
}

// NewService creates a cache service over a store and backend registry.
func NewService(store Store, registry *backend.Registry, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:       store,
		fetcher:     NewFetcher(registry, logger),
		logger:      logger,
		hub:         newProgressHub(),
		inflight:    make(map[string]struct{}),
		lastRefresh: make(map[string]time.Time),
		indexes:     make(map[string]*searchIndex),
	}
}

// Subscribe registers a progress callback for one backend's fetch events and
// returns an unsubscribe function.
func (s *Service) Subscribe(backendID string, fn ProgressFunc) func() {
	return s.hub.subscribe(backendID, fn)
}

// GetCache returns the stored envelope for a backend as is, stale or not,
// without consulting the network. A missing cache yields ErrNotFound.
func (s *Service) GetCache(ctx context.Context, backendID string) (*ontology.Cache, error) {
	return s.store.Get(ctx, backendID)
}

// FetchCache fetches the backend's ontology elements and replaces its stored
// envelope. At most one fetch runs per backend at a time; a concurrent call
// fails with ErrAlreadyInProgress. With force set, a disabled cache config
// is overridden.
func (s *Service) FetchCache(ctx context.Context, backendID string, force bool) (*ontology.Cache, error) {
	if !s.begin(backendID) {
		return nil, ErrAlreadyInProgress
	}
	defer s.end(backendID)

	return s.doFetch(ctx, backendID, force)
}

// doFetch runs one fetch-and-store cycle. The caller must hold the
// backend's in-flight slot.
func (s *Service) doFetch(ctx context.Context, backendID string, force bool) (*ontology.Cache, error) {
	start := time.Now()
	c, err := s.fetcher.Fetch(ctx, backendID, force, s.hub.publish)
	if err != nil {
		serviceMetrics.fetchError()
		return nil, err
	}

	if err := s.store.Put(ctx, backendID, c); err != nil {
		serviceMetrics.fetchError()
		s.hub.publish(Progress{BackendID: backendID, Status: StatusError, Message: err.Error()})
		return nil, err
	}

	s.setIndex(backendID, buildIndex(c))
	serviceMetrics.fetchOK(c.ElementCount(), time.Since(start))
	return c, nil
}

// ForceRefresh refreshes a backend regardless of its enabled flag and the
// sweep rate limit. If a refresh is already in flight the call fails
// immediately with ErrAlreadyInProgress; it is never queued.
func (s *Service) ForceRefresh(ctx context.Context, backendID string) (*ontology.Cache, error) {
	return s.FetchCache(ctx, backendID, true)
}

// ValidateCache reports whether a stored cache exists and whether its age
// has passed the TTL recorded in its metadata.
func (s *Service) ValidateCache(ctx context.Context, backendID string) (Validation, error) {
	c, err := s.store.Get(ctx, backendID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Validation{}, nil
		}
		return Validation{}, err
	}

	age := c.Metadata.Age(time.Now())
	ttl := time.Duration(c.Metadata.TTL) * time.Millisecond
	valid := age < ttl
	return Validation{
		Exists: true,
		Valid:  valid,
		Stale:  !valid,
		Age:    age,
		TTL:    ttl,
	}, nil
}

// SmartRefresh implements stale-while-revalidate. A valid cache is returned
// as is. A stale cache is returned immediately while a background fetch
// replaces the stored envelope; the caller never waits on the network. A
// missing cache is fetched synchronously.
func (s *Service) SmartRefresh(ctx context.Context, backendID string) (*ontology.Cache, error) {
	c, err := s.store.Get(ctx, backendID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return s.FetchCache(ctx, backendID, false)
		}
		return nil, err
	}

	age := c.Metadata.Age(time.Now())
	if age < time.Duration(c.Metadata.TTL)*time.Millisecond {
		return c, nil
	}

	s.refreshAsync(backendID)
	return c, nil
}

// Invalidate deletes the stored envelope and the in-memory mirror for a
// backend.
func (s *Service) Invalidate(ctx context.Context, backendID string) error {
	if err := s.store.Delete(ctx, backendID); err != nil {
		return err
	}
	s.dropIndex(backendID)
	return nil
}

// refreshAsync spawns a background fetch whose result silently replaces the
// stored envelope. The in-flight slot is claimed synchronously before the
// goroutine starts, so concurrent callers observing a stale cache spawn at
// most one fetch between them. The returned channel closes when the attempt
// finishes, success or not; SmartRefresh callers ignore it, tests join on
// it. There is no cancellation: once started, the fetch runs to completion
// or failure.
func (s *Service) refreshAsync(backendID string) <-chan struct{} {
	done := make(chan struct{})
	if !s.begin(backendID) {
		close(done)
		return done
	}
	serviceMetrics.backgroundRefresh()

	go func() {
		defer close(done)
		defer s.end(backendID)
		if _, err := s.doFetch(context.Background(), backendID, false); err != nil {
			s.logger.Warn("background refresh failed",
				slog.String("backend", backendID),
				slog.String("error", err.Error()))
		}
	}()
	return done
}

// begin claims the in-flight slot for a backend. It returns false when a
// fetch is already running.
func (s *Service) begin(backendID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, running := s.inflight[backendID]; running {
		return false
	}
	s.inflight[backendID] = struct{}{}
	return true
}

// end releases the in-flight slot and stamps the attempt time consumed by
// the sweep rate limit. Failed attempts count: the limit bounds load against
// the remote endpoint, not successful refreshes.
func (s *Service) end(backendID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, backendID)
	s.lastRefresh[backendID] = time.Now()
}

// inFlight reports whether a fetch for the backend is currently running.
func (s *Service) inFlight(backendID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, running := s.inflight[backendID]
	return running
}

// lastRefreshTime returns the zero time for backends never refreshed this
// process lifetime.
func (s *Service) lastRefreshTime(backendID string) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRefresh[backendID]
}

func (s *Service) setIndex(backendID string, idx *searchIndex) {
	s.indexMu.Lock()
	s.indexes[backendID] = idx
	s.indexMu.Unlock()
}

func (s *Service) dropIndex(backendID string) {
	s.indexMu.Lock()
	delete(s.indexes, backendID)
	s.indexMu.Unlock()
}

// index returns the in-memory mirror for a backend, loading it from the
// store on first use. Stale envelopes are served as is; staleness is a
// refresh concern, not a read-availability concern.
func (s *Service) index(ctx context.Context, backendID string) (*searchIndex, error) {
	s.indexMu.RLock()
	idx := s.indexes[backendID]
	s.indexMu.RUnlock()
	if idx != nil {
		return idx, nil
	}

	c, err := s.store.Get(ctx, backendID)
	if err != nil {
		return nil, err
	}
	idx = buildIndex(c)
	s.setIndex(backendID, idx)
	return idx, nil
}
