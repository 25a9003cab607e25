package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/sparqldesk/sparqldesk/backend"
)

// Sweep defaults. The rate limit is independent of each cache's TTL; it
// bounds load against slow or rate-limited remote endpoints.
const (
	DefaultSweepInterval = 5 * time.Minute
	DefaultRateLimit     = 10 * time.Minute
)

// Sweeper periodically walks every cache-enabled backend and triggers a
// non-blocking refresh for the stale ones. One backend's failure never
// aborts the sweep for the others.
type Sweeper struct {
	service   *Service
	registry  *backend.Registry
	logger    *slog.Logger
	interval  time.Duration
	rateLimit time.Duration
	schedule  cron.Schedule
}

// SweeperOption configures a Sweeper.
type SweeperOption func(*Sweeper)

// WithInterval sets the fixed sweep interval.
func WithInterval(d time.Duration) SweeperOption {
	return func(s *Sweeper) { s.interval = d }
}

// WithRateLimit sets the per-backend minimum time between refresh attempts.
func WithRateLimit(d time.Duration) SweeperOption {
	return func(s *Sweeper) { s.rateLimit = d }
}

// WithSchedule drives sweeps from a cron schedule instead of a fixed
// interval.
func WithSchedule(sched cron.Schedule) SweeperOption {
	return func(s *Sweeper) { s.schedule = sched }
}

// ParseSchedule parses a standard five-field cron expression for
// WithSchedule.
func ParseSchedule(expr string) (cron.Schedule, error) {
	return cron.ParseStandard(expr)
}

// NewSweeper creates a Sweeper with the default interval and rate limit.
func NewSweeper(service *Service, registry *backend.Registry, logger *slog.Logger, opts ...SweeperOption) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Sweeper{
		service:   service,
		registry:  registry,
		logger:    logger,
		interval:  DefaultSweepInterval,
		rateLimit: DefaultRateLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run sweeps until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	if s.schedule != nil {
		s.runScheduled(ctx)
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("cache sweeper stopping")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

func (s *Sweeper) runScheduled(ctx context.Context) {
	for {
		next := s.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Debug("cache sweeper stopping")
			return
		case <-timer.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one pass over all registered backends. Exported so the CLI can
// trigger an immediate pass.
func (s *Sweeper) Sweep(ctx context.Context) {
	for _, id := range s.registry.IDs() {
		s.sweepBackend(ctx, id)
	}
}

func (s *Sweeper) sweepBackend(ctx context.Context, backendID string) {
	b, err := s.registry.Get(backendID)
	if err != nil || !b.Config.Cache.Enabled {
		return
	}

	if s.service.inFlight(backendID) {
		serviceMetrics.sweepSkipInFlight()
		s.logger.Debug("sweep skip: refresh in flight", slog.String("backend", backendID))
		return
	}

	if since := time.Since(s.service.lastRefreshTime(backendID)); since < s.rateLimit {
		serviceMetrics.sweepSkipRateLimited()
		s.logger.Debug("sweep skip: rate limited",
			slog.String("backend", backendID),
			slog.Duration("since_last", since))
		return
	}

	v, err := s.service.ValidateCache(ctx, backendID)
	if err != nil {
		s.logger.Warn("sweep validate failed",
			slog.String("backend", backendID),
			slog.String("error", err.Error()))
		return
	}
	if !v.Stale {
		return
	}

	// SmartRefresh on a stale cache returns immediately and refreshes in the
	// background; the sweep never blocks on network I/O.
	if _, err := s.service.SmartRefresh(ctx, backendID); err != nil {
		s.logger.Warn("sweep refresh failed",
			slog.String("backend", backendID),
			slog.String("error", err.Error()))
	}
}
