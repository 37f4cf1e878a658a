// Package service wires the fetcher, normalizer, aggregator, and cache
// into the running dashboard backend: a periodic refresh loop plus an
// on-demand trigger, publishing snapshots for the HTTP layer to serve.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nxscrypto/bayview-dashboard/internal/adapters/fetch"
	"github.com/nxscrypto/bayview-dashboard/internal/adapters/repository"
	"github.com/nxscrypto/bayview-dashboard/internal/domain/aggregate"
	"github.com/nxscrypto/bayview-dashboard/internal/domain/types"
	"github.com/nxscrypto/bayview-dashboard/pkg/logger"
	"github.com/nxscrypto/bayview-dashboard/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultRefreshInterval = 15 * time.Minute
	defaultCycleTimeout    = 60 * time.Second
	snapshotAgeInterval    = 10 * time.Second
)

// Service owns the refresh lifecycle and the published snapshot cache.
type Service struct {
	logger          logger.Logger
	fetcher         fetch.Fetcher
	cache           *repository.Cache
	refresher       *refresher
	leadURL         string
	rentalURL       string
	refreshInterval time.Duration
	cycleTimeout    time.Duration
	aggregateOpts   []aggregate.Option

	stopCh  chan struct{}
	wg      sync.WaitGroup
	started bool
	mu      sync.Mutex
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets the logger used by the service and its components.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithFetcher replaces the CSV fetcher. Used by tests to avoid the network.
func WithFetcher(f fetch.Fetcher) Option {
	return func(s *Service) {
		if f != nil {
			s.fetcher = f
		}
	}
}

// WithSources sets the lead and rental CSV export URLs.
func WithSources(leadURL, rentalURL string) Option {
	return func(s *Service) {
		s.leadURL = leadURL
		s.rentalURL = rentalURL
	}
}

// WithRefreshInterval sets how often the background refresh runs.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.refreshInterval = d
		}
	}
}

// WithCycleTimeout bounds one full refresh cycle (both fetches).
func WithCycleTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.cycleTimeout = d
		}
	}
}

// WithAggregateOptions forwards options to the metric builder, e.g.
// forecast multipliers from configuration.
func WithAggregateOptions(opts ...aggregate.Option) Option {
	return func(s *Service) {
		s.aggregateOpts = append(s.aggregateOpts, opts...)
	}
}

// New creates a Service with configuration options. Call Start to begin
// refreshing.
func New(opts ...Option) *Service {
	s := &Service{
		logger:          logger.Get().Named("service"),
		cache:           repository.NewCache(),
		refreshInterval: defaultRefreshInterval,
		cycleTimeout:    defaultCycleTimeout,
		stopCh:          make(chan struct{}),
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	if s.fetcher == nil {
		s.fetcher = fetch.NewClient()
	}
	return s
}

// Start validates configuration, kicks off an initial refresh in the
// background, and launches the periodic refresh loop. Serving starts
// immediately; until the first cycle completes, reads return ErrNotReady.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return ErrAlreadyStarted
	}
	if s.leadURL == "" || s.rentalURL == "" {
		return fmt.Errorf("%w: lead and rental CSV URLs are required", ErrNoSources)
	}

	builder := aggregate.NewBuilder(s.aggregateOpts...)
	s.refresher = newRefresher(s.fetcher, builder, s.cache,
		s.leadURL, s.rentalURL, s.cycleTimeout, s.logger.Named("refresh"))
	s.started = true

	s.logger.Info(ctx, "service starting",
		logger.Duration("refresh_interval", s.refreshInterval),
		logger.Duration("cycle_timeout", s.cycleTimeout),
	)

	// First cycle runs in the background so startup is not blocked on the
	// sheet host.
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.refresher.Refresh(context.Background())
	}()

	s.wg.Add(1)
	go s.runPeriodicRefresh()

	s.wg.Add(1)
	go s.runAgeUpdater()

	return nil
}

// Stop halts the background loops and waits for any in-flight cycle.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()
	s.logger.Info(context.Background(), "service stopped")
}

// runPeriodicRefresh triggers a refresh every refreshInterval until Stop.
func (s *Service) runPeriodicRefresh() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.refresher.Refresh(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// runAgeUpdater keeps the snapshot-age gauge current between refreshes.
func (s *Service) runAgeUpdater() {
	defer s.wg.Done()

	ticker := time.NewTicker(snapshotAgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if entry, err := s.cache.Get(); err == nil {
				metrics.UpdateSnapshotAge(time.Since(entry.RefreshedAt))
			}
		case <-s.stopCh:
			return
		}
	}
}

// Snapshot returns the current metrics snapshot, or ErrNotReady before
// the first successful refresh.
func (s *Service) Snapshot() (types.Snapshot, time.Time, error) {
	entry, err := s.cache.Get()
	if err != nil {
		return types.Snapshot{}, time.Time{}, err
	}
	return entry.Snapshot, entry.RefreshedAt, nil
}

// Status reports the refresh pipeline's current state and row counts.
func (s *Service) Status() types.Status {
	return s.cache.Status()
}

// TriggerRefresh starts a refresh cycle in the background. Returns false
// when a cycle was already running and the trigger was coalesced.
func (s *Service) TriggerRefresh() bool {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return false
	}
	r := s.refresher
	s.mu.Unlock()

	return r.TriggerAsync(&s.wg)
}
