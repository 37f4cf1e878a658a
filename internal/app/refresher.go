package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nxscrypto/bayview-dashboard/internal/adapters/fetch"
	"github.com/nxscrypto/bayview-dashboard/internal/adapters/repository"
	"github.com/nxscrypto/bayview-dashboard/internal/domain/aggregate"
	"github.com/nxscrypto/bayview-dashboard/internal/domain/normalize"
	"github.com/nxscrypto/bayview-dashboard/internal/domain/types"
	"github.com/nxscrypto/bayview-dashboard/pkg/logger"
	"github.com/nxscrypto/bayview-dashboard/pkg/metrics"
)

// refresher drives one fetch -> normalize -> aggregate -> replace cycle.
// At most one cycle runs at a time; concurrent triggers are coalesced into
// a no-op rather than queued.
type refresher struct {
	fetcher   fetch.Fetcher
	builder   *aggregate.Builder
	cache     *repository.Cache
	leadURL   string
	rentalURL string
	timeout   time.Duration
	logger    logger.Logger

	mu       sync.Mutex
	inFlight bool
}

func newRefresher(fetcher fetch.Fetcher, builder *aggregate.Builder, cache *repository.Cache,
	leadURL, rentalURL string, timeout time.Duration, log logger.Logger) *refresher {
	return &refresher{
		fetcher:   fetcher,
		builder:   builder,
		cache:     cache,
		leadURL:   leadURL,
		rentalURL: rentalURL,
		timeout:   timeout,
		logger:    log,
	}
}

// tryBegin claims the in-flight slot. Returns false when a cycle is
// already running.
func (r *refresher) tryBegin() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inFlight {
		return false
	}
	r.inFlight = true
	return true
}

// end releases the in-flight slot at the close of a cycle.
func (r *refresher) end() {
	r.mu.Lock()
	r.inFlight = false
	r.mu.Unlock()
}

// fetchResult carries one source's rows back from its fetch goroutine.
type fetchResult struct {
	name string
	rows [][]string
	err  error
}

// Refresh runs one cycle. Returns false when a cycle was already in
// flight and this trigger was coalesced. A failed cycle leaves the cached
// snapshot untouched; readers keep seeing the previous data.
func (r *refresher) Refresh(ctx context.Context) bool {
	if !r.tryBegin() {
		metrics.RecordRefreshSkipped()
		r.logger.Debug(ctx, "refresh already in flight, trigger coalesced")
		return false
	}
	r.run(ctx)
	return true
}

// TriggerAsync claims the cycle slot and runs the cycle in a goroutine
// tracked by wg. Returns false when a cycle was already in flight.
func (r *refresher) TriggerAsync(wg *sync.WaitGroup) bool {
	if !r.tryBegin() {
		metrics.RecordRefreshSkipped()
		return false
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		r.run(context.Background())
	}()
	return true
}

// run executes one cycle. The caller must hold the in-flight slot.
func (r *refresher) run(ctx context.Context) {
	start := time.Now()
	cycleID := uuid.NewString()
	metrics.RecordRefreshStarted()
	defer metrics.RecordRefreshDuration(time.Since(start))

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	r.logger.Info(ctx, "refresh cycle started", logger.String("cycle_id", cycleID))

	// Carry forward the last known counts so a failed cycle still reports
	// what the current snapshot was built from.
	status := r.cache.Status()
	status.CycleID = cycleID

	status.State = types.StateFetching
	r.cache.SetStatus(status)

	// The two sources are independent; fetch them concurrently.
	results := make(chan fetchResult, 2)
	go func() {
		rows, err := r.fetcher.Fetch(ctx, r.leadURL)
		results <- fetchResult{name: "leads", rows: rows, err: err}
	}()
	go func() {
		rows, err := r.fetcher.Fetch(ctx, r.rentalURL)
		results <- fetchResult{name: "rentals", rows: rows, err: err}
	}()

	var leadRows, rentalRows [][]string
	for i := 0; i < 2; i++ {
		res := <-results
		if res.err != nil {
			r.fail(ctx, status, res.name, res.err)
			return
		}
		if res.name == "leads" {
			leadRows = res.rows
		} else {
			rentalRows = res.rows
		}
	}

	status.State = types.StateAggregating
	r.cache.SetStatus(status)

	leads, leadsSkipped := normalize.Leads(leadRows)
	rentals, rentalsSkipped := normalize.Rentals(rentalRows)
	metrics.UpdateRowCounts("leads", len(leads), leadsSkipped)
	metrics.UpdateRowCounts("rentals", len(rentals), rentalsSkipped)

	snapshot := r.builder.Build(leads, rentals)

	now := time.Now().UTC()
	status = types.Status{
		State:        types.StateDone,
		CycleID:      cycleID,
		LastRefresh:  now,
		LeadRows:     len(leads),
		RentalRows:   len(rentals),
		LeadsSkipped: leadsSkipped,
		RentalsSkip:  rentalsSkipped,
	}
	r.cache.Replace(snapshot, status, now)
	metrics.UpdateSnapshotRefreshed(now)

	r.end()
	r.logger.Info(ctx, "refresh cycle complete",
		logger.String("cycle_id", cycleID),
		logger.Int("leads", len(leads)),
		logger.Int("leads_skipped", leadsSkipped),
		logger.Int("rentals", len(rentals)),
		logger.Int("rentals_skipped", rentalsSkipped),
		logger.Duration("took", time.Since(start)),
	)
}

// fail records a failed cycle. The previous snapshot stays in place so the
// dashboard serves stale data rather than an error.
func (r *refresher) fail(ctx context.Context, status types.Status, source string, err error) {
	metrics.RecordRefreshFailed()
	status.State = types.StateFailed
	status.LastError = err.Error()
	r.cache.SetStatus(status)
	r.end()
	r.logger.Error(ctx, "refresh cycle failed, keeping previous snapshot",
		logger.String("cycle_id", status.CycleID),
		logger.String("source", source),
		logger.Error(err),
	)
}
