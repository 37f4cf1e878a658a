// Package repository holds the in-memory snapshot state served to readers.
package repository

import (
	"sync/atomic"
	"time"

	"github.com/nxscrypto/bayview-dashboard/internal/domain/types"
)

// Entry is one published snapshot plus its refresh metadata. Entries are
// immutable after publication.
type Entry struct {
	Snapshot    types.Snapshot
	Status      types.Status
	RefreshedAt time.Time
}

// Cache holds at most one snapshot entry. Readers never block and never
// observe a partially written entry: replacement swaps an atomic pointer.
// The refresh coordinator is the only writer.
type Cache struct {
	current atomic.Pointer[Entry]
	status  atomic.Pointer[types.Status]
}

// NewCache constructs an empty cache. Get returns ErrNotReady until the
// first Replace, which keeps the cold-start state distinguishable from an
// empty-but-valid snapshot.
func NewCache() *Cache {
	return &Cache{}
}

// Get returns the current entry without blocking.
func (c *Cache) Get() (*Entry, error) {
	e := c.current.Load()
	if e == nil {
		return nil, ErrNotReady
	}
	return e, nil
}

// Replace atomically publishes a new entry. Called exclusively by the
// refresh coordinator after a successful aggregation.
func (c *Cache) Replace(snapshot types.Snapshot, status types.Status, refreshedAt time.Time) {
	e := &Entry{
		Snapshot:    snapshot,
		Status:      status,
		RefreshedAt: refreshedAt,
	}
	c.current.Store(e)
	c.status.Store(&status)
}

// SetStatus records refresh status without touching the snapshot. Failed
// cycles use this so readers keep the previous data while the status
// endpoint reflects the failure.
func (c *Cache) SetStatus(status types.Status) {
	c.status.Store(&status)
}

// Status returns the most recent refresh status. Before any refresh has
// run it reports the idle state.
func (c *Cache) Status() types.Status {
	if s := c.status.Load(); s != nil {
		return *s
	}
	return types.Status{State: types.StateIdle}
}
