package index

import (
	"errors"
	"fmt"
	"sync"

	"github.com/kailas-cloud/docsearch/internal/domain"
)

// SnapshotStore persists serialized indexes by collection name.
type SnapshotStore interface {
	Save(name string, ix *Index) error
	// Load returns domain.ErrNotFound when no snapshot exists yet.
	Load(name string) (*Index, error)
}

// Collection is a named, process-wide index reference. All mutations hold
// the write lock for the full mutate-then-persist critical section, so a
// crash can leave at most the on-disk snapshot stale, never torn. Searches
// and enumeration run under the read lock.
type Collection struct {
	name  string
	store SnapshotStore

	mu sync.RWMutex
	ix *Index
}

// Open loads the persisted snapshot for name, or creates and persists an
// empty index when none exists. Safe to call repeatedly: reopening never
// grows the index.
func Open(name string, store SnapshotStore) (*Collection, error) {
	ix, err := store.Load(name)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		ix = New()
		if err := store.Save(name, ix); err != nil {
			return nil, fmt.Errorf("persist empty index %q: %w", name, err)
		}
	case err != nil:
		return nil, fmt.Errorf("load index %q: %w", name, err)
	}

	return &Collection{name: name, store: store, ix: ix}, nil
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

// Add appends records and persists the updated snapshot.
func (c *Collection) Add(records ...Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ix.Add(records...)
	if err := c.store.Save(c.name, c.ix); err != nil {
		return fmt.Errorf("save snapshot %q: %w", c.name, err)
	}
	return nil
}

// Search returns up to k records ranked by similarity to vector.
func (c *Collection) Search(vector []float32, k int) []Hit {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ix.Search(vector, k)
}

// Records enumerates all records in the collection.
func (c *Collection) Records() []Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ix.Records()
}

// Len returns the number of indexed records.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ix.Len()
}

// RebuildExcluding builds a fresh index from all records that do NOT match
// drop, swaps the collection's index reference, and persists the result.
// The swap happens under the same lock used by Add and Search, so an
// in-flight add can never land on a discarded index. Returns the number of
// records removed.
func (c *Collection) RebuildExcluding(drop func(Record) bool) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := New()
	removed := 0
	for _, r := range c.ix.Records() {
		if drop(r) {
			removed++
			continue
		}
		next.Add(r)
	}

	if err := c.store.Save(c.name, next); err != nil {
		return 0, fmt.Errorf("save snapshot %q: %w", c.name, err)
	}
	c.ix = next
	return removed, nil
}
