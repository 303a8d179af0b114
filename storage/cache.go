package storage

import (
	"context"
	"sync"
	"time"
)

// CachedStore wraps a backend with a short time-boxed read cache. Every
// write to a table drops that table's cached rows; without that, readers
// would see stale data for the cache's lifetime.
type CachedStore struct {
	inner TabularStore
	ttl   time.Duration

	mu     sync.Mutex
	tables map[string]cacheEntry
}

type cacheEntry struct {
	rows      []Row
	fetchedAt time.Time
}

// NewCachedStore wraps inner with a ttl-bounded read cache.
func NewCachedStore(inner TabularStore, ttl time.Duration) *CachedStore {
	return &CachedStore{
		inner:  inner,
		ttl:    ttl,
		tables: make(map[string]cacheEntry),
	}
}

func (s *CachedStore) ReadTable(ctx context.Context, name string, cols []string) ([]Row, error) {
	s.mu.Lock()
	if entry, ok := s.tables[name]; ok && time.Since(entry.fetchedAt) < s.ttl {
		rows := cloneRows(entry.rows)
		s.mu.Unlock()
		return rows, nil
	}
	s.mu.Unlock()

	rows, err := s.inner.ReadTable(ctx, name, cols)
	if err != nil {
		// Failures are never cached; the next read retries the backend.
		return nil, err
	}

	s.mu.Lock()
	s.tables[name] = cacheEntry{rows: cloneRows(rows), fetchedAt: time.Now()}
	s.mu.Unlock()
	return rows, nil
}

func (s *CachedStore) WriteTable(ctx context.Context, name string, rows []Row) error {
	if err := s.inner.WriteTable(ctx, name, rows); err != nil {
		return err
	}
	s.Invalidate(name)
	return nil
}

func (s *CachedStore) AppendRow(ctx context.Context, name string, row Row) error {
	if err := s.inner.AppendRow(ctx, name, row); err != nil {
		return err
	}
	s.Invalidate(name)
	return nil
}

func (s *CachedStore) AppendRows(ctx context.Context, name string, rows []Row) error {
	if err := s.inner.AppendRows(ctx, name, rows); err != nil {
		return err
	}
	s.Invalidate(name)
	return nil
}

// Invalidate drops the cached rows for one table.
func (s *CachedStore) Invalidate(name string) {
	s.mu.Lock()
	delete(s.tables, name)
	s.mu.Unlock()
}

// Flush drops every cached table. The daily cron calls this so long-lived
// processes pick up out-of-band spreadsheet edits at least once a day.
func (s *CachedStore) Flush() {
	s.mu.Lock()
	s.tables = make(map[string]cacheEntry)
	s.mu.Unlock()
}
