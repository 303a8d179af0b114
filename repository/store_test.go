package repository

import (
	"context"
	"fmt"

	"github.com/leo-park82/SMT-Management/storage"
)

// fakeStore is an in-memory TabularStore with per-table failure injection.
type fakeStore struct {
	tables     map[string][]storage.Row
	failRead   map[string]bool
	failWrite  map[string]bool
	failAppend map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tables:     make(map[string][]storage.Row),
		failRead:   make(map[string]bool),
		failWrite:  make(map[string]bool),
		failAppend: make(map[string]bool),
	}
}

func (s *fakeStore) ReadTable(ctx context.Context, name string, cols []string) ([]storage.Row, error) {
	if s.failRead[name] {
		return nil, fmt.Errorf("%w: read %s", storage.ErrStoreUnavailable, name)
	}
	rows := s.tables[name]
	out := make([]storage.Row, len(rows))
	for i, row := range rows {
		c := make(storage.Row, len(row))
		copy(c, row)
		out[i] = c
	}
	return out, nil
}

func (s *fakeStore) WriteTable(ctx context.Context, name string, rows []storage.Row) error {
	if s.failWrite[name] {
		return fmt.Errorf("%w: write %s", storage.ErrStoreUnavailable, name)
	}
	copied := make([]storage.Row, len(rows))
	for i, row := range rows {
		c := make(storage.Row, len(row))
		copy(c, row)
		copied[i] = c
	}
	s.tables[name] = copied
	return nil
}

func (s *fakeStore) AppendRow(ctx context.Context, name string, row storage.Row) error {
	return s.AppendRows(ctx, name, []storage.Row{row})
}

func (s *fakeStore) AppendRows(ctx context.Context, name string, rows []storage.Row) error {
	if s.failAppend[name] {
		return fmt.Errorf("%w: append %s", storage.ErrStoreUnavailable, name)
	}
	for _, row := range rows {
		c := make(storage.Row, len(row))
		copy(c, row)
		s.tables[name] = append(s.tables[name], c)
	}
	return nil
}
