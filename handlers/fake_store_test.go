package handlers

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/leo-park82/SMT-Management/models"
	"github.com/leo-park82/SMT-Management/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memStore is a minimal in-memory TabularStore for handler tests.
type memStore struct {
	tables   map[string][]storage.Row
	failRead map[string]bool
}

func newMemStore() *memStore {
	return &memStore{
		tables:   make(map[string][]storage.Row),
		failRead: make(map[string]bool),
	}
}

func (s *memStore) ReadTable(ctx context.Context, name string, cols []string) ([]storage.Row, error) {
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

func (s *memStore) WriteTable(ctx context.Context, name string, rows []storage.Row) error {
	copied := make([]storage.Row, len(rows))
	for i, row := range rows {
		c := make(storage.Row, len(row))
		copy(c, row)
		copied[i] = c
	}
	s.tables[name] = copied
	return nil
}

func (s *memStore) AppendRow(ctx context.Context, name string, row storage.Row) error {
	return s.AppendRows(ctx, name, []storage.Row{row})
}

func (s *memStore) AppendRows(ctx context.Context, name string, rows []storage.Row) error {
	for _, row := range rows {
		c := make(storage.Row, len(row))
		copy(c, row)
		s.tables[name] = append(s.tables[name], c)
	}
	return nil
}

// asActor attaches a fixed identity the way the auth middleware does.
func asActor(actor models.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ActorContextKey, actor)
		c.Next()
	}
}
