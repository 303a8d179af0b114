package utils

import (
	"context"
	"time"
)

// DefaultStoreTimeout bounds ordinary table reads and writes.
const DefaultStoreTimeout = 30 * time.Second

// SlowStoreTimeout is for report generation paths that read several tables.
const SlowStoreTimeout = 60 * time.Second

// GetStoreContext returns a context with timeout for tabular store calls.
// If parent context is provided, it uses that; otherwise creates a
// background context.
func GetStoreContext(parentCtx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	return context.WithTimeout(parentCtx, timeout)
}

// GetDefaultStoreContext returns a context with the default timeout.
func GetDefaultStoreContext(parentCtx context.Context) (context.Context, context.CancelFunc) {
	return GetStoreContext(parentCtx, DefaultStoreTimeout)
}

// GetSlowStoreContext returns a context with the report timeout.
func GetSlowStoreContext(parentCtx context.Context) (context.Context, context.CancelFunc) {
	return GetStoreContext(parentCtx, SlowStoreTimeout)
}
