package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leo-park82/SMT-Management/models"
	"github.com/leo-park82/SMT-Management/storage"
)

func TestApplyDeltaCreatesAndAccumulates(t *testing.T) {
	store := newFakeStore()
	repo := NewInventoryRepository(store)
	ctx := context.Background()

	item, err := repo.ApplyDelta(ctx, "A001", "WidgetA", 100, "initial stock", "admin")
	require.NoError(t, err)
	assert.Equal(t, 100, item.CurrentBalance)

	item, err = repo.ApplyDelta(ctx, "A001", "", -30, "consumed", "worker1")
	require.NoError(t, err)
	assert.Equal(t, 70, item.CurrentBalance)
	assert.Equal(t, "WidgetA", item.ItemName, "name survives an empty-name adjustment")

	history, err := repo.History(ctx, "A001")
	require.NoError(t, err)
	require.Len(t, history, 2)

	// Newest first; direction follows the delta sign, quantity is absolute
	assert.Equal(t, models.DirectionOut, history[0].Direction)
	assert.Equal(t, 30, history[0].Quantity)
	assert.Equal(t, "consumed", history[0].Note)
	assert.Equal(t, models.DirectionIn, history[1].Direction)
	assert.Equal(t, 100, history[1].Quantity)

	// Balance equals the signed sum of every ledger delta
	sum := 0
	for _, e := range history {
		if e.Direction == models.DirectionIn {
			sum += e.Quantity
		} else {
			sum -= e.Quantity
		}
	}
	assert.Equal(t, item.CurrentBalance, sum)
}

func TestApplyDeltaAllowsNegativeBalance(t *testing.T) {
	store := newFakeStore()
	repo := NewInventoryRepository(store)

	item, err := repo.ApplyDelta(context.Background(), "B002", "WidgetB", -5, "count correction", "admin")
	require.NoError(t, err)
	assert.Equal(t, -5, item.CurrentBalance)

	// Negative balances are still active
	items, err := repo.ActiveItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, -5, items[0].CurrentBalance)
}

func TestActiveItemsHidesZeroBalance(t *testing.T) {
	store := newFakeStore()
	repo := NewInventoryRepository(store)
	ctx := context.Background()

	_, err := repo.ApplyDelta(ctx, "A001", "WidgetA", 50, "in", "admin")
	require.NoError(t, err)
	_, err = repo.ApplyDelta(ctx, "A001", "", -50, "out", "admin")
	require.NoError(t, err)
	_, err = repo.ApplyDelta(ctx, "B002", "WidgetB", 10, "in", "admin")
	require.NoError(t, err)

	items, err := repo.ActiveItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "B002", items[0].ItemCode)

	// The zero-balance row is hidden, not deleted
	rows, err := store.ReadTable(ctx, storage.TableInventory, storage.ColsInventory)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	// History survives in full
	history, err := repo.History(ctx, "")
	require.NoError(t, err)
	assert.Len(t, history, 3)
}

func TestApplyDeltaRollsBackOnLedgerFailure(t *testing.T) {
	store := newFakeStore()
	repo := NewInventoryRepository(store)
	ctx := context.Background()

	_, err := repo.ApplyDelta(ctx, "A001", "WidgetA", 100, "in", "admin")
	require.NoError(t, err)

	store.failAppend[storage.TableInventoryHistory] = true
	_, err = repo.ApplyDelta(ctx, "A001", "", -30, "out", "admin")
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrStoreUnavailable)

	// The balance write was rolled back
	store.failAppend[storage.TableInventoryHistory] = false
	items, err := repo.ActiveItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 100, items[0].CurrentBalance)

	history, err := repo.History(ctx, "")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestRemoveItem(t *testing.T) {
	store := newFakeStore()
	repo := NewInventoryRepository(store)
	ctx := context.Background()

	_, err := repo.ApplyDelta(ctx, "A001", "WidgetA", 10, "in", "admin")
	require.NoError(t, err)

	require.NoError(t, repo.RemoveItem(ctx, "A001"))

	items, err := repo.ActiveItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	// Ledger untouched
	history, err := repo.History(ctx, "A001")
	require.NoError(t, err)
	assert.Len(t, history, 1)

	err = repo.RemoveItem(ctx, "A001")
	assert.ErrorIs(t, err, ErrNotFound)
}
