package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/leo-park82/SMT-Management/models"
	"github.com/leo-park82/SMT-Management/storage"
	"github.com/leo-park82/SMT-Management/utils"
)

// InventoryRepository maintains the running-balance table and its
// append-only ledger.
type InventoryRepository struct {
	store storage.TabularStore
}

func NewInventoryRepository(store storage.TabularStore) *InventoryRepository {
	return &InventoryRepository{store: store}
}

// ApplyDelta adds a signed quantity to an item's balance and appends one
// ledger entry recording the change. An absent item starts from balance 0
// and gets a row created. There is no floor: a delta may drive the balance
// negative. When the ledger append fails after the balance was written, the
// balance write is rolled back so the two tables cannot silently diverge.
func (r *InventoryRepository) ApplyDelta(ctx context.Context, itemCode, itemName string, delta int, reason, actor string) (models.InventoryItem, error) {
	rows, err := r.store.ReadTable(ctx, storage.TableInventory, storage.ColsInventory)
	if err != nil {
		return models.InventoryItem{}, err
	}
	previous := cloneTable(rows)

	idx := -1
	for i, row := range rows {
		if row[0] == itemCode {
			idx = i
			break
		}
	}

	var item models.InventoryItem
	if idx >= 0 {
		item = inventoryItemFromRow(rows[idx])
		if itemName != "" {
			item.ItemName = itemName
		}
		item.CurrentBalance += delta
		rows[idx] = rowFromInventoryItem(item)
	} else {
		item = models.InventoryItem{ItemCode: itemCode, ItemName: itemName, CurrentBalance: delta}
		rows = append(rows, rowFromInventoryItem(item))
	}

	if err := r.store.WriteTable(ctx, storage.TableInventory, rows); err != nil {
		return models.InventoryItem{}, err
	}

	now := utils.NowKST()
	direction := models.DirectionOut
	if delta > 0 {
		direction = models.DirectionIn
	}
	quantity := delta
	if quantity < 0 {
		quantity = -quantity
	}
	entry := models.InventoryLedgerEntry{
		Date:       now.Format(utils.DateLayout),
		ItemCode:   itemCode,
		Direction:  direction,
		Quantity:   quantity,
		Note:       reason,
		Author:     actor,
		RecordedAt: now,
	}
	if err := r.store.AppendRow(ctx, storage.TableInventoryHistory, rowFromLedgerEntry(entry)); err != nil {
		// Restore the balance table; a balance without its audit entry is
		// worse than a rejected adjustment.
		if rbErr := r.store.WriteTable(ctx, storage.TableInventory, previous); rbErr != nil {
			return models.InventoryItem{}, fmt.Errorf("ledger append failed (%v) and balance rollback failed: %w", err, rbErr)
		}
		return models.InventoryItem{}, fmt.Errorf("ledger append failed, balance rolled back: %w", err)
	}
	return item, nil
}

// ActiveItems returns the active inventory view: rows whose balance is
// nonzero. Zero-balance rows stay in the table but are Dormant.
func (r *InventoryRepository) ActiveItems(ctx context.Context) ([]models.InventoryItem, error) {
	rows, err := r.store.ReadTable(ctx, storage.TableInventory, storage.ColsInventory)
	if err != nil {
		return nil, err
	}
	items := make([]models.InventoryItem, 0, len(rows))
	for _, row := range rows {
		item := inventoryItemFromRow(row)
		if item.CurrentBalance != 0 {
			items = append(items, item)
		}
	}
	return items, nil
}

// History returns ledger entries, newest first. Empty itemCode means all
// items.
func (r *InventoryRepository) History(ctx context.Context, itemCode string) ([]models.InventoryLedgerEntry, error) {
	rows, err := r.store.ReadTable(ctx, storage.TableInventoryHistory, storage.ColsInvHistory)
	if err != nil {
		return nil, err
	}
	entries := make([]models.InventoryLedgerEntry, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		entry := ledgerEntryFromRow(rows[i])
		if itemCode == "" || entry.ItemCode == itemCode {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// RemoveItem drops an item row from the balance table. The ledger history
// is untouched; this is the admin cleanup of stale rows, not an undo.
func (r *InventoryRepository) RemoveItem(ctx context.Context, itemCode string) error {
	rows, err := r.store.ReadTable(ctx, storage.TableInventory, storage.ColsInventory)
	if err != nil {
		return err
	}
	kept := rows[:0]
	found := false
	for _, row := range rows {
		if row[0] == itemCode {
			found = true
			continue
		}
		kept = append(kept, row)
	}
	if !found {
		return fmt.Errorf("%w: item %s", ErrNotFound, itemCode)
	}
	return r.store.WriteTable(ctx, storage.TableInventory, kept)
}

func cloneTable(rows []storage.Row) []storage.Row {
	out := make([]storage.Row, len(rows))
	for i, row := range rows {
		c := make(storage.Row, len(row))
		copy(c, row)
		out[i] = c
	}
	return out
}

func inventoryItemFromRow(row storage.Row) models.InventoryItem {
	return models.InventoryItem{
		ItemCode:       row[0],
		ItemName:       row[1],
		CurrentBalance: utils.ParseIntSafe(row[2]),
	}
}

func rowFromInventoryItem(item models.InventoryItem) storage.Row {
	return storage.Row{item.ItemCode, item.ItemName, strconv.Itoa(item.CurrentBalance)}
}

func ledgerEntryFromRow(row storage.Row) models.InventoryLedgerEntry {
	return models.InventoryLedgerEntry{
		Date:       row[0],
		ItemCode:   row[1],
		Direction:  row[2],
		Quantity:   utils.ParseIntSafe(row[3]),
		Note:       row[4],
		Author:     row[5],
		RecordedAt: utils.ParseTime(row[6]),
	}
}

func rowFromLedgerEntry(e models.InventoryLedgerEntry) storage.Row {
	return storage.Row{
		e.Date, e.ItemCode, e.Direction, strconv.Itoa(e.Quantity),
		e.Note, e.Author, utils.FormatTime(e.RecordedAt),
	}
}
