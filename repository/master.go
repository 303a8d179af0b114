package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/leo-park82/SMT-Management/models"
	"github.com/leo-park82/SMT-Management/storage"
)

// MasterRepository serves the reference tables: item codes and the
// equipment list. Master data is edited whole-table by an administrator,
// so writes are full replacements.
type MasterRepository struct {
	store storage.TabularStore
}

func NewMasterRepository(store storage.TabularStore) *MasterRepository {
	return &MasterRepository{store: store}
}

// Items returns the item_codes master table.
func (r *MasterRepository) Items(ctx context.Context) ([]models.Item, error) {
	rows, err := r.store.ReadTable(ctx, storage.TableItems, storage.ColsItems)
	if err != nil {
		return nil, err
	}
	items := make([]models.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, models.Item{ItemCode: row[0], ItemName: row[1]})
	}
	return items, nil
}

// GetItem looks up one item code, case-insensitively like the entry form.
func (r *MasterRepository) GetItem(ctx context.Context, itemCode string) (models.Item, error) {
	items, err := r.Items(ctx)
	if err != nil {
		return models.Item{}, err
	}
	want := strings.ToUpper(strings.TrimSpace(itemCode))
	for _, item := range items {
		if strings.ToUpper(item.ItemCode) == want {
			return item, nil
		}
	}
	return models.Item{}, fmt.Errorf("%w: item %s", ErrNotFound, itemCode)
}

// ReplaceItems overwrites the item master.
func (r *MasterRepository) ReplaceItems(ctx context.Context, items []models.Item) error {
	rows := make([]storage.Row, len(items))
	for i, item := range items {
		rows[i] = storage.Row{item.ItemCode, item.ItemName}
	}
	return r.store.WriteTable(ctx, storage.TableItems, rows)
}

// Equipment returns the equipment_list master table.
func (r *MasterRepository) Equipment(ctx context.Context) ([]models.Equipment, error) {
	rows, err := r.store.ReadTable(ctx, storage.TableEquipment, storage.ColsEquipment)
	if err != nil {
		return nil, err
	}
	equipment := make([]models.Equipment, 0, len(rows))
	for _, row := range rows {
		equipment = append(equipment, models.Equipment{ID: row[0], Name: row[1], Function: row[2]})
	}
	return equipment, nil
}

// GetEquipment looks up one equipment ID.
func (r *MasterRepository) GetEquipment(ctx context.Context, id string) (models.Equipment, error) {
	equipment, err := r.Equipment(ctx)
	if err != nil {
		return models.Equipment{}, err
	}
	for _, eq := range equipment {
		if eq.ID == id {
			return eq, nil
		}
	}
	return models.Equipment{}, fmt.Errorf("%w: equipment %s", ErrNotFound, id)
}

// ReplaceEquipment overwrites the equipment master.
func (r *MasterRepository) ReplaceEquipment(ctx context.Context, equipment []models.Equipment) error {
	rows := make([]storage.Row, len(equipment))
	for i, eq := range equipment {
		rows[i] = storage.Row{eq.ID, eq.Name, eq.Function}
	}
	return r.store.WriteTable(ctx, storage.TableEquipment, rows)
}
