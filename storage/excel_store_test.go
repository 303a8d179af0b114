package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExcelStore(t *testing.T) *ExcelStore {
	t.Helper()
	return NewExcelStore(filepath.Join(t.TempDir(), "test_db.xlsx"))
}

func TestExcelStoreCreatesTableOnFirstRead(t *testing.T) {
	store := newTestExcelStore(t)

	rows, err := store.ReadTable(context.Background(), TableItems, ColsItems)
	require.NoError(t, err)
	assert.Empty(t, rows)

	// The workbook now exists and the table is still empty
	rows, err = store.ReadTable(context.Background(), TableItems, ColsItems)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestExcelStoreAppendAndRead(t *testing.T) {
	store := newTestExcelStore(t)
	ctx := context.Background()

	require.NoError(t, store.AppendRow(ctx, TableItems, Row{"A001", "WidgetA"}))
	require.NoError(t, store.AppendRows(ctx, TableItems, []Row{
		{"B002", "WidgetB"},
		{"C003", "WidgetC"},
	}))

	rows, err := store.ReadTable(ctx, TableItems, ColsItems)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Row{"A001", "WidgetA"}, rows[0])
	assert.Equal(t, Row{"C003", "WidgetC"}, rows[2])
}

func TestExcelStoreWriteTableOverwrites(t *testing.T) {
	store := newTestExcelStore(t)
	ctx := context.Background()

	require.NoError(t, store.AppendRows(ctx, TableItems, []Row{
		{"A001", "WidgetA"},
		{"B002", "WidgetB"},
		{"C003", "WidgetC"},
	}))

	// Shrinking overwrite must not leave stale trailing rows
	require.NoError(t, store.WriteTable(ctx, TableItems, []Row{{"Z999", "WidgetZ"}}))

	rows, err := store.ReadTable(ctx, TableItems, ColsItems)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, Row{"Z999", "WidgetZ"}, rows[0])
}

func TestExcelStoreWriteTableToEmptyOnOnlySheet(t *testing.T) {
	store := newTestExcelStore(t)
	ctx := context.Background()

	// The items sheet is the workbook's only sheet here, so the overwrite
	// cannot rely on dropping and recreating it.
	require.NoError(t, store.AppendRow(ctx, TableItems, Row{"A001", "WidgetA"}))
	require.NoError(t, store.WriteTable(ctx, TableItems, nil))

	rows, err := store.ReadTable(ctx, TableItems, ColsItems)
	require.NoError(t, err)
	assert.Empty(t, rows)

	// The cleared table still accepts appends at the right position
	require.NoError(t, store.AppendRow(ctx, TableItems, Row{"B002", "WidgetB"}))
	rows, err = store.ReadTable(ctx, TableItems, ColsItems)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, Row{"B002", "WidgetB"}, rows[0])
}

func TestExcelStoreWriteTableLeavesOtherTablesAlone(t *testing.T) {
	store := newTestExcelStore(t)
	ctx := context.Background()

	require.NoError(t, store.AppendRow(ctx, TableItems, Row{"A001", "WidgetA"}))
	require.NoError(t, store.AppendRow(ctx, TableEquipment, Row{"E1", "Reflow Oven #1", "reflow"}))

	require.NoError(t, store.WriteTable(ctx, TableItems, []Row{{"Z999", "WidgetZ"}}))

	equipment, err := store.ReadTable(ctx, TableEquipment, ColsEquipment)
	require.NoError(t, err)
	require.Len(t, equipment, 1)
	assert.Equal(t, Row{"E1", "Reflow Oven #1", "reflow"}, equipment[0])
}

func TestExcelStoreMultipleTablesOneWorkbook(t *testing.T) {
	store := newTestExcelStore(t)
	ctx := context.Background()

	require.NoError(t, store.AppendRow(ctx, TableItems, Row{"A001", "WidgetA"}))
	require.NoError(t, store.AppendRow(ctx, TableEquipment, Row{"E1", "Reflow Oven #1", "reflow"}))

	items, err := store.ReadTable(ctx, TableItems, ColsItems)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	equipment, err := store.ReadTable(ctx, TableEquipment, ColsEquipment)
	require.NoError(t, err)
	require.Len(t, equipment, 1)
	assert.Equal(t, Row{"E1", "Reflow Oven #1", "reflow"}, equipment[0])
}

func TestExcelStoreNormalizesShortRows(t *testing.T) {
	store := newTestExcelStore(t)
	ctx := context.Background()

	// A short row is padded to the table width
	require.NoError(t, store.AppendRow(ctx, TableEquipment, Row{"E1", "Mounter"}))

	rows, err := store.ReadTable(ctx, TableEquipment, ColsEquipment)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Len(t, rows[0], len(ColsEquipment))
	assert.Equal(t, "", rows[0][2])
}

func TestExcelStoreRejectsUnknownTable(t *testing.T) {
	store := newTestExcelStore(t)
	ctx := context.Background()

	err := store.WriteTable(ctx, "no_such_table", nil)
	assert.ErrorIs(t, err, ErrUnknownTable)

	err = store.AppendRow(ctx, "no_such_table", Row{"x"})
	assert.ErrorIs(t, err, ErrUnknownTable)
}

func TestExcelStoreKoreanText(t *testing.T) {
	store := newTestExcelStore(t)
	ctx := context.Background()

	require.NoError(t, store.AppendRow(ctx, TableEquipment, Row{"E1", "리플로우 오븐 1호기", "납땜"}))

	rows, err := store.ReadTable(ctx, TableEquipment, ColsEquipment)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "리플로우 오븐 1호기", rows[0][1])
}
