package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Logical table names. The whole system state lives in these flat tables,
// whatever backend actually holds them: eight domain tables plus the login
// session table.
const (
	TableProduction       = "production_data"
	TableItems            = "item_codes"
	TableInventory        = "inventory_data"
	TableInventoryHistory = "inventory_history"
	TableMaintenance      = "maintenance_data"
	TableEquipment        = "equipment_list"
	TableCheckMaster      = "daily_check_master"
	TableCheckResult      = "daily_check_result"
	TableSessions         = "sessions"
)

// Column layouts per table. Column order is part of the store contract:
// rows are positional, there is no per-cell addressing above this layer.
var (
	ColsProduction = []string{"date", "category", "item_code", "item_name", "quantity", "entered_at", "author", "editor", "edited_at"}
	ColsItems      = []string{"item_code", "item_name"}
	ColsInventory  = []string{"item_code", "item_name", "current_balance"}
	ColsInvHistory = []string{"date", "item_code", "direction", "quantity", "note", "author", "entered_at"}
	ColsMaint      = []string{"date", "equipment_id", "equipment_name", "work_type", "description", "parts_replaced", "cost", "worker", "downtime_minutes", "entered_at", "author", "editor", "edited_at"}
	ColsEquipment  = []string{"id", "name", "function"}
	ColsCheckMast  = []string{"line", "equip_id", "equip_name", "item_name", "check_content", "standard", "check_type", "min_val", "max_val", "unit"}
	ColsCheckRes   = []string{"date", "line", "equip_id", "item_name", "value", "verdict", "checker", "timestamp", "note"}
	ColsSessions   = []string{"session_id", "user_id", "role", "host_name", "ip_address", "created_at", "expires_at", "refresh_token", "refresh_expires_at"}
)

// TableColumns maps every known table to its column layout.
var TableColumns = map[string][]string{
	TableProduction:       ColsProduction,
	TableItems:            ColsItems,
	TableInventory:        ColsInventory,
	TableInventoryHistory: ColsInvHistory,
	TableMaintenance:      ColsMaint,
	TableEquipment:        ColsEquipment,
	TableCheckMaster:      ColsCheckMast,
	TableCheckResult:      ColsCheckRes,
	TableSessions:         ColsSessions,
}

// ErrStoreUnavailable marks a backend failure. It is distinct from an empty
// read result: "no data" and "store down" must never be merged.
var ErrStoreUnavailable = errors.New("tabular store unavailable")

// ErrUnknownTable is returned for table names outside TableColumns.
var ErrUnknownTable = errors.New("unknown table")

// Row is one positional table row. Cells are stored as text, exactly as the
// backing spreadsheet keeps them; typing happens in the repository layer.
type Row []string

// TabularStore is the narrow contract every backend implements. ReadTable
// creates the table with its header when absent and returns rows in insert
// order. WriteTable replaces the whole table. AppendRow and AppendRows add
// rows without reading existing contents first.
type TabularStore interface {
	ReadTable(ctx context.Context, name string, cols []string) ([]Row, error)
	WriteTable(ctx context.Context, name string, rows []Row) error
	AppendRow(ctx context.Context, name string, row Row) error
	AppendRows(ctx context.Context, name string, rows []Row) error
}

// InitStore loads the environment and wires the configured backend, wrapped
// in the read cache. STORE_BACKEND selects "excel" (default) or "postgres".
func InitStore() TabularStore {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	var inner TabularStore
	switch backend := os.Getenv("STORE_BACKEND"); backend {
	case "", "excel":
		path := os.Getenv("EXCEL_DB_PATH")
		if path == "" {
			path = "smt_database.xlsx"
		}
		inner = NewExcelStore(path)
		log.Printf("Tabular store backend: excel (%s)", path)
	case "postgres":
		inner = NewPostgresStore(InitDB())
		log.Println("Tabular store backend: postgres")
	default:
		log.Fatalf("Unknown STORE_BACKEND: %q (want excel or postgres)", backend)
	}

	return NewCachedStore(inner, 60*time.Second)
}

func cloneRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		c := make(Row, len(r))
		copy(c, r)
		out[i] = c
	}
	return out
}

// normalizeRow pads or truncates a raw backend row to the expected width.
func normalizeRow(raw []string, width int) Row {
	row := make(Row, width)
	for i := 0; i < width && i < len(raw); i++ {
		row[i] = raw[i]
	}
	return row
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
}
