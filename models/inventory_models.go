package models

import "time"

// Ledger entry directions. Direction is derived from the sign of the delta
// that produced the entry, never supplied by the client.
const (
	DirectionIn  = "IN"
	DirectionOut = "OUT"
)

// Item represents one row of the item_codes master table.
type Item struct {
	ItemCode string `json:"item_code" example:"A001"`
	ItemName string `json:"item_name" example:"WidgetA"`
}

// InventoryItem represents one row of the inventory_data table. The balance
// is the signed sum of every ledger delta ever applied for the item code;
// rows whose balance returns to zero stay in the table but are hidden from
// the active view.
type InventoryItem struct {
	ItemCode       string `json:"item_code" example:"A001"`
	ItemName       string `json:"item_name" example:"WidgetA"`
	CurrentBalance int    `json:"current_balance" example:"250"`
}

// InventoryLedgerEntry represents one row of the inventory_history table.
type InventoryLedgerEntry struct {
	Date       string    `json:"date" example:"2024-01-15"`
	ItemCode   string    `json:"item_code" example:"A001"`
	Direction  string    `json:"direction" example:"IN"`
	Quantity   int       `json:"quantity" example:"100"`
	Note       string    `json:"note" example:"production-in(PC)"`
	Author     string    `json:"author" example:"admin"`
	RecordedAt time.Time `json:"recorded_at" example:"2024-01-15T10:30:00Z"`
}

// AdjustInventoryRequest is the body of POST /api/inventory/adjust.
type AdjustInventoryRequest struct {
	ItemCode string `json:"item_code" binding:"required" example:"A001"`
	ItemName string `json:"item_name" example:"WidgetA"`
	Delta    int    `json:"delta" binding:"required" example:"-30"`
	Reason   string `json:"reason" binding:"required" example:"cycle count correction"`
}
