package models

import "time"

// Check types carried in the daily_check_master sheet. OX items take a
// direct OK/NG judgement from the operator; numeric items are measured and
// judged against the master thresholds.
const (
	CheckTypeNumeric = "NUMERIC"
	CheckTypeOkNg    = "OX"
)

// Verdict values for a checklist reading.
const (
	VerdictOK = "OK"
	VerdictNG = "NG"
)

// ChecklistDefinition represents one row of the daily_check_master table.
// Identity key is (line, equipment_id, item_name). MinValue and MaxValue are
// each optional; nil means no bound on that side.
type ChecklistDefinition struct {
	Line          string   `json:"line" example:"L1"`
	EquipmentID   string   `json:"equipment_id" example:"E1"`
	EquipmentName string   `json:"equipment_name" example:"Reflow Oven #1"`
	ItemName      string   `json:"item_name" example:"Zone3 Temp"`
	CheckContent  string   `json:"check_content" example:"verify zone 3 preheat temperature"`
	Standard      string   `json:"standard" example:"150~170℃"`
	CheckType     string   `json:"check_type" example:"NUMERIC"`
	MinValue      *float64 `json:"min_value,omitempty" example:"150"`
	MaxValue      *float64 `json:"max_value,omitempty" example:"170"`
	Unit          string   `json:"unit" example:"℃"`
}

// ChecklistReading represents one row of the daily_check_result table.
// Rows are append-only; the logically current reading for a key on a date is
// the one with the latest SubmittedAt.
type ChecklistReading struct {
	Date        string    `json:"date" example:"2024-01-15"`
	Line        string    `json:"line" example:"L1"`
	EquipmentID string    `json:"equipment_id" example:"E1"`
	ItemName    string    `json:"item_name" example:"Zone3 Temp"`
	Value       string    `json:"value" example:"162.5"`
	Verdict     string    `json:"verdict" example:"OK"`
	Checker     string    `json:"checker" example:"김철수"`
	SubmittedAt time.Time `json:"submitted_at" example:"2024-01-15T08:10:00Z"`
	Note        string    `json:"note,omitempty" example:""`
}

// CheckKey identifies the logical checklist slot a reading belongs to.
type CheckKey struct {
	Line        string `json:"line" example:"L1"`
	EquipmentID string `json:"equipment_id" example:"E1"`
	ItemName    string `json:"item_name" example:"Zone3 Temp"`
}

// Line completion states.
const (
	CompletionNotStarted = "NOT_STARTED"
	CompletionInProgress = "IN_PROGRESS"
	CompletionComplete   = "COMPLETE"
)

// LineCompletion reports how far a line's checklist has progressed on a date.
type LineCompletion struct {
	Line         string `json:"line" example:"L1"`
	Date         string `json:"date" example:"2024-01-15"`
	TotalItems   int    `json:"total_items" example:"5"`
	CheckedItems int    `json:"checked_items" example:"3"`
	State        string `json:"state" example:"IN_PROGRESS"`
}

// DailyCheckEntry is one submitted reading inside a DailyCheckRequest.
type DailyCheckEntry struct {
	EquipmentID string `json:"equipment_id" binding:"required" example:"E1"`
	ItemName    string `json:"item_name" binding:"required" example:"Zone3 Temp"`
	RawValue    string `json:"raw_value" binding:"required" example:"162.5"`
	Note        string `json:"note" example:""`
}

// DailyCheckRequest is the body of POST /api/daily-check. The whole batch is
// evaluated and appended together, one row per entry.
type DailyCheckRequest struct {
	Date     string            `json:"date" binding:"required" example:"2024-01-15"`
	Line     string            `json:"line" binding:"required" example:"L1"`
	Checker  string            `json:"checker" example:"김철수"`
	Readings []DailyCheckEntry `json:"readings" binding:"required,dive"`
}

// SheetRow is one line of the prefilled check sheet: the master definition
// joined with today's reconciled reading, when one exists.
type SheetRow struct {
	Definition ChecklistDefinition `json:"definition"`
	Reading    *ChecklistReading   `json:"reading,omitempty"`
}

// DailyCheckSheet is the response of GET /api/daily-check/sheet.
type DailyCheckSheet struct {
	Line       string         `json:"line" example:"L1"`
	Date       string         `json:"date" example:"2024-01-15"`
	Rows       []SheetRow     `json:"rows"`
	Completion LineCompletion `json:"completion"`
}
