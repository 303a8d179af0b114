package models

// DashboardSummary is the response of GET /api/dashboard.
type DashboardSummary struct {
	Date                string           `json:"date" example:"2024-01-15"`
	ProductionToday     int              `json:"production_today" example:"1200"`
	ProductionYesterday int              `json:"production_yesterday" example:"1350"`
	ProductionDelta     int              `json:"production_delta" example:"-150"`
	CheckedToday        int              `json:"checked_today" example:"12"`
	NGToday             int              `json:"ng_today" example:"1"`
	NGRatePct           float64          `json:"ng_rate_pct" example:"8.3"`
	MaintenanceToday    int              `json:"maintenance_today" example:"2"`
	ActiveItemCount     int              `json:"active_item_count" example:"14"`
	LineCompletions     []LineCompletion `json:"line_completions"`
}
