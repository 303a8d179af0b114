package models

import "time"

// Maintenance work types: preventive, breakdown, corrective.
const (
	WorkTypePM = "PM"
	WorkTypeBM = "BM"
	WorkTypeCM = "CM"
)

// Equipment represents one row of the equipment_list master table.
type Equipment struct {
	ID       string `json:"id" example:"E1"`
	Name     string `json:"name" example:"Reflow Oven #1"`
	Function string `json:"function" example:"reflow soldering"`
}

// MaintenanceRecord represents one row of the maintenance_data table.
type MaintenanceRecord struct {
	Date            string    `json:"date" example:"2024-01-15"`
	EquipmentID     string    `json:"equipment_id" example:"E1"`
	EquipmentName   string    `json:"equipment_name" example:"Reflow Oven #1"`
	WorkType        string    `json:"work_type" example:"BM"`
	Description     string    `json:"description" example:"conveyor belt jam"`
	PartsReplaced   string    `json:"parts_replaced" example:"drive belt(45000)"`
	Cost            int       `json:"cost" example:"45000"`
	Worker          string    `json:"worker" example:"김철수"`
	DowntimeMinutes int       `json:"downtime_minutes" example:"40"`
	EnteredAt       time.Time `json:"entered_at" example:"2024-01-15T10:30:00Z"`
	Author          string    `json:"author" example:"worker1"`
	Editor          string    `json:"editor,omitempty" example:""`
	EditedAt        string    `json:"edited_at,omitempty" example:""`
}

// MaintenanceRequest is the body of POST /api/maintenance.
type MaintenanceRequest struct {
	Date            string `json:"date" binding:"required" example:"2024-01-15"`
	EquipmentID     string `json:"equipment_id" binding:"required" example:"E1"`
	WorkType        string `json:"work_type" binding:"required" example:"BM"`
	Description     string `json:"description" example:"conveyor belt jam"`
	PartsReplaced   string `json:"parts_replaced" example:"drive belt(45000)"`
	Cost            int    `json:"cost" example:"45000"`
	Worker          string `json:"worker" example:"김철수"`
	DowntimeMinutes int    `json:"downtime_minutes" example:"40"`
}

// DowntimeTotal is a per-equipment downtime aggregate.
type DowntimeTotal struct {
	EquipmentName   string `json:"equipment_name" example:"Reflow Oven #1"`
	DowntimeMinutes int    `json:"downtime_minutes" example:"180"`
}

// FailureCount is a per-equipment breakdown count.
type FailureCount struct {
	EquipmentName string `json:"equipment_name" example:"Reflow Oven #1"`
	Count         int    `json:"count" example:"3"`
}

// WorkTypeCost is a per-work-type cost aggregate.
type WorkTypeCost struct {
	WorkType string `json:"work_type" example:"BM"`
	Cost     int    `json:"cost" example:"230000"`
}

// MaintenanceAnalysis is the response of GET /api/maintenance/analysis.
type MaintenanceAnalysis struct {
	TopDowntime    []DowntimeTotal `json:"top_downtime"`
	BMRatePct      float64         `json:"bm_rate_pct" example:"35.0"`
	BMRateAlert    bool            `json:"bm_rate_alert" example:"false"`
	RepeatFailures []FailureCount  `json:"repeat_failures"`
	CostByWorkType []WorkTypeCost  `json:"cost_by_work_type"`
}
