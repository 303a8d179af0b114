package models

import "time"

// Production process categories. DIST lines assemble distribution panels and
// never touch component stock; POST and POST_OUT consume stock when the
// auto-deduct flag is set on the request.
const (
	CategoryPC      = "PC"
	CategoryCM1     = "CM1"
	CategoryCM3     = "CM3"
	CategoryDist    = "DIST"
	CategorySample  = "SAMPLE"
	CategoryPost    = "POST"
	CategoryPostOut = "POST_OUT"
)

// ProductionCategories lists every accepted category value.
var ProductionCategories = []string{
	CategoryPC, CategoryCM1, CategoryCM3, CategoryDist,
	CategorySample, CategoryPost, CategoryPostOut,
}

// ProductionRecord represents one row of the production_data table.
type ProductionRecord struct {
	Date      string    `json:"date" example:"2024-01-15"`
	Category  string    `json:"category" example:"PC"`
	ItemCode  string    `json:"item_code" example:"A001"`
	ItemName  string    `json:"item_name" example:"WidgetA"`
	Quantity  int       `json:"quantity" example:"100"`
	EnteredAt time.Time `json:"entered_at" example:"2024-01-15T10:30:00Z"`
	Author    string    `json:"author" example:"admin"`
	Editor    string    `json:"editor,omitempty" example:""`
	EditedAt  string    `json:"edited_at,omitempty" example:""`
}

// ProductionRequest is the body of POST /api/production.
type ProductionRequest struct {
	Date       string `json:"date" binding:"required" example:"2024-01-15"`
	Category   string `json:"category" binding:"required" example:"PC"`
	ItemCode   string `json:"item_code" example:"A001"`
	ItemName   string `json:"item_name" binding:"required" example:"WidgetA"`
	Quantity   int    `json:"quantity" binding:"required,gt=0" example:"100"`
	AutoDeduct bool   `json:"auto_deduct" example:"true"`
}

// CategoryDaily is a per-day, per-category production total.
type CategoryDaily struct {
	Date     string `json:"date" example:"2024-01-15"`
	Category string `json:"category" example:"PC"`
	Quantity int    `json:"quantity" example:"340"`
}

// ModelTotal is a per-product production total used by the SMT model ranking.
type ModelTotal struct {
	ItemName string `json:"item_name" example:"WidgetA"`
	Quantity int    `json:"quantity" example:"1200"`
}

// ProductionAnalysis is the response of GET /api/production/analysis.
type ProductionAnalysis struct {
	TotalQuantity   int             `json:"total_quantity" example:"5400"`
	DailyAverage    float64         `json:"daily_average" example:"771.4"`
	ByDayCategory   []CategoryDaily `json:"by_day_category"`
	SMTModelRanking []ModelTotal    `json:"smt_model_ranking"`
	SMTTotal        int             `json:"smt_total" example:"4100"`
	RecentWeekAvg   float64         `json:"recent_week_avg" example:"120.5"`
	PreviousWeekAvg float64         `json:"previous_week_avg" example:"140.0"`
	TrendRatePct    float64         `json:"trend_rate_pct" example:"-13.9"`
	TrendAlert      string          `json:"trend_alert,omitempty" example:"production down 13.9% vs previous week"`
}
