package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leo-park82/SMT-Management/models"
	"github.com/leo-park82/SMT-Management/repository"
	"github.com/leo-park82/SMT-Management/storage"
	"github.com/leo-park82/SMT-Management/utils"
)

// DashboardHandler builds the landing page summary
// @Summary Dashboard summary
// @Description Today vs yesterday production, daily check progress and NG rate, today's maintenance count and active inventory size
// @Tags Dashboard
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} models.DashboardSummary
// @Failure 503 {object} models.ErrorResponse
// @Router /api/dashboard [get]
func DashboardHandler(
	production *repository.ProductionRepository,
	inventory *repository.InventoryRepository,
	maintenance *repository.MaintenanceRepository,
	checklist *repository.ChecklistRepository,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		date := c.Query("date")
		if date == "" {
			date = utils.NowKST().Format(utils.DateLayout)
		}
		day, err := utils.ParseDate(date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}
		yesterday := day.AddDate(0, 0, -1).Format(utils.DateLayout)

		ctx, cancel := utils.GetSlowStoreContext(c.Request.Context())
		defer cancel()

		summary := models.DashboardSummary{Date: date}

		records, err := production.List(ctx, yesterday, date)
		if err != nil {
			dashboardError(c, err, "Failed to fetch production records")
			return
		}
		for _, rec := range records {
			switch rec.Date {
			case date:
				summary.ProductionToday += rec.Quantity
			case yesterday:
				summary.ProductionYesterday += rec.Quantity
			}
		}
		summary.ProductionDelta = summary.ProductionToday - summary.ProductionYesterday

		results, err := checklist.ReconciledForDate(ctx, date)
		if err != nil {
			dashboardError(c, err, "Failed to fetch daily check results")
			return
		}
		summary.CheckedToday = len(results)
		for _, r := range results {
			if r.Verdict == models.VerdictNG {
				summary.NGToday++
			}
		}
		if summary.CheckedToday > 0 {
			summary.NGRatePct = float64(summary.NGToday) / float64(summary.CheckedToday) * 100
		}

		maintRecords, err := maintenance.List(ctx)
		if err != nil {
			dashboardError(c, err, "Failed to fetch maintenance records")
			return
		}
		for _, rec := range maintRecords {
			if rec.Date == date {
				summary.MaintenanceToday++
			}
		}

		items, err := inventory.ActiveItems(ctx)
		if err != nil {
			dashboardError(c, err, "Failed to fetch inventory")
			return
		}
		summary.ActiveItemCount = len(items)

		lines, err := checklist.Lines(ctx)
		if err != nil {
			dashboardError(c, err, "Failed to fetch check lines")
			return
		}
		summary.LineCompletions = make([]models.LineCompletion, 0, len(lines))
		for _, line := range lines {
			completion, err := checklist.Completion(ctx, line, date)
			if err != nil {
				dashboardError(c, err, "Failed to compute line completion")
				return
			}
			summary.LineCompletions = append(summary.LineCompletions, completion)
		}

		c.JSON(http.StatusOK, summary)
	}
}

func dashboardError(c *gin.Context, err error, msg string) {
	if errors.Is(err, storage.ErrStoreUnavailable) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Data store unavailable"})
		return
	}
	if errors.Is(err, context.DeadlineExceeded) {
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Data store timed out"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg, "details": err.Error()})
}
