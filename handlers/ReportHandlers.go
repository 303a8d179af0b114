package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leo-park82/SMT-Management/repository"
	"github.com/leo-park82/SMT-Management/services"
	"github.com/leo-park82/SMT-Management/storage"
	"github.com/leo-park82/SMT-Management/utils"
)

// ProductionReportHandler renders the daily production report as PDF
// @Summary Production report PDF
// @Tags Reports
// @Produce application/pdf
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {file} binary
// @Failure 503 {object} models.ErrorResponse
// @Router /api/reports/production [get]
func ProductionReportHandler(production *repository.ProductionRepository, inventory *repository.InventoryRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		date := c.Query("date")
		if date == "" {
			date = utils.NowKST().Format(utils.DateLayout)
		}
		if _, err := utils.ParseDate(date); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}

		ctx, cancel := utils.GetSlowStoreContext(c.Request.Context())
		defer cancel()

		records, err := production.List(ctx, date, date)
		if err != nil {
			reportError(c, err, "Failed to fetch production records")
			return
		}
		items, err := inventory.ActiveItems(ctx)
		if err != nil {
			reportError(c, err, "Failed to fetch inventory")
			return
		}

		pdf, err := services.GenerateProductionReportPDF(records, items, date)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render report", "details": err.Error()})
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=production_report_%s.pdf", date))
		c.Data(http.StatusOK, "application/pdf", pdf)
	}
}

// DailyCheckReportHandler renders the daily check report as PDF
// @Summary Daily check report PDF
// @Description One page per line with the reconciled readings and NG notes
// @Tags Reports
// @Produce application/pdf
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {file} binary
// @Failure 503 {object} models.ErrorResponse
// @Router /api/reports/daily-check [get]
func DailyCheckReportHandler(checklist *repository.ChecklistRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		date := c.Query("date")
		if date == "" {
			date = utils.NowKST().Format(utils.DateLayout)
		}
		if _, err := utils.ParseDate(date); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}

		ctx, cancel := utils.GetSlowStoreContext(c.Request.Context())
		defer cancel()

		defs, err := checklist.Definitions(ctx)
		if err != nil {
			reportError(c, err, "Failed to load check master")
			return
		}
		if len(defs) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "No check definitions configured"})
			return
		}

		readings, err := checklist.ReadingsForDate(ctx, date)
		if err != nil {
			reportError(c, err, "Failed to fetch readings")
			return
		}
		reconciled := repository.ReconcileLatest(readings)

		pdf, err := services.GenerateDailyCheckPDF(defs, reconciled, date)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render report", "details": err.Error()})
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=daily_check_report_%s.pdf", date))
		c.Data(http.StatusOK, "application/pdf", pdf)
	}
}

func reportError(c *gin.Context, err error, msg string) {
	if errors.Is(err, storage.ErrStoreUnavailable) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Data store unavailable"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg, "details": err.Error()})
}
