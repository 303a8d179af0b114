package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leo-park82/SMT-Management/models"
	"github.com/leo-park82/SMT-Management/repository"
	"github.com/leo-park82/SMT-Management/storage"
	"github.com/leo-park82/SMT-Management/utils"
)

// GetDailyCheckSheetHandler returns the prefilled check sheet for a line
// @Summary Daily check sheet
// @Description Master definitions for the line merged with today's reconciled readings
// @Tags DailyCheck
// @Produce json
// @Param line query string true "Line name"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} models.DailyCheckSheet
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /api/daily-check/sheet [get]
func GetDailyCheckSheetHandler(repo *repository.ChecklistRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		line, date := c.Query("line"), c.Query("date")
		if line == "" || date == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "line and date query parameters are required"})
			return
		}

		ctx, cancel := utils.GetDefaultStoreContext(c.Request.Context())
		defer cancel()

		sheet, err := repo.Sheet(ctx, line, date)
		if err != nil {
			if errors.Is(err, storage.ErrStoreUnavailable) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Data store unavailable"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build check sheet", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, sheet)
	}
}

// SubmitDailyCheckHandler evaluates and appends a batch of readings
// @Summary Submit daily check readings
// @Description Every reading is judged server-side against the master thresholds before the batch is appended
// @Tags DailyCheck
// @Accept json
// @Produce json
// @Param request body models.DailyCheckRequest true "Readings for one line"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /api/daily-check [post]
func SubmitDailyCheckHandler(repo *repository.ChecklistRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.DailyCheckRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}
		if len(req.Readings) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "At least one reading is required"})
			return
		}

		ctx, cancel := utils.GetDefaultStoreContext(c.Request.Context())
		defer cancel()

		defs, err := repo.Definitions(ctx)
		if err != nil {
			if errors.Is(err, storage.ErrStoreUnavailable) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Data store unavailable"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load check master", "details": err.Error()})
			return
		}

		byKey := make(map[models.CheckKey]models.ChecklistDefinition, len(defs))
		for _, def := range defs {
			byKey[models.CheckKey{Line: def.Line, EquipmentID: def.EquipmentID, ItemName: def.ItemName}] = def
		}

		actor := CurrentActor(c)
		checker := req.Checker
		if checker == "" {
			checker = actor.Name
		}

		now := utils.NowKST()
		readings := make([]models.ChecklistReading, 0, len(req.Readings))
		verdicts := make([]gin.H, 0, len(req.Readings))
		ngCount := 0
		for _, entry := range req.Readings {
			key := models.CheckKey{Line: req.Line, EquipmentID: entry.EquipmentID, ItemName: entry.ItemName}
			def, ok := byKey[key]
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{
					"error": fmt.Sprintf("No check item %q for equipment %q on line %q", entry.ItemName, entry.EquipmentID, req.Line),
				})
				return
			}

			verdict, normalized, err := repository.Evaluate(def, entry.RawValue)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"error": fmt.Sprintf("Invalid value for %q: %s", entry.ItemName, err.Error()),
				})
				return
			}
			if verdict == models.VerdictNG {
				ngCount++
			}

			readings = append(readings, models.ChecklistReading{
				Date:        req.Date,
				Line:        req.Line,
				EquipmentID: entry.EquipmentID,
				ItemName:    entry.ItemName,
				Value:       normalized,
				Verdict:     verdict,
				Checker:     checker,
				SubmittedAt: now,
				Note:        entry.Note,
			})
			verdicts = append(verdicts, gin.H{"item_name": entry.ItemName, "verdict": verdict, "value": normalized})
		}

		if err := repo.SaveReadings(ctx, readings); err != nil {
			if errors.Is(err, storage.ErrStoreUnavailable) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Data store unavailable"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save readings", "details": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":  "Readings saved",
			"saved":    len(readings),
			"ng_count": ngCount,
			"verdicts": verdicts,
		})
	}
}

// DailyCheckStatusHandler reports completion for one line and date
// @Summary Daily check completion status
// @Tags DailyCheck
// @Produce json
// @Param line query string true "Line name"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} models.LineCompletion
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /api/daily-check/status [get]
func DailyCheckStatusHandler(repo *repository.ChecklistRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		line, date := c.Query("line"), c.Query("date")
		if line == "" || date == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "line and date query parameters are required"})
			return
		}

		ctx, cancel := utils.GetDefaultStoreContext(c.Request.Context())
		defer cancel()

		completion, err := repo.Completion(ctx, line, date)
		if err != nil {
			if errors.Is(err, storage.ErrStoreUnavailable) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Data store unavailable"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute completion", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, completion)
	}
}

// DailyCheckResultsHandler returns the reconciled readings for a date
// @Summary Daily check results
// @Description One reading per check slot, the latest submission winning
// @Tags DailyCheck
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {array} models.ChecklistReading
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /api/daily-check/results [get]
func DailyCheckResultsHandler(repo *repository.ChecklistRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		date := c.Query("date")
		if date == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
			return
		}

		ctx, cancel := utils.GetDefaultStoreContext(c.Request.Context())
		defer cancel()

		results, err := repo.ReconciledForDate(ctx, date)
		if err != nil {
			if errors.Is(err, storage.ErrStoreUnavailable) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Data store unavailable"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch results", "details": err.Error()})
			return
		}
		if results == nil {
			results = []models.ChecklistReading{}
		}
		c.JSON(http.StatusOK, results)
	}
}
