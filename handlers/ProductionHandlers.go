package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leo-park82/SMT-Management/models"
	"github.com/leo-park82/SMT-Management/repository"
	"github.com/leo-park82/SMT-Management/storage"
	"github.com/leo-park82/SMT-Management/utils"
)

// CreateProductionHandler records a production result and its stock effect
// @Summary Record production
// @Description Append a production record; inventory moves according to the category coupling rules
// @Tags Production
// @Accept json
// @Produce json
// @Param request body models.ProductionRequest true "Production entry"
// @Success 201 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /api/production [post]
func CreateProductionHandler(repo *repository.ProductionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ProductionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}
		if _, err := utils.ParseDate(req.Date); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}

		actor := CurrentActor(c)
		rec := models.ProductionRecord{
			Date:      req.Date,
			Category:  req.Category,
			ItemCode:  req.ItemCode,
			ItemName:  req.ItemName,
			Quantity:  req.Quantity,
			EnteredAt: utils.NowKST(),
			Author:    actor.UserID,
		}

		ctx, cancel := utils.GetDefaultStoreContext(c.Request.Context())
		defer cancel()

		if err := repo.RecordProductionWithStock(ctx, rec, req.AutoDeduct); err != nil {
			if errors.Is(err, repository.ErrInvalidInput) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if errors.Is(err, storage.ErrStoreUnavailable) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Data store unavailable"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record production", "details": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Production recorded"})
	}
}

// GetProductionHandler lists production records, newest entry first
// @Summary List production records
// @Tags Production
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {array} models.ProductionRecord
// @Failure 503 {object} models.ErrorResponse
// @Router /api/production [get]
func GetProductionHandler(repo *repository.ProductionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := utils.GetDefaultStoreContext(c.Request.Context())
		defer cancel()

		records, err := repo.List(ctx, c.Query("from"), c.Query("to"))
		if err != nil {
			if errors.Is(err, storage.ErrStoreUnavailable) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Data store unavailable"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch production records", "details": err.Error()})
			return
		}
		if records == nil {
			records = []models.ProductionRecord{}
		}
		c.JSON(http.StatusOK, records)
	}
}

// DeleteProductionHandler removes production rows keyed by entry timestamp
// @Summary Delete production record
// @Tags Production
// @Produce json
// @Param enteredAt path string true "Entry timestamp"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/production/{enteredAt} [delete]
func DeleteProductionHandler(repo *repository.ProductionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		enteredAt := c.Param("enteredAt")

		ctx, cancel := utils.GetDefaultStoreContext(c.Request.Context())
		defer cancel()

		if err := repo.DeleteByEnteredAt(ctx, enteredAt); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "No production record with that entry timestamp"})
				return
			}
			if errors.Is(err, storage.ErrStoreUnavailable) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Data store unavailable"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete production record", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Production record deleted"})
	}
}

// ProductionAnalysisHandler aggregates production for the requested range
// @Summary Production analysis
// @Description Totals, per-day/category aggregation, SMT model ranking and the weekly trend alert
// @Tags Production
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} models.ProductionAnalysis
// @Failure 503 {object} models.ErrorResponse
// @Router /api/production/analysis [get]
func ProductionAnalysisHandler(repo *repository.ProductionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := utils.GetSlowStoreContext(c.Request.Context())
		defer cancel()

		analysis, err := repo.Analysis(ctx, c.Query("from"), c.Query("to"))
		if err != nil {
			if errors.Is(err, storage.ErrStoreUnavailable) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Data store unavailable"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute analysis", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, analysis)
	}
}
