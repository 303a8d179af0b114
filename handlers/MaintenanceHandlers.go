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

// CreateMaintenanceHandler records a maintenance event
// @Summary Record maintenance
// @Tags Maintenance
// @Accept json
// @Produce json
// @Param request body models.MaintenanceRequest true "Maintenance entry"
// @Success 201 {object} models.MaintenanceRecord
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /api/maintenance [post]
func CreateMaintenanceHandler(repo *repository.MaintenanceRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.MaintenanceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}

		actor := CurrentActor(c)
		ctx, cancel := utils.GetDefaultStoreContext(c.Request.Context())
		defer cancel()

		rec, err := repo.Append(ctx, req, actor.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrInvalidInput) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if errors.Is(err, storage.ErrStoreUnavailable) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Data store unavailable"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record maintenance", "details": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, rec)
	}
}

// GetMaintenanceHandler lists maintenance records, newest entry first
// @Summary List maintenance records
// @Tags Maintenance
// @Produce json
// @Success 200 {array} models.MaintenanceRecord
// @Failure 503 {object} models.ErrorResponse
// @Router /api/maintenance [get]
func GetMaintenanceHandler(repo *repository.MaintenanceRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := utils.GetDefaultStoreContext(c.Request.Context())
		defer cancel()

		records, err := repo.List(ctx)
		if err != nil {
			if errors.Is(err, storage.ErrStoreUnavailable) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Data store unavailable"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch maintenance records", "details": err.Error()})
			return
		}
		if records == nil {
			records = []models.MaintenanceRecord{}
		}
		c.JSON(http.StatusOK, records)
	}
}

// UpdateMaintenanceHandler edits a record keyed by its entry timestamp
// @Summary Update maintenance record
// @Tags Maintenance
// @Accept json
// @Produce json
// @Param enteredAt path string true "Entry timestamp"
// @Param request body models.MaintenanceRequest true "Updated fields"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/maintenance/{enteredAt} [put]
func UpdateMaintenanceHandler(repo *repository.MaintenanceRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.MaintenanceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}

		actor := CurrentActor(c)
		ctx, cancel := utils.GetDefaultStoreContext(c.Request.Context())
		defer cancel()

		if err := repo.UpdateByEnteredAt(ctx, c.Param("enteredAt"), req, actor.UserID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "No maintenance record with that entry timestamp"})
				return
			}
			if errors.Is(err, repository.ErrInvalidInput) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if errors.Is(err, storage.ErrStoreUnavailable) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Data store unavailable"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update maintenance record", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Maintenance record updated"})
	}
}

// DeleteMaintenanceHandler removes a record keyed by its entry timestamp
// @Summary Delete maintenance record
// @Tags Maintenance
// @Produce json
// @Param enteredAt path string true "Entry timestamp"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/maintenance/{enteredAt} [delete]
func DeleteMaintenanceHandler(repo *repository.MaintenanceRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := utils.GetDefaultStoreContext(c.Request.Context())
		defer cancel()

		if err := repo.DeleteByEnteredAt(ctx, c.Param("enteredAt")); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "No maintenance record with that entry timestamp"})
				return
			}
			if errors.Is(err, storage.ErrStoreUnavailable) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Data store unavailable"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete maintenance record", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Maintenance record deleted"})
	}
}

// MaintenanceAnalysisHandler aggregates downtime, BM rate and costs
// @Summary Maintenance analysis
// @Description Top-3 downtime equipment, BM ratio with the 40% alert, repeat failures and cost by work type
// @Tags Maintenance
// @Produce json
// @Success 200 {object} models.MaintenanceAnalysis
// @Failure 503 {object} models.ErrorResponse
// @Router /api/maintenance/analysis [get]
func MaintenanceAnalysisHandler(repo *repository.MaintenanceRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := utils.GetSlowStoreContext(c.Request.Context())
		defer cancel()

		analysis, err := repo.Analysis(ctx)
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
