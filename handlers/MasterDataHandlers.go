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

// Master data is edited as whole tables: GET returns the table, PUT
// replaces it. Matches how the floor edits these sheets, a few dozen rows
// at a time in a grid.

// GetItemsHandler returns the item code master table
// @Summary List item codes
// @Tags MasterData
// @Produce json
// @Success 200 {array} models.Item
// @Failure 503 {object} models.ErrorResponse
// @Router /api/items [get]
func GetItemsHandler(repo *repository.MasterRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := utils.GetDefaultStoreContext(c.Request.Context())
		defer cancel()

		items, err := repo.Items(ctx)
		if err != nil {
			if errors.Is(err, storage.ErrStoreUnavailable) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Data store unavailable"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch items", "details": err.Error()})
			return
		}
		if items == nil {
			items = []models.Item{}
		}
		c.JSON(http.StatusOK, items)
	}
}

// GetItemHandler looks up a single item code, for production form autofill
// @Summary Get item by code
// @Tags MasterData
// @Produce json
// @Param itemCode path string true "Item code"
// @Success 200 {object} models.Item
// @Failure 404 {object} models.ErrorResponse
// @Router /api/items/{itemCode} [get]
func GetItemHandler(repo *repository.MasterRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := utils.GetDefaultStoreContext(c.Request.Context())
		defer cancel()

		item, err := repo.GetItem(ctx, c.Param("itemCode"))
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
				return
			}
			if errors.Is(err, storage.ErrStoreUnavailable) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Data store unavailable"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch item", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// ReplaceItemsHandler overwrites the item code master table
// @Summary Replace item codes
// @Tags MasterData
// @Accept json
// @Produce json
// @Param request body []models.Item true "Full item table"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/items [put]
func ReplaceItemsHandler(repo *repository.MasterRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var items []models.Item
		if err := c.ShouldBindJSON(&items); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}

		ctx, cancel := utils.GetDefaultStoreContext(c.Request.Context())
		defer cancel()

		if err := repo.ReplaceItems(ctx, items); err != nil {
			if errors.Is(err, storage.ErrStoreUnavailable) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Data store unavailable"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save items", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item table saved"})
	}
}

// GetEquipmentHandler returns the equipment master table
// @Summary List equipment
// @Tags MasterData
// @Produce json
// @Success 200 {array} models.Equipment
// @Failure 503 {object} models.ErrorResponse
// @Router /api/equipment [get]
func GetEquipmentHandler(repo *repository.MasterRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := utils.GetDefaultStoreContext(c.Request.Context())
		defer cancel()

		equipment, err := repo.Equipment(ctx)
		if err != nil {
			if errors.Is(err, storage.ErrStoreUnavailable) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Data store unavailable"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch equipment", "details": err.Error()})
			return
		}
		if equipment == nil {
			equipment = []models.Equipment{}
		}
		c.JSON(http.StatusOK, equipment)
	}
}

// ReplaceEquipmentHandler overwrites the equipment master table
// @Summary Replace equipment
// @Tags MasterData
// @Accept json
// @Produce json
// @Param request body []models.Equipment true "Full equipment table"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/equipment [put]
func ReplaceEquipmentHandler(repo *repository.MasterRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var equipment []models.Equipment
		if err := c.ShouldBindJSON(&equipment); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}

		ctx, cancel := utils.GetDefaultStoreContext(c.Request.Context())
		defer cancel()

		if err := repo.ReplaceEquipment(ctx, equipment); err != nil {
			if errors.Is(err, storage.ErrStoreUnavailable) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Data store unavailable"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save equipment", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Equipment table saved"})
	}
}

// GetCheckMasterHandler returns the daily check master table
// @Summary List check definitions
// @Tags MasterData
// @Produce json
// @Success 200 {array} models.ChecklistDefinition
// @Failure 503 {object} models.ErrorResponse
// @Router /api/check-master [get]
func GetCheckMasterHandler(repo *repository.ChecklistRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := utils.GetDefaultStoreContext(c.Request.Context())
		defer cancel()

		defs, err := repo.Definitions(ctx)
		if err != nil {
			if errors.Is(err, storage.ErrStoreUnavailable) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Data store unavailable"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch check master", "details": err.Error()})
			return
		}
		if defs == nil {
			defs = []models.ChecklistDefinition{}
		}
		c.JSON(http.StatusOK, defs)
	}
}

// ReplaceCheckMasterHandler overwrites the daily check master table
// @Summary Replace check definitions
// @Tags MasterData
// @Accept json
// @Produce json
// @Param request body []models.ChecklistDefinition true "Full check master table"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/check-master [put]
func ReplaceCheckMasterHandler(repo *repository.ChecklistRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var defs []models.ChecklistDefinition
		if err := c.ShouldBindJSON(&defs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}
		for _, def := range defs {
			if def.CheckType != models.CheckTypeNumeric && def.CheckType != models.CheckTypeOkNg {
				c.JSON(http.StatusBadRequest, gin.H{"error": "check_type must be NUMERIC or OX"})
				return
			}
		}

		ctx, cancel := utils.GetDefaultStoreContext(c.Request.Context())
		defer cancel()

		if err := repo.ReplaceDefinitions(ctx, defs); err != nil {
			if errors.Is(err, storage.ErrStoreUnavailable) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Data store unavailable"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save check master", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Check master saved"})
	}
}
