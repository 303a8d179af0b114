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

// GetInventoryHandler returns the active inventory view
// @Summary List active inventory
// @Description Items whose balance is non-zero; zero-balance rows are kept but hidden
// @Tags Inventory
// @Produce json
// @Success 200 {array} models.InventoryItem
// @Failure 503 {object} models.ErrorResponse
// @Router /api/inventory [get]
func GetInventoryHandler(repo *repository.InventoryRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := utils.GetDefaultStoreContext(c.Request.Context())
		defer cancel()

		items, err := repo.ActiveItems(ctx)
		if err != nil {
			if errors.Is(err, storage.ErrStoreUnavailable) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Data store unavailable"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inventory", "details": err.Error()})
			return
		}
		if items == nil {
			items = []models.InventoryItem{}
		}
		c.JSON(http.StatusOK, items)
	}
}

// AdjustInventoryHandler applies a signed delta to an item balance
// @Summary Adjust inventory
// @Description Applies the delta and writes one ledger entry; negative balances are allowed
// @Tags Inventory
// @Accept json
// @Produce json
// @Param request body models.AdjustInventoryRequest true "Adjustment"
// @Success 200 {object} models.InventoryItem
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /api/inventory/adjust [post]
func AdjustInventoryHandler(repo *repository.InventoryRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.AdjustInventoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}

		actor := CurrentActor(c)
		ctx, cancel := utils.GetDefaultStoreContext(c.Request.Context())
		defer cancel()

		item, err := repo.ApplyDelta(ctx, req.ItemCode, req.ItemName, req.Delta, req.Reason, actor.UserID)
		if err != nil {
			if errors.Is(err, storage.ErrStoreUnavailable) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Data store unavailable"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to adjust inventory", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// GetInventoryHistoryHandler returns ledger entries, newest first
// @Summary Inventory history
// @Tags Inventory
// @Produce json
// @Param itemCode query string false "Filter by item code"
// @Success 200 {array} models.InventoryLedgerEntry
// @Failure 503 {object} models.ErrorResponse
// @Router /api/inventory/history [get]
func GetInventoryHistoryHandler(repo *repository.InventoryRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := utils.GetDefaultStoreContext(c.Request.Context())
		defer cancel()

		entries, err := repo.History(ctx, c.Query("itemCode"))
		if err != nil {
			if errors.Is(err, storage.ErrStoreUnavailable) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Data store unavailable"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inventory history", "details": err.Error()})
			return
		}
		if entries == nil {
			entries = []models.InventoryLedgerEntry{}
		}
		c.JSON(http.StatusOK, entries)
	}
}

// DeleteInventoryItemHandler removes an item from the balance table
// @Summary Delete inventory item
// @Description Removes the balance row only; the ledger keeps its history
// @Tags Inventory
// @Produce json
// @Param itemCode path string true "Item code"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/inventory/{itemCode} [delete]
func DeleteInventoryItemHandler(repo *repository.InventoryRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := utils.GetDefaultStoreContext(c.Request.Context())
		defer cancel()

		if err := repo.RemoveItem(ctx, c.Param("itemCode")); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
				return
			}
			if errors.Is(err, storage.ErrStoreUnavailable) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Data store unavailable"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
	}
}
