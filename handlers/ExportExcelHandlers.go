package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/leo-park82/SMT-Management/storage"
	"github.com/leo-park82/SMT-Management/utils"
)

// ExportTableHandler downloads any dashboard table as an .xlsx file
// @Summary Export table to Excel
// @Description Valid table names are the eight dashboard tables, e.g. production_data or inventory_history
// @Tags Exports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param table path string true "Table name"
// @Success 200 {file} binary
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /api/export/{table} [get]
func ExportTableHandler(store storage.TabularStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		table := c.Param("table")
		cols, ok := storage.TableColumns[table]
		// The sessions table holds live refresh tokens and is never exported
		if !ok || table == storage.TableSessions {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unknown table %q", table)})
			return
		}

		ctx, cancel := utils.GetSlowStoreContext(c.Request.Context())
		defer cancel()

		rows, err := store.ReadTable(ctx, table, cols)
		if err != nil {
			if errors.Is(err, storage.ErrStoreUnavailable) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Data store unavailable"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read table", "details": err.Error()})
			return
		}

		f := excelize.NewFile()
		defer f.Close()

		if _, err := f.NewSheet(table); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build workbook", "details": err.Error()})
			return
		}
		_ = f.DeleteSheet("Sheet1")

		header := make([]interface{}, len(cols))
		for i, col := range cols {
			header[i] = col
		}
		if err := f.SetSheetRow(table, "A1", &header); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build workbook", "details": err.Error()})
			return
		}
		for i, row := range rows {
			cells := make([]interface{}, len(row))
			for j, v := range row {
				cells[j] = v
			}
			cell, _ := excelize.CoordinatesToCellName(1, i+2)
			if err := f.SetSheetRow(table, cell, &cells); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build workbook", "details": err.Error()})
				return
			}
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to serialize workbook", "details": err.Error()})
			return
		}

		filename := fmt.Sprintf("%s_%s.xlsx", table, utils.NowKST().Format(utils.DateLayout))
		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	}
}
