package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"

	"github.com/leo-park82/SMT-Management/repository"
	"github.com/leo-park82/SMT-Management/storage"
	"github.com/leo-park82/SMT-Management/utils"
)

// addLabel draws a text line onto the label area of the QR image
func addLabel(img *image.RGBA, x, y int, label string, bold bool) {
	face := inconsolata.Regular8x16
	if bold {
		face = inconsolata.Bold8x16
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{0, 0, 0, 255}),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(x * 64),
			Y: fixed.Int26_6(y * 64),
		},
	}
	d.DrawString(label)
}

// EquipmentQRHandler generates a printable QR label for an equipment unit
// @Summary Equipment QR label
// @Description JPEG QR code carrying the equipment identity, with ID and name captioned below for floor scanning
// @Tags QR
// @Produce image/jpeg
// @Param id path string true "Equipment ID"
// @Success 200 {file} binary
// @Failure 404 {object} models.ErrorResponse
// @Router /api/qr/equipment/{id} [get]
func EquipmentQRHandler(master *repository.MasterRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Equipment ID is required"})
			return
		}

		ctx, cancel := utils.GetDefaultStoreContext(c.Request.Context())
		defer cancel()

		equipment, err := master.GetEquipment(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Equipment not found"})
				return
			}
			if errors.Is(err, storage.ErrStoreUnavailable) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Data store unavailable"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch equipment", "details": err.Error()})
			return
		}

		payload, err := json.Marshal(gin.H{
			"equipment_id": equipment.ID,
			"name":         equipment.Name,
			"function":     equipment.Function,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode QR payload"})
			return
		}

		qr, err := qrcode.New(string(payload), qrcode.Medium)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate QR code"})
			return
		}

		const qrSize = 256
		const labelHeight = 48
		qrImg := qr.Image(qrSize)

		combined := image.NewRGBA(image.Rect(0, 0, qrSize, qrSize+labelHeight))
		draw.Draw(combined, combined.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
		draw.Draw(combined, image.Rect(0, 0, qrSize, qrSize), qrImg, image.Point{}, draw.Over)

		addLabel(combined, 10, qrSize+18, equipment.ID, true)
		addLabel(combined, 10, qrSize+38, equipment.Name, false)

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, combined, nil); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode image"})
			return
		}

		c.Header("Content-Disposition", "inline; filename=equipment_"+equipment.ID+".jpg")
		c.Data(http.StatusOK, "image/jpeg", buf.Bytes())
	}
}
