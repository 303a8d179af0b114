package services

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leo-park82/SMT-Management/models"
)

// reportFont loads the CJK font when one is configured so Korean item and
// equipment names render; otherwise reports fall back to the built-in
// Arial and non-latin text degrades.
func reportFont(pdf *gofpdf.Fpdf) string {
	fontPath := os.Getenv("REPORT_FONT_PATH")
	if fontPath == "" {
		fontPath = "NanumGothic.ttf"
	}
	if _, err := os.Stat(fontPath); err != nil {
		return "Arial"
	}
	pdf.AddUTF8Font("Korean", "", fontPath)
	pdf.AddUTF8Font("Korean", "U", fontPath)
	pdf.AddUTF8Font("Korean", "I", fontPath)
	if pdf.Err() {
		return "Arial"
	}
	return "Korean"
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + ".."
}

// GenerateProductionReportPDF renders the daily production report: the
// day's production table with its total, followed by the active inventory
// snapshot.
func GenerateProductionReportPDF(records []models.ProductionRecord, inventory []models.InventoryItem, dateLabel string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	font := reportFont(pdf)
	titleCaser := cases.Title(language.Und)

	pdf.AddPage()
	pdf.SetFillColor(50, 50, 50)
	pdf.Rect(0, 0, 210, 25, "F")
	pdf.SetFont(font, "", 20)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetXY(10, 5)
	pdf.CellFormat(0, 15, "Production Daily Report", "", 0, "L", false, 0, "")
	pdf.SetFont(font, "", 10)
	pdf.SetXY(10, 5)
	pdf.CellFormat(0, 15, "Date: "+dateLabel, "", 0, "R", false, 0, "")
	pdf.Ln(25)

	// 1. Production result
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont(font, "", 14)
	pdf.CellFormat(0, 10, "1. Daily Production Result", "", 1, "L", false, 0, "")

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont(font, "", 10)
	headers := []string{"Category", "Item Code", "Item Name", "Qty", "Author"}
	widths := []float64{25, 35, 80, 25, 25}
	for i, h := range headers {
		pdf.CellFormat(widths[i], 10, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	fill := false
	pdf.SetFillColor(250, 250, 250)
	total := 0
	if len(records) == 0 {
		pdf.CellFormat(190, 10, "No Production Data", "1", 1, "C", fill, 0, "")
	}
	for _, rec := range records {
		pdf.CellFormat(widths[0], 8, titleCaser.String(strings.ToLower(rec.Category)), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(widths[1], 8, rec.ItemCode, "1", 0, "C", fill, 0, "")
		pdf.CellFormat(widths[2], 8, truncate(rec.ItemName, 25), "1", 0, "L", fill, 0, "")
		total += rec.Quantity
		pdf.CellFormat(widths[3], 8, fmt.Sprintf("%d", rec.Quantity), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(widths[4], 8, rec.Author, "1", 1, "C", fill, 0, "")
		fill = !fill
	}

	pdf.Ln(2)
	pdf.SetFont(font, "", 12)
	pdf.CellFormat(0, 10, fmt.Sprintf("Total Quantity: %d EA", total), "", 1, "R", false, 0, "")

	// 2. Inventory snapshot
	if len(inventory) > 0 {
		pdf.Ln(10)
		pdf.SetFont(font, "", 14)
		pdf.CellFormat(0, 10, "2. Current Inventory Status", "", 1, "L", false, 0, "")

		pdf.SetFont(font, "", 10)
		pdf.SetFillColor(240, 240, 240)
		invHeaders := []string{"Item Code", "Item Name", "Stock"}
		invWidths := []float64{40, 100, 50}
		for i, h := range invHeaders {
			pdf.CellFormat(invWidths[i], 10, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		fill = false
		pdf.SetFillColor(250, 250, 250)
		for _, item := range inventory {
			pdf.CellFormat(invWidths[0], 8, item.ItemCode, "1", 0, "C", fill, 0, "")
			pdf.CellFormat(invWidths[1], 8, truncate(item.ItemName, 35), "1", 0, "L", fill, 0, "")
			pdf.CellFormat(invWidths[2], 8, fmt.Sprintf("%d", item.CurrentBalance), "1", 1, "R", fill, 0, "")
			fill = !fill
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render production report: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateDailyCheckPDF renders the daily check report, one page per line:
// the line's master items with the day's reconciled readings, OK/NG counts
// in the page header, NG rows highlighted with their notes underneath.
func GenerateDailyCheckPDF(defs []models.ChecklistDefinition, reconciled map[models.CheckKey]models.ChecklistReading, dateLabel string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	font := reportFont(pdf)

	checkerName := ""
	for _, reading := range reconciled {
		if reading.Checker != "" {
			checkerName = reading.Checker
			break
		}
	}

	var lines []string
	seen := make(map[string]bool)
	for _, def := range defs {
		if !seen[def.Line] {
			seen[def.Line] = true
			lines = append(lines, def.Line)
		}
	}

	firstPage := true
	for _, line := range lines {
		pdf.AddPage()
		pdf.SetFillColor(63, 81, 181)
		pdf.Rect(0, 0, 210, 25, "F")
		pdf.SetFont(font, "", 20)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetXY(10, 5)
		pdf.CellFormat(0, 15, "SMT Daily Check Report", "", 0, "L", false, 0, "")

		pdf.SetFont(font, "", 10)
		pdf.SetXY(10, 5)
		pdf.CellFormat(0, 15, "Date: "+dateLabel, "", 0, "R", false, 0, "")
		if firstPage && checkerName != "" {
			pdf.SetXY(10, 12)
			pdf.CellFormat(0, 15, "Checker: "+checkerName, "", 0, "R", false, 0, "")
			firstPage = false
		}
		pdf.Ln(25)

		total, ok, ng := 0, 0, 0
		for _, def := range defs {
			if def.Line != line {
				continue
			}
			total++
			key := models.CheckKey{Line: def.Line, EquipmentID: def.EquipmentID, ItemName: def.ItemName}
			if reading, found := reconciled[key]; found {
				switch reading.Verdict {
				case models.VerdictOK:
					ok++
				case models.VerdictNG:
					ng++
				}
			}
		}

		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont(font, "", 16)
		pdf.CellFormat(0, 10, line, "", 1, "L", false, 0, "")
		pdf.SetFont(font, "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, 6, fmt.Sprintf("Total: %d  |  OK: %d  |  NG: %d", total, ok, ng), "", 1, "L", false, 0, "")
		pdf.Ln(4)

		pdf.SetFillColor(240, 242, 245)
		pdf.SetTextColor(60, 60, 60)
		pdf.SetDrawColor(220, 220, 220)
		pdf.SetLineWidth(0.3)
		pdf.SetFont(font, "", 10)
		headers := []string{"Equipment", "Check Item", "Standard", "Value", "Verdict", "Checker"}
		widths := []float64{45, 50, 45, 20, 15, 15}
		for i, h := range headers {
			pdf.CellFormat(widths[i], 10, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		fill := false
		pdf.SetFillColor(250, 250, 250)
		for _, def := range defs {
			if def.Line != line {
				continue
			}
			value, verdict, checker, note := "-", "-", "", ""
			key := models.CheckKey{Line: def.Line, EquipmentID: def.EquipmentID, ItemName: def.ItemName}
			if reading, found := reconciled[key]; found {
				if reading.Value != "" {
					value = reading.Value
				}
				verdict = reading.Verdict
				checker = reading.Checker
				note = reading.Note
			}

			pdf.SetTextColor(0, 0, 0)
			pdf.CellFormat(widths[0], 8, truncate(def.EquipmentName, 18), "1", 0, "L", fill, 0, "")
			pdf.CellFormat(widths[1], 8, def.ItemName, "1", 0, "L", fill, 0, "")
			pdf.CellFormat(widths[2], 8, def.Standard, "1", 0, "C", fill, 0, "")
			pdf.CellFormat(widths[3], 8, value, "1", 0, "C", fill, 0, "")

			switch verdict {
			case models.VerdictNG:
				pdf.SetTextColor(220, 38, 38)
				pdf.SetFont(font, "U", 10)
			case models.VerdictOK:
				pdf.SetTextColor(22, 163, 74)
				pdf.SetFont(font, "", 10)
			default:
				pdf.SetTextColor(150, 150, 150)
				pdf.SetFont(font, "", 10)
			}
			pdf.CellFormat(widths[4], 8, verdict, "1", 0, "C", fill, 0, "")
			pdf.SetFont(font, "", 10)
			pdf.SetTextColor(0, 0, 0)
			pdf.CellFormat(widths[5], 8, checker, "1", 1, "C", fill, 0, "")

			if verdict == models.VerdictNG && note != "" {
				pdf.SetFont(font, "I", 9)
				pdf.SetTextColor(100, 100, 100)
				pdf.CellFormat(190, 6, "   - Action taken: "+note, "1", 1, "L", fill, 0, "")
				pdf.SetFont(font, "", 10)
				pdf.SetTextColor(0, 0, 0)
			}
			fill = !fill
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render daily check report: %w", err)
	}
	return buf.Bytes(), nil
}
