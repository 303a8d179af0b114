package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/leo-park82/SMT-Management/models"
	"github.com/leo-park82/SMT-Management/storage"
	"github.com/leo-park82/SMT-Management/utils"
)

// SMT mounting categories, the subset ranked in the model analysis.
var smtCategories = map[string]bool{
	models.CategoryPC:   true,
	models.CategoryCM1:  true,
	models.CategoryCM3:  true,
	models.CategoryDist: true,
}

// ProductionRepository records production facts and their stock coupling.
type ProductionRepository struct {
	store     storage.TabularStore
	inventory *InventoryRepository
}

func NewProductionRepository(store storage.TabularStore, inventory *InventoryRepository) *ProductionRepository {
	return &ProductionRepository{store: store, inventory: inventory}
}

// RecordProductionWithStock appends the production record and applies its
// inventory effect as one logical operation. DIST assembly never moves
// stock; POST and POST_OUT consume stock when autoDeduct is set; every
// other case books the produced quantity in.
//
// The two writes are not atomic in the store, so a failed ledger write
// compensates by removing the production row it just appended. The caller
// sees either both effects or neither, plus the error.
func (r *ProductionRepository) RecordProductionWithStock(ctx context.Context, rec models.ProductionRecord, autoDeduct bool) error {
	if !validCategory(rec.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidInput, rec.Category)
	}
	if err := r.store.AppendRow(ctx, storage.TableProduction, rowFromProduction(rec)); err != nil {
		return err
	}

	var delta int
	var reason string
	switch {
	case rec.Category == models.CategoryDist:
		return nil
	case (rec.Category == models.CategoryPost || rec.Category == models.CategoryPostOut) && autoDeduct:
		delta = -rec.Quantity
		reason = fmt.Sprintf("production-out(%s)", rec.Category)
	default:
		delta = rec.Quantity
		reason = fmt.Sprintf("production-in(%s)", rec.Category)
	}

	if _, err := r.inventory.ApplyDelta(ctx, rec.ItemCode, rec.ItemName, delta, reason, rec.Author); err != nil {
		if rbErr := r.DeleteByEnteredAt(ctx, utils.FormatTime(rec.EnteredAt)); rbErr != nil {
			return fmt.Errorf("stock update failed (%v) and production rollback failed: %w", err, rbErr)
		}
		return fmt.Errorf("stock update failed, production entry rolled back: %w", err)
	}
	return nil
}

// List returns production records, newest entry first. Empty bounds mean
// unbounded; dates compare lexically in the stored ISO form.
func (r *ProductionRepository) List(ctx context.Context, from, to string) ([]models.ProductionRecord, error) {
	rows, err := r.store.ReadTable(ctx, storage.TableProduction, storage.ColsProduction)
	if err != nil {
		return nil, err
	}
	records := make([]models.ProductionRecord, 0, len(rows))
	for _, row := range rows {
		rec := productionFromRow(row)
		if from != "" && rec.Date < from {
			continue
		}
		if to != "" && rec.Date > to {
			continue
		}
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].EnteredAt.After(records[j].EnteredAt)
	})
	return records, nil
}

// DeleteByEnteredAt removes the rows whose entry timestamp matches. The
// microsecond entry timestamp is the row key the office UI deletes by.
func (r *ProductionRepository) DeleteByEnteredAt(ctx context.Context, enteredAt string) error {
	rows, err := r.store.ReadTable(ctx, storage.TableProduction, storage.ColsProduction)
	if err != nil {
		return err
	}
	kept := rows[:0]
	found := false
	for _, row := range rows {
		if row[5] == enteredAt {
			found = true
			continue
		}
		kept = append(kept, row)
	}
	if !found {
		return fmt.Errorf("%w: production entry %s", ErrNotFound, enteredAt)
	}
	return r.store.WriteTable(ctx, storage.TableProduction, kept)
}

// Analysis aggregates production over a date range: totals, per-day and
// per-category sums, the SMT model ranking, and the week-over-week trend
// the dashboard raises alerts on.
func (r *ProductionRepository) Analysis(ctx context.Context, from, to string) (models.ProductionAnalysis, error) {
	records, err := r.List(ctx, from, to)
	if err != nil {
		return models.ProductionAnalysis{}, err
	}

	var analysis models.ProductionAnalysis
	if len(records) == 0 {
		return analysis, nil
	}

	dayCat := make(map[string]int)
	days := make(map[string]bool)
	modelTotals := make(map[string]int)
	maxDate := ""
	for _, rec := range records {
		analysis.TotalQuantity += rec.Quantity
		days[rec.Date] = true
		dayCat[rec.Date+"\x00"+rec.Category] += rec.Quantity
		if smtCategories[rec.Category] {
			modelTotals[rec.ItemName] += rec.Quantity
			analysis.SMTTotal += rec.Quantity
		}
		if rec.Date > maxDate {
			maxDate = rec.Date
		}
	}
	analysis.DailyAverage = float64(analysis.TotalQuantity) / float64(len(days))

	for key, qty := range dayCat {
		date, cat := splitKey(key)
		analysis.ByDayCategory = append(analysis.ByDayCategory, models.CategoryDaily{
			Date: date, Category: cat, Quantity: qty,
		})
	}
	sort.Slice(analysis.ByDayCategory, func(i, j int) bool {
		if analysis.ByDayCategory[i].Date != analysis.ByDayCategory[j].Date {
			return analysis.ByDayCategory[i].Date < analysis.ByDayCategory[j].Date
		}
		return analysis.ByDayCategory[i].Category < analysis.ByDayCategory[j].Category
	})

	for name, qty := range modelTotals {
		analysis.SMTModelRanking = append(analysis.SMTModelRanking, models.ModelTotal{ItemName: name, Quantity: qty})
	}
	sort.Slice(analysis.SMTModelRanking, func(i, j int) bool {
		if analysis.SMTModelRanking[i].Quantity != analysis.SMTModelRanking[j].Quantity {
			return analysis.SMTModelRanking[i].Quantity > analysis.SMTModelRanking[j].Quantity
		}
		return analysis.SMTModelRanking[i].ItemName < analysis.SMTModelRanking[j].ItemName
	})

	analysis.RecentWeekAvg, analysis.PreviousWeekAvg = weeklyAverages(records, maxDate)
	if analysis.PreviousWeekAvg > 0 {
		analysis.TrendRatePct = (analysis.RecentWeekAvg - analysis.PreviousWeekAvg) / analysis.PreviousWeekAvg * 100
		if analysis.TrendRatePct < -10 {
			analysis.TrendAlert = fmt.Sprintf("production down %.1f%% vs previous week", -analysis.TrendRatePct)
		} else if analysis.TrendRatePct > 10 {
			analysis.TrendAlert = fmt.Sprintf("production up %.1f%% vs previous week", analysis.TrendRatePct)
		}
	}
	return analysis, nil
}

// weeklyAverages returns the mean quantity per record over the 7 days
// ending at maxDate and over the 7 days before that window.
func weeklyAverages(records []models.ProductionRecord, maxDate string) (recent, previous float64) {
	end, err := utils.ParseDate(maxDate)
	if err != nil {
		return 0, 0
	}
	recentStart := end.AddDate(0, 0, -6)
	prevStart := recentStart.AddDate(0, 0, -7)

	var recentSum, prevSum, recentN, prevN int
	for _, rec := range records {
		d, err := utils.ParseDate(rec.Date)
		if err != nil {
			continue
		}
		switch {
		case !d.Before(recentStart) && !d.After(end):
			recentSum += rec.Quantity
			recentN++
		case !d.Before(prevStart) && d.Before(recentStart):
			prevSum += rec.Quantity
			prevN++
		}
	}
	if recentN > 0 {
		recent = float64(recentSum) / float64(recentN)
	}
	if prevN > 0 {
		previous = float64(prevSum) / float64(prevN)
	}
	return recent, previous
}

func validCategory(cat string) bool {
	for _, c := range models.ProductionCategories {
		if c == cat {
			return true
		}
	}
	return false
}

func splitKey(key string) (string, string) {
	for i := 0; i < len(key); i++ {
		if key[i] == '\x00' {
			return key[:i], key[i+1:]
		}
	}
	return key, ""
}

func productionFromRow(row storage.Row) models.ProductionRecord {
	return models.ProductionRecord{
		Date:      row[0],
		Category:  row[1],
		ItemCode:  row[2],
		ItemName:  row[3],
		Quantity:  utils.ParseIntSafe(row[4]),
		EnteredAt: utils.ParseTime(row[5]),
		Author:    row[6],
		Editor:    row[7],
		EditedAt:  row[8],
	}
}

func rowFromProduction(rec models.ProductionRecord) storage.Row {
	return storage.Row{
		rec.Date, rec.Category, rec.ItemCode, rec.ItemName,
		strconv.Itoa(rec.Quantity), utils.FormatTime(rec.EnteredAt),
		rec.Author, rec.Editor, rec.EditedAt,
	}
}
