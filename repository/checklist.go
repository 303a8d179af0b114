package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/leo-park82/SMT-Management/models"
	"github.com/leo-park82/SMT-Management/storage"
	"github.com/leo-park82/SMT-Management/utils"
)

// Evaluate applies a checklist definition to raw operator input and returns
// the verdict plus the normalized value to store.
//
// Numeric items are judged against the optional min/max thresholds; the
// compliant range is inclusive of both bounds, so a reading exactly on a
// bound is OK. A missing bound means that side is unbounded. OX items take
// the operator's judgement directly and accept nothing but the literal
// tokens OK and NG.
func Evaluate(def models.ChecklistDefinition, rawInput string) (verdict, normalized string, err error) {
	switch def.CheckType {
	case models.CheckTypeOkNg:
		v := strings.TrimSpace(rawInput)
		if v != models.VerdictOK && v != models.VerdictNG {
			return "", "", fmt.Errorf("%w: OX item expects OK or NG, got %q", ErrInvalidInput, rawInput)
		}
		return v, "", nil

	case models.CheckTypeNumeric:
		v, parseErr := strconv.ParseFloat(strings.TrimSpace(rawInput), 64)
		if parseErr != nil {
			return "", "", fmt.Errorf("%w: not a number: %q", ErrInvalidInput, rawInput)
		}
		verdict = models.VerdictOK
		if def.MinValue != nil && v < *def.MinValue {
			verdict = models.VerdictNG
		}
		if def.MaxValue != nil && v > *def.MaxValue {
			verdict = models.VerdictNG
		}
		return verdict, strconv.FormatFloat(v, 'f', -1, 64), nil

	default:
		return "", "", fmt.Errorf("%w: unknown check type %q", ErrInvalidInput, def.CheckType)
	}
}

// ReconcileLatest collapses duplicate submissions to the logically current
// reading per (line, equipment, item) key: the reading with the latest
// SubmittedAt wins. When two readings carry the exact same timestamp the
// one later in input order wins; append order is the submission order, so
// this resolves equal-timestamp resubmissions in favor of the newer row.
func ReconcileLatest(readings []models.ChecklistReading) map[models.CheckKey]models.ChecklistReading {
	out := make(map[models.CheckKey]models.ChecklistReading, len(readings))
	for _, r := range readings {
		key := models.CheckKey{Line: r.Line, EquipmentID: r.EquipmentID, ItemName: r.ItemName}
		current, ok := out[key]
		if !ok || !r.SubmittedAt.Before(current.SubmittedAt) {
			out[key] = r
		}
	}
	return out
}

// ComputeLineCompletion reports checklist progress for one line and date.
// CheckedItems counts keys present in both the master definitions for the
// line and the reconciled readings; extra readings with no matching
// definition do not count.
func ComputeLineCompletion(line, date string, defs []models.ChecklistDefinition, reconciled map[models.CheckKey]models.ChecklistReading) models.LineCompletion {
	total := 0
	checked := 0
	for _, def := range defs {
		if def.Line != line {
			continue
		}
		total++
		key := models.CheckKey{Line: def.Line, EquipmentID: def.EquipmentID, ItemName: def.ItemName}
		if _, ok := reconciled[key]; ok {
			checked++
		}
	}

	state := models.CompletionNotStarted
	switch {
	case checked == 0:
		state = models.CompletionNotStarted
	case checked < total:
		state = models.CompletionInProgress
	default:
		state = models.CompletionComplete
	}
	return models.LineCompletion{
		Line:         line,
		Date:         date,
		TotalItems:   total,
		CheckedItems: checked,
		State:        state,
	}
}

// ChecklistRepository reads and writes the daily check tables.
type ChecklistRepository struct {
	store storage.TabularStore
}

func NewChecklistRepository(store storage.TabularStore) *ChecklistRepository {
	return &ChecklistRepository{store: store}
}

// Definitions loads the whole daily_check_master table in sheet order.
func (r *ChecklistRepository) Definitions(ctx context.Context) ([]models.ChecklistDefinition, error) {
	rows, err := r.store.ReadTable(ctx, storage.TableCheckMaster, storage.ColsCheckMast)
	if err != nil {
		return nil, err
	}
	defs := make([]models.ChecklistDefinition, 0, len(rows))
	for _, row := range rows {
		defs = append(defs, definitionFromRow(row))
	}
	return defs, nil
}

// Lines returns the distinct lines of the master sheet in first-seen order.
func (r *ChecklistRepository) Lines(ctx context.Context) ([]string, error) {
	defs, err := r.Definitions(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var lines []string
	for _, def := range defs {
		if !seen[def.Line] {
			seen[def.Line] = true
			lines = append(lines, def.Line)
		}
	}
	return lines, nil
}

// ReplaceDefinitions overwrites the master sheet (admin master-data edit).
func (r *ChecklistRepository) ReplaceDefinitions(ctx context.Context, defs []models.ChecklistDefinition) error {
	rows := make([]storage.Row, len(defs))
	for i, def := range defs {
		rows[i] = rowFromDefinition(def)
	}
	return r.store.WriteTable(ctx, storage.TableCheckMaster, rows)
}

// ReadingsForDate loads every submitted reading for one calendar date.
// Result dates may carry a trailing time component from older clients, so
// only the leading date token is compared.
func (r *ChecklistRepository) ReadingsForDate(ctx context.Context, date string) ([]models.ChecklistReading, error) {
	rows, err := r.store.ReadTable(ctx, storage.TableCheckResult, storage.ColsCheckRes)
	if err != nil {
		return nil, err
	}
	var readings []models.ChecklistReading
	for _, row := range rows {
		reading := readingFromRow(row)
		if dateOnly(reading.Date) == date {
			readings = append(readings, reading)
		}
	}
	return readings, nil
}

// SaveReadings appends a submitted batch as-is; history is append-only and
// supersession happens at read time via ReconcileLatest.
func (r *ChecklistRepository) SaveReadings(ctx context.Context, readings []models.ChecklistReading) error {
	rows := make([]storage.Row, len(readings))
	for i, reading := range readings {
		rows[i] = rowFromReading(reading)
	}
	return r.store.AppendRows(ctx, storage.TableCheckResult, rows)
}

// Sheet joins the line's definitions with the date's reconciled readings
// for the prefilled check-input screen.
func (r *ChecklistRepository) Sheet(ctx context.Context, line, date string) (models.DailyCheckSheet, error) {
	defs, err := r.Definitions(ctx)
	if err != nil {
		return models.DailyCheckSheet{}, err
	}
	readings, err := r.ReadingsForDate(ctx, date)
	if err != nil {
		return models.DailyCheckSheet{}, err
	}
	reconciled := ReconcileLatest(readings)

	var sheetRows []models.SheetRow
	for _, def := range defs {
		if def.Line != line {
			continue
		}
		row := models.SheetRow{Definition: def}
		key := models.CheckKey{Line: def.Line, EquipmentID: def.EquipmentID, ItemName: def.ItemName}
		if reading, ok := reconciled[key]; ok {
			r := reading
			row.Reading = &r
		}
		sheetRows = append(sheetRows, row)
	}
	return models.DailyCheckSheet{
		Line:       line,
		Date:       date,
		Rows:       sheetRows,
		Completion: ComputeLineCompletion(line, date, defs, reconciled),
	}, nil
}

// Completion computes the progress state for one line and date.
func (r *ChecklistRepository) Completion(ctx context.Context, line, date string) (models.LineCompletion, error) {
	defs, err := r.Definitions(ctx)
	if err != nil {
		return models.LineCompletion{}, err
	}
	readings, err := r.ReadingsForDate(ctx, date)
	if err != nil {
		return models.LineCompletion{}, err
	}
	return ComputeLineCompletion(line, date, defs, ReconcileLatest(readings)), nil
}

// ReconciledForDate returns the date's current readings across every line,
// sorted for stable report output.
func (r *ChecklistRepository) ReconciledForDate(ctx context.Context, date string) ([]models.ChecklistReading, error) {
	readings, err := r.ReadingsForDate(ctx, date)
	if err != nil {
		return nil, err
	}
	reconciled := ReconcileLatest(readings)
	out := make([]models.ChecklistReading, 0, len(reconciled))
	for _, reading := range reconciled {
		out = append(out, reading)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}
		if out[i].EquipmentID != out[j].EquipmentID {
			return out[i].EquipmentID < out[j].EquipmentID
		}
		return out[i].ItemName < out[j].ItemName
	})
	return out, nil
}

func dateOnly(s string) string {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func definitionFromRow(row storage.Row) models.ChecklistDefinition {
	return models.ChecklistDefinition{
		Line:          row[0],
		EquipmentID:   row[1],
		EquipmentName: row[2],
		ItemName:      row[3],
		CheckContent:  row[4],
		Standard:      row[5],
		CheckType:     row[6],
		MinValue:      utils.ParseFloatPtr(row[7]),
		MaxValue:      utils.ParseFloatPtr(row[8]),
		Unit:          row[9],
	}
}

func rowFromDefinition(def models.ChecklistDefinition) storage.Row {
	return storage.Row{
		def.Line, def.EquipmentID, def.EquipmentName, def.ItemName,
		def.CheckContent, def.Standard, def.CheckType,
		utils.FormatFloatPtr(def.MinValue), utils.FormatFloatPtr(def.MaxValue),
		def.Unit,
	}
}

func readingFromRow(row storage.Row) models.ChecklistReading {
	return models.ChecklistReading{
		Date:        row[0],
		Line:        row[1],
		EquipmentID: row[2],
		ItemName:    row[3],
		Value:       row[4],
		Verdict:     row[5],
		Checker:     row[6],
		SubmittedAt: utils.ParseTime(row[7]),
		Note:        row[8],
	}
}

func rowFromReading(r models.ChecklistReading) storage.Row {
	return storage.Row{
		r.Date, r.Line, r.EquipmentID, r.ItemName,
		r.Value, r.Verdict, r.Checker,
		utils.FormatTime(r.SubmittedAt), r.Note,
	}
}
