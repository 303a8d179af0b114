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

// MaintenanceRepository records equipment maintenance facts.
type MaintenanceRepository struct {
	store  storage.TabularStore
	master *MasterRepository
}

func NewMaintenanceRepository(store storage.TabularStore, master *MasterRepository) *MaintenanceRepository {
	return &MaintenanceRepository{store: store, master: master}
}

// Append validates the request against master data and stores the record.
// The equipment name is resolved from equipment_list, not trusted from the
// client.
func (r *MaintenanceRepository) Append(ctx context.Context, req models.MaintenanceRequest, author string) (models.MaintenanceRecord, error) {
	if req.WorkType != models.WorkTypePM && req.WorkType != models.WorkTypeBM && req.WorkType != models.WorkTypeCM {
		return models.MaintenanceRecord{}, fmt.Errorf("%w: work type %q", ErrInvalidInput, req.WorkType)
	}
	equipment, err := r.master.GetEquipment(ctx, req.EquipmentID)
	if err != nil {
		return models.MaintenanceRecord{}, err
	}

	rec := models.MaintenanceRecord{
		Date:            req.Date,
		EquipmentID:     equipment.ID,
		EquipmentName:   equipment.Name,
		WorkType:        req.WorkType,
		Description:     req.Description,
		PartsReplaced:   req.PartsReplaced,
		Cost:            req.Cost,
		Worker:          req.Worker,
		DowntimeMinutes: req.DowntimeMinutes,
		EnteredAt:       utils.NowKST(),
		Author:          author,
	}
	if err := r.store.AppendRow(ctx, storage.TableMaintenance, rowFromMaintenance(rec)); err != nil {
		return models.MaintenanceRecord{}, err
	}
	return rec, nil
}

// List returns maintenance records, newest entry first.
func (r *MaintenanceRepository) List(ctx context.Context) ([]models.MaintenanceRecord, error) {
	rows, err := r.store.ReadTable(ctx, storage.TableMaintenance, storage.ColsMaint)
	if err != nil {
		return nil, err
	}
	records := make([]models.MaintenanceRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, maintenanceFromRow(row))
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].EnteredAt.After(records[j].EnteredAt)
	})
	return records, nil
}

// UpdateByEnteredAt edits the record keyed by its entry timestamp, marking
// editor and edit time. The entry timestamp itself never changes.
func (r *MaintenanceRepository) UpdateByEnteredAt(ctx context.Context, enteredAt string, req models.MaintenanceRequest, editor string) error {
	if req.WorkType != models.WorkTypePM && req.WorkType != models.WorkTypeBM && req.WorkType != models.WorkTypeCM {
		return fmt.Errorf("%w: work type %q", ErrInvalidInput, req.WorkType)
	}
	equipment, err := r.master.GetEquipment(ctx, req.EquipmentID)
	if err != nil {
		return err
	}
	rows, err := r.store.ReadTable(ctx, storage.TableMaintenance, storage.ColsMaint)
	if err != nil {
		return err
	}
	found := false
	for i, row := range rows {
		if row[9] != enteredAt {
			continue
		}
		found = true
		rec := maintenanceFromRow(row)
		rec.Date = req.Date
		rec.EquipmentID = equipment.ID
		rec.EquipmentName = equipment.Name
		rec.WorkType = req.WorkType
		rec.Description = req.Description
		rec.PartsReplaced = req.PartsReplaced
		rec.Cost = req.Cost
		rec.Worker = req.Worker
		rec.DowntimeMinutes = req.DowntimeMinutes
		rec.Editor = editor
		rec.EditedAt = utils.FormatTime(utils.NowKST())
		rows[i] = rowFromMaintenance(rec)
	}
	if !found {
		return fmt.Errorf("%w: maintenance entry %s", ErrNotFound, enteredAt)
	}
	return r.store.WriteTable(ctx, storage.TableMaintenance, rows)
}

// DeleteByEnteredAt removes the record keyed by its entry timestamp.
func (r *MaintenanceRepository) DeleteByEnteredAt(ctx context.Context, enteredAt string) error {
	rows, err := r.store.ReadTable(ctx, storage.TableMaintenance, storage.ColsMaint)
	if err != nil {
		return err
	}
	kept := rows[:0]
	found := false
	for _, row := range rows {
		if row[9] == enteredAt {
			found = true
			continue
		}
		kept = append(kept, row)
	}
	if !found {
		return fmt.Errorf("%w: maintenance entry %s", ErrNotFound, enteredAt)
	}
	return r.store.WriteTable(ctx, storage.TableMaintenance, kept)
}

// Analysis aggregates the maintenance log: top downtime equipment, BM
// ratio, repeat breakdowns, and cost per work type. A BM share above 40%
// raises the preventive-maintenance alert.
func (r *MaintenanceRepository) Analysis(ctx context.Context) (models.MaintenanceAnalysis, error) {
	records, err := r.List(ctx)
	if err != nil {
		return models.MaintenanceAnalysis{}, err
	}

	var analysis models.MaintenanceAnalysis
	if len(records) == 0 {
		return analysis, nil
	}

	downtime := make(map[string]int)
	bmCounts := make(map[string]int)
	costs := make(map[string]int)
	bmTotal := 0
	for _, rec := range records {
		downtime[rec.EquipmentName] += rec.DowntimeMinutes
		costs[rec.WorkType] += rec.Cost
		if rec.WorkType == models.WorkTypeBM {
			bmCounts[rec.EquipmentName]++
			bmTotal++
		}
	}

	analysis.BMRatePct = float64(bmTotal) / float64(len(records)) * 100
	analysis.BMRateAlert = analysis.BMRatePct > 40

	for name, minutes := range downtime {
		analysis.TopDowntime = append(analysis.TopDowntime, models.DowntimeTotal{EquipmentName: name, DowntimeMinutes: minutes})
	}
	sort.Slice(analysis.TopDowntime, func(i, j int) bool {
		if analysis.TopDowntime[i].DowntimeMinutes != analysis.TopDowntime[j].DowntimeMinutes {
			return analysis.TopDowntime[i].DowntimeMinutes > analysis.TopDowntime[j].DowntimeMinutes
		}
		return analysis.TopDowntime[i].EquipmentName < analysis.TopDowntime[j].EquipmentName
	})
	if len(analysis.TopDowntime) > 3 {
		analysis.TopDowntime = analysis.TopDowntime[:3]
	}

	for name, count := range bmCounts {
		analysis.RepeatFailures = append(analysis.RepeatFailures, models.FailureCount{EquipmentName: name, Count: count})
	}
	sort.Slice(analysis.RepeatFailures, func(i, j int) bool {
		if analysis.RepeatFailures[i].Count != analysis.RepeatFailures[j].Count {
			return analysis.RepeatFailures[i].Count > analysis.RepeatFailures[j].Count
		}
		return analysis.RepeatFailures[i].EquipmentName < analysis.RepeatFailures[j].EquipmentName
	})
	if len(analysis.RepeatFailures) > 3 {
		analysis.RepeatFailures = analysis.RepeatFailures[:3]
	}

	for workType, cost := range costs {
		analysis.CostByWorkType = append(analysis.CostByWorkType, models.WorkTypeCost{WorkType: workType, Cost: cost})
	}
	sort.Slice(analysis.CostByWorkType, func(i, j int) bool {
		return analysis.CostByWorkType[i].WorkType < analysis.CostByWorkType[j].WorkType
	})
	return analysis, nil
}

func maintenanceFromRow(row storage.Row) models.MaintenanceRecord {
	return models.MaintenanceRecord{
		Date:            row[0],
		EquipmentID:     row[1],
		EquipmentName:   row[2],
		WorkType:        row[3],
		Description:     row[4],
		PartsReplaced:   row[5],
		Cost:            utils.ParseIntSafe(row[6]),
		Worker:          row[7],
		DowntimeMinutes: utils.ParseIntSafe(row[8]),
		EnteredAt:       utils.ParseTime(row[9]),
		Author:          row[10],
		Editor:          row[11],
		EditedAt:        row[12],
	}
}

func rowFromMaintenance(rec models.MaintenanceRecord) storage.Row {
	return storage.Row{
		rec.Date, rec.EquipmentID, rec.EquipmentName, rec.WorkType,
		rec.Description, rec.PartsReplaced, strconv.Itoa(rec.Cost),
		rec.Worker, strconv.Itoa(rec.DowntimeMinutes),
		utils.FormatTime(rec.EnteredAt), rec.Author, rec.Editor, rec.EditedAt,
	}
}
