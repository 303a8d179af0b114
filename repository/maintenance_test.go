package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leo-park82/SMT-Management/models"
	"github.com/leo-park82/SMT-Management/utils"
)

func newMaintenanceFixture(t *testing.T) (*MaintenanceRepository, *MasterRepository) {
	t.Helper()
	store := newFakeStore()
	master := NewMasterRepository(store)
	require.NoError(t, master.ReplaceEquipment(context.Background(), []models.Equipment{
		{ID: "E1", Name: "Reflow Oven #1", Function: "reflow soldering"},
		{ID: "E2", Name: "Mounter #1", Function: "component placement"},
	}))
	return NewMaintenanceRepository(store, master), master
}

func maintReq(equipmentID, workType string, cost, downtime int) models.MaintenanceRequest {
	return models.MaintenanceRequest{
		Date: "2024-01-15", EquipmentID: equipmentID, WorkType: workType,
		Description: "work", Cost: cost, Worker: "kim", DowntimeMinutes: downtime,
	}
}

func TestMaintenanceAppendResolvesEquipmentName(t *testing.T) {
	repo, _ := newMaintenanceFixture(t)
	ctx := context.Background()

	rec, err := repo.Append(ctx, maintReq("E1", models.WorkTypeBM, 45000, 40), "worker1")
	require.NoError(t, err)
	assert.Equal(t, "Reflow Oven #1", rec.EquipmentName)
	assert.Equal(t, "worker1", rec.Author)
	assert.False(t, rec.EnteredAt.IsZero())

	records, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, rec.EquipmentName, records[0].EquipmentName)
}

func TestMaintenanceAppendValidation(t *testing.T) {
	repo, _ := newMaintenanceFixture(t)
	ctx := context.Background()

	_, err := repo.Append(ctx, maintReq("E1", "XX", 0, 0), "worker1")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = repo.Append(ctx, maintReq("E99", models.WorkTypePM, 0, 0), "worker1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMaintenanceUpdateValidatesWorkType(t *testing.T) {
	repo, _ := newMaintenanceFixture(t)
	ctx := context.Background()

	rec, err := repo.Append(ctx, maintReq("E1", models.WorkTypeBM, 45000, 40), "worker1")
	require.NoError(t, err)
	key := utils.FormatTime(rec.EnteredAt)

	// An edit cannot smuggle in a work type Append would reject
	err = repo.UpdateByEnteredAt(ctx, key, maintReq("E1", "XX", 0, 0), "admin")
	assert.ErrorIs(t, err, ErrInvalidInput)

	records, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.WorkTypeBM, records[0].WorkType)
}

func TestMaintenanceUpdateAndDeleteByEnteredAt(t *testing.T) {
	repo, _ := newMaintenanceFixture(t)
	ctx := context.Background()

	rec, err := repo.Append(ctx, maintReq("E1", models.WorkTypeBM, 45000, 40), "worker1")
	require.NoError(t, err)
	key := utils.FormatTime(rec.EnteredAt)

	update := maintReq("E2", models.WorkTypePM, 10000, 20)
	require.NoError(t, repo.UpdateByEnteredAt(ctx, key, update, "admin"))

	records, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Mounter #1", records[0].EquipmentName)
	assert.Equal(t, models.WorkTypePM, records[0].WorkType)
	assert.Equal(t, "admin", records[0].Editor)
	assert.NotEmpty(t, records[0].EditedAt)
	// The row key never changes on edit
	assert.Equal(t, key, utils.FormatTime(records[0].EnteredAt))

	require.NoError(t, repo.DeleteByEnteredAt(ctx, key))
	records, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	assert.ErrorIs(t, repo.DeleteByEnteredAt(ctx, key), ErrNotFound)
	assert.ErrorIs(t, repo.UpdateByEnteredAt(ctx, key, update, "admin"), ErrNotFound)
}

func TestMaintenanceAnalysis(t *testing.T) {
	repo, _ := newMaintenanceFixture(t)
	ctx := context.Background()

	// 3 BM on E1, 1 PM on E2: BM rate 75% triggers the alert
	for i := 0; i < 3; i++ {
		_, err := repo.Append(ctx, maintReq("E1", models.WorkTypeBM, 10000, 30), "worker1")
		require.NoError(t, err)
	}
	_, err := repo.Append(ctx, maintReq("E2", models.WorkTypePM, 5000, 10), "worker1")
	require.NoError(t, err)

	analysis, err := repo.Analysis(ctx)
	require.NoError(t, err)

	assert.InDelta(t, 75.0, analysis.BMRatePct, 0.001)
	assert.True(t, analysis.BMRateAlert)

	require.NotEmpty(t, analysis.TopDowntime)
	assert.Equal(t, "Reflow Oven #1", analysis.TopDowntime[0].EquipmentName)
	assert.Equal(t, 90, analysis.TopDowntime[0].DowntimeMinutes)

	require.Len(t, analysis.RepeatFailures, 1)
	assert.Equal(t, 3, analysis.RepeatFailures[0].Count)

	require.Len(t, analysis.CostByWorkType, 2)
	costs := map[string]int{}
	for _, c := range analysis.CostByWorkType {
		costs[c.WorkType] = c.Cost
	}
	assert.Equal(t, 30000, costs[models.WorkTypeBM])
	assert.Equal(t, 5000, costs[models.WorkTypePM])
}

func TestMaintenanceAnalysisEmpty(t *testing.T) {
	repo, _ := newMaintenanceFixture(t)
	analysis, err := repo.Analysis(context.Background())
	require.NoError(t, err)
	assert.False(t, analysis.BMRateAlert)
	assert.Empty(t, analysis.TopDowntime)
}
