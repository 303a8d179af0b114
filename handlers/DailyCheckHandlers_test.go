package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leo-park82/SMT-Management/models"
	"github.com/leo-park82/SMT-Management/repository"
	"github.com/leo-park82/SMT-Management/storage"
)

func newDailyCheckRouter(t *testing.T) (*gin.Engine, *memStore, *repository.ChecklistRepository) {
	t.Helper()
	store := newMemStore()
	repo := repository.NewChecklistRepository(store)

	min, max := 150.0, 170.0
	require.NoError(t, repo.ReplaceDefinitions(context.Background(), []models.ChecklistDefinition{
		{Line: "L1", EquipmentID: "E1", EquipmentName: "Reflow Oven #1", ItemName: "Zone3 Temp",
			CheckType: models.CheckTypeNumeric, MinValue: &min, MaxValue: &max, Unit: "℃"},
		{Line: "L1", EquipmentID: "E1", EquipmentName: "Reflow Oven #1", ItemName: "Nozzle Clean",
			CheckType: models.CheckTypeOkNg},
	}))

	worker := models.Actor{UserID: "worker", Name: "작업자", Role: models.RoleWorker}
	r := gin.New()
	r.Use(asActor(worker))
	r.GET("/api/daily-check/sheet", GetDailyCheckSheetHandler(repo))
	r.GET("/api/daily-check/status", DailyCheckStatusHandler(repo))
	r.GET("/api/daily-check/results", DailyCheckResultsHandler(repo))
	r.POST("/api/daily-check", SubmitDailyCheckHandler(repo))
	return r, store, repo
}

func submitChecks(r *gin.Engine, body models.DailyCheckRequest) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/daily-check", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSubmitDailyCheckEvaluatesServerSide(t *testing.T) {
	r, _, repo := newDailyCheckRouter(t)

	w := submitChecks(r, models.DailyCheckRequest{
		Date: "2024-01-15", Line: "L1", Checker: "kim",
		Readings: []models.DailyCheckEntry{
			{EquipmentID: "E1", ItemName: "Zone3 Temp", RawValue: "149"},
			{EquipmentID: "E1", ItemName: "Nozzle Clean", RawValue: "OK"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Saved    int `json:"saved"`
		NGCount  int `json:"ng_count"`
		Verdicts []struct {
			ItemName string `json:"item_name"`
			Verdict  string `json:"verdict"`
		} `json:"verdicts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Saved)
	assert.Equal(t, 1, resp.NGCount)
	assert.Equal(t, models.VerdictNG, resp.Verdicts[0].Verdict, "149 is below the 150 bound")
	assert.Equal(t, models.VerdictOK, resp.Verdicts[1].Verdict)

	// The stored verdicts match what the handler reported
	results, err := repo.ReconciledForDate(context.Background(), "2024-01-15")
	require.NoError(t, err)
	require.Len(t, results, 2)
}

func TestSubmitDailyCheckRejectsUnknownItem(t *testing.T) {
	r, _, _ := newDailyCheckRouter(t)

	w := submitChecks(r, models.DailyCheckRequest{
		Date: "2024-01-15", Line: "L1",
		Readings: []models.DailyCheckEntry{
			{EquipmentID: "E1", ItemName: "No Such Item", RawValue: "1"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitDailyCheckRejectsInvalidValue(t *testing.T) {
	r, _, _ := newDailyCheckRouter(t)

	w := submitChecks(r, models.DailyCheckRequest{
		Date: "2024-01-15", Line: "L1",
		Readings: []models.DailyCheckEntry{
			{EquipmentID: "E1", ItemName: "Zone3 Temp", RawValue: "hot"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Zone3 Temp")
}

func TestDailyCheckSheetAndStatus(t *testing.T) {
	r, _, _ := newDailyCheckRouter(t)

	w := submitChecks(r, models.DailyCheckRequest{
		Date: "2024-01-15", Line: "L1",
		Readings: []models.DailyCheckEntry{
			{EquipmentID: "E1", ItemName: "Zone3 Temp", RawValue: "160"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/daily-check/sheet?line=L1&date=2024-01-15", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var sheet models.DailyCheckSheet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sheet))
	require.Len(t, sheet.Rows, 2)
	require.NotNil(t, sheet.Rows[0].Reading)
	assert.Equal(t, "160", sheet.Rows[0].Reading.Value)
	assert.Nil(t, sheet.Rows[1].Reading)
	assert.Equal(t, models.CompletionInProgress, sheet.Completion.State)

	req = httptest.NewRequest(http.MethodGet, "/api/daily-check/status?line=L1&date=2024-01-15", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var completion models.LineCompletion
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &completion))
	assert.Equal(t, 1, completion.CheckedItems)
	assert.Equal(t, 2, completion.TotalItems)
}

func TestDailyCheckStoreDownIsNot200(t *testing.T) {
	r, store, _ := newDailyCheckRouter(t)
	store.failRead[storage.TableCheckMaster] = true

	req := httptest.NewRequest(http.MethodGet, "/api/daily-check/sheet?line=L1&date=2024-01-15", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestDailyCheckSheetRequiresParams(t *testing.T) {
	r, _, _ := newDailyCheckRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/daily-check/sheet?line=L1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
