package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/leo-park82/SMT-Management/models"
	"github.com/leo-park82/SMT-Management/repository"
	"github.com/leo-park82/SMT-Management/storage"
)

func newInventoryRouter() (*gin.Engine, *memStore) {
	store := newMemStore()
	repo := repository.NewInventoryRepository(store)

	worker := models.Actor{UserID: "worker", Name: "작업자", Role: models.RoleWorker}
	r := gin.New()
	r.Use(asActor(worker))
	r.GET("/api/inventory", GetInventoryHandler(repo))
	r.GET("/api/inventory/history", GetInventoryHistoryHandler(repo))
	r.POST("/api/inventory/adjust", AdjustInventoryHandler(repo))
	r.DELETE("/api/inventory/:itemCode", DeleteInventoryItemHandler(repo))
	r.GET("/api/export/:table", ExportTableHandler(store))
	return r, store
}

func adjust(r *gin.Engine, body models.AdjustInventoryRequest) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/inventory/adjust", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdjustInventoryRecordsAuthor(t *testing.T) {
	r, store := newInventoryRouter()

	w := adjust(r, models.AdjustInventoryRequest{ItemCode: "A001", ItemName: "WidgetA", Delta: 100, Reason: "initial stock"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var item models.InventoryItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	assert.Equal(t, 100, item.CurrentBalance)

	// The ledger entry carries the request actor, not a client-sent name
	rows := store.tables[storage.TableInventoryHistory]
	require.Len(t, rows, 1)
	assert.Equal(t, "worker", rows[0][5])
}

func TestInventoryListAndHistory(t *testing.T) {
	r, _ := newInventoryRouter()

	require.Equal(t, http.StatusOK, adjust(r, models.AdjustInventoryRequest{ItemCode: "A001", ItemName: "WidgetA", Delta: 100, Reason: "in"}).Code)
	require.Equal(t, http.StatusOK, adjust(r, models.AdjustInventoryRequest{ItemCode: "A001", Delta: -100, Reason: "out"}).Code)
	require.Equal(t, http.StatusOK, adjust(r, models.AdjustInventoryRequest{ItemCode: "B002", ItemName: "WidgetB", Delta: 30, Reason: "in"}).Code)

	req := httptest.NewRequest(http.MethodGet, "/api/inventory", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var items []models.InventoryItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1, "zero-balance row is hidden")
	assert.Equal(t, "B002", items[0].ItemCode)

	req = httptest.NewRequest(http.MethodGet, "/api/inventory/history?itemCode=A001", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var entries []models.InventoryLedgerEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, models.DirectionOut, entries[0].Direction)
}

func TestDeleteInventoryItem(t *testing.T) {
	r, _ := newInventoryRouter()

	require.Equal(t, http.StatusOK, adjust(r, models.AdjustInventoryRequest{ItemCode: "A001", ItemName: "WidgetA", Delta: 10, Reason: "in"}).Code)

	req := httptest.NewRequest(http.MethodDelete, "/api/inventory/A001", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/inventory/A001", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInventoryStoreDown(t *testing.T) {
	r, store := newInventoryRouter()
	store.failRead[storage.TableInventory] = true

	req := httptest.NewRequest(http.MethodGet, "/api/inventory", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestExportTable(t *testing.T) {
	r, _ := newInventoryRouter()

	require.Equal(t, http.StatusOK, adjust(r, models.AdjustInventoryRequest{ItemCode: "A001", ItemName: "WidgetA", Delta: 100, Reason: "in"}).Code)

	req := httptest.NewRequest(http.MethodGet, "/api/export/inventory_data", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "inventory_data")

	// The payload is a readable workbook with header plus one data row
	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(storage.TableInventory)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "item_code", rows[0][0])
	assert.Equal(t, "A001", rows[1][0])
}

func TestExportUnknownTable(t *testing.T) {
	r, _ := newInventoryRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/export/secrets", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
