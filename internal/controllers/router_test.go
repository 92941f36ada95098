package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poofware/coi-service/internal/app"
	"github.com/poofware/coi-service/internal/config"
	"github.com/poofware/coi-service/internal/dtos"
	"github.com/poofware/coi-service/internal/metrics"
	"github.com/poofware/coi-service/internal/models"
	"github.com/poofware/coi-service/internal/repositories"
	"github.com/poofware/coi-service/internal/services"
	"github.com/poofware/coi-service/internal/storage"
	"github.com/poofware/coi-service/internal/store"
	"github.com/poofware/coi-service/internal/utils"
)

var testNow = time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()
	kv := storage.NewMemoryKV()
	a := &app.App{
		Config:       &config.Config{StorageDriver: storage.DriverMemory},
		KV:           kv,
		Store:        store.NewRecordStore(),
		COIRepo:      repositories.NewCOIRepository(kv),
		PropertyRepo: repositories.NewPropertyRepository(kv),
		Metrics:      metrics.NewNop(),
	}
	clock := func() time.Time { return testNow }

	coiSvc := services.NewCOIService(a.Store, a.COIRepo, a.PropertyRepo, a.Metrics, app.DefaultDataset, clock)
	propSvc := services.NewPropertyService(a.Store, a.PropertyRepo, a.Metrics, clock)
	dashSvc := services.NewDashboardService(a.Store, time.Hour, clock)
	require.NoError(t, coiSvc.Load(context.Background(), true))

	return NewRouter(Controllers{
		Health:    NewHealthController(a),
		COI:       NewCOIController(coiSvc, dashSvc),
		Property:  NewPropertyController(propSvc),
		Dashboard: NewDashboardController(dashSvc),
		Admin:     NewAdminController(coiSvc),
		Metrics:   a.Metrics.Handler(),
	})
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func TestHealthAndMetrics(t *testing.T) {
	r := newTestRouter(t)

	rr := do(t, r, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, dtos.HealthCheckResponse{Status: "OK", Storage: "memory"}, decode[dtos.HealthCheckResponse](t, rr))

	rr = do(t, r, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "coi_orchestrator_operations_total")
}

func TestCOILifecycleOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	rr := do(t, r, http.MethodPost, "/api/v1/cois", dtos.CreateCOIRequest{
		Property:    "Oak Tree Tower",
		TenantName:  "Acme Retail",
		TenantEmail: "ops@acme.example",
		Unit:        "12B",
		COIName:     "Acme_GL_2026",
		ExpiryDate:  "2026-12-31",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decode[models.COIRecord](t, rr)
	assert.Equal(t, models.COIStatusNotProcessed, created.Status)

	rr = do(t, r, http.MethodGet, "/api/v1/cois/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"propertyDetails"`)

	rr = do(t, r, http.MethodPatch, "/api/v1/cois/"+created.ID, map[string]any{"notes": "checked", "row_version": 1})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "checked", decode[models.COIRecord](t, rr).Notes)

	rr = do(t, r, http.MethodPatch, "/api/v1/cois/"+created.ID, map[string]any{"notes": "stale", "row_version": 1})
	require.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, utils.ErrCodeRowVersionConflict, decode[utils.ErrorResponse](t, rr).Code)

	rr = do(t, r, http.MethodPatch, "/api/v1/cois/"+created.ID, map[string]any{"reminderStatus": "Bogus"})
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, r, http.MethodPost, "/api/v1/cois/"+created.ID+"/reminders", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, models.ReminderSent, decode[models.COIRecord](t, rr).ReminderStatus)

	rr = do(t, r, http.MethodDelete, "/api/v1/cois/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(t, r, http.MethodGet, "/api/v1/cois/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreateCOIErrorsOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	rr := do(t, r, http.MethodPost, "/api/v1/cois", "{not json")
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, utils.ErrCodeInvalidPayload, decode[utils.ErrorResponse](t, rr).Code)

	rr = do(t, r, http.MethodPost, "/api/v1/cois", map[string]string{"property": "Prestige"})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	resp := decode[struct {
		Code    string                       `json:"code"`
		Details []dtos.ValidationErrorDetail `json:"details"`
	}](t, rr)
	assert.Equal(t, utils.ErrCodeValidation, resp.Code)
	assert.NotEmpty(t, resp.Details)
}

func TestListCOIsQueryFilters(t *testing.T) {
	r := newTestRouter(t)

	rr := do(t, r, http.MethodGet, "/api/v1/cois?status=Expired", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 2, decode[dtos.ListCOIsResponse](t, rr).Total)

	rr = do(t, r, http.MethodGet, "/api/v1/cois?expiry_filter=expiring30&search_term=john", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[dtos.ListCOIsResponse](t, rr)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "5", list.Items[0].ID)
}

func TestBulkEndpoints(t *testing.T) {
	r := newTestRouter(t)

	rr := do(t, r, http.MethodPost, "/api/v1/cois/reminders/bulk", dtos.SendBulkRemindersRequest{IDs: []string{"1", "2"}})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Len(t, decode[dtos.SendBulkRemindersResponse](t, rr).Updated, 2)

	rr = do(t, r, http.MethodPost, "/api/v1/cois/bulk-delete", dtos.BulkDeleteRequest{IDs: []string{"1", "2"}})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, dtos.BulkDeleteResponse{Requested: 2, Removed: 2}, decode[dtos.BulkDeleteResponse](t, rr))

	rr = do(t, r, http.MethodGet, "/api/v1/dashboard", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 4, decode[dtos.DashboardView](t, rr).Stats.Total)
}

func TestPropertyEndpoints(t *testing.T) {
	r := newTestRouter(t)

	rr := do(t, r, http.MethodGet, "/api/v1/properties", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[dtos.ListPropertiesResponse](t, rr).Properties, 6)

	rr = do(t, r, http.MethodGet, "/api/v1/properties/options", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[dtos.PropertyOptionsResponse](t, rr).Options, 6)

	rr = do(t, r, http.MethodPost, "/api/v1/properties", dtos.CreatePropertyRequest{Name: "Prestige"})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = do(t, r, http.MethodPost, "/api/v1/properties", dtos.CreatePropertyRequest{Name: "Harbor Point"})
	require.Equal(t, http.StatusCreated, rr.Code)
	p := decode[models.Property](t, rr)

	rr = do(t, r, http.MethodDelete, "/api/v1/properties/prop_1", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = do(t, r, http.MethodDelete, "/api/v1/properties/"+p.ID, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestDashboardStateEndpoints(t *testing.T) {
	r := newTestRouter(t)

	rr := do(t, r, http.MethodPut, "/api/v1/dashboard/filters", map[string]string{"status": "Active"})
	require.Equal(t, http.StatusOK, rr.Code)
	rr = do(t, r, http.MethodGet, "/api/v1/dashboard", nil)
	assert.Equal(t, 2, decode[dtos.DashboardView](t, rr).FilteredCount)

	rr = do(t, r, http.MethodPut, "/api/v1/dashboard/search", dtos.SearchRequest{SearchTerm: "johnson"})
	assert.Equal(t, http.StatusAccepted, rr.Code)

	rr = do(t, r, http.MethodPut, "/api/v1/dashboard/search?flush=true", dtos.SearchRequest{SearchTerm: "johnson"})
	require.Equal(t, http.StatusOK, rr.Code)
	rr = do(t, r, http.MethodGet, "/api/v1/dashboard", nil)
	assert.Equal(t, 1, decode[dtos.DashboardView](t, rr).FilteredCount)

	rr = do(t, r, http.MethodDelete, "/api/v1/dashboard/filters", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, r, http.MethodPut, "/api/v1/dashboard/pagination", map[string]int{"rowsPerPage": 7})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = do(t, r, http.MethodPut, "/api/v1/dashboard/pagination", map[string]int{"rowsPerPage": 25})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"rowsPerPage":25`)

	rr = do(t, r, http.MethodPut, "/api/v1/dashboard/pagination", map[string]int{"page": 184467440737095516})
	require.Equal(t, http.StatusOK, rr.Code)
	rr = do(t, r, http.MethodGet, "/api/v1/dashboard", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[dtos.DashboardView](t, rr).Rows)

	rr = do(t, r, http.MethodPut, "/api/v1/dashboard/selection", dtos.SelectionRequest{IDs: []string{"1", "3"}})
	require.Equal(t, http.StatusOK, rr.Code)
	rr = do(t, r, http.MethodPost, "/api/v1/dashboard/selection/toggle", dtos.ToggleSelectionRequest{ID: "1"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"3"}, decode[dtos.SelectionResponse](t, rr).SelectedIDs)

	rr = do(t, r, http.MethodPost, "/api/v1/dashboard/selection/toggle", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, r, http.MethodGet, "/api/v1/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), `"total":6`))
}

func TestAdminEndpoints(t *testing.T) {
	r := newTestRouter(t)
	require.Equal(t, http.StatusNoContent, do(t, r, http.MethodDelete, "/api/v1/cois/1", nil).Code)

	rr := do(t, r, http.MethodPost, "/api/v1/admin/reset", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, dtos.ResetResponse{COIs: 6, Properties: 6}, decode[dtos.ResetResponse](t, rr))

	rr = do(t, r, http.MethodPost, "/api/v1/admin/reinitialize", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 6, decode[dtos.ResetResponse](t, rr).COIs)
}
