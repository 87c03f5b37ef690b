package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/zv-rewards/zv-rewards-hub/internal/application/command"
	"github.com/zv-rewards/zv-rewards-hub/internal/application/eventhandler"
	"github.com/zv-rewards/zv-rewards-hub/internal/application/query"
	"github.com/zv-rewards/zv-rewards-hub/internal/domain/employee"
	"github.com/zv-rewards/zv-rewards-hub/internal/infrastructure/messaging"
	"github.com/zv-rewards/zv-rewards-hub/internal/infrastructure/persistence/memory"
)

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()

	anna, err := employee.NewState(employee.NewStateParams{
		ID:      "emp-1",
		Profile: employee.Profile{Name: "Анна", Role: "designer"},
		Points:  420,
	})
	require.NoError(t, err)
	boris, err := employee.NewState(employee.NewStateParams{
		ID:      "emp-2",
		Profile: employee.Profile{Name: "Борис", Role: "engineer"},
		Points:  850,
	})
	require.NoError(t, err)

	store := memory.NewStore([]*employee.State{anna, boris})
	bus := messaging.NewInMemoryEventBus(messaging.Config{AsyncMode: false})
	catalog := []employee.Reward{
		{ID: "coffee", Name: "Кофе с руководителем", Cost: 100, Category: "social"},
		{ID: "day-off", Name: "Дополнительный выходной", Cost: 500, Category: "time"},
	}
	feed := eventhandler.NewActivityFeedHandler(10, nil)
	require.NoError(t, bus.SubscribeAll(feed.Handle))

	deps := Dependencies{
		AdvanceChallenge: command.NewAdvanceChallengeHandler(store, bus),
		SubmitEvaluation: command.NewSubmitEvaluationHandler(store, bus),
		SubmitFeedback:   command.NewSubmitFeedbackHandler(store, bus),
		RedeemReward:     command.NewRedeemRewardHandler(store, catalog, bus),
		CheckIn:          command.NewCheckInHandler(store, bus, time.UTC),
		ImportSnapshot:   command.NewImportSnapshotHandler(store, bus),
		ResetEmployee:    command.NewResetEmployeeHandler(store, bus),

		GetEmployee:      query.NewGetEmployeeHandler(store),
		ListEmployees:    query.NewListEmployeesHandler(store),
		GetLeaderboard:   query.NewGetLeaderboardHandler(store, nil),
		GetKPITrend:      query.NewGetKPITrendHandler(store),
		ExportSnapshot:   query.NewExportSnapshotHandler(store),
		GetRewardCatalog: query.NewGetRewardCatalogHandler(store, catalog),

		ActivityFeed: feed,
	}
	return NewServer(cfg, deps)
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.EnableCORS = false
	cfg.RateLimitPerMinute = 0
	return cfg
}

func doRequest(s *Server, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) JSONResponse {
	t.Helper()
	var resp JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := doRequest(s, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestServer_GetEmployee(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := doRequest(s, http.MethodGet, "/api/v1/employees/emp-1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeEnvelope(t, rec)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "Анна", data["name"])
	assert.Equal(t, float64(420), data["points"])
}

func TestServer_GetEmployeeNotFound(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := doRequest(s, http.MethodGet, "/api/v1/employees/ghost", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	resp := decodeEnvelope(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "not_found", resp.Error.Code)
}

func TestServer_Leaderboard(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := doRequest(s, http.MethodGet, "/api/v1/leaderboard?limit=1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeEnvelope(t, rec)
	data := resp.Data.(map[string]interface{})
	entries := data["entries"].([]interface{})
	require.Len(t, entries, 1)
	first := entries[0].(map[string]interface{})
	assert.Equal(t, "emp-2", first["employee_id"])
}

func TestServer_CheckIn(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := doRequest(s, http.MethodPost, "/api/v1/employees/emp-1/checkin", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeEnvelope(t, rec)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(1), data["streak"])
	assert.Equal(t, float64(10), data["points_awarded"])

	// Вторая отметка в тот же день - конфликт.
	rec = doRequest(s, http.MethodPost, "/api/v1/employees/emp-1/checkin", "", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestServer_RedeemReward(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := doRequest(s, http.MethodPost, "/api/v1/employees/emp-1/redeem",
		`{"reward_id":"coffee"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeEnvelope(t, rec)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(320), data["remaining_points"])
}

func TestServer_RedeemInsufficientPoints(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := doRequest(s, http.MethodPost, "/api/v1/employees/emp-1/redeem",
		`{"reward_id":"day-off"}`, nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	resp := decodeEnvelope(t, rec)
	assert.Equal(t, "insufficient_points", resp.Error.Code)
}

func TestServer_SubmitEvaluation(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := doRequest(s, http.MethodPost, "/api/v1/employees/emp-1/evaluations",
		`{"type":"manager_review","scores":{"productivity":5},"comment":"отличный квартал"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decodeEnvelope(t, rec)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(450), data["points"])
}

func TestServer_InvalidJSONBody(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := doRequest(s, http.MethodPost, "/api/v1/employees/emp-1/redeem", `{not json`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_ValidationErrorStatus(t *testing.T) {
	s := newTestServer(t, testConfig())

	// Неизвестный тип оценки отклоняется доменной валидацией.
	rec := doRequest(s, http.MethodPost, "/api/v1/employees/emp-1/evaluations",
		`{"type":"360","scores":{"productivity":5}}`, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestServer_ExportSnapshotRawDocument(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := doRequest(s, http.MethodGet, "/api/v1/employees/emp-1/export", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

	var doc employee.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, 420, doc.Points)
}

func TestServer_FeedAfterActivity(t *testing.T) {
	s := newTestServer(t, testConfig())

	doRequest(s, http.MethodPost, "/api/v1/employees/emp-1/checkin", "", nil)

	rec := doRequest(s, http.MethodGet, "/api/v1/employees/emp-1/feed", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeEnvelope(t, rec)
	data := resp.Data.(map[string]interface{})
	items := data["items"].([]interface{})
	assert.NotEmpty(t, items)
}

func TestServer_AdminDisabledWithoutHash(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := doRequest(s, http.MethodPost, "/api/v1/admin/employees/emp-1/reset", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_AdminTokenFlow(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := testConfig()
	cfg.AdminTokenHash = string(hash)
	s := newTestServer(t, cfg)

	// Без токена.
	rec := doRequest(s, http.MethodPost, "/api/v1/admin/employees/emp-1/reset", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Неверный токен.
	rec = doRequest(s, http.MethodPost, "/api/v1/admin/employees/emp-1/reset", "",
		map[string]string{"X-Admin-Token": "wrong"})
	require.Equal(t, http.StatusForbidden, rec.Code)

	// Верный токен.
	rec = doRequest(s, http.MethodPost, "/api/v1/admin/employees/emp-1/reset", "",
		map[string]string{"X-Admin-Token": "s3cret"})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeEnvelope(t, rec)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(420), data["points"])
}

func TestServer_AdminImportRoundTrip(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := testConfig()
	cfg.AdminTokenHash = string(hash)
	s := newTestServer(t, cfg)

	export := doRequest(s, http.MethodGet, "/api/v1/employees/emp-2/export", "", nil)
	require.Equal(t, http.StatusOK, export.Code)

	rec := doRequest(s, http.MethodPost, "/api/v1/admin/employees/emp-1/import",
		export.Body.String(), map[string]string{"X-Admin-Token": "s3cret"})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeEnvelope(t, rec)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(850), data["points"])
}

func TestServer_RateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitPerMinute = 2
	s := newTestServer(t, cfg)

	headers := map[string]string{"X-Real-IP": "10.0.0.1"}
	require.Equal(t, http.StatusOK, doRequest(s, http.MethodGet, "/health", "", headers).Code)
	require.Equal(t, http.StatusOK, doRequest(s, http.MethodGet, "/health", "", headers).Code)

	rec := doRequest(s, http.MethodGet, "/health", "", headers)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}
