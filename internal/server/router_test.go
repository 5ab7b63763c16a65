package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kiosk-api/internal/handler"
	"github.com/noah-isme/kiosk-api/internal/repository"
	"github.com/noah-isme/kiosk-api/internal/service"
	"github.com/noah-isme/kiosk-api/pkg/clock"
	"github.com/noah-isme/kiosk-api/pkg/config"
)

const scheduleFixture = `{
  "lastUpdated": "01.09.2024",
  "weekType": "ODD",
  "schedules": [
    {"className": "5А", "days": {"monday": [
      {"number": 1, "time": "08:30-09:15", "subject": "Математика", "teacher": "Иванова И.И.", "classroom": "12"},
      {"number": 2, "time": "09:30-10:15", "subject": "Русский язык", "teacher": "Петрова П.П.", "classroom": "14"}
    ]}},
    {"className": "10Б", "days": {"tuesday": [
      {"number": 1, "time": "08:30-09:15", "subject": "Физика", "teacher": "Сидоров С.С.", "classroom": "21"}
    ]}}
  ],
  "breakSettings": {"break1Duration": 15}
}`

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	schedulePath := filepath.Join(dir, "schedule.json")
	require.NoError(t, os.WriteFile(schedulePath, []byte(scheduleFixture), 0o600))

	cfg := &config.Config{Env: config.EnvDevelopment, APIPrefix: "/api/v1"}
	clk := clock.Fixed{At: time.Date(2024, 9, 2, 8, 40, 0, 0, time.UTC)}

	store := repository.NewSnapshotStore(nil)
	metrics := service.NewMetricsService()
	refresh := service.NewRefreshService(
		repository.NewScheduleFileRepository(schedulePath, nil),
		repository.NewSubstitutionDocxRepository(filepath.Join(dir, "missing.docx"), clk.Now, nil),
		store, nil, metrics, nil, clk, service.RefreshConfig{}, nil,
	)
	_, err := refresh.Reload(context.Background())
	require.NoError(t, err)

	kiosk := service.NewKioskService(store, clk, nil, metrics, cfg, nil)
	auth, err := service.NewAuthService(nil, nil, service.AuthConfig{Secret: "secret", Expiration: time.Hour, Passcode: "1234"})
	require.NoError(t, err)

	handlers := Handlers{
		Kiosk:   handler.NewKioskHandler(kiosk),
		Export:  handler.NewExportHandler(service.NewExportService(store, clk, cfg.Export, nil), kiosk.Now),
		Weather: handler.NewWeatherHandler(service.NewWeatherService(cfg.Weather, nil, nil, metrics, clk, nil)),
		Auth:    handler.NewAuthHandler(auth),
		Admin:   handler.NewAdminHandler(refresh, metrics),
		Metrics: handler.NewMetricsHandler(metrics, map[string]handler.ReadinessCheck{
			"snapshot": func(context.Context) error { return nil },
		}),
	}
	return NewRouter(cfg, handlers, auth, metrics, nil)
}

func request(r http.Handler, method, target, token string, body interface{}) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRouterServesKioskRoutes(t *testing.T) {
	r := newTestRouter(t)

	rec := request(r, http.MethodGet, "/api/v1/classes", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data []string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, []string{"5А", "10Б"}, envelope.Data)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = request(r, http.MethodGet, "/api/v1/classes/5%D0%90/state", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"IN_LESSON"`)

	rec = request(r, http.MethodGet, "/api/v1/classes/9%D0%AF/agenda", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = request(r, http.MethodGet, "/api/v1/exports/agenda/5%D0%90?format=csv&day=monday", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Математика")

	rec = request(r, http.MethodGet, "/api/v1/weather", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterOperationalEndpoints(t *testing.T) {
	r := newTestRouter(t)

	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/ready", "", nil).Code)

	rec := request(r, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "kiosk_http_requests_total")

	rec = request(r, http.MethodGet, "/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}

func TestRouterAdminFlow(t *testing.T) {
	r := newTestRouter(t)

	assert.Equal(t, http.StatusUnauthorized, request(r, http.MethodGet, "/api/v1/admin/status", "", nil).Code)

	rec := request(r, http.MethodPost, "/api/v1/admin/login", "", map[string]string{"passcode": "1234"})
	require.Equal(t, http.StatusOK, rec.Code)
	var login struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.Data.AccessToken)

	rec = request(r, http.MethodPost, "/api/v1/admin/reload", login.Data.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"class_count":2`)

	rec = request(r, http.MethodGet, "/api/v1/admin/status", login.Data.AccessToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
