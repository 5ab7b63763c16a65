package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kiosk-api/internal/models"
	"github.com/noah-isme/kiosk-api/internal/service"
	appErrors "github.com/noah-isme/kiosk-api/pkg/errors"
	"github.com/noah-isme/kiosk-api/pkg/export"
)

type fakeExportSrv struct {
	lastDay    time.Weekday
	lastFormat export.Format
}

func (f *fakeExportSrv) Agenda(_ context.Context, className string, day time.Weekday, format export.Format) (*service.ExportFile, error) {
	f.lastDay, f.lastFormat = day, format
	if format == export.FormatXLSX {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
	return &service.ExportFile{Filename: "agenda-" + className + "." + string(format), ContentType: format.ContentType(), Body: []byte("BODY")}, nil
}

func (f *fakeExportSrv) Substitutions(_ context.Context, format export.Format) (*service.ExportFile, error) {
	f.lastFormat = format
	return &service.ExportFile{Filename: "substitutions.xlsx", ContentType: format.ContentType(), Body: []byte("XLSX")}, nil
}

type fakeWeatherSrv struct{}

func (fakeWeatherSrv) Current(context.Context) models.WeatherInfo {
	return models.WeatherInfo{Loaded: false, Error: "weather disabled"}
}

func newExportRouter(srv *fakeExportSrv) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewExportHandler(srv, func() time.Time { return time.Date(2024, 9, 3, 9, 0, 0, 0, time.UTC) })
	r := gin.New()
	r.GET("/exports/agenda/:name", h.Agenda)
	r.GET("/exports/substitutions", h.Substitutions)
	r.GET("/weather", NewWeatherHandler(fakeWeatherSrv{}).Current)
	return r
}

func TestExportHandlerAgendaDefaults(t *testing.T) {
	srv := &fakeExportSrv{}
	rec := serve(newExportRouter(srv), http.MethodGet, "/exports/agenda/5A")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, time.Tuesday, srv.lastDay)
	assert.Equal(t, export.FormatPDF, srv.lastFormat)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Disposition"), "attachment"))
	assert.Equal(t, "BODY", rec.Body.String())
}

func TestExportHandlerAgendaFormatAndErrors(t *testing.T) {
	srv := &fakeExportSrv{}
	router := newExportRouter(srv)

	rec := serve(router, http.MethodGet, "/exports/agenda/5A?format=ICS&day=saturday")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.FormatICS, srv.lastFormat)
	assert.Equal(t, time.Saturday, srv.lastDay)

	rec = serve(router, http.MethodGet, "/exports/agenda/5A?format=xlsx")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(router, http.MethodGet, "/exports/agenda/5A?day=42")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportHandlerSubstitutions(t *testing.T) {
	srv := &fakeExportSrv{}
	rec := serve(newExportRouter(srv), http.MethodGet, "/exports/substitutions?format=xlsx")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.FormatXLSX, srv.lastFormat)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "substitutions.xlsx")
}

func TestWeatherHandlerReportsFailureInBody(t *testing.T) {
	rec := serve(newExportRouter(&fakeExportSrv{}), http.MethodGet, "/weather")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "weather disabled")
}

func TestMetricsHandlerReady(t *testing.T) {
	gin.SetMode(gin.TestMode)
	healthy := NewMetricsHandler(service.NewMetricsService(), map[string]ReadinessCheck{
		"snapshot": func(context.Context) error { return nil },
	})
	failing := NewMetricsHandler(nil, map[string]ReadinessCheck{
		"redis": func(context.Context) error { return errors.New("connection refused") },
	})

	r := gin.New()
	r.GET("/ready", healthy.Ready)
	r.GET("/not-ready", failing.Ready)
	r.GET("/metrics", healthy.Prometheus)
	r.GET("/no-metrics", failing.Prometheus)
	r.GET("/health", healthy.Health)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/ready").Code)
	rec := serve(r, http.MethodGet, "/not-ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/metrics").Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(r, http.MethodGet, "/no-metrics").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/health").Code)
}
