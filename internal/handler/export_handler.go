package handler

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/kiosk-api/internal/service"
	"github.com/noah-isme/kiosk-api/pkg/export"
	"github.com/noah-isme/kiosk-api/pkg/response"
)

type exportService interface {
	Agenda(ctx context.Context, className string, day time.Weekday, format export.Format) (*service.ExportFile, error)
	Substitutions(ctx context.Context, format export.Format) (*service.ExportFile, error)
}

// ExportHandler serves printable downloads.
type ExportHandler struct {
	service exportService
	now     func() time.Time
}

// NewExportHandler creates a new handler. now supplies the default day for agenda exports.
func NewExportHandler(svc exportService, now func() time.Time) *ExportHandler {
	if now == nil {
		now = time.Now
	}
	return &ExportHandler{service: svc, now: now}
}

// Agenda godoc
// @Summary Export a class's day agenda
// @Tags Exports
// @Produce application/pdf
// @Produce text/csv
// @Produce text/calendar
// @Param name path string true "Class name"
// @Param day query string false "Weekday; defaults to today"
// @Param format query string false "pdf, csv or ics" default(pdf)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /exports/agenda/{name} [get]
func (h *ExportHandler) Agenda(c *gin.Context) {
	className, err := classParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	day, err := dayQuery(c, h.now())
	if err != nil {
		response.Error(c, err)
		return
	}

	file, err := h.service.Agenda(c.Request.Context(), className, day, formatQuery(c, export.FormatPDF))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

// Substitutions godoc
// @Summary Export the substitution bulletin grouped by class
// @Tags Exports
// @Produce application/pdf
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "pdf, csv or xlsx" default(pdf)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /exports/substitutions [get]
func (h *ExportHandler) Substitutions(c *gin.Context) {
	file, err := h.service.Substitutions(c.Request.Context(), formatQuery(c, export.FormatPDF))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

func formatQuery(c *gin.Context, fallback export.Format) export.Format {
	raw := strings.ToLower(strings.TrimSpace(c.Query("format")))
	if raw == "" {
		return fallback
	}
	return export.Format(raw)
}
