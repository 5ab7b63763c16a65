package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/kiosk-api/internal/dto"
	"github.com/noah-isme/kiosk-api/internal/models"
	appErrors "github.com/noah-isme/kiosk-api/pkg/errors"
	"github.com/noah-isme/kiosk-api/pkg/response"
)

type reloadService interface {
	Reload(ctx context.Context) (models.ReloadStatus, error)
	Trigger(reason string) error
	Status() models.ReloadStatus
}

type metricsSnapshotter interface {
	Snapshot() models.SystemMetrics
}

// AdminHandler exposes reload control and status to authenticated admins.
type AdminHandler struct {
	reloads reloadService
	metrics metricsSnapshotter
}

// NewAdminHandler creates a new handler.
func NewAdminHandler(reloads reloadService, metrics metricsSnapshotter) *AdminHandler {
	return &AdminHandler{reloads: reloads, metrics: metrics}
}

// Reload godoc
// @Summary Reload schedule and substitutions
// @Description Synchronous by default; async=true queues the reload and returns 202.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param async query bool false "Queue the reload instead of waiting"
// @Success 200 {object} response.Envelope
// @Success 202 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /admin/reload [post]
func (h *AdminHandler) Reload(c *gin.Context) {
	async, _ := strconv.ParseBool(c.Query("async"))
	if async {
		if err := h.reloads.Trigger("admin"); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "reload queue is busy"))
			return
		}
		response.JSON(c, http.StatusAccepted, gin.H{"queued": true}, nil)
		return
	}

	status, err := h.reloads.Reload(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}

// Status godoc
// @Summary Reload status and process counters
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/status [get]
func (h *AdminHandler) Status(c *gin.Context) {
	resp := dto.AdminStatusResponse{Reload: h.reloads.Status()}
	if h.metrics != nil {
		resp.Metrics = h.metrics.Snapshot()
	}
	response.JSON(c, http.StatusOK, resp, nil)
}
