package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/kiosk-api/internal/models"
	"github.com/noah-isme/kiosk-api/pkg/response"
)

type weatherService interface {
	Current(ctx context.Context) models.WeatherInfo
}

// WeatherHandler serves the header weather widget.
type WeatherHandler struct {
	service weatherService
}

// NewWeatherHandler creates a new handler.
func NewWeatherHandler(svc weatherService) *WeatherHandler {
	return &WeatherHandler{service: svc}
}

// Current godoc
// @Summary Current weather
// @Description Provider failures are reported with loaded=false and an error message.
// @Tags Kiosk
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /weather [get]
func (h *WeatherHandler) Current(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Current(c.Request.Context()), nil)
}
