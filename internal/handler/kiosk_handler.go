package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/kiosk-api/internal/dto"
	"github.com/noah-isme/kiosk-api/internal/middleware"
	"github.com/noah-isme/kiosk-api/internal/models"
	"github.com/noah-isme/kiosk-api/internal/service"
	"github.com/noah-isme/kiosk-api/pkg/response"
)

type kioskService interface {
	Now() time.Time
	Versions() models.Versions
	Classes() []string
	State(className string, at time.Time) (models.AssistantInfo, time.Time)
	Agenda(ctx context.Context, className string, day time.Weekday) ([]models.AgendaItem, error)
	Week(className string) (dto.WeekResponse, error)
	Bulletin() dto.SubstitutionsResponse
	GroupedBulletin(ctx context.Context) (dto.SubstitutionsResponse, error)
	ClassSubstitutions(className string) []models.Substitution
	Settings() dto.KioskSettingsResponse
}

// KioskHandler serves the read endpoints the kiosk front-end polls.
type KioskHandler struct {
	service kioskService
}

// NewKioskHandler creates a new handler.
func NewKioskHandler(svc kioskService) *KioskHandler {
	return &KioskHandler{service: svc}
}

func (h *KioskHandler) versioned(c *gin.Context, data interface{}) {
	versions := h.service.Versions()
	response.Versioned(c, data, middleware.ExtractMeta(c), versions.Schedule, versions.Substitutions)
}

// Settings godoc
// @Summary Kiosk display settings
// @Tags Kiosk
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /kiosk/settings [get]
func (h *KioskHandler) Settings(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Settings(), middleware.ExtractMeta(c))
}

// Classes godoc
// @Summary List classes
// @Tags Kiosk
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /classes [get]
func (h *KioskHandler) Classes(c *gin.Context) {
	h.versioned(c, h.service.Classes())
}

// State godoc
// @Summary Current school state for a class
// @Description Evaluates lesson/break state, today's lessons and substitutions. Unknown classes yield NO_DATA.
// @Tags Kiosk
// @Produce json
// @Param name path string true "Class name"
// @Param at query string false "Evaluation instant (RFC3339)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /classes/{name}/state [get]
func (h *KioskHandler) State(c *gin.Context) {
	className, err := classParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	at, err := atQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	info, evaluatedAt := h.service.State(className, at)
	formatted := service.FormatRemaining(info.CurrentState.TimeRemaining)
	h.versioned(c, dto.NewClassStateResponse(className, evaluatedAt, info, formatted))
}

// Agenda godoc
// @Summary Lesson and break timeline for one day
// @Tags Kiosk
// @Produce json
// @Param name path string true "Class name"
// @Param day query string false "Weekday (monday, пн, 1..7); defaults to today"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /classes/{name}/agenda [get]
func (h *KioskHandler) Agenda(c *gin.Context) {
	className, err := classParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	day, err := dayQuery(c, h.service.Now())
	if err != nil {
		response.Error(c, err)
		return
	}

	items, err := h.service.Agenda(c.Request.Context(), className, day)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.versioned(c, dto.AgendaResponse{
		ClassName: className,
		Day:       strings.ToLower(day.String()),
		DayName:   service.DayName(day),
		Items:     items,
	})
}

// Week godoc
// @Summary Monday..Saturday view for a class
// @Tags Kiosk
// @Produce json
// @Param name path string true "Class name"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /classes/{name}/week [get]
func (h *KioskHandler) Week(c *gin.Context) {
	className, err := classParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	week, err := h.service.Week(className)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.versioned(c, week)
}

// ClassSubstitutions godoc
// @Summary Today's substitutions for one class
// @Tags Substitutions
// @Produce json
// @Param name path string true "Class name"
// @Success 200 {object} response.Envelope
// @Router /classes/{name}/substitutions [get]
func (h *KioskHandler) ClassSubstitutions(c *gin.Context) {
	className, err := classParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.versioned(c, h.service.ClassSubstitutions(className))
}

// Substitutions godoc
// @Summary Full substitution bulletin
// @Tags Substitutions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /substitutions [get]
func (h *KioskHandler) Substitutions(c *gin.Context) {
	h.versioned(c, h.service.Bulletin())
}

// GroupedSubstitutions godoc
// @Summary Substitution bulletin grouped by class
// @Tags Substitutions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /substitutions/grouped [get]
func (h *KioskHandler) GroupedSubstitutions(c *gin.Context) {
	grouped, err := h.service.GroupedBulletin(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	h.versioned(c, grouped)
}
