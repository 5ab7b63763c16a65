package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/kiosk-api/internal/service"
	appErrors "github.com/noah-isme/kiosk-api/pkg/errors"
)

func classParam(c *gin.Context) (string, error) {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		return "", appErrors.Clone(appErrors.ErrValidation, "class name is required")
	}
	return name, nil
}

// dayQuery reads ?day=, falling back to the weekday of now.
func dayQuery(c *gin.Context, now time.Time) (time.Weekday, error) {
	raw := strings.TrimSpace(c.Query("day"))
	if raw == "" {
		return now.Weekday(), nil
	}
	day, ok := service.ParseWeekday(raw)
	if !ok {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid day: use a weekday name or 1-7")
	}
	return day, nil
}

// atQuery reads ?at= as RFC3339. The wall clock in the given offset is evaluated; a zero time means "now".
func atQuery(c *gin.Context) (time.Time, error) {
	raw := strings.TrimSpace(c.Query("at"))
	if raw == "" {
		return time.Time{}, nil
	}
	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid at: expected RFC3339")
	}
	return at, nil
}
