package dto

import (
	"time"

	"github.com/noah-isme/kiosk-api/internal/models"
)

// ClassStateResponse is the kiosk home-screen payload for one class.
type ClassStateResponse struct {
	ClassName         string                `json:"className"`
	EvaluatedAt       time.Time             `json:"evaluatedAt"`
	State             models.StateKind      `json:"state"`
	Lesson            *models.Lesson        `json:"lesson,omitempty"`
	TimeRemaining     string                `json:"timeRemaining,omitempty"`
	RemainingSeconds  int64                 `json:"remainingSeconds"`
	NextLesson        *models.Lesson        `json:"nextLesson,omitempty"`
	TodayLessons      []models.Lesson       `json:"todayLessons"`
	ClassReplacements []models.Substitution `json:"classReplacements"`
}

// NewClassStateResponse flattens an evaluation result for the front-end.
func NewClassStateResponse(className string, at time.Time, info models.AssistantInfo, formatted string) ClassStateResponse {
	resp := ClassStateResponse{
		ClassName:         className,
		EvaluatedAt:       at,
		State:             info.CurrentState.Kind,
		TodayLessons:      info.TodayLessons,
		ClassReplacements: info.ClassReplacements,
		NextLesson:        info.NextLesson,
	}
	switch info.CurrentState.Kind {
	case models.StateInLesson:
		resp.Lesson = info.CurrentState.Lesson
		resp.TimeRemaining = formatted
		resp.RemainingSeconds = int64(info.CurrentState.TimeRemaining.Seconds())
	case models.StateOnBreak:
		resp.TimeRemaining = formatted
		resp.RemainingSeconds = int64(info.CurrentState.TimeRemaining.Seconds())
	}
	return resp
}

// AgendaResponse is one day's lesson and break timeline.
type AgendaResponse struct {
	ClassName string              `json:"className"`
	Day       string              `json:"day"`
	DayName   string              `json:"dayName"`
	Items     []models.AgendaItem `json:"items"`
}

// WeekResponse is the Monday..Saturday view of a class.
type WeekResponse struct {
	ClassName      string              `json:"className"`
	WeekType       models.WeekType     `json:"weekType"`
	LastUpdated    string              `json:"lastUpdated"`
	BreakDurations map[int]int         `json:"breakDurations"`
	Days           []models.DisplayDay `json:"days"`
}

// SubstitutionsResponse is the substitution bulletin together with its header.
type SubstitutionsResponse struct {
	Date             string                       `json:"date"`
	Title            string                       `json:"title"`
	HasSubstitutions bool                         `json:"hasSubstitutions"`
	Sections         []models.SubstitutionSection `json:"sections,omitempty"`
	Classes          []models.ClassSubstitutions  `json:"classes,omitempty"`
}

// KioskSettingsResponse exposes the display configuration the front-end needs.
type KioskSettingsResponse struct {
	SchoolFullName        string   `json:"schoolFullName"`
	SchoolShortName       string   `json:"schoolShortName"`
	MapURL                string   `json:"mapUrl"`
	NewsURL               string   `json:"newsUrl"`
	BannersEnabled        bool     `json:"bannersEnabled"`
	BannerImagePaths      []string `json:"bannerImagePaths"`
	BannerURL             string   `json:"bannerUrl,omitempty"`
	BannerTimeoutSeconds  int      `json:"bannerTimeoutSeconds"`
	BannerSwitchSeconds   int      `json:"bannerSwitchSeconds"`
	RefreshIntervalSecond int      `json:"refreshIntervalSeconds"`
	WeatherEnabled        bool     `json:"weatherEnabled"`
}

// AdminStatusResponse reports reload health and process counters.
type AdminStatusResponse struct {
	Reload  models.ReloadStatus  `json:"reload"`
	Metrics models.SystemMetrics `json:"metrics"`
}
