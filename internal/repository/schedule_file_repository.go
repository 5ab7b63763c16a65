package repository

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/kiosk-api/internal/models"
	appErrors "github.com/noah-isme/kiosk-api/pkg/errors"
)

type scheduleDocument struct {
	LastUpdated   string              `json:"lastUpdated"`
	WeekType      string              `json:"weekType"`
	Schedules     *[]classDocument    `json:"schedules"`
	BreakSettings breakSettingsFields `json:"breakSettings"`
}

type classDocument struct {
	ClassName string       `json:"className"`
	Days      daysDocument `json:"days"`
}

type daysDocument struct {
	Monday    []models.Lesson `json:"monday"`
	Tuesday   []models.Lesson `json:"tuesday"`
	Wednesday []models.Lesson `json:"wednesday"`
	Thursday  []models.Lesson `json:"thursday"`
	Friday    []models.Lesson `json:"friday"`
	Saturday  []models.Lesson `json:"saturday"`
}

// breakSettingsFields keeps pointers so an explicit 0 can be told apart from an absent key.
type breakSettingsFields struct {
	Break1 *int `json:"break1Duration"`
	Break2 *int `json:"break2Duration"`
	Break3 *int `json:"break3Duration"`
	Break4 *int `json:"break4Duration"`
	Break5 *int `json:"break5Duration"`
	Break6 *int `json:"break6Duration"`
	Break7 *int `json:"break7Duration"`
}

func (b breakSettingsFields) durations() models.BreakDurations {
	out := models.BreakDurations{}
	for slot, value := range []*int{b.Break1, b.Break2, b.Break3, b.Break4, b.Break5, b.Break6, b.Break7} {
		if value != nil && *value >= 0 {
			out[slot+1] = *value
		}
	}
	return out
}

func (d daysDocument) byWeekday() map[time.Weekday][]models.Lesson {
	return map[time.Weekday][]models.Lesson{
		time.Monday:    d.Monday,
		time.Tuesday:   d.Tuesday,
		time.Wednesday: d.Wednesday,
		time.Thursday:  d.Thursday,
		time.Friday:    d.Friday,
		time.Saturday:  d.Saturday,
	}
}

// ScheduleFileRepository loads the weekly timetable from a JSON document.
type ScheduleFileRepository struct {
	path   string
	logger *zap.Logger
}

// NewScheduleFileRepository constructs a JSON schedule loader.
func NewScheduleFileRepository(path string, logger *zap.Logger) *ScheduleFileRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleFileRepository{path: path, logger: logger}
}

// Source names the file the repository reads.
func (r *ScheduleFileRepository) Source() string {
	return r.path
}

// Load reads and decodes the schedule file.
func (r *ScheduleFileRepository) Load(ctx context.Context) (*models.ScheduleSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, appErrors.Wrap(err, appErrors.ErrSourceMissing.Code, appErrors.ErrSourceMissing.Status, "schedule file not found: "+r.path)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read schedule file")
	}
	return DecodeSchedule(raw, r.logger)
}

// DecodeSchedule converts a JSON schedule document into a snapshot.
func DecodeSchedule(raw []byte, logger *zap.Logger) (*models.ScheduleSnapshot, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var doc scheduleDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrMalformedSource.Code, appErrors.ErrMalformedSource.Status, "schedule file is not valid JSON")
	}
	if doc.Schedules == nil {
		return nil, appErrors.Clone(appErrors.ErrMalformedSource, "schedule file has no schedules list")
	}

	snapshot := models.EmptyScheduleSnapshot()
	snapshot.LastUpdated = doc.LastUpdated
	snapshot.WeekType = models.ParseWeekType(doc.WeekType)
	snapshot.BreakDurations = doc.BreakSettings.durations()

	seen := make(map[string]struct{}, len(*doc.Schedules))
	for _, class := range *doc.Schedules {
		if class.ClassName == "" {
			logger.Warn("schedule entry without class name skipped")
			continue
		}
		if _, dup := seen[class.ClassName]; dup {
			logger.Warn("duplicate class in schedule ignored", zap.String("class", class.ClassName))
			continue
		}
		seen[class.ClassName] = struct{}{}
		snapshot.Schedules = append(snapshot.Schedules, models.ClassSchedule{
			ClassName: class.ClassName,
			Days:      class.Days.byWeekday(),
		})
	}

	return snapshot, nil
}
