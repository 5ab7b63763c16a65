package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/kiosk-api/internal/models"
	appErrors "github.com/noah-isme/kiosk-api/pkg/errors"
)

const (
	selectClassLessons = `SELECT class_name, day_of_week, number, time, subject, teacher, classroom
FROM class_lessons ORDER BY class_name, day_of_week, number`
	selectBreakSettings = `SELECT slot, minutes FROM break_settings ORDER BY slot`
	selectScheduleMeta  = `SELECT last_updated, week_type FROM schedule_meta ORDER BY last_updated DESC LIMIT 1`
)

type classLessonRow struct {
	ClassName string `db:"class_name"`
	DayOfWeek int    `db:"day_of_week"`
	models.Lesson
}

type breakSettingRow struct {
	Slot    int `db:"slot"`
	Minutes int `db:"minutes"`
}

type scheduleMetaRow struct {
	LastUpdated string `db:"last_updated"`
	WeekType    string `db:"week_type"`
}

// ScheduleSQLRepository loads the weekly timetable from Postgres. day_of_week uses ISO numbering (1 = Monday).
type ScheduleSQLRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewScheduleSQLRepository constructs a Postgres schedule loader.
func NewScheduleSQLRepository(db *sqlx.DB, logger *zap.Logger) *ScheduleSQLRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleSQLRepository{db: db, logger: logger}
}

// Source names the backing store.
func (r *ScheduleSQLRepository) Source() string {
	return "postgres"
}

// Load reads every class lesson, the break settings and the schedule metadata.
func (r *ScheduleSQLRepository) Load(ctx context.Context) (*models.ScheduleSnapshot, error) {
	var lessons []classLessonRow
	if err := r.db.SelectContext(ctx, &lessons, selectClassLessons); err != nil {
		return nil, unavailable(fmt.Errorf("list class lessons: %w", err))
	}

	var breaks []breakSettingRow
	if err := r.db.SelectContext(ctx, &breaks, selectBreakSettings); err != nil {
		return nil, unavailable(fmt.Errorf("list break settings: %w", err))
	}

	var meta scheduleMetaRow
	if err := r.db.GetContext(ctx, &meta, selectScheduleMeta); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, unavailable(fmt.Errorf("get schedule meta: %w", err))
	}

	snapshot := models.EmptyScheduleSnapshot()
	snapshot.LastUpdated = meta.LastUpdated
	snapshot.WeekType = models.ParseWeekType(meta.WeekType)

	for _, row := range breaks {
		if row.Slot < 1 || row.Slot > models.MaxBreakSlot || row.Minutes < 0 {
			r.logger.Warn("break setting out of range ignored", zap.Int("slot", row.Slot), zap.Int("minutes", row.Minutes))
			continue
		}
		snapshot.BreakDurations[row.Slot] = row.Minutes
	}

	index := make(map[string]int)
	for _, row := range lessons {
		weekday, ok := isoWeekday(row.DayOfWeek)
		if !ok {
			r.logger.Warn("lesson on unsupported day ignored", zap.String("class", row.ClassName), zap.Int("day_of_week", row.DayOfWeek))
			continue
		}
		i, exists := index[row.ClassName]
		if !exists {
			i = len(snapshot.Schedules)
			index[row.ClassName] = i
			snapshot.Schedules = append(snapshot.Schedules, models.ClassSchedule{
				ClassName: row.ClassName,
				Days:      make(map[time.Weekday][]models.Lesson),
			})
		}
		days := snapshot.Schedules[i].Days
		days[weekday] = append(days[weekday], row.Lesson)
	}

	return snapshot, nil
}

// isoWeekday maps 1..6 onto Monday..Saturday.
func isoWeekday(day int) (time.Weekday, bool) {
	if day < 1 || day > 6 {
		return 0, false
	}
	return time.Weekday(day), true
}

func unavailable(err error) error {
	return appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "schedule database unavailable")
}
