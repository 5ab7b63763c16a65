package service

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/kiosk-api/internal/models"
)

// ValidateSchedule reports lessons the state engine will not be able to see.
// Lessons stay in the snapshot: the agenda still lists them.
func ValidateSchedule(validate *validator.Validate, snapshot *models.ScheduleSnapshot, bells models.BellTimetable) []models.ScheduleWarning {
	warnings := []models.ScheduleWarning{}
	if snapshot == nil {
		return warnings
	}
	if validate == nil {
		validate = validator.New()
	}

	for _, schedule := range snapshot.Schedules {
		for _, day := range models.SchoolDays {
			for _, lesson := range FilterLessons(schedule.LessonsOn(day)) {
				if err := validate.Struct(lesson); err != nil {
					warnings = append(warnings, models.ScheduleWarning{
						ClassName: schedule.ClassName,
						Weekday:   day,
						Number:    lesson.Number,
						Message:   fmt.Sprintf("invalid lesson: %v", err),
					})
					continue
				}
				if _, ok := bells.Window(lesson.Number); !ok {
					warnings = append(warnings, models.ScheduleWarning{
						ClassName: schedule.ClassName,
						Weekday:   day,
						Number:    lesson.Number,
						Message:   fmt.Sprintf("slot %d has no bell window; lesson is never current or next", lesson.Number),
					})
				}
			}
		}
	}
	return warnings
}

// ValidateSubstitutions drops records that fail struct validation and returns how many were removed.
func ValidateSubstitutions(validate *validator.Validate, snapshot *models.SubstitutionSnapshot) int {
	if snapshot == nil {
		return 0
	}
	if validate == nil {
		validate = validator.New()
	}
	removed := 0
	for i := range snapshot.Sections {
		kept := snapshot.Sections[i].Lessons[:0]
		for _, record := range snapshot.Sections[i].Lessons {
			if err := validate.Struct(record); err != nil {
				removed++
				continue
			}
			kept = append(kept, record)
		}
		snapshot.Sections[i].Lessons = kept
	}
	return removed
}
