package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/noah-isme/kiosk-api/internal/models"
)

// ComputeState evaluates what is happening for className at now.
// It never fails: an unknown class yields the empty NO_DATA result.
func ComputeState(snapshot *models.ScheduleSnapshot, substitutions *models.SubstitutionSnapshot, bells models.BellTimetable, className string, now time.Time) models.AssistantInfo {
	info := models.AssistantInfo{
		CurrentState:      models.NoData(),
		TodayLessons:      []models.Lesson{},
		ClassReplacements: []models.Substitution{},
	}

	schedule, ok := snapshot.Find(className)
	if !ok {
		return info
	}

	today := SortLessons(FilterLessons(schedule.LessonsOn(now.Weekday())))
	info.TodayLessons = today
	info.ClassReplacements = ClassSubstitutions(substitutions, className)

	if len(today) == 0 {
		return info
	}

	timeOfDay := models.TimeOfDay(now)
	info.CurrentState = currentState(today, bells, timeOfDay)
	info.NextLesson = nextLesson(today, bells, timeOfDay)
	return info
}

// currentState expects lessons sorted by number.
func currentState(lessons []models.Lesson, bells models.BellTimetable, timeOfDay time.Duration) models.CurrentState {
	for _, lesson := range lessons {
		window, ok := bells.Window(lesson.Number)
		if !ok {
			continue
		}
		if window.Contains(timeOfDay) {
			return models.InLesson(lesson, window.End-timeOfDay)
		}
	}

	for _, lesson := range lessons {
		window, ok := bells.Window(lesson.Number)
		if !ok {
			continue
		}
		if window.Start > timeOfDay {
			return models.OnBreak(lesson, window.Start-timeOfDay)
		}
	}

	return models.DayOver()
}

func nextLesson(lessons []models.Lesson, bells models.BellTimetable, timeOfDay time.Duration) *models.Lesson {
	for _, lesson := range lessons {
		window, ok := bells.Window(lesson.Number)
		if !ok {
			continue
		}
		if window.Start > timeOfDay {
			next := lesson
			return &next
		}
	}
	return nil
}

// ClassSubstitutions collects every record for className across all sections,
// sorted by lesson number. Records sharing a slot keep section order.
func ClassSubstitutions(substitutions *models.SubstitutionSnapshot, className string) []models.Substitution {
	result := []models.Substitution{}
	if substitutions == nil {
		return result
	}
	for _, section := range substitutions.Sections {
		for _, record := range section.Lessons {
			if record.ClassName == className {
				result = append(result, record)
			}
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].LessonNumber < result[j].LessonNumber
	})
	return result
}

// FilterLessons drops blank placeholder lessons, preserving order.
func FilterLessons(lessons []models.Lesson) []models.Lesson {
	filtered := make([]models.Lesson, 0, len(lessons))
	for _, lesson := range lessons {
		if lesson.IsEmpty() {
			continue
		}
		filtered = append(filtered, lesson)
	}
	return filtered
}

// SortLessons returns a copy ordered by slot number.
func SortLessons(lessons []models.Lesson) []models.Lesson {
	sorted := make([]models.Lesson, len(lessons))
	copy(sorted, lessons)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Number < sorted[j].Number
	})
	return sorted
}

// FormatRemaining renders a countdown as H:MM:SS from one hour upward, MM:SS below.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	if hours >= 1 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
