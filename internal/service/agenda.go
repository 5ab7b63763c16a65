package service

import (
	"fmt"

	"github.com/noah-isme/kiosk-api/internal/models"
)

const (
	longBreakMinutes   = 20
	markedBreakMinutes = 15
)

// BuildAgenda interleaves a day's lessons with the breaks that follow them.
// No break follows the last lesson, and zero-length breaks are omitted.
func BuildAgenda(lessons []models.Lesson, breaks models.BreakDurations) []models.AgendaItem {
	ordered := SortLessons(FilterLessons(lessons))
	items := make([]models.AgendaItem, 0, len(ordered)*2)

	for i, lesson := range ordered {
		current := lesson
		items = append(items, models.AgendaItem{Kind: models.AgendaLesson, Lesson: &current})

		if i == len(ordered)-1 {
			break
		}
		minutes := breaks.After(lesson.Number)
		if minutes <= 0 {
			continue
		}
		tier := ClassifyBreak(minutes)
		items = append(items, models.AgendaItem{
			Kind:            models.AgendaBreak,
			DurationMinutes: minutes,
			Tier:            tier,
			Label:           BreakLabel(tier, minutes),
		})
	}
	return items
}

// ClassifyBreak buckets a break by length.
func ClassifyBreak(minutes int) models.BreakTier {
	switch {
	case minutes >= longBreakMinutes:
		return models.BreakTierLong
	case minutes >= markedBreakMinutes:
		return models.BreakTierMarked
	default:
		return models.BreakTierShort
	}
}

// BreakLabel renders the display text for a break.
func BreakLabel(tier models.BreakTier, minutes int) string {
	switch tier {
	case models.BreakTierLong:
		return fmt.Sprintf("Большая перемена 🏃 (%d мин)", minutes)
	case models.BreakTierMarked:
		return fmt.Sprintf("Перемена 🕒 (%d мин)", minutes)
	default:
		return fmt.Sprintf("Перемена (%d мин)", minutes)
	}
}
