package service

import (
	"strings"
	"time"

	"github.com/noah-isme/kiosk-api/internal/models"
)

var dayNames = map[time.Weekday][2]string{
	time.Monday:    {"Понедельник", "Пн"},
	time.Tuesday:   {"Вторник", "Вт"},
	time.Wednesday: {"Среда", "Ср"},
	time.Thursday:  {"Четверг", "Чт"},
	time.Friday:    {"Пятница", "Пт"},
	time.Saturday:  {"Суббота", "Сб"},
}

// DisplayDays builds the Monday..Saturday week view for a class.
// Today is selected when it has lessons, otherwise the first day with lessons, otherwise Monday.
func DisplayDays(schedule models.ClassSchedule, today time.Weekday) []models.DisplayDay {
	days := make([]models.DisplayDay, 0, len(models.SchoolDays))
	for _, weekday := range models.SchoolDays {
		names := dayNames[weekday]
		lessons := SortLessons(FilterLessons(schedule.LessonsOn(weekday)))
		days = append(days, models.DisplayDay{
			Weekday:      weekday,
			DayName:      names[0],
			ShortName:    names[1],
			Lessons:      lessons,
			IsToday:      weekday == today,
			HasNoLessons: len(lessons) == 0,
		})
	}

	selected := -1
	for i, day := range days {
		if day.IsToday && !day.HasNoLessons {
			selected = i
			break
		}
	}
	if selected < 0 {
		for i, day := range days {
			if !day.HasNoLessons {
				selected = i
				break
			}
		}
	}
	if selected < 0 {
		selected = 0
	}
	days[selected].IsSelected = true
	return days
}

// DayName returns the localized full name of a school day.
func DayName(day time.Weekday) string {
	if names, ok := dayNames[day]; ok {
		return names[0]
	}
	return "Воскресенье"
}

var weekdayAliases = map[string]time.Weekday{
	"monday": time.Monday, "mon": time.Monday, "1": time.Monday, "понедельник": time.Monday, "пн": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "2": time.Tuesday, "вторник": time.Tuesday, "вт": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday, "3": time.Wednesday, "среда": time.Wednesday, "ср": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "4": time.Thursday, "четверг": time.Thursday, "чт": time.Thursday,
	"friday": time.Friday, "fri": time.Friday, "5": time.Friday, "пятница": time.Friday, "пт": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday, "6": time.Saturday, "суббота": time.Saturday, "сб": time.Saturday,
	"sunday": time.Sunday, "sun": time.Sunday, "7": time.Sunday, "0": time.Sunday, "воскресенье": time.Sunday, "вс": time.Sunday,
}

// ParseWeekday accepts English or Russian day names, short forms, or ISO numbers (1 = Monday).
func ParseWeekday(raw string) (time.Weekday, bool) {
	day, ok := weekdayAliases[strings.ToLower(strings.TrimSpace(raw))]
	return day, ok
}
