package models

import (
	"strings"
	"time"
)

// WeekType is the advisory parity marker attached to a schedule file.
type WeekType string

const (
	WeekTypeCurrent WeekType = "current"
	WeekTypeOdd     WeekType = "odd"
	WeekTypeEven    WeekType = "even"
)

// ParseWeekType normalises raw week type values, defaulting to current.
func ParseWeekType(raw string) WeekType {
	switch WeekType(strings.ToLower(strings.TrimSpace(raw))) {
	case WeekTypeOdd:
		return WeekTypeOdd
	case WeekTypeEven:
		return WeekTypeEven
	default:
		return WeekTypeCurrent
	}
}

// SchoolDays lists the weekdays a class can have lessons on. Sunday is closed.
var SchoolDays = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
}

// Lesson represents one scheduled teaching slot.
type Lesson struct {
	Number    int    `db:"number" json:"number" validate:"gte=0"`
	Time      string `db:"time" json:"time"`
	Subject   string `db:"subject" json:"subject"`
	Teacher   string `db:"teacher" json:"teacher"`
	Classroom string `db:"classroom" json:"classroom"`
}

// IsEmpty reports whether the lesson is a blank placeholder row.
func (l Lesson) IsEmpty() bool {
	return strings.TrimSpace(l.Subject) == "" &&
		strings.TrimSpace(l.Teacher) == "" &&
		strings.TrimSpace(l.Classroom) == "" &&
		strings.TrimSpace(l.Time) == ""
}

// ClassSchedule is one class's weekly timetable.
type ClassSchedule struct {
	ClassName string                    `json:"class_name" validate:"required"`
	Days      map[time.Weekday][]Lesson `json:"-"`
}

// LessonsOn returns the raw lesson list for the weekday. Sunday always yields nil.
func (c ClassSchedule) LessonsOn(day time.Weekday) []Lesson {
	if day == time.Sunday || c.Days == nil {
		return nil
	}
	return c.Days[day]
}

// BreakDurations maps a slot number to the break minutes that follow it.
type BreakDurations map[int]int

const (
	// DefaultBreakMinutes is used for slots without an explicit entry.
	DefaultBreakMinutes = 10
	// MaxBreakSlot is the last slot that may carry a configured break.
	MaxBreakSlot = 7
)

// After returns the break length following the given slot.
func (b BreakDurations) After(slot int) int {
	if slot < 1 || slot > MaxBreakSlot {
		return DefaultBreakMinutes
	}
	if minutes, ok := b[slot]; ok {
		return minutes
	}
	return DefaultBreakMinutes
}

// ScheduleSnapshot is an immutable point-in-time copy of the whole school's timetable.
type ScheduleSnapshot struct {
	Version        string          `json:"version"`
	LoadedAt       time.Time       `json:"loaded_at"`
	LastUpdated    string          `json:"last_updated"`
	WeekType       WeekType        `json:"week_type"`
	Schedules      []ClassSchedule `json:"-"`
	BreakDurations BreakDurations  `json:"break_durations"`
}

// EmptyScheduleSnapshot returns a well-formed snapshot without classes.
func EmptyScheduleSnapshot() *ScheduleSnapshot {
	return &ScheduleSnapshot{
		WeekType:       WeekTypeCurrent,
		Schedules:      []ClassSchedule{},
		BreakDurations: BreakDurations{},
	}
}

// Find returns the class schedule with the exact (case-sensitive) name.
func (s *ScheduleSnapshot) Find(className string) (*ClassSchedule, bool) {
	if s == nil {
		return nil, false
	}
	for i := range s.Schedules {
		if s.Schedules[i].ClassName == className {
			return &s.Schedules[i], true
		}
	}
	return nil, false
}

// ClassNames lists class names in snapshot order.
func (s *ScheduleSnapshot) ClassNames() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.Schedules))
	for _, schedule := range s.Schedules {
		names = append(names, schedule.ClassName)
	}
	return names
}

// DisplayDay is one weekday column of a class's week view.
type DisplayDay struct {
	Weekday      time.Weekday `json:"weekday"`
	DayName      string       `json:"day_name"`
	ShortName    string       `json:"short_name"`
	Lessons      []Lesson     `json:"lessons"`
	IsToday      bool         `json:"is_today"`
	IsSelected   bool         `json:"is_selected"`
	HasNoLessons bool         `json:"has_no_lessons"`
}

// ScheduleWarning flags a loaded lesson that the state engine cannot see.
type ScheduleWarning struct {
	ClassName string       `json:"class_name"`
	Weekday   time.Weekday `json:"weekday"`
	Number    int          `json:"number"`
	Message   string       `json:"message"`
}
