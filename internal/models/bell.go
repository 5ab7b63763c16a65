package models

import (
	"fmt"
	"sort"
	"time"
)

// BellWindow is the start/end of a lesson slot measured from midnight.
type BellWindow struct {
	Start time.Duration `json:"start"`
	End   time.Duration `json:"end"`
}

// Contains reports whether the time of day falls inside the window, bounds inclusive.
func (w BellWindow) Contains(timeOfDay time.Duration) bool {
	return timeOfDay >= w.Start && timeOfDay <= w.End
}

// String renders the window as HH:MM–HH:MM.
func (w BellWindow) String() string {
	return fmt.Sprintf("%s–%s", FormatClock(w.Start), FormatClock(w.End))
}

// BellTimetable maps a slot number to its bell window.
type BellTimetable map[int]BellWindow

// DefaultBellTimetable returns the institution's standard bell schedule.
func DefaultBellTimetable() BellTimetable {
	return BellTimetable{
		1: {Start: Clock(8, 30), End: Clock(9, 15)},
		2: {Start: Clock(9, 30), End: Clock(10, 15)},
		3: {Start: Clock(10, 30), End: Clock(11, 15)},
		4: {Start: Clock(11, 30), End: Clock(12, 15)},
		5: {Start: Clock(12, 25), End: Clock(13, 10)},
		6: {Start: Clock(13, 35), End: Clock(14, 20)},
		7: {Start: Clock(14, 30), End: Clock(15, 15)},
		8: {Start: Clock(15, 30), End: Clock(16, 15)},
	}
}

// Window returns the bell window for a slot.
func (b BellTimetable) Window(slot int) (BellWindow, bool) {
	w, ok := b[slot]
	return w, ok
}

// Slots returns configured slot numbers in ascending order.
func (b BellTimetable) Slots() []int {
	slots := make([]int, 0, len(b))
	for slot := range b {
		slots = append(slots, slot)
	}
	sort.Ints(slots)
	return slots
}

// Validate checks that every window is well-ordered and that windows do not overlap.
func (b BellTimetable) Validate() error {
	var prev *BellWindow
	prevSlot := 0
	for _, slot := range b.Slots() {
		w := b[slot]
		if slot < 1 {
			return fmt.Errorf("bell slot %d: number must be positive", slot)
		}
		if w.Start >= w.End {
			return fmt.Errorf("bell slot %d: start %s is not before end %s", slot, FormatClock(w.Start), FormatClock(w.End))
		}
		if prev != nil && w.Start <= prev.End {
			return fmt.Errorf("bell slot %d overlaps slot %d", slot, prevSlot)
		}
		current := w
		prev = &current
		prevSlot = slot
	}
	return nil
}

// Clock builds a time-of-day offset from hours and minutes.
func Clock(hour, minute int) time.Duration {
	return time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute
}

// TimeOfDay truncates t to whole seconds and returns its offset from local midnight.
func TimeOfDay(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second
}

// FormatClock renders a time-of-day offset as HH:MM.
func FormatClock(d time.Duration) string {
	minutes := int(d / time.Minute)
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseClock parses HH:MM (or H:MM) into a time-of-day offset.
func ParseClock(raw string) (time.Duration, error) {
	parsed, err := time.Parse("15:04", raw)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", raw, err)
	}
	return Clock(parsed.Hour(), parsed.Minute()), nil
}
