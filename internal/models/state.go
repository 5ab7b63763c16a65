package models

import "time"

// StateKind tags the active case of CurrentState.
type StateKind string

const (
	StateInLesson StateKind = "IN_LESSON"
	StateOnBreak  StateKind = "ON_BREAK"
	StateDayOver  StateKind = "DAY_OVER"
	StateNoData   StateKind = "NO_DATA"
)

// CurrentState describes what is happening for a class at one instant.
// Lesson is set only for IN_LESSON, NextLesson only for ON_BREAK.
type CurrentState struct {
	Kind          StateKind     `json:"kind"`
	Lesson        *Lesson       `json:"lesson,omitempty"`
	NextLesson    *Lesson       `json:"next_lesson,omitempty"`
	TimeRemaining time.Duration `json:"-"`
}

// InLesson builds the IN_LESSON state.
func InLesson(lesson Lesson, remaining time.Duration) CurrentState {
	return CurrentState{Kind: StateInLesson, Lesson: &lesson, TimeRemaining: remaining}
}

// OnBreak builds the ON_BREAK state.
func OnBreak(next Lesson, remaining time.Duration) CurrentState {
	return CurrentState{Kind: StateOnBreak, NextLesson: &next, TimeRemaining: remaining}
}

// DayOver builds the DAY_OVER state.
func DayOver() CurrentState {
	return CurrentState{Kind: StateDayOver}
}

// NoData builds the NO_DATA state.
func NoData() CurrentState {
	return CurrentState{Kind: StateNoData}
}

// AssistantInfo is the full evaluation result for one class at one instant.
type AssistantInfo struct {
	CurrentState      CurrentState   `json:"current_state"`
	TodayLessons      []Lesson       `json:"today_lessons"`
	ClassReplacements []Substitution `json:"class_replacements"`
	NextLesson        *Lesson        `json:"next_lesson,omitempty"`
}
