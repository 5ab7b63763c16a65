package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kiosk-api/internal/models"
)

func TestComputeStateLessonStartBoundary(t *testing.T) {
	info := ComputeState(sampleSchedule(), nil, models.DefaultBellTimetable(), "5А", monday(8, 30, 0))

	require.Equal(t, models.StateInLesson, info.CurrentState.Kind)
	assert.Equal(t, 1, info.CurrentState.Lesson.Number)
	assert.Equal(t, 45*time.Minute, info.CurrentState.TimeRemaining)
	assert.Equal(t, "45:00", FormatRemaining(info.CurrentState.TimeRemaining))
	require.NotNil(t, info.NextLesson)
	assert.Equal(t, 2, info.NextLesson.Number)
}

func TestComputeStateLessonEndIsInclusive(t *testing.T) {
	info := ComputeState(sampleSchedule(), nil, models.DefaultBellTimetable(), "5А", monday(9, 15, 0))

	require.Equal(t, models.StateInLesson, info.CurrentState.Kind)
	assert.Equal(t, 1, info.CurrentState.Lesson.Number)
	assert.Zero(t, info.CurrentState.TimeRemaining)
}

func TestComputeStateBreak(t *testing.T) {
	info := ComputeState(sampleSchedule(), nil, models.DefaultBellTimetable(), "5А", monday(9, 20, 0))

	require.Equal(t, models.StateOnBreak, info.CurrentState.Kind)
	assert.Equal(t, 2, info.CurrentState.NextLesson.Number)
	assert.Equal(t, 10*time.Minute, info.CurrentState.TimeRemaining)
	assert.Nil(t, info.CurrentState.Lesson)
}

func TestComputeStateBeforeFirstLesson(t *testing.T) {
	info := ComputeState(sampleSchedule(), nil, models.DefaultBellTimetable(), "5А", monday(7, 0, 0))

	require.Equal(t, models.StateOnBreak, info.CurrentState.Kind)
	assert.Equal(t, 1, info.CurrentState.NextLesson.Number)
	assert.Equal(t, 90*time.Minute, info.CurrentState.TimeRemaining)
	assert.Equal(t, "1:30:00", FormatRemaining(info.CurrentState.TimeRemaining))
}

func TestComputeStateDayOver(t *testing.T) {
	info := ComputeState(sampleSchedule(), nil, models.DefaultBellTimetable(), "5А", monday(16, 0, 0))

	assert.Equal(t, models.StateDayOver, info.CurrentState.Kind)
	assert.Nil(t, info.NextLesson)
	assert.Len(t, info.TodayLessons, 3)
}

func TestComputeStateSortsReplacements(t *testing.T) {
	info := ComputeState(sampleSchedule(), sampleSubstitutions(), models.DefaultBellTimetable(), "5А", monday(8, 0, 0))

	require.Len(t, info.ClassReplacements, 2)
	assert.Equal(t, 1, info.ClassReplacements[0].LessonNumber)
	assert.True(t, info.ClassReplacements[0].IsSpecialCase())
	assert.Equal(t, 3, info.ClassReplacements[1].LessonNumber)
}

func TestClassSubstitutionsKeepsDuplicatesInSectionOrder(t *testing.T) {
	subs := &models.SubstitutionSnapshot{Sections: []models.SubstitutionSection{
		{Teacher: "Первая", Lessons: []models.Substitution{
			models.NewReplacement(2, "5А", "B", "-"),
			models.NewReplacement(1, "5А", "A", "-"),
		}},
		{Teacher: "Вторая", Lessons: []models.Substitution{
			models.NewReplacement(2, "5А", "C", "-"),
			models.NewReplacement(2, "6Б", "D", "-"),
		}},
	}}

	got := ClassSubstitutions(subs, "5А")
	require.Len(t, got, 3)
	teachers := []string{got[0].Teacher, got[1].Teacher, got[2].Teacher}
	assert.Equal(t, []string{"A", "B", "C"}, teachers)
	assert.Equal(t, []int{1, 2, 2}, []int{got[0].LessonNumber, got[1].LessonNumber, got[2].LessonNumber})
	assert.Empty(t, ClassSubstitutions(nil, "5А"))
}

func TestComputeStateDropsBlankLessons(t *testing.T) {
	info := ComputeState(sampleSchedule(), nil, models.DefaultBellTimetable(), "5А", monday(8, 0, 0))

	require.Len(t, info.TodayLessons, 3)
	for i, l := range info.TodayLessons {
		assert.Equal(t, i+1, l.Number)
		assert.False(t, l.IsEmpty())
	}
}

func TestComputeStateUnknownClass(t *testing.T) {
	info := ComputeState(sampleSchedule(), sampleSubstitutions(), models.DefaultBellTimetable(), "9Я", monday(9, 0, 0))

	assert.Equal(t, models.StateNoData, info.CurrentState.Kind)
	assert.Empty(t, info.TodayLessons)
	assert.NotNil(t, info.ClassReplacements)
	assert.Empty(t, info.ClassReplacements)
	assert.Nil(t, info.NextLesson)
}

func TestComputeStateNoLessonsTodayStillReportsSubstitutions(t *testing.T) {
	subs := &models.SubstitutionSnapshot{Sections: []models.SubstitutionSection{{
		Lessons: []models.Substitution{models.NewReplacement(1, "11А", "Петрова П.П.", "101")},
	}}}
	info := ComputeState(sampleSchedule(), subs, models.DefaultBellTimetable(), "11А", monday(9, 0, 0))

	assert.Equal(t, models.StateNoData, info.CurrentState.Kind)
	assert.Len(t, info.ClassReplacements, 1)
}

func TestComputeStateSundayHasNoData(t *testing.T) {
	sunday := time.Date(2024, time.September, 1, 10, 0, 0, 0, time.UTC)
	info := ComputeState(sampleSchedule(), nil, models.DefaultBellTimetable(), "5А", sunday)

	assert.Equal(t, models.StateNoData, info.CurrentState.Kind)
}

func TestComputeStateSkipsLessonsWithoutBellWindow(t *testing.T) {
	bells := models.BellTimetable{
		1: {Start: models.Clock(8, 30), End: models.Clock(9, 15)},
		3: {Start: models.Clock(10, 30), End: models.Clock(11, 15)},
	}
	info := ComputeState(sampleSchedule(), nil, bells, "5А", monday(9, 45, 0))

	require.Equal(t, models.StateOnBreak, info.CurrentState.Kind)
	assert.Equal(t, 3, info.CurrentState.NextLesson.Number)
	assert.Len(t, info.TodayLessons, 3)
}

func TestComputeStateIsIdempotent(t *testing.T) {
	schedule, subs := sampleSchedule(), sampleSubstitutions()
	at := monday(10, 0, 0)

	first := ComputeState(schedule, subs, models.DefaultBellTimetable(), "5А", at)
	second := ComputeState(schedule, subs, models.DefaultBellTimetable(), "5А", at)
	assert.Equal(t, first, second)
}

func TestFormatRemaining(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00"},
		{-time.Second, "00:00"},
		{59 * time.Second, "00:59"},
		{10 * time.Minute, "10:00"},
		{time.Hour - time.Second, "59:59"},
		{time.Hour, "1:00:00"},
		{2*time.Hour + 5*time.Minute + 7*time.Second, "2:05:07"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatRemaining(tc.in), tc.in.String())
	}
}
