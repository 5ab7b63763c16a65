package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kiosk-api/internal/models"
)

func TestBuildAgendaInterleavesBreaks(t *testing.T) {
	lessons := []models.Lesson{lesson(2, "Русский язык"), {}, lesson(1, "Математика"), lesson(3, "История")}
	items := BuildAgenda(lessons, models.BreakDurations{1: 15, 2: 20})

	require.Len(t, items, 5)
	assert.Equal(t, models.AgendaLesson, items[0].Kind)
	assert.Equal(t, 1, items[0].Lesson.Number)

	assert.True(t, items[1].IsBreak())
	assert.Equal(t, 15, items[1].DurationMinutes)
	assert.Equal(t, models.BreakTierMarked, items[1].Tier)
	assert.Equal(t, "Перемена 🕒 (15 мин)", items[1].Label)

	assert.Equal(t, 2, items[2].Lesson.Number)
	assert.Equal(t, models.BreakTierLong, items[3].Tier)
	assert.Equal(t, "Большая перемена 🏃 (20 мин)", items[3].Label)

	assert.Equal(t, 3, items[4].Lesson.Number)
}

func TestBuildAgendaDefaultsMissingBreak(t *testing.T) {
	lessons := []models.Lesson{lesson(4, "Биология"), lesson(5, "Химия")}
	items := BuildAgenda(lessons, models.BreakDurations{})

	require.Len(t, items, 3)
	assert.Equal(t, models.DefaultBreakMinutes, items[1].DurationMinutes)
	assert.Equal(t, models.BreakTierShort, items[1].Tier)
	assert.Equal(t, "Перемена (10 мин)", items[1].Label)
}

func TestBuildAgendaOmitsZeroBreakAndTrailingBreak(t *testing.T) {
	lessons := []models.Lesson{lesson(1, "Математика"), lesson(2, "Физика")}
	items := BuildAgenda(lessons, models.BreakDurations{1: 0, 2: 30})

	require.Len(t, items, 2)
	assert.False(t, items[0].IsBreak())
	assert.False(t, items[1].IsBreak())
}

func TestBuildAgendaEmptyDay(t *testing.T) {
	assert.Empty(t, BuildAgenda(nil, nil))
	assert.Empty(t, BuildAgenda([]models.Lesson{{}, {}}, nil))
}

func TestBuildAgendaBreakAfterEighthLessonUsesDefault(t *testing.T) {
	items := BuildAgenda([]models.Lesson{lesson(8, "Информатика"), lesson(9, "Черчение")}, models.BreakDurations{8: 40})

	require.Len(t, items, 3)
	assert.Equal(t, models.DefaultBreakMinutes, items[1].DurationMinutes)
}

func TestClassifyBreak(t *testing.T) {
	assert.Equal(t, models.BreakTierShort, ClassifyBreak(14))
	assert.Equal(t, models.BreakTierMarked, ClassifyBreak(15))
	assert.Equal(t, models.BreakTierMarked, ClassifyBreak(19))
	assert.Equal(t, models.BreakTierLong, ClassifyBreak(20))
}

func TestGroupByClass(t *testing.T) {
	groups := GroupByClass(sampleSubstitutions())

	require.Len(t, groups, 2)
	assert.Equal(t, "10Б", groups[0].ClassName)
	assert.Equal(t, "5А", groups[1].ClassName)
	require.Len(t, groups[1].Substitutions, 2)
	assert.Equal(t, 3, groups[1].Substitutions[0].LessonNumber)
	assert.Equal(t, 1, groups[1].Substitutions[1].LessonNumber)

	assert.Empty(t, GroupByClass(nil))
	assert.Empty(t, GroupByClass(models.EmptySubstitutionSnapshot()))
}

func TestDisplayDaysSelectsToday(t *testing.T) {
	schedule, _ := sampleSchedule().Find("5А")
	days := DisplayDays(*schedule, time.Wednesday)

	require.Len(t, days, 6)
	assert.Equal(t, "Понедельник", days[0].DayName)
	assert.Equal(t, "Сб", days[5].ShortName)
	assert.True(t, days[2].IsToday)
	assert.True(t, days[2].IsSelected)
	assert.False(t, days[0].IsSelected)
	assert.Len(t, days[0].Lessons, 3)
	assert.True(t, days[1].HasNoLessons)
}

func TestDisplayDaysFallsBackToFirstDayWithLessons(t *testing.T) {
	schedule, _ := sampleSchedule().Find("10Б")
	days := DisplayDays(*schedule, time.Sunday)

	for _, day := range days {
		assert.False(t, day.IsToday)
	}
	assert.True(t, days[1].IsSelected)
}

func TestDisplayDaysEmptyWeekSelectsMonday(t *testing.T) {
	schedule, _ := sampleSchedule().Find("11А")
	days := DisplayDays(*schedule, time.Friday)

	assert.True(t, days[0].IsSelected)
	assert.True(t, days[4].IsToday)
	assert.True(t, days[4].HasNoLessons)
}

func TestParseWeekday(t *testing.T) {
	cases := map[string]time.Weekday{
		"monday":   time.Monday,
		" Friday ": time.Friday,
		"Вторник":  time.Tuesday,
		"сб":       time.Saturday,
		"3":        time.Wednesday,
		"7":        time.Sunday,
	}
	for raw, want := range cases {
		got, ok := ParseWeekday(raw)
		require.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}

	_, ok := ParseWeekday("someday")
	assert.False(t, ok)
	assert.Equal(t, "Среда", DayName(time.Wednesday))
	assert.Equal(t, "Воскресенье", DayName(time.Sunday))
}
