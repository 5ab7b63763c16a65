package service

import (
	"time"

	"github.com/noah-isme/kiosk-api/internal/models"
)

type stubStore struct {
	schedule      *models.ScheduleSnapshot
	substitutions *models.SubstitutionSnapshot
	bells         models.BellTimetable
}

func (s *stubStore) Schedule() *models.ScheduleSnapshot {
	if s.schedule == nil {
		return models.EmptyScheduleSnapshot()
	}
	return s.schedule
}

func (s *stubStore) Substitutions() *models.SubstitutionSnapshot {
	if s.substitutions == nil {
		return models.EmptySubstitutionSnapshot()
	}
	return s.substitutions
}

func (s *stubStore) Bells() models.BellTimetable {
	if s.bells == nil {
		return models.DefaultBellTimetable()
	}
	return s.bells
}

func (s *stubStore) ReplaceSchedule(snapshot *models.ScheduleSnapshot) {
	if snapshot != nil {
		s.schedule = snapshot
	}
}

func (s *stubStore) ReplaceSubstitutions(snapshot *models.SubstitutionSnapshot) {
	if snapshot != nil {
		s.substitutions = snapshot
	}
}

// monday returns 2 September 2024, a Monday, at the given wall-clock time.
func monday(hour, minute, second int) time.Time {
	return time.Date(2024, time.September, 2, hour, minute, second, 0, time.UTC)
}

func lesson(number int, subject string) models.Lesson {
	return models.Lesson{Number: number, Subject: subject, Teacher: "Учитель " + subject, Classroom: "10" + string(rune('0'+number))}
}

func sampleSchedule() *models.ScheduleSnapshot {
	return &models.ScheduleSnapshot{
		Version:     "sched-v1",
		LastUpdated: "01.09.2024",
		WeekType:    models.WeekTypeCurrent,
		Schedules: []models.ClassSchedule{
			{
				ClassName: "5А",
				Days: map[time.Weekday][]models.Lesson{
					time.Monday: {
						lesson(3, "История"),
						lesson(1, "Математика"),
						{},
						lesson(2, "Русский язык"),
					},
					time.Wednesday: {lesson(1, "Физкультура")},
				},
			},
			{ClassName: "10Б", Days: map[time.Weekday][]models.Lesson{time.Tuesday: {lesson(1, "Физика")}}},
			{ClassName: "11А", Days: map[time.Weekday][]models.Lesson{}},
		},
		BreakDurations: models.BreakDurations{1: 15, 2: 20},
	}
}

func sampleSubstitutions() *models.SubstitutionSnapshot {
	return &models.SubstitutionSnapshot{
		Version: "subs-v1",
		Date:    "02.09.2024",
		Title:   "Замены на 02.09.2024",
		Sections: []models.SubstitutionSection{
			{
				Teacher: "Иванова И.И.",
				Lessons: []models.Substitution{
					models.NewReplacement(3, "5А", "Петрова П.П.", "205"),
					models.NewReplacement(2, "10Б", "Сидоров С.С.", models.NoRoomChange),
				},
			},
			{
				Teacher: "Смирнов А.А.",
				Lessons: []models.Substitution{
					models.NewSpecialCase(1, "5А", "Подгруппа 1 объединение", "301"),
				},
			},
		},
	}
}
