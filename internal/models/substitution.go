package models

import "time"

// SubstitutionKind distinguishes a plain teacher replacement from a free-text special case.
type SubstitutionKind string

const (
	SubstitutionReplacement SubstitutionKind = "REPLACEMENT"
	SubstitutionSpecialCase SubstitutionKind = "SPECIAL_CASE"
)

// NoRoomChange is the classroom marker meaning the lesson keeps its room.
const NoRoomChange = "-"

// Substitution is a one-day override of a single lesson slot for one class.
// Teacher is set for replacements, Note for special cases.
type Substitution struct {
	Kind         SubstitutionKind `json:"kind"`
	LessonNumber int              `json:"lesson_number" validate:"gt=0"`
	ClassName    string           `json:"class_name" validate:"required"`
	Teacher      string           `json:"teacher,omitempty"`
	Classroom    string           `json:"classroom"`
	Note         string           `json:"note,omitempty"`
}

// NewReplacement builds a plain teacher substitution.
func NewReplacement(lessonNumber int, className, teacher, classroom string) Substitution {
	return Substitution{
		Kind:         SubstitutionReplacement,
		LessonNumber: lessonNumber,
		ClassName:    className,
		Teacher:      teacher,
		Classroom:    classroom,
	}
}

// NewSpecialCase builds a substitution that carries a note instead of a teacher.
func NewSpecialCase(lessonNumber int, className, note, classroom string) Substitution {
	return Substitution{
		Kind:         SubstitutionSpecialCase,
		LessonNumber: lessonNumber,
		ClassName:    className,
		Note:         note,
		Classroom:    classroom,
	}
}

// IsSpecialCase reports whether the record is a note rather than a teacher swap.
func (s Substitution) IsSpecialCase() bool {
	return s.Kind == SubstitutionSpecialCase
}

// ChangesRoom reports whether the record moves the class to another room.
func (s Substitution) ChangesRoom() bool {
	return s.Classroom != "" && s.Classroom != NoRoomChange
}

// SubstitutionSection groups records under the absent teacher they replace.
type SubstitutionSection struct {
	Teacher     string         `json:"teacher"`
	Description string         `json:"description"`
	Lessons     []Substitution `json:"lessons"`
}

// SubstitutionSnapshot is the day's substitution bulletin.
type SubstitutionSnapshot struct {
	Version  string                `json:"version"`
	LoadedAt time.Time             `json:"loaded_at"`
	Date     string                `json:"date"`
	Title    string                `json:"title"`
	Sections []SubstitutionSection `json:"sections"`
}

// EmptySubstitutionSnapshot returns a bulletin with no substitutions.
func EmptySubstitutionSnapshot() *SubstitutionSnapshot {
	return &SubstitutionSnapshot{Sections: []SubstitutionSection{}}
}

// HasSubstitutions reports whether any section carries at least one record.
func (s *SubstitutionSnapshot) HasSubstitutions() bool {
	if s == nil {
		return false
	}
	for _, section := range s.Sections {
		if len(section.Lessons) > 0 {
			return true
		}
	}
	return false
}

// ClassSubstitutions is the per-class bucket used by the browse view.
type ClassSubstitutions struct {
	ClassName     string         `json:"class_name"`
	Substitutions []Substitution `json:"substitutions"`
}
