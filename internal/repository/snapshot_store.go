package repository

import (
	"sync/atomic"

	"github.com/noah-isme/kiosk-api/internal/models"
)

// SnapshotStore publishes the current schedule and substitution snapshots.
// Readers get an immutable value and never observe a partially applied reload.
type SnapshotStore struct {
	schedule      atomic.Pointer[models.ScheduleSnapshot]
	substitutions atomic.Pointer[models.SubstitutionSnapshot]
	bells         atomic.Pointer[models.BellTimetable]
}

// NewSnapshotStore returns a store holding empty snapshots and the given bell timetable.
func NewSnapshotStore(bells models.BellTimetable) *SnapshotStore {
	if bells == nil {
		bells = models.DefaultBellTimetable()
	}
	s := &SnapshotStore{}
	s.schedule.Store(models.EmptyScheduleSnapshot())
	s.substitutions.Store(models.EmptySubstitutionSnapshot())
	s.bells.Store(&bells)
	return s
}

// Schedule returns the current schedule snapshot.
func (s *SnapshotStore) Schedule() *models.ScheduleSnapshot {
	return s.schedule.Load()
}

// Substitutions returns the current substitution snapshot.
func (s *SnapshotStore) Substitutions() *models.SubstitutionSnapshot {
	return s.substitutions.Load()
}

// Bells returns the active bell timetable.
func (s *SnapshotStore) Bells() models.BellTimetable {
	return *s.bells.Load()
}

// ReplaceSchedule swaps in a new schedule snapshot. Nil is ignored.
func (s *SnapshotStore) ReplaceSchedule(snapshot *models.ScheduleSnapshot) {
	if snapshot == nil {
		return
	}
	s.schedule.Store(snapshot)
}

// ReplaceSubstitutions swaps in a new substitution snapshot. Nil is ignored.
func (s *SnapshotStore) ReplaceSubstitutions(snapshot *models.SubstitutionSnapshot) {
	if snapshot == nil {
		return
	}
	s.substitutions.Store(snapshot)
}
