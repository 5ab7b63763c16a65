package repository

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kiosk-api/internal/models"
)

func TestSnapshotStoreStartsEmpty(t *testing.T) {
	store := NewSnapshotStore(nil)

	require.NotNil(t, store.Schedule())
	require.NotNil(t, store.Substitutions())
	assert.Empty(t, store.Schedule().Schedules)
	assert.False(t, store.Substitutions().HasSubstitutions())
	assert.Equal(t, models.DefaultBellTimetable(), store.Bells())
}

func TestSnapshotStoreReplaceIgnoresNil(t *testing.T) {
	store := NewSnapshotStore(nil)
	first := &models.ScheduleSnapshot{Version: "v1"}
	store.ReplaceSchedule(first)
	store.ReplaceSchedule(nil)
	store.ReplaceSubstitutions(nil)

	assert.Same(t, first, store.Schedule())
	assert.Len(t, store.Bells(), 8)
}

func TestSnapshotStoreConcurrentReadersSeeWholeSnapshots(t *testing.T) {
	store := NewSnapshotStore(nil)
	a := &models.ScheduleSnapshot{Version: "a", Schedules: []models.ClassSchedule{{ClassName: "5А"}}}
	b := &models.ScheduleSnapshot{Version: "b", Schedules: []models.ClassSchedule{{ClassName: "6Б"}, {ClassName: "7В"}}}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			if i%2 == 0 {
				store.ReplaceSchedule(a)
			} else {
				store.ReplaceSchedule(b)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			s := store.Schedule()
			switch s.Version {
			case "a":
				assert.Len(t, s.Schedules, 1)
			case "b":
				assert.Len(t, s.Schedules, 2)
			}
		}
	}()
	wg.Wait()
}
