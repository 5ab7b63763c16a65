package repository

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kiosk-api/internal/models"
	appErrors "github.com/noah-isme/kiosk-api/pkg/errors"
)

func TestDecodeBellCSV(t *testing.T) {
	bells, err := DecodeBellCSV([]byte("number,start,end\n1,8:00,8:40\n2,08:50,09:30\n"))
	require.NoError(t, err)

	require.Len(t, bells, 2)
	assert.Equal(t, models.BellWindow{Start: models.Clock(8, 0), End: models.Clock(8, 40)}, bells[1])
	assert.Equal(t, "08:50–09:30", bells[2].String())
}

func TestDecodeBellCSVRejectsInvalidTables(t *testing.T) {
	cases := map[string]string{
		"empty":       "number,start,end\n",
		"bad clock":   "number,start,end\n1,8am,9am\n",
		"inverted":    "number,start,end\n1,09:00,08:00\n",
		"overlapping": "number,start,end\n1,08:00,09:00\n2,08:30,09:30\n",
		"duplicate":   "number,start,end\n1,08:00,08:40\n1,09:00,09:40\n",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeBellCSV([]byte(raw))
			assert.True(t, errors.Is(err, appErrors.ErrMalformedSource), "got %v", err)
		})
	}
}

func TestBellCSVRepositoryLoad(t *testing.T) {
	bells, err := NewBellCSVRepository("").Load()
	require.NoError(t, err)
	assert.Equal(t, models.DefaultBellTimetable(), bells)

	_, err = NewBellCSVRepository(filepath.Join(t.TempDir(), "none.csv")).Load()
	assert.True(t, errors.Is(err, appErrors.ErrSourceMissing))

	path := filepath.Join(t.TempDir(), "bells.csv")
	require.NoError(t, os.WriteFile(path, []byte("number,start,end\n1,08:00,08:45\n"), 0o600))
	bells, err = NewBellCSVRepository(path).Load()
	require.NoError(t, err)
	assert.Len(t, bells, 1)
}
