package repository

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/noah-isme/kiosk-api/internal/models"
	appErrors "github.com/noah-isme/kiosk-api/pkg/errors"
)

type bellRow struct {
	Number int    `csv:"number"`
	Start  string `csv:"start"`
	End    string `csv:"end"`
}

// BellCSVRepository reads a bell timetable override with number,start,end columns.
type BellCSVRepository struct {
	path string
}

// NewBellCSVRepository constructs a bell timetable loader. An empty path means "use defaults".
func NewBellCSVRepository(path string) *BellCSVRepository {
	return &BellCSVRepository{path: path}
}

// Load returns the configured timetable, or the default one when no file is configured.
func (r *BellCSVRepository) Load() (models.BellTimetable, error) {
	if r.path == "" {
		return models.DefaultBellTimetable(), nil
	}
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, appErrors.Wrap(err, appErrors.ErrSourceMissing.Code, appErrors.ErrSourceMissing.Status, "bell timetable not found: "+r.path)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read bell timetable")
	}
	return DecodeBellCSV(raw)
}

// DecodeBellCSV parses and validates a bell timetable CSV.
func DecodeBellCSV(raw []byte) (models.BellTimetable, error) {
	var rows []bellRow
	if err := gocsv.Unmarshal(bytes.NewReader(raw), &rows); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrMalformedSource.Code, appErrors.ErrMalformedSource.Status, "bell timetable is not valid CSV")
	}
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrMalformedSource, "bell timetable is empty")
	}

	bells := make(models.BellTimetable, len(rows))
	for _, row := range rows {
		if _, dup := bells[row.Number]; dup {
			return nil, appErrors.Clone(appErrors.ErrMalformedSource, fmt.Sprintf("bell slot %d listed twice", row.Number))
		}
		start, err := models.ParseClock(row.Start)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrMalformedSource.Code, appErrors.ErrMalformedSource.Status, fmt.Sprintf("bell slot %d has invalid start", row.Number))
		}
		end, err := models.ParseClock(row.End)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrMalformedSource.Code, appErrors.ErrMalformedSource.Status, fmt.Sprintf("bell slot %d has invalid end", row.Number))
		}
		bells[row.Number] = models.BellWindow{Start: start, End: end}
	}

	if err := bells.Validate(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrMalformedSource.Code, appErrors.ErrMalformedSource.Status, "bell timetable is inconsistent")
	}
	return bells, nil
}
