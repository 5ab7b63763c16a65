package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/noah-isme/kiosk-api/pkg/clock"
	"github.com/noah-isme/kiosk-api/pkg/config"
	appErrors "github.com/noah-isme/kiosk-api/pkg/errors"
	"github.com/noah-isme/kiosk-api/pkg/export"
)

func newExportFixture() *ExportService {
	store := &stubStore{schedule: sampleSchedule(), substitutions: sampleSubstitutions()}
	// Saturday: the Monday agenda lands two days later.
	now := monday(10, 0, 0).AddDate(0, 0, 5)
	return NewExportService(store, clock.Fixed{At: now}, config.ExportConfig{}, nil)
}

func TestExportAgendaCSV(t *testing.T) {
	file, err := newExportFixture().Agenda(context.Background(), "5А", monday(0, 0, 0).Weekday(), export.FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, "agenda-5А-Monday.csv", file.Filename)
	assert.Equal(t, export.FormatCSV.ContentType(), file.ContentType)

	body := strings.TrimPrefix(string(file.Body), "\ufeff")
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "№,Время,Предмет,Учитель,Кабинет", strings.TrimSpace(lines[0]))
	assert.Contains(t, lines[1], "08:30–09:15")
	assert.Contains(t, lines[1], "Математика")
	assert.Contains(t, lines[2], "Перемена")
}

func TestExportAgendaICSPlacesEventsOnNextWeekday(t *testing.T) {
	file, err := newExportFixture().Agenda(context.Background(), "5А", monday(0, 0, 0).Weekday(), export.FormatICS)
	require.NoError(t, err)

	cal, err := ics.ParseCalendar(bytes.NewReader(file.Body))
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 3)

	start, err := events[0].GetStartAt()
	require.NoError(t, err)
	assert.Equal(t, 9, start.Day())
	assert.Equal(t, 8, start.Hour())
	assert.Equal(t, 30, start.Minute())
	assert.Equal(t, "Математика", events[0].GetProperty(ics.ComponentPropertySummary).Value)
}

func TestExportAgendaRejectsUnknownClassAndFormat(t *testing.T) {
	svc := newExportFixture()

	_, err := svc.Agenda(context.Background(), "9Я", monday(0, 0, 0).Weekday(), export.FormatPDF)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	_, err = svc.Agenda(context.Background(), "5А", monday(0, 0, 0).Weekday(), export.FormatXLSX)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestExportAgendaPDF(t *testing.T) {
	file, err := newExportFixture().Agenda(context.Background(), "5А", monday(0, 0, 0).Weekday(), export.FormatPDF)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(file.Body, []byte("%PDF")))
}

func TestExportSubstitutionsXLSX(t *testing.T) {
	file, err := newExportFixture().Substitutions(context.Background(), export.FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, "substitutions-02.09.2024.xlsx", file.Filename)

	book, err := excelize.OpenReader(bytes.NewReader(file.Body))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows(book.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "Замены на 02.09.2024", rows[0][0])
	assert.Equal(t, []string{"Класс", "№", "Учитель", "Кабинет", "Примечание"}, rows[1])
	assert.Equal(t, "10Б", rows[2][0])
	assert.Equal(t, "5А", rows[3][0])
}

func TestExportSubstitutionsCSVAndUnsupported(t *testing.T) {
	svc := newExportFixture()

	file, err := svc.Substitutions(context.Background(), export.FormatCSV)
	require.NoError(t, err)
	body := string(file.Body)
	assert.Contains(t, body, "Подгруппа 1 объединение")
	assert.Contains(t, body, "10Б,2,Сидоров С.С.,,\n")
	assert.Contains(t, body, "5А,3,Петрова П.П.,205,\n")

	_, err = svc.Substitutions(context.Background(), export.FormatICS)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}
