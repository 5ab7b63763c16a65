package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/kiosk-api/internal/models"
	"github.com/noah-isme/kiosk-api/pkg/clock"
	"github.com/noah-isme/kiosk-api/pkg/config"
	appErrors "github.com/noah-isme/kiosk-api/pkg/errors"
	"github.com/noah-isme/kiosk-api/pkg/export"
)

const (
	colNumber    = "№"
	colTime      = "Время"
	colSubject   = "Предмет"
	colTeacher   = "Учитель"
	colClassroom = "Кабинет"
	colClass     = "Класс"
	colNote      = "Примечание"
)

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders agendas and the substitution bulletin as printable files.
type ExportService struct {
	store  SnapshotReader
	clock  clock.Clock
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	xlsx   *export.XLSXExporter
	ics    *export.ICSExporter
	logger *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(store SnapshotReader, clk clock.Clock, cfg config.ExportConfig, logger *zap.Logger) *ExportService {
	if clk == nil {
		clk = clock.System{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		store:  store,
		clock:  clk,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(cfg.FontPath, cfg.BoldFontPath),
		xlsx:   export.NewXLSXExporter(),
		ics:    export.NewICSExporter(""),
		logger: logger,
	}
}

// Agenda renders one class's day as PDF, CSV or ICS.
func (s *ExportService) Agenda(ctx context.Context, className string, day time.Weekday, format export.Format) (*ExportFile, error) {
	snapshot := s.store.Schedule()
	schedule, ok := snapshot.Find(className)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}

	base := fmt.Sprintf("agenda-%s-%s", className, day.String())
	lessons := SortLessons(FilterLessons(schedule.LessonsOn(day)))
	bells := s.store.Bells()

	var (
		body []byte
		err  error
	)
	switch format {
	case export.FormatCSV:
		body, err = s.csv.Render(s.agendaDataset(className, day, lessons, snapshot.BreakDurations, bells))
	case export.FormatPDF:
		body, err = s.pdf.Render(s.agendaDataset(className, day, lessons, snapshot.BreakDurations, bells))
	case export.FormatICS:
		body, err = s.ics.Render(fmt.Sprintf("Расписание %s", className), s.agendaEvents(className, day, lessons, bells))
	default:
		return nil, unsupportedFormat(format)
	}
	if err != nil {
		s.logger.Error("agenda export failed", zap.String("class", className), zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render agenda")
	}
	return &ExportFile{Filename: base + "." + string(format), ContentType: format.ContentType(), Body: body}, nil
}

// Substitutions renders the bulletin grouped by class as PDF, CSV or XLSX.
func (s *ExportService) Substitutions(ctx context.Context, format export.Format) (*ExportFile, error) {
	bulletin := s.store.Substitutions()
	data := s.substitutionDataset(bulletin)

	var (
		body []byte
		err  error
	)
	switch format {
	case export.FormatCSV:
		body, err = s.csv.Render(data)
	case export.FormatPDF:
		body, err = s.pdf.Render(data)
	case export.FormatXLSX:
		body, err = s.xlsx.Render(data)
	default:
		return nil, unsupportedFormat(format)
	}
	if err != nil {
		s.logger.Error("substitution export failed", zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render substitutions")
	}

	name := "substitutions"
	if bulletin.Date != "" {
		name += "-" + bulletin.Date
	}
	return &ExportFile{Filename: name + "." + string(format), ContentType: format.ContentType(), Body: body}, nil
}

func (s *ExportService) agendaDataset(className string, day time.Weekday, lessons []models.Lesson, breaks models.BreakDurations, bells models.BellTimetable) export.Dataset {
	data := export.Dataset{
		Title:   fmt.Sprintf("%s · %s", className, DayName(day)),
		Headers: []string{colNumber, colTime, colSubject, colTeacher, colClassroom},
	}
	for _, item := range BuildAgenda(lessons, breaks) {
		if item.IsBreak() {
			data.Rows = append(data.Rows, map[string]string{colSubject: item.Label})
			continue
		}
		lesson := item.Lesson
		data.Rows = append(data.Rows, map[string]string{
			colNumber:    strconv.Itoa(lesson.Number),
			colTime:      lessonTime(*lesson, bells),
			colSubject:   lesson.Subject,
			colTeacher:   lesson.Teacher,
			colClassroom: lesson.Classroom,
		})
	}
	return data
}

// agendaEvents places lessons on the next calendar date falling on day, today included.
// Lessons without a bell window have no time and are left out.
func (s *ExportService) agendaEvents(className string, day time.Weekday, lessons []models.Lesson, bells models.BellTimetable) []export.CalendarEvent {
	now := s.clock.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	date := midnight.AddDate(0, 0, (int(day)-int(now.Weekday())+7)%7)

	events := make([]export.CalendarEvent, 0, len(lessons))
	for _, lesson := range lessons {
		window, ok := bells.Window(lesson.Number)
		if !ok {
			continue
		}
		events = append(events, export.CalendarEvent{
			UID:         fmt.Sprintf("%s-%s-%d@kiosk-api", className, date.Format("20060102"), lesson.Number),
			Start:       date.Add(window.Start),
			End:         date.Add(window.End),
			Summary:     lesson.Subject,
			Location:    lesson.Classroom,
			Description: lesson.Teacher,
		})
	}
	return events
}

func (s *ExportService) substitutionDataset(bulletin *models.SubstitutionSnapshot) export.Dataset {
	title := bulletin.Title
	if title == "" && bulletin.Date != "" {
		title = "Замены на " + bulletin.Date
	}
	data := export.Dataset{
		Title:   title,
		Headers: []string{colClass, colNumber, colTeacher, colClassroom, colNote},
	}
	for _, group := range GroupByClass(bulletin) {
		for _, sub := range group.Substitutions {
			room := ""
			if sub.ChangesRoom() {
				room = sub.Classroom
			}
			data.Rows = append(data.Rows, map[string]string{
				colClass:     group.ClassName,
				colNumber:    strconv.Itoa(sub.LessonNumber),
				colTeacher:   sub.Teacher,
				colClassroom: room,
				colNote:      sub.Note,
			})
		}
	}
	return data
}

func lessonTime(lesson models.Lesson, bells models.BellTimetable) string {
	if window, ok := bells.Window(lesson.Number); ok {
		return window.String()
	}
	return lesson.Time
}

func unsupportedFormat(format export.Format) error {
	return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
}
