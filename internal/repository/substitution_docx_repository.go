package repository

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/fumiama/go-docx"
	"go.uber.org/zap"

	"github.com/noah-isme/kiosk-api/internal/models"
	appErrors "github.com/noah-isme/kiosk-api/pkg/errors"
)

var (
	titleMarker      = "Замены на"
	bulletinDate     = regexp.MustCompile(`\d{1,2}\.\d{1,2}\.\d{4}`)
	markdownBold     = regexp.MustCompile(`\*\*.+\*\*`)
	eventMarkers     = []string{"МЭ ВсОШ", "Городская библиотека"}
	descriptionHints = []string{"МЭ ВсОШ", "Городская библиотека", "Начало в"}
	specialCaseHints = []string{"Подгруппа", "объединение", "приходит"}
)

// SubstitutionDocxRepository loads the daily substitution bulletin from a .docx file.
type SubstitutionDocxRepository struct {
	path   string
	now    func() time.Time
	logger *zap.Logger
}

// NewSubstitutionDocxRepository constructs a DOCX substitution loader. now supplies the
// fallback bulletin date when the title carries none.
func NewSubstitutionDocxRepository(path string, now func() time.Time, logger *zap.Logger) *SubstitutionDocxRepository {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubstitutionDocxRepository{path: path, now: now, logger: logger}
}

// Source names the file the repository reads.
func (r *SubstitutionDocxRepository) Source() string {
	return r.path
}

// Load opens the document and extracts its sections.
func (r *SubstitutionDocxRepository) Load(ctx context.Context) (*models.SubstitutionSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, appErrors.Wrap(err, appErrors.ErrSourceMissing.Code, appErrors.ErrSourceMissing.Status, "substitution file not found: "+r.path)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read substitution file")
	}
	snapshot, err := DecodeSubstitutionDocx(raw, r.now())
	if err != nil {
		return nil, err
	}
	r.logger.Debug("substitution bulletin parsed", zap.String("date", snapshot.Date), zap.Int("sections", len(snapshot.Sections)))
	return snapshot, nil
}

// DecodeSubstitutionDocx parses a .docx payload. today is used when the title has no date.
func DecodeSubstitutionDocx(raw []byte, today time.Time) (*models.SubstitutionSnapshot, error) {
	doc, err := docx.Parse(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrMalformedSource.Code, appErrors.ErrMalformedSource.Status, "substitution file is not a docx archive")
	}
	if len(doc.Document.Body.Items) == 0 {
		return nil, appErrors.Clone(appErrors.ErrMalformedSource, "substitution file has no document body")
	}
	return buildBulletin(bodyBlocks(doc.Document.Body.Items), today), nil
}

// docBlock is a top-level body element: a paragraph or a table.
type docBlock struct {
	paragraph *docParagraph
	table     [][]string
}

type docParagraph struct {
	text string
	bold bool
}

func buildBulletin(blocks []docBlock, today time.Time) *models.SubstitutionSnapshot {
	snapshot := models.EmptySubstitutionSnapshot()
	var current *models.SubstitutionSection

	flush := func() {
		if current != nil && len(current.Lessons) > 0 {
			snapshot.Sections = append(snapshot.Sections, *current)
		}
	}

	for _, block := range blocks {
		if block.table != nil {
			if current != nil {
				current.Lessons = append(current.Lessons, tableSubstitutions(block.table)...)
			}
			continue
		}

		text := strings.TrimSpace(block.paragraph.text)
		if text == "" {
			continue
		}

		if snapshot.Date == "" && strings.Contains(text, titleMarker) {
			snapshot.Date = bulletinDate.FindString(text)
			if snapshot.Date == "" {
				snapshot.Date = today.Format("02.01.2006")
			}
			snapshot.Title = text
			continue
		}

		if block.paragraph.bold || markdownBold.MatchString(text) {
			flush()
			current = &models.SubstitutionSection{
				Teacher:     sectionTeacher(text),
				Description: sectionDescription(text),
				Lessons:     []models.Substitution{},
			}
			continue
		}

		if current != nil && containsAny(text, descriptionHints) {
			current.Description = text
		}
	}
	flush()

	return snapshot
}

func sectionTeacher(text string) string {
	text = strings.TrimSpace(strings.ReplaceAll(text, "**", ""))
	if i := strings.IndexRune(text, '+'); i > 0 {
		text = strings.TrimSpace(text[:i])
	}
	return text
}

func sectionDescription(text string) string {
	if containsAny(text, eventMarkers) {
		return text
	}
	if i := strings.IndexRune(text, '+'); i > 0 {
		return strings.TrimSpace(text[i+1:])
	}
	return ""
}

// tableSubstitutions converts table rows (header skipped) into records.
// Columns: lesson number, class, replacing teacher, room.
func tableSubstitutions(rows [][]string) []models.Substitution {
	out := make([]models.Substitution, 0, len(rows))
	for i, cells := range rows {
		if i == 0 || len(cells) < 4 {
			continue
		}
		number, err := strconv.Atoi(cells[0])
		if err != nil || number <= 0 {
			continue
		}
		className := cells[1]
		if className == "" {
			continue
		}
		teacher, room := cells[2], cells[3]
		if containsAny(teacher, specialCaseHints) {
			out = append(out, models.NewSpecialCase(number, className, teacher, room))
			continue
		}
		out = append(out, models.NewReplacement(number, className, teacher, room))
	}
	return out
}

func containsAny(text string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}

// bodyBlocks keeps the paragraphs and tables of the body in document order.
func bodyBlocks(items []interface{}) []docBlock {
	blocks := make([]docBlock, 0, len(items))
	for _, item := range items {
		switch el := item.(type) {
		case *docx.Paragraph:
			blocks = append(blocks, docBlock{paragraph: &docParagraph{
				text: paragraphText(el),
				bold: paragraphBold(el),
			}})
		case *docx.Table:
			blocks = append(blocks, docBlock{table: tableRows(el)})
		}
	}
	return blocks
}

func paragraphText(p *docx.Paragraph) string {
	var b strings.Builder
	for _, child := range p.Children {
		switch el := child.(type) {
		case *docx.Run:
			writeRunText(&b, el)
		case *docx.Hyperlink:
			writeRunText(&b, &el.Run)
		}
	}
	return b.String()
}

func writeRunText(b *strings.Builder, run *docx.Run) {
	for _, child := range run.Children {
		switch el := child.(type) {
		case *docx.Text:
			b.WriteString(el.Text)
		case *docx.Tab:
			b.WriteByte('\t')
		}
	}
}

// paragraphBold reports whether any run carries a bold property, whatever its value.
func paragraphBold(p *docx.Paragraph) bool {
	for _, child := range p.Children {
		run, ok := child.(*docx.Run)
		if ok && run.RunProperties != nil && run.RunProperties.Bold != nil {
			return true
		}
	}
	return false
}

// tableRows returns the trimmed text of each row's cells.
// Nested tables contribute their text to the enclosing cell.
func tableRows(t *docx.Table) [][]string {
	rows := make([][]string, 0, len(t.TableRows))
	for _, tr := range t.TableRows {
		row := make([]string, 0, len(tr.TableCells))
		for _, tc := range tr.TableCells {
			var b strings.Builder
			writeCellText(&b, tc)
			row = append(row, strings.TrimSpace(b.String()))
		}
		rows = append(rows, row)
	}
	return rows
}

func writeCellText(b *strings.Builder, tc *docx.WTableCell) {
	for _, p := range tc.Paragraphs {
		b.WriteString(paragraphText(p))
	}
	for _, nested := range tc.Tables {
		for _, tr := range nested.TableRows {
			for _, cell := range tr.TableCells {
				writeCellText(b, cell)
			}
		}
	}
}
