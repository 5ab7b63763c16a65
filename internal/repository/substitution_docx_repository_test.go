package repository

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kiosk-api/internal/models"
	appErrors "github.com/noah-isme/kiosk-api/pkg/errors"
)

var fixedToday = time.Date(2024, 10, 14, 7, 0, 0, 0, time.Local)

func paragraph(text string, bold bool) string {
	rpr := ""
	if bold {
		rpr = "<w:rPr><w:b/></w:rPr>"
	}
	return `<w:p><w:r>` + rpr + `<w:t xml:space="preserve">` + text + `</w:t></w:r></w:p>`
}

func table(rows ...[]string) string {
	var b strings.Builder
	b.WriteString("<w:tbl><w:tblPr/>")
	for _, row := range rows {
		b.WriteString("<w:tr>")
		for _, cell := range row {
			b.WriteString(`<w:tc><w:p><w:r><w:t>` + cell + `</w:t></w:r></w:p></w:tc>`)
		}
		b.WriteString("</w:tr>")
	}
	b.WriteString("</w:tbl>")
	return b.String()
}

func buildDocx(t *testing.T, body ...string) []byte {
	t.Helper()
	doc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		strings.Join(body, "") +
		`<w:sectPr/></w:body></w:document>`

	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(doc))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

var header = []string{"Урок", "Класс", "Кто заменяет", "Кабинет"}

func TestDecodeSubstitutionDocx(t *testing.T) {
	raw := buildDocx(t,
		paragraph("Замены на 15.10.2024 (вторник)", false),
		paragraph("Иванова А.А. + курсы повышения квалификации", true),
		table(header,
			[]string{"3", "5А", "Петров П.П.", "-"},
			[]string{"1", "5А", "Сидорова С.С.", "21"},
			[]string{"2", "", "Никто", "-"},
			[]string{"0", "6Б", "Никто", "-"},
			[]string{"x", "6Б", "Никто", "-"},
			[]string{"4", "7В", "Подгруппа 2 объединяется", "12"},
		),
		paragraph("**Смирнов Б.Б.**", false),
		paragraph("Городская библиотека, Начало в 10:00", false),
		table(header, []string{"5", "8Г", "Кузнецова", "33"}),
		paragraph("Пустая секция", true),
		table(header),
	)

	snapshot, err := DecodeSubstitutionDocx(raw, fixedToday)
	require.NoError(t, err)

	assert.Equal(t, "15.10.2024", snapshot.Date)
	assert.Equal(t, "Замены на 15.10.2024 (вторник)", snapshot.Title)
	require.Len(t, snapshot.Sections, 2)

	first := snapshot.Sections[0]
	assert.Equal(t, "Иванова А.А.", first.Teacher)
	assert.Equal(t, "курсы повышения квалификации", first.Description)
	require.Len(t, first.Lessons, 3)
	assert.Equal(t, models.NewReplacement(3, "5А", "Петров П.П.", "-"), first.Lessons[0])
	assert.Equal(t, 1, first.Lessons[1].LessonNumber)
	assert.True(t, first.Lessons[2].IsSpecialCase())
	assert.Equal(t, "Подгруппа 2 объединяется", first.Lessons[2].Note)
	assert.Empty(t, first.Lessons[2].Teacher)

	second := snapshot.Sections[1]
	assert.Equal(t, "Смирнов Б.Б.", second.Teacher)
	assert.Equal(t, "Городская библиотека, Начало в 10:00", second.Description)
	require.Len(t, second.Lessons, 1)
}

func TestDecodeSubstitutionDocxFallsBackToToday(t *testing.T) {
	raw := buildDocx(t, paragraph("Замены на завтра", false))

	snapshot, err := DecodeSubstitutionDocx(raw, fixedToday)
	require.NoError(t, err)
	assert.Equal(t, "14.10.2024", snapshot.Date)
	assert.False(t, snapshot.HasSubstitutions())
	assert.NotNil(t, snapshot.Sections)
}

func TestDecodeSubstitutionDocxIgnoresTablesBeforeFirstSection(t *testing.T) {
	raw := buildDocx(t,
		table(header, []string{"1", "5А", "Петров", "-"}),
		paragraph("Начало в 9:00", false),
	)

	snapshot, err := DecodeSubstitutionDocx(raw, fixedToday)
	require.NoError(t, err)
	assert.Empty(t, snapshot.Sections)
}

func TestDecodeSubstitutionDocxAnyBoldElementStartsSection(t *testing.T) {
	raw := buildDocx(t,
		`<w:p><w:r><w:rPr><w:b w:val="0"/></w:rPr><w:t>Петрова А.А.</w:t></w:r></w:p>`,
		table(header, []string{"1", "5А", "Петров", "-"}),
	)

	snapshot, err := DecodeSubstitutionDocx(raw, fixedToday)
	require.NoError(t, err)
	require.Len(t, snapshot.Sections, 1)
	assert.Equal(t, "Петрова А.А.", snapshot.Sections[0].Teacher)
	require.Len(t, snapshot.Sections[0].Lessons, 1)
	assert.Equal(t, "5А", snapshot.Sections[0].Lessons[0].ClassName)
}

func TestDecodeSubstitutionDocxNestedTableText(t *testing.T) {
	raw := buildDocx(t,
		paragraph("Сидоров В.В.", true),
		`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>Урок</w:t></w:r></w:p></w:tc></w:tr>`+
			`<w:tr><w:tc><w:p><w:r><w:t>2</w:t></w:r></w:p></w:tc>`+
			`<w:tc><w:p><w:r><w:t>7В</w:t></w:r></w:p></w:tc>`+
			`<w:tc><w:tbl><w:tr><w:tc><w:p><w:r><w:t>Иванов</w:t></w:r></w:p></w:tc></w:tr></w:tbl></w:tc>`+
			`<w:tc><w:p><w:r><w:t>12</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`,
	)

	snapshot, err := DecodeSubstitutionDocx(raw, fixedToday)
	require.NoError(t, err)
	require.Len(t, snapshot.Sections, 1)
	require.Len(t, snapshot.Sections[0].Lessons, 1)
	lesson := snapshot.Sections[0].Lessons[0]
	assert.Equal(t, 2, lesson.LessonNumber)
	assert.Equal(t, "Иванов", lesson.Teacher)
	assert.Equal(t, "12", lesson.Classroom)
}

func TestDecodeSubstitutionDocxRejectsGarbage(t *testing.T) {
	_, err := DecodeSubstitutionDocx([]byte("plain text"), fixedToday)
	assert.True(t, errors.Is(err, appErrors.ErrMalformedSource))

	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	_, err = zw.Create("word/other.xml")
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = DecodeSubstitutionDocx(buf.Bytes(), fixedToday)
	assert.True(t, errors.Is(err, appErrors.ErrMalformedSource))
}

func TestSubstitutionDocxRepositoryLoad(t *testing.T) {
	dir := t.TempDir()
	repo := NewSubstitutionDocxRepository(filepath.Join(dir, "missing.docx"), func() time.Time { return fixedToday }, nil)
	_, err := repo.Load(context.Background())
	assert.True(t, errors.Is(err, appErrors.ErrSourceMissing))

	path := filepath.Join(dir, "replacements.docx")
	require.NoError(t, os.WriteFile(path, buildDocx(t,
		paragraph("Замены на 14.10.2024", false),
		paragraph("Иванова", true),
		table(header, []string{"2", "9А", "Орлова", "5"}),
	), 0o600))

	snapshot, err := NewSubstitutionDocxRepository(path, nil, nil).Load(context.Background())
	require.NoError(t, err)
	assert.True(t, snapshot.HasSubstitutions())
}
