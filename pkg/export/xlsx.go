package export

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// XLSXExporter renders datasets into a single-sheet workbook.
type XLSXExporter struct{}

// NewXLSXExporter constructs an XLSX exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Render writes the title on row 1 (when present), headers next, then the rows.
func (e *XLSXExporter) Render(data Dataset) ([]byte, error) {
	if err := data.validate("xlsx"); err != nil {
		return nil, err
	}
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(data.Title)
	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return nil, fmt.Errorf("rename sheet: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	row := 1
	if data.Title != "" {
		if err := f.SetCellValue(sheet, cellName(1, row), data.Title); err != nil {
			return nil, err
		}
		if len(data.Headers) > 1 {
			_ = f.MergeCell(sheet, cellName(1, row), cellName(len(data.Headers), row))
		}
		_ = f.SetCellStyle(sheet, cellName(1, row), cellName(1, row), headerStyle)
		row++
	}

	widths := make([]int, len(data.Headers))
	for i, header := range data.Headers {
		if err := f.SetCellValue(sheet, cellName(i+1, row), header); err != nil {
			return nil, err
		}
		widths[i] = utf8.RuneCountInString(header)
	}
	_ = f.SetCellStyle(sheet, cellName(1, row), cellName(len(data.Headers), row), headerStyle)
	row++

	for _, values := range data.Rows {
		for i, value := range data.record(values) {
			if err := f.SetCellValue(sheet, cellName(i+1, row), value); err != nil {
				return nil, err
			}
			if n := utf8.RuneCountInString(value); n > widths[i] {
				widths[i] = n
			}
		}
		row++
	}

	for i, width := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheet, col, col, float64(width+2))
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// sheetName keeps titles within Excel's 31 character sheet-name limit.
func sheetName(title string) string {
	if title == "" {
		return defaultSheet
	}
	runes := []rune(title)
	if len(runes) > 31 {
		runes = runes[:31]
	}
	for i, r := range runes {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			runes[i] = ' '
		}
	}
	return string(runes)
}
