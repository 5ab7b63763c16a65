package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const pdfFontFamily = "kiosk"

// PDFExporter renders datasets into a tabular PDF. Cyrillic text needs a
// UTF-8 TrueType font; without FontPath the core Arial font is used.
type PDFExporter struct {
	FontPath     string
	BoldFontPath string
}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter(fontPath, boldFontPath string) *PDFExporter {
	return &PDFExporter{FontPath: fontPath, BoldFontPath: boldFontPath}
}

// Render creates a PDF document with an optional title and table body.
func (e *PDFExporter) Render(data Dataset) ([]byte, error) {
	if err := data.validate("pdf"); err != nil {
		return nil, err
	}
	orientation := "P"
	if len(data.Headers) > 5 {
		orientation = "L"
	}
	pdf := gofpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)

	family, tr := e.fonts(pdf)
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("load pdf font: %w", err)
	}
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	tableWidth := pageWidth - left - right

	if data.Title != "" {
		pdf.SetFont(family, "B", 14)
		pdf.CellFormat(0, 10, tr(data.Title), "", 1, "C", false, 0, "")
		pdf.Ln(3)
	}

	pdf.SetFont(family, "B", 10)
	colWidth := tableWidth / float64(len(data.Headers))
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 8, tr(header), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(family, "", 9)
	for _, row := range data.Rows {
		for _, value := range data.record(row) {
			pdf.CellFormat(colWidth, 7, tr(value), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) fonts(pdf *gofpdf.Fpdf) (string, func(string) string) {
	if e.FontPath == "" {
		return "Arial", pdf.UnicodeTranslatorFromDescriptor("")
	}
	bold := e.BoldFontPath
	if bold == "" {
		bold = e.FontPath
	}
	pdf.AddUTF8Font(pdfFontFamily, "", e.FontPath)
	pdf.AddUTF8Font(pdfFontFamily, "B", bold)
	return pdfFontFamily, func(s string) string { return s }
}
