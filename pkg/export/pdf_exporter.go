package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const landscapeColumns = 6

// PDFExporter renders datasets into a tabular PDF, switching to landscape for wide tables.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with the dataset title, body and footer.
func (e *PDFExporter) Render(data Dataset) ([]byte, error) {
	if err := data.validate(); err != nil {
		return nil, err
	}
	orientation, width := "P", 190.0
	if len(data.Columns) > landscapeColumns {
		orientation, width = "L", 277.0
	}
	pdf := gofpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	if data.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(data.Title), "", 1, "C", false, 0, "")
		pdf.Ln(4)
	}

	colWidth := width / float64(len(data.Columns))
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for _, label := range data.labels() {
		pdf.CellFormat(colWidth, 8, tr(label), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	writeRow := func(row map[string]string) {
		for _, col := range data.Columns {
			align := "L"
			if col.Numeric {
				align = "R"
			}
			pdf.CellFormat(colWidth, 7, tr(row[col.Key]), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Arial", "", 8)
	for _, row := range data.Rows {
		writeRow(row)
	}
	if data.Footer != nil {
		pdf.SetFont("Arial", "B", 8)
		writeRow(data.Footer)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
