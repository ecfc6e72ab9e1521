package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title: "Fee Ledger 2023-10",
		Columns: []Column{
			{Key: "student", Label: "Student"},
			{Key: "amount", Label: "Amount", Numeric: true},
		},
		Rows: []map[string]string{
			{"student": "Alice Johnson", "amount": Money(100)},
			{"student": "Bob, Jr.", "amount": Money(120.5)},
		},
		Footer: map[string]string{"student": "Total", "amount": Money(220.5)},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, "Student,Amount\nAlice Johnson,100.00\n\"Bob, Jr.\",120.50\nTotal,220.50\n", string(out))
}

func TestCSVExporterRequiresColumns(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", ContentType(FormatPDF))
	assert.Equal(t, "text/csv", ContentType(FormatCSV))
}
