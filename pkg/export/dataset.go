package export

import (
	"fmt"
	"strconv"
)

// Format names accepted by the finance export endpoints.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// Column describes one exported field.
type Column struct {
	Key     string
	Label   string
	Numeric bool
}

// Dataset defines tabular export content. Footer, when set, is rendered as a
// totals row after the body.
type Dataset struct {
	Title   string
	Columns []Column
	Rows    []map[string]string
	Footer  map[string]string
}

func (d Dataset) validate() error {
	if len(d.Columns) == 0 {
		return fmt.Errorf("export requires at least one column")
	}
	return nil
}

func (d Dataset) labels() []string {
	labels := make([]string, len(d.Columns))
	for i, col := range d.Columns {
		labels[i] = col.Label
		if labels[i] == "" {
			labels[i] = col.Key
		}
	}
	return labels
}

func (d Dataset) record(row map[string]string) []string {
	record := make([]string, len(d.Columns))
	for i, col := range d.Columns {
		record[i] = row[col.Key]
	}
	return record
}

// Money formats an amount with two decimals.
func Money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// ContentType returns the MIME type for a format.
func ContentType(format string) string {
	if format == FormatPDF {
		return "application/pdf"
	}
	return "text/csv"
}
