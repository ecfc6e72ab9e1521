package service

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/eduflow-api/internal/models"
	"github.com/noah-isme/eduflow-api/internal/views"
	appErrors "github.com/noah-isme/eduflow-api/pkg/errors"
	"github.com/noah-isme/eduflow-api/pkg/export"
)

func TestLedgerImpliesPendingRows(t *testing.T) {
	f := newFixture(t)

	ledger, err := f.finance.Ledger(as(managerPrincipal), views.LedgerFilter{Month: "2023-10", ClassID: "c1"})
	require.NoError(t, err)
	require.Len(t, ledger.Rows, 3)
	assert.Equal(t, 300.0, ledger.TotalExpected)
	assert.Equal(t, 100.0, ledger.TotalCollected)

	implied := 0
	for _, row := range ledger.Rows {
		if row.Implied {
			implied++
			assert.Equal(t, models.PaymentPending, row.Status)
			assert.Empty(t, row.PaymentID)
		}
	}
	assert.Equal(t, 1, implied)

	all, err := f.finance.Ledger(as(managerPrincipal), views.LedgerFilter{Month: "2023-10"})
	require.NoError(t, err)
	assert.Len(t, all.Rows, 9)
	assert.Equal(t, 930.0, all.TotalExpected)
}

func TestLedgerDeniedToTeachers(t *testing.T) {
	f := newFixture(t)
	_, err := f.finance.Ledger(as(teacherPrincipal), views.LedgerFilter{Month: "2023-10"})
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
}

func TestSalarySheet(t *testing.T) {
	f := newFixture(t)

	sheet, err := f.salaries.Calculate(as(managerPrincipal), "2023-10")
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 3)
	totals := map[string]float64{}
	for _, row := range sheet.Rows {
		totals[row.TeacherID] = row.TotalAmount
		assert.Equal(t, models.SalaryPending, row.Status)
	}
	assert.Equal(t, map[string]float64{"teacher-1": 2150, "t2": 1935, "t3": 2380}, totals)
	assert.Equal(t, 6465.0, sheet.TotalPayout)

	own, err := f.salaries.Calculate(as(teacherPrincipal), "2023-10")
	require.NoError(t, err)
	assert.Empty(t, own.Rows)
}

func TestToggleSalaryFlipsAndRecomputes(t *testing.T) {
	f := newFixture(t)
	ctx := as(managerPrincipal)

	record, err := f.salaries.ToggleSalary(ctx, "teacher-1", "2023-10")
	require.NoError(t, err)
	assert.Equal(t, models.SalaryPaid, record.Status)

	_, err = f.classes.Enroll(ctx, "c1", models.EnrollRequest{StudentID: "s4"})
	require.NoError(t, err)

	sheet, err := f.salaries.Calculate(ctx, "2023-10")
	require.NoError(t, err)
	for _, row := range sheet.Rows {
		if row.TeacherID == "teacher-1" {
			assert.Equal(t, models.SalaryPaid, row.Status)
			assert.Equal(t, 2200.0, row.TotalAmount)
		}
	}

	record, err = f.salaries.ToggleSalary(ctx, "teacher-1", "2023-10")
	require.NoError(t, err)
	assert.Equal(t, models.SalaryPending, record.Status)

	missing, err := f.salaries.ToggleSalary(ctx, "ghost", "2023-10")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestExportLedgerCSV(t *testing.T) {
	f := newFixture(t)

	file, err := f.exports.Ledger(as(managerPrincipal), views.LedgerFilter{Month: "2023-10", ClassID: "c1", SortBy: views.LedgerSortStudent}, export.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "fee-ledger-2023-10.csv", file.Filename)
	assert.Equal(t, export.ContentType(export.FormatCSV), file.ContentType)

	rows, err := csv.NewReader(bytes.NewReader(file.Payload)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "Student", rows[0][0])
	assert.Equal(t, "Alice Johnson", rows[1][0])
	assert.Equal(t, "PAID", rows[1][4])
	assert.Equal(t, "100.00 / 300.00", rows[4][3])
}

func TestExportSalariesPDFAndGuards(t *testing.T) {
	f := newFixture(t)

	file, err := f.exports.Salaries(as(managerPrincipal), "2023-10", export.FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "salaries-2023-10.pdf", file.Filename)
	assert.True(t, bytes.HasPrefix(file.Payload, []byte("%PDF")))

	_, err = f.exports.Salaries(as(managerPrincipal), "2023-10", "xlsx")
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = f.exports.Ledger(as(teacherPrincipal), views.LedgerFilter{Month: "2023-10"}, export.FormatCSV)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
}
