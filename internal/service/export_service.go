package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/eduflow-api/internal/authz"
	"github.com/noah-isme/eduflow-api/internal/models"
	"github.com/noah-isme/eduflow-api/internal/session"
	"github.com/noah-isme/eduflow-api/internal/views"
	appErrors "github.com/noah-isme/eduflow-api/pkg/errors"
	"github.com/noah-isme/eduflow-api/pkg/export"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportFile is a rendered attachment.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders finance sheets as CSV or PDF.
type ExportService struct {
	finance  *FinanceService
	salaries *SalaryService
	teachers teacherLister
	csv      csvRenderer
	pdf      pdfRenderer
	logger   *zap.Logger
}

type teacherLister interface {
	List(ctx context.Context, tenantID string) ([]models.Teacher, error)
}

// NewExportService constructs an ExportService. Nil renderers fall back to the defaults.
func NewExportService(finance *FinanceService, salaries *SalaryService, teachers teacherLister, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{finance: finance, salaries: salaries, teachers: teachers, csv: csv, pdf: pdf, logger: logger}
}

// Ledger renders the fee ledger of filter.Month.
func (s *ExportService) Ledger(ctx context.Context, filter views.LedgerFilter, format string) (*ExportFile, error) {
	if err := s.authorize(ctx, format); err != nil {
		return nil, err
	}
	ledger, err := s.finance.Ledger(ctx, filter)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{
		Title: "Fee Ledger " + ledger.Month,
		Columns: []export.Column{
			{Key: "student", Label: "Student"},
			{Key: "class", Label: "Class"},
			{Key: "month", Label: "Month"},
			{Key: "amount", Label: "Amount", Numeric: true},
			{Key: "status", Label: "Status"},
			{Key: "paid", Label: "Date Paid"},
		},
		Rows: make([]map[string]string, 0, len(ledger.Rows)),
		Footer: map[string]string{
			"student": "Collected / Expected",
			"amount":  export.Money(ledger.TotalCollected) + " / " + export.Money(ledger.TotalExpected),
		},
	}
	for _, row := range ledger.Rows {
		paid := ""
		if row.DatePaid != nil {
			paid = row.DatePaid.Format(models.DateLayout)
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"student": row.StudentName,
			"class":   row.ClassName,
			"month":   row.Month,
			"amount":  export.Money(row.Amount),
			"status":  string(row.Status),
			"paid":    paid,
		})
	}
	return s.render(dataset, "fee-ledger-"+ledger.Month, format)
}

// Salaries renders the salary sheet of month.
func (s *ExportService) Salaries(ctx context.Context, month, format string) (*ExportFile, error) {
	if err := s.authorize(ctx, format); err != nil {
		return nil, err
	}
	sheet, err := s.salaries.Calculate(ctx, month)
	if err != nil {
		return nil, err
	}
	principal, err := session.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}
	teachers, err := s.teachers.List(ctx, principal.TenantID)
	if err != nil {
		return nil, internalError(err, "failed to list teachers")
	}
	names := make(map[string]string, len(teachers))
	for _, t := range teachers {
		names[t.ID] = t.Name
	}

	dataset := export.Dataset{
		Title: "Salary Sheet " + sheet.Month,
		Columns: []export.Column{
			{Key: "teacher", Label: "Teacher"},
			{Key: "base", Label: "Base", Numeric: true},
			{Key: "commission", Label: "Commission", Numeric: true},
			{Key: "total", Label: "Total", Numeric: true},
			{Key: "status", Label: "Status"},
		},
		Rows:   make([]map[string]string, 0, len(sheet.Rows)),
		Footer: map[string]string{"teacher": "Total payout", "total": export.Money(sheet.TotalPayout)},
	}
	for _, row := range sheet.Rows {
		name := names[row.TeacherID]
		if name == "" {
			name = row.TeacherID
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"teacher":    name,
			"base":       export.Money(row.BaseAmount),
			"commission": export.Money(row.CommissionAmount),
			"total":      export.Money(row.TotalAmount),
			"status":     string(row.Status),
		})
	}
	return s.render(dataset, "salaries-"+sheet.Month, format)
}

func (s *ExportService) authorize(ctx context.Context, format string) error {
	principal, err := session.Require(ctx)
	if err != nil {
		return err
	}
	if err := authz.Authorize(principal, authz.ActionExportFinance); err != nil {
		return err
	}
	if format != export.FormatCSV && format != export.FormatPDF {
		return appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	return nil
}

func (s *ExportService) render(dataset export.Dataset, basename, format string) (*ExportFile, error) {
	var (
		payload []byte
		err     error
	)
	if format == export.FormatPDF {
		payload, err = s.pdf.Render(dataset)
	} else {
		payload, err = s.csv.Render(dataset)
	}
	if err != nil {
		return nil, internalError(err, "failed to render export")
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("%s.%s", basename, format),
		ContentType: export.ContentType(format),
		Payload:     payload,
	}, nil
}
