package views

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/noah-isme/eduflow-api/internal/dto"
	"github.com/noah-isme/eduflow-api/internal/models"
)

// Ledger sort keys.
const (
	LedgerSortStudent = "student"
	LedgerSortClass   = "class"
	LedgerSortStatus  = "status"
)

// LedgerFilter narrows the fee ledger to one month and optionally one class or teacher.
type LedgerFilter struct {
	Month     string
	ClassID   string
	TeacherID string
	SortBy    string
}

type paymentKey struct {
	studentID string
	classID   string
	month     string
}

// BuildFeeLedger enumerates every enrollment pair matching the filter and pairs it
// with the stored payment for the month, or an implied PENDING row charging the
// class fee when none exists.
func BuildFeeLedger(students []models.Student, classes []models.ClassSession, payments []models.PaymentRecord, filter LedgerFilter) dto.FeeLedgerResponse {
	names := make(map[string]string, len(students))
	for _, s := range students {
		names[s.ID] = s.Name
	}

	stored := make(map[paymentKey]models.PaymentRecord, len(payments))
	for _, p := range payments {
		if p.Month == filter.Month {
			stored[paymentKey{p.StudentID, p.ClassID, p.Month}] = p
		}
	}

	ledger := dto.FeeLedgerResponse{Month: filter.Month, Rows: []dto.LedgerRow{}}
	for _, class := range classes {
		if filter.ClassID != "" && class.ID != filter.ClassID {
			continue
		}
		if filter.TeacherID != "" && class.TeacherID != filter.TeacherID {
			continue
		}
		for _, studentID := range class.StudentIDs {
			row := dto.LedgerRow{
				StudentID:   studentID,
				StudentName: names[studentID],
				ClassID:     class.ID,
				ClassName:   class.Name,
				TeacherID:   class.TeacherID,
				Month:       filter.Month,
			}
			if row.StudentName == "" {
				row.StudentName = studentID
			}
			if payment, ok := stored[paymentKey{studentID, class.ID, filter.Month}]; ok {
				row.PaymentID = payment.ID
				row.Amount = payment.Amount
				row.Status = payment.Status
				row.DatePaid = payment.DatePaid
			} else {
				row.Amount = class.FeePerMonth
				row.Status = models.PaymentPending
				row.Implied = true
			}

			ledger.TotalExpected += row.Amount
			if row.Status == models.PaymentPaid {
				ledger.TotalCollected += row.Amount
			}
			ledger.Rows = append(ledger.Rows, row)
		}
	}

	sortLedger(ledger.Rows, filter.SortBy)
	return ledger
}

func sortLedger(rows []dto.LedgerRow, sortBy string) {
	var key func(dto.LedgerRow) string
	switch sortBy {
	case LedgerSortStudent:
		key = func(r dto.LedgerRow) string { return r.StudentName }
	case LedgerSortClass:
		key = func(r dto.LedgerRow) string { return r.ClassName }
	case LedgerSortStatus:
		key = func(r dto.LedgerRow) string { return string(r.Status) }
	default:
		return
	}

	collator := collate.New(language.English)
	sort.SliceStable(rows, func(i, j int) bool {
		return collator.CompareString(key(rows[i]), key(rows[j])) < 0
	})
}
