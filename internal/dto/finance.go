package dto

import (
	"time"

	"github.com/noah-isme/eduflow-api/internal/models"
)

// FeeLedgerResponse lists expected versus collected fees for a month.
type FeeLedgerResponse struct {
	Month          string      `json:"month"`
	Rows           []LedgerRow `json:"rows"`
	TotalExpected  float64     `json:"totalExpected"`
	TotalCollected float64     `json:"totalCollected"`
}

// LedgerRow is one (student, class) enrollment pair for the month. Implied rows
// have no stored payment yet.
type LedgerRow struct {
	PaymentID   string               `json:"paymentId,omitempty"`
	StudentID   string               `json:"studentId"`
	StudentName string               `json:"studentName"`
	ClassID     string               `json:"classId"`
	ClassName   string               `json:"className"`
	TeacherID   string               `json:"teacherId"`
	Month       string               `json:"month"`
	Amount      float64              `json:"amount"`
	Status      models.PaymentStatus `json:"status"`
	DatePaid    *time.Time           `json:"datePaid,omitempty"`
	Implied     bool                 `json:"implied"`
}

// SalarySheetResponse lists computed salaries for a month.
type SalarySheetResponse struct {
	Month       string                `json:"month"`
	Rows        []models.SalaryRecord `json:"rows"`
	TotalPayout float64               `json:"totalPayout"`
}
