package models

import "time"

// MonthLayout is the wire format for billing months.
const MonthLayout = "2006-01"

// PaymentStatus tracks fee collection for a student/class/month.
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "PAID"
	PaymentPending PaymentStatus = "PENDING"
	PaymentOverdue PaymentStatus = "OVERDUE"
)

// PaymentRecord is keyed by (student, class, month).
type PaymentRecord struct {
	ID          string        `db:"id" json:"id"`
	InstituteID string        `db:"institute_id" json:"instituteId"`
	StudentID   string        `db:"student_id" json:"studentId"`
	ClassID     string        `db:"class_id" json:"classId"`
	Month       string        `db:"month" json:"month"`
	Amount      float64       `db:"amount" json:"amount"`
	Status      PaymentStatus `db:"status" json:"status"`
	DatePaid    *time.Time    `db:"date_paid" json:"datePaid,omitempty"`
	CreatedAt   time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updatedAt"`
}

// Toggle flips the status between PAID and PENDING, stamping or clearing datePaid.
// Any status other than PAID (including OVERDUE) becomes PAID.
func (p *PaymentRecord) Toggle(now time.Time) {
	if p.Status == PaymentPaid {
		p.Status = PaymentPending
		p.DatePaid = nil
		return
	}
	paid := truncateDate(now)
	p.Status = PaymentPaid
	p.DatePaid = &paid
}

// TogglePaymentRequest identifies the payment by its natural key.
type TogglePaymentRequest struct {
	StudentID string  `json:"studentId" validate:"required"`
	ClassID   string  `json:"classId" validate:"required"`
	Month     string  `json:"month" validate:"required,datetime=2006-01"`
	Amount    float64 `json:"amount" validate:"gte=0"`
}

func truncateDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
