package models

import "time"

// SalaryStatus tracks teacher payout for a month.
type SalaryStatus string

const (
	SalaryPaid    SalaryStatus = "PAID"
	SalaryPending SalaryStatus = "PENDING"
)

// Flip returns the opposite status.
func (s SalaryStatus) Flip() SalaryStatus {
	if s == SalaryPaid {
		return SalaryPending
	}
	return SalaryPaid
}

// SalaryRecord is derived from a teacher and their classes; it is only
// persisted once its status is toggled.
type SalaryRecord struct {
	ID               string       `db:"id" json:"id"`
	InstituteID      string       `db:"institute_id" json:"instituteId"`
	TeacherID        string       `db:"teacher_id" json:"teacherId"`
	Month            string       `db:"month" json:"month"`
	BaseAmount       float64      `db:"base_amount" json:"baseAmount"`
	CommissionAmount float64      `db:"commission_amount" json:"commissionAmount"`
	TotalAmount      float64      `db:"total_amount" json:"totalAmount"`
	Status           SalaryStatus `db:"status" json:"status"`
	CreatedAt        time.Time    `db:"created_at" json:"-"`
	UpdatedAt        time.Time    `db:"updated_at" json:"-"`
}
