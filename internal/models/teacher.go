package models

import "time"

// Teacher represents an instructor record.
type Teacher struct {
	ID                   string    `db:"id" json:"id"`
	InstituteID          string    `db:"institute_id" json:"instituteId"`
	Name                 string    `db:"name" json:"name"`
	Email                string    `db:"email" json:"email"`
	SubjectSpecialty     string    `db:"subject_specialty" json:"subjectSpecialty"`
	BaseSalary           float64   `db:"base_salary" json:"baseSalary"`
	CommissionPerStudent float64   `db:"commission_per_student" json:"commissionPerStudent"`
	CreatedAt            time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt            time.Time `db:"updated_at" json:"updatedAt"`
}

// Teacher sort options.
const (
	TeacherSortName   = "name"
	TeacherSortSalary = "salary"
)

// TeacherFilter captures filtering options for listing teachers.
type TeacherFilter struct {
	Search string
	SortBy string
}

// TeacherPatch carries the mutable teacher fields.
type TeacherPatch struct {
	Name                 *string  `json:"name" validate:"omitempty,min=1"`
	Email                *string  `json:"email" validate:"omitempty,email"`
	SubjectSpecialty     *string  `json:"subjectSpecialty"`
	BaseSalary           *float64 `json:"baseSalary" validate:"omitempty,gte=0"`
	CommissionPerStudent *float64 `json:"commissionPerStudent" validate:"omitempty,gte=0"`
}

// Apply merges the patch into the teacher.
func (p TeacherPatch) Apply(t *Teacher) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Email != nil {
		t.Email = *p.Email
	}
	if p.SubjectSpecialty != nil {
		t.SubjectSpecialty = *p.SubjectSpecialty
	}
	if p.BaseSalary != nil {
		t.BaseSalary = *p.BaseSalary
	}
	if p.CommissionPerStudent != nil {
		t.CommissionPerStudent = *p.CommissionPerStudent
	}
}

// CreateTeacherRequest is the payload for hiring a teacher.
type CreateTeacherRequest struct {
	Name                 string  `json:"name" validate:"required"`
	Email                string  `json:"email" validate:"omitempty,email"`
	SubjectSpecialty     string  `json:"subjectSpecialty"`
	BaseSalary           float64 `json:"baseSalary" validate:"gte=0"`
	CommissionPerStudent float64 `json:"commissionPerStudent" validate:"gte=0"`
}
