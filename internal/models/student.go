package models

import "time"

// Student represents a learner registered in an institute.
type Student struct {
	ID           string    `db:"id" json:"id"`
	InstituteID  string    `db:"institute_id" json:"instituteId"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	Phone        string    `db:"phone" json:"phone"`
	EnrolledDate time.Time `db:"enrolled_date" json:"enrolledDate"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// Student sort options.
const (
	StudentSortName = "name"
	StudentSortDate = "date"
)

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search string
	SortBy string
}

// StudentPatch carries the mutable student fields; nil fields are left untouched.
type StudentPatch struct {
	Name         *string    `json:"name" validate:"omitempty,min=1"`
	Email        *string    `json:"email" validate:"omitempty,email"`
	Phone        *string    `json:"phone"`
	EnrolledDate *time.Time `json:"enrolledDate"`
}

// Apply merges the patch into the student.
func (p StudentPatch) Apply(s *Student) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Email != nil {
		s.Email = *p.Email
	}
	if p.Phone != nil {
		s.Phone = *p.Phone
	}
	if p.EnrolledDate != nil {
		s.EnrolledDate = *p.EnrolledDate
	}
}

// CreateStudentRequest is the payload for registering a student.
type CreateStudentRequest struct {
	Name         string     `json:"name" validate:"required"`
	Email        string     `json:"email" validate:"omitempty,email"`
	Phone        string     `json:"phone"`
	EnrolledDate *time.Time `json:"enrolledDate"`
}
