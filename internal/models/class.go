package models

import (
	"time"

	"github.com/lib/pq"
)

// ClassSession represents a course offered by an institute.
type ClassSession struct {
	ID          string         `db:"id" json:"id"`
	InstituteID string         `db:"institute_id" json:"instituteId"`
	Name        string         `db:"name" json:"name"`
	Code        string         `db:"code" json:"code"`
	GradeYear   string         `db:"grade_year" json:"gradeYear"`
	TeacherID   string         `db:"teacher_id" json:"teacherId"`
	Schedule    string         `db:"schedule" json:"schedule"`
	FeePerMonth float64        `db:"fee_per_month" json:"feePerMonth"`
	StudentIDs  pq.StringArray `db:"student_ids" json:"studentIds"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updatedAt"`
}

// HasStudent reports whether the student is enrolled in the class.
func (c *ClassSession) HasStudent(studentID string) bool {
	for _, id := range c.StudentIDs {
		if id == studentID {
			return true
		}
	}
	return false
}

// Class sort options.
const (
	ClassSortName  = "name"
	ClassSortGrade = "grade"
	ClassSortFee   = "fee"
)

// ClassFilter defines filter criteria for listing classes.
type ClassFilter struct {
	Search    string
	TeacherID string
	SortBy    string
}

// ClassPatch carries the mutable class fields. Enrollment is managed separately.
type ClassPatch struct {
	Name        *string  `json:"name" validate:"omitempty,min=1"`
	Code        *string  `json:"code"`
	GradeYear   *string  `json:"gradeYear"`
	TeacherID   *string  `json:"teacherId"`
	Schedule    *string  `json:"schedule"`
	FeePerMonth *float64 `json:"feePerMonth" validate:"omitempty,gte=0"`
}

// Apply merges the patch into the class.
func (p ClassPatch) Apply(c *ClassSession) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Code != nil {
		c.Code = *p.Code
	}
	if p.GradeYear != nil {
		c.GradeYear = *p.GradeYear
	}
	if p.TeacherID != nil {
		c.TeacherID = *p.TeacherID
	}
	if p.Schedule != nil {
		c.Schedule = *p.Schedule
	}
	if p.FeePerMonth != nil {
		c.FeePerMonth = *p.FeePerMonth
	}
}

// CreateClassRequest is the payload for opening a class.
type CreateClassRequest struct {
	Name        string  `json:"name" validate:"required"`
	Code        string  `json:"code"`
	GradeYear   string  `json:"gradeYear"`
	TeacherID   string  `json:"teacherId" validate:"required"`
	Schedule    string  `json:"schedule"`
	FeePerMonth float64 `json:"feePerMonth" validate:"gte=0"`
}

// EnrollRequest adds a student to a class.
type EnrollRequest struct {
	StudentID string `json:"studentId" validate:"required"`
}
