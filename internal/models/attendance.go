package models

import "time"

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// AttendanceStatus represents the status for attendance records.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
	AttendanceLate    AttendanceStatus = "LATE"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate:
		return true
	default:
		return false
	}
}

// AttendanceRecord is one student's mark for a class on a date.
type AttendanceRecord struct {
	ID          string           `db:"id" json:"id"`
	InstituteID string           `db:"institute_id" json:"instituteId"`
	ClassID     string           `db:"class_id" json:"classId"`
	StudentID   string           `db:"student_id" json:"studentId"`
	Date        time.Time        `db:"date" json:"date"`
	Status      AttendanceStatus `db:"status" json:"status"`
	CreatedAt   time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updatedAt"`
}

// AttendanceFilter defines query filters.
type AttendanceFilter struct {
	ClassID   string
	TeacherID string
	StudentID string
	Date      *time.Time
}

// MarkDayRequest replaces the marks for a class on a date.
type MarkDayRequest struct {
	ClassID string                      `json:"classId" validate:"required"`
	Date    string                      `json:"date" validate:"required,datetime=2006-01-02"`
	Entries map[string]AttendanceStatus `json:"entries"`
}

// AttendanceStats summarises a student's marks within one class.
type AttendanceStats struct {
	Total   int `json:"total"`
	Present int `json:"present"`
	Late    int `json:"late"`
	Absent  int `json:"absent"`
}
