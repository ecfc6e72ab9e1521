// Package memory is an in-process storage backend with the same method sets as
// the Postgres repositories. Tenant isolation is enforced by filtering every
// read and write on the institute id.
package memory

import (
	"database/sql"
	"errors"
	"sync"

	"github.com/noah-isme/eduflow-api/internal/models"
)

// ErrDuplicate is returned when a unique key already exists.
var ErrDuplicate = errors.New("memory: duplicate key")

// Store holds every collection behind a single lock.
type Store struct {
	mu         sync.RWMutex
	institutes []models.Institute
	profiles   []models.Profile
	sessions   map[string]models.Session
	students   []models.Student
	teachers   []models.Teacher
	classes    []models.ClassSession
	attendance []models.AttendanceRecord
	payments   []models.PaymentRecord
	salaries   []models.SalaryRecord
	audit      []models.AuditLog
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{sessions: map[string]models.Session{}}
}

func notFound() error {
	return sql.ErrNoRows
}

func cloneClass(c models.ClassSession) models.ClassSession {
	c.StudentIDs = append([]string(nil), c.StudentIDs...)
	return c
}

func clonePayment(p models.PaymentRecord) models.PaymentRecord {
	if p.DatePaid != nil {
		paid := *p.DatePaid
		p.DatePaid = &paid
	}
	return p
}

func cloneProfile(p models.Profile) models.Profile {
	if p.InstituteID != nil {
		id := *p.InstituteID
		p.InstituteID = &id
	}
	if p.TeacherID != nil {
		id := *p.TeacherID
		p.TeacherID = &id
	}
	return p
}
