package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/eduflow-api/internal/models"
)

const classColumns = `id, institute_id, name, code, grade_year, teacher_id, schedule, fee_per_month, student_ids, created_at, updated_at`

// ClassRepository manages class sessions and their enrollment lists.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository creates a ClassRepository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// List returns the tenant's classes, restricted to one teacher when teacherID is set.
func (r *ClassRepository) List(ctx context.Context, tenantID, teacherID string) ([]models.ClassSession, error) {
	query := `SELECT ` + classColumns + ` FROM classes WHERE institute_id = $1`
	args := []interface{}{tenantID}
	if teacherID != "" {
		query += ` AND teacher_id = $2`
		args = append(args, teacherID)
	}
	query += ` ORDER BY name`

	classes := []models.ClassSession{}
	err := withTenant(ctx, r.db, tenantID, func(tx *sqlx.Tx) error {
		return tx.SelectContext(ctx, &classes, query, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

// FindByID fetches a class of the tenant.
func (r *ClassRepository) FindByID(ctx context.Context, tenantID, id string) (*models.ClassSession, error) {
	query := `SELECT ` + classColumns + ` FROM classes WHERE institute_id = $1 AND id = $2`
	var class models.ClassSession
	err := withTenant(ctx, r.db, tenantID, func(tx *sqlx.Tx) error {
		return tx.GetContext(ctx, &class, query, tenantID, id)
	})
	if err != nil {
		return nil, err
	}
	return &class, nil
}

// Create inserts a class.
func (r *ClassRepository) Create(ctx context.Context, class *models.ClassSession) error {
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	if class.StudentIDs == nil {
		class.StudentIDs = []string{}
	}
	now := time.Now().UTC()
	class.CreatedAt, class.UpdatedAt = now, now
	const query = `INSERT INTO classes (id, institute_id, name, code, grade_year, teacher_id, schedule, fee_per_month, student_ids, created_at, updated_at)
        VALUES (:id, :institute_id, :name, :code, :grade_year, :teacher_id, :schedule, :fee_per_month, :student_ids, :created_at, :updated_at)`
	err := withTenant(ctx, r.db, class.InstituteID, func(tx *sqlx.Tx) error {
		_, err := tx.NamedExecContext(ctx, query, class)
		return err
	})
	if err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// Update writes the descriptive fields of a class; enrollment is untouched.
func (r *ClassRepository) Update(ctx context.Context, class *models.ClassSession) error {
	class.UpdatedAt = time.Now().UTC()
	const query = `UPDATE classes SET name = :name, code = :code, grade_year = :grade_year, teacher_id = :teacher_id, schedule = :schedule,
        fee_per_month = :fee_per_month, updated_at = :updated_at WHERE id = :id AND institute_id = :institute_id`
	err := withTenant(ctx, r.db, class.InstituteID, func(tx *sqlx.Tx) error {
		_, err := tx.NamedExecContext(ctx, query, class)
		return err
	})
	if err != nil {
		return fmt.Errorf("update class: %w", err)
	}
	return nil
}

// Enroll appends studentID to the class unless it is already listed. Missing
// classes are ignored.
func (r *ClassRepository) Enroll(ctx context.Context, tenantID, classID, studentID string) error {
	const query = `UPDATE classes SET student_ids = array_append(student_ids, $3), updated_at = $4
        WHERE institute_id = $1 AND id = $2 AND NOT ($3 = ANY(student_ids))`
	err := withTenant(ctx, r.db, tenantID, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query, tenantID, classID, studentID, time.Now().UTC())
		return err
	})
	if err != nil {
		return fmt.Errorf("enroll student: %w", err)
	}
	return nil
}
