package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/eduflow-api/internal/models"
)

const studentColumns = `id, institute_id, name, email, phone, enrolled_date, created_at, updated_at`

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns the tenant's students in name order.
func (r *StudentRepository) List(ctx context.Context, tenantID string) ([]models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE institute_id = $1 ORDER BY name`
	students := []models.Student{}
	err := withTenant(ctx, r.db, tenantID, func(tx *sqlx.Tx) error {
		return tx.SelectContext(ctx, &students, query, tenantID)
	})
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// FindByID fetches a student of the tenant; sql.ErrNoRows when absent.
func (r *StudentRepository) FindByID(ctx context.Context, tenantID, id string) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE institute_id = $1 AND id = $2`
	var student models.Student
	err := withTenant(ctx, r.db, tenantID, func(tx *sqlx.Tx) error {
		return tx.GetContext(ctx, &student, query, tenantID, id)
	})
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// Create inserts a new student record stamped with its InstituteID.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	student.CreatedAt, student.UpdatedAt = now, now
	const query = `INSERT INTO students (id, institute_id, name, email, phone, enrolled_date, created_at, updated_at)
        VALUES (:id, :institute_id, :name, :email, :phone, :enrolled_date, :created_at, :updated_at)`
	err := withTenant(ctx, r.db, student.InstituteID, func(tx *sqlx.Tx) error {
		_, err := tx.NamedExecContext(ctx, query, student)
		return err
	})
	if err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update writes the mutable fields of an existing student. The tenant is never changed.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET name = :name, email = :email, phone = :phone, enrolled_date = :enrolled_date, updated_at = :updated_at
        WHERE id = :id AND institute_id = :institute_id`
	err := withTenant(ctx, r.db, student.InstituteID, func(tx *sqlx.Tx) error {
		_, err := tx.NamedExecContext(ctx, query, student)
		return err
	})
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}
