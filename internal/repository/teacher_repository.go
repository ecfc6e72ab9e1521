package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/eduflow-api/internal/models"
)

const teacherColumns = `id, institute_id, name, email, subject_specialty, base_salary, commission_per_student, created_at, updated_at`

// TeacherRepository handles persistence for teachers.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository creates a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// List returns the tenant's teachers in name order.
func (r *TeacherRepository) List(ctx context.Context, tenantID string) ([]models.Teacher, error) {
	query := `SELECT ` + teacherColumns + ` FROM teachers WHERE institute_id = $1 ORDER BY name`
	teachers := []models.Teacher{}
	err := withTenant(ctx, r.db, tenantID, func(tx *sqlx.Tx) error {
		return tx.SelectContext(ctx, &teachers, query, tenantID)
	})
	if err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

// FindByID fetches a teacher of the tenant.
func (r *TeacherRepository) FindByID(ctx context.Context, tenantID, id string) (*models.Teacher, error) {
	query := `SELECT ` + teacherColumns + ` FROM teachers WHERE institute_id = $1 AND id = $2`
	var teacher models.Teacher
	err := withTenant(ctx, r.db, tenantID, func(tx *sqlx.Tx) error {
		return tx.GetContext(ctx, &teacher, query, tenantID, id)
	})
	if err != nil {
		return nil, err
	}
	return &teacher, nil
}

// Create inserts a teacher.
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	if teacher.ID == "" {
		teacher.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	teacher.CreatedAt, teacher.UpdatedAt = now, now
	const query = `INSERT INTO teachers (id, institute_id, name, email, subject_specialty, base_salary, commission_per_student, created_at, updated_at)
        VALUES (:id, :institute_id, :name, :email, :subject_specialty, :base_salary, :commission_per_student, :created_at, :updated_at)`
	err := withTenant(ctx, r.db, teacher.InstituteID, func(tx *sqlx.Tx) error {
		_, err := tx.NamedExecContext(ctx, query, teacher)
		return err
	})
	if err != nil {
		return fmt.Errorf("create teacher: %w", err)
	}
	return nil
}

// Update writes the mutable fields of a teacher.
func (r *TeacherRepository) Update(ctx context.Context, teacher *models.Teacher) error {
	teacher.UpdatedAt = time.Now().UTC()
	const query = `UPDATE teachers SET name = :name, email = :email, subject_specialty = :subject_specialty, base_salary = :base_salary,
        commission_per_student = :commission_per_student, updated_at = :updated_at WHERE id = :id AND institute_id = :institute_id`
	err := withTenant(ctx, r.db, teacher.InstituteID, func(tx *sqlx.Tx) error {
		_, err := tx.NamedExecContext(ctx, query, teacher)
		return err
	})
	if err != nil {
		return fmt.Errorf("update teacher: %w", err)
	}
	return nil
}
