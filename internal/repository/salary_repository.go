package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/eduflow-api/internal/models"
)

// SalaryRepository persists salary records whose status was toggled.
type SalaryRepository struct {
	db *sqlx.DB
}

// NewSalaryRepository constructs a SalaryRepository.
func NewSalaryRepository(db *sqlx.DB) *SalaryRepository {
	return &SalaryRepository{db: db}
}

// List returns persisted salaries of the tenant for month.
func (r *SalaryRepository) List(ctx context.Context, tenantID, month string) ([]models.SalaryRecord, error) {
	const query = `SELECT id, institute_id, teacher_id, month, base_amount, commission_amount, total_amount, status, created_at, updated_at
        FROM salaries WHERE institute_id = $1 AND month = $2`
	salaries := []models.SalaryRecord{}
	err := withTenant(ctx, r.db, tenantID, func(tx *sqlx.Tx) error {
		return tx.SelectContext(ctx, &salaries, query, tenantID, month)
	})
	if err != nil {
		return nil, fmt.Errorf("list salaries: %w", err)
	}
	return salaries, nil
}

// Save upserts a salary on (teacher, month).
func (r *SalaryRepository) Save(ctx context.Context, salary *models.SalaryRecord) error {
	now := time.Now().UTC()
	if salary.CreatedAt.IsZero() {
		salary.CreatedAt = now
	}
	salary.UpdatedAt = now
	const query = `INSERT INTO salaries (id, institute_id, teacher_id, month, base_amount, commission_amount, total_amount, status, created_at, updated_at)
        VALUES (:id, :institute_id, :teacher_id, :month, :base_amount, :commission_amount, :total_amount, :status, :created_at, :updated_at)
        ON CONFLICT (teacher_id, month)
        DO UPDATE SET base_amount = EXCLUDED.base_amount, commission_amount = EXCLUDED.commission_amount,
            total_amount = EXCLUDED.total_amount, status = EXCLUDED.status, updated_at = EXCLUDED.updated_at`
	err := withTenant(ctx, r.db, salary.InstituteID, func(tx *sqlx.Tx) error {
		_, err := tx.NamedExecContext(ctx, query, salary)
		return err
	})
	if err != nil {
		return fmt.Errorf("save salary: %w", err)
	}
	return nil
}
