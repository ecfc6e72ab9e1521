package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/eduflow-api/internal/models"
)

const instituteColumns = `id, name, status, subscription_plan, created_at, updated_at`

// InstituteRepository manages tenants. Institutes are not tenant-scoped.
type InstituteRepository struct {
	db *sqlx.DB
}

// NewInstituteRepository constructs an InstituteRepository.
func NewInstituteRepository(db *sqlx.DB) *InstituteRepository {
	return &InstituteRepository{db: db}
}

// List returns every institute, newest first.
func (r *InstituteRepository) List(ctx context.Context) ([]models.Institute, error) {
	query := `SELECT ` + instituteColumns + ` FROM institutes ORDER BY created_at DESC`
	var institutes []models.Institute
	if err := r.db.SelectContext(ctx, &institutes, query); err != nil {
		return nil, fmt.Errorf("list institutes: %w", err)
	}
	return institutes, nil
}

// FindByID fetches an institute; sql.ErrNoRows when absent.
func (r *InstituteRepository) FindByID(ctx context.Context, id string) (*models.Institute, error) {
	query := `SELECT ` + instituteColumns + ` FROM institutes WHERE id = $1`
	var institute models.Institute
	if err := r.db.GetContext(ctx, &institute, query, id); err != nil {
		return nil, err
	}
	return &institute, nil
}

// CreateWithManager inserts a new institute together with its first manager profile.
func (r *InstituteRepository) CreateWithManager(ctx context.Context, institute *models.Institute, manager *models.Profile) error {
	now := time.Now().UTC()
	if institute.ID == "" {
		institute.ID = uuid.NewString()
	}
	if manager.ID == "" {
		manager.ID = uuid.NewString()
	}
	institute.CreatedAt, institute.UpdatedAt = now, now
	manager.CreatedAt, manager.UpdatedAt = now, now
	manager.InstituteID = &institute.ID

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin register institute: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const insertInstitute = `INSERT INTO institutes (id, name, status, subscription_plan, created_at, updated_at)
        VALUES (:id, :name, :status, :subscription_plan, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, insertInstitute, institute); err != nil {
		return fmt.Errorf("create institute: %w", err)
	}
	if _, err := tx.NamedExecContext(ctx, insertProfileQuery, manager); err != nil {
		return fmt.Errorf("create manager profile: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit register institute: %w", err)
	}
	committed = true
	return nil
}

// UpdateStatus moves an institute to status only when it is still in from.
// It reports whether a row changed.
func (r *InstituteRepository) UpdateStatus(ctx context.Context, id string, from, to models.InstituteStatus) (bool, error) {
	const query = `UPDATE institutes SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`
	res, err := r.db.ExecContext(ctx, query, id, from, to, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("update institute status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update institute status: %w", err)
	}
	return affected > 0, nil
}

// UpdateName renames an institute.
func (r *InstituteRepository) UpdateName(ctx context.Context, id, name string) error {
	const query = `UPDATE institutes SET name = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, name, time.Now().UTC()); err != nil {
		return fmt.Errorf("rename institute: %w", err)
	}
	return nil
}
