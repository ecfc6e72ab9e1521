package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/eduflow-api/internal/models"
)

const profileColumns = `id, email, password_hash, name, role, institute_id, teacher_id, created_at, updated_at`

const insertProfileQuery = `INSERT INTO profiles (id, email, password_hash, name, role, institute_id, teacher_id, created_at, updated_at)
        VALUES (:id, :email, :password_hash, :name, :role, :institute_id, :teacher_id, :created_at, :updated_at)`

// ProfileRepository manages sign-in accounts.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository constructs a ProfileRepository.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// FindByEmail fetches a profile by its case-insensitive e-mail.
func (r *ProfileRepository) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE LOWER(email) = $1 LIMIT 1`
	var profile models.Profile
	if err := r.db.GetContext(ctx, &profile, query, strings.ToLower(email)); err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByID fetches a profile by id.
func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	var profile models.Profile
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ExistsByEmail checks whether an e-mail is already registered.
func (r *ProfileRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists int
	err := r.db.GetContext(ctx, &exists, `SELECT 1 FROM profiles WHERE LOWER(email) = $1 LIMIT 1`, strings.ToLower(email))
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check profile email: %w", err)
	}
	return true, nil
}

// Create inserts a profile.
func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	profile.CreatedAt, profile.UpdatedAt = now, now
	if _, err := r.db.NamedExecContext(ctx, insertProfileQuery, profile); err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}
