package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/eduflow-api/internal/models"
)

const paymentColumns = `id, institute_id, student_id, class_id, month, amount, status, date_paid, created_at, updated_at`

// PaymentRepository manages fee payments keyed by (student, class, month).
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository constructs a PaymentRepository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// List returns the tenant's payments for month, or for every month when month is empty.
func (r *PaymentRepository) List(ctx context.Context, tenantID, month string) ([]models.PaymentRecord, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE institute_id = $1`
	args := []interface{}{tenantID}
	if month != "" {
		query += ` AND month = $2`
		args = append(args, month)
	}
	query += ` ORDER BY month DESC, student_id`

	payments := []models.PaymentRecord{}
	err := withTenant(ctx, r.db, tenantID, func(tx *sqlx.Tx) error {
		return tx.SelectContext(ctx, &payments, query, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

// History returns a student's payments, optionally within one class, newest month first.
func (r *PaymentRepository) History(ctx context.Context, tenantID, studentID, classID string) ([]models.PaymentRecord, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE institute_id = $1 AND student_id = $2`
	args := []interface{}{tenantID, studentID}
	if classID != "" {
		query += ` AND class_id = $3`
		args = append(args, classID)
	}
	query += ` ORDER BY month DESC`

	payments := []models.PaymentRecord{}
	err := withTenant(ctx, r.db, tenantID, func(tx *sqlx.Tx) error {
		return tx.SelectContext(ctx, &payments, query, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("payment history: %w", err)
	}
	return payments, nil
}

// FindByKey fetches the payment for the natural key; sql.ErrNoRows when absent.
func (r *PaymentRepository) FindByKey(ctx context.Context, tenantID, studentID, classID, month string) (*models.PaymentRecord, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE institute_id = $1 AND student_id = $2 AND class_id = $3 AND month = $4`
	var payment models.PaymentRecord
	err := withTenant(ctx, r.db, tenantID, func(tx *sqlx.Tx) error {
		return tx.GetContext(ctx, &payment, query, tenantID, studentID, classID, month)
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// Save upserts the payment on its natural key.
func (r *PaymentRepository) Save(ctx context.Context, payment *models.PaymentRecord) error {
	now := time.Now().UTC()
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = now
	}
	payment.UpdatedAt = now
	const query = `INSERT INTO payments (id, institute_id, student_id, class_id, month, amount, status, date_paid, created_at, updated_at)
        VALUES (:id, :institute_id, :student_id, :class_id, :month, :amount, :status, :date_paid, :created_at, :updated_at)
        ON CONFLICT (student_id, class_id, month)
        DO UPDATE SET amount = EXCLUDED.amount, status = EXCLUDED.status, date_paid = EXCLUDED.date_paid, updated_at = EXCLUDED.updated_at`
	err := withTenant(ctx, r.db, payment.InstituteID, func(tx *sqlx.Tx) error {
		_, err := tx.NamedExecContext(ctx, query, payment)
		return err
	})
	if err != nil {
		return fmt.Errorf("save payment: %w", err)
	}
	return nil
}
