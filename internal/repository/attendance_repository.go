package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/eduflow-api/internal/models"
)

// AttendanceRepository manages per-student attendance marks.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs an AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// List returns the tenant's marks matching the filter, newest date first.
func (r *AttendanceRepository) List(ctx context.Context, tenantID string, filter models.AttendanceFilter) ([]models.AttendanceRecord, error) {
	base := `SELECT a.id, a.institute_id, a.class_id, a.student_id, a.date, a.status, a.created_at, a.updated_at
        FROM attendance a`
	conditions := []string{"a.institute_id = $1"}
	args := []interface{}{tenantID}

	if filter.TeacherID != "" {
		base += ` JOIN classes c ON c.id = a.class_id`
		conditions = append(conditions, fmt.Sprintf("c.teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	if filter.ClassID != "" {
		conditions = append(conditions, fmt.Sprintf("a.class_id = $%d", len(args)+1))
		args = append(args, filter.ClassID)
	}
	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("a.student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.Date != nil {
		conditions = append(conditions, fmt.Sprintf("a.date = $%d", len(args)+1))
		args = append(args, *filter.Date)
	}

	query := fmt.Sprintf("%s WHERE %s ORDER BY a.date DESC, a.student_id", base, strings.Join(conditions, " AND "))
	records := []models.AttendanceRecord{}
	err := withTenant(ctx, r.db, tenantID, func(tx *sqlx.Tx) error {
		return tx.SelectContext(ctx, &records, query, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return records, nil
}

// ReplaceDay makes records the complete set of marks for (classID, date). Marks
// are upserted on their natural key and marks of students not in records are
// deleted, all in one transaction, so a class day is never transiently empty.
// Records that already existed keep their stored id and creation time.
func (r *AttendanceRepository) ReplaceDay(ctx context.Context, tenantID, classID string, date time.Time, records []models.AttendanceRecord) error {
	const upsert = `INSERT INTO attendance (id, institute_id, class_id, student_id, date, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (class_id, date, student_id)
        DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at
        RETURNING id, created_at`
	const prune = `DELETE FROM attendance WHERE institute_id = $1 AND class_id = $2 AND date = $3 AND NOT (student_id = ANY($4))`

	now := time.Now().UTC()
	keep := make([]string, 0, len(records))
	err := withTenant(ctx, r.db, tenantID, func(tx *sqlx.Tx) error {
		for i := range records {
			rec := &records[i]
			if rec.ID == "" {
				rec.ID = uuid.NewString()
			}
			rec.InstituteID, rec.ClassID, rec.Date = tenantID, classID, date
			rec.CreatedAt, rec.UpdatedAt = now, now
			row := tx.QueryRowxContext(ctx, upsert, rec.ID, rec.InstituteID, rec.ClassID, rec.StudentID, rec.Date, rec.Status, rec.CreatedAt, rec.UpdatedAt)
			if err := row.Scan(&rec.ID, &rec.CreatedAt); err != nil {
				return fmt.Errorf("upsert mark for %s: %w", rec.StudentID, err)
			}
			keep = append(keep, rec.StudentID)
		}
		if _, err := tx.ExecContext(ctx, prune, tenantID, classID, date, pq.Array(keep)); err != nil {
			return fmt.Errorf("prune marks: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("replace attendance day: %w", err)
	}
	return nil
}
