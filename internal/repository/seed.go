package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/eduflow-api/internal/repository/memory"
)

const (
	seedInstituteQuery = `INSERT INTO institutes (id, name, status, subscription_plan, created_at, updated_at)
        VALUES (:id, :name, :status, :subscription_plan, :created_at, :updated_at) ON CONFLICT (id) DO NOTHING`
	seedTeacherQuery = `INSERT INTO teachers (id, institute_id, name, email, subject_specialty, base_salary, commission_per_student, created_at, updated_at)
        VALUES (:id, :institute_id, :name, :email, :subject_specialty, :base_salary, :commission_per_student, :created_at, :updated_at) ON CONFLICT (id) DO NOTHING`
	seedStudentQuery = `INSERT INTO students (id, institute_id, name, email, phone, enrolled_date, created_at, updated_at)
        VALUES (:id, :institute_id, :name, :email, :phone, :enrolled_date, :created_at, :updated_at) ON CONFLICT (id) DO NOTHING`
	seedClassQuery = `INSERT INTO classes (id, institute_id, name, code, grade_year, teacher_id, schedule, fee_per_month, student_ids, created_at, updated_at)
        VALUES (:id, :institute_id, :name, :code, :grade_year, :teacher_id, :schedule, :fee_per_month, :student_ids, :created_at, :updated_at) ON CONFLICT (id) DO NOTHING`
	seedAttendanceQuery = `INSERT INTO attendance (id, institute_id, class_id, student_id, date, status, created_at, updated_at)
        VALUES (:id, :institute_id, :class_id, :student_id, :date, :status, :created_at, :updated_at) ON CONFLICT DO NOTHING`
	seedPaymentQuery = `INSERT INTO payments (id, institute_id, student_id, class_id, month, amount, status, date_paid, created_at, updated_at)
        VALUES (:id, :institute_id, :student_id, :class_id, :month, :amount, :status, :date_paid, :created_at, :updated_at) ON CONFLICT DO NOTHING`
	seedProfileQuery = insertProfileQuery + ` ON CONFLICT DO NOTHING`
)

// Seed loads data into Postgres. Rows that already exist are left alone, so
// seeding an initialised database is a no-op. Tenant rows are written inside
// their institute's scope so the row-level security policies accept them.
func Seed(ctx context.Context, db *sqlx.DB, data memory.Dataset) error {
	now := time.Now().UTC()
	stamp := func(created, updated *time.Time) {
		if created.IsZero() {
			*created = now
		}
		if updated.IsZero() {
			*updated = *created
		}
	}

	for i := range data.Institutes {
		inst := data.Institutes[i]
		stamp(&inst.CreatedAt, &inst.UpdatedAt)
		if _, err := db.NamedExecContext(ctx, seedInstituteQuery, inst); err != nil {
			return fmt.Errorf("seed institute %s: %w", inst.ID, err)
		}
	}

	for _, inst := range data.Institutes {
		tenantID := inst.ID
		err := withTenant(ctx, db, tenantID, func(tx *sqlx.Tx) error {
			for _, t := range data.Teachers {
				if t.InstituteID != tenantID {
					continue
				}
				stamp(&t.CreatedAt, &t.UpdatedAt)
				if _, err := tx.NamedExecContext(ctx, seedTeacherQuery, t); err != nil {
					return fmt.Errorf("seed teacher %s: %w", t.ID, err)
				}
			}
			for _, s := range data.Students {
				if s.InstituteID != tenantID {
					continue
				}
				stamp(&s.CreatedAt, &s.UpdatedAt)
				if _, err := tx.NamedExecContext(ctx, seedStudentQuery, s); err != nil {
					return fmt.Errorf("seed student %s: %w", s.ID, err)
				}
			}
			for _, c := range data.Classes {
				if c.InstituteID != tenantID {
					continue
				}
				stamp(&c.CreatedAt, &c.UpdatedAt)
				if _, err := tx.NamedExecContext(ctx, seedClassQuery, c); err != nil {
					return fmt.Errorf("seed class %s: %w", c.ID, err)
				}
			}
			for _, a := range data.Attendance {
				if a.InstituteID != tenantID {
					continue
				}
				stamp(&a.CreatedAt, &a.UpdatedAt)
				if _, err := tx.NamedExecContext(ctx, seedAttendanceQuery, a); err != nil {
					return fmt.Errorf("seed attendance %s: %w", a.ID, err)
				}
			}
			for _, p := range data.Payments {
				if p.InstituteID != tenantID {
					continue
				}
				stamp(&p.CreatedAt, &p.UpdatedAt)
				if _, err := tx.NamedExecContext(ctx, seedPaymentQuery, p); err != nil {
					return fmt.Errorf("seed payment %s: %w", p.ID, err)
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	for i := range data.Profiles {
		profile := data.Profiles[i]
		stamp(&profile.CreatedAt, &profile.UpdatedAt)
		if _, err := db.NamedExecContext(ctx, seedProfileQuery, profile); err != nil {
			return fmt.Errorf("seed profile %s: %w", profile.Email, err)
		}
	}
	return nil
}
