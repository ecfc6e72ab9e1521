package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/eduflow-api/internal/models"
)

// AttendanceRepository serves attendance marks.
type AttendanceRepository struct{ s *Store }

// NewAttendanceRepository constructs an AttendanceRepository.
func NewAttendanceRepository(s *Store) *AttendanceRepository { return &AttendanceRepository{s: s} }

// List returns the tenant's marks matching the filter, newest date first.
func (r *AttendanceRepository) List(ctx context.Context, tenantID string, filter models.AttendanceFilter) ([]models.AttendanceRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	taught := map[string]bool{}
	if filter.TeacherID != "" {
		for _, c := range r.s.classes {
			if c.InstituteID == tenantID && c.TeacherID == filter.TeacherID {
				taught[c.ID] = true
			}
		}
	}

	out := []models.AttendanceRecord{}
	for _, a := range r.s.attendance {
		switch {
		case a.InstituteID != tenantID:
		case filter.TeacherID != "" && !taught[a.ClassID]:
		case filter.ClassID != "" && a.ClassID != filter.ClassID:
		case filter.StudentID != "" && a.StudentID != filter.StudentID:
		case filter.Date != nil && !a.Date.Equal(*filter.Date):
		default:
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].StudentID < out[j].StudentID
	})
	return out, nil
}

// ReplaceDay makes records the complete set of marks for (classID, date),
// keeping the ids of marks that already existed for a student.
func (r *AttendanceRepository) ReplaceDay(ctx context.Context, tenantID, classID string, date time.Time, records []models.AttendanceRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now().UTC()
	existing := map[string]models.AttendanceRecord{}
	kept := r.s.attendance[:0:0]
	for _, a := range r.s.attendance {
		if a.InstituteID == tenantID && a.ClassID == classID && a.Date.Equal(date) {
			existing[a.StudentID] = a
			continue
		}
		kept = append(kept, a)
	}

	for i := range records {
		rec := &records[i]
		rec.InstituteID, rec.ClassID, rec.Date = tenantID, classID, date
		rec.CreatedAt, rec.UpdatedAt = now, now
		if prev, ok := existing[rec.StudentID]; ok {
			rec.ID = prev.ID
			rec.CreatedAt = prev.CreatedAt
		} else if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		kept = append(kept, *rec)
	}
	r.s.attendance = kept
	return nil
}

// PaymentRepository serves fee payments.
type PaymentRepository struct{ s *Store }

// NewPaymentRepository constructs a PaymentRepository.
func NewPaymentRepository(s *Store) *PaymentRepository { return &PaymentRepository{s: s} }

// List returns the tenant's payments for month, or all months when empty.
func (r *PaymentRepository) List(ctx context.Context, tenantID, month string) ([]models.PaymentRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.PaymentRecord{}
	for _, p := range r.s.payments {
		if p.InstituteID == tenantID && (month == "" || p.Month == month) {
			out = append(out, clonePayment(p))
		}
	}
	return out, nil
}

// History returns a student's payments, newest month first.
func (r *PaymentRepository) History(ctx context.Context, tenantID, studentID, classID string) ([]models.PaymentRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.PaymentRecord{}
	for _, p := range r.s.payments {
		if p.InstituteID == tenantID && p.StudentID == studentID && (classID == "" || p.ClassID == classID) {
			out = append(out, clonePayment(p))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Month > out[j].Month })
	return out, nil
}

// FindByKey fetches the payment for the natural key.
func (r *PaymentRepository) FindByKey(ctx context.Context, tenantID, studentID, classID, month string) (*models.PaymentRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.payments {
		if p.InstituteID == tenantID && p.StudentID == studentID && p.ClassID == classID && p.Month == month {
			found := clonePayment(p)
			return &found, nil
		}
	}
	return nil, notFound()
}

// Save upserts the payment on its natural key.
func (r *PaymentRepository) Save(ctx context.Context, payment *models.PaymentRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now().UTC()
	payment.UpdatedAt = now
	for i := range r.s.payments {
		p := &r.s.payments[i]
		if p.StudentID == payment.StudentID && p.ClassID == payment.ClassID && p.Month == payment.Month {
			payment.ID = p.ID
			payment.CreatedAt = p.CreatedAt
			*p = clonePayment(*payment)
			return nil
		}
	}
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	payment.CreatedAt = now
	r.s.payments = append(r.s.payments, clonePayment(*payment))
	return nil
}

// SalaryRepository serves persisted salary statuses.
type SalaryRepository struct{ s *Store }

// NewSalaryRepository constructs a SalaryRepository.
func NewSalaryRepository(s *Store) *SalaryRepository { return &SalaryRepository{s: s} }

// List returns the tenant's persisted salaries for month.
func (r *SalaryRepository) List(ctx context.Context, tenantID, month string) ([]models.SalaryRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.SalaryRecord{}
	for _, sal := range r.s.salaries {
		if sal.InstituteID == tenantID && sal.Month == month {
			out = append(out, sal)
		}
	}
	return out, nil
}

// Save upserts on (teacher, month).
func (r *SalaryRepository) Save(ctx context.Context, salary *models.SalaryRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now().UTC()
	salary.UpdatedAt = now
	for i := range r.s.salaries {
		if r.s.salaries[i].TeacherID == salary.TeacherID && r.s.salaries[i].Month == salary.Month {
			salary.CreatedAt = r.s.salaries[i].CreatedAt
			r.s.salaries[i] = *salary
			return nil
		}
	}
	salary.CreatedAt = now
	r.s.salaries = append(r.s.salaries, *salary)
	return nil
}
