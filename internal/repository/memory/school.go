package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/eduflow-api/internal/models"
)

// StudentRepository serves students of one tenant at a time.
type StudentRepository struct{ s *Store }

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(s *Store) *StudentRepository { return &StudentRepository{s: s} }

// List returns the tenant's students in name order.
func (r *StudentRepository) List(ctx context.Context, tenantID string) ([]models.Student, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.Student{}
	for _, st := range r.s.students {
		if st.InstituteID == tenantID {
			out = append(out, st)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// FindByID fetches a student of the tenant.
func (r *StudentRepository) FindByID(ctx context.Context, tenantID, id string) (*models.Student, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, st := range r.s.students {
		if st.InstituteID == tenantID && st.ID == id {
			found := st
			return &found, nil
		}
	}
	return nil, notFound()
}

// Create inserts a student.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	student.CreatedAt, student.UpdatedAt = now, now
	r.s.students = append(r.s.students, *student)
	return nil
}

// Update overwrites a student of the same tenant; missing rows are ignored.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.students {
		if r.s.students[i].ID == student.ID && r.s.students[i].InstituteID == student.InstituteID {
			student.CreatedAt = r.s.students[i].CreatedAt
			student.UpdatedAt = time.Now().UTC()
			r.s.students[i] = *student
		}
	}
	return nil
}

// TeacherRepository serves teachers.
type TeacherRepository struct{ s *Store }

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(s *Store) *TeacherRepository { return &TeacherRepository{s: s} }

// List returns the tenant's teachers in name order.
func (r *TeacherRepository) List(ctx context.Context, tenantID string) ([]models.Teacher, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.Teacher{}
	for _, t := range r.s.teachers {
		if t.InstituteID == tenantID {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// FindByID fetches a teacher of the tenant.
func (r *TeacherRepository) FindByID(ctx context.Context, tenantID, id string) (*models.Teacher, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, t := range r.s.teachers {
		if t.InstituteID == tenantID && t.ID == id {
			found := t
			return &found, nil
		}
	}
	return nil, notFound()
}

// Create inserts a teacher.
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if teacher.ID == "" {
		teacher.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	teacher.CreatedAt, teacher.UpdatedAt = now, now
	r.s.teachers = append(r.s.teachers, *teacher)
	return nil
}

// Update overwrites a teacher of the same tenant.
func (r *TeacherRepository) Update(ctx context.Context, teacher *models.Teacher) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.teachers {
		if r.s.teachers[i].ID == teacher.ID && r.s.teachers[i].InstituteID == teacher.InstituteID {
			teacher.CreatedAt = r.s.teachers[i].CreatedAt
			teacher.UpdatedAt = time.Now().UTC()
			r.s.teachers[i] = *teacher
		}
	}
	return nil
}

// ClassRepository serves classes and enrollment.
type ClassRepository struct{ s *Store }

// NewClassRepository constructs a ClassRepository.
func NewClassRepository(s *Store) *ClassRepository { return &ClassRepository{s: s} }

// List returns the tenant's classes, optionally only those of one teacher.
func (r *ClassRepository) List(ctx context.Context, tenantID, teacherID string) ([]models.ClassSession, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.ClassSession{}
	for _, c := range r.s.classes {
		if c.InstituteID != tenantID || (teacherID != "" && c.TeacherID != teacherID) {
			continue
		}
		out = append(out, cloneClass(c))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// FindByID fetches a class of the tenant.
func (r *ClassRepository) FindByID(ctx context.Context, tenantID, id string) (*models.ClassSession, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.classes {
		if c.InstituteID == tenantID && c.ID == id {
			found := cloneClass(c)
			return &found, nil
		}
	}
	return nil, notFound()
}

// Create inserts a class.
func (r *ClassRepository) Create(ctx context.Context, class *models.ClassSession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	if class.StudentIDs == nil {
		class.StudentIDs = []string{}
	}
	now := time.Now().UTC()
	class.CreatedAt, class.UpdatedAt = now, now
	r.s.classes = append(r.s.classes, cloneClass(*class))
	return nil
}

// Update overwrites the descriptive fields; the stored enrollment list is kept.
func (r *ClassRepository) Update(ctx context.Context, class *models.ClassSession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.classes {
		stored := &r.s.classes[i]
		if stored.ID != class.ID || stored.InstituteID != class.InstituteID {
			continue
		}
		updated := cloneClass(*class)
		updated.StudentIDs = stored.StudentIDs
		updated.CreatedAt = stored.CreatedAt
		updated.UpdatedAt = time.Now().UTC()
		*stored = updated
	}
	return nil
}

// Enroll appends studentID when the class exists and does not list it yet.
func (r *ClassRepository) Enroll(ctx context.Context, tenantID, classID, studentID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.classes {
		c := &r.s.classes[i]
		if c.InstituteID == tenantID && c.ID == classID && !c.HasStudent(studentID) {
			c.StudentIDs = append(c.StudentIDs, studentID)
			c.UpdatedAt = time.Now().UTC()
		}
	}
	return nil
}
