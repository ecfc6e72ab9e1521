package memory

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/eduflow-api/internal/models"
)

// DemoPassword signs in every seeded account.
const DemoPassword = "password123"

func day(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(fmt.Sprintf("bad seed date %q: %v", s, err))
	}
	return t
}

func strPtr(s string) *string { return &s }

// Dataset is a complete set of records that can be loaded into a backend.
type Dataset struct {
	Institutes []models.Institute
	Profiles   []models.Profile
	Students   []models.Student
	Teachers   []models.Teacher
	Classes    []models.ClassSession
	Attendance []models.AttendanceRecord
	Payments   []models.PaymentRecord
}

// DemoDataset returns the Springfield demo institute, a pending institute and
// the platform admin. Every account signs in with DemoPassword.
func DemoDataset() (Dataset, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return Dataset{}, fmt.Errorf("hash demo password: %w", err)
	}
	pw := string(hash)
	paid := day("2023-10-05")

	return Dataset{
		Institutes: []models.Institute{
			{ID: "inst-1", Name: "Springfield High", Status: models.InstituteStatusApproved, SubscriptionPlan: models.PlanPro, CreatedAt: day("2023-01-01"), UpdatedAt: day("2023-01-01")},
			{ID: "inst-2", Name: "Pending Academy", Status: models.InstituteStatusPending, SubscriptionPlan: models.PlanFree, CreatedAt: day("2023-10-20"), UpdatedAt: day("2023-10-20")},
		},
		Profiles: []models.Profile{
			{ID: "admin-user", Email: "admin@platform.com", PasswordHash: pw, Name: "Super Admin", Role: models.RoleAdmin},
			{ID: "manager-1", Email: "manager@springfield.com", PasswordHash: pw, Name: "Principal Skinner", Role: models.RoleManager, InstituteID: strPtr("inst-1")},
			{ID: "teacher-1-login", Email: "sarah@eduflow.com", PasswordHash: pw, Name: "Dr. Sarah Connor", Role: models.RoleTeacher, InstituteID: strPtr("inst-1"), TeacherID: strPtr("teacher-1")},
			{ID: "manager-2", Email: "owner@pending.academy", PasswordHash: pw, Name: "Pending Owner", Role: models.RoleManager, InstituteID: strPtr("inst-2")},
		},
		Students: []models.Student{
			{ID: "s1", InstituteID: "inst-1", Name: "Alice Johnson", Email: "alice@example.com", Phone: "555-0101", EnrolledDate: day("2023-01-15")},
			{ID: "s2", InstituteID: "inst-1", Name: "Bob Smith", Email: "bob@example.com", Phone: "555-0102", EnrolledDate: day("2023-02-01")},
			{ID: "s3", InstituteID: "inst-1", Name: "Charlie Davis", Email: "charlie@example.com", Phone: "555-0103", EnrolledDate: day("2023-03-10")},
			{ID: "s4", InstituteID: "inst-1", Name: "Diana Evans", Email: "diana@example.com", Phone: "555-0104", EnrolledDate: day("2023-04-05")},
			{ID: "s5", InstituteID: "inst-1", Name: "Ethan Hunt", Email: "ethan@example.com", Phone: "555-0105", EnrolledDate: day("2023-05-20")},
		},
		Teachers: []models.Teacher{
			{ID: "teacher-1", InstituteID: "inst-1", Name: "Dr. Sarah Connor", Email: "sarah@eduflow.com", SubjectSpecialty: "Physics", BaseSalary: 2000, CommissionPerStudent: 50},
			{ID: "t2", InstituteID: "inst-1", Name: "Prof. Alan Grant", Email: "alan@eduflow.com", SubjectSpecialty: "Biology", BaseSalary: 1800, CommissionPerStudent: 45},
			{ID: "t3", InstituteID: "inst-1", Name: "Ms. Katherine Johnson", Email: "katherine@eduflow.com", SubjectSpecialty: "Mathematics", BaseSalary: 2200, CommissionPerStudent: 60},
		},
		Classes: []models.ClassSession{
			{ID: "c1", InstituteID: "inst-1", Name: "Physics 101", Code: "PHY101", GradeYear: "Year 1", TeacherID: "teacher-1", Schedule: "Mon/Wed 10:00 AM", FeePerMonth: 100, StudentIDs: []string{"s1", "s2", "s5"}},
			{ID: "c2", InstituteID: "inst-1", Name: "Advanced Math", Code: "MAT201", GradeYear: "Year 2", TeacherID: "t3", Schedule: "Tue/Thu 2:00 PM", FeePerMonth: 120, StudentIDs: []string{"s1", "s3", "s4"}},
			{ID: "c3", InstituteID: "inst-1", Name: "Biology Basics", Code: "BIO101", GradeYear: "Year 1", TeacherID: "t2", Schedule: "Fri 9:00 AM", FeePerMonth: 90, StudentIDs: []string{"s2", "s3", "s5"}},
		},
		Attendance: []models.AttendanceRecord{
			{ID: "a1", InstituteID: "inst-1", ClassID: "c1", StudentID: "s1", Date: day("2023-10-01"), Status: models.AttendancePresent},
			{ID: "a2", InstituteID: "inst-1", ClassID: "c1", StudentID: "s2", Date: day("2023-10-01"), Status: models.AttendancePresent},
			{ID: "a3", InstituteID: "inst-1", ClassID: "c1", StudentID: "s5", Date: day("2023-10-01"), Status: models.AttendanceAbsent},
		},
		Payments: []models.PaymentRecord{
			{ID: "p1", InstituteID: "inst-1", StudentID: "s1", ClassID: "c1", Month: "2023-10", Amount: 100, Status: models.PaymentPaid, DatePaid: &paid},
			{ID: "p2", InstituteID: "inst-1", StudentID: "s2", ClassID: "c1", Month: "2023-10", Amount: 100, Status: models.PaymentPending},
		},
	}, nil
}

// SeedDemo replaces the store content with DemoDataset.
func (s *Store) SeedDemo() error {
	data, err := DemoDataset()
	if err != nil {
		return err
	}
	s.Load(data)
	return nil
}

// Load replaces the store content with data. Sessions, salaries and audit
// entries are cleared.
func (s *Store) Load(data Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.institutes = append([]models.Institute(nil), data.Institutes...)
	s.profiles = nil
	for _, p := range data.Profiles {
		s.profiles = append(s.profiles, cloneProfile(p))
	}
	s.sessions = map[string]models.Session{}
	s.students = append([]models.Student(nil), data.Students...)
	s.teachers = append([]models.Teacher(nil), data.Teachers...)
	s.classes = nil
	for _, c := range data.Classes {
		s.classes = append(s.classes, cloneClass(c))
	}
	s.attendance = append([]models.AttendanceRecord(nil), data.Attendance...)
	s.payments = nil
	for _, p := range data.Payments {
		s.payments = append(s.payments, clonePayment(p))
	}
	s.salaries = nil
	s.audit = nil
}
