package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/eduflow-api/internal/models"
	appErrors "github.com/noah-isme/eduflow-api/pkg/errors"
)

func studentIDs(students []models.Student) []string {
	ids := make([]string, 0, len(students))
	for _, s := range students {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestStudentSearchMatchesEnrolledClass(t *testing.T) {
	f := newFixture(t)

	students, err := f.students.List(as(managerPrincipal), models.StudentFilter{Search: "biology"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"s2", "s3", "s5"}, studentIDs(students))

	students, err = f.students.List(as(managerPrincipal), models.StudentFilter{Search: "DIANA"})
	require.NoError(t, err)
	assert.Equal(t, []string{"s4"}, studentIDs(students))

	students, err = f.students.List(as(managerPrincipal), models.StudentFilter{SortBy: models.StudentSortDate})
	require.NoError(t, err)
	assert.Equal(t, []string{"s5", "s4", "s3", "s2", "s1"}, studentIDs(students))
}

func TestTenantIsolation(t *testing.T) {
	f := newFixture(t)

	created, err := f.students.Create(as(pendingManager), models.CreateStudentRequest{Name: "Nelson Muntz"})
	require.NoError(t, err)
	assert.Equal(t, "inst-2", created.InstituteID)
	assert.False(t, created.EnrolledDate.IsZero())

	springfield, err := f.students.List(as(managerPrincipal), models.StudentFilter{})
	require.NoError(t, err)
	assert.NotContains(t, studentIDs(springfield), created.ID)

	other, err := f.students.List(as(pendingManager), models.StudentFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{created.ID}, studentIDs(other))

	name := "Hijacked"
	updated, err := f.students.Update(as(managerPrincipal), created.ID, models.StudentPatch{Name: &name})
	require.NoError(t, err)
	assert.Nil(t, updated)

	// Foreign students cannot be enrolled into local classes.
	_, err = f.classes.Enroll(as(managerPrincipal), "c1", models.EnrollRequest{StudentID: created.ID})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestStudentWritesRequireManager(t *testing.T) {
	f := newFixture(t)

	_, err := f.students.Create(as(teacherPrincipal), models.CreateStudentRequest{Name: "Milhouse"})
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))

	_, err = f.students.Create(as(adminPrincipal), models.CreateStudentRequest{Name: "Milhouse"})
	assert.True(t, appErrors.Is(err, appErrors.ErrNoTenant))

	_, err = f.students.Create(as(managerPrincipal), models.CreateStudentRequest{Name: " "})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = f.students.Create(as(managerPrincipal), models.CreateStudentRequest{Name: "Milhouse", Email: "bad"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestStudentUpdate(t *testing.T) {
	f := newFixture(t)
	phone := "555-9999"

	updated, err := f.students.Update(as(managerPrincipal), "s1", models.StudentPatch{Phone: &phone})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "555-9999", updated.Phone)
	assert.Equal(t, "Alice Johnson", updated.Name)

	missing, err := f.students.Update(as(managerPrincipal), "s404", models.StudentPatch{Phone: &phone})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTeacherListAndUpdate(t *testing.T) {
	f := newFixture(t)

	teachers, err := f.teachers.List(as(managerPrincipal), models.TeacherFilter{SortBy: models.TeacherSortSalary})
	require.NoError(t, err)
	require.Len(t, teachers, 3)
	assert.Equal(t, "t3", teachers[0].ID)

	_, err = f.teachers.List(as(teacherPrincipal), models.TeacherFilter{})
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))

	salary := 2100.0
	updated, err := f.teachers.Update(as(managerPrincipal), "teacher-1", models.TeacherPatch{BaseSalary: &salary})
	require.NoError(t, err)
	assert.Equal(t, 2100.0, updated.BaseSalary)

	created, err := f.teachers.Create(as(managerPrincipal), models.CreateTeacherRequest{Name: "Edna Krabappel", BaseSalary: 1500, CommissionPerStudent: 20})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "inst-1", created.InstituteID)
}

func TestClassListForTeacherIsOwnClassesOnly(t *testing.T) {
	f := newFixture(t)

	classes, err := f.classes.List(as(teacherPrincipal), models.ClassFilter{TeacherID: "t3"})
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, "c1", classes[0].ID)

	all, err := f.classes.List(as(managerPrincipal), models.ClassFilter{SortBy: models.ClassSortFee})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c2", all[0].ID)
}

func TestClassCreateRequiresLocalTeacher(t *testing.T) {
	f := newFixture(t)

	_, err := f.classes.Create(as(managerPrincipal), models.CreateClassRequest{Name: "Chemistry", TeacherID: "nobody"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	created, err := f.classes.Create(as(managerPrincipal), models.CreateClassRequest{Name: "Chemistry", TeacherID: "t2", FeePerMonth: 80})
	require.NoError(t, err)
	assert.Empty(t, created.StudentIDs)
	assert.Equal(t, 80.0, created.FeePerMonth)
}

func TestEnrollIsIdempotent(t *testing.T) {
	f := newFixture(t)

	class, err := f.classes.Enroll(as(managerPrincipal), "c1", models.EnrollRequest{StudentID: "s3"})
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2", "s5", "s3"}, []string(class.StudentIDs))

	class, err = f.classes.Enroll(as(managerPrincipal), "c1", models.EnrollRequest{StudentID: "s3"})
	require.NoError(t, err)
	assert.Len(t, class.StudentIDs, 4)

	missing, err := f.classes.Enroll(as(managerPrincipal), "c404", models.EnrollRequest{StudentID: "s3"})
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = f.classes.Enroll(as(teacherPrincipal), "c1", models.EnrollRequest{StudentID: "s4"})
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
}

func TestClassUpdateKeepsEnrollment(t *testing.T) {
	f := newFixture(t)
	fee := 150.0

	class, err := f.classes.Update(as(managerPrincipal), "c1", models.ClassPatch{FeePerMonth: &fee})
	require.NoError(t, err)
	assert.Equal(t, 150.0, class.FeePerMonth)
	assert.Equal(t, []string{"s1", "s2", "s5"}, []string(class.StudentIDs))

	other := "ghost"
	_, err = f.classes.Update(as(managerPrincipal), "c1", models.ClassPatch{TeacherID: &other})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}
