package views

import (
	"sort"
	"strings"

	"github.com/noah-isme/eduflow-api/internal/models"
)

// FilterStudents applies the roster search and sort. The search matches the
// student's name, email or id, or the name or grade of any class they attend.
func FilterStudents(students []models.Student, classes []models.ClassSession, filter models.StudentFilter) []models.Student {
	term := normalize(filter.Search)
	result := make([]models.Student, 0, len(students))
	for _, s := range students {
		if term == "" || contains(term, s.Name, s.Email, s.ID) || matchesEnrolledClass(term, s.ID, classes) {
			result = append(result, s)
		}
	}

	switch filter.SortBy {
	case models.StudentSortName:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	case models.StudentSortDate:
		sort.SliceStable(result, func(i, j int) bool { return result[i].EnrolledDate.After(result[j].EnrolledDate) })
	}
	return result
}

// FilterTeachers applies the staff search (name, email, subject) and sort.
func FilterTeachers(teachers []models.Teacher, filter models.TeacherFilter) []models.Teacher {
	term := normalize(filter.Search)
	result := make([]models.Teacher, 0, len(teachers))
	for _, t := range teachers {
		if term == "" || contains(term, t.Name, t.Email, t.SubjectSpecialty) {
			result = append(result, t)
		}
	}

	switch filter.SortBy {
	case models.TeacherSortName:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	case models.TeacherSortSalary:
		sort.SliceStable(result, func(i, j int) bool { return result[i].BaseSalary > result[j].BaseSalary })
	}
	return result
}

// FilterClasses applies the class search (name, code, grade), the teacher filter and sort.
func FilterClasses(classes []models.ClassSession, filter models.ClassFilter) []models.ClassSession {
	term := normalize(filter.Search)
	result := make([]models.ClassSession, 0, len(classes))
	for _, c := range classes {
		if filter.TeacherID != "" && c.TeacherID != filter.TeacherID {
			continue
		}
		if term == "" || contains(term, c.Name, c.Code, c.GradeYear) {
			result = append(result, c)
		}
	}

	switch filter.SortBy {
	case models.ClassSortName:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	case models.ClassSortGrade:
		sort.SliceStable(result, func(i, j int) bool { return result[i].GradeYear < result[j].GradeYear })
	case models.ClassSortFee:
		sort.SliceStable(result, func(i, j int) bool { return result[i].FeePerMonth > result[j].FeePerMonth })
	}
	return result
}

func matchesEnrolledClass(term, studentID string, classes []models.ClassSession) bool {
	for i := range classes {
		if classes[i].HasStudent(studentID) && contains(term, classes[i].Name, classes[i].GradeYear) {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func contains(term string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}
