package views

import (
	"fmt"

	"github.com/noah-isme/eduflow-api/internal/models"
)

// SalaryID is the deterministic identifier of a teacher's salary for a month.
func SalaryID(teacherID, month string) string {
	return fmt.Sprintf("sal-%s-%s", teacherID, month)
}

// ComputeSalary derives one teacher's salary for month from the classes they teach.
// Commission is paid per enrolled seat, so a student in two classes counts twice.
func ComputeSalary(teacher models.Teacher, classes []models.ClassSession, month string) models.SalaryRecord {
	seats := 0
	for _, class := range classes {
		if class.TeacherID == teacher.ID {
			seats += len(class.StudentIDs)
		}
	}
	commission := teacher.CommissionPerStudent * float64(seats)
	return models.SalaryRecord{
		ID:               SalaryID(teacher.ID, month),
		InstituteID:      teacher.InstituteID,
		TeacherID:        teacher.ID,
		Month:            month,
		BaseAmount:       teacher.BaseSalary,
		CommissionAmount: commission,
		TotalAmount:      teacher.BaseSalary + commission,
		Status:           models.SalaryPending,
	}
}

// BuildSalaryRows computes every teacher's salary for month. Amounts are always
// recomputed; a persisted record for the same teacher and month only supplies
// the status.
func BuildSalaryRows(teachers []models.Teacher, classes []models.ClassSession, persisted []models.SalaryRecord, month string) []models.SalaryRecord {
	statuses := make(map[string]models.SalaryStatus, len(persisted))
	for _, record := range persisted {
		if record.Month == month {
			statuses[record.TeacherID] = record.Status
		}
	}

	rows := make([]models.SalaryRecord, 0, len(teachers))
	for _, teacher := range teachers {
		row := ComputeSalary(teacher, classes, month)
		if status, ok := statuses[teacher.ID]; ok {
			row.Status = status
		}
		rows = append(rows, row)
	}
	return rows
}

// TotalPayout sums the total amount of every row.
func TotalPayout(rows []models.SalaryRecord) float64 {
	var total float64
	for _, row := range rows {
		total += row.TotalAmount
	}
	return total
}
