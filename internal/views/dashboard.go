// Package views builds presentation data from raw tenant collections. Every
// function is pure: it reads its inputs and never mutates them.
package views

import (
	"time"

	"github.com/noah-isme/eduflow-api/internal/dto"
	"github.com/noah-isme/eduflow-api/internal/models"
)

const (
	trendMonths     = 6
	noDataSliceName = "No Data"
)

// Collections groups the tenant rows the dashboard aggregates over.
type Collections struct {
	Students   []models.Student
	Teachers   []models.Teacher
	Classes    []models.ClassSession
	Attendance []models.AttendanceRecord
	Payments   []models.PaymentRecord
}

// BuildDashboard aggregates stat cards, the trailing revenue trend and the fee
// collection pie. window is a YYYY-MM month or dto.DashboardMonthAll; the
// trend ends at that month, or at now for all-time windows. The pie always
// covers the calendar month of now.
func BuildDashboard(in Collections, window string, now time.Time) dto.DashboardResponse {
	current := now.UTC().Format(models.MonthLayout)
	reference := current
	if window != dto.DashboardMonthAll {
		reference = window
	}

	return dto.DashboardResponse{
		Month:               window,
		ReferenceMonth:      reference,
		TotalStudents:       len(in.Students),
		TotalTeachers:       len(in.Teachers),
		TotalClasses:        len(in.Classes),
		TotalRevenue:        Revenue(in.Payments, window),
		AttendanceRate:      AttendanceRate(in.Attendance),
		RevenueTrend:        RevenueTrend(in.Payments, reference),
		PaymentDistribution: PaymentDistribution(in.Payments, current),
		GeneratedAt:         now.UTC(),
	}
}

// Revenue sums PAID amounts, restricted to month unless it is dto.DashboardMonthAll.
func Revenue(payments []models.PaymentRecord, month string) float64 {
	var total float64
	for _, p := range payments {
		if p.Status != models.PaymentPaid {
			continue
		}
		if month != dto.DashboardMonthAll && p.Month != month {
			continue
		}
		total += p.Amount
	}
	return total
}

// RevenueTrend buckets PAID amounts for the six months ending at reference,
// oldest first.
func RevenueTrend(payments []models.PaymentRecord, reference string) []dto.RevenuePoint {
	end, err := time.Parse(models.MonthLayout, reference)
	if err != nil {
		return []dto.RevenuePoint{}
	}

	points := make([]dto.RevenuePoint, trendMonths)
	index := make(map[string]int, trendMonths)
	for i := 0; i < trendMonths; i++ {
		month := end.AddDate(0, i-(trendMonths-1), 0)
		key := month.Format(models.MonthLayout)
		points[i] = dto.RevenuePoint{Month: key, Label: month.Format("Jan")}
		index[key] = i
	}

	for _, p := range payments {
		if p.Status != models.PaymentPaid {
			continue
		}
		if i, ok := index[p.Month]; ok {
			points[i].Revenue += p.Amount
		}
	}
	return points
}

// PaymentDistribution splits the month's recorded amounts by status. Zero
// slices are dropped; an empty chart gets a single "No Data" slice.
func PaymentDistribution(payments []models.PaymentRecord, month string) []dto.PieSlice {
	sums := map[models.PaymentStatus]float64{}
	for _, p := range payments {
		if p.Month == month {
			sums[p.Status] += p.Amount
		}
	}

	order := []struct {
		status models.PaymentStatus
		name   string
	}{
		{models.PaymentPaid, "Paid"},
		{models.PaymentPending, "Pending"},
		{models.PaymentOverdue, "Overdue"},
	}

	slices := make([]dto.PieSlice, 0, len(order))
	for _, entry := range order {
		if value := sums[entry.status]; value > 0 {
			slices = append(slices, dto.PieSlice{Name: entry.name, Value: value})
		}
	}
	if len(slices) == 0 {
		slices = append(slices, dto.PieSlice{Name: noDataSliceName, Value: 1})
	}
	return slices
}

// AttendanceRate is (PRESENT + LATE) / all marks, or 0 without marks.
func AttendanceRate(records []models.AttendanceRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	attended := 0
	for _, r := range records {
		if r.Status == models.AttendancePresent || r.Status == models.AttendanceLate {
			attended++
		}
	}
	return float64(attended) / float64(len(records))
}

// StudentAttendanceStats counts a student's marks, optionally within one class.
func StudentAttendanceStats(records []models.AttendanceRecord, studentID, classID string) models.AttendanceStats {
	var stats models.AttendanceStats
	for _, r := range records {
		if r.StudentID != studentID {
			continue
		}
		if classID != "" && r.ClassID != classID {
			continue
		}
		stats.Total++
		switch r.Status {
		case models.AttendancePresent:
			stats.Present++
		case models.AttendanceLate:
			stats.Late++
		case models.AttendanceAbsent:
			stats.Absent++
		}
	}
	return stats
}
