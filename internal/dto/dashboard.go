package dto

import "time"

// DashboardMonthAll selects all-time revenue on the dashboard.
const DashboardMonthAll = "all"

// DashboardResponse captures the aggregated dashboard payload for one institute.
type DashboardResponse struct {
	Month               string         `json:"month"`
	ReferenceMonth      string         `json:"referenceMonth"`
	TotalStudents       int            `json:"totalStudents"`
	TotalTeachers       int            `json:"totalTeachers"`
	TotalClasses        int            `json:"totalClasses"`
	TotalRevenue        float64        `json:"totalRevenue"`
	AttendanceRate      float64        `json:"attendanceRate"`
	RevenueTrend        []RevenuePoint `json:"revenueTrend"`
	PaymentDistribution []PieSlice     `json:"paymentDistribution"`
	GeneratedAt         time.Time      `json:"generatedAt"`
}

// RevenuePoint is one bucket of the trailing revenue trend.
type RevenuePoint struct {
	Month   string  `json:"month"`
	Label   string  `json:"label"`
	Revenue float64 `json:"revenue"`
}

// PieSlice is one segment of the fee collection chart.
type PieSlice struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}
