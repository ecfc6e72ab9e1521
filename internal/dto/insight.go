package dto

import (
	"time"

	"github.com/noah-isme/eduflow-api/internal/models"
)

// TenantSnapshot is the full data set of one institute handed to the AI advisor.
type TenantSnapshot struct {
	Students   []models.Student          `json:"students"`
	Teachers   []models.Teacher          `json:"teachers"`
	Classes    []models.ClassSession     `json:"classes"`
	Attendance []models.AttendanceRecord `json:"attendance"`
	Payments   []models.PaymentRecord    `json:"payments"`
}

// Insight job states.
const (
	InsightStatusQueued = "QUEUED"
	InsightStatusReady  = "READY"
)

// InsightResponse carries the latest advisor text for an institute.
type InsightResponse struct {
	JobID       string     `json:"jobId,omitempty"`
	Status      string     `json:"status"`
	Text        string     `json:"text,omitempty"`
	RequestedAt time.Time  `json:"requestedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}
