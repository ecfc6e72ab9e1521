package models

import "time"

// InstituteStatus tracks the approval lifecycle of a tenant.
type InstituteStatus string

const (
	InstituteStatusPending  InstituteStatus = "PENDING"
	InstituteStatusApproved InstituteStatus = "APPROVED"
	InstituteStatusRejected InstituteStatus = "REJECTED"
)

// CanTransition reports whether status may move to next. PENDING is the only
// non-terminal state.
func (s InstituteStatus) CanTransition(next InstituteStatus) bool {
	if s != InstituteStatusPending {
		return false
	}
	return next == InstituteStatusApproved || next == InstituteStatusRejected
}

// SubscriptionPlan is the billing tier of an institute.
type SubscriptionPlan string

const (
	PlanFree SubscriptionPlan = "FREE"
	PlanPro  SubscriptionPlan = "PRO"
)

// Institute is a tenant owning every other school record.
type Institute struct {
	ID               string           `db:"id" json:"id"`
	Name             string           `db:"name" json:"name"`
	Status           InstituteStatus  `db:"status" json:"status"`
	SubscriptionPlan SubscriptionPlan `db:"subscription_plan" json:"subscriptionPlan"`
	CreatedAt        time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updatedAt"`
}

// RenameInstituteRequest changes the display name of the caller's institute.
type RenameInstituteRequest struct {
	Name string `json:"name" validate:"required"`
}
