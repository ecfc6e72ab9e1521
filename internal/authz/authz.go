// Package authz holds the single role/action table consulted before every
// tenant-scoped read or write.
package authz

import (
	"fmt"

	"github.com/noah-isme/eduflow-api/internal/models"
	appErrors "github.com/noah-isme/eduflow-api/pkg/errors"
)

// Action names an operation guarded by the gate.
type Action string

const (
	ActionListInstitutes   Action = "institutes:list"
	ActionReviewInstitute  Action = "institutes:review"
	ActionViewInstitute    Action = "institute:view"
	ActionRenameInstitute  Action = "institute:rename"
	ActionProvisionTeacher Action = "accounts:provision-teacher"
	ActionReadStudents     Action = "students:read"
	ActionWriteStudents    Action = "students:write"
	ActionReadTeachers     Action = "teachers:read"
	ActionWriteTeachers    Action = "teachers:write"
	ActionReadClasses      Action = "classes:read"
	ActionWriteClasses     Action = "classes:write"
	ActionEnrollStudent    Action = "classes:enroll"
	ActionReadAttendance   Action = "attendance:read"
	ActionMarkAttendance   Action = "attendance:mark"
	ActionReadPayments     Action = "payments:read"
	ActionTogglePayment    Action = "payments:toggle"
	ActionReadSalaries     Action = "salaries:read"
	ActionToggleSalary     Action = "salaries:toggle"
	ActionViewDashboard    Action = "dashboard:view"
	ActionRequestInsights  Action = "insights:request"
	ActionExportFinance    Action = "finance:export"
)

// Outcome is the gate's verdict for a role/action pair.
type Outcome int

const (
	// Deny rejects the operation with an UNAUTHORIZED error.
	Deny Outcome = iota
	// Allow lets the operation proceed.
	Allow
	// Empty lets a read proceed with an empty result instead of failing.
	Empty
)

var (
	admin   = models.RoleAdmin
	manager = models.RoleManager
	teacher = models.RoleTeacher
)

var table = map[Action]map[models.UserRole]Outcome{
	ActionListInstitutes:   {admin: Allow, manager: Empty, teacher: Empty, models.RoleStudent: Empty},
	ActionReviewInstitute:  {admin: Allow},
	ActionViewInstitute:    {admin: Allow, manager: Allow, teacher: Allow},
	ActionRenameInstitute:  {admin: Allow, manager: Allow},
	ActionProvisionTeacher: {manager: Allow},
	ActionReadStudents:     {admin: Allow, manager: Allow, teacher: Allow},
	ActionWriteStudents:    {admin: Allow, manager: Allow},
	ActionReadTeachers:     {admin: Allow, manager: Allow},
	ActionWriteTeachers:    {admin: Allow, manager: Allow},
	ActionReadClasses:      {admin: Allow, manager: Allow, teacher: Allow},
	ActionWriteClasses:     {admin: Allow, manager: Allow},
	ActionEnrollStudent:    {admin: Allow, manager: Allow},
	ActionReadAttendance:   {manager: Allow, teacher: Allow},
	ActionMarkAttendance:   {manager: Allow, teacher: Allow},
	ActionReadPayments:     {manager: Allow},
	ActionTogglePayment:    {manager: Allow},
	ActionReadSalaries:     {manager: Allow, teacher: Empty},
	ActionToggleSalary:     {manager: Allow},
	ActionViewDashboard:    {admin: Allow, manager: Allow, teacher: Allow},
	ActionRequestInsights:  {manager: Allow, teacher: Allow},
	ActionExportFinance:    {manager: Allow},
}

// Check returns the verdict for role performing action. Unknown pairs are denied.
func Check(role models.UserRole, action Action) Outcome {
	rules, ok := table[action]
	if !ok {
		return Deny
	}
	return rules[role]
}

// Authorize fails unless the principal is allowed to perform action outright.
func Authorize(principal *models.Principal, action Action) error {
	if principal == nil {
		return appErrors.ErrNotAuthenticated
	}
	if Check(principal.Role, action) != Allow {
		return denied(principal.Role, action)
	}
	return nil
}

// AuthorizeRead is Authorize for reads that may degrade to an empty result.
// It reports empty=true when the caller should receive no rows.
func AuthorizeRead(principal *models.Principal, action Action) (empty bool, err error) {
	if principal == nil {
		return false, appErrors.ErrNotAuthenticated
	}
	switch Check(principal.Role, action) {
	case Allow:
		return false, nil
	case Empty:
		return true, nil
	default:
		return false, denied(principal.Role, action)
	}
}

// OwnsClass reports whether the principal may act on the class as its teacher.
// Non-teacher roles are not restricted by class ownership.
func OwnsClass(principal *models.Principal, class *models.ClassSession) bool {
	if principal == nil || class == nil {
		return false
	}
	if principal.Role != models.RoleTeacher {
		return true
	}
	return principal.TeacherID != "" && class.TeacherID == principal.TeacherID
}

// AuthorizeClass combines the action check with class ownership.
func AuthorizeClass(principal *models.Principal, action Action, class *models.ClassSession) error {
	if err := Authorize(principal, action); err != nil {
		return err
	}
	if !OwnsClass(principal, class) {
		return appErrors.Clone(appErrors.ErrUnauthorized, "teachers can only act on their own classes")
	}
	return nil
}

func denied(role models.UserRole, action Action) error {
	return appErrors.Clone(appErrors.ErrUnauthorized, fmt.Sprintf("role %s cannot perform %s", role, action))
}
