package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleManager UserRole = "MANAGER"
	RoleTeacher UserRole = "TEACHER"
	RoleStudent UserRole = "STUDENT"
)

// Valid returns true when the role is a supported value.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleTeacher, RoleStudent:
		return true
	default:
		return false
	}
}

// Profile represents an account able to sign in. Only ADMIN profiles have no institute.
type Profile struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Name         string    `db:"name" json:"name"`
	Role         UserRole  `db:"role" json:"role"`
	InstituteID  *string   `db:"institute_id" json:"instituteId"`
	TeacherID    *string   `db:"teacher_id" json:"teacherId,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// Principal builds the session identity for the profile.
func (p *Profile) Principal(sessionID string) *Principal {
	principal := &Principal{
		ID:        p.ID,
		Email:     p.Email,
		Name:      p.Name,
		Role:      p.Role,
		SessionID: sessionID,
	}
	if p.InstituteID != nil {
		principal.TenantID = *p.InstituteID
	}
	if p.TeacherID != nil {
		principal.TeacherID = *p.TeacherID
	}
	return principal
}

// Principal is the authenticated caller carried through a request.
type Principal struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	Name      string   `json:"name"`
	Role      UserRole `json:"role"`
	TenantID  string   `json:"instituteId,omitempty"`
	TeacherID string   `json:"teacherId,omitempty"`
	SessionID string   `json:"-"`
}

// HasTenant reports whether the principal is scoped to an institute.
func (p *Principal) HasTenant() bool {
	return p != nil && p.TenantID != ""
}
