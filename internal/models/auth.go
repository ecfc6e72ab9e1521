package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SignInRequest holds credentials for authenticating a profile.
type SignInRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// SignInResponse returns the issued token and the resolved principal.
type SignInResponse struct {
	AccessToken string     `json:"accessToken"`
	ExpiresIn   int64      `json:"expiresIn"`
	IssuedAt    time.Time  `json:"issuedAt"`
	Principal   *Principal `json:"user"`
}

// RegisterInstituteRequest creates a pending institute with its first manager.
type RegisterInstituteRequest struct {
	InstituteName string `json:"instituteName" validate:"required"`
	ManagerName   string `json:"managerName" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=6"`
}

// RegisterInstituteResponse echoes the created records.
type RegisterInstituteResponse struct {
	Institute *Institute `json:"institute"`
	Profile   *Profile   `json:"profile"`
}

// ProvisionTeacherAccountRequest links a login to an existing teacher record.
type ProvisionTeacherAccountRequest struct {
	TeacherID string `json:"teacherId" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
}

// Session is a server-side record backing an issued access token.
type Session struct {
	ID        string     `db:"id" json:"id"`
	ProfileID string     `db:"profile_id" json:"profileId"`
	ExpiresAt time.Time  `db:"expires_at" json:"expiresAt"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	RevokedAt *time.Time `db:"revoked_at" json:"revokedAt,omitempty"`
	IPAddress string     `db:"ip_address" json:"-"`
	UserAgent string     `db:"user_agent" json:"-"`
}

// Active reports whether the session can still authenticate requests.
func (s *Session) Active(now time.Time) bool {
	return s != nil && s.RevokedAt == nil && now.Before(s.ExpiresAt)
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID    string   `json:"user_id"`
	Role      UserRole `json:"role"`
	Email     string   `json:"email"`
	Name      string   `json:"name"`
	TenantID  string   `json:"tenant_id,omitempty"`
	TeacherID string   `json:"teacher_id,omitempty"`
	SessionID string   `json:"sid"`
	jwt.RegisteredClaims
}

// Principal converts claims into the request principal.
func (c *JWTClaims) Principal() *Principal {
	return &Principal{
		ID:        c.UserID,
		Email:     c.Email,
		Name:      c.Name,
		Role:      c.Role,
		TenantID:  c.TenantID,
		TeacherID: c.TeacherID,
		SessionID: c.SessionID,
	}
}
