package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/eduflow-api/internal/authz"
	"github.com/noah-isme/eduflow-api/internal/models"
	"github.com/noah-isme/eduflow-api/internal/session"
	appErrors "github.com/noah-isme/eduflow-api/pkg/errors"
)

type authProfileRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Profile, error)
	FindByID(ctx context.Context, id string) (*models.Profile, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, profile *models.Profile) error
}

type authInstituteRepository interface {
	FindByID(ctx context.Context, id string) (*models.Institute, error)
	CreateWithManager(ctx context.Context, institute *models.Institute, manager *models.Profile) error
}

type authSessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	FindByID(ctx context.Context, id string) (*models.Session, error)
	Revoke(ctx context.Context, id string, revokedAt time.Time) error
}

type authTeacherRepository interface {
	FindByID(ctx context.Context, tenantID, id string) (*models.Teacher, error)
}

type auditRecorder interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// AuthRepositories groups the stores the session flows touch.
type AuthRepositories struct {
	Profiles   authProfileRepository
	Institutes authInstituteRepository
	Sessions   authSessionRepository
	Teachers   authTeacherRepository
	Audit      auditRecorder
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
	Issuer            string
}

// AuthService provides sign-in, sign-out and account provisioning.
type AuthService struct {
	profiles   authProfileRepository
	institutes authInstituteRepository
	sessions   authSessionRepository
	teachers   authTeacherRepository
	audit      auditRecorder
	validator  *validator.Validate
	logger     *zap.Logger
	config     AuthConfig
	now        func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repos AuthRepositories, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.AccessTokenExpiry <= 0 {
		config.AccessTokenExpiry = 24 * time.Hour
	}
	return &AuthService{
		profiles:   repos.Profiles,
		institutes: repos.Institutes,
		sessions:   repos.Sessions,
		teachers:   repos.Teachers,
		audit:      repos.Audit,
		validator:  validate,
		logger:     logger,
		config:     config,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// SignIn authenticates a profile and opens a server-side session.
// Non-admin profiles may only sign in while their institute is APPROVED.
func (s *AuthService) SignIn(ctx context.Context, req models.SignInRequest) (*models.SignInResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid sign in payload")
	}

	profile, err := s.profiles.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if isNotFound(err) {
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, internalError(err, "failed to fetch profile")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.ErrInvalidCredentials
	}

	if profile.Role != models.RoleAdmin {
		if err := s.ensureApproved(ctx, profile); err != nil {
			return nil, err
		}
	}

	now := s.now()
	sess := &models.Session{
		ID:        uuid.NewString(),
		ProfileID: profile.ID,
		ExpiresAt: now.Add(s.config.AccessTokenExpiry),
		CreatedAt: now,
		IPAddress: req.IP,
		UserAgent: req.UserAgent,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, internalError(err, "failed to open session")
	}

	principal := profile.Principal(sess.ID)
	token, err := s.generateAccessToken(principal, now, sess.ExpiresAt)
	if err != nil {
		return nil, internalError(err, "failed to create access token")
	}

	s.record(ctx, &models.AuditLog{
		UserID:      &profile.ID,
		InstituteID: profile.InstituteID,
		Action:      models.AuditActionLogin,
		Resource:    "auth",
		ResourceID:  &sess.ID,
		IPAddress:   req.IP,
		UserAgent:   req.UserAgent,
	}, map[string]string{"status": "success"})

	return &models.SignInResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.config.AccessTokenExpiry.Seconds()),
		IssuedAt:    now,
		Principal:   principal,
	}, nil
}

func (s *AuthService) ensureApproved(ctx context.Context, profile *models.Profile) error {
	if profile.InstituteID == nil || *profile.InstituteID == "" {
		return appErrors.ErrNoTenant
	}
	institute, err := s.institutes.FindByID(ctx, *profile.InstituteID)
	if err != nil {
		if isNotFound(err) {
			return appErrors.ErrTenantNotApproved
		}
		return internalError(err, "failed to load institute")
	}
	switch institute.Status {
	case models.InstituteStatusApproved:
		return nil
	case models.InstituteStatusRejected:
		return appErrors.Clone(appErrors.ErrTenantNotApproved, "institute registration was rejected")
	default:
		return appErrors.ErrTenantNotApproved
	}
}

// SignOut revokes the caller's session. It succeeds when there is nothing to revoke.
func (s *AuthService) SignOut(ctx context.Context, meta models.SignInRequest) error {
	principal := session.Principal(ctx)
	if principal == nil || principal.SessionID == "" {
		return nil
	}
	if err := s.sessions.Revoke(ctx, principal.SessionID, s.now()); err != nil {
		if isNotFound(err) {
			return nil
		}
		return internalError(err, "failed to revoke session")
	}
	s.record(ctx, &models.AuditLog{
		UserID:     &principal.ID,
		Action:     models.AuditActionLogout,
		Resource:   "auth",
		ResourceID: &principal.SessionID,
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
	}, map[string]string{"status": "logout"})
	return nil
}

// Authenticate resolves a bearer token into the principal it was issued for.
// The token is only honoured while its session is neither revoked nor expired.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.Principal, error) {
	claims, err := s.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	if claims.SessionID == "" {
		return nil, appErrors.Clone(appErrors.ErrNotAuthenticated, "token has no session")
	}
	sess, err := s.sessions.FindByID(ctx, claims.SessionID)
	if err != nil {
		if isNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotAuthenticated, "session not found")
		}
		return nil, internalError(err, "failed to load session")
	}
	if !sess.Active(s.now()) {
		return nil, appErrors.Clone(appErrors.ErrNotAuthenticated, "session expired or revoked")
	}
	return claims.Principal(), nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotAuthenticated.Code, appErrors.ErrNotAuthenticated.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrNotAuthenticated, "invalid token claims")
	}
	return claims, nil
}

// CurrentPrincipal returns the caller attached to ctx.
func (s *AuthService) CurrentPrincipal(ctx context.Context) (*models.Principal, error) {
	return session.Require(ctx)
}

// RegisterInstitute creates a PENDING institute on the FREE plan together with its manager.
func (s *AuthService) RegisterInstitute(ctx context.Context, req models.RegisterInstituteRequest) (*models.RegisterInstituteResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid registration payload")
	}
	if blank(req.InstituteName) || blank(req.ManagerName) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "institute and manager names are required")
	}

	email := normalizeEmail(req.Email)
	if err := s.ensureEmailAvailable(ctx, email); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, internalError(err, "failed to hash password")
	}

	institute := &models.Institute{
		Name:             strings.TrimSpace(req.InstituteName),
		Status:           models.InstituteStatusPending,
		SubscriptionPlan: models.PlanFree,
	}
	manager := &models.Profile{
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(req.ManagerName),
		Role:         models.RoleManager,
	}
	if err := s.institutes.CreateWithManager(ctx, institute, manager); err != nil {
		return nil, internalError(err, "failed to register institute")
	}

	s.logger.Info("institute registered", zap.String("institute_id", institute.ID))
	s.record(ctx, &models.AuditLog{
		UserID:      &manager.ID,
		InstituteID: &institute.ID,
		Action:      models.AuditActionRegister,
		Resource:    "institute",
		ResourceID:  &institute.ID,
	}, map[string]string{"name": institute.Name})

	return &models.RegisterInstituteResponse{Institute: institute, Profile: manager}, nil
}

// ProvisionTeacherAccount creates a TEACHER login linked to an existing teacher record
// of the manager's institute.
func (s *AuthService) ProvisionTeacherAccount(ctx context.Context, req models.ProvisionTeacherAccountRequest) (*models.Profile, error) {
	principal, err := writeScope(ctx, authz.ActionProvisionTeacher)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid teacher account payload")
	}

	teacher, err := s.teachers.FindByID(ctx, principal.TenantID, req.TeacherID)
	if err != nil {
		if isNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, internalError(err, "failed to load teacher")
	}

	email := normalizeEmail(req.Email)
	if err := s.ensureEmailAvailable(ctx, email); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, internalError(err, "failed to hash password")
	}

	tenantID, teacherID := principal.TenantID, teacher.ID
	profile := &models.Profile{
		Email:        email,
		PasswordHash: string(hash),
		Name:         teacher.Name,
		Role:         models.RoleTeacher,
		InstituteID:  &tenantID,
		TeacherID:    &teacherID,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, internalError(err, "failed to create teacher account")
	}

	s.record(ctx, &models.AuditLog{
		UserID:      &principal.ID,
		InstituteID: &tenantID,
		Action:      models.AuditActionCreate,
		Resource:    "profile",
		ResourceID:  &profile.ID,
	}, map[string]string{"teacherId": teacherID})
	return profile, nil
}

func (s *AuthService) ensureEmailAvailable(ctx context.Context, email string) error {
	exists, err := s.profiles.ExistsByEmail(ctx, email)
	if err != nil {
		return internalError(err, "failed to check email")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "email already registered")
	}
	return nil
}

func (s *AuthService) generateAccessToken(principal *models.Principal, issuedAt, expiresAt time.Time) (string, error) {
	claims := &models.JWTClaims{
		UserID:    principal.ID,
		Role:      principal.Role,
		Email:     principal.Email,
		Name:      principal.Name,
		TenantID:  principal.TenantID,
		TeacherID: principal.TeacherID,
		SessionID: principal.SessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        principal.SessionID,
			Issuer:    s.config.Issuer,
			Subject:   principal.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.AccessTokenSecret))
}

func (s *AuthService) record(ctx context.Context, log *models.AuditLog, values map[string]string) {
	if s.audit == nil {
		return
	}
	if values != nil {
		if raw, err := json.Marshal(values); err == nil {
			log.NewValues = raw
		}
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to record audit log", zap.String("action", log.Action), zap.Error(err))
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
