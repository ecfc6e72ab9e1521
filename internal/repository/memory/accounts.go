package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/eduflow-api/internal/models"
)

// InstituteRepository serves institutes from the store.
type InstituteRepository struct{ s *Store }

// NewInstituteRepository constructs an InstituteRepository.
func NewInstituteRepository(s *Store) *InstituteRepository { return &InstituteRepository{s: s} }

// List returns every institute, newest first.
func (r *InstituteRepository) List(ctx context.Context) ([]models.Institute, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := append([]models.Institute{}, r.s.institutes...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// FindByID fetches an institute.
func (r *InstituteRepository) FindByID(ctx context.Context, id string) (*models.Institute, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, inst := range r.s.institutes {
		if inst.ID == id {
			found := inst
			return &found, nil
		}
	}
	return nil, notFound()
}

// CreateWithManager inserts the institute and its manager atomically.
func (r *InstituteRepository) CreateWithManager(ctx context.Context, institute *models.Institute, manager *models.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.emailTaken(manager.Email) {
		return ErrDuplicate
	}
	now := time.Now().UTC()
	if institute.ID == "" {
		institute.ID = uuid.NewString()
	}
	if manager.ID == "" {
		manager.ID = uuid.NewString()
	}
	institute.CreatedAt, institute.UpdatedAt = now, now
	manager.CreatedAt, manager.UpdatedAt = now, now
	manager.InstituteID = &institute.ID

	r.s.institutes = append(r.s.institutes, *institute)
	r.s.profiles = append(r.s.profiles, cloneProfile(*manager))
	return nil
}

// UpdateStatus moves an institute from one status to another.
func (r *InstituteRepository) UpdateStatus(ctx context.Context, id string, from, to models.InstituteStatus) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.institutes {
		if r.s.institutes[i].ID == id && r.s.institutes[i].Status == from {
			r.s.institutes[i].Status = to
			r.s.institutes[i].UpdatedAt = time.Now().UTC()
			return true, nil
		}
	}
	return false, nil
}

// UpdateName renames an institute.
func (r *InstituteRepository) UpdateName(ctx context.Context, id, name string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.institutes {
		if r.s.institutes[i].ID == id {
			r.s.institutes[i].Name = name
			r.s.institutes[i].UpdatedAt = time.Now().UTC()
		}
	}
	return nil
}

// ProfileRepository serves sign-in accounts.
type ProfileRepository struct{ s *Store }

// NewProfileRepository constructs a ProfileRepository.
func NewProfileRepository(s *Store) *ProfileRepository { return &ProfileRepository{s: s} }

// FindByEmail fetches a profile by case-insensitive e-mail.
func (r *ProfileRepository) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.profiles {
		if strings.EqualFold(p.Email, email) {
			found := cloneProfile(p)
			return &found, nil
		}
	}
	return nil, notFound()
}

// FindByID fetches a profile by id.
func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*models.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.profiles {
		if p.ID == id {
			found := cloneProfile(p)
			return &found, nil
		}
	}
	return nil, notFound()
}

// ExistsByEmail reports whether the e-mail is registered.
func (r *ProfileRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.emailTaken(email), nil
}

// Create inserts a profile.
func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.emailTaken(profile.Email) {
		return ErrDuplicate
	}
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	profile.CreatedAt, profile.UpdatedAt = now, now
	r.s.profiles = append(r.s.profiles, cloneProfile(*profile))
	return nil
}

func (s *Store) emailTaken(email string) bool {
	for _, p := range s.profiles {
		if strings.EqualFold(p.Email, email) {
			return true
		}
	}
	return false
}

// SessionRepository serves sessions.
type SessionRepository struct{ s *Store }

// NewSessionRepository constructs a SessionRepository.
func NewSessionRepository(s *Store) *SessionRepository { return &SessionRepository{s: s} }

// Create stores a session.
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	r.s.sessions[session.ID] = *session
	return nil
}

// FindByID fetches a session.
func (r *SessionRepository) FindByID(ctx context.Context, id string) (*models.Session, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	session, ok := r.s.sessions[id]
	if !ok {
		return nil, notFound()
	}
	return &session, nil
}

// Revoke marks a session revoked once.
func (r *SessionRepository) Revoke(ctx context.Context, id string, revokedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if session, ok := r.s.sessions[id]; ok && session.RevokedAt == nil {
		session.RevokedAt = &revokedAt
		r.s.sessions[id] = session
	}
	return nil
}

// AuditRepository appends audit entries.
type AuditRepository struct{ s *Store }

// NewAuditRepository constructs an AuditRepository.
func NewAuditRepository(s *Store) *AuditRepository { return &AuditRepository{s: s} }

// CreateAuditLog appends an entry.
func (r *AuditRepository) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	r.s.audit = append(r.s.audit, *log)
	return nil
}

// Entries returns a copy of the audit trail.
func (r *AuditRepository) Entries() []models.AuditLog {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return append([]models.AuditLog{}, r.s.audit...)
}
