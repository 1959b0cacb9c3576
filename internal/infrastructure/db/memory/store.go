// Package memory implements the persistence gateway on process-local maps.
// It is both the generic test double for the storage interface and the
// degradation target the fallback decorator redirects to when a durable
// backend is unreachable. Data does not survive a restart.
package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/charlieverse/platform/internal/core/domain"
)

// Store is a mutex-guarded map store. Safe for concurrent handlers.
type Store struct {
	mu       sync.RWMutex
	users    map[string]*domain.User
	projects map[string]*domain.Project
	updates  map[string]*domain.ProjectUpdate
	contacts map[string]*domain.ContactMessage
	nextID   int64
	now      func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users:    make(map[string]*domain.User),
		projects: make(map[string]*domain.Project),
		updates:  make(map[string]*domain.ProjectUpdate),
		contacts: make(map[string]*domain.ContactMessage),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the store's clock. Intended for tests.
func (s *Store) SetClock(now func() time.Time) { s.now = now }

func (s *Store) newID() string {
	s.nextID++
	return strconv.FormatInt(s.nextID, 10)
}

func (s *Store) Ping(context.Context) error { return nil }

// ── Users ─────────────────────────────────────────────────────────────────────

func (s *Store) GetUser(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *Store) CreateUser(_ context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	clone := *user
	clone.ID = s.newID()
	if clone.Role == "" {
		clone.Role = domain.RoleUser
	}
	clone.IsActive = true
	now := s.now()
	clone.CreatedAt = now
	clone.UpdatedAt = now
	s.users[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (s *Store) UpdateUser(_ context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	applyUserPatch(u, patch)
	u.UpdatedAt = s.now()
	clone := *u
	return &clone, nil
}

func applyUserPatch(u *domain.User, patch domain.UserPatch) {
	if patch.PasswordHash != nil {
		u.PasswordHash = *patch.PasswordHash
	}
	if patch.FirstName != nil {
		u.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		u.LastName = *patch.LastName
	}
	if patch.Phone != nil {
		u.Phone = *patch.Phone
	}
	if patch.Company != nil {
		u.Company = *patch.Company
	}
	if patch.Bio != nil {
		u.Bio = *patch.Bio
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	if patch.FirebaseUID != nil {
		u.FirebaseUID = *patch.FirebaseUID
	}
	if patch.IsActive != nil {
		u.IsActive = *patch.IsActive
	}
}

func (s *Store) ListUsers(_ context.Context) ([]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		clone := *u
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ── Projects ──────────────────────────────────────────────────────────────────

func (s *Store) CreateProject(_ context.Context, p *domain.Project) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *p
	clone.ID = s.newID()
	if clone.Status == "" {
		clone.Status = domain.StatusPending
	}
	if clone.Priority == "" {
		clone.Priority = domain.PriorityMedium
	}
	if clone.ContactMethod == "" {
		clone.ContactMethod = "email"
	}
	now := s.now()
	clone.CreatedAt = now
	clone.UpdatedAt = now
	s.projects[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (s *Store) GetProject(_ context.Context, id string) (*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	clone := *p
	return &clone, nil
}

func (s *Store) ListProjectsByOwner(_ context.Context, userID string) ([]*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Project
	for _, p := range s.projects {
		if p.UserID == userID {
			clone := *p
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) ListAllProjects(_ context.Context) ([]*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Project, 0, len(s.projects))
	for _, p := range s.projects {
		clone := *p
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) UpdateProjectStatus(_ context.Context, id string, status domain.ProjectStatus, patch domain.ProjectPatch) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	now := s.now()
	p.Status = status
	if status == domain.StatusCompleted {
		p.CompletedAt = &now
	}
	if patch.EstimatedCost != nil {
		p.EstimatedCost = *patch.EstimatedCost
	}
	if patch.ActualCost != nil {
		p.ActualCost = *patch.ActualCost
	}
	if patch.StartDate != nil {
		p.StartDate = patch.StartDate
	}
	if patch.EndDate != nil {
		p.EndDate = patch.EndDate
	}
	p.UpdatedAt = now
	clone := *p
	return &clone, nil
}

func (s *Store) AddProjectUpdate(_ context.Context, u *domain.ProjectUpdate) (*domain.ProjectUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[u.ProjectID]; !ok {
		return nil, domain.ErrProjectNotFound
	}
	clone := *u
	clone.ID = s.newID()
	clone.CreatedAt = s.now()
	s.updates[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (s *Store) ListProjectUpdates(_ context.Context, projectID string) ([]*domain.ProjectUpdate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.ProjectUpdate
	for _, u := range s.updates {
		if u.ProjectID == projectID {
			clone := *u
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ── Contact messages ──────────────────────────────────────────────────────────

func (s *Store) CreateContactMessage(_ context.Context, m *domain.ContactMessage) (*domain.ContactMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *m
	clone.ID = s.newID()
	if clone.Status == "" {
		clone.Status = domain.ContactNew
	}
	clone.CreatedAt = s.now()
	s.contacts[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (s *Store) ListContactMessages(_ context.Context) ([]*domain.ContactMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.ContactMessage, 0, len(s.contacts))
	for _, m := range s.contacts {
		clone := *m
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) UpdateContactStatus(_ context.Context, id string, status domain.ContactStatus, adminNotes string) (*domain.ContactMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.contacts[id]
	if !ok {
		return nil, domain.ErrContactNotFound
	}
	m.Status = status
	if adminNotes != "" {
		m.AdminNotes = adminNotes
	}
	if status == domain.ContactReplied && m.RepliedAt == nil {
		now := s.now()
		m.RepliedAt = &now
	}
	clone := *m
	return &clone, nil
}
