// Package fallback decorates a durable store with silent degradation: when
// the backend fails with anything other than an expected domain outcome, the
// call is logged and redirected to an in-process store so the request still
// succeeds. Data written during degradation is lost on restart; that is an
// accepted tradeoff, flagged to operators through logs and the
// storage_fallback_total metric rather than surfaced to callers.
package fallback

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/charlieverse/platform/internal/api/metrics"
	"github.com/charlieverse/platform/internal/core/domain"
	"github.com/charlieverse/platform/internal/core/ports"
)

// Store wraps a primary durable store with an in-memory fallback.
type Store struct {
	primary  ports.Store
	fallback ports.Store
	log      zerolog.Logger
}

func NewStore(primary, fallback ports.Store, log zerolog.Logger) *Store {
	return &Store{primary: primary, fallback: fallback, log: log}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.primary.Ping(ctx)
}

// degrade reports whether the error means the backend itself failed.
func (s *Store) degrade(op string, err error) bool {
	if err == nil || domain.Expected(err) {
		return false
	}
	metrics.StorageFallbackTotal.WithLabelValues(op).Inc()
	s.log.Warn().Err(err).Str("op", op).Msg("durable store failed, serving from in-memory fallback")
	return true
}

func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.primary.GetUser(ctx, id)
	if s.degrade("get_user", err) {
		return s.fallback.GetUser(ctx, id)
	}
	return u, err
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := s.primary.GetUserByEmail(ctx, email)
	if s.degrade("get_user_by_email", err) {
		return s.fallback.GetUserByEmail(ctx, email)
	}
	return u, err
}

func (s *Store) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	u, err := s.primary.CreateUser(ctx, user)
	if s.degrade("create_user", err) {
		return s.fallback.CreateUser(ctx, user)
	}
	return u, err
}

func (s *Store) UpdateUser(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	u, err := s.primary.UpdateUser(ctx, id, patch)
	if s.degrade("update_user", err) {
		return s.fallback.UpdateUser(ctx, id, patch)
	}
	return u, err
}

func (s *Store) ListUsers(ctx context.Context) ([]*domain.User, error) {
	us, err := s.primary.ListUsers(ctx)
	if s.degrade("list_users", err) {
		return s.fallback.ListUsers(ctx)
	}
	return us, err
}

func (s *Store) CreateProject(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	out, err := s.primary.CreateProject(ctx, p)
	if s.degrade("create_project", err) {
		return s.fallback.CreateProject(ctx, p)
	}
	return out, err
}

func (s *Store) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	out, err := s.primary.GetProject(ctx, id)
	if s.degrade("get_project", err) {
		return s.fallback.GetProject(ctx, id)
	}
	return out, err
}

func (s *Store) ListProjectsByOwner(ctx context.Context, userID string) ([]*domain.Project, error) {
	out, err := s.primary.ListProjectsByOwner(ctx, userID)
	if s.degrade("list_projects_by_owner", err) {
		return s.fallback.ListProjectsByOwner(ctx, userID)
	}
	return out, err
}

func (s *Store) ListAllProjects(ctx context.Context) ([]*domain.Project, error) {
	out, err := s.primary.ListAllProjects(ctx)
	if s.degrade("list_all_projects", err) {
		return s.fallback.ListAllProjects(ctx)
	}
	return out, err
}

func (s *Store) UpdateProjectStatus(ctx context.Context, id string, status domain.ProjectStatus, patch domain.ProjectPatch) (*domain.Project, error) {
	out, err := s.primary.UpdateProjectStatus(ctx, id, status, patch)
	if s.degrade("update_project_status", err) {
		return s.fallback.UpdateProjectStatus(ctx, id, status, patch)
	}
	return out, err
}

func (s *Store) AddProjectUpdate(ctx context.Context, u *domain.ProjectUpdate) (*domain.ProjectUpdate, error) {
	out, err := s.primary.AddProjectUpdate(ctx, u)
	if s.degrade("add_project_update", err) {
		return s.fallback.AddProjectUpdate(ctx, u)
	}
	return out, err
}

func (s *Store) ListProjectUpdates(ctx context.Context, projectID string) ([]*domain.ProjectUpdate, error) {
	out, err := s.primary.ListProjectUpdates(ctx, projectID)
	if s.degrade("list_project_updates", err) {
		return s.fallback.ListProjectUpdates(ctx, projectID)
	}
	return out, err
}

func (s *Store) CreateContactMessage(ctx context.Context, m *domain.ContactMessage) (*domain.ContactMessage, error) {
	out, err := s.primary.CreateContactMessage(ctx, m)
	if s.degrade("create_contact_message", err) {
		return s.fallback.CreateContactMessage(ctx, m)
	}
	return out, err
}

func (s *Store) ListContactMessages(ctx context.Context) ([]*domain.ContactMessage, error) {
	out, err := s.primary.ListContactMessages(ctx)
	if s.degrade("list_contact_messages", err) {
		return s.fallback.ListContactMessages(ctx)
	}
	return out, err
}

func (s *Store) UpdateContactStatus(ctx context.Context, id string, status domain.ContactStatus, adminNotes string) (*domain.ContactMessage, error) {
	out, err := s.primary.UpdateContactStatus(ctx, id, status, adminNotes)
	if s.degrade("update_contact_status", err) {
		return s.fallback.UpdateContactStatus(ctx, id, status, adminNotes)
	}
	return out, err
}
