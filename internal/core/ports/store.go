package ports

import (
	"context"

	"github.com/charlieverse/platform/internal/core/domain"
)

// UserStore defines persistence operations for users. Create assigns a fresh
// id, defaults role to "user" and active to true, and stamps timestamps.
// List results are ordered newest-created first.
type UserStore interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
}

// ProjectStore defines persistence operations for projects and their
// append-only updates. Create defaults status to pending, priority to medium
// and contact method to email. UpdateProjectStatus sets CompletedAt as a side
// effect when the new status is completed. Lists are newest-first.
type ProjectStore interface {
	CreateProject(ctx context.Context, p *domain.Project) (*domain.Project, error)
	GetProject(ctx context.Context, id string) (*domain.Project, error)
	ListProjectsByOwner(ctx context.Context, userID string) ([]*domain.Project, error)
	ListAllProjects(ctx context.Context) ([]*domain.Project, error)
	UpdateProjectStatus(ctx context.Context, id string, status domain.ProjectStatus, patch domain.ProjectPatch) (*domain.Project, error)
	AddProjectUpdate(ctx context.Context, u *domain.ProjectUpdate) (*domain.ProjectUpdate, error)
	ListProjectUpdates(ctx context.Context, projectID string) ([]*domain.ProjectUpdate, error)
}

// ContactStore defines persistence operations for contact messages.
type ContactStore interface {
	CreateContactMessage(ctx context.Context, m *domain.ContactMessage) (*domain.ContactMessage, error)
	ListContactMessages(ctx context.Context) ([]*domain.ContactMessage, error)
	UpdateContactStatus(ctx context.Context, id string, status domain.ContactStatus, adminNotes string) (*domain.ContactMessage, error)
}

// Store is the uniform persistence gateway the services depend on.
type Store interface {
	UserStore
	ProjectStore
	ContactStore

	// Ping reports whether the underlying backend is reachable. The memory
	// store always answers nil.
	Ping(ctx context.Context) error
}
