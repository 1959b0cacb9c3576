package ports

import (
	"context"

	"github.com/charlieverse/platform/internal/core/domain"
)

// CreateProjectInput carries a quote/project request from a client.
type CreateProjectInput struct {
	UserID        string
	Title         string
	Description   string
	ProjectType   string
	Budget        string
	Timeline      string
	ContactMethod string
}

// SetStatusInput carries an admin-initiated status transition.
type SetStatusInput struct {
	ProjectID string
	ActorID   string
	ActorRole string
	Status    domain.ProjectStatus
	Message   string
	Patch     domain.ProjectPatch
}

// AddUpdateInput carries an admin annotation on a project.
type AddUpdateInput struct {
	ProjectID   string
	ActorID     string
	ActorRole   string
	Title       string
	Description string
	Status      domain.ProjectStatus
}

// ProjectWithOwner joins a project with its owning user for the admin view.
type ProjectWithOwner struct {
	Project *domain.Project `json:"project"`
	Owner   *domain.User    `json:"owner,omitempty"`
}

// ProjectService defines the project lifecycle use cases.
type ProjectService interface {
	Create(ctx context.Context, in CreateProjectInput) (*domain.Project, error)
	Get(ctx context.Context, id, callerID, callerRole string) (*domain.Project, error)
	ListOwn(ctx context.Context, userID string) ([]*domain.Project, error)
	ListAllWithOwners(ctx context.Context) ([]ProjectWithOwner, error)
	SetStatus(ctx context.Context, in SetStatusInput) (*domain.Project, error)
	AddUpdate(ctx context.Context, in AddUpdateInput) (*domain.ProjectUpdate, error)
	ListUpdates(ctx context.Context, projectID string) ([]*domain.ProjectUpdate, error)
}
