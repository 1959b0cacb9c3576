package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/charlieverse/platform/internal/api/metrics"
	"github.com/charlieverse/platform/internal/core/domain"
	"github.com/charlieverse/platform/internal/core/ports"
	"github.com/charlieverse/platform/internal/events"
)

// ProjectService implements the project lifecycle use cases.
type ProjectService struct {
	store  ports.Store
	bus    *events.Bus
	logger zerolog.Logger
}

func NewProjectService(store ports.Store, bus *events.Bus, logger zerolog.Logger) *ProjectService {
	return &ProjectService{store: store, bus: bus, logger: logger}
}

// Create records a new project request for the caller and notifies admins.
func (s *ProjectService) Create(ctx context.Context, in ports.CreateProjectInput) (*domain.Project, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}

	project := &domain.Project{
		UserID:        in.UserID,
		Title:         in.Title,
		Description:   in.Description,
		ProjectType:   in.ProjectType,
		Budget:        in.Budget,
		Timeline:      in.Timeline,
		ContactMethod: in.ContactMethod,
	}

	created, err := s.store.CreateProject(ctx, project)
	if err != nil {
		return nil, err
	}

	metrics.ProjectsCreatedTotal.WithLabelValues(created.ProjectType).Inc()
	s.logger.Info().Str("project_id", created.ID).Str("user_id", created.UserID).Str("title", created.Title).Msg("project created")

	owner, _ := s.store.GetUser(ctx, created.UserID)
	s.publish(events.Event{
		Type:      events.ProjectCreated,
		At:        time.Now().UTC(),
		ProjectID: created.ID,
		OwnerID:   created.UserID,
		Title:     created.Title,
		Status:    string(created.Status),
		Data: map[string]any{
			"project_type": created.ProjectType,
			"budget":       created.Budget,
		},
	}, owner)

	return created, nil
}

// Get returns a project visible to the caller: its owner or any admin.
func (s *ProjectService) Get(ctx context.Context, id, callerID, callerRole string) (*domain.Project, error) {
	project, err := s.store.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := domain.Authorize(callerRole, callerID, domain.ActionViewProject, project.UserID); err != nil {
		return nil, err
	}
	return project, nil
}

// ListOwn returns the caller's projects, newest first.
func (s *ProjectService) ListOwn(ctx context.Context, userID string) ([]*domain.Project, error) {
	return s.store.ListProjectsByOwner(ctx, userID)
}

// ListAllWithOwners returns every project joined with its owner for the
// admin dashboard. A missing owner leaves the field nil rather than
// failing the whole list.
func (s *ProjectService) ListAllWithOwners(ctx context.Context) ([]ports.ProjectWithOwner, error) {
	projects, err := s.store.ListAllProjects(ctx)
	if err != nil {
		return nil, err
	}

	owners := make(map[string]*domain.User)
	out := make([]ports.ProjectWithOwner, 0, len(projects))
	for _, p := range projects {
		owner, ok := owners[p.UserID]
		if !ok {
			owner, _ = s.store.GetUser(ctx, p.UserID)
			owners[p.UserID] = owner
		}
		out = append(out, ports.ProjectWithOwner{Project: p, Owner: owner})
	}
	return out, nil
}

// SetStatus applies an admin status transition, persists any cost/schedule
// patch with it, and notifies the owner.
func (s *ProjectService) SetStatus(ctx context.Context, in ports.SetStatusInput) (*domain.Project, error) {
	if err := domain.Authorize(in.ActorRole, in.ActorID, domain.ActionTransitionState, ""); err != nil {
		return nil, err
	}
	if !in.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, in.Status)
	}

	updated, err := s.store.UpdateProjectStatus(ctx, in.ProjectID, in.Status, in.Patch)
	if err != nil {
		return nil, err
	}

	metrics.StatusTransitionsTotal.WithLabelValues(string(in.Status)).Inc()
	s.logger.Info().Str("project_id", updated.ID).Str("status", string(updated.Status)).Str("actor_id", in.ActorID).Msg("project status changed")

	message := in.Message
	if message == "" {
		message = "Project status updated to " + string(in.Status)
	}
	owner, _ := s.store.GetUser(ctx, updated.UserID)
	s.publish(events.Event{
		Type:      events.ProjectStatusChanged,
		At:        time.Now().UTC(),
		ProjectID: updated.ID,
		OwnerID:   updated.UserID,
		Title:     updated.Title,
		Status:    string(updated.Status),
		Message:   message,
	}, owner)

	return updated, nil
}

// AddUpdate appends an admin annotation to a project's update feed.
func (s *ProjectService) AddUpdate(ctx context.Context, in ports.AddUpdateInput) (*domain.ProjectUpdate, error) {
	if err := domain.Authorize(in.ActorRole, in.ActorID, domain.ActionAnnotateProject, ""); err != nil {
		return nil, err
	}
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if in.Status != "" && !in.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, in.Status)
	}
	if _, err := s.store.GetProject(ctx, in.ProjectID); err != nil {
		return nil, err
	}

	return s.store.AddProjectUpdate(ctx, &domain.ProjectUpdate{
		ProjectID:   in.ProjectID,
		UserID:      in.ActorID,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
	})
}

// ListUpdates returns a project's annotations, newest first.
func (s *ProjectService) ListUpdates(ctx context.Context, projectID string) ([]*domain.ProjectUpdate, error) {
	if _, err := s.store.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	return s.store.ListProjectUpdates(ctx, projectID)
}

func (s *ProjectService) publish(e events.Event, owner *domain.User) {
	if s.bus == nil {
		return
	}
	if owner != nil {
		e.OwnerEmail = owner.Email
		e.OwnerName = owner.FirstName
	}
	s.bus.Publish(e)
}
