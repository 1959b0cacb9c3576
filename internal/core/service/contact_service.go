package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/charlieverse/platform/internal/core/domain"
	"github.com/charlieverse/platform/internal/core/ports"
	"github.com/charlieverse/platform/internal/events"
)

// ContactService handles public contact-form submissions and admin triage.
type ContactService struct {
	store  ports.Store
	bus    *events.Bus
	logger zerolog.Logger
}

func NewContactService(store ports.Store, bus *events.Bus, logger zerolog.Logger) *ContactService {
	return &ContactService{store: store, bus: bus, logger: logger}
}

// Submit records an inquiry from the public form and notifies admins.
func (s *ContactService) Submit(ctx context.Context, in ports.SubmitContactInput) (*domain.ContactMessage, error) {
	if in.Name == "" || in.Email == "" || in.Message == "" {
		return nil, fmt.Errorf("%w: name, email and message are required", domain.ErrValidation)
	}

	created, err := s.store.CreateContactMessage(ctx, &domain.ContactMessage{
		Name:        in.Name,
		Email:       normalizeEmail(in.Email),
		Phone:       in.Phone,
		ProjectType: in.ProjectType,
		Message:     in.Message,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("contact_id", created.ID).Str("email", created.Email).Msg("contact message received")
	if s.bus != nil {
		s.bus.Publish(events.Event{
			Type:    events.ContactReceived,
			At:      time.Now().UTC(),
			Title:   created.ProjectType,
			Message: created.Message,
			Data: map[string]any{
				"name":         created.Name,
				"email":        created.Email,
				"phone":        created.Phone,
				"project_type": created.ProjectType,
				"message":      created.Message,
			},
		})
	}
	return created, nil
}

// List returns all contact messages, newest first.
func (s *ContactService) List(ctx context.Context) ([]*domain.ContactMessage, error) {
	return s.store.ListContactMessages(ctx)
}

// SetStatus moves a message through the triage states.
func (s *ContactService) SetStatus(ctx context.Context, id string, status domain.ContactStatus, adminNotes string) (*domain.ContactMessage, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}
	return s.store.UpdateContactStatus(ctx, id, status, adminNotes)
}
