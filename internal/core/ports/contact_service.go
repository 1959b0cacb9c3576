package ports

import (
	"context"

	"github.com/charlieverse/platform/internal/core/domain"
)

// SubmitContactInput carries a public contact-form submission.
type SubmitContactInput struct {
	Name        string
	Email       string
	Phone       string
	ProjectType string
	Message     string
}

// ContactService handles inbound inquiries and their admin triage.
type ContactService interface {
	Submit(ctx context.Context, in SubmitContactInput) (*domain.ContactMessage, error)
	List(ctx context.Context) ([]*domain.ContactMessage, error)
	SetStatus(ctx context.Context, id string, status domain.ContactStatus, adminNotes string) (*domain.ContactMessage, error)
}
