package ports

import (
	"context"

	"github.com/charlieverse/platform/internal/core/domain"
)

// RegisterInput carries a local registration request.
type RegisterInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	Phone       string
	Company     string
	Bio         string
	FirebaseUID string
}

// SyncFirebaseInput carries an external-identity assertion. IDToken is
// verified when the Firebase verifier is configured; otherwise the posted
// profile fields are taken at face value.
type SyncFirebaseInput struct {
	IDToken     string
	FirebaseUID string
	Email       string
	DisplayName string
	FirstName   string
	LastName    string
	Phone       string
	Company     string
	Bio         string
}

// AuthService establishes authenticated identities.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	SyncFirebase(ctx context.Context, in SyncFirebaseInput) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, patch domain.UserPatch) (*domain.User, error)

	// ForgotPassword issues a signed reset token for the account and emails it
	// as a reset link. A missing account is not an error to the caller.
	ForgotPassword(ctx context.Context, email string) error
	// ResetPassword validates a reset token and replaces the password hash.
	ResetPassword(ctx context.Context, token, newPassword string) error
}
