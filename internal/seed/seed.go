// Package seed provisions the initial admin account at startup.
package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/charlieverse/platform/internal/core/domain"
	"github.com/charlieverse/platform/internal/core/ports"
)

// Admin ensures an admin account exists for the configured email. Existing
// accounts are left untouched so a changed password env var never clobbers a
// live credential.
func Admin(ctx context.Context, store ports.Store, email, password string, log zerolog.Logger) error {
	if email == "" || password == "" {
		return nil
	}

	if _, err := store.GetUserByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin, err := store.CreateUser(ctx, &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    "Admin",
		LastName:     "User",
		Role:         domain.RoleAdmin,
	})
	if err != nil {
		return err
	}

	log.Info().Str("user_id", admin.ID).Str("email", admin.Email).Msg("seeded admin account")
	return nil
}
