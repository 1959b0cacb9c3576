package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/charlieverse/platform/internal/core/domain"
	"github.com/charlieverse/platform/internal/core/ports"
	"github.com/charlieverse/platform/internal/events"
	"github.com/charlieverse/platform/internal/infrastructure/firebase"
)

const resetTokenTTL = time.Hour

// ResetMailer is the slice of the mailer the auth service needs.
type ResetMailer interface {
	SendPasswordReset(to, firstName, resetLink string) bool
}

// AuthService implements registration, login, Firebase identity sync and
// password recovery.
type AuthService struct {
	store       ports.Store
	verifier    *firebase.Verifier
	bus         *events.Bus
	mailer      ResetMailer
	resetSecret string
	adminEmail  string
	baseURL     string
	logger      zerolog.Logger
}

func NewAuthService(store ports.Store, verifier *firebase.Verifier, bus *events.Bus, mailer ResetMailer, resetSecret, adminEmail, baseURL string, logger zerolog.Logger) *AuthService {
	return &AuthService{
		store:       store,
		verifier:    verifier,
		bus:         bus,
		mailer:      mailer,
		resetSecret: resetSecret,
		adminEmail:  adminEmail,
		baseURL:     baseURL,
		logger:      logger,
	}
}

// Register creates a local account. The configured admin email always gets
// the admin role; everyone else defaults to user.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	if existing, err := s.store.GetUserByEmail(ctx, email); err == nil && existing != nil {
		return nil, domain.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		Company:      in.Company,
		Bio:          in.Bio,
		Role:         s.resolveRole(ctx, email),
		FirebaseUID:  in.FirebaseUID,
	}

	created, err := s.store.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("email", created.Email).Str("role", created.Role).Msg("user registered")
	s.publishRegistered(created)
	return created, nil
}

// Login verifies credentials. A wrong password and an unknown email are the
// same error to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// SyncFirebase reconciles an external Firebase identity with a local user,
// provisioning the account on first sight. When the verifier is configured
// the posted ID token must validate; otherwise the payload is trusted.
func (s *AuthService) SyncFirebase(ctx context.Context, in ports.SyncFirebaseInput) (*domain.User, error) {
	uid, email, displayName := in.FirebaseUID, normalizeEmail(in.Email), in.DisplayName

	if s.verifier != nil {
		if in.IDToken == "" {
			return nil, fmt.Errorf("%w: id token is required", domain.ErrValidation)
		}
		identity, err := s.verifier.Verify(ctx, in.IDToken)
		if err != nil {
			s.logger.Warn().Err(err).Msg("firebase token rejected")
			return nil, domain.ErrInvalidCredentials
		}
		uid, email, displayName = identity.UID, normalizeEmail(identity.Email), identity.DisplayName
	}
	if uid == "" || email == "" {
		return nil, fmt.Errorf("%w: firebase uid and email are required", domain.ErrValidation)
	}

	firstName, lastName := in.FirstName, in.LastName
	if firstName == "" && displayName != "" {
		firstName, lastName = splitDisplayName(displayName)
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		created, err := s.store.CreateUser(ctx, &domain.User{
			Email:       email,
			FirstName:   firstName,
			LastName:    lastName,
			Phone:       in.Phone,
			Company:     in.Company,
			Bio:         in.Bio,
			Role:        s.resolveRole(ctx, email),
			FirebaseUID: uid,
		})
		if err != nil {
			return nil, err
		}
		s.logger.Info().Str("user_id", created.ID).Str("firebase_uid", uid).Msg("user provisioned from firebase")
		s.publishRegistered(created)
		return created, nil
	}
	if err != nil {
		return nil, err
	}

	patch := domain.UserPatch{}
	if user.FirebaseUID == "" {
		patch.FirebaseUID = &uid
	}
	if user.FirstName == "" && firstName != "" {
		patch.FirstName = &firstName
	}
	if user.LastName == "" && lastName != "" {
		patch.LastName = &lastName
	}
	if user.Role != domain.RoleAdmin && s.adminEmail != "" && email == normalizeEmail(s.adminEmail) {
		admin := domain.RoleAdmin
		patch.Role = &admin
	}
	if patch == (domain.UserPatch{}) {
		return user, nil
	}
	return s.store.UpdateUser(ctx, user.ID, patch)
}

// resolveRole decides the role for a newly provisioned account, whether it
// arrives through local registration or identity sync. The configured admin
// email and the very first account both get admin.
func (s *AuthService) resolveRole(ctx context.Context, email string) string {
	if s.adminEmail != "" && email == normalizeEmail(s.adminEmail) {
		return domain.RoleAdmin
	}
	if existing, err := s.store.ListUsers(ctx); err == nil && len(existing) == 0 {
		return domain.RoleAdmin
	}
	return domain.RoleUser
}

// UpdateProfile applies a partial profile edit to the caller's own account.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, patch domain.UserPatch) (*domain.User, error) {
	return s.store.UpdateUser(ctx, userID, patch)
}

// ForgotPassword issues a one-hour HS256 reset token and mails the link.
// An unknown email returns nil so the endpoint cannot be used to probe
// for accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Info().Str("email", email).Msg("password reset requested for unknown email")
			return nil
		}
		return err
	}

	claims := jwt.MapClaims{
		"sub":     user.ID,
		"email":   user.Email,
		"purpose": "password_reset",
		"exp":     time.Now().Add(resetTokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.resetSecret))
	if err != nil {
		return err
	}

	link := strings.TrimRight(s.baseURL, "/") + "/reset-password?token=" + token
	if s.mailer != nil {
		s.mailer.SendPasswordReset(user.Email, user.FirstName, link)
	}
	s.logger.Info().Str("user_id", user.ID).Msg("password reset token issued")
	return nil
}

// ResetPassword validates the reset token and swaps the password hash.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: new password is required", domain.ErrValidation)
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return []byte(s.resetSecret), nil
	})
	if err != nil || !parsed.Valid {
		return domain.ErrInvalidCredentials
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || claims["purpose"] != "password_reset" {
		return domain.ErrInvalidCredentials
	}
	userID, _ := claims["sub"].(string)
	if userID == "" {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	hashStr := string(hash)
	if _, err := s.store.UpdateUser(ctx, userID, domain.UserPatch{PasswordHash: &hashStr}); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", userID).Msg("password reset completed")
	return nil
}

func (s *AuthService) publishRegistered(u *domain.User) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(events.Event{
		Type:       events.UserRegistered,
		At:         time.Now().UTC(),
		OwnerID:    u.ID,
		OwnerEmail: u.Email,
		OwnerName:  u.FirstName,
		Data:       map[string]any{"role": u.Role},
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func splitDisplayName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
