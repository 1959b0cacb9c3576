package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/charlieverse/platform/internal/core/domain"
	"github.com/charlieverse/platform/internal/core/ports"
	"github.com/charlieverse/platform/internal/infrastructure/db/memory"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

const testAdminEmail = "admin@charlieverse.com"

type captureMailer struct {
	lastTo   string
	lastLink string
}

func (m *captureMailer) SendPasswordReset(to, _, resetLink string) bool {
	m.lastTo = to
	m.lastLink = resetLink
	return true
}

func newAuthService(store ports.Store, mailer ResetMailer) *AuthService {
	return NewAuthService(store, nil, nil, mailer, "test-reset-secret", testAdminEmail, "http://localhost:8080", discardLogger)
}

func registerInput(email string) ports.RegisterInput {
	return ports.RegisterInput{
		Email:     email,
		Password:  "secret123",
		FirstName: "Charlie",
		LastName:  "Verse",
	}
}

// ---------------------------------------------------------------------------
// Register
// ---------------------------------------------------------------------------

func TestAuthService_Register_FirstUserBecomesAdmin(t *testing.T) {
	svc := newAuthService(memory.NewStore(), nil)

	user, err := svc.Register(context.Background(), registerInput("first@example.com"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Errorf("expected first registered user to be admin, got %q", user.Role)
	}
}

func TestAuthService_Register_DefaultsToUserRole(t *testing.T) {
	svc := newAuthService(memory.NewStore(), nil)
	_, _ = svc.Register(context.Background(), registerInput(testAdminEmail))

	user, err := svc.Register(context.Background(), registerInput("client@example.com"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Errorf("expected role %q, got %q", domain.RoleUser, user.Role)
	}
	if user.ID == "" {
		t.Error("expected an assigned id")
	}
	if user.PasswordHash == "secret123" {
		t.Error("password must be stored hashed")
	}
}

func TestAuthService_Register_AdminEmailGetsAdminRole(t *testing.T) {
	svc := newAuthService(memory.NewStore(), nil)

	user, err := svc.Register(context.Background(), registerInput(testAdminEmail))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Errorf("expected role %q, got %q", domain.RoleAdmin, user.Role)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc := newAuthService(memory.NewStore(), nil)

	if _, err := svc.Register(context.Background(), registerInput("dup@example.com")); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, err := svc.Register(context.Background(), registerInput("dup@example.com"))
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Register_NormalizesEmail(t *testing.T) {
	svc := newAuthService(memory.NewStore(), nil)

	user, err := svc.Register(context.Background(), registerInput("  Mixed@Example.COM "))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "mixed@example.com" {
		t.Errorf("expected normalized email, got %q", user.Email)
	}
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func TestAuthService_Login_Success(t *testing.T) {
	svc := newAuthService(memory.NewStore(), nil)
	_, _ = svc.Register(context.Background(), registerInput("login@example.com"))

	user, err := svc.Login(context.Background(), "login@example.com", "secret123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "login@example.com" {
		t.Errorf("wrong user returned: %q", user.Email)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc := newAuthService(memory.NewStore(), nil)
	_, _ = svc.Register(context.Background(), registerInput("login@example.com"))

	_, err := svc.Login(context.Background(), "login@example.com", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmailSameError(t *testing.T) {
	svc := newAuthService(memory.NewStore(), nil)

	// An unknown account must be indistinguishable from a bad password.
	_, err := svc.Login(context.Background(), "ghost@example.com", "whatever")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_DeactivatedAccount(t *testing.T) {
	store := memory.NewStore()
	svc := newAuthService(store, nil)
	user, _ := svc.Register(context.Background(), registerInput("off@example.com"))

	inactive := false
	if _, err := store.UpdateUser(context.Background(), user.ID, domain.UserPatch{IsActive: &inactive}); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	_, err := svc.Login(context.Background(), "off@example.com", "secret123")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for inactive account, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// SyncFirebase (verifier disabled: posted profile is trusted)
// ---------------------------------------------------------------------------

func TestAuthService_SyncFirebase_ProvisionsNewUser(t *testing.T) {
	svc := newAuthService(memory.NewStore(), nil)

	user, err := svc.SyncFirebase(context.Background(), ports.SyncFirebaseInput{
		FirebaseUID: "fb-123",
		Email:       "new@example.com",
		DisplayName: "New Person",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.FirebaseUID != "fb-123" {
		t.Errorf("firebase uid not stored: %q", user.FirebaseUID)
	}
	if user.FirstName != "New" || user.LastName != "Person" {
		t.Errorf("display name not split: %q %q", user.FirstName, user.LastName)
	}
}

func TestAuthService_SyncFirebase_BackfillsExistingUser(t *testing.T) {
	svc := newAuthService(memory.NewStore(), nil)
	_, _ = svc.Register(context.Background(), registerInput("local@example.com"))

	user, err := svc.SyncFirebase(context.Background(), ports.SyncFirebaseInput{
		FirebaseUID: "fb-999",
		Email:       "local@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.FirebaseUID != "fb-999" {
		t.Errorf("expected FirebaseUID backfilled, got %q", user.FirebaseUID)
	}
	if user.FirstName != "Charlie" {
		t.Errorf("existing profile fields must survive, got %q", user.FirstName)
	}
}

func TestAuthService_SyncFirebase_FirstUserBecomesAdmin(t *testing.T) {
	svc := newAuthService(memory.NewStore(), nil)

	user, err := svc.SyncFirebase(context.Background(), ports.SyncFirebaseInput{
		FirebaseUID: "fb-1",
		Email:       "first@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Errorf("expected first provisioned user to be admin, got %q", user.Role)
	}
}

func TestAuthService_SyncFirebase_AdminEmailGetsAdminRole(t *testing.T) {
	svc := newAuthService(memory.NewStore(), nil)
	_, _ = svc.Register(context.Background(), registerInput("someone@example.com"))

	user, err := svc.SyncFirebase(context.Background(), ports.SyncFirebaseInput{
		FirebaseUID: "fb-2",
		Email:       testAdminEmail,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Errorf("expected role %q, got %q", domain.RoleAdmin, user.Role)
	}
}

func TestAuthService_SyncFirebase_UpgradesExistingAdminEmailAccount(t *testing.T) {
	store := memory.NewStore()
	svc := newAuthService(store, nil)
	_, _ = svc.Register(context.Background(), registerInput("someone@example.com"))

	// An account holding the admin email but demoted to user, as happens when
	// the admin address is configured after the account already exists.
	local, _ := svc.Register(context.Background(), registerInput(testAdminEmail))
	role := domain.RoleUser
	if _, err := store.UpdateUser(context.Background(), local.ID, domain.UserPatch{Role: &role}); err != nil {
		t.Fatalf("demote failed: %v", err)
	}

	user, err := svc.SyncFirebase(context.Background(), ports.SyncFirebaseInput{
		FirebaseUID: "fb-3",
		Email:       testAdminEmail,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Errorf("expected admin role restored on sync, got %q", user.Role)
	}
	if user.ID != local.ID {
		t.Errorf("sync must reuse the existing account, got %q want %q", user.ID, local.ID)
	}
}

func TestAuthService_SyncFirebase_DoesNotTouchOtherRoles(t *testing.T) {
	svc := newAuthService(memory.NewStore(), nil)
	_, _ = svc.Register(context.Background(), registerInput(testAdminEmail))
	_, _ = svc.Register(context.Background(), registerInput("client@example.com"))

	user, err := svc.SyncFirebase(context.Background(), ports.SyncFirebaseInput{
		FirebaseUID: "fb-4",
		Email:       "client@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Errorf("ordinary account must keep role user, got %q", user.Role)
	}
}

func TestAuthService_SyncFirebase_MissingIdentity(t *testing.T) {
	svc := newAuthService(memory.NewStore(), nil)

	_, err := svc.SyncFirebase(context.Background(), ports.SyncFirebaseInput{Email: "only@example.com"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Password reset
// ---------------------------------------------------------------------------

func TestAuthService_PasswordReset_RoundTrip(t *testing.T) {
	store := memory.NewStore()
	mailer := &captureMailer{}
	svc := newAuthService(store, mailer)
	user, _ := svc.Register(context.Background(), registerInput("reset@example.com"))

	if err := svc.ForgotPassword(context.Background(), "reset@example.com"); err != nil {
		t.Fatalf("forgot password failed: %v", err)
	}
	if mailer.lastTo != "reset@example.com" {
		t.Fatalf("reset email not sent to account holder: %q", mailer.lastTo)
	}

	idx := strings.Index(mailer.lastLink, "token=")
	if idx < 0 {
		t.Fatalf("reset link carries no token: %q", mailer.lastLink)
	}
	token := mailer.lastLink[idx+len("token="):]

	if err := svc.ResetPassword(context.Background(), token, "newpass456"); err != nil {
		t.Fatalf("reset password failed: %v", err)
	}

	stored, _ := store.GetUser(context.Background(), user.ID)
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("newpass456")) != nil {
		t.Error("new password not applied")
	}
	if _, err := svc.Login(context.Background(), "reset@example.com", "secret123"); err == nil {
		t.Error("old password must no longer work")
	}
}

func TestAuthService_ForgotPassword_UnknownEmailIsSilent(t *testing.T) {
	mailer := &captureMailer{}
	svc := newAuthService(memory.NewStore(), mailer)

	if err := svc.ForgotPassword(context.Background(), "ghost@example.com"); err != nil {
		t.Fatalf("unknown email must not error: %v", err)
	}
	if mailer.lastTo != "" {
		t.Error("no email should be sent for unknown accounts")
	}
}

func TestAuthService_ResetPassword_RejectsGarbageToken(t *testing.T) {
	svc := newAuthService(memory.NewStore(), nil)

	err := svc.ResetPassword(context.Background(), "not-a-jwt", "newpass456")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
