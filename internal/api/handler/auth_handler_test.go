package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/charlieverse/platform/internal/api/middleware"
	"github.com/charlieverse/platform/internal/core/domain"
	"github.com/charlieverse/platform/internal/core/service"
	"github.com/charlieverse/platform/internal/events"
	"github.com/charlieverse/platform/internal/infrastructure/db/memory"
	"github.com/charlieverse/platform/internal/infrastructure/session"
)

var discardLogger = zerolog.Nop()

type authFixture struct {
	handler  *AuthHandler
	sessions session.Store
	echo     *echo.Echo
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	store := memory.NewStore()
	bus := events.NewBus(discardLogger)
	svc := service.NewAuthService(store, nil, bus, nil, "reset-secret", "admin@charlieverse.com", "http://localhost:8080", discardLogger)
	sessions := session.NewMemoryStore(session.DefaultTTL)

	e := echo.New()
	e.Validator = NewValidator()

	return &authFixture{
		handler:  NewAuthHandler(svc, sessions, false),
		sessions: sessions,
		echo:     e,
	}
}

func (f *authFixture) jsonRequest(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return f.echo.NewContext(req, rec), rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	res := &http.Response{Header: rec.Header()}
	for _, c := range res.Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Register
// ---------------------------------------------------------------------------

func TestAuthHandler_Register_CreatesSessionCookie(t *testing.T) {
	f := newAuthFixture(t)

	c, rec := f.jsonRequest(http.MethodPost, "/api/auth/register",
		`{"email":"olive@example.com","password":"secret1","first_name":"Olive"}`)
	if err := f.handler.Register(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusCreated)
	}
	if !strings.Contains(rec.Body.String(), `"olive@example.com"`) {
		t.Errorf("response missing user: %s", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Errorf("response leaks password material: %s", rec.Body.String())
	}

	cookie := sessionCookie(rec)
	if cookie == nil || cookie.Value == "" {
		t.Fatal("expected a session cookie")
	}
	if !cookie.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}
}

func TestAuthHandler_Register_RejectsShortPassword(t *testing.T) {
	f := newAuthFixture(t)

	c, _ := f.jsonRequest(http.MethodPost, "/api/auth/register",
		`{"email":"olive@example.com","password":"abc","first_name":"Olive"}`)
	err := f.handler.Register(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)

	c, _ := f.jsonRequest(http.MethodPost, "/api/auth/register",
		`{"email":"olive@example.com","password":"secret1","first_name":"Olive"}`)
	if err := f.handler.Register(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c, _ = f.jsonRequest(http.MethodPost, "/api/auth/register",
		`{"email":"olive@example.com","password":"secret1","first_name":"Olive"}`)
	if err := f.handler.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Login and Logout
// ---------------------------------------------------------------------------

func TestAuthHandler_Login_Success(t *testing.T) {
	f := newAuthFixture(t)

	c, _ := f.jsonRequest(http.MethodPost, "/api/auth/register",
		`{"email":"olive@example.com","password":"secret1","first_name":"Olive"}`)
	if err := f.handler.Register(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c, rec := f.jsonRequest(http.MethodPost, "/api/auth/login",
		`{"email":"olive@example.com","password":"secret1"}`)
	if err := f.handler.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusOK)
	}
	if sessionCookie(rec) == nil {
		t.Fatal("expected a session cookie")
	}
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	f := newAuthFixture(t)

	c, _ := f.jsonRequest(http.MethodPost, "/api/auth/register",
		`{"email":"olive@example.com","password":"secret1","first_name":"Olive"}`)
	if err := f.handler.Register(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c, _ = f.jsonRequest(http.MethodPost, "/api/auth/login",
		`{"email":"olive@example.com","password":"wrong!!"}`)
	if err := f.handler.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Logout_DestroysSession(t *testing.T) {
	f := newAuthFixture(t)

	c, rec := f.jsonRequest(http.MethodPost, "/api/auth/register",
		`{"email":"olive@example.com","password":"secret1","first_name":"Olive"}`)
	if err := f.handler.Register(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	token := sessionCookie(rec).Value

	c, rec = f.jsonRequest(http.MethodPost, "/api/auth/logout", "")
	c.Request().AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	if err := f.handler.Logout(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.sessions.Get(c.Request().Context(), token); !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("session should be gone, got %v", err)
	}

	cleared := sessionCookie(rec)
	if cleared == nil || cleared.MaxAge != -1 {
		t.Errorf("expected an expired cookie, got %+v", cleared)
	}
}

func TestAuthHandler_Logout_WithoutSessionIsOK(t *testing.T) {
	f := newAuthFixture(t)

	c, rec := f.jsonRequest(http.MethodPost, "/api/auth/logout", "")
	if err := f.handler.Logout(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusOK)
	}
}

// ---------------------------------------------------------------------------
// Me
// ---------------------------------------------------------------------------

func TestAuthHandler_Me_ReturnsPrincipal(t *testing.T) {
	f := newAuthFixture(t)

	c, rec := f.jsonRequest(http.MethodGet, "/api/auth/me", "")
	c.Set(middleware.PrincipalKey, &session.Principal{UserID: "u-1", Email: "olive@example.com", Role: domain.RoleUser})

	if err := f.handler.Me(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"u-1"`) {
		t.Errorf("response missing principal: %s", rec.Body.String())
	}
}

func TestAuthHandler_Me_RequiresPrincipal(t *testing.T) {
	f := newAuthFixture(t)

	c, _ := f.jsonRequest(http.MethodGet, "/api/auth/me", "")
	if err := f.handler.Me(c); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}
