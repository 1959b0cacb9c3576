package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/charlieverse/platform/internal/core/domain"
	"github.com/charlieverse/platform/internal/core/service"
	"github.com/charlieverse/platform/internal/infrastructure/db/memory"
)

func TestAnalyticsHandler_Dashboard_ForbiddenForNonAdmin(t *testing.T) {
	h := NewAnalyticsHandler(nil)

	c, _ := adminRequest(t, http.MethodGet, "/api/analytics/dashboard", "", userPrincipal())
	if err := h.Dashboard(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAnalyticsHandler_Dashboard_AdminAllowed(t *testing.T) {
	store := memory.NewStore()
	if _, err := store.CreateUser(context.Background(), &domain.User{Email: "olive@example.com"}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	h := NewAnalyticsHandler(service.NewAnalyticsService(store, discardLogger))

	c, rec := adminRequest(t, http.MethodGet, "/api/analytics/dashboard", "", adminPrincipal())
	if err := h.Dashboard(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "user_stats") {
		t.Errorf("unexpected response %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAnalyticsHandler_Project_ForbiddenForNonAdmin(t *testing.T) {
	h := NewAnalyticsHandler(nil)

	c, _ := adminRequest(t, http.MethodGet, "/api/analytics/projects/:id", "", userPrincipal())
	c.SetParamNames("id")
	c.SetParamValues("p-1")
	if err := h.Project(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
