package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/charlieverse/platform/internal/core/domain"
)

func advancingClock(store *Store) {
	tick := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	})
}

func TestStore_CreateUser_Defaults(t *testing.T) {
	store := NewStore()

	user, err := store.CreateUser(context.Background(), &domain.User{Email: "a@example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID == "" {
		t.Error("expected an assigned id")
	}
	if user.Role != domain.RoleUser {
		t.Errorf("expected default role user, got %q", user.Role)
	}
	if !user.IsActive {
		t.Error("expected new users active")
	}
	if user.CreatedAt.IsZero() || user.UpdatedAt.IsZero() {
		t.Error("timestamps must be stamped")
	}
}

func TestStore_CreateUser_DuplicateEmail(t *testing.T) {
	store := NewStore()
	_, _ = store.CreateUser(context.Background(), &domain.User{Email: "a@example.com"})

	_, err := store.CreateUser(context.Background(), &domain.User{Email: "a@example.com"})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestStore_ListUsers_NewestFirst(t *testing.T) {
	store := NewStore()
	advancingClock(store)

	_, _ = store.CreateUser(context.Background(), &domain.User{Email: "first@example.com"})
	_, _ = store.CreateUser(context.Background(), &domain.User{Email: "second@example.com"})

	users, err := store.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].Email != "second@example.com" {
		t.Errorf("expected newest first, got %q", users[0].Email)
	}
}

func TestStore_UpdateUser_AppliesOnlySetFields(t *testing.T) {
	store := NewStore()
	user, _ := store.CreateUser(context.Background(), &domain.User{
		Email:     "a@example.com",
		FirstName: "Ada",
		Phone:     "111",
	})

	newPhone := "222"
	updated, err := store.UpdateUser(context.Background(), user.ID, domain.UserPatch{Phone: &newPhone})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Phone != "222" {
		t.Errorf("phone not updated: %q", updated.Phone)
	}
	if updated.FirstName != "Ada" {
		t.Errorf("unset field must survive, got %q", updated.FirstName)
	}
}

func TestStore_CreateProject_Defaults(t *testing.T) {
	store := NewStore()

	p, err := store.CreateProject(context.Background(), &domain.Project{UserID: "u1", Title: "T"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != domain.StatusPending {
		t.Errorf("expected pending, got %q", p.Status)
	}
	if p.Priority != domain.PriorityMedium {
		t.Errorf("expected medium priority, got %q", p.Priority)
	}
	if p.ContactMethod != "email" {
		t.Errorf("expected email contact method, got %q", p.ContactMethod)
	}
}

func TestStore_UpdateProjectStatus_CompletedAtOnlyOnCompleted(t *testing.T) {
	store := NewStore()
	advancingClock(store)
	p, _ := store.CreateProject(context.Background(), &domain.Project{UserID: "u1", Title: "T"})

	p, err := store.UpdateProjectStatus(context.Background(), p.ID, domain.StatusInProgress, domain.ProjectPatch{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.CompletedAt != nil {
		t.Error("CompletedAt must be nil before completion")
	}

	p, _ = store.UpdateProjectStatus(context.Background(), p.ID, domain.StatusCompleted, domain.ProjectPatch{})
	if p.CompletedAt == nil {
		t.Fatal("CompletedAt must be set on completion")
	}
	if !p.UpdatedAt.Equal(*p.CompletedAt) {
		t.Errorf("CompletedAt should match the transition time, got %v vs %v", p.CompletedAt, p.UpdatedAt)
	}
}

func TestStore_UpdateProjectStatus_AppliesPatch(t *testing.T) {
	store := NewStore()
	p, _ := store.CreateProject(context.Background(), &domain.Project{UserID: "u1", Title: "T"})

	cost := 4200.0
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	p, err := store.UpdateProjectStatus(context.Background(), p.ID, domain.StatusApproved, domain.ProjectPatch{
		EstimatedCost: &cost,
		StartDate:     &start,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.EstimatedCost != 4200 {
		t.Errorf("estimated cost not applied: %v", p.EstimatedCost)
	}
	if p.StartDate == nil || !p.StartDate.Equal(start) {
		t.Errorf("start date not applied: %v", p.StartDate)
	}
}

func TestStore_ListProjectsByOwner_Scoped(t *testing.T) {
	store := NewStore()
	_, _ = store.CreateProject(context.Background(), &domain.Project{UserID: "u1", Title: "A"})
	_, _ = store.CreateProject(context.Background(), &domain.Project{UserID: "u2", Title: "B"})

	projects, err := store.ListProjectsByOwner(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(projects) != 1 || projects[0].Title != "A" {
		t.Fatalf("expected only u1's project, got %d", len(projects))
	}
}

func TestStore_AddProjectUpdate_UnknownProject(t *testing.T) {
	store := NewStore()

	_, err := store.AddProjectUpdate(context.Background(), &domain.ProjectUpdate{ProjectID: "missing", Title: "U"})
	if !errors.Is(err, domain.ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestStore_Clones_AreIsolated(t *testing.T) {
	store := NewStore()
	created, _ := store.CreateUser(context.Background(), &domain.User{Email: "a@example.com"})

	// Mutating a returned value must not leak into the store.
	created.Email = "hacked@example.com"

	stored, _ := store.GetUser(context.Background(), created.ID)
	if stored.Email != "a@example.com" {
		t.Errorf("store must hand out clones, got %q", stored.Email)
	}
}

func TestStore_UpdateContactStatus_RepliedAt(t *testing.T) {
	store := NewStore()
	msg, _ := store.CreateContactMessage(context.Background(), &domain.ContactMessage{
		Name: "V", Email: "v@example.com", Message: "hi",
	})
	if msg.Status != domain.ContactNew {
		t.Fatalf("expected new, got %q", msg.Status)
	}

	msg, err := store.UpdateContactStatus(context.Background(), msg.ID, domain.ContactReplied, "done")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.RepliedAt == nil {
		t.Error("RepliedAt must be stamped on replied")
	}
}
