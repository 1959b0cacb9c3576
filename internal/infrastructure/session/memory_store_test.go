package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

func testPrincipal() Principal {
	return Principal{
		UserID:    "u-1",
		Email:     "olive@example.com",
		FirstName: "Olive",
		Role:      "user",
	}
}

func TestMemoryStore_CreateAndGet(t *testing.T) {
	store := NewMemoryStore(DefaultTTL)

	token, err := store.Create(context.Background(), testPrincipal())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}

	got, err := store.Get(context.Background(), token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.UserID != "u-1" || got.Email != "olive@example.com" {
		t.Errorf("wrong principal: %+v", got)
	}
}

func TestMemoryStore_Get_UnknownToken(t *testing.T) {
	store := NewMemoryStore(DefaultTTL)

	_, err := store.Get(context.Background(), "nope")
	if !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestMemoryStore_Get_Expired(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return now })

	token, _ := store.Create(context.Background(), testPrincipal())

	now = now.Add(2 * time.Hour)
	if _, err := store.Get(context.Background(), token); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after expiry, got %v", err)
	}
}

func TestMemoryStore_Get_SlidesExpiry(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return now })

	token, _ := store.Create(context.Background(), testPrincipal())

	// Touch the session shortly before it would expire, then step past the
	// original deadline. The touch must have extended it.
	now = now.Add(50 * time.Minute)
	if _, err := store.Get(context.Background(), token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	now = now.Add(30 * time.Minute)
	if _, err := store.Get(context.Background(), token); err != nil {
		t.Fatalf("session should have slid forward: %v", err)
	}
}

func TestMemoryStore_Destroy(t *testing.T) {
	store := NewMemoryStore(DefaultTTL)

	token, _ := store.Create(context.Background(), testPrincipal())
	if err := store.Destroy(context.Background(), token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.Get(context.Background(), token); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after destroy, got %v", err)
	}

	// Destroying an unknown token is a no-op.
	if err := store.Destroy(context.Background(), "nope"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
