// Package firebase wraps the Firebase Admin SDK for external-identity
// verification. When no credentials are configured the verifier is nil and
// the sync endpoint degrades to trusting the posted profile.
package firebase

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// Config holds the optional Firebase settings.
type Config struct {
	ProjectID       string
	CredentialsFile string
}

// Identity is the subset of a verified ID token the auth service needs.
type Identity struct {
	UID         string
	Email       string
	DisplayName string
}

// Verifier validates Firebase ID tokens.
type Verifier struct {
	client *auth.Client
}

// NewVerifier initialises the Admin SDK. Returns (nil, nil) when the config
// is incomplete, which callers treat as "verification disabled".
func NewVerifier(ctx context.Context, cfg Config) (*Verifier, error) {
	if cfg.ProjectID == "" || cfg.CredentialsFile == "" {
		return nil, nil
	}

	app, err := firebase.NewApp(ctx,
		&firebase.Config{ProjectID: cfg.ProjectID},
		option.WithCredentialsFile(cfg.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("firebase init: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth client: %w", err)
	}
	return &Verifier{client: client}, nil
}

// Verify validates the ID token and extracts the identity claims.
func (v *Verifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("verify id token: %w", err)
	}

	id := &Identity{UID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		id.Email = email
	}
	if name, ok := token.Claims["name"].(string); ok {
		id.DisplayName = name
	}
	return id, nil
}
