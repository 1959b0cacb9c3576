// Package events carries domain events from the lifecycle handlers to their
// side-effect subscribers (socket push, email). Events are published after
// the state mutation commits; every subscriber is allowed to fail without
// affecting the emitter.
package events

import "time"

// Type names a domain event.
type Type string

const (
	ProjectCreated       Type = "project_created"
	ProjectStatusChanged Type = "project_status_changed"
	UserRegistered       Type = "user_registered"
	FileUploaded         Type = "file_uploaded"
	ContactReceived      Type = "contact_received"
)

// Event is a single post-commit domain event. Not every field is set for
// every type; subscribers read what their event type carries.
type Event struct {
	Type       Type
	At         time.Time
	ProjectID  string
	OwnerID    string
	OwnerEmail string
	OwnerName  string
	Title      string
	Status     string
	Message    string
	Data       map[string]any
}
