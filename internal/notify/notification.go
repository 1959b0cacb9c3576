// Package notify carries state changes to live websocket connections and,
// best-effort, to email. Both legs subscribe to the domain event bus and are
// allowed to fail without affecting the request that emitted the event.
package notify

import "time"

// Notification kinds pushed over the socket channel.
const (
	TypeProjectUpdate = "project_update"
	TypeUserAction    = "user_action"
	TypeAdminAction   = "admin_action"
	TypeSystemAlert   = "system_alert"
)

// Notification is the frame emitted to websocket clients.
type Notification struct {
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	UserID    string         `json:"user_id,omitempty"`
	ProjectID string         `json:"project_id,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}
