package notify

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"

	"github.com/charlieverse/platform/internal/events"
)

var discardLogger = zerolog.Nop()

// addClient registers a bare client without a real websocket connection so
// routing can be tested through the send channel alone.
func addClient(h *Hub, userID string, admin bool) *client {
	c := &client{send: make(chan []byte, sendBuffer), userID: userID, admin: admin}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

func receive(t *testing.T, c *client) Notification {
	t.Helper()
	select {
	case raw := <-c.send:
		var n Notification
		if err := json.Unmarshal(raw, &n); err != nil {
			t.Fatalf("bad frame: %v", err)
		}
		return n
	default:
		t.Fatal("no frame queued")
		return Notification{}
	}
}

func assertEmpty(t *testing.T, c *client) {
	t.Helper()
	select {
	case raw := <-c.send:
		t.Fatalf("unexpected frame: %s", raw)
	default:
	}
}

func TestHub_SendToUser_OnlyReachesThatRoom(t *testing.T) {
	h := NewHub(discardLogger)
	owner := addClient(h, "u-1", false)
	other := addClient(h, "u-2", false)

	h.SendToUser("u-1", Notification{Type: TypeProjectUpdate, Message: "approved"})

	if n := receive(t, owner); n.Message != "approved" {
		t.Errorf("wrong frame: %+v", n)
	}
	assertEmpty(t, other)
}

func TestHub_SendToAdmins_SkipsRegularClients(t *testing.T) {
	h := NewHub(discardLogger)
	admin := addClient(h, "a-1", true)
	user := addClient(h, "u-1", false)

	h.SendToAdmins(Notification{Type: TypeUserAction, Message: "new project"})

	if n := receive(t, admin); n.Type != TypeUserAction {
		t.Errorf("wrong frame: %+v", n)
	}
	assertEmpty(t, user)
}

func TestHub_Broadcast_ReachesEveryone(t *testing.T) {
	h := NewHub(discardLogger)
	clients := []*client{addClient(h, "u-1", false), addClient(h, "a-1", true), addClient(h, "", false)}

	h.Broadcast(Notification{Type: TypeSystemAlert, Message: "maintenance"})

	for _, c := range clients {
		if n := receive(t, c); n.Type != TypeSystemAlert {
			t.Errorf("wrong frame: %+v", n)
		}
	}
}

func TestHub_SlowClient_DropsInsteadOfBlocking(t *testing.T) {
	h := NewHub(discardLogger)
	c := &client{send: make(chan []byte), userID: "u-1"}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	// The unbuffered channel has no reader; Send must return anyway.
	h.SendToUser("u-1", Notification{Type: TypeProjectUpdate})
}

func TestHub_IsUserOnline(t *testing.T) {
	h := NewHub(discardLogger)
	addClient(h, "u-1", false)

	if !h.IsUserOnline("u-1") {
		t.Error("u-1 should be online")
	}
	if h.IsUserOnline("u-2") {
		t.Error("u-2 should be offline")
	}
	if got := h.ConnectedCount(); got != 1 {
		t.Errorf("connected count: got %d, want 1", got)
	}
}

// ---------------------------------------------------------------------------
// Event routing
// ---------------------------------------------------------------------------

func TestHub_Handle_StatusChangeGoesToOwnerAndAdmins(t *testing.T) {
	h := NewHub(discardLogger)
	owner := addClient(h, "u-1", false)
	admin := addClient(h, "a-1", true)
	bystander := addClient(h, "u-2", false)

	err := h.Handle(context.Background(), events.Event{
		Type:      events.ProjectStatusChanged,
		OwnerID:   "u-1",
		ProjectID: "p-1",
		Message:   "Project status updated to approved",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n := receive(t, owner); n.Type != TypeProjectUpdate || n.ProjectID != "p-1" {
		t.Errorf("owner frame: %+v", n)
	}
	if n := receive(t, admin); n.Type != TypeProjectUpdate {
		t.Errorf("admin frame: %+v", n)
	}
	assertEmpty(t, bystander)
}

func TestHub_Handle_ProjectCreatedGoesToAdminsOnly(t *testing.T) {
	h := NewHub(discardLogger)
	owner := addClient(h, "u-1", false)
	admin := addClient(h, "a-1", true)

	err := h.Handle(context.Background(), events.Event{
		Type:    events.ProjectCreated,
		OwnerID: "u-1",
		Message: "New project: Website redesign",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n := receive(t, admin); n.Type != TypeUserAction {
		t.Errorf("admin frame: %+v", n)
	}
	assertEmpty(t, owner)
}

// ---------------------------------------------------------------------------
// Mailer
// ---------------------------------------------------------------------------

func TestMailer_Unconfigured_IsANoOp(t *testing.T) {
	m := NewMailer(MailConfig{}, "admin@charlieverse.com", discardLogger)

	if m.Configured() {
		t.Fatal("mailer should be unconfigured")
	}
	if m.Send("olive@example.com", "subject", "<p>hi</p>", "hi") {
		t.Error("Send must report false when unconfigured")
	}
	if m.SendWelcome("olive@example.com", "Olive", "user") {
		t.Error("SendWelcome must report false when unconfigured")
	}
}

func TestMailer_GmailFallback_ConfiguresTransport(t *testing.T) {
	m := NewMailer(MailConfig{GmailUser: "ops@gmail.com", GmailPass: "app-pass"}, "", discardLogger)

	if !m.Configured() {
		t.Fatal("gmail credentials should configure the transport")
	}
	if m.from != "ops@gmail.com" {
		t.Errorf("from: got %q, want the gmail user", m.from)
	}
}

func TestMailer_AdminTemplates_RequireAdminAddress(t *testing.T) {
	m := NewMailer(MailConfig{GmailUser: "ops@gmail.com", GmailPass: "app-pass"}, "", discardLogger)

	if m.SendNewProjectNotification("Site", "Olive", "olive@example.com", "web_development", "5000") {
		t.Error("new project notification needs an admin address")
	}
	if m.SendContactNotification("Olive", "olive@example.com", "", "design", "hello") {
		t.Error("contact notification needs an admin address")
	}
}
