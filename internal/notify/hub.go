package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/charlieverse/platform/internal/api/metrics"
	"github.com/charlieverse/platform/internal/events"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The SPA may be served from a different origin in development.
	CheckOrigin: func(*http.Request) bool { return true },
}

// clientCommand is what a connected client may send: join its private room
// after authenticating, or join the shared admin room.
type clientCommand struct {
	Type   string `json:"type"`
	UserID string `json:"user_id,omitempty"`
}

type client struct {
	conn   *websocket.Conn
	send   chan []byte
	userID string
	admin  bool
}

// Hub tracks connected websocket clients and routes notifications to the
// owning user's private room, the shared admin room, or everyone. Delivery is
// fire-and-forget: a recipient that is not connected simply misses the
// message, and a slow client's frame is dropped rather than queued.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	log     zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{clients: make(map[*client]struct{}), log: log}
}

// ServeWS upgrades the request and runs the connection until it closes.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	metrics.WebsocketConnections.Inc()

	go h.writePump(c)
	go h.readPump(c)
	return nil
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		metrics.WebsocketConnections.Dec()
	}
	h.mu.Unlock()
}

func (h *Hub) readPump(c *client) {
	defer func() {
		h.remove(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var cmd clientCommand
		if err := json.Unmarshal(raw, &cmd); err != nil {
			continue
		}
		switch cmd.Type {
		case "authenticate":
			h.mu.Lock()
			c.userID = cmd.UserID
			h.mu.Unlock()
			h.log.Debug().Str("user_id", cmd.UserID).Msg("websocket client authenticated")
		case "join_admin_room":
			h.mu.Lock()
			c.admin = true
			h.mu.Unlock()
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) push(c *client, msg []byte) {
	select {
	case c.send <- msg:
	default:
		// Slow consumer: drop the frame instead of blocking the emitter.
	}
}

// SendToUser pushes a notification to every connection in the user's room.
func (h *Hub) SendToUser(userID string, n Notification) {
	msg, err := json.Marshal(n)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if c.userID == userID {
			h.push(c, msg)
			metrics.NotificationsSentTotal.WithLabelValues("user_room").Inc()
		}
	}
}

// SendToAdmins pushes a notification to every connection in the admin room.
func (h *Hub) SendToAdmins(n Notification) {
	msg, err := json.Marshal(n)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if c.admin {
			h.push(c, msg)
			metrics.NotificationsSentTotal.WithLabelValues("admin_room").Inc()
		}
	}
}

// Broadcast pushes a notification to every connected client.
func (h *Hub) Broadcast(n Notification) {
	msg, err := json.Marshal(n)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		h.push(c, msg)
		metrics.NotificationsSentTotal.WithLabelValues("broadcast").Inc()
	}
}

// ConnectedCount returns the number of live connections.
func (h *Hub) ConnectedCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// IsUserOnline reports whether any connection has authenticated as userID.
func (h *Hub) IsUserOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if c.userID == userID {
			return true
		}
	}
	return false
}

// ── Event bus subscriber ──────────────────────────────────────────────────────

// Name implements events.Subscriber.
func (h *Hub) Name() string { return "websocket_hub" }

// Handle maps a domain event to socket notifications. Status changes go to
// the owner's room and the admin room; everything else goes to admins only.
func (h *Hub) Handle(_ context.Context, e events.Event) error {
	switch e.Type {
	case events.ProjectStatusChanged:
		n := Notification{
			Type:      TypeProjectUpdate,
			Title:     "Project Update",
			Message:   e.Message,
			UserID:    e.OwnerID,
			ProjectID: e.ProjectID,
			Timestamp: e.At,
			Data:      e.Data,
		}
		h.SendToUser(e.OwnerID, n)
		h.SendToAdmins(n)
	case events.ProjectCreated, events.FileUploaded, events.UserRegistered:
		h.SendToAdmins(Notification{
			Type:      TypeUserAction,
			Title:     "User Action",
			Message:   e.Message,
			UserID:    e.OwnerID,
			ProjectID: e.ProjectID,
			Timestamp: e.At,
			Data:      e.Data,
		})
	case events.ContactReceived:
		h.SendToAdmins(Notification{
			Type:      TypeUserAction,
			Title:     "New Contact Form Submission",
			Message:   e.Message,
			Timestamp: e.At,
			Data:      e.Data,
		})
	}
	return nil
}
