// Package metrics defines and registers all custom Prometheus metrics for the
// Charlieverse platform backend. It is the single source of truth for metric
// names, labels, and help strings. HTTP-level metrics come from the
// echoprometheus middleware wired in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "charlieverse"

// ── Project lifecycle ─────────────────────────────────────────────────────────

// ProjectsCreatedTotal counts new project requests.
// Label:
//   - project_type: free-form type from the quote form ("web_development", …)
var ProjectsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "projects_created_total",
		Help:      "Total number of projects created, by project type.",
	},
	[]string{"project_type"},
)

// StatusTransitionsTotal counts admin status transitions.
// Label:
//   - status: the new status applied (e.g. "in_progress", "completed")
var StatusTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_transitions_total",
		Help:      "Total number of project status transitions, by target status.",
	},
	[]string{"status"},
)

// ── Notification fan-out ──────────────────────────────────────────────────────

// EventsPublishedTotal counts domain events handed to the bus.
var EventsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Total number of domain events published to the fan-out bus.",
	},
	[]string{"type"},
)

// NotificationsSentTotal counts websocket frames pushed out.
// Label:
//   - channel: "user_room", "admin_room", or "broadcast"
var NotificationsSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_sent_total",
		Help:      "Total number of websocket notifications pushed, by channel.",
	},
	[]string{"channel"},
)

// EmailsSentTotal counts outbound email attempts.
// Labels:
//   - template: the template rendered ("welcome", "project_status_update", …)
//   - result: "sent", "error", or "skipped" (transport unconfigured)
var EmailsSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "emails_sent_total",
		Help:      "Total number of outbound email attempts, by template and result.",
	},
	[]string{"template", "result"},
)

// ── Storage ───────────────────────────────────────────────────────────────────

// StorageFallbackTotal counts operations redirected to the in-memory store
// after the durable backend failed.
// Label:
//   - op: the gateway operation name (e.g. "create_project")
var StorageFallbackTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "storage_fallback_total",
		Help:      "Total number of storage calls served by the in-memory fallback.",
	},
	[]string{"op"},
)

// ── Sessions & uploads ────────────────────────────────────────────────────────

// SessionsActive tracks currently live server-side sessions. Only meaningful
// for the in-process session store; Redis-backed sessions expire server-side.
var SessionsActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions_active",
		Help:      "Number of currently active in-process sessions.",
	},
)

// UploadsTotal counts accepted file uploads, by derived category.
var UploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_total",
		Help:      "Total number of files accepted by the upload endpoint, by category.",
	},
	[]string{"category"},
)

// WebsocketConnections tracks currently connected websocket clients.
var WebsocketConnections = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "websocket_connections",
		Help:      "Number of currently connected websocket clients.",
	},
)
