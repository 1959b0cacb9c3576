package domain

import "time"

// ProjectStatus represents the lifecycle state of a project.
type ProjectStatus string

const (
	StatusPending    ProjectStatus = "pending"
	StatusInProgress ProjectStatus = "in_progress"
	StatusApproved   ProjectStatus = "approved"
	StatusCompleted  ProjectStatus = "completed"
	StatusRejected   ProjectStatus = "rejected"
	StatusCancelled  ProjectStatus = "cancelled"
)

// Valid reports whether s is one of the defined status values. Admins may set
// any valid status from any other; there is no enforced transition graph.
func (s ProjectStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusApproved,
		StatusCompleted, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is expected from s.
func (s ProjectStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusRejected || s == StatusCancelled
}

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Project is a unit of client work, owned by exactly one user.
type Project struct {
	ID            string        `json:"id" bson:"_id,omitempty"`
	UserID        string        `json:"user_id" bson:"user_id"`
	Title         string        `json:"title" bson:"title"`
	Description   string        `json:"description,omitempty" bson:"description,omitempty"`
	ProjectType   string        `json:"project_type,omitempty" bson:"project_type,omitempty"`
	Budget        string        `json:"budget,omitempty" bson:"budget,omitempty"`
	Timeline      string        `json:"timeline,omitempty" bson:"timeline,omitempty"`
	Status        ProjectStatus `json:"status" bson:"status"`
	Priority      string        `json:"priority" bson:"priority"`
	ContactMethod string        `json:"contact_method" bson:"contact_method"`
	EstimatedCost float64       `json:"estimated_cost,omitempty" bson:"estimated_cost,omitempty"`
	ActualCost    float64       `json:"actual_cost,omitempty" bson:"actual_cost,omitempty"`
	StartDate     *time.Time    `json:"start_date,omitempty" bson:"start_date,omitempty"`
	EndDate       *time.Time    `json:"end_date,omitempty" bson:"end_date,omitempty"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" bson:"updated_at"`
}

// ProjectPatch carries optional cost and schedule fields an admin may set
// alongside a status transition.
type ProjectPatch struct {
	EstimatedCost *float64
	ActualCost    *float64
	StartDate     *time.Time
	EndDate       *time.Time
}

// ProjectUpdate is an append-only annotation an admin attaches to a project.
// Immutable once created, listed newest-first.
type ProjectUpdate struct {
	ID          string        `json:"id" bson:"_id,omitempty"`
	ProjectID   string        `json:"project_id" bson:"project_id"`
	UserID      string        `json:"user_id" bson:"user_id"`
	Title       string        `json:"title" bson:"title"`
	Description string        `json:"description,omitempty" bson:"description,omitempty"`
	Status      ProjectStatus `json:"status,omitempty" bson:"status,omitempty"`
	CreatedAt   time.Time     `json:"created_at" bson:"created_at"`
}
