package domain

import "time"

// ContactStatus tracks how far an inbound inquiry has been handled.
type ContactStatus string

const (
	ContactNew      ContactStatus = "new"
	ContactRead     ContactStatus = "read"
	ContactReplied  ContactStatus = "replied"
	ContactArchived ContactStatus = "archived"
)

func (s ContactStatus) Valid() bool {
	switch s {
	case ContactNew, ContactRead, ContactReplied, ContactArchived:
		return true
	}
	return false
}

// ContactMessage is an unauthenticated inquiry from the public contact form.
type ContactMessage struct {
	ID          string        `json:"id" bson:"_id,omitempty"`
	Name        string        `json:"name" bson:"name"`
	Email       string        `json:"email" bson:"email"`
	Phone       string        `json:"phone,omitempty" bson:"phone,omitempty"`
	ProjectType string        `json:"project_type" bson:"project_type"`
	Message     string        `json:"message" bson:"message"`
	Status      ContactStatus `json:"status" bson:"status"`
	AdminNotes  string        `json:"admin_notes,omitempty" bson:"admin_notes,omitempty"`
	RepliedAt   *time.Time    `json:"replied_at,omitempty" bson:"replied_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at" bson:"created_at"`
}
