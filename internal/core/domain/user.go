package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User models a registered account. PasswordHash is empty when Firebase is
// the authoritative identity provider for the account.
type User struct {
	ID             string    `json:"id" bson:"_id,omitempty"`
	Email          string    `json:"email" bson:"email"`
	PasswordHash   string    `json:"-" bson:"password_hash"`
	FirstName      string    `json:"first_name" bson:"first_name"`
	LastName       string    `json:"last_name" bson:"last_name"`
	Phone          string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Company        string    `json:"company,omitempty" bson:"company,omitempty"`
	Bio            string    `json:"bio,omitempty" bson:"bio,omitempty"`
	ProfilePicture string    `json:"profile_picture,omitempty" bson:"profile_picture,omitempty"`
	Role           string    `json:"role" bson:"role"`
	FirebaseUID    string    `json:"firebase_uid,omitempty" bson:"firebase_uid,omitempty"`
	IsActive       bool      `json:"is_active" bson:"is_active"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at"`
}

// UserPatch carries a partial profile update. Nil fields are left untouched.
type UserPatch struct {
	PasswordHash *string
	FirstName    *string
	LastName     *string
	Phone        *string
	Company      *string
	Bio          *string
	Role         *string
	FirebaseUID  *string
	IsActive     *bool
}
