package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account.
//
// Identity is issued by the auth layer; only Name and Email change after
// creation, via profile update.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Name is the display name shown in member lists and notifications.
	Name string `json:"name"`

	// Email is the user's email address (unique). Guest accounts get a
	// synthesized placeholder address.
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the user's password. Empty for
	// guest accounts. Never serialized.
	PasswordHash string `json:"-"`

	// Guest marks accounts created by lazy provisioning rather than
	// registration.
	Guest bool `json:"guest,omitempty"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"created_at"`

	// UpdatedAt is the Unix timestamp of the last profile update.
	UpdatedAt int64 `json:"updated_at"`
}

// NewUser creates a user with a fresh ID and timestamps.
func NewUser(email, name, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
