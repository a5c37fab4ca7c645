package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an application account held in the credential store.
// Email is the unique key and is always stored normalized.
type User struct {
	UserID       uuid.UUID `json:"user_id"` // UUIDv7
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"` // bcrypt
	IsAdmin      bool      `json:"is_admin"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Role returns the display role for the user.
func (u *User) Role() string {
	if u.IsAdmin {
		return "admin"
	}
	return "user"
}
