package store

import (
	"context"
	"errors"

	"github.com/wolfeidau/adminboot/internal/models"
)

// Errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

// Type identifies a UserStore backend.
type Type string

const (
	TypeFile     Type = "file"
	TypeMemory   Type = "memory"
	TypePostgres Type = "postgres"
	TypeSQLite   Type = "sqlite"
)

// UserStore persists user credential records keyed by normalized email.
type UserStore interface {
	// Create stores a new user, returning ErrUserAlreadyExists if the email is taken
	Create(ctx context.Context, user *models.User) error

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// Update replaces an existing user record
	Update(ctx context.Context, user *models.User) error

	// Delete removes a user record
	Delete(ctx context.Context, email string) error

	// List returns all users ordered by email
	List(ctx context.Context) ([]*models.User, error)

	// Close releases any resources held by the store
	Close() error
}
