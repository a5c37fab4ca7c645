// Package users owns account registration: validation, uniqueness, password
// hashing and persistence through a store.UserStore.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/adminboot/internal/auth"
	"github.com/wolfeidau/adminboot/internal/bootstrap"
	"github.com/wolfeidau/adminboot/internal/models"
	"github.com/wolfeidau/adminboot/internal/store"
)

// Messages reported in registration results.
const (
	MsgRegistered     = "User registered successfully"
	MsgAlreadyExists  = "User already exists"
	MsgEmailRequired  = "Email is required"
	MsgPasswordNeeded = "Password is required"
)

var _ bootstrap.Registrar = (*Registry)(nil)

// Registry registers and manages user accounts.
type Registry struct {
	store      store.UserStore
	bcryptCost int
	now        func() time.Time
}

// Option configures a Registry.
type Option func(*Registry)

// WithBcryptCost overrides the bcrypt cost used for new passwords.
func WithBcryptCost(cost int) Option {
	return func(r *Registry) {
		r.bcryptCost = cost
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

// NewRegistry creates a registry backed by s.
func NewRegistry(s store.UserStore, opts ...Option) *Registry {
	r := &Registry{
		store:      s,
		bcryptCost: auth.DefaultBcryptCost,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register creates a user. Validation, duplicate and storage failures are
// reported in the Result; only a hashing or ID generation failure is
// returned as an error.
func (r *Registry) Register(ctx context.Context, email, password string, isAdmin bool) (bootstrap.Result, error) {
	email = bootstrap.NormalizeEmail(email)

	if email == "" {
		return failure(bootstrap.ReasonInvalid, MsgEmailRequired), nil
	}
	if password == "" {
		return failure(bootstrap.ReasonInvalid, MsgPasswordNeeded), nil
	}

	_, err := r.store.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return failure(bootstrap.ReasonAlreadyExists, MsgAlreadyExists), nil
	case !errors.Is(err, store.ErrUserNotFound):
		log.Error().Err(err).Msg("failed to look up user")
		return unavailable(err), nil
	}

	hash, err := auth.HashPassword(password, r.bcryptCost)
	if err != nil {
		return bootstrap.Result{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return bootstrap.Result{}, fmt.Errorf("failed to generate user id: %w", err)
	}

	now := r.now().UTC()
	user := &models.User{
		UserID:       id,
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := r.store.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrUserAlreadyExists) {
			return failure(bootstrap.ReasonAlreadyExists, MsgAlreadyExists), nil
		}
		log.Error().Err(err).Msg("failed to create user")
		return unavailable(err), nil
	}

	log.Info().
		Str("user_id", id.String()).
		Bool("is_admin", isAdmin).
		Msg("user registered")

	return bootstrap.Result{OK: true, Message: MsgRegistered}, nil
}

// Promote grants admin to an existing user. It is a no-op for admins.
func (r *Registry) Promote(ctx context.Context, email string) (*models.User, error) {
	user, err := r.store.GetByEmail(ctx, bootstrap.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}

	if user.IsAdmin {
		return user, nil
	}

	user.IsAdmin = true
	user.UpdatedAt = r.now().UTC()

	if err := r.store.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to promote user: %w", err)
	}

	log.Info().Str("user_id", user.UserID.String()).Msg("user promoted to admin")

	return user, nil
}

// Delete removes a user record.
func (r *Registry) Delete(ctx context.Context, email string) error {
	return r.store.Delete(ctx, bootstrap.NormalizeEmail(email))
}

// List returns all users ordered by email.
func (r *Registry) List(ctx context.Context) ([]*models.User, error) {
	return r.store.List(ctx)
}

// Authenticate verifies a password against the stored hash.
func (r *Registry) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := r.store.GetByEmail(ctx, bootstrap.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}

	if err := auth.CheckPassword(password, user.PasswordHash); err != nil {
		return nil, err
	}

	return user, nil
}

func failure(reason bootstrap.FailureReason, msg string) bootstrap.Result {
	return bootstrap.Result{Message: msg, Reason: reason}
}

func unavailable(err error) bootstrap.Result {
	return failure(bootstrap.ReasonUnavailable, "storage unavailable: "+strings.TrimSpace(err.Error()))
}
