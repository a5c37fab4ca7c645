package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/adminboot/internal/models"
	"github.com/wolfeidau/adminboot/internal/store"
)

var _ store.UserStore = (*UserStore)(nil)

// Config configures a PostgreSQL-backed user store.
type Config struct {
	Pool PoolConfig

	// AutoMigrate runs embedded migrations before the store is returned.
	AutoMigrate bool
}

// UserStore implements store.UserStore using PostgreSQL.
type UserStore struct {
	pool     *pgxpool.Pool
	ownsPool bool
}

// NewUserStore creates a user store on a shared connection pool.
// The caller remains responsible for closing the pool.
func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

// Open creates a connection pool, optionally migrates the schema and
// returns a store that closes the pool on Close.
func Open(ctx context.Context, cfg *Config) (*UserStore, error) {
	pool, err := NewPool(ctx, &cfg.Pool)
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := runMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	return &UserStore{pool: pool, ownsPool: true}, nil
}

// Create inserts a new user.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (user_id, email, password_hash, is_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		user.UserID,
		user.Email,
		user.PasswordHash,
		user.IsAdmin,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		err = mapPostgresError(err)
		if errors.Is(err, store.ErrUserAlreadyExists) {
			return err
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	log.Debug().
		Str("user_id", user.UserID.String()).
		Bool("is_admin", user.IsAdmin).
		Msg("Created user")

	return nil
}

// GetByEmail retrieves a user by email.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT user_id, email, password_hash, is_admin, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", mapPostgresError(err))
	}

	return user, nil
}

// Update replaces the mutable fields of an existing user.
func (s *UserStore) Update(ctx context.Context, user *models.User) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users
		SET password_hash = $2, is_admin = $3, updated_at = $4
		WHERE email = $1
	`,
		user.Email,
		user.PasswordHash,
		user.IsAdmin,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", mapPostgresError(err))
	}

	if tag.RowsAffected() == 0 {
		return store.ErrUserNotFound
	}

	return nil
}

// Delete removes a user.
func (s *UserStore) Delete(ctx context.Context, email string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", mapPostgresError(err))
	}

	if tag.RowsAffected() == 0 {
		return store.ErrUserNotFound
	}

	return nil
}

// List returns all users ordered by email.
func (s *UserStore) List(ctx context.Context) ([]*models.User, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT user_id, email, password_hash, is_admin, created_at, updated_at
		FROM users
		ORDER BY email
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", mapPostgresError(err))
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", mapPostgresError(err))
	}

	return users, nil
}

// Close closes the pool if the store opened it.
func (s *UserStore) Close() error {
	if s.ownsPool {
		s.pool.Close()
	}
	return nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.UserID,
		&u.Email,
		&u.PasswordHash,
		&u.IsAdmin,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()

	return &u, nil
}
