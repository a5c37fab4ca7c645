package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/adminboot/internal/models"
	"github.com/wolfeidau/adminboot/internal/store"
	_ "modernc.org/sqlite"
)

// DefaultPath is the database file used when none is configured.
const DefaultPath = "app/credentials.db"

var _ store.UserStore = (*UserStore)(nil)

// UserStore implements store.UserStore on a single SQLite database file.
type UserStore struct {
	db *sql.DB
}

// NewUserStore opens (or creates) the database at path and initializes the schema.
func NewUserStore(path string) (*UserStore, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}
	path = filepath.Clean(path)

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create sqlite store dir: %w", err)
	}

	dsn := path + "?" + url.Values{
		"_pragma": []string{
			"busy_timeout(30000)",
			"journal_mode(WAL)",
			"synchronous(NORMAL)",
		},
	}.Encode()

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &UserStore{db: db}
	if err := s.initSchema(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, errors.Join(err, fmt.Errorf("close sqlite db after schema init failure: %w", closeErr))
		}
		return nil, err
	}

	log.Debug().Str("path", path).Msg("sqlite user store initialized")

	return s, nil
}

func (s *UserStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		user_id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		is_admin INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("init sqlite schema: %w", err)
	}
	return nil
}

// Create inserts a new user.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (user_id, email, password_hash, is_admin, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		user.UserID.String(),
		user.Email,
		user.PasswordHash,
		boolToInt(user.IsAdmin),
		user.CreatedAt.UnixNano(),
		user.UpdatedAt.UnixNano(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrUserAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user by email.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, email, password_hash, is_admin, created_at, updated_at
		FROM users WHERE email = ?
	`, email)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// Update replaces the mutable fields of an existing user.
func (s *UserStore) Update(ctx context.Context, user *models.User) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET password_hash = ?, is_admin = ?, updated_at = ?
		WHERE email = ?
	`,
		user.PasswordHash,
		boolToInt(user.IsAdmin),
		user.UpdatedAt.UnixNano(),
		user.Email,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return requireAffected(res)
}

// Delete removes a user.
func (s *UserStore) Delete(ctx context.Context, email string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE email = ?`, email)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return requireAffected(res)
}

// List returns all users ordered by email.
func (s *UserStore) List(ctx context.Context) ([]*models.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, email, password_hash, is_admin, created_at, updated_at
		FROM users ORDER BY email
	`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// Close closes the database.
func (s *UserStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*models.User, error) {
	var (
		u                    models.User
		id                   string
		isAdmin              int
		createdAt, updatedAt int64
	)
	if err := row.Scan(&id, &u.Email, &u.PasswordHash, &isAdmin, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse user id %q: %w", id, err)
	}

	u.UserID = parsed
	u.IsAdmin = isAdmin != 0
	u.CreatedAt = time.Unix(0, createdAt).UTC()
	u.UpdatedAt = time.Unix(0, updatedAt).UTC()

	return &u, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrUserNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
