package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/adminboot/internal/models"
	"github.com/wolfeidau/adminboot/internal/store"
)

// DefaultPath is the credentials file the host application reads.
const DefaultPath = "app/credentials.json"

const currentVersion = 1

var _ store.UserStore = (*UserStore)(nil)

// Document is the on-disk layout of the credentials file.
type Document struct {
	Version int                    `json:"version"`
	Users   map[string]models.User `json:"users"`
}

// UserStore keeps users in a single JSON file.
// Every mutation rewrites the file atomically.
type UserStore struct {
	mu   sync.Mutex
	path string
}

// NewUserStore opens the credentials file at path, creating an empty one if
// needed. An empty path uses DefaultPath.
func NewUserStore(path string) (*UserStore, error) {
	if path == "" {
		path = DefaultPath
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create credentials directory: %w", err)
	}

	s := &UserStore{path: path}

	if err := s.ensureDocument(); err != nil {
		return nil, err
	}

	log.Debug().Str("path", path).Msg("credentials file store initialized")

	return s, nil
}

// Path returns the credentials file location.
func (s *UserStore) Path() string {
	return s.path
}

// Create adds a new user.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	if _, ok := doc.Users[user.Email]; ok {
		return store.ErrUserAlreadyExists
	}

	doc.Users[user.Email] = *user

	if err := s.save(doc); err != nil {
		return err
	}

	log.Debug().
		Str("user_id", user.UserID.String()).
		Bool("is_admin", user.IsAdmin).
		Msg("created user")

	return nil
}

// GetByEmail retrieves a user by email.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	user, ok := doc.Users[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}

	return &user, nil
}

// Update replaces an existing user.
func (s *UserStore) Update(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	if _, ok := doc.Users[user.Email]; !ok {
		return store.ErrUserNotFound
	}

	doc.Users[user.Email] = *user

	return s.save(doc)
}

// Delete removes a user.
func (s *UserStore) Delete(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	if _, ok := doc.Users[email]; !ok {
		return store.ErrUserNotFound
	}

	delete(doc.Users, email)

	return s.save(doc)
}

// List returns all users ordered by email.
func (s *UserStore) List(ctx context.Context) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, len(doc.Users))
	for _, user := range doc.Users {
		u := user
		users = append(users, &u)
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].Email < users[j].Email
	})

	return users, nil
}

// Close is a no-op; the file is not held open between calls.
func (s *UserStore) Close() error {
	return nil
}

// ensureDocument creates an empty credentials file if it doesn't exist.
func (s *UserStore) ensureDocument() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat credentials file: %w", err)
	}

	return s.save(&Document{
		Version: currentVersion,
		Users:   make(map[string]models.User),
	})
}

func (s *UserStore) load() (*Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}

	if doc.Version > currentVersion {
		return nil, fmt.Errorf("unsupported credentials file version %d", doc.Version)
	}

	if doc.Users == nil {
		doc.Users = make(map[string]models.User)
	}

	return &doc, nil
}

// save writes the document to a temp file and renames it into place.
func (s *UserStore) save(doc *Document) error {
	doc.Version = currentVersion

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	tempPath := s.path + ".tmp"

	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}

	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save credentials file: %w", err)
	}

	return nil
}
