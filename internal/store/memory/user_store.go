package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/wolfeidau/adminboot/internal/models"
	"github.com/wolfeidau/adminboot/internal/store"
)

var _ store.UserStore = (*UserStore)(nil)

// UserStore implements store.UserStore using in-memory storage.
// Data is lost when the process exits.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]*models.User // email -> User
}

// NewUserStore creates a new in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{
		users: make(map[string]*models.User),
	}
}

// Create stores a new user.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.Email]; exists {
		return store.ErrUserAlreadyExists
	}

	// Clone to avoid external modifications
	clone := *user
	s.users[user.Email] = &clone

	return nil
}

// GetByEmail retrieves a user by email.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[email]
	if !exists {
		return nil, store.ErrUserNotFound
	}

	clone := *user
	return &clone, nil
}

// Update replaces an existing user.
func (s *UserStore) Update(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.Email]; !exists {
		return store.ErrUserNotFound
	}

	clone := *user
	s.users[user.Email] = &clone

	return nil
}

// Delete removes a user.
func (s *UserStore) Delete(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[email]; !exists {
		return store.ErrUserNotFound
	}

	delete(s.users, email)
	return nil
}

// List returns all users ordered by email.
func (s *UserStore) List(ctx context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*models.User, 0, len(s.users))
	for _, user := range s.users {
		clone := *user
		users = append(users, &clone)
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].Email < users[j].Email
	})

	return users, nil
}

// Close is a no-op.
func (s *UserStore) Close() error {
	return nil
}
