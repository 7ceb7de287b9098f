package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// PersistUsersFunc receives the complete user list after a mutation. If it
// returns an error the mutation is discarded.
type PersistUsersFunc func(users []domain.User) error

// UserStore is an in-memory store.UserStore.
type UserStore struct {
	mu      sync.RWMutex
	users   []domain.User
	persist PersistUsersFunc
}

var _ store.UserStore = (*UserStore)(nil)

// NewUserStore creates an empty store.
func NewUserStore() *UserStore {
	return &UserStore{users: []domain.User{}}
}

// NewPersistentUserStore creates a store seeded with users that calls persist
// on every mutation while holding the write lock.
func NewPersistentUserStore(users []domain.User, persist PersistUsersFunc) *UserStore {
	return &UserStore{users: slices.Clone(users), persist: persist}
}

// Create implements store.UserStore. The plaintext password is never kept.
func (s *UserStore) Create(_ context.Context, user *domain.User) error {
	if user.HashedPassword == "" || user.Username == "" {
		return fmt.Errorf("%w: user needs a username and a hashed password", store.ErrInvalidEntity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var maxID int64
	for _, u := range s.users {
		if u.Username == user.Username {
			return store.ErrUsernameExists
		}
		maxID = max(maxID, u.ID)
	}

	created := *user
	created.ID = maxID + 1
	created.Password = ""
	next := append(slices.Clone(s.users), created)
	if s.persist != nil {
		if err := s.persist(next); err != nil {
			return err
		}
	}
	s.users = next

	user.ID = created.ID
	user.Password = ""
	return nil
}

// GetByUsername implements store.UserStore.
func (s *UserStore) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			found := u
			return &found, nil
		}
	}
	return nil, store.ErrUserNotFound
}
