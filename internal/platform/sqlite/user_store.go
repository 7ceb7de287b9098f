package sqlite

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// UserStore is a store.UserStore backed by gorm.
type UserStore struct {
	db *gorm.DB
}

var _ store.UserStore = (*UserStore)(nil)

// NewUserStore creates a UserStore on an opened database.
func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Create implements store.UserStore.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	if user.HashedPassword == "" || user.Username == "" {
		return fmt.Errorf("%w: user needs a username and a hashed password", store.ErrInvalidEntity)
	}
	role := user.Role
	if role == "" {
		role = domain.RoleUser
	}
	m := &userModel{
		Username:   user.Username,
		Password:   user.HashedPassword,
		Role:       string(role),
		SignupDate: user.SignupDate.UTC(),
	}
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return store.ErrUsernameExists
		}
		return store.NewStoreError("user", "create", "insert failed", err)
	}
	user.ID = m.ID
	user.Password = ""
	return nil
}

// GetByUsername implements store.UserStore.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var m userModel
	if err := s.db.WithContext(ctx).First(&m, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrUserNotFound
		}
		return nil, store.NewStoreError("user", "get", "query failed", err)
	}
	return m.toDomain(), nil
}
