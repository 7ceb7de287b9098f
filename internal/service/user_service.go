package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/redact"
	"github.com/phrazzld/taskflow-api/internal/service/auth"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// UserService provides user operations.
type UserService interface {
	// Register creates a user with a hashed password. The returned user
	// carries neither the plaintext password nor, once serialized, the hash.
	Register(ctx context.Context, username, password string) (*domain.User, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	users  store.UserStore
	hasher auth.PasswordHasher
	now    func() time.Time
	logger *slog.Logger
}

// NewUserService creates a new UserService
func NewUserService(users store.UserStore, hasher auth.PasswordHasher, logger *slog.Logger) *UserServiceImpl {
	return &UserServiceImpl{
		users:  users,
		hasher: hasher,
		now:    time.Now,
		logger: logger.With("component", "user_service"),
	}
}

// WithClock replaces time.Now and returns s.
func (s *UserServiceImpl) WithClock(now func() time.Time) *UserServiceImpl {
	s.now = now
	return s
}

// Register implements UserService.
func (s *UserServiceImpl) Register(ctx context.Context, username, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(username, password, s.now())
	if err != nil {
		return nil, err
	}

	if _, err := s.users.GetByUsername(ctx, user.Username); err == nil {
		log.Debug("attempted to register existing username", "username", user.Username)
		return nil, store.ErrUsernameExists
	} else if !errors.Is(err, store.ErrUserNotFound) {
		log.Error("failed to look up username", "error", redact.Error(err))
		return nil, NewUserServiceError("register", "failed to look up username", err)
	}

	hash, err := s.hasher.Hash(user.Password)
	if err != nil {
		if errors.Is(err, domain.ErrPasswordTooLong) {
			return nil, err
		}
		log.Error("failed to hash password", "error", err)
		return nil, NewUserServiceError("register", "failed to hash password", err)
	}
	user.HashedPassword = hash
	user.Password = ""

	if err := s.users.Create(ctx, user); err != nil {
		if store.IsDuplicateError(err) {
			log.Debug("username taken during registration", "username", user.Username)
			return nil, store.ErrUsernameExists
		}
		log.Error("failed to save user", "error", redact.Error(err), "username", user.Username)
		return nil, NewUserServiceError("register", "failed to save user", err)
	}

	log.Info("registered user", "user_id", user.ID, "username", user.Username)
	return user, nil
}
