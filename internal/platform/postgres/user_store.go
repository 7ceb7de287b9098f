package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/store"
)

type userRow struct {
	ID         int64     `db:"id"`
	Username   string    `db:"username"`
	Password   string    `db:"password"`
	Role       string    `db:"role"`
	SignupDate time.Time `db:"signup_date"`
}

// UserStore implements store.UserStore on PostgreSQL.
type UserStore struct {
	db *sqlx.DB
}

var _ store.UserStore = (*UserStore)(nil)

// NewUserStore creates a UserStore. The caller owns db.
func NewUserStore(db *sqlx.DB) *UserStore {
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

	const q = `
		INSERT INTO users (username, password, role, signup_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := s.db.QueryRowxContext(ctx, q,
		user.Username, user.HashedPassword, string(role), user.SignupDate.UTC(),
	).Scan(&user.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			return store.ErrUsernameExists
		}
		return store.NewStoreError("user", "create", "insert failed", MapError(err))
	}
	user.Password = ""
	return nil
}

// GetByUsername implements store.UserStore.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	const q = `SELECT id, username, password, role, signup_date FROM users WHERE username = $1`
	var row userRow
	if err := s.db.GetContext(ctx, &row, q, username); err != nil {
		if errors.Is(MapError(err), store.ErrNotFound) {
			return nil, store.ErrUserNotFound
		}
		return nil, store.NewStoreError("user", "get", "query failed", err)
	}
	return &domain.User{
		ID:             row.ID,
		Username:       row.Username,
		HashedPassword: row.Password,
		Role:           domain.Role(row.Role),
		SignupDate:     row.SignupDate.UTC(),
	}, nil
}
