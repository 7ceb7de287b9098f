package jsonfile

import (
	"log/slog"
	"time"

	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/platform/memory"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// userRecord is the on-disk form of a user. Unlike domain.User it serializes
// the password hash.
type userRecord struct {
	ID             int64       `json:"id"`
	Username       string      `json:"username"`
	HashedPassword string      `json:"password"`
	Role           domain.Role `json:"role"`
	SignupDate     time.Time   `json:"signup_date"`
}

// UserStore is a store.UserStore kept in a JSON file.
type UserStore struct {
	*memory.UserStore
}

var _ store.UserStore = (*UserStore)(nil)

// NewUserStore opens the user file at path, creating it when missing.
func NewUserStore(path string, logger *slog.Logger) (*UserStore, error) {
	log := logger.With("component", "jsonfile_user_store")
	records, err := load[userRecord](path, log)
	if err != nil {
		return nil, err
	}

	users := make([]domain.User, len(records))
	for i, r := range records {
		users[i] = domain.User{
			ID:             r.ID,
			Username:       r.Username,
			HashedPassword: r.HashedPassword,
			Role:           r.Role,
			SignupDate:     r.SignupDate,
		}
	}

	return &UserStore{
		UserStore: memory.NewPersistentUserStore(users, func(users []domain.User) error {
			records := make([]userRecord, len(users))
			for i, u := range users {
				records[i] = userRecord{
					ID:             u.ID,
					Username:       u.Username,
					HashedPassword: u.HashedPassword,
					Role:           u.Role,
					SignupDate:     u.SignupDate,
				}
			}
			return write(path, records)
		}),
	}, nil
}
