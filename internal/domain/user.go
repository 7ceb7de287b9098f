package domain

import (
	"strings"
	"time"
)

// Role is a user's role label. Roles are recorded but never enforced.
type Role string

// RoleUser is the non-privileged default role.
const RoleUser Role = "user"

// MaxPasswordBytes is bcrypt's input limit.
const MaxPasswordBytes = 72

// User represents a registered user.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Password       string    `json:"-"` // Plaintext, only held during registration
	HashedPassword string    `json:"-"`
	Role           Role      `json:"role"`
	SignupDate     time.Time `json:"signup_date"`
}

// NewUser creates a user with the default role and validates it. The caller
// hashes the password before storing the user.
func NewUser(username, password string, now time.Time) (*User, error) {
	u := &User{
		Username:   strings.TrimSpace(username),
		Password:   password,
		Role:       RoleUser,
		SignupDate: now.UTC(),
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

// Validate checks the user fields. A stored user must carry a hash; a new one
// carries the plaintext password instead.
func (u *User) Validate() error {
	if u.Username == "" {
		return NewValidationError("username", "cannot be empty", nil)
	}
	if u.Password != "" {
		if len([]byte(u.Password)) > MaxPasswordBytes {
			return ErrPasswordTooLong
		}
		return nil
	}
	if u.HashedPassword == "" {
		return NewValidationError("password", "cannot be empty", nil)
	}
	return nil
}
