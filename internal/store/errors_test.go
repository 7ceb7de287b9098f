package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "generic error", err: errors.New("some error"), expected: false},
		{name: "ErrNotFound", err: ErrNotFound, expected: true},
		{name: "ErrTaskNotFound", err: ErrTaskNotFound, expected: true},
		{name: "wrapped ErrTaskNotFound", err: fmt.Errorf("get task 7: %w", ErrTaskNotFound), expected: true},
		{name: "ErrUserNotFound", err: ErrUserNotFound, expected: true},
		{name: "duplicate is not not-found", err: ErrUsernameExists, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNotFoundError(tt.err))
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "ErrDuplicate", err: ErrDuplicate, expected: true},
		{name: "ErrUsernameExists", err: ErrUsernameExists, expected: true},
		{name: "wrapped ErrUsernameExists", err: fmt.Errorf("create user: %w", ErrUsernameExists), expected: true},
		{name: "not found is not duplicate", err: ErrTaskNotFound, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsDuplicateError(tt.err))
		})
	}
}

func TestEntityErrorsAreDistinct(t *testing.T) {
	assert.False(t, errors.Is(ErrTaskNotFound, ErrUserNotFound))
	assert.False(t, errors.Is(ErrUserNotFound, ErrTaskNotFound))
	assert.Equal(t, "entity not found: task", ErrTaskNotFound.Error())
	assert.Equal(t, "entity already exists: username", ErrUsernameExists.Error())
}

func TestStoreError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStoreError("task", "create", "write failed", cause)

	assert.Equal(t, "create operation on task failed: write failed: disk full", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := NewStoreError("user", "get", "lookup failed", nil)
	assert.Equal(t, "get operation on user failed: lookup failed", bare.Error())
	assert.Nil(t, bare.Unwrap())
}
