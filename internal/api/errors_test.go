package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/domain/taskquery"
	"github.com/phrazzld/taskflow-api/internal/service"
	"github.com/phrazzld/taskflow-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"task not found", store.ErrTaskNotFound, http.StatusNotFound},
		{"wrapped user not found", fmt.Errorf("lookup: %w", store.ErrUserNotFound), http.StatusNotFound},
		{"username exists", store.ErrUsernameExists, http.StatusConflict},
		{"empty patch", domain.ErrEmptyPatch, http.StatusBadRequest},
		{"password too long", domain.ErrPasswordTooLong, http.StatusBadRequest},
		{"empty query", taskquery.ErrEmptyQuery, http.StatusBadRequest},
		{"invalid request", fmt.Errorf("%w: EOF", ErrInvalidRequest), http.StatusBadRequest},
		{"field validation", domain.NewValidationError("entry", "cannot be empty", nil), http.StatusUnprocessableEntity},
		{"invalid priority", fmt.Errorf("%w: %q", domain.ErrInvalidPriority, "x"), http.StatusUnprocessableEntity},
		{"invalid timestamp", domain.ErrInvalidTimestamp, http.StatusUnprocessableEntity},
		{"invalid entity", store.ErrInvalidEntity, http.StatusUnprocessableEntity},
		{"service wrapping not found", service.NewTaskServiceError("get", "failed", store.ErrTaskNotFound), http.StatusNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "An unexpected error occurred"},
		{"task not found", store.ErrTaskNotFound, "Task not found"},
		{"user not found", store.ErrUserNotFound, "User not found"},
		{"username exists", store.ErrUsernameExists, "Username already exists"},
		{"empty patch", domain.ErrEmptyPatch, "No fields to update"},
		{"password too long", domain.ErrPasswordTooLong, "Password too long"},
		{"empty query", taskquery.ErrEmptyQuery, "Search query cannot be empty"},
		{"field validation", domain.NewValidationError("due", "is required", nil), "due is required"},
		{"internal details hidden", errors.New("pq: password authentication failed for user admin"), "An unexpected error occurred"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, GetSafeErrorMessage(tc.err))
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	err := validator.New().Struct(RegisterRequest{})
	require.Error(t, err)

	msg := SanitizeValidationError(err)
	assert.Equal(t, "Invalid username: required field; Invalid password: required field", msg)
	assert.NotContains(t, msg, "RegisterRequest")

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("other")))
}

func TestHandleAPIError(t *testing.T) {
	t.Run("fallback replaces generic server message", func(t *testing.T) {
		w := httptest.NewRecorder()
		HandleAPIError(w, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("boom"), "Failed to list tasks")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"Failed to list tasks","status":500}`, w.Body.String())
	})

	t.Run("fallback ignored for client errors", func(t *testing.T) {
		w := httptest.NewRecorder()
		HandleAPIError(w, httptest.NewRequest(http.MethodGet, "/", nil), domain.ErrEmptyPatch, "Failed to update task")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"No fields to update","status":400}`, w.Body.String())
	})
}
