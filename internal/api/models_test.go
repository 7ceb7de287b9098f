package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTaskRequest_ToInput(t *testing.T) {
	at := "2024-06-01T10:00:00+02:00"
	in, err := CreateTaskRequest{Entry: "x", Priority: " Low ", Due: "2024-06-02", Completed: true, CompletedAt: &at}.ToInput()
	require.NoError(t, err)

	assert.Equal(t, domain.PriorityLow, in.Priority)
	assert.Equal(t, time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), in.Due)
	require.NotNil(t, in.CompletedAt)
	assert.Equal(t, time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC), *in.CompletedAt)

	in, err = CreateTaskRequest{Entry: "x", Due: "2024-06-02"}.ToInput()
	require.NoError(t, err)
	assert.Equal(t, domain.Priority(""), in.Priority, "left for the service to default")

	_, err = CreateTaskRequest{Entry: "x", Priority: "urgent", Due: "2024-06-02"}.ToInput()
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "priority", verr.Field)
	assert.ErrorIs(t, err, domain.ErrInvalidPriority)
}

func TestUpdateTaskRequest_ToPatch(t *testing.T) {
	var req UpdateTaskRequest
	require.NoError(t, json.Unmarshal([]byte(`{"priority":"HIGH","due":"2024-07-01T12:00:00"}`), &req))

	patch, err := req.ToPatch()
	require.NoError(t, err)
	assert.Nil(t, patch.Entry)
	assert.Nil(t, patch.Completed)
	require.NotNil(t, patch.Priority)
	assert.Equal(t, domain.PriorityHigh, *patch.Priority)
	require.NotNil(t, patch.Due)
	assert.Equal(t, time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC), *patch.Due)

	empty, err := UpdateTaskRequest{}.ToPatch()
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())

	bad := "not a date"
	_, err = UpdateTaskRequest{CompletedAt: &bad}.ToPatch()
	assert.ErrorIs(t, err, domain.ErrInvalidTimestamp)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNewTaskResponse(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	done := now.Add(-time.Hour)

	overdue := NewTaskResponse(domain.Task{ID: 1, Entry: "a", Priority: domain.PriorityHigh, Due: now.Add(-24 * time.Hour)}, now)
	assert.True(t, overdue.IsOverdue)

	completed := NewTaskResponse(domain.Task{ID: 2, Entry: "b", Priority: domain.PriorityLow, Due: now.Add(-24 * time.Hour), Completed: true, CompletedAt: &done}, now)
	assert.False(t, completed.IsOverdue)

	future := NewTaskResponse(domain.Task{ID: 3, Entry: "c", Priority: domain.PriorityMedium, Due: now.Add(time.Hour)}, now)
	assert.False(t, future.IsOverdue)

	raw, err := json.Marshal(overdue)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"entry":"a","priority":"high","due":"2024-06-14T00:00:00Z","completed":false,"completed_at":null,"is_overdue":true}`, string(raw))
}

func TestNewTaskResponses_NeverNil(t *testing.T) {
	raw, err := json.Marshal(NewTaskResponses(nil, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}
