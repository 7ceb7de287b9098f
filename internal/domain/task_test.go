package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	testDue = time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
)

func ptr[T any](v T) *T { return &v }

func TestNewTask(t *testing.T) {
	t.Run("defaults priority", func(t *testing.T) {
		task, err := NewTask("  buy milk ", "", testDue, false, nil, testNow)
		require.NoError(t, err)
		assert.Equal(t, "buy milk", task.Entry)
		assert.Equal(t, PriorityMedium, task.Priority)
		assert.False(t, task.Completed)
		assert.Nil(t, task.CompletedAt)
		assert.Zero(t, task.ID)
	})

	t.Run("stamps completed tasks", func(t *testing.T) {
		task, err := NewTask("file taxes", PriorityHigh, testDue, true, nil, testNow)
		require.NoError(t, err)
		require.NotNil(t, task.CompletedAt)
		assert.True(t, testNow.Equal(*task.CompletedAt))
	})

	t.Run("keeps explicit completion time", func(t *testing.T) {
		at := testNow.Add(-time.Hour)
		task, err := NewTask("file taxes", PriorityHigh, testDue, true, &at, testNow)
		require.NoError(t, err)
		assert.True(t, at.Equal(*task.CompletedAt))
	})

	t.Run("rejects completion time on open task", func(t *testing.T) {
		at := testNow
		_, err := NewTask("file taxes", PriorityHigh, testDue, false, &at, testNow)
		require.Error(t, err)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "completed_at", verr.Field)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("rejects empty entry", func(t *testing.T) {
		_, err := NewTask("   ", PriorityLow, testDue, false, nil, testNow)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("rejects bad priority", func(t *testing.T) {
		_, err := NewTask("x", Priority("urgent"), testDue, false, nil, testNow)
		assert.ErrorIs(t, err, ErrInvalidPriority)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("requires due", func(t *testing.T) {
		_, err := NewTask("x", PriorityLow, time.Time{}, false, nil, testNow)
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestTaskIsOverdue(t *testing.T) {
	past := testNow.Add(-24 * time.Hour)
	future := testNow.Add(24 * time.Hour)
	done := testNow

	assert.True(t, (&Task{Due: past}).IsOverdue(testNow))
	assert.False(t, (&Task{Due: future}).IsOverdue(testNow))
	assert.False(t, (&Task{Due: past, Completed: true, CompletedAt: &done}).IsOverdue(testNow))
}

func TestTaskClone(t *testing.T) {
	at := testNow
	orig := Task{ID: 1, Entry: "a", CompletedAt: &at, Completed: true}
	c := orig.Clone()
	*c.CompletedAt = testNow.Add(time.Hour)
	assert.True(t, testNow.Equal(*orig.CompletedAt))
}

func TestTaskPatchApply(t *testing.T) {
	base := func() Task {
		return Task{ID: 7, Entry: "write report", Priority: PriorityLow, Due: testDue}
	}

	t.Run("completing stamps now", func(t *testing.T) {
		task := base()
		TaskPatch{Completed: ptr(true)}.Apply(&task, testNow)
		assert.True(t, task.Completed)
		require.NotNil(t, task.CompletedAt)
		assert.True(t, testNow.Equal(*task.CompletedAt))
	})

	t.Run("explicit completion time wins", func(t *testing.T) {
		task := base()
		at := testNow.Add(-2 * time.Hour)
		TaskPatch{Completed: ptr(true), CompletedAt: &at}.Apply(&task, testNow)
		assert.True(t, at.Equal(*task.CompletedAt))
	})

	t.Run("reopening clears completion time", func(t *testing.T) {
		task := base()
		task.Completed = true
		task.CompletedAt = ptr(testNow)
		TaskPatch{Completed: ptr(false)}.Apply(&task, testNow)
		assert.False(t, task.Completed)
		assert.Nil(t, task.CompletedAt)
	})

	t.Run("untouched fields survive", func(t *testing.T) {
		task := base()
		p := PriorityHigh
		TaskPatch{Priority: &p, Entry: ptr("  rewrite report ")}.Apply(&task, testNow)
		assert.Equal(t, int64(7), task.ID)
		assert.Equal(t, "rewrite report", task.Entry)
		assert.Equal(t, PriorityHigh, task.Priority)
		assert.True(t, testDue.Equal(task.Due))
		assert.False(t, task.Completed)
	})
}

func TestTaskPatchCheck(t *testing.T) {
	open := Task{ID: 1, Entry: "e", Priority: PriorityLow, Due: testDue}
	done := Task{ID: 2, Entry: "e", Priority: PriorityLow, Due: testDue, Completed: true, CompletedAt: ptr(testNow)}

	assert.ErrorIs(t, TaskPatch{}.Check(open, testNow), ErrEmptyPatch)
	assert.ErrorIs(t, TaskPatch{Entry: ptr(" ")}.Check(open, testNow), ErrValidation)
	assert.ErrorIs(t, TaskPatch{Priority: ptr(Priority("x"))}.Check(open, testNow), ErrInvalidPriority)

	// completed_at alone is only valid on an already completed task
	assert.ErrorIs(t, TaskPatch{CompletedAt: ptr(testNow)}.Check(open, testNow), ErrValidation)
	assert.NoError(t, TaskPatch{CompletedAt: ptr(testNow)}.Check(done, testNow))

	assert.ErrorIs(t, TaskPatch{Completed: ptr(false), CompletedAt: ptr(testNow)}.Check(done, testNow), ErrValidation)
	assert.NoError(t, TaskPatch{Completed: ptr(true)}.Check(open, testNow))
}

func TestTaskPatchFields(t *testing.T) {
	fields := TaskPatch{Entry: ptr("x"), Completed: ptr(false)}.Fields(testNow)
	require.Len(t, fields, 3)
	assert.Equal(t, "entry", fields[0].Column)
	assert.Equal(t, "completed", fields[1].Column)
	assert.Equal(t, "completed_at", fields[2].Column)
	assert.Nil(t, fields[2].Value.(*time.Time))

	assert.Empty(t, TaskPatch{}.Fields(testNow))
	assert.True(t, TaskPatch{}.IsEmpty())
}
