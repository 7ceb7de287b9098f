package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingHandler collects the events it receives.
type recordingHandler struct {
	mu     sync.Mutex
	events []*TaskEvent
	err    error
}

func (h *recordingHandler) HandleEvent(_ context.Context, event *TaskEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return h.err
}

func TestNewTaskEvent(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.FixedZone("x", 3600))
	a := NewTaskEvent(TaskCreated, 3, at)
	b := NewTaskEvent(TaskCreated, 3, at)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, TaskCreated, a.Type)
	assert.Equal(t, int64(3), a.TaskID)
	assert.Equal(t, time.UTC, a.OccurredAt.Location())
	assert.True(t, at.Equal(a.OccurredAt))
}

func TestInMemoryEventEmitter(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	event := NewTaskEvent(TaskDeleted, 9, time.Now())

	t.Run("no handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		assert.NoError(t, emitter.EmitEvent(context.Background(), event))
	})

	t.Run("every handler receives the event", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		h1, h2 := &recordingHandler{}, &recordingHandler{}
		emitter.RegisterHandler(h1)
		emitter.RegisterHandler(h2)

		require.NoError(t, emitter.EmitEvent(context.Background(), event))
		assert.Equal(t, []*TaskEvent{event}, h1.events)
		assert.Equal(t, []*TaskEvent{event}, h2.events)
	})

	t.Run("failing handler does not stop delivery", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		failing := &recordingHandler{err: errors.New("handler error")}
		after := &recordingHandler{}
		emitter.RegisterHandler(failing)
		emitter.RegisterHandler(after)

		err := emitter.EmitEvent(context.Background(), event)
		require.Error(t, err)
		assert.Equal(t, "handler error", err.Error())
		assert.Len(t, after.events, 1)
	})

	t.Run("handler func", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		var got Type
		emitter.RegisterHandler(HandlerFunc(func(_ context.Context, e *TaskEvent) error {
			got = e.Type
			return nil
		}))
		require.NoError(t, emitter.EmitEvent(context.Background(), event))
		assert.Equal(t, TaskDeleted, got)
	})
}

func TestDiscard(t *testing.T) {
	assert.NoError(t, Discard.EmitEvent(context.Background(), NewTaskEvent(TaskCreated, 1, time.Now())))
}
