package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Type names what happened to a task.
type Type string

// Lifecycle event types.
const (
	TaskCreated   Type = "task.created"
	TaskUpdated   Type = "task.updated"
	TaskCompleted Type = "task.completed"
	TaskDeleted   Type = "task.deleted"
)

// TaskEvent records a single change to a task.
type TaskEvent struct {
	ID         uuid.UUID `json:"id"`
	Type       Type      `json:"type"`
	TaskID     int64     `json:"task_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewTaskEvent creates an event with a fresh ID.
func NewTaskEvent(eventType Type, taskID int64, at time.Time) *TaskEvent {
	return &TaskEvent{
		ID:         uuid.New(),
		Type:       eventType,
		TaskID:     taskID,
		OccurredAt: at.UTC(),
	}
}

// EventHandler processes events.
type EventHandler interface {
	HandleEvent(ctx context.Context, event *TaskEvent) error
}

// EventEmitter publishes events to handlers without the caller knowing which
// handlers exist.
type EventEmitter interface {
	EmitEvent(ctx context.Context, event *TaskEvent) error
}

// HandlerFunc adapts a function to EventHandler.
type HandlerFunc func(ctx context.Context, event *TaskEvent) error

// HandleEvent calls f.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *TaskEvent) error {
	return f(ctx, event)
}

// Discard is an emitter that drops every event.
var Discard EventEmitter = discard{}

type discard struct{}

func (discard) EmitEvent(context.Context, *TaskEvent) error { return nil }
