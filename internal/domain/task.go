package domain

import (
	"strings"
	"time"
)

// Task is a to-do item.
type Task struct {
	ID          int64      `json:"id"`
	Entry       string     `json:"entry"`
	Priority    Priority   `json:"priority"`
	Due         time.Time  `json:"due"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
}

// NewTask builds a task that is ready to be handed to a store. The store
// assigns the ID. An empty priority becomes DefaultPriority, and a completed
// task without a completion time is stamped with now.
func NewTask(entry string, priority Priority, due time.Time, completed bool, completedAt *time.Time, now time.Time) (*Task, error) {
	if priority == "" {
		priority = DefaultPriority
	}
	t := &Task{
		Entry:     strings.TrimSpace(entry),
		Priority:  priority,
		Due:       due.UTC(),
		Completed: completed,
	}
	if completedAt != nil {
		at := completedAt.UTC()
		t.CompletedAt = &at
	}
	if t.Completed && t.CompletedAt == nil {
		at := now.UTC()
		t.CompletedAt = &at
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks the task invariants that do not depend on storage.
func (t *Task) Validate() error {
	if t.Entry == "" {
		return NewValidationError("entry", "cannot be empty", nil)
	}
	if !t.Priority.Valid() {
		return NewValidationError("priority", "must be one of high, medium, low", ErrInvalidPriority)
	}
	if t.Due.IsZero() {
		return NewValidationError("due", "is required", nil)
	}
	if t.CompletedAt != nil && !t.Completed {
		return NewValidationError("completed_at", "requires completed to be true", nil)
	}
	return nil
}

// IsOverdue reports whether the task is past due and was never completed.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.Due.Before(now) && t.CompletedAt == nil
}

// Clone returns a deep copy of t.
func (t Task) Clone() Task {
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		t.CompletedAt = &at
	}
	return t
}

// TaskPatch is a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Entry       *string
	Priority    *Priority
	Due         *time.Time
	Completed   *bool
	CompletedAt *time.Time
}

// IsEmpty reports whether the patch carries no fields.
func (p TaskPatch) IsEmpty() bool {
	return p.Entry == nil && p.Priority == nil && p.Due == nil && p.Completed == nil && p.CompletedAt == nil
}

// Field is one resolved column assignment of a patch.
type Field struct {
	Column string
	Value  any
}

// Fields resolves the patch into the column assignments a store must apply.
// Setting completed stamps completed_at with now (true) or clears it (false);
// an explicit completed_at overrides the stamp.
func (p TaskPatch) Fields(now time.Time) []Field {
	var fields []Field
	if p.Entry != nil {
		fields = append(fields, Field{Column: "entry", Value: strings.TrimSpace(*p.Entry)})
	}
	if p.Priority != nil {
		fields = append(fields, Field{Column: "priority", Value: *p.Priority})
	}
	if p.Due != nil {
		fields = append(fields, Field{Column: "due", Value: p.Due.UTC()})
	}

	var completedAt *time.Time
	touchCompletedAt := false
	if p.Completed != nil {
		fields = append(fields, Field{Column: "completed", Value: *p.Completed})
		touchCompletedAt = true
		if *p.Completed {
			at := now.UTC()
			completedAt = &at
		}
	}
	if p.CompletedAt != nil {
		at := p.CompletedAt.UTC()
		completedAt = &at
		touchCompletedAt = true
	}
	if touchCompletedAt {
		fields = append(fields, Field{Column: "completed_at", Value: completedAt})
	}
	return fields
}

// Apply merges the patch into t.
func (p TaskPatch) Apply(t *Task, now time.Time) {
	for _, f := range p.Fields(now) {
		switch f.Column {
		case "entry":
			t.Entry = f.Value.(string)
		case "priority":
			t.Priority = f.Value.(Priority)
		case "due":
			t.Due = f.Value.(time.Time)
		case "completed":
			t.Completed = f.Value.(bool)
		case "completed_at":
			t.CompletedAt = f.Value.(*time.Time)
		}
	}
}

// Check validates the patch against the task it will be applied to.
func (p TaskPatch) Check(current Task, now time.Time) error {
	if p.IsEmpty() {
		return ErrEmptyPatch
	}
	if p.Entry != nil && strings.TrimSpace(*p.Entry) == "" {
		return NewValidationError("entry", "cannot be empty", nil)
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return NewValidationError("priority", "must be one of high, medium, low", ErrInvalidPriority)
	}
	if p.Due != nil && p.Due.IsZero() {
		return NewValidationError("due", "cannot be zero", nil)
	}
	next := current.Clone()
	p.Apply(&next, now)
	if next.CompletedAt != nil && !next.Completed {
		return NewValidationError("completed_at", "requires completed to be true", nil)
	}
	return nil
}
