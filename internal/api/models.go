package api

import (
	"time"

	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/domain/taskquery"
	"github.com/phrazzld/taskflow-api/internal/service"
)

// CreateTaskRequest is the payload of POST /tasks. Dates are parsed by
// domain.ParseTimestamp; priority is case-insensitive and defaults to medium.
type CreateTaskRequest struct {
	Entry       string  `json:"entry"        validate:"required"`
	Priority    string  `json:"priority"`
	Due         string  `json:"due"          validate:"required"`
	Completed   bool    `json:"completed"`
	CompletedAt *string `json:"completed_at"`
}

// ToInput converts the request into service input.
func (r CreateTaskRequest) ToInput() (service.CreateTaskInput, error) {
	in := service.CreateTaskInput{Entry: r.Entry, Completed: r.Completed}

	if r.Priority != "" {
		p, err := domain.ParsePriority(r.Priority)
		if err != nil {
			return in, domain.NewValidationError("priority", "must be one of high, medium, low", err)
		}
		in.Priority = p
	}

	due, err := parseTimestampField("due", r.Due)
	if err != nil {
		return in, err
	}
	in.Due = due

	if r.CompletedAt != nil {
		at, err := parseTimestampField("completed_at", *r.CompletedAt)
		if err != nil {
			return in, err
		}
		in.CompletedAt = &at
	}
	return in, nil
}

// UpdateTaskRequest is the payload of PATCH /tasks/{id}. Absent and null
// fields are left untouched.
type UpdateTaskRequest struct {
	Entry       *string `json:"entry"`
	Priority    *string `json:"priority"`
	Due         *string `json:"due"`
	Completed   *bool   `json:"completed"`
	CompletedAt *string `json:"completed_at"`
}

// ToPatch converts the request into a domain patch.
func (r UpdateTaskRequest) ToPatch() (domain.TaskPatch, error) {
	patch := domain.TaskPatch{Entry: r.Entry, Completed: r.Completed}

	if r.Priority != nil {
		p, err := domain.ParsePriority(*r.Priority)
		if err != nil {
			return patch, domain.NewValidationError("priority", "must be one of high, medium, low", err)
		}
		patch.Priority = &p
	}
	if r.Due != nil {
		due, err := parseTimestampField("due", *r.Due)
		if err != nil {
			return patch, err
		}
		patch.Due = &due
	}
	if r.CompletedAt != nil {
		at, err := parseTimestampField("completed_at", *r.CompletedAt)
		if err != nil {
			return patch, err
		}
		patch.CompletedAt = &at
	}
	return patch, nil
}

func parseTimestampField(field, value string) (time.Time, error) {
	t, err := domain.ParseTimestamp(value)
	if err != nil {
		return time.Time{}, domain.NewValidationError(field, "must be a date (YYYY-MM-DD) or date-time", err)
	}
	return t, nil
}

// TaskResponse is the wire form of a task.
type TaskResponse struct {
	ID          int64      `json:"id"`
	Entry       string     `json:"entry"`
	Priority    string     `json:"priority"`
	Due         time.Time  `json:"due"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
	IsOverdue   bool       `json:"is_overdue"`
}

// NewTaskResponse converts t, deriving is_overdue against now.
func NewTaskResponse(t domain.Task, now time.Time) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Entry:       t.Entry,
		Priority:    t.Priority.String(),
		Due:         t.Due.UTC(),
		Completed:   t.Completed,
		CompletedAt: t.CompletedAt,
		IsOverdue:   t.IsOverdue(now),
	}
}

// NewTaskResponses converts a slice of tasks. It never returns nil so an
// empty result serializes as [].
func NewTaskResponses(tasks []domain.Task, now time.Time) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, NewTaskResponse(t, now))
	}
	return out
}

// TaskListResponse is the body of GET /tasks.
type TaskListResponse struct {
	Data       []TaskResponse       `json:"data"`
	Pagination taskquery.Pagination `json:"pagination"`
}

// NewTaskListResponse converts a page.
func NewTaskListResponse(page *taskquery.Page, now time.Time) TaskListResponse {
	return TaskListResponse{
		Data:       NewTaskResponses(page.Data, now),
		Pagination: page.Pagination,
	}
}

// RegisterRequest is the payload of POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterResponse is the body of a successful registration. It never
// carries the password or its hash.
type RegisterResponse struct {
	Username   string    `json:"username"`
	Role       string    `json:"role"`
	SignupDate time.Time `json:"signup_date"`
}

// HomeResponse is the body of GET /.
type HomeResponse struct {
	Message string `json:"message"`
	Backend string `json:"backend"`
	Tasks   int    `json:"tasks"`
}
