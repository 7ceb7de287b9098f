package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/taskflow-api/internal/api/shared"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/domain/taskquery"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/service"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// TaskHandler handles the /tasks and /search endpoints.
type TaskHandler struct {
	tasks  service.TaskService
	logger *slog.Logger
	now    func() time.Time
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}
	return &TaskHandler{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "task_handler")),
		now:    time.Now,
	}
}

// WithClock replaces the clock used to derive is_overdue and returns h.
func (h *TaskHandler) WithClock(now func() time.Time) *TaskHandler {
	h.now = now
	return h
}

// List handles GET /tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	params, err := parseListParams(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	page, err := h.tasks.List(r.Context(), params)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}

	log.Debug("listed tasks",
		slog.Int("returned", len(page.Data)),
		slog.Int("total", page.Pagination.Total))
	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskListResponse(page, h.now()))
}

// Get handles GET /tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	task, err := h.tasks.Get(r.Context(), id)
	if err != nil {
		h.respondTaskError(w, r, id, err, "Failed to get task")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(*task, h.now()))
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, fmt.Errorf("%w: %w", ErrInvalidRequest, err), "")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	in, err := req.ToInput()
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.tasks.Create(r.Context(), in)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}

	log.Debug("task created", slog.Int64("task_id", task.ID))
	shared.RespondWithJSON(w, r, http.StatusCreated, NewTaskResponse(*task, h.now()))
}

// Update handles PATCH /tasks/{id}. The id is resolved before the body is
// inspected, so an unknown id wins over an empty patch.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil && !errors.Is(err, shared.ErrEmptyBody) {
		HandleAPIError(w, r, fmt.Errorf("%w: %w", ErrInvalidRequest, err), "")
		return
	}
	patch, err := req.ToPatch()
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.tasks.Update(r.Context(), id, patch)
	if err != nil {
		h.respondTaskError(w, r, id, err, "Failed to update task")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(*task, h.now()))
}

// Delete handles DELETE /tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.tasks.Delete(r.Context(), id); err != nil {
		h.respondTaskError(w, r, id, err, "Failed to delete task")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathID parses the {id} URL parameter and writes a 422 response when it is
// not a positive integer.
func (h *TaskHandler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		logger.FromContextOrDefault(r.Context(), h.logger).Debug("invalid task id", slog.String("value", raw))
		HandleAPIError(w, r, domain.NewValidationError("id", "must be a positive integer", nil), "")
		return 0, false
	}
	return id, true
}

func (h *TaskHandler) respondTaskError(w http.ResponseWriter, r *http.Request, id int64, err error, fallback string) {
	if errors.Is(err, store.ErrTaskNotFound) {
		shared.RespondWithErrorAndLog(w, r, http.StatusNotFound, fmt.Sprintf("Task with ID %d not found", id), err)
		return
	}
	HandleAPIError(w, r, err, fallback)
}

// parseListParams reads the list query string on top of the defaults. Sort
// and order fall back to their defaults when unrecognized; malformed numbers,
// priorities and dates are validation errors.
func parseListParams(r *http.Request) (taskquery.Params, error) {
	q := r.URL.Query()
	p := taskquery.DefaultParams()

	var err error
	if p.Skip, err = intParam(q.Get("skip"), "skip", p.Skip); err != nil {
		return p, err
	}
	if p.Limit, err = intParam(q.Get("limit"), "limit", p.Limit); err != nil {
		return p, err
	}
	if v := q.Get("order"); v != "" {
		p.Order = taskquery.ParseOrder(v)
	}
	if v := q.Get("sort"); v != "" {
		p.Sort = taskquery.ParseSortKey(v)
	}
	if v := q.Get("priority"); v != "" {
		prio, err := domain.ParsePriority(v)
		if err != nil {
			return p, domain.NewValidationError("priority", "must be one of high, medium, low", err)
		}
		p.Priority = &prio
	}
	if v := q.Get("due_before"); v != "" {
		t, err := parseTimestampField("due_before", v)
		if err != nil {
			return p, err
		}
		p.DueBefore = &t
	}
	if v := q.Get("due_after"); v != "" {
		t, err := parseTimestampField("due_after", v)
		if err != nil {
			return p, err
		}
		p.DueAfter = &t
	}
	return p, nil
}

func intParam(raw, name string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError(name, "must be an integer", nil)
	}
	return n, nil
}
