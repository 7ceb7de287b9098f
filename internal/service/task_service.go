package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/domain/taskquery"
	"github.com/phrazzld/taskflow-api/internal/events"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/redact"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// CreateTaskInput carries the fields of a new task. A zero Priority means
// the default priority.
type CreateTaskInput struct {
	Entry       string
	Priority    domain.Priority
	Due         time.Time
	Completed   bool
	CompletedAt *time.Time
}

// TaskService provides task operations.
type TaskService interface {
	// List returns one page of tasks. Params are validated before use.
	List(ctx context.Context, params taskquery.Params) (*taskquery.Page, error)

	// Get returns a single task.
	Get(ctx context.Context, id int64) (*domain.Task, error)

	// Create validates and stores a new task.
	Create(ctx context.Context, in CreateTaskInput) (*domain.Task, error)

	// Update applies a partial update and returns the full task.
	Update(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error)

	// Delete removes a task.
	Delete(ctx context.Context, id int64) error

	// Search returns tasks whose entry contains any word of query.
	// A non-positive limit selects the configured default.
	Search(ctx context.Context, query string, limit int) ([]domain.Task, error)

	// Count returns the number of stored tasks.
	Count(ctx context.Context) (int, error)
}

// SearchOptions configures TaskService.Search.
type SearchOptions struct {
	DefaultLimit  int
	DropStopWords bool
}

// DefaultSearchOptions returns the search behavior used when none is configured.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{DefaultLimit: taskquery.DefaultSearchLimit, DropStopWords: true}
}

type taskServiceImpl struct {
	tasks   store.TaskStore
	emitter events.EventEmitter
	search  SearchOptions
	now     func() time.Time
	logger  *slog.Logger
}

// TaskServiceOption customizes a TaskService.
type TaskServiceOption func(*taskServiceImpl)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) TaskServiceOption {
	return func(s *taskServiceImpl) { s.now = now }
}

// WithEventEmitter publishes lifecycle events to emitter.
func WithEventEmitter(emitter events.EventEmitter) TaskServiceOption {
	return func(s *taskServiceImpl) { s.emitter = emitter }
}

// WithSearchOptions overrides the search defaults.
func WithSearchOptions(opts SearchOptions) TaskServiceOption {
	return func(s *taskServiceImpl) { s.search = opts }
}

// NewTaskService creates a TaskService on top of tasks.
func NewTaskService(tasks store.TaskStore, logger *slog.Logger, opts ...TaskServiceOption) TaskService {
	s := &taskServiceImpl{
		tasks:   tasks,
		emitter: events.Discard,
		search:  DefaultSearchOptions(),
		now:     time.Now,
		logger:  logger.With("component", "task_service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.search.DefaultLimit <= 0 || s.search.DefaultLimit > taskquery.MaxSearchLimit {
		s.search.DefaultLimit = taskquery.DefaultSearchLimit
	}
	return s
}

func (s *taskServiceImpl) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}

// List implements TaskService.
func (s *taskServiceImpl) List(ctx context.Context, params taskquery.Params) (*taskquery.Page, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	page, err := s.tasks.List(ctx, params.Normalize())
	if err != nil {
		s.log(ctx).Error("failed to list tasks", "error", redact.Error(err))
		return nil, NewTaskServiceError("list", "failed to list tasks", err)
	}
	return page, nil
}

// Get implements TaskService.
func (s *taskServiceImpl) Get(ctx context.Context, id int64) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, s.storeError(ctx, "get", "failed to get task", err, "task_id", id)
	}
	return task, nil
}

// Create implements TaskService.
func (s *taskServiceImpl) Create(ctx context.Context, in CreateTaskInput) (*domain.Task, error) {
	now := s.now()
	task, err := domain.NewTask(in.Entry, in.Priority, in.Due, in.Completed, in.CompletedAt, now)
	if err != nil {
		return nil, err
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, s.storeError(ctx, "create", "failed to create task", err)
	}

	s.log(ctx).Debug("created task", "task_id", task.ID, "priority", task.Priority)
	s.emit(ctx, events.TaskCreated, task.ID, now)
	return task, nil
}

// Update implements TaskService.
func (s *taskServiceImpl) Update(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error) {
	current, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, s.storeError(ctx, "update", "failed to load task", err, "task_id", id)
	}

	now := s.now()
	if err := patch.Check(*current, now); err != nil {
		return nil, err
	}

	updated, err := s.tasks.Update(ctx, id, patch, now)
	if err != nil {
		return nil, s.storeError(ctx, "update", "failed to update task", err, "task_id", id)
	}

	s.emit(ctx, events.TaskUpdated, id, now)
	if updated.Completed && !current.Completed {
		s.emit(ctx, events.TaskCompleted, id, now)
	}
	return updated, nil
}

// Delete implements TaskService.
func (s *taskServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		return s.storeError(ctx, "delete", "failed to delete task", err, "task_id", id)
	}
	s.emit(ctx, events.TaskDeleted, id, s.now())
	return nil
}

// Search implements TaskService.
func (s *taskServiceImpl) Search(ctx context.Context, query string, limit int) ([]domain.Task, error) {
	if limit <= 0 {
		limit = s.search.DefaultLimit
	}
	if limit > taskquery.MaxSearchLimit {
		return nil, domain.NewValidationError("limit", "must be between 1 and 100", nil)
	}

	terms, err := taskquery.Terms(query, s.search.DropStopWords)
	if err != nil {
		return nil, err
	}
	if len(terms) == 0 {
		return []domain.Task{}, nil
	}

	tasks, err := s.tasks.Search(ctx, terms, limit)
	if err != nil {
		s.log(ctx).Error("failed to search tasks", "error", redact.Error(err))
		return nil, NewTaskServiceError("search", "failed to search tasks", err)
	}
	return tasks, nil
}

// Count implements TaskService.
func (s *taskServiceImpl) Count(ctx context.Context) (int, error) {
	n, err := s.tasks.Count(ctx)
	if err != nil {
		return 0, NewTaskServiceError("count", "failed to count tasks", err)
	}
	return n, nil
}

// storeError passes expected store conditions through untouched and wraps
// anything else after logging it.
func (s *taskServiceImpl) storeError(ctx context.Context, op, msg string, err error, attrs ...any) error {
	if store.IsNotFoundError(err) || errors.Is(err, domain.ErrValidation) {
		return err
	}
	s.log(ctx).Error(msg, append(attrs, "error", redact.Error(err))...)
	return NewTaskServiceError(op, msg, err)
}

// emit publishes an event. Handler failures are logged by the emitter and
// never fail the request.
func (s *taskServiceImpl) emit(ctx context.Context, t events.Type, taskID int64, at time.Time) {
	if err := s.emitter.EmitEvent(ctx, events.NewTaskEvent(t, taskID, at)); err != nil {
		s.log(ctx).Warn("task event not fully delivered", "event_type", string(t), "task_id", taskID)
	}
}
