package store

import (
	"context"
	"time"

	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/domain/taskquery"
)

// TaskStore defines the interface for task persistence.
type TaskStore interface {
	// Create assigns the next ID to task and saves it.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// List runs the query pipeline and returns one page of results.
	// Params must already be validated.
	List(ctx context.Context, params taskquery.Params) (*taskquery.Page, error)

	// Search returns up to limit tasks whose entry contains any of terms,
	// in ascending ID order. Terms are lower-case.
	Search(ctx context.Context, terms []string, limit int) ([]domain.Task, error)

	// Update applies the patch to the task with the given ID and returns the
	// updated task. now resolves completed_at stamping.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, id int64, patch domain.TaskPatch, now time.Time) (*domain.Task, error)

	// Delete removes the task with the given ID.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id int64) error

	// Count returns the number of stored tasks.
	Count(ctx context.Context) (int, error)
}
