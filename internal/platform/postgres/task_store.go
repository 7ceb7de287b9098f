package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/domain/taskquery"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// taskRow is the scan target for the tasks table.
type taskRow struct {
	ID          int64           `db:"id"`
	Entry       string          `db:"entry"`
	Priority    domain.Priority `db:"priority"`
	Due         time.Time       `db:"due"`
	Completed   bool            `db:"completed"`
	CompletedAt *time.Time      `db:"completed_at"`
}

func (r taskRow) toDomain() domain.Task {
	t := domain.Task{
		ID:        r.ID,
		Entry:     r.Entry,
		Priority:  r.Priority,
		Due:       r.Due.UTC(),
		Completed: r.Completed,
	}
	if r.CompletedAt != nil {
		at := r.CompletedAt.UTC()
		t.CompletedAt = &at
	}
	return t
}

func rowsToDomain(rows []taskRow) []domain.Task {
	out := make([]domain.Task, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out
}

// TaskStore implements store.TaskStore on PostgreSQL.
type TaskStore struct {
	db *sqlx.DB
}

var _ store.TaskStore = (*TaskStore)(nil)

// NewTaskStore creates a TaskStore. The caller owns db.
func NewTaskStore(db *sqlx.DB) *TaskStore {
	return &TaskStore{db: db}
}

// Create implements store.TaskStore.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	const q = `
		INSERT INTO tasks (entry, entry_lower, priority, due, completed, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + taskColumns
	var completedAt *time.Time
	if task.CompletedAt != nil {
		at := task.CompletedAt.UTC()
		completedAt = &at
	}
	var row taskRow
	err := s.db.QueryRowxContext(ctx, q,
		task.Entry, taskquery.Fold(task.Entry), task.Priority, task.Due.UTC(), task.Completed, completedAt,
	).StructScan(&row)
	if err != nil {
		logger.FromContext(ctx).Error("failed to insert task", "error", err)
		return store.NewStoreError("task", "create", "insert failed", MapError(err))
	}
	// timestamptz keeps microseconds; hand back what a later read returns
	*task = row.toDomain()
	return nil
}

// GetByID implements store.TaskStore.
func (s *TaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	t, err := getTask(ctx, s.db, id, false)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func getTask(ctx context.Context, db store.DBTX, id int64, forUpdate bool) (*domain.Task, error) {
	q := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	if forUpdate {
		q += ` FOR UPDATE`
	}
	var row taskRow
	if err := db.GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(MapError(err), store.ErrNotFound) {
			return nil, store.ErrTaskNotFound
		}
		return nil, store.NewStoreError("task", "get", "query failed", err)
	}
	t := row.toDomain()
	return &t, nil
}

// List implements store.TaskStore.
func (s *TaskStore) List(ctx context.Context, params taskquery.Params) (*taskquery.Page, error) {
	p := params.Normalize()
	lq := buildListQuery(p)

	var total int
	if err := s.db.GetContext(ctx, &total, lq.count, lq.countArgs...); err != nil {
		return nil, store.NewStoreError("task", "list", "count failed", err)
	}

	var rows []taskRow
	if err := s.db.SelectContext(ctx, &rows, lq.list, lq.listArgs...); err != nil {
		return nil, store.NewStoreError("task", "list", "query failed", err)
	}

	return &taskquery.Page{
		Data:       rowsToDomain(rows),
		Pagination: taskquery.NewPagination(total, p.Skip, p.Limit),
	}, nil
}

// Search implements store.TaskStore.
func (s *TaskStore) Search(ctx context.Context, terms []string, limit int) ([]domain.Task, error) {
	if len(terms) == 0 {
		return []domain.Task{}, nil
	}
	q, args := buildSearchQuery(terms, limit)
	var rows []taskRow
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, store.NewStoreError("task", "search", "query failed", err)
	}
	return rowsToDomain(rows), nil
}

// Update implements store.TaskStore. The row is locked while the patch is
// checked against it.
func (s *TaskStore) Update(ctx context.Context, id int64, patch domain.TaskPatch, now time.Time) (*domain.Task, error) {
	var updated domain.Task
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		current, err := getTask(ctx, tx, id, true)
		if err != nil {
			return err
		}

		next := current.Clone()
		patch.Apply(&next, now)
		if err := next.Validate(); err != nil {
			return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
		}

		fields := patch.Fields(now)
		if len(fields) == 0 {
			updated = *current
			return nil
		}

		q, args := buildUpdateQuery(id, fields)
		var row taskRow
		if err := tx.GetContext(ctx, &row, q, args...); err != nil {
			return store.NewStoreError("task", "update", "update failed", MapError(err))
		}
		updated = row.toDomain()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete implements store.TaskStore.
func (s *TaskStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return store.NewStoreError("task", "delete", "delete failed", err)
	}
	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// Count implements store.TaskStore.
func (s *TaskStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM tasks`); err != nil {
		return 0, store.NewStoreError("task", "count", "query failed", err)
	}
	return n, nil
}
