package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/domain/taskquery"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// TaskStore is a store.TaskStore backed by gorm.
type TaskStore struct {
	db *gorm.DB
}

var _ store.TaskStore = (*TaskStore)(nil)

// NewTaskStore creates a TaskStore on an opened database.
func NewTaskStore(db *gorm.DB) *TaskStore {
	return &TaskStore{db: db}
}

// Create implements store.TaskStore.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	m := newTaskModel(task)
	m.ID = 0
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return store.NewStoreError("task", "create", "insert failed", err)
	}
	task.ID = m.ID
	return nil
}

// GetByID implements store.TaskStore.
func (s *TaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	m, err := s.find(s.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	t := m.toDomain()
	return &t, nil
}

// List implements store.TaskStore.
func (s *TaskStore) List(ctx context.Context, params taskquery.Params) (*taskquery.Page, error) {
	p := params.Normalize()

	q := s.db.WithContext(ctx).Model(&taskModel{})
	if p.Priority != nil {
		q = q.Where("priority = ?", strings.ToLower(string(*p.Priority)))
	}
	if p.DueAfter != nil {
		q = q.Where("due >= ?", p.DueAfter.UTC())
	}
	if p.DueBefore != nil {
		q = q.Where("due <= ?", p.DueBefore.UTC())
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, store.NewStoreError("task", "list", "count failed", err)
	}

	var models []taskModel
	err := q.Order(orderClause(p.Sort, p.Order)).
		Offset(p.Skip).
		Limit(p.Limit).
		Find(&models).Error
	if err != nil {
		return nil, store.NewStoreError("task", "list", "query failed", err)
	}

	return &taskquery.Page{
		Data:       toDomainAll(models),
		Pagination: taskquery.NewPagination(int(total), p.Skip, p.Limit),
	}, nil
}

// orderClause sorts by the requested key and breaks ties by ascending id in
// both directions, matching the stable in-process sort.
func orderClause(key taskquery.SortKey, order taskquery.Order) string {
	dir := "ASC"
	if order == taskquery.Desc {
		dir = "DESC"
	}
	switch key {
	case taskquery.SortByPriority:
		return "priority " + dir + ", id ASC"
	case taskquery.SortByEntry:
		return "entry_lower " + dir + ", id ASC"
	default:
		return "id " + dir
	}
}

// Search implements store.TaskStore.
func (s *TaskStore) Search(ctx context.Context, terms []string, limit int) ([]domain.Task, error) {
	if len(terms) == 0 {
		return []domain.Task{}, nil
	}

	clauses := make([]string, len(terms))
	args := make([]any, len(terms))
	for i, term := range terms {
		clauses[i] = `entry_lower LIKE ? ESCAPE '\'`
		args[i] = "%" + store.EscapeLike(taskquery.Fold(term)) + "%"
	}

	q := s.db.WithContext(ctx).
		Where(strings.Join(clauses, " OR "), args...).
		Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var models []taskModel
	if err := q.Find(&models).Error; err != nil {
		return nil, store.NewStoreError("task", "search", "query failed", err)
	}
	return toDomainAll(models), nil
}

// Update implements store.TaskStore.
func (s *TaskStore) Update(ctx context.Context, id int64, patch domain.TaskPatch, now time.Time) (*domain.Task, error) {
	var updated domain.Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := s.find(tx, id)
		if err != nil {
			return err
		}

		updated = m.toDomain()
		patch.Apply(&updated, now)
		if err := updated.Validate(); err != nil {
			return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
		}

		changes := make(map[string]any)
		for _, f := range patch.Fields(now) {
			switch v := f.Value.(type) {
			case domain.Priority:
				changes[f.Column] = string(v)
			case string:
				changes[f.Column] = v
				if f.Column == "entry" {
					changes["entry_lower"] = taskquery.Fold(v)
				}
			default:
				changes[f.Column] = v
			}
		}
		if len(changes) == 0 {
			return nil
		}
		if err := tx.Model(&taskModel{}).Where("id = ?", id).Updates(changes).Error; err != nil {
			return store.NewStoreError("task", "update", "update failed", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete implements store.TaskStore.
func (s *TaskStore) Delete(ctx context.Context, id int64) error {
	result := s.db.WithContext(ctx).Delete(&taskModel{}, "id = ?", id)
	if err := result.Error; err != nil {
		return store.NewStoreError("task", "delete", "delete failed", err)
	}
	if result.RowsAffected == 0 {
		return store.ErrTaskNotFound
	}
	return nil
}

// Count implements store.TaskStore.
func (s *TaskStore) Count(ctx context.Context) (int, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&taskModel{}).Count(&n).Error; err != nil {
		return 0, store.NewStoreError("task", "count", "query failed", err)
	}
	return int(n), nil
}

func (s *TaskStore) find(db *gorm.DB, id int64) (*taskModel, error) {
	var m taskModel
	if err := db.First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrTaskNotFound
		}
		return nil, store.NewStoreError("task", "get", "query failed", err)
	}
	return &m, nil
}

func toDomainAll(models []taskModel) []domain.Task {
	out := make([]domain.Task, len(models))
	for i := range models {
		out[i] = models[i].toDomain()
	}
	return out
}
