package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/domain/taskquery"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// PersistTasksFunc receives the complete task list after a mutation. If it
// returns an error the mutation is discarded.
type PersistTasksFunc func(tasks []domain.Task) error

// TaskStore is an in-memory store.TaskStore.
type TaskStore struct {
	mu      sync.RWMutex
	tasks   []domain.Task
	persist PersistTasksFunc
}

var _ store.TaskStore = (*TaskStore)(nil)

// NewTaskStore creates an empty store.
func NewTaskStore() *TaskStore {
	return &TaskStore{tasks: []domain.Task{}}
}

// NewPersistentTaskStore creates a store seeded with tasks that calls persist
// on every mutation while holding the write lock.
func NewPersistentTaskStore(tasks []domain.Task, persist PersistTasksFunc) *TaskStore {
	seeded := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		seeded = append(seeded, t.Clone())
	}
	slices.SortStableFunc(seeded, func(a, b domain.Task) int {
		return compareIDs(a.ID, b.ID)
	})
	return &TaskStore{tasks: seeded, persist: persist}
}

// Create implements store.TaskStore.
func (s *TaskStore) Create(_ context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created := task.Clone()
	created.ID = s.nextID()
	next := append(slices.Clone(s.tasks), created)
	if err := s.commit(next); err != nil {
		return err
	}
	task.ID = created.ID
	return nil
}

// GetByID implements store.TaskStore.
func (s *TaskStore) GetByID(_ context.Context, id int64) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index(id)
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	t := s.tasks[i].Clone()
	return &t, nil
}

// List implements store.TaskStore by running the query pipeline over every task.
func (s *TaskStore) List(_ context.Context, params taskquery.Params) (*taskquery.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	page := taskquery.Apply(s.tasks, params)
	page.Data = cloneAll(page.Data)
	return &page, nil
}

// Search implements store.TaskStore.
func (s *TaskStore) Search(_ context.Context, terms []string, limit int) ([]domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneAll(taskquery.Search(s.tasks, terms, limit)), nil
}

// Update implements store.TaskStore.
func (s *TaskStore) Update(_ context.Context, id int64, patch domain.TaskPatch, now time.Time) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index(id)
	if !ok {
		return nil, store.ErrTaskNotFound
	}

	next := slices.Clone(s.tasks)
	updated := next[i].Clone()
	patch.Apply(&updated, now)
	if err := updated.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	next[i] = updated

	if err := s.commit(next); err != nil {
		return nil, err
	}
	out := updated.Clone()
	return &out, nil
}

// Delete implements store.TaskStore.
func (s *TaskStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index(id)
	if !ok {
		return store.ErrTaskNotFound
	}
	next := slices.Delete(slices.Clone(s.tasks), i, i+1)
	return s.commit(next)
}

// Count implements store.TaskStore.
func (s *TaskStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks), nil
}

// commit persists next, then installs it. Callers hold the write lock.
func (s *TaskStore) commit(next []domain.Task) error {
	if s.persist != nil {
		if err := s.persist(next); err != nil {
			return err
		}
	}
	s.tasks = next
	return nil
}

// nextID is one past the highest ID, or 1 for an empty store.
func (s *TaskStore) nextID() int64 {
	if len(s.tasks) == 0 {
		return 1
	}
	return s.tasks[len(s.tasks)-1].ID + 1
}

func (s *TaskStore) index(id int64) (int, bool) {
	return slices.BinarySearchFunc(s.tasks, id, func(t domain.Task, id int64) int {
		return compareIDs(t.ID, id)
	})
}

func compareIDs(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cloneAll(tasks []domain.Task) []domain.Task {
	out := make([]domain.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
