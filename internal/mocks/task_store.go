package mocks

import (
	"context"
	"errors"
	"time"

	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/domain/taskquery"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// ErrNotMocked is returned by a mock method whose function field is unset.
var ErrNotMocked = errors.New("mock method not configured")

// MockTaskStore implements store.TaskStore for testing
type MockTaskStore struct {
	CreateFn  func(ctx context.Context, task *domain.Task) error
	GetByIDFn func(ctx context.Context, id int64) (*domain.Task, error)
	ListFn    func(ctx context.Context, params taskquery.Params) (*taskquery.Page, error)
	SearchFn  func(ctx context.Context, terms []string, limit int) ([]domain.Task, error)
	UpdateFn  func(ctx context.Context, id int64, patch domain.TaskPatch, now time.Time) (*domain.Task, error)
	DeleteFn  func(ctx context.Context, id int64) error
	CountFn   func(ctx context.Context) (int, error)

	// SearchCalls counts calls to Search.
	SearchCalls int
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// Create implements store.TaskStore.
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	return ErrNotMocked
}

// GetByID implements store.TaskStore.
func (m *MockTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, ErrNotMocked
}

// List implements store.TaskStore.
func (m *MockTaskStore) List(ctx context.Context, params taskquery.Params) (*taskquery.Page, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, params)
	}
	return nil, ErrNotMocked
}

// Search implements store.TaskStore.
func (m *MockTaskStore) Search(ctx context.Context, terms []string, limit int) ([]domain.Task, error) {
	m.SearchCalls++
	if m.SearchFn != nil {
		return m.SearchFn(ctx, terms, limit)
	}
	return nil, ErrNotMocked
}

// Update implements store.TaskStore.
func (m *MockTaskStore) Update(ctx context.Context, id int64, patch domain.TaskPatch, now time.Time) (*domain.Task, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, patch, now)
	}
	return nil, ErrNotMocked
}

// Delete implements store.TaskStore.
func (m *MockTaskStore) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return ErrNotMocked
}

// Count implements store.TaskStore.
func (m *MockTaskStore) Count(ctx context.Context) (int, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx)
	}
	return 0, ErrNotMocked
}
