package mocks

import (
	"context"

	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/domain/taskquery"
	"github.com/phrazzld/taskflow-api/internal/service"
)

// MockTaskService implements service.TaskService for handler tests
type MockTaskService struct {
	ListFn   func(ctx context.Context, params taskquery.Params) (*taskquery.Page, error)
	GetFn    func(ctx context.Context, id int64) (*domain.Task, error)
	CreateFn func(ctx context.Context, in service.CreateTaskInput) (*domain.Task, error)
	UpdateFn func(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error)
	DeleteFn func(ctx context.Context, id int64) error
	SearchFn func(ctx context.Context, query string, limit int) ([]domain.Task, error)
	CountFn  func(ctx context.Context) (int, error)
}

var _ service.TaskService = (*MockTaskService)(nil)

// List implements service.TaskService.
func (m *MockTaskService) List(ctx context.Context, params taskquery.Params) (*taskquery.Page, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, params)
	}
	return nil, ErrNotMocked
}

// Get implements service.TaskService.
func (m *MockTaskService) Get(ctx context.Context, id int64) (*domain.Task, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}
	return nil, ErrNotMocked
}

// Create implements service.TaskService.
func (m *MockTaskService) Create(ctx context.Context, in service.CreateTaskInput) (*domain.Task, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, in)
	}
	return nil, ErrNotMocked
}

// Update implements service.TaskService.
func (m *MockTaskService) Update(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, patch)
	}
	return nil, ErrNotMocked
}

// Delete implements service.TaskService.
func (m *MockTaskService) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return ErrNotMocked
}

// Search implements service.TaskService.
func (m *MockTaskService) Search(ctx context.Context, query string, limit int) ([]domain.Task, error) {
	if m.SearchFn != nil {
		return m.SearchFn(ctx, query, limit)
	}
	return nil, ErrNotMocked
}

// Count implements service.TaskService.
func (m *MockTaskService) Count(ctx context.Context) (int, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx)
	}
	return 0, ErrNotMocked
}
