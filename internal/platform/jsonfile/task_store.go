package jsonfile

import (
	"log/slog"

	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/platform/memory"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// TaskStore is a store.TaskStore kept in a JSON file.
type TaskStore struct {
	*memory.TaskStore
	path string
}

var _ store.TaskStore = (*TaskStore)(nil)

// NewTaskStore opens the task file at path, creating it when missing.
func NewTaskStore(path string, logger *slog.Logger) (*TaskStore, error) {
	log := logger.With("component", "jsonfile_task_store")
	tasks, err := load[domain.Task](path, log)
	if err != nil {
		return nil, err
	}
	log.Debug("loaded tasks", slog.Int("count", len(tasks)))

	return &TaskStore{
		TaskStore: memory.NewPersistentTaskStore(tasks, func(tasks []domain.Task) error {
			return write(path, tasks)
		}),
		path: path,
	}, nil
}

// Path returns the file backing the store.
func (s *TaskStore) Path() string {
	return s.path
}
