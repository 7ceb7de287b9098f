package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/store"
	"github.com/phrazzld/taskflow-api/internal/store/storetest"
)

func TestTaskStoreConformance(t *testing.T) {
	storetest.RunTaskStoreTests(t, func(t *testing.T) store.TaskStore {
		return NewTaskStore()
	})
}

func TestUserStoreConformance(t *testing.T) {
	storetest.RunUserStoreTests(t, func(t *testing.T) store.UserStore {
		return NewUserStore()
	})
}

func TestPersistFailureDiscardsMutation(t *testing.T) {
	ctx := context.Background()
	failing := errors.New("disk full")
	fail := false
	s := NewPersistentTaskStore(nil, func([]domain.Task) error {
		if fail {
			return failing
		}
		return nil
	})
	storetest.Load(t, s)

	fail = true
	err := s.Delete(ctx, 1)
	assert.ErrorIs(t, err, failing)

	_, err = s.GetByID(ctx, 1)
	assert.NoError(t, err)
	n, _ := s.Count(ctx)
	assert.Equal(t, len(storetest.Seed()), n)
}

func TestPersistentTaskStoreSortsSeed(t *testing.T) {
	s := NewPersistentTaskStore([]domain.Task{
		{ID: 5, Entry: "e", Priority: domain.PriorityLow, Due: storetest.Now},
		{ID: 2, Entry: "b", Priority: domain.PriorityLow, Due: storetest.Now},
	}, nil)

	got, err := s.GetByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "b", got.Entry)

	task := &domain.Task{Entry: "new", Priority: domain.PriorityHigh, Due: storetest.Now}
	require.NoError(t, s.Create(context.Background(), task))
	assert.Equal(t, int64(6), task.ID)
}

func TestConcurrentCreates(t *testing.T) {
	s := NewTaskStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			task := &domain.Task{Entry: "task", Priority: domain.PriorityLow, Due: storetest.Now}
			assert.NoError(t, s.Create(ctx, task))
		}()
	}
	wg.Wait()

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, n)

	last, err := s.GetByID(ctx, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(50), last.ID)
}
