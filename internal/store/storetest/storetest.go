// Package storetest is a conformance suite shared by every store backend.
// Each backend's tests call RunTaskStoreTests and RunUserStoreTests with a
// factory returning a fresh, empty store.
package storetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/domain/taskquery"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// Now is the fixed clock used by the suite. It has second precision so every
// backend can round-trip it.
var Now = time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)

// TaskStoreFactory returns an empty store for one subtest.
type TaskStoreFactory func(t *testing.T) store.TaskStore

// UserStoreFactory returns an empty store for one subtest.
type UserStoreFactory func(t *testing.T) store.UserStore

// Seed is the task set the suite loads, in creation order.
func Seed() []domain.Task {
	due := func(days int) time.Time { return Now.AddDate(0, 0, days) }
	done := Now.Add(-time.Hour)
	return []domain.Task{
		{Entry: "Buy milk", Priority: domain.PriorityLow, Due: due(-2)},
		{Entry: "call the plumber", Priority: domain.PriorityHigh, Due: due(1)},
		{Entry: "Answer email", Priority: domain.PriorityMedium, Due: due(3)},
		{Entry: "book flights", Priority: domain.PriorityHigh, Due: due(3), Completed: true, CompletedAt: &done},
		{Entry: "Clean garage", Priority: domain.PriorityLow, Due: due(7)},
		{Entry: "answer letters", Priority: domain.PriorityMedium, Due: due(10)},
		{Entry: "water plants", Priority: domain.PriorityMedium, Due: due(0)},
		{Entry: "Renew passport", Priority: domain.PriorityHigh, Due: due(30)},
		{Entry: "CAFÉ run", Priority: domain.PriorityMedium, Due: due(5)},
		{Entry: "Étude notes", Priority: domain.PriorityLow, Due: due(12)},
		{Entry: "éclair order", Priority: domain.PriorityHigh, Due: due(-1)},
	}
}

// Load creates every seed task in s and returns them with their IDs.
func Load(t *testing.T, s store.TaskStore) []domain.Task {
	t.Helper()
	ctx := context.Background()
	seed := Seed()
	for i := range seed {
		require.NoError(t, s.Create(ctx, &seed[i]))
	}
	return seed
}

// AssertTaskEqual compares tasks field by field, comparing times by instant.
func AssertTaskEqual(t *testing.T, want, got domain.Task) {
	t.Helper()
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Entry, got.Entry)
	assert.Equal(t, want.Priority, got.Priority)
	assert.True(t, want.Due.Equal(got.Due), "due: want %s, got %s", want.Due, got.Due)
	assert.Equal(t, want.Completed, got.Completed)
	if want.CompletedAt == nil {
		assert.Nil(t, got.CompletedAt, "completed_at")
	} else if assert.NotNil(t, got.CompletedAt, "completed_at") {
		assert.True(t, want.CompletedAt.Equal(*got.CompletedAt),
			"completed_at: want %s, got %s", want.CompletedAt, got.CompletedAt)
	}
}

func taskIDs(tasks []domain.Task) []int64 {
	out := make([]int64, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

// ListCases are the parameter sets every backend must page identically to
// the in-process pipeline.
func ListCases() map[string]taskquery.Params {
	p := func(mutate func(*taskquery.Params)) taskquery.Params {
		params := taskquery.DefaultParams()
		mutate(&params)
		return params
	}
	high := domain.PriorityHigh
	medium := domain.PriorityMedium
	before := Now.AddDate(0, 0, 3)
	after := Now.AddDate(0, 0, 1)

	return map[string]taskquery.Params{
		"defaults":        taskquery.DefaultParams(),
		"id desc":         p(func(p *taskquery.Params) { p.Order = taskquery.Desc }),
		"priority asc":    p(func(p *taskquery.Params) { p.Sort = taskquery.SortByPriority }),
		"priority desc":   p(func(p *taskquery.Params) { p.Sort = taskquery.SortByPriority; p.Order = taskquery.Desc }),
		"entry asc":       p(func(p *taskquery.Params) { p.Sort = taskquery.SortByEntry }),
		"entry desc":      p(func(p *taskquery.Params) { p.Sort = taskquery.SortByEntry; p.Order = taskquery.Desc }),
		"filter high":     p(func(p *taskquery.Params) { p.Priority = &high }),
		"due window":      p(func(p *taskquery.Params) { p.DueAfter = &after; p.DueBefore = &before }),
		"due before only": p(func(p *taskquery.Params) { p.DueBefore = &before }),
		"first page":      p(func(p *taskquery.Params) { p.Limit = 3 }),
		"middle page":     p(func(p *taskquery.Params) { p.Skip = 3; p.Limit = 3 }),
		"past the end":    p(func(p *taskquery.Params) { p.Skip = 50; p.Limit = 5 }),
		"medium by entry p2": p(func(p *taskquery.Params) {
			p.Priority = &medium
			p.Sort = taskquery.SortByEntry
			p.Skip = 1
			p.Limit = 1
		}),
	}
}

// RunTaskStoreTests runs the task store conformance suite.
func RunTaskStoreTests(t *testing.T, newStore TaskStoreFactory) {
	ctx := context.Background()

	t.Run("create assigns sequential ids", func(t *testing.T) {
		s := newStore(t)
		tasks := Load(t, s)
		for i, task := range tasks {
			assert.Equal(t, int64(i+1), task.ID)
		}
		n, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, len(tasks), n)
	})

	t.Run("create rejects invalid task", func(t *testing.T) {
		s := newStore(t)
		err := s.Create(ctx, &domain.Task{Entry: "", Priority: domain.PriorityLow, Due: Now})
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})

	t.Run("get round-trips every field", func(t *testing.T) {
		s := newStore(t)
		for _, want := range Load(t, s) {
			got, err := s.GetByID(ctx, want.ID)
			require.NoError(t, err)
			AssertTaskEqual(t, want, *got)
		}
	})

	t.Run("get unknown id", func(t *testing.T) {
		s := newStore(t)
		_, err := s.GetByID(ctx, 999)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
		assert.True(t, store.IsNotFoundError(err))
	})

	t.Run("list matches the in-process pipeline", func(t *testing.T) {
		s := newStore(t)
		seeded := Load(t, s)
		for name, params := range ListCases() {
			t.Run(name, func(t *testing.T) {
				want := taskquery.Apply(seeded, params)
				got, err := s.List(ctx, params)
				require.NoError(t, err)
				assert.Equal(t, want.Pagination, got.Pagination)
				assert.Equal(t, taskIDs(want.Data), taskIDs(got.Data))
				require.NotNil(t, got.Data)
			})
		}
	})

	t.Run("list on empty store", func(t *testing.T) {
		s := newStore(t)
		page, err := s.List(ctx, taskquery.DefaultParams())
		require.NoError(t, err)
		assert.NotNil(t, page.Data)
		assert.Empty(t, page.Data)
		assert.Equal(t, taskquery.Pagination{Total: 0, Skip: 0, Limit: 100}, page.Pagination)
	})

	t.Run("search", func(t *testing.T) {
		s := newStore(t)
		Load(t, s)

		got, err := s.Search(ctx, []string{"answer"}, 20)
		require.NoError(t, err)
		assert.Equal(t, []int64{3, 6}, taskIDs(got))

		got, err = s.Search(ctx, []string{"milk", "garage"}, 20)
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 5}, taskIDs(got))

		got, err = s.Search(ctx, []string{"e"}, 2)
		require.NoError(t, err)
		assert.Len(t, got, 2)

		got, err = s.Search(ctx, []string{"100%"}, 20)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("search folds non-ascii letters", func(t *testing.T) {
		s := newStore(t)
		seeded := Load(t, s)

		terms, err := taskquery.Terms("café", false)
		require.NoError(t, err)
		got, err := s.Search(ctx, terms, 20)
		require.NoError(t, err)
		assert.Equal(t, taskIDs(taskquery.Search(seeded, terms, 20)), taskIDs(got))
		require.Len(t, got, 1)
		assert.Equal(t, "CAFÉ run", got[0].Entry)

		terms, err = taskquery.Terms("ÉTUDE Éclair", false)
		require.NoError(t, err)
		got, err = s.Search(ctx, terms, 20)
		require.NoError(t, err)
		assert.Equal(t, []int64{10, 11}, taskIDs(got))
	})

	t.Run("update refolds the entry", func(t *testing.T) {
		s := newStore(t)
		Load(t, s)
		entry := "ÖL wechseln"
		_, err := s.Update(ctx, 1, domain.TaskPatch{Entry: &entry}, Now)
		require.NoError(t, err)

		got, err := s.Search(ctx, []string{"öl"}, 20)
		require.NoError(t, err)
		assert.Equal(t, []int64{1}, taskIDs(got))
	})

	t.Run("create returns what get reads back", func(t *testing.T) {
		s := newStore(t)
		stamp := time.Date(2024, 6, 15, 9, 30, 0, 123456789, time.UTC)
		task := &domain.Task{
			Entry:       "precise",
			Priority:    domain.PriorityLow,
			Due:         stamp.Add(time.Hour),
			Completed:   true,
			CompletedAt: &stamp,
		}
		require.NoError(t, s.Create(ctx, task))

		got, err := s.GetByID(ctx, task.ID)
		require.NoError(t, err)
		AssertTaskEqual(t, *task, *got)
	})

	t.Run("update completes and reopens", func(t *testing.T) {
		s := newStore(t)
		Load(t, s)
		yes, no := true, false

		updated, err := s.Update(ctx, 1, domain.TaskPatch{Completed: &yes}, Now)
		require.NoError(t, err)
		assert.True(t, updated.Completed)
		require.NotNil(t, updated.CompletedAt)
		assert.True(t, Now.Equal(*updated.CompletedAt))

		updated, err = s.Update(ctx, 1, domain.TaskPatch{Completed: &no}, Now)
		require.NoError(t, err)
		assert.False(t, updated.Completed)
		assert.Nil(t, updated.CompletedAt)

		got, err := s.GetByID(ctx, 1)
		require.NoError(t, err)
		AssertTaskEqual(t, *updated, *got)
	})

	t.Run("update leaves other fields alone", func(t *testing.T) {
		s := newStore(t)
		seeded := Load(t, s)
		entry := "Buy oat milk"
		prio := domain.PriorityHigh

		updated, err := s.Update(ctx, 1, domain.TaskPatch{Entry: &entry, Priority: &prio}, Now)
		require.NoError(t, err)

		want := seeded[0]
		want.Entry = entry
		want.Priority = prio
		AssertTaskEqual(t, want, *updated)

		untouched, err := s.GetByID(ctx, 2)
		require.NoError(t, err)
		AssertTaskEqual(t, seeded[1], *untouched)
	})

	t.Run("update unknown id", func(t *testing.T) {
		s := newStore(t)
		entry := "x"
		_, err := s.Update(ctx, 42, domain.TaskPatch{Entry: &entry}, Now)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		Load(t, s)

		require.NoError(t, s.Delete(ctx, 2))
		_, err := s.GetByID(ctx, 2)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
		assert.ErrorIs(t, s.Delete(ctx, 2), store.ErrTaskNotFound)

		n, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, len(Seed())-1, n)
	})

	t.Run("returned tasks are copies", func(t *testing.T) {
		s := newStore(t)
		Load(t, s)
		got, err := s.GetByID(ctx, 4)
		require.NoError(t, err)
		got.Entry = "mutated"
		*got.CompletedAt = got.CompletedAt.Add(time.Hour)

		again, err := s.GetByID(ctx, 4)
		require.NoError(t, err)
		assert.Equal(t, "book flights", again.Entry)
		assert.True(t, Now.Add(-time.Hour).Equal(*again.CompletedAt))
	})
}

// RunUserStoreTests runs the user store conformance suite.
func RunUserStoreTests(t *testing.T, newStore UserStoreFactory) {
	ctx := context.Background()
	newUser := func(name string) *domain.User {
		return &domain.User{
			Username:       name,
			HashedPassword: fmt.Sprintf("$2a$10$hash-of-%s", name),
			Role:           domain.RoleUser,
			SignupDate:     Now,
		}
	}

	t.Run("create and get", func(t *testing.T) {
		s := newStore(t)
		alice := newUser("alice")
		require.NoError(t, s.Create(ctx, alice))
		assert.Equal(t, int64(1), alice.ID)

		bob := newUser("bob")
		require.NoError(t, s.Create(ctx, bob))
		assert.Equal(t, int64(2), bob.ID)

		got, err := s.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, got.ID)
		assert.Equal(t, alice.HashedPassword, got.HashedPassword)
		assert.Equal(t, domain.RoleUser, got.Role)
		assert.True(t, Now.Equal(got.SignupDate))
		assert.Empty(t, got.Password)
	})

	t.Run("duplicate username", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Create(ctx, newUser("alice")))
		err := s.Create(ctx, newUser("alice"))
		assert.ErrorIs(t, err, store.ErrUsernameExists)
		assert.True(t, store.IsDuplicateError(err))
	})

	t.Run("unknown username", func(t *testing.T) {
		s := newStore(t)
		_, err := s.GetByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}
