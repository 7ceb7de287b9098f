package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/domain/taskquery"
	"github.com/phrazzld/taskflow-api/internal/store"
)

var unitNow = time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return sqlx.NewDb(db, "sqlmock"), mock
}

func taskColumnsList() []string {
	return []string{"id", "entry", "priority", "due", "completed", "completed_at"}
}

func TestTaskStoreCreate(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewTaskStore(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO tasks (entry, entry_lower, priority, due, completed, completed_at)`)).
		WithArgs("Buy Milk", "buy milk", "low", unitNow, false, nil).
		WillReturnRows(sqlmock.NewRows(taskColumnsList()).
			AddRow(int64(12), "Buy Milk", "low", unitNow, false, nil))

	task := &domain.Task{Entry: "Buy Milk", Priority: domain.PriorityLow, Due: unitNow}
	require.NoError(t, s.Create(context.Background(), task))
	assert.Equal(t, int64(12), task.ID)
}

func TestTaskStoreCreateReturnsStoredPrecision(t *testing.T) {
	db, mock := newMockDB(t)
	precise := unitNow.Add(123456789 * time.Nanosecond)
	stored := precise.Truncate(time.Microsecond)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO tasks`)).
		WillReturnRows(sqlmock.NewRows(taskColumnsList()).
			AddRow(int64(1), "done", "high", stored, true, stored))

	task := &domain.Task{Entry: "done", Priority: domain.PriorityHigh, Due: precise, Completed: true, CompletedAt: &precise}
	require.NoError(t, NewTaskStore(db).Create(context.Background(), task))
	assert.True(t, stored.Equal(task.Due), "due %s", task.Due)
	require.NotNil(t, task.CompletedAt)
	assert.True(t, stored.Equal(*task.CompletedAt), "completed_at %s", task.CompletedAt)
}

func TestTaskStoreWrapsDriverErrors(t *testing.T) {
	db, mock := newMockDB(t)
	cause := errors.New("connection reset by peer")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM tasks`)).WillReturnError(cause)

	_, err := NewTaskStore(db).Count(context.Background())
	require.Error(t, err)
	var storeErr *store.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "task", storeErr.Entity)
	assert.Equal(t, "count", storeErr.Operation)
	assert.ErrorIs(t, err, cause)
}

func TestTaskStoreCreateRejectsInvalid(t *testing.T) {
	db, _ := newMockDB(t)
	err := NewTaskStore(db).Create(context.Background(), &domain.Task{Priority: domain.PriorityLow, Due: unitNow})
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
}

func TestTaskStoreGetByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM tasks WHERE id = $1`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(taskColumnsList()))

	_, err := NewTaskStore(db).GetByID(context.Background(), 5)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestTaskStoreList(t *testing.T) {
	db, mock := newMockDB(t)
	p := taskquery.DefaultParams()
	p.Limit = 1

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM tasks WHERE 1=1`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY id ASC LIMIT $1 OFFSET $2`)).
		WithArgs(1, 0).
		WillReturnRows(sqlmock.NewRows(taskColumnsList()).
			AddRow(int64(1), "a", "high", unitNow, true, unitNow))

	page, err := NewTaskStore(db).List(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, taskquery.Pagination{Total: 3, Skip: 0, Limit: 1, HasMore: true}, page.Pagination)
	require.Len(t, page.Data, 1)
	assert.Equal(t, domain.PriorityHigh, page.Data[0].Priority)
	require.NotNil(t, page.Data[0].CompletedAt)
}

func TestTaskStoreUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	yes := true

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM tasks WHERE id = $1 FOR UPDATE`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(taskColumnsList()).
			AddRow(int64(3), "a", "low", unitNow, false, nil))
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE tasks SET completed = $1, completed_at = $2 WHERE id = $3`)).
		WithArgs(true, unitNow, int64(3)).
		WillReturnRows(sqlmock.NewRows(taskColumnsList()).
			AddRow(int64(3), "a", "low", unitNow, true, unitNow))
	mock.ExpectCommit()

	got, err := NewTaskStore(db).Update(context.Background(), 3, domain.TaskPatch{Completed: &yes}, unitNow)
	require.NoError(t, err)
	assert.True(t, got.Completed)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, unitNow.Equal(*got.CompletedAt))
}

func TestTaskStoreUpdateNotFoundRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	entry := "x"

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FOR UPDATE`)).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(taskColumnsList()))
	mock.ExpectRollback()

	_, err := NewTaskStore(db).Update(context.Background(), 9, domain.TaskPatch{Entry: &entry}, unitNow)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestTaskStoreDelete(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewTaskStore(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tasks WHERE id = $1`)).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tasks WHERE id = $1`)).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.Delete(context.Background(), 1))
	assert.ErrorIs(t, s.Delete(context.Background(), 2), store.ErrTaskNotFound)
}

func TestUserStoreCreateDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnError(newPgError(uniqueViolationCode))

	err := NewUserStore(db).Create(context.Background(), &domain.User{
		Username: "alice", HashedPassword: "hash", SignupDate: unitNow,
	})
	assert.ErrorIs(t, err, store.ErrUsernameExists)
}

func TestUserStoreGetByUsername(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE username = $1`)).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password", "role", "signup_date"}).
			AddRow(int64(1), "alice", "hash", "user", unitNow))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE username = $1`)).
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password", "role", "signup_date"}))

	s := NewUserStore(db)
	u, err := s.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "hash", u.HashedPassword)
	assert.Equal(t, domain.RoleUser, u.Role)

	_, err = s.GetByUsername(context.Background(), "bob")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}
