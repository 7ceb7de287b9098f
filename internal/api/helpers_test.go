package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/taskflow-api/internal/api/shared"
	"github.com/phrazzld/taskflow-api/internal/mocks"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/platform/memory"
	"github.com/phrazzld/taskflow-api/internal/service"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)

func clock() time.Time { return testNow }

// newTestRouter wires the handlers the same way the server does, over an
// in-memory store and a cheap password hasher.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	_, l := logger.SetupTestLogger(t)

	tasks := service.NewTaskService(memory.NewTaskStore(), l, service.WithClock(clock))
	users := service.NewUserService(memory.NewUserStore(), &mocks.MockPasswordHasher{}, l).WithClock(clock)
	return routerFor(NewTaskHandler(tasks, l).WithClock(clock), NewAuthHandler(users, l))
}

// newMockRouter serves the task routes from svc.
func newMockRouter(t *testing.T, svc service.TaskService) http.Handler {
	t.Helper()
	_, l := logger.SetupTestLogger(t)
	users := service.NewUserService(memory.NewUserStore(), &mocks.MockPasswordHasher{}, l)
	return routerFor(NewTaskHandler(svc, l).WithClock(clock), NewAuthHandler(users, l))
}

func routerFor(th *TaskHandler, ah *AuthHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", th.Home("memory"))
	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", th.List)
		r.Post("/", th.Create)
		r.Get("/{id}", th.Get)
		r.Patch("/{id}", th.Update)
		r.Delete("/{id}", th.Delete)
	})
	r.Get("/search", th.Search)
	r.Post("/auth/register", ah.Register)
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	return decode[shared.ErrorResponse](t, w)
}

func createTask(t *testing.T, h http.Handler, body string) TaskResponse {
	t.Helper()
	w := do(t, h, http.MethodPost, "/tasks", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[TaskResponse](t, w)
}
