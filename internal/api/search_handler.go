package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskflow-api/internal/api/shared"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/domain/taskquery"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
)

// Search handles GET /search?q=&limit=. It responds with a bare array of
// tasks in id order.
func (h *TaskHandler) Search(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	q := r.URL.Query()

	limit, err := intParam(q.Get("limit"), "limit", 0)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if q.Has("limit") && (limit < 1 || limit > taskquery.MaxSearchLimit) {
		HandleAPIError(w, r, domain.NewValidationError("limit", "must be between 1 and 100", nil), "")
		return
	}

	tasks, err := h.tasks.Search(r.Context(), q.Get("q"), limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to search tasks")
		return
	}

	log.Debug("searched tasks", slog.Int("matches", len(tasks)))
	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponses(tasks, h.now()))
}
