package api

import (
	"net/http"

	"github.com/phrazzld/taskflow-api/internal/api/shared"
)

// WelcomeMessage is the message returned by GET /.
const WelcomeMessage = "Welcome to the TaskFlow API"

// Home handles GET / with a short summary of the running service.
func (h *TaskHandler) Home(backend string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := h.tasks.Count(r.Context())
		if err != nil {
			HandleAPIError(w, r, err, "Failed to count tasks")
			return
		}
		shared.RespondWithJSON(w, r, http.StatusOK, HomeResponse{
			Message: WelcomeMessage,
			Backend: backend,
			Tasks:   n,
		})
	}
}
