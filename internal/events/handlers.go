package events

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/phrazzld/taskflow-api/internal/platform/logger"
)

// LoggingHandler writes every event to the request logger, falling back to
// its own logger outside a request.
type LoggingHandler struct {
	logger *slog.Logger
}

// NewLoggingHandler creates a LoggingHandler.
func NewLoggingHandler(l *slog.Logger) *LoggingHandler {
	return &LoggingHandler{logger: l.With("component", "task_events")}
}

// HandleEvent implements EventHandler.
func (h *LoggingHandler) HandleEvent(ctx context.Context, event *TaskEvent) error {
	logger.FromContextOrDefault(ctx, h.logger).InfoContext(ctx, "task event",
		"event_id", event.ID.String(),
		"event_type", string(event.Type),
		"task_id", event.TaskID,
		"occurred_at", event.OccurredAt)
	return nil
}

// CounterHandler counts events by type.
type CounterHandler struct {
	counter *prometheus.CounterVec
}

// NewCounterHandler registers the taskflow_task_events_total counter with reg.
func NewCounterHandler(reg prometheus.Registerer) *CounterHandler {
	return &CounterHandler{
		counter: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "taskflow",
			Name:      "task_events_total",
			Help:      "Task lifecycle events by type.",
		}, []string{"type"}),
	}
}

// HandleEvent implements EventHandler.
func (h *CounterHandler) HandleEvent(_ context.Context, event *TaskEvent) error {
	h.counter.WithLabelValues(string(event.Type)).Inc()
	return nil
}
