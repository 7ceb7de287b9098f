package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/phrazzld/taskflow-api/internal/config"
	"github.com/phrazzld/taskflow-api/internal/events"
	"github.com/phrazzld/taskflow-api/internal/platform/jsonfile"
	"github.com/phrazzld/taskflow-api/internal/platform/memory"
	"github.com/phrazzld/taskflow-api/internal/platform/postgres"
	"github.com/phrazzld/taskflow-api/internal/platform/sqlite"
	"github.com/phrazzld/taskflow-api/internal/service"
	"github.com/phrazzld/taskflow-api/internal/service/auth"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// application holds the shared dependencies of the server and releases them
// on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// registry backs /metrics; tests get a fresh one per application
	registry *prometheus.Registry

	taskStore store.TaskStore
	userStore store.UserStore

	taskService service.TaskService
	userService service.UserService

	eventEmitter *events.InMemoryEventEmitter

	// closers run in reverse order during cleanup
	closers []func() error
}

// newApplication opens the configured backend and builds the services on
// top of it. The stores are constructed exactly once here and injected.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config:   cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if err := app.openStores(ctx); err != nil {
		app.cleanup()
		return nil, err
	}

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(events.NewLoggingHandler(logger))
	app.eventEmitter.RegisterHandler(events.NewCounterHandler(app.registry))

	app.taskService = service.NewTaskService(app.taskStore, logger,
		service.WithEventEmitter(app.eventEmitter),
		service.WithSearchOptions(service.SearchOptions{
			DefaultLimit:  cfg.Search.DefaultLimit,
			DropStopWords: cfg.Search.DropStopWords,
		}),
	)
	app.userService = service.NewUserService(app.userStore, auth.NewBcryptHasher(cfg.Auth.BcryptCost), logger)

	logger.Info("application initialized", "backend", cfg.Store.Backend)
	return app, nil
}

// openStores selects the persistence backend.
func (app *application) openStores(ctx context.Context) error {
	cfg := app.config.Store
	switch cfg.Backend {
	case config.BackendMemory:
		app.taskStore = memory.NewTaskStore()
		app.userStore = memory.NewUserStore()

	case config.BackendJSON:
		tasks, err := jsonfile.NewTaskStore(cfg.JSONPath, app.logger)
		if err != nil {
			return fmt.Errorf("failed to open task file: %w", err)
		}
		users, err := jsonfile.NewUserStore(cfg.UsersJSONPath, app.logger)
		if err != nil {
			return fmt.Errorf("failed to open user file: %w", err)
		}
		app.taskStore, app.userStore = tasks, users

	case config.BackendSQLite:
		db, err := sqlite.Open(cfg.SQLitePath, app.logger)
		if err != nil {
			return err
		}
		app.closers = append(app.closers, func() error { return sqlite.Close(db) })
		app.taskStore = sqlite.NewTaskStore(db)
		app.userStore = sqlite.NewUserStore(db)

	case config.BackendPostgres:
		db, err := postgres.Open(ctx, cfg.DatabaseURL, app.logger)
		if err != nil {
			return err
		}
		app.closers = append(app.closers, db.Close)
		if err := postgres.Migrate(ctx, db, app.logger); err != nil {
			return err
		}
		app.taskStore = postgres.NewTaskStore(db)
		app.userStore = postgres.NewUserStore(db)

	default:
		return fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
	return nil
}

// Run serves HTTP until ctx is canceled.
func (app *application) Run(ctx context.Context) error {
	if err := app.listenAndServe(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases backend resources. It is safe to call more than once.
func (app *application) cleanup() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			app.logger.Error("error closing storage backend", "error", err)
		}
	}
	app.closers = nil
	app.logger.Info("application shutdown completed")
}
