// Package main implements the entry point for the TaskFlow API server, a
// small task-tracking HTTP service with pluggable persistence.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/phrazzld/taskflow-api/internal/config"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/platform/postgres"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// configFlags are shared by every command that loads configuration.
type configFlags struct {
	configFile string
	envFile    string
}

func (f *configFlags) load(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadWithOptions(config.Options{
		ConfigFile: f.configFile,
		EnvFile:    f.envFile,
		Flags:      cmd.Flags(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	l.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"backend", cfg.Store.Backend)
	return cfg, l, nil
}

func newRootCommand() *cobra.Command {
	var cf configFlags

	cmd := &cobra.Command{
		Use:           "taskflow-api",
		Short:         "Serve the TaskFlow task API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, l, err := cf.load(cmd)
			if err != nil {
				return err
			}
			app, err := newApplication(cmd.Context(), cfg, l)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			defer app.cleanup()
			return app.Run(cmd.Context())
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&cf.configFile, "config", "", "configuration file (yaml, json or toml)")
	pf.StringVar(&cf.envFile, "env-file", config.DefaultEnvFile, "dotenv file loaded when present")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-format", "json", "log format (json, text)")
	pf.String("backend", config.BackendMemory, "storage backend (memory, json, sqlite, postgres)")
	pf.String("json-path", "tasks.json", "task file for the json backend")
	pf.String("sqlite-path", "taskflow.db", "database file for the sqlite backend")
	pf.String("database-url", "", "PostgreSQL connection URL for the postgres backend")

	cmd.Flags().Int("port", 8080, "HTTP listen port")

	cmd.AddCommand(newMigrateCommand(&cf))
	return cmd
}

// newMigrateCommand applies the PostgreSQL migrations without serving. The
// other backends create their schema on open.
func newMigrateCommand(cf *configFlags) *cobra.Command {
	var status bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply PostgreSQL schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, l, err := cf.load(cmd)
			if err != nil {
				return err
			}
			if cfg.Store.Backend != config.BackendPostgres {
				return fmt.Errorf("migrate requires the %s backend, got %q", config.BackendPostgres, cfg.Store.Backend)
			}

			db, err := postgres.Open(cmd.Context(), cfg.Store.DatabaseURL, l)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			if !status {
				if err := postgres.Migrate(cmd.Context(), db, l); err != nil {
					return err
				}
			}
			version, err := postgres.MigrationVersion(cmd.Context(), db, l)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
			return nil
		},
	}
	cmd.Flags().BoolVar(&status, "status", false, "print the current schema version without migrating")
	return cmd
}
