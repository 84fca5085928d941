// Package commands implements the migrate CLI: schema migrations, migration
// scaffolding and sample data loading.
package commands

import (
	"database/sql"
	"fmt"

	"github.com/derbent/backend/internal/infrastructure/config"
	"github.com/derbent/backend/internal/infrastructure/logger"
	"github.com/derbent/backend/internal/infrastructure/migration"
	"github.com/derbent/backend/migrations"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	sourceDir string
	logLevel  string

	cfg *config.Config
	log *zap.Logger
)

// Execute runs the root command
func Execute() error {
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Derbent database migration tool",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			log, err = logger.New(logger.Config{
				Level:   logLevel,
				Format:  "console",
				Output:  "stdout",
				Service: "migrate",
			})
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if log != nil {
				_ = logger.Sync(log)
			}
		},
	}

	root.PersistentFlags().StringVar(&sourceDir, "source", "",
		"read migrations from this directory instead of the embedded set")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")

	root.AddCommand(
		upCmd(), downCmd(), stepsCmd(), gotoCmd(), versionCmd(), forceCmd(),
		createCmd(), listCmd(), seedCmd(),
	)
	return root.Execute()
}

// withMigrator opens the database and hands a Migrator to fn
func withMigrator(fn func(m *migration.Migrator) error) error {
	var (
		m   *migration.Migrator
		err error
	)
	if sourceDir != "" {
		log.Info("Using migrations from disk", zap.String("dir", sourceDir))
		m, err = migration.NewFromURL(cfg.Database.DSN(), sourceDir, log)
		if err != nil {
			return err
		}
	} else {
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			return fmt.Errorf("failed to ping database: %w", err)
		}
		m, err = migration.New(db, migrations.FS, log)
		if err != nil {
			return err
		}
	}
	defer m.Close()
	return fn(m)
}
