package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/derbent/backend/internal/infrastructure/migration"
	"github.com/derbent/backend/migrations"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func upCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *migration.Migrator) error { return m.Up() })
		},
	}
}

func downCmd() *cobra.Command {
	var confirm bool
	c := &cobra.Command{
		Use:   "down",
		Short: "Roll back every migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return fmt.Errorf("down drops the whole schema; pass --confirm to proceed")
			}
			return withMigrator(func(m *migration.Migrator) error { return m.Down() })
		},
	}
	c.Flags().BoolVar(&confirm, "confirm", false, "confirm rolling back everything")
	return c
}

func stepsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "steps <n>",
		Short: "Apply n migrations (negative n rolls back)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid step count %q", args[0])
			}
			return withMigrator(func(m *migration.Migrator) error { return m.Steps(n) })
		},
	}
}

func gotoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "goto <version>",
		Short: "Migrate up or down to a specific version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid version %q", args[0])
			}
			return withMigrator(func(m *migration.Migrator) error { return m.GoTo(uint(version)) })
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *migration.Migrator) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				if version == 0 {
					log.Info("No migrations applied")
					return nil
				}
				log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
				return nil
			})
		},
	}
}

func forceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "force <version>",
		Short: "Set the schema version without running migrations",
		Long:  "Clears the dirty flag after a failed migration has been repaired by hand.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q", args[0])
			}
			log.Warn("Forcing migration version", zap.Int("version", version))
			return withMigrator(func(m *migration.Migrator) error { return m.Force(version) })
		},
	}
}

func createCmd() *cobra.Command {
	var dir string
	c := &cobra.Command{
		Use:   "create <name> [description]",
		Short: "Create an empty up/down migration pair",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			description := ""
			if len(args) > 1 {
				description = args[1]
			}
			mf, err := migration.CreateMigration(dir, args[0], description)
			if err != nil {
				return err
			}
			log.Info("Migration created",
				zap.String("version", mf.Version),
				zap.String("up_file", mf.UpPath),
				zap.String("down_file", mf.DownPath),
			)
			return nil
		},
	}
	c.Flags().StringVar(&dir, "dir", "migrations", "directory the files are written to")
	return c
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				list []string
				err  error
			)
			if sourceDir != "" {
				list, err = migration.ListMigrations(os.DirFS(sourceDir))
			} else {
				list, err = migration.ListMigrations(migrations.FS)
			}
			if err != nil {
				return err
			}
			if len(list) == 0 {
				log.Info("No migrations found")
				return nil
			}
			for _, name := range list {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
