package commands

import (
	"context"

	"github.com/derbent/backend/internal/application/seed"
	"github.com/derbent/backend/internal/bootstrap"
	"github.com/derbent/backend/internal/infrastructure/auth"
	"github.com/derbent/backend/internal/infrastructure/event"
	"github.com/derbent/backend/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func seedCmd() *cobra.Command {
	var adminPassword string
	c := &cobra.Command{
		Use:   "seed",
		Short: "Load the sample company into an empty database",
		Long:  "Creates the sample company with its users, workflows, projects and plans. Does nothing when the company already exists.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if adminPassword == "" {
				adminPassword = cfg.Seed.AdminPassword
			}
			return runSeed(cmd.Context(), adminPassword)
		},
	}
	c.Flags().StringVar(&adminPassword, "admin-password", "", "password of the sample admin (default from seed.admin_password)")
	return c
}

func runSeed(ctx context.Context, adminPassword string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := persistence.NewDatabase(ctx, &cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()

	bus := event.NewInMemoryEventBus(log)
	if err := bus.Start(ctx); err != nil {
		return err
	}
	defer bus.Stop(context.Background())

	c, err := bootstrap.Build(ctx, cfg, db, auth.NewInMemoryTokenBlacklist(), bus, log)
	if err != nil {
		return err
	}
	defer c.Close()

	fixture, err := seed.LoadSample()
	if err != nil {
		return err
	}
	result, err := c.Seeder(adminPassword, log).Run(ctx, fixture)
	if err != nil {
		return err
	}
	if result.Skipped {
		log.Info("Sample company already exists", zap.String("company_id", result.CompanyID.String()))
		return nil
	}
	log.Info("Sample data loaded", zap.String("company_id", result.CompanyID.String()))
	return nil
}
