package main

import (
	"context"
	"errors"
	"fmt"

	"smarttax/internal/cache"
	"smarttax/internal/repository/postgres"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema and reference data",
	}

	cmd.AddCommand(migrateUpCmd())
	cmd.AddCommand(migrateDownCmd())
	cmd.AddCommand(migrateVersionCmd())

	return cmd
}

func migrateUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd.Context(), func(ctx context.Context, m *migrate.Migrate, env *migrateEnv) error {
				err := m.Up()
				if errors.Is(err, migrate.ErrNoChange) {
					env.logger.Info("No new migrations to apply")
					return nil
				}
				if err != nil {
					return fmt.Errorf("migrate up: %w", err)
				}
				env.logger.Info("Migrations applied successfully")
				env.invalidateLocations(ctx)
				return nil
			})
		},
	}
}

func migrateDownCmd() *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps < 1 {
				return fmt.Errorf("--steps must be at least 1")
			}
			return withMigrator(cmd.Context(), func(ctx context.Context, m *migrate.Migrate, env *migrateEnv) error {
				if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
					return fmt.Errorf("migrate down: %w", err)
				}
				env.logger.Info("Migrations rolled back", zap.Int("steps", steps))
				env.invalidateLocations(ctx)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "number of migrations to roll back")

	return cmd
}

func migrateVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd.Context(), func(ctx context.Context, m *migrate.Migrate, env *migrateEnv) error {
				version, dirty, err := m.Version()
				if errors.Is(err, migrate.ErrNilVersion) {
					fmt.Fprintln(cmd.OutOrStdout(), "no migrations applied")
					return nil
				}
				if err != nil {
					return fmt.Errorf("read version: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
				return nil
			})
		},
	}
}

type migrateEnv struct {
	logger *zap.Logger
	cache  *cache.LocationCache
}

// invalidateLocations drops cached reference data the migration may have changed
func (e *migrateEnv) invalidateLocations(ctx context.Context) {
	if e.cache == nil {
		return
	}
	removed, err := e.cache.Invalidate(ctx)
	if err != nil {
		e.logger.Warn("Failed to invalidate location cache", zap.Error(err))
		return
	}
	e.logger.Info("Location cache invalidated", zap.Int("keys", removed))
}

func withMigrator(ctx context.Context, fn func(context.Context, *migrate.Migrate, *migrateEnv) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := connectDatabase(ctx, cfg.DSN(), logger)
	if err != nil {
		return err
	}
	defer db.Close()

	m, err := newMigrator(db, cfg.Database.MigrationsPath)
	if err != nil {
		return err
	}

	env := &migrateEnv{logger: logger}
	if client := connectRedis(ctx, cfg.Redis, logger); client != nil {
		defer client.Close()
		env.cache = cache.NewLocationCache(postgres.NewLocationRepo(db), client, cfg.Redis.LocationTTL, logger)
	}

	return fn(ctx, m, env)
}
