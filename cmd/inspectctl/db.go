package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/FieldInspect/internal/auth"
	"github.com/JonMunkholm/FieldInspect/internal/config"
	"github.com/JonMunkholm/FieldInspect/internal/store"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the PostgreSQL schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			pg, err := openPostgres(cmd, cfg)
			if err != nil {
				return err
			}
			defer pg.Close()

			if err := pg.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the seed data into PostgreSQL",
		Long: `Migrates the schema and loads users, centers, inventory, inspections and
login events from STORE_SEED_FILE (or the built-in seed).

A database that already holds users is left alone unless --force is given.
Forced seeding skips rows whose keys already exist.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			pg, err := openPostgres(cmd, cfg)
			if err != nil {
				return err
			}
			defer pg.Close()

			ctx := cmd.Context()
			if err := pg.Migrate(ctx); err != nil {
				return err
			}
			if !force {
				empty, err := pg.Empty(ctx)
				if err != nil {
					return err
				}
				if !empty {
					fmt.Fprintln(cmd.OutOrStdout(), "database already seeded; use --force to load anyway")
					return nil
				}
			}

			ds, err := store.LoadDataset(cfg.Store, auth.NewHasher(cfg.Auth.BcryptCost), time.Now())
			if err != nil {
				return err
			}
			if err := pg.Seed(ctx, ds); err != nil {
				return err
			}
			slog.Info("seed loaded", "users", len(ds.Users), "inventory", len(ds.Items), "inspections", len(ds.Inspections))
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users, %d inventory items\n", len(ds.Users), len(ds.Items))
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "seed even if the database is not empty")
	return cmd
}

func openPostgres(cmd *cobra.Command, cfg *config.Config) (*store.Postgres, error) {
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	return store.NewPostgres(cmd.Context(), store.PGConfigFrom(cfg.Database))
}
