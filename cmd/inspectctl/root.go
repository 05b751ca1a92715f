package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/FieldInspect/internal/auth"
	"github.com/JonMunkholm/FieldInspect/internal/config"
	"github.com/JonMunkholm/FieldInspect/internal/core"
	"github.com/JonMunkholm/FieldInspect/internal/logging"
	"github.com/JonMunkholm/FieldInspect/internal/report"
	"github.com/JonMunkholm/FieldInspect/internal/store"
)

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:   "inspectctl",
		Short: "Manage the field inspection store and export reports",
		Long: `inspectctl works against the store configured by the same environment
variables as the server (STORE_DRIVER, DATABASE_URL, REPORTS_TIME_ZONE, ...).

Available subcommands:
  migrate - Create or update the PostgreSQL schema
  seed    - Load the seed data into an empty PostgreSQL database
  export  - Write inventory, detailed or login reports as CSV`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if envFile != "" {
				if err := godotenv.Overload(envFile); err != nil {
					return fmt.Errorf("load %s: %w", envFile, err)
				}
			} else {
				_ = godotenv.Load()
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "load environment variables from this file")

	root.AddCommand(newMigrateCmd(), newSeedCmd(), newExportCmd())
	return root
}

// loadConfig reads configuration and routes logs to stderr so CSV on
// stdout stays clean.
func loadConfig(stderr io.Writer) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logging.New(stderr, cfg.Logging.Level, cfg.Logging.Format))
	return cfg, nil
}

// app is a configured service over the selected store.
type app struct {
	cfg     *config.Config
	service *core.Service
	cutoff  report.Cutoff
	close   func()
}

func openApp(ctx context.Context, stderr io.Writer) (*app, error) {
	cfg, err := loadConfig(stderr)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Reports.Location()
	if err != nil {
		return nil, err
	}
	hour, minute, err := cfg.Reports.Cutoff()
	if err != nil {
		return nil, err
	}

	hasher := auth.NewHasher(cfg.Auth.BcryptCost)
	st, closeStore, err := store.Open(ctx, cfg, hasher, time.Now())
	if err != nil {
		return nil, err
	}
	return &app{
		cfg: cfg,
		service: core.NewService(st, core.Options{
			Hasher:          hasher,
			Location:        loc,
			DefaultPassword: cfg.Auth.DefaultPassword,
		}),
		cutoff: report.Cutoff{Hour: hour, Minute: minute},
		close:  closeStore,
	}, nil
}

// output returns the file named by path, or stdout when path is empty or "-".
func output(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
