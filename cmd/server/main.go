package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/FieldInspect/internal/auth"
	"github.com/JonMunkholm/FieldInspect/internal/config"
	"github.com/JonMunkholm/FieldInspect/internal/core"
	"github.com/JonMunkholm/FieldInspect/internal/geo"
	"github.com/JonMunkholm/FieldInspect/internal/inventory"
	_ "github.com/JonMunkholm/FieldInspect/internal/inventory/networks" // Register TDM and FTTH
	"github.com/JonMunkholm/FieldInspect/internal/logging"
	"github.com/JonMunkholm/FieldInspect/internal/metrics"
	"github.com/JonMunkholm/FieldInspect/internal/report"
	"github.com/JonMunkholm/FieldInspect/internal/store"
	"github.com/JonMunkholm/FieldInspect/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"store", cfg.Store.Driver,
		"rate_limit_enabled", cfg.Rate.Enabled,
		"geocoding_enabled", cfg.Geocoding.Enabled,
		"time_zone", cfg.Reports.TimeZone,
	)
	slog.Debug("effective configuration", "config", cfg.String())

	loc, err := cfg.Reports.Location()
	if err != nil {
		slog.Error("failed to load time zone", "error", err)
		os.Exit(1)
	}
	hour, minute, err := cfg.Reports.Cutoff()
	if err != nil {
		slog.Error("failed to parse on-time cutoff", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hasher := auth.NewHasher(cfg.Auth.BcryptCost)
	st, closeStore, err := store.Open(ctx, cfg, hasher, time.Now())
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	service := core.NewService(st, core.Options{
		Hasher: hasher,
		Geocoder: geo.New(geo.Config{
			Enabled:   cfg.Geocoding.Enabled,
			BaseURL:   cfg.Geocoding.BaseURL,
			Timeout:   cfg.Geocoding.Timeout,
			UserAgent: cfg.Geocoding.UserAgent,
		}),
		Location:        loc,
		DefaultPassword: cfg.Auth.DefaultPassword,
	})

	for _, def := range inventory.All() {
		slog.Debug("network registered", "network", def.Network, "levels", len(def.Hierarchy))
	}

	server := web.NewServer(service, cfg, web.Deps{
		Issuer:  auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Metrics: metrics.New("fieldinspect"),
		Cutoff:  report.Cutoff{Hour: hour, Minute: minute},
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.Start(cfg.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		// Graceful shutdown
		<-gctx.Done()
		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server stopped", "error", err)
		closeStore()
		os.Exit(1)
	}
	slog.Info("server stopped")
}
