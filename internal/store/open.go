package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/JonMunkholm/FieldInspect/internal/config"
	"github.com/JonMunkholm/FieldInspect/internal/core"
)

// PGConfigFrom maps the database section of the application config.
func PGConfigFrom(db config.DatabaseConfig) PGConfig {
	return PGConfig{
		URL:             db.URL,
		MaxConns:        int32(db.MaxConns),
		MinConns:        int32(db.MinConns),
		MaxConnLifetime: db.MaxConnLifetime,
		MaxConnIdleTime: db.MaxConnIdleTime,
	}
}

// LoadDataset reads the configured seed file (or the embedded one) and
// resolves it against now.
func LoadDataset(cfg config.StoreConfig, hasher core.PasswordHasher, now time.Time) (Dataset, error) {
	seed, err := LoadSeed(cfg.SeedFile)
	if err != nil {
		return Dataset{}, err
	}
	return seed.Resolve(hasher, now)
}

// Open builds the store selected by cfg.Store.Driver. The memory store is
// filled from the seed. The postgres store is migrated and, when
// SeedOnStart is set and the database is empty, seeded. The returned
// func releases the store's resources.
func Open(ctx context.Context, cfg *config.Config, hasher core.PasswordHasher, now time.Time) (core.Store, func(), error) {
	switch strings.ToLower(cfg.Store.Driver) {
	case "", config.DriverMemory:
		ds, err := LoadDataset(cfg.Store, hasher, now)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("memory store ready",
			"users", len(ds.Users),
			"inventory", len(ds.Items),
			"inspections", len(ds.Inspections),
		)
		return NewMemory(ds), func() {}, nil

	case config.DriverPostgres:
		pg, err := NewPostgres(ctx, PGConfigFrom(cfg.Database))
		if err != nil {
			return nil, nil, err
		}
		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			return nil, nil, err
		}
		if cfg.Store.SeedOnStart {
			if err := seedIfEmpty(ctx, pg, cfg.Store, hasher, now); err != nil {
				pg.Close()
				return nil, nil, err
			}
		}
		return pg, pg.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

func seedIfEmpty(ctx context.Context, pg *Postgres, cfg config.StoreConfig, hasher core.PasswordHasher, now time.Time) error {
	empty, err := pg.Empty(ctx)
	if err != nil {
		return err
	}
	if !empty {
		return nil
	}
	ds, err := LoadDataset(cfg, hasher, now)
	if err != nil {
		return err
	}
	if err := pg.Seed(ctx, ds); err != nil {
		return err
	}
	slog.Info("seeded empty database", "users", len(ds.Users), "inventory", len(ds.Items))
	return nil
}
