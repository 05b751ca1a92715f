package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/FieldInspect/internal/inventory"
)

// DefaultPassword is assigned to users created without a password.
const DefaultPassword = "password"

// Options configures a Service. Hasher is required.
type Options struct {
	Hasher   PasswordHasher
	Geocoder Geocoder // nil disables address lookup

	// Location is the time zone for calendar dates (default UTC).
	Location *time.Location
	Clock    Clock

	// DefaultPassword overrides the package default for new users.
	DefaultPassword string
}

// Service provides the core business logic for field inspections.
type Service struct {
	store    Store
	hasher   PasswordHasher
	geocoder Geocoder
	loc      *time.Location
	now      Clock

	defaultPassword string
	newID           func() string
}

// NewService creates a new Service instance.
func NewService(store Store, opts Options) *Service {
	s := &Service{
		store:           store,
		hasher:          opts.Hasher,
		geocoder:        opts.Geocoder,
		loc:             opts.Location,
		now:             opts.Clock,
		defaultPassword: opts.DefaultPassword,
		newID:           uuid.NewString,
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.defaultPassword == "" {
		s.defaultPassword = DefaultPassword
	}
	return s
}

// Location returns the service's calendar time zone.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Now returns the current time in the service's time zone.
func (s *Service) Now() time.Time {
	return s.now().In(s.loc)
}

// ListCenters returns every exchange center.
func (s *Service) ListCenters(ctx context.Context) ([]Center, error) {
	return s.store.ListCenters(ctx)
}

// Inventory returns the items of one network.
func (s *Service) Inventory(ctx context.Context, n inventory.Network) ([]inventory.Item, error) {
	items, err := s.store.ListInventory(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("list %s inventory: %w", n, err)
	}
	return items, nil
}

// Snapshot is every collection the dashboard and reports aggregate over.
type Snapshot struct {
	Users       []User
	Centers     []Center
	LoginEvents []LoginEvent
	Inspections []Inspection
	TDM         []inventory.Item
	FTTH        []inventory.Item
}

// Items returns the inventory slice for a network.
func (sn Snapshot) Items(n inventory.Network) []inventory.Item {
	if n == inventory.FTTH {
		return sn.FTTH
	}
	return sn.TDM
}

// Snapshot loads every collection concurrently.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	var sn Snapshot
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		sn.Users, err = s.store.ListUsers(ctx)
		return err
	})
	g.Go(func() (err error) {
		sn.Centers, err = s.store.ListCenters(ctx)
		return err
	})
	g.Go(func() (err error) {
		sn.LoginEvents, err = s.store.ListLoginEvents(ctx)
		return err
	})
	g.Go(func() (err error) {
		sn.Inspections, err = s.store.ListInspections(ctx)
		return err
	})
	g.Go(func() (err error) {
		sn.TDM, err = s.store.ListInventory(ctx, inventory.TDM)
		return err
	})
	g.Go(func() (err error) {
		sn.FTTH, err = s.store.ListInventory(ctx, inventory.FTTH)
		return err
	})

	if err := g.Wait(); err != nil {
		return Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	return sn, nil
}
