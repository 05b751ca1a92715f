package core

import (
	"context"
	"time"

	"github.com/JonMunkholm/FieldInspect/internal/inventory"
)

// Store is the persistence contract. Implementations return ErrNotFound
// for missing records and ErrDuplicate for username collisions, wrapped
// with detail.
type Store interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
	CreateUser(ctx context.Context, u User) error
	UpdateUser(ctx context.Context, u User) error

	// RecordLogin stores the event and stamps the user's last login.
	RecordLogin(ctx context.Context, ev LoginEvent) error
	// ListLoginEvents returns events newest first.
	ListLoginEvents(ctx context.Context) ([]LoginEvent, error)

	ListCenters(ctx context.Context) ([]Center, error)
	GetCenter(ctx context.Context, id string) (Center, error)

	// ListInventory returns the items of one network in load order.
	ListInventory(ctx context.Context, network inventory.Network) ([]inventory.Item, error)

	// AddInspection stores the inspection and, when visit is non-nil, marks
	// every matching box Done in the same unit of work. It returns the
	// number of boxes marked.
	AddInspection(ctx context.Context, in Inspection, visit *inventory.BoxKey) (int, error)
	// ListInspections returns inspections newest first.
	ListInspections(ctx context.Context) ([]Inspection, error)
	GetInspection(ctx context.Context, id string) (Inspection, error)
}

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns nil when password matches hash.
	Compare(hash, password string) error
}

// Geocoder turns coordinates into a display address. Implementations
// never fail; they fall back to a coordinate string.
type Geocoder interface {
	Reverse(ctx context.Context, lat, lng float64) string
}

// Clock returns the current time. Tests substitute a fixed clock.
type Clock func() time.Time
