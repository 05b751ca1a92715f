// Package core provides the business logic for field inspections.
//
// This package holds the domain model and every operation on it,
// independent of any transport. It is used by the HTTP server, the
// inspectctl CLI and tests without modification.
//
// # Architecture
//
//   - Users and login events: account management and the login flow that
//     records where and when each user signed in.
//   - Forms: the inspection checklists per inspection type, including the
//     location fields that cascade over the inventory hierarchy.
//   - Inspections: submission, which validates a form and marks the
//     inspected box as visited, and per-user listing.
//   - Store: the persistence contract implemented by internal/store.
//
// # Dependencies
//
// The service takes its collaborators as interfaces: a [Store], a
// [PasswordHasher] and an optional [Geocoder]. Concrete implementations
// live in internal/store, internal/auth and internal/geo.
//
//	svc := core.NewService(store, core.Options{
//	    Hasher:   auth.NewHasher(cfg.Auth.BcryptCost),
//	    Geocoder: geo.New(geo.Config{...}),
//	    Location: loc,
//	})
package core
