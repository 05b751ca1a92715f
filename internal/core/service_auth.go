package core

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/FieldInspect/internal/logging"
)

// Login checks credentials and records a login event.
//
// Unknown usernames and wrong passwords both return ErrInvalidCredentials.
// A correct password on an inactive account returns ErrInactiveAccount.
// When pos is non-nil the event is marked as provided and, if the client
// sent no address, one is looked up from the coordinates.
func (s *Service) Login(ctx context.Context, username, password string, pos *GeoPoint) (User, LoginEvent, error) {
	u, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return User{}, LoginEvent{}, fmt.Errorf("login %q: %w", username, ErrInvalidCredentials)
	}
	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return User{}, LoginEvent{}, fmt.Errorf("login %q: %w", username, ErrInvalidCredentials)
	}
	if !u.Active() {
		return User{}, LoginEvent{}, fmt.Errorf("login %q: %w", username, ErrInactiveAccount)
	}

	now := s.now()
	ev := LoginEvent{
		ID:        s.newID(),
		UserID:    u.ID,
		UserName:  u.Name,
		UserRole:  u.Role,
		Timestamp: now,
		Status:    LocationDenied,
	}
	if pos != nil {
		lat, lng := pos.Lat, pos.Lng
		ev.Lat, ev.Lng = &lat, &lng
		ev.Status = LocationProvided
		ev.Address = pos.Address
		if ev.Address == "" && s.geocoder != nil {
			ev.Address = s.geocoder.Reverse(ctx, lat, lng)
		}
	}

	if err := s.store.RecordLogin(ctx, ev); err != nil {
		return User{}, LoginEvent{}, fmt.Errorf("record login: %w", err)
	}
	u.LastLogin = &now

	logging.WithFields(ctx,
		"user_id", u.ID,
		"location", ev.Status,
		"ip", GetIPAddressFromContext(ctx),
		"user_agent", GetUserAgentFromContext(ctx),
	).Info("user logged in")
	return u, ev, nil
}

// Authenticate reloads the user behind an access token. Deleted users
// fail with ErrInvalidCredentials and deactivated ones with
// ErrInactiveAccount, so tokens stop working as soon as an admin
// deactivates the account.
func (s *Service) Authenticate(ctx context.Context, userID string) (User, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return User{}, fmt.Errorf("authenticate %s: %w", userID, ErrInvalidCredentials)
	}
	if !u.Active() {
		return User{}, fmt.Errorf("authenticate %s: %w", userID, ErrInactiveAccount)
	}
	return u, nil
}

// ListLoginEvents returns login events newest first.
func (s *Service) ListLoginEvents(ctx context.Context) ([]LoginEvent, error) {
	return s.store.ListLoginEvents(ctx)
}
