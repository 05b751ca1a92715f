package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// UserInput carries the editable fields of a user.
type UserInput struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	Password string `json:"password,omitempty"`
}

func (in *UserInput) normalize() ValidationErrors {
	in.Username = strings.TrimSpace(in.Username)
	in.Name = strings.TrimSpace(in.Name)

	var errs ValidationErrors
	if in.Username == "" {
		errs = append(errs, ValidationError{Field: "username", Message: "is required"})
	} else if strings.ContainsAny(in.Username, " \t") {
		errs = append(errs, ValidationError{Field: "username", Value: in.Username, Message: "must not contain spaces"})
	}
	if in.Name == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "is required"})
	}
	if in.Role == "" {
		in.Role = RoleInspector
	} else if !in.Role.Valid() {
		errs = append(errs, ValidationError{Field: "role", Value: string(in.Role), Message: "must be admin or inspector"})
	}
	return errs
}

// ListUsers returns users whose name or username contains search,
// case-insensitively, ordered by name.
func (s *Service) ListUsers(ctx context.Context, search string) ([]User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	q := strings.ToLower(strings.TrimSpace(search))
	out := make([]User, 0, len(users))
	for _, u := range users {
		if q == "" ||
			strings.Contains(strings.ToLower(u.Name), q) ||
			strings.Contains(strings.ToLower(u.Username), q) {
			out = append(out, u)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// GetUser returns one user.
func (s *Service) GetUser(ctx context.Context, id string) (User, error) {
	return s.store.GetUser(ctx, id)
}

// CreateUser adds an active user. The password defaults to the
// configured default and the role to inspector.
func (s *Service) CreateUser(ctx context.Context, in UserInput) (User, error) {
	if errs := in.normalize(); len(errs) > 0 {
		return User{}, errs
	}
	password := in.Password
	if password == "" {
		password = s.defaultPassword
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	u := User{
		ID:           s.newID(),
		Username:     in.Username,
		Name:         in.Name,
		Role:         in.Role,
		Status:       StatusActive,
		PasswordHash: hash,
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// UpdateUser changes name, username and role. The password changes only
// when a new one is given.
func (s *Service) UpdateUser(ctx context.Context, id string, in UserInput) (User, error) {
	if errs := in.normalize(); len(errs) > 0 {
		return User{}, errs
	}
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return User{}, err
	}

	u.Username = in.Username
	u.Name = in.Name
	u.Role = in.Role
	if in.Password != "" {
		hash, err := s.hasher.Hash(in.Password)
		if err != nil {
			return User{}, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = hash
	}

	if err := s.store.UpdateUser(ctx, u); err != nil {
		return User{}, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

// ToggleUserStatus flips a user between active and inactive.
func (s *Service) ToggleUserStatus(ctx context.Context, id string) (User, error) {
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return User{}, err
	}
	next := StatusInactive
	if u.Status != StatusActive {
		next = StatusActive
	}
	return s.SetUserStatus(ctx, id, next)
}

// SetUserStatus sets a user's status explicitly.
func (s *Service) SetUserStatus(ctx context.Context, id string, status UserStatus) (User, error) {
	if status != StatusActive && status != StatusInactive {
		return User{}, ValidationErrors{{Field: "status", Value: string(status), Message: "must be active or inactive"}}
	}
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return User{}, err
	}
	u.Status = status
	if err := s.store.UpdateUser(ctx, u); err != nil {
		return User{}, fmt.Errorf("update user status: %w", err)
	}
	return u, nil
}
