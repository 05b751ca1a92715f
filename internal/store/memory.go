package store

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/JonMunkholm/FieldInspect/internal/core"
	"github.com/JonMunkholm/FieldInspect/internal/inventory"
)

// Memory is a mutex-guarded in-process store. State lives for the
// lifetime of the process.
type Memory struct {
	mu          sync.RWMutex
	users       []core.User
	events      []core.LoginEvent // newest first
	centers     []core.Center
	items       map[inventory.Network][]inventory.Item
	inspections []core.Inspection // newest first
}

var _ core.Store = (*Memory)(nil)

// NewMemory returns a store holding ds.
func NewMemory(ds Dataset) *Memory {
	m := &Memory{items: make(map[inventory.Network][]inventory.Item)}
	m.users = append(m.users, ds.Users...)
	m.events = append(m.events, ds.LoginEvents...)
	m.centers = append(m.centers, ds.Centers...)
	for _, it := range ds.Items {
		m.items[it.Network] = append(m.items[it.Network], it)
	}
	for _, in := range ds.Inspections {
		m.inspections = append(m.inspections, copyInspection(in))
	}
	return m
}

func copyInspection(in core.Inspection) core.Inspection {
	in.Data = maps.Clone(in.Data)
	if in.Data == nil {
		in.Data = map[string]string{}
	}
	return in
}

func (m *Memory) userIndex(id string) int {
	for i, u := range m.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func (m *Memory) usernameTaken(username, exceptID string) bool {
	for _, u := range m.users {
		if u.Username == username && u.ID != exceptID {
			return true
		}
	}
	return false
}

func (m *Memory) ListUsers(_ context.Context) ([]core.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]core.User(nil), m.users...), nil
}

func (m *Memory) GetUser(_ context.Context, id string) (core.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := m.userIndex(id); i >= 0 {
		return m.users[i], nil
	}
	return core.User{}, fmt.Errorf("%w: %s", core.ErrUserNotFound, id)
}

func (m *Memory) GetUserByUsername(_ context.Context, username string) (core.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return core.User{}, fmt.Errorf("%w: %s", core.ErrUserNotFound, username)
}

func (m *Memory) CreateUser(_ context.Context, u core.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.userIndex(u.ID) >= 0 {
		return fmt.Errorf("user id %q %w", u.ID, core.ErrDuplicate)
	}
	if m.usernameTaken(u.Username, "") {
		return fmt.Errorf("%w: %q", core.ErrUsernameTaken, u.Username)
	}
	m.users = append(m.users, u)
	return nil
}

func (m *Memory) UpdateUser(_ context.Context, u core.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.userIndex(u.ID)
	if i < 0 {
		return fmt.Errorf("%w: %s", core.ErrUserNotFound, u.ID)
	}
	if m.usernameTaken(u.Username, u.ID) {
		return fmt.Errorf("%w: %q", core.ErrUsernameTaken, u.Username)
	}
	m.users[i] = u
	return nil
}

func (m *Memory) RecordLogin(_ context.Context, ev core.LoginEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.userIndex(ev.UserID)
	if i < 0 {
		return fmt.Errorf("%w: %s", core.ErrUserNotFound, ev.UserID)
	}
	ts := ev.Timestamp
	m.users[i].LastLogin = &ts
	m.events = append([]core.LoginEvent{ev}, m.events...)
	return nil
}

func (m *Memory) ListLoginEvents(_ context.Context) ([]core.LoginEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]core.LoginEvent(nil), m.events...), nil
}

func (m *Memory) ListCenters(_ context.Context) ([]core.Center, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]core.Center(nil), m.centers...), nil
}

func (m *Memory) GetCenter(_ context.Context, id string) (core.Center, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.centers {
		if c.ID == id {
			return c, nil
		}
	}
	return core.Center{}, fmt.Errorf("%w: %s", core.ErrCenterNotFound, id)
}

func (m *Memory) ListInventory(_ context.Context, n inventory.Network) ([]inventory.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]inventory.Item(nil), m.items[n]...), nil
}

func (m *Memory) AddInspection(_ context.Context, in core.Inspection, visit *inventory.BoxKey) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.inspections {
		if existing.ID == in.ID {
			return 0, fmt.Errorf("inspection id %q %w", in.ID, core.ErrDuplicate)
		}
	}

	marked := 0
	if visit != nil {
		items := m.items[visit.Network]
		for i := range items {
			if visit.Matches(items[i]) {
				items[i].VisitStatus = inventory.Done
				marked++
			}
		}
	}
	m.inspections = append([]core.Inspection{copyInspection(in)}, m.inspections...)
	return marked, nil
}

func (m *Memory) ListInspections(_ context.Context) ([]core.Inspection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]core.Inspection, len(m.inspections))
	for i, in := range m.inspections {
		out[i] = copyInspection(in)
	}
	return out, nil
}

func (m *Memory) GetInspection(_ context.Context, id string) (core.Inspection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, in := range m.inspections {
		if in.ID == id {
			return copyInspection(in), nil
		}
	}
	return core.Inspection{}, fmt.Errorf("%w: %s", core.ErrInspectionNotFound, id)
}
