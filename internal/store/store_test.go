package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/JonMunkholm/FieldInspect/internal/auth"
	"github.com/JonMunkholm/FieldInspect/internal/config"
	"github.com/JonMunkholm/FieldInspect/internal/core"
	"github.com/JonMunkholm/FieldInspect/internal/inventory"
)

var testNow = time.Date(2023, 10, 28, 10, 0, 0, 0, time.UTC)

func seedDataset(t *testing.T) Dataset {
	t.Helper()
	s, err := LoadSeed("")
	require.NoError(t, err)
	ds, err := s.Resolve(auth.NewHasher(bcrypt.MinCost), testNow)
	require.NoError(t, err)
	return ds
}

func TestResolveSeed(t *testing.T) {
	ds := seedDataset(t)

	require.Len(t, ds.Users, 2)
	assert.Equal(t, "admin", ds.Users[0].Username)
	assert.Equal(t, core.RoleAdmin, ds.Users[0].Role)
	assert.NoError(t, auth.NewHasher(bcrypt.MinCost).Compare(ds.Users[0].PasswordHash, "password"))

	assert.Len(t, ds.Centers, 5)
	assert.Equal(t, []inventory.Network{inventory.TDM, inventory.FTTH}, ds.Centers[0].SupportedTypes)

	require.Len(t, ds.LoginEvents, 4)
	assert.Equal(t, "le1", ds.LoginEvents[0].ID)
	assert.Equal(t, testNow.Add(-45*time.Minute), ds.LoginEvents[0].Timestamp)
	assert.Equal(t, "Bassam Karim", ds.LoginEvents[0].UserName)
	for i := 1; i < len(ds.LoginEvents); i++ {
		assert.False(t, ds.LoginEvents[i].Timestamp.After(ds.LoginEvents[i-1].Timestamp), "events newest first")
	}

	var tdm, ftth int
	for _, it := range ds.Items {
		switch it.Network {
		case inventory.TDM:
			tdm++
		case inventory.FTTH:
			ftth++
		}
		assert.NotEmpty(t, it.VisitStatus, it.ID)
	}
	assert.Equal(t, 62, tdm)
	assert.Equal(t, 44, ftth)

	require.Len(t, ds.Inspections, 4)
	assert.Equal(t, "i4", ds.Inspections[0].ID)
	assert.Equal(t, core.InspectionFTTHBox, ds.Inspections[0].Type)
	assert.NotNil(t, ds.Inspections[0].Data)
}

func TestParseSeed_Errors(t *testing.T) {
	hasher := auth.NewHasher(bcrypt.MinCost)

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := ParseSeed([]byte("users: [\n"))
		assert.Error(t, err)
	})

	t.Run("unknown login user", func(t *testing.T) {
		s, err := ParseSeed([]byte(`
users:
  - {id: u1, username: admin, name: Admin, role: admin}
loginEvents:
  - {id: le1, userId: nobody, ago: 1h}
`))
		require.NoError(t, err)
		_, err = s.Resolve(hasher, testNow)
		assert.ErrorContains(t, err, "unknown user nobody")
	})

	t.Run("bad inspection type", func(t *testing.T) {
		s, err := ParseSeed([]byte(`
inspections:
  - {id: i1, type: COAX, inspectorId: u1, date: '2023-10-25'}
`))
		require.NoError(t, err)
		_, err = s.Resolve(hasher, testNow)
		assert.ErrorIs(t, err, core.ErrValidation)
	})

	t.Run("defaults", func(t *testing.T) {
		s, err := ParseSeed([]byte(`
users:
  - {id: u1, username: admin, name: Admin, role: admin}
loginEvents:
  - {id: le1, userId: u1, ago: 1h}
inventory:
  tdm:
    - {id: t1, cabinet: '1-1', boxNumber: '1'}
`))
		require.NoError(t, err)
		ds, err := s.Resolve(hasher, testNow)
		require.NoError(t, err)
		assert.Equal(t, core.StatusActive, ds.Users[0].Status)
		assert.NoError(t, hasher.Compare(ds.Users[0].PasswordHash, core.DefaultPassword))
		assert.Equal(t, core.LocationDenied, ds.LoginEvents[0].Status)
		assert.Equal(t, inventory.Pending, ds.Items[0].VisitStatus)
	})
}

func TestMemory_Users(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(seedDataset(t))

	u, err := m.GetUserByUsername(ctx, "tech1")
	require.NoError(t, err)
	assert.Equal(t, "u2", u.ID)

	_, err = m.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.ErrorIs(t, err, core.ErrUserNotFound)

	err = m.CreateUser(ctx, core.User{ID: "u3", Username: "tech1", Name: "Clash"})
	assert.ErrorIs(t, err, core.ErrDuplicate)
	assert.ErrorIs(t, err, core.ErrUsernameTaken)

	require.NoError(t, m.CreateUser(ctx, core.User{ID: "u3", Username: "tech2", Name: "New"}))
	err = m.CreateUser(ctx, core.User{ID: "u3", Username: "tech3"})
	assert.ErrorIs(t, err, core.ErrDuplicate)

	u.Username = "admin"
	assert.ErrorIs(t, m.UpdateUser(ctx, u), core.ErrDuplicate)
	u.Username = "field1"
	require.NoError(t, m.UpdateUser(ctx, u))
	got, err := m.GetUser(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, "field1", got.Username)

	assert.ErrorIs(t, m.UpdateUser(ctx, core.User{ID: "nope"}), core.ErrNotFound)

	users, err := m.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)
}

func TestMemory_RecordLogin(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(seedDataset(t))

	ts := testNow.Add(time.Minute)
	require.NoError(t, m.RecordLogin(ctx, core.LoginEvent{ID: "le9", UserID: "u2", Timestamp: ts}))

	events, err := m.ListLoginEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, "le9", events[0].ID)

	u, err := m.GetUser(ctx, "u2")
	require.NoError(t, err)
	require.NotNil(t, u.LastLogin)
	assert.Equal(t, ts, *u.LastLogin)

	assert.ErrorIs(t, m.RecordLogin(ctx, core.LoginEvent{ID: "x", UserID: "ghost"}), core.ErrNotFound)
}

func TestMemory_AddInspection(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		visit      *inventory.BoxKey
		wantMarked int
	}{
		{"no visit", nil, 0},
		{"tdm box", &inventory.BoxKey{Network: inventory.TDM, MSANCode: "07-3-299-04", Cabinet: "2-2", BoxNumber: "4"}, 1},
		{"tdm wrong msan", &inventory.BoxKey{Network: inventory.TDM, MSANCode: "07-4-51-35", Cabinet: "2-2", BoxNumber: "4"}, 0},
		{"ftth box any msan", &inventory.BoxKey{Network: inventory.FTTH, Cabinet: "EL MAMALEK SQUARE CB(1-1)", BoxNumber: "4"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMemory(seedDataset(t))
			in := core.Inspection{ID: "new", Type: core.InspectionTDM, InspectorID: "u2", Date: "2023-10-28",
				Status: core.InspectionSubmitted, Data: map[string]string{"notes": "ok"}, CreatedAt: testNow}

			marked, err := m.AddInspection(ctx, in, tt.visit)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMarked, marked)

			if tt.visit != nil && tt.wantMarked > 0 {
				items, err := m.ListInventory(ctx, tt.visit.Network)
				require.NoError(t, err)
				for _, it := range items {
					if tt.visit.Matches(it) {
						assert.Equal(t, inventory.Done, it.VisitStatus, it.ID)
					}
				}
			}

			list, err := m.ListInspections(ctx)
			require.NoError(t, err)
			assert.Equal(t, "new", list[0].ID)

			_, err = m.AddInspection(ctx, in, nil)
			assert.ErrorIs(t, err, core.ErrDuplicate)
		})
	}
}

func TestMemory_InspectionDataIsCopied(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(seedDataset(t))

	data := map[string]string{"notes": "original"}
	_, err := m.AddInspection(ctx, core.Inspection{ID: "x", Data: data}, nil)
	require.NoError(t, err)
	data["notes"] = "mutated"

	got, err := m.GetInspection(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "original", got.Data["notes"])

	got.Data["notes"] = "changed again"
	again, err := m.GetInspection(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "original", again.Data["notes"])

	_, err = m.GetInspection(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestMemory_Centers(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(seedDataset(t))

	c, err := m.GetCenter(ctx, "c3")
	require.NoError(t, err)
	assert.Equal(t, "Mansoura Main", c.Name)
	assert.False(t, c.Active())

	_, err = m.GetCenter(ctx, "c9")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestIsDuplicateError(t *testing.T) {
	assert.True(t, isDuplicateError(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isDuplicateError(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isDuplicateError(assert.AnError))
}

func TestOpen_Memory(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: "Memory"}}
	st, closeFn, err := Open(context.Background(), cfg, auth.NewHasher(bcrypt.MinCost), testNow)
	require.NoError(t, err)
	defer closeFn()

	require.IsType(t, &Memory{}, st)
	items, err := st.ListInventory(context.Background(), inventory.FTTH)
	require.NoError(t, err)
	assert.Len(t, items, 44)
}

func TestOpen_Errors(t *testing.T) {
	hasher := auth.NewHasher(bcrypt.MinCost)

	_, _, err := Open(context.Background(), &config.Config{Store: config.StoreConfig{Driver: "sqlite"}}, hasher, testNow)
	assert.ErrorContains(t, err, "unknown store driver")

	_, _, err = Open(context.Background(), &config.Config{Store: config.StoreConfig{SeedFile: "does-not-exist.yaml"}}, hasher, testNow)
	assert.ErrorContains(t, err, "read seed file")
}

func TestPGConfigFrom(t *testing.T) {
	got := PGConfigFrom(config.DatabaseConfig{URL: "postgres://x", MaxConns: 8, MinConns: 2, MaxConnLifetime: time.Hour})
	assert.Equal(t, PGConfig{URL: "postgres://x", MaxConns: 8, MinConns: 2, MaxConnLifetime: time.Hour}, got)
}
