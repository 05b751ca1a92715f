// Package store implements core.Store in memory and on PostgreSQL, and
// loads the seed dataset both of them start from.
package store

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/FieldInspect/internal/core"
	"github.com/JonMunkholm/FieldInspect/internal/inventory"
)

//go:embed seed.yaml
var defaultSeed []byte

// Seed is the YAML form of the initial dataset.
type Seed struct {
	Users       []seedUser       `yaml:"users"`
	Centers     []seedCenter     `yaml:"centers"`
	LoginEvents []seedLoginEvent `yaml:"loginEvents"`
	Inventory   struct {
		TDM  []inventory.Item `yaml:"tdm"`
		FTTH []inventory.Item `yaml:"ftth"`
	} `yaml:"inventory"`
	Inspections []seedInspection `yaml:"inspections"`
}

type seedUser struct {
	ID        string     `yaml:"id"`
	Username  string     `yaml:"username"`
	Name      string     `yaml:"name"`
	Role      core.Role  `yaml:"role"`
	Status    string     `yaml:"status"`
	Avatar    string     `yaml:"avatar"`
	LastLogin *time.Time `yaml:"lastLogin"`
	Password  string     `yaml:"password"`
}

type seedCenter struct {
	ID             string              `yaml:"id"`
	Name           string              `yaml:"name"`
	Code           string              `yaml:"code"`
	Governorate    string              `yaml:"governorate"`
	Status         string              `yaml:"status"`
	Lat            float64             `yaml:"lat"`
	Lng            float64             `yaml:"lng"`
	SupportedTypes []inventory.Network `yaml:"supportedTypes"`
}

type seedLoginEvent struct {
	ID        string        `yaml:"id"`
	UserID    string        `yaml:"userId"`
	Timestamp *time.Time    `yaml:"timestamp"`
	Ago       time.Duration `yaml:"ago"`
	Lat       *float64      `yaml:"lat"`
	Lng       *float64      `yaml:"lng"`
	Address   string        `yaml:"address"`
	Status    string        `yaml:"status"`
}

type seedInspection struct {
	ID          string            `yaml:"id"`
	Type        string            `yaml:"type"`
	CenterID    string            `yaml:"centerId"`
	InspectorID string            `yaml:"inspectorId"`
	Date        string            `yaml:"date"`
	Status      string            `yaml:"status"`
	Data        map[string]string `yaml:"data"`
}

// Dataset is a resolved seed ready to be written to a store.
type Dataset struct {
	Users       []core.User
	Centers     []core.Center
	LoginEvents []core.LoginEvent // newest first
	Items       []inventory.Item  // TDM then FTTH, in file order
	Inspections []core.Inspection // newest first
}

// LoadSeed reads a seed file, or the embedded seed when path is empty.
func LoadSeed(path string) (*Seed, error) {
	data := defaultSeed
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		data = b
	}
	return ParseSeed(data)
}

// ParseSeed decodes seed YAML.
func ParseSeed(data []byte) (*Seed, error) {
	var s Seed
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	return &s, nil
}

// Resolve hashes passwords, denormalizes login events and places relative
// timestamps against now.
func (s *Seed) Resolve(hasher core.PasswordHasher, now time.Time) (Dataset, error) {
	var ds Dataset

	byID := make(map[string]core.User, len(s.Users))
	for _, su := range s.Users {
		if su.Password == "" {
			su.Password = core.DefaultPassword
		}
		hash, err := hasher.Hash(su.Password)
		if err != nil {
			return Dataset{}, fmt.Errorf("hash password for %s: %w", su.Username, err)
		}
		status := core.UserStatus(su.Status)
		if status == "" {
			status = core.StatusActive
		}
		u := core.User{
			ID:           su.ID,
			Username:     su.Username,
			Name:         su.Name,
			Role:         su.Role,
			Status:       status,
			Avatar:       su.Avatar,
			LastLogin:    su.LastLogin,
			PasswordHash: hash,
		}
		byID[u.ID] = u
		ds.Users = append(ds.Users, u)
	}

	for _, sc := range s.Centers {
		ds.Centers = append(ds.Centers, core.Center(sc))
	}

	for _, se := range s.LoginEvents {
		u, ok := byID[se.UserID]
		if !ok {
			return Dataset{}, fmt.Errorf("login event %s: unknown user %s", se.ID, se.UserID)
		}
		ts := now.Add(-se.Ago)
		if se.Timestamp != nil {
			ts = *se.Timestamp
		}
		status := core.LocationStatus(se.Status)
		if status == "" {
			status = core.LocationDenied
			if se.Lat != nil {
				status = core.LocationProvided
			}
		}
		ds.LoginEvents = append(ds.LoginEvents, core.LoginEvent{
			ID:        se.ID,
			UserID:    u.ID,
			UserName:  u.Name,
			UserRole:  u.Role,
			Timestamp: ts,
			Lat:       se.Lat,
			Lng:       se.Lng,
			Address:   se.Address,
			Status:    status,
		})
	}
	sort.SliceStable(ds.LoginEvents, func(i, j int) bool {
		return ds.LoginEvents[i].Timestamp.After(ds.LoginEvents[j].Timestamp)
	})

	for _, it := range s.Inventory.TDM {
		it.Network = inventory.TDM
		ds.Items = append(ds.Items, withDefaultStatus(it))
	}
	for _, it := range s.Inventory.FTTH {
		it.Network = inventory.FTTH
		ds.Items = append(ds.Items, withDefaultStatus(it))
	}

	for _, si := range s.Inspections {
		t, err := core.ParseInspectionType(si.Type)
		if err != nil {
			return Dataset{}, fmt.Errorf("inspection %s: %w", si.ID, err)
		}
		created, err := time.ParseInLocation(core.DateLayout, si.Date, now.Location())
		if err != nil {
			return Dataset{}, fmt.Errorf("inspection %s: invalid date %q", si.ID, si.Date)
		}
		data := si.Data
		if data == nil {
			data = map[string]string{}
		}
		ds.Inspections = append(ds.Inspections, core.Inspection{
			ID:          si.ID,
			Type:        t,
			CenterID:    si.CenterID,
			InspectorID: si.InspectorID,
			Date:        si.Date,
			Status:      core.InspectionStatus(si.Status),
			Data:        data,
			CreatedAt:   created,
		})
	}
	sort.SliceStable(ds.Inspections, func(i, j int) bool {
		return ds.Inspections[i].CreatedAt.After(ds.Inspections[j].CreatedAt)
	})

	return ds, nil
}

func withDefaultStatus(it inventory.Item) inventory.Item {
	if it.VisitStatus == "" {
		it.VisitStatus = inventory.Pending
	}
	return it
}
