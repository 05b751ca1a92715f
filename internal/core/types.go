package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/FieldInspect/internal/inventory"
)

// Role is a user's access level.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleInspector Role = "inspector"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleInspector
}

// UserStatus controls whether a user may sign in.
type UserStatus string

const (
	StatusActive   UserStatus = "active"
	StatusInactive UserStatus = "inactive"
)

// User is an application account. PasswordHash is never serialized.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Name         string     `json:"name"`
	Role         Role       `json:"role"`
	Status       UserStatus `json:"status"`
	Avatar       string     `json:"avatar,omitempty"`
	LastLogin    *time.Time `json:"lastLogin"`
	PasswordHash string     `json:"-"`
}

// Active reports whether the user may sign in.
func (u User) Active() bool {
	return u.Status == StatusActive
}

// Center is an exchange building.
type Center struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	Code           string              `json:"code"`
	Governorate    string              `json:"governorate"`
	Status         string              `json:"status"`
	Lat            float64             `json:"lat"`
	Lng            float64             `json:"lng"`
	SupportedTypes []inventory.Network `json:"supportedTypes"`
}

// Active reports whether the center is in service.
func (c Center) Active() bool {
	return c.Status == string(StatusActive)
}

// InspectionType is the kind of asset an inspection covers.
type InspectionType string

const (
	InspectionTDM         InspectionType = "TDM"
	InspectionFTTHCabinet InspectionType = "FTTH_CABINET"
	InspectionFTTHBox     InspectionType = "FTTH_BOX"
)

// ParseInspectionType accepts "tdm", "ftth_box", "ftth-box" and similar.
func ParseInspectionType(s string) (InspectionType, error) {
	t := InspectionType(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")))
	switch t {
	case InspectionTDM, InspectionFTTHCabinet, InspectionFTTHBox:
		return t, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownInspectionType, s)
}

// Network returns the access network the inspection type belongs to.
func (t InspectionType) Network() inventory.Network {
	if strings.HasPrefix(string(t), string(inventory.FTTH)) {
		return inventory.FTTH
	}
	return inventory.TDM
}

// InspectionStatus is the review state of an inspection.
type InspectionStatus string

const (
	InspectionSubmitted InspectionStatus = "submitted"
	InspectionPending   InspectionStatus = "pending"
)

// DateLayout is the calendar date format used for inspection dates.
const DateLayout = "2006-01-02"

// Inspection is one submitted checklist.
type Inspection struct {
	ID          string            `json:"id"`
	Type        InspectionType    `json:"type"`
	CenterID    string            `json:"centerId,omitempty"`
	InspectorID string            `json:"inspectorId"`
	Date        string            `json:"date"`
	Status      InspectionStatus  `json:"status"`
	Data        map[string]string `json:"data"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// LocationStatus records whether the browser shared its position at login.
type LocationStatus string

const (
	LocationProvided LocationStatus = "provided"
	LocationDenied   LocationStatus = "denied"
)

// LoginEvent is one successful sign-in.
type LoginEvent struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	UserName  string         `json:"userName"`
	UserRole  Role           `json:"userRole"`
	Timestamp time.Time      `json:"timestamp"`
	Lat       *float64       `json:"lat"`
	Lng       *float64       `json:"lng"`
	Address   string         `json:"address,omitempty"`
	Status    LocationStatus `json:"status"`
}

// GeoPoint is a position reported by the client at login.
type GeoPoint struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}
