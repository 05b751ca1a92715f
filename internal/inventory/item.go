// Package inventory holds the network equipment inventory model and the
// cascading hierarchical filter used to narrow it down.
//
// Inventory records are plain values. Every operation here is a pure
// function over a slice of records; callers load the slice from a store
// and pass it in.
package inventory

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownNetwork is returned for network keys that are not TDM or FTTH
// or have no registered definition.
var ErrUnknownNetwork = errors.New("unknown network")

// Network identifies an access network technology.
type Network string

const (
	TDM  Network = "TDM"
	FTTH Network = "FTTH"
)

// ParseNetwork accepts a network key in any case.
func ParseNetwork(s string) (Network, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(TDM):
		return TDM, nil
	case string(FTTH):
		return FTTH, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownNetwork, s)
}

// Lower returns the lowercase key used in URLs and file names.
func (n Network) Lower() string {
	return strings.ToLower(string(n))
}

// VisitStatus records whether a box has been inspected.
type VisitStatus string

const (
	Done    VisitStatus = "Done"
	Pending VisitStatus = "Pending"

	// TamElZeyara is the Arabic "visit completed" marker found in imported sheets.
	TamElZeyara VisitStatus = "Tam El Zeyara"
)

// IsVisited reports whether the status counts as done.
func (s VisitStatus) IsVisited() bool {
	return s == Done || s == TamElZeyara
}

// Item is a single distribution box in the inventory.
//
// Cabinet holds the copper cabinet number for TDM items and the passive
// cabinet name for FTTH items. BoxCapacity is only populated for FTTH.
type Item struct {
	ID           string      `json:"id" yaml:"id"`
	Network      Network     `json:"network" yaml:"-"`
	Sector       string      `json:"sector" yaml:"sector"`
	Region       string      `json:"region" yaml:"region"`
	MainExchange string      `json:"mainExchange" yaml:"mainExchange"`
	SubExchange  string      `json:"subExchange" yaml:"subExchange"`
	ExchangeCode string      `json:"exchangeCode" yaml:"exchangeCode"`
	MSANCode     string      `json:"msanCode" yaml:"msanCode"`
	Cabinet      string      `json:"cabinet" yaml:"cabinet"`
	BoxCapacity  string      `json:"boxCapacity,omitempty" yaml:"boxCapacity"`
	BoxNumber    string      `json:"boxNumber" yaml:"boxNumber"`
	VisitStatus  VisitStatus `json:"visitStatus" yaml:"visitStatus"`
}

// Visited reports whether the item's box has been inspected.
func (it Item) Visited() bool {
	return it.VisitStatus.IsVisited()
}

// BoxKey identifies a physical box for visit-status updates.
// An empty MSANCode matches any MSAN.
type BoxKey struct {
	Network   Network
	MSANCode  string
	Cabinet   string
	BoxNumber string
}

// Matches reports whether it is the box identified by k.
func (k BoxKey) Matches(it Item) bool {
	if it.Network != k.Network || it.Cabinet != k.Cabinet || it.BoxNumber != k.BoxNumber {
		return false
	}
	return k.MSANCode == "" || it.MSANCode == k.MSANCode
}

// Count summarises visited and pending items.
type Count struct {
	Done    int `json:"done"`
	Pending int `json:"pending"`
	Total   int `json:"total"`
}

// Add tallies one item.
func (c *Count) Add(it Item) {
	c.Total++
	if it.Visited() {
		c.Done++
	} else {
		c.Pending++
	}
}

// Tally counts done and pending items.
func Tally(items []Item) Count {
	var c Count
	for _, it := range items {
		c.Add(it)
	}
	return c
}
