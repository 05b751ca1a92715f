package inventory

import (
	"fmt"
	"sort"
	"sync"
)

// Column is one column of a CSV export.
type Column struct {
	Header string
	Value  func(Item) string
}

// Definition describes how a network's inventory is browsed and exported.
type Definition struct {
	Network Network
	Label   string

	// Hierarchy is the cascade order used by inventory listings.
	Hierarchy []Field

	// Columns are the export columns in order.
	Columns []Column

	// Searchable lists the fields free-text search looks at.
	Searchable []Field
}

// Search returns the items whose searchable fields contain query.
func (d Definition) Search(items []Item, query string) []Item {
	return Search(items, query, d.Searchable)
}

// Headers returns the export header row.
func (d Definition) Headers() []string {
	out := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		out[i] = c.Header
	}
	return out
}

// Row renders one item as an export row.
func (d Definition) Row(it Item) []string {
	out := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		out[i] = c.Value(it)
	}
	return out
}

// NewCascade returns an empty cascade over the definition's hierarchy.
func (d Definition) NewCascade() *Cascade {
	return NewCascade(d.Hierarchy...)
}

var (
	registry   = make(map[Network]Definition)
	registryMu sync.RWMutex
)

// Register adds a network definition.
// Panics if the network is already registered.
func Register(def Definition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.Network]; exists {
		panic(fmt.Sprintf("network already registered: %s", def.Network))
	}
	if def.Label == "" {
		def.Label = string(def.Network)
	}
	registry[def.Network] = def
}

// Get returns the definition for a network.
func Get(n Network) (Definition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[n]
	return def, ok
}

// Lookup parses key and returns its definition.
func Lookup(key string) (Definition, error) {
	n, err := ParseNetwork(key)
	if err != nil {
		return Definition{}, err
	}
	def, ok := Get(n)
	if !ok {
		return Definition{}, fmt.Errorf("%w: %s is not registered", ErrUnknownNetwork, n)
	}
	return def, nil
}

// All returns every registered definition sorted by network key.
func All() []Definition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]Definition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Network < result[j].Network
	})
	return result
}

// Clear removes all registered networks.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[Network]Definition)
}
