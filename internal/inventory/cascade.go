package inventory

import (
	"fmt"
	"slices"
	"sort"
)

// Cascade is a set of selections over an ordered field hierarchy.
//
// Selecting a value at one level clears every level below it, and the
// options offered at a level are drawn only from items that match every
// selection above it. A Cascade is not safe for concurrent use; build one
// per request.
type Cascade struct {
	levels   []Field
	selected map[Field]string
}

// Selection is one level of a cascade and its current value.
type Selection struct {
	Field Field  `json:"field"`
	Value string `json:"value"`
}

// LevelOptions describes one level for rendering a filter bar.
type LevelOptions struct {
	Field    Field    `json:"field"`
	Label    string   `json:"label"`
	Selected string   `json:"selected"`
	Options  []string `json:"options"`
}

// NewCascade returns an empty cascade over levels, outermost first.
func NewCascade(levels ...Field) *Cascade {
	return &Cascade{
		levels:   slices.Clone(levels),
		selected: make(map[Field]string, len(levels)),
	}
}

// Levels returns the hierarchy, outermost first.
func (c *Cascade) Levels() []Field {
	return slices.Clone(c.levels)
}

func (c *Cascade) depth(f Field) int {
	return slices.Index(c.levels, f)
}

// Select sets the value for f and clears every descendant level.
// An empty value clears f itself.
func (c *Cascade) Select(f Field, value string) error {
	d := c.depth(f)
	if d < 0 {
		return fmt.Errorf("field %q is not part of this hierarchy", f)
	}
	for _, child := range c.levels[d:] {
		delete(c.selected, child)
	}
	if value != "" {
		c.selected[f] = value
	}
	return nil
}

// Clear drops every selection.
func (c *Cascade) Clear() {
	clear(c.selected)
}

// Value returns the current selection for f, or "".
func (c *Cascade) Value(f Field) string {
	return c.selected[f]
}

// Selection returns the non-empty selections in hierarchy order.
func (c *Cascade) Selection() []Selection {
	out := make([]Selection, 0, len(c.selected))
	for _, f := range c.levels {
		if v, ok := c.selected[f]; ok {
			out = append(out, Selection{Field: f, Value: v})
		}
	}
	return out
}

// matchAbove reports whether it satisfies every selection strictly above depth d.
func (c *Cascade) matchAbove(it Item, d int) bool {
	for _, f := range c.levels[:d] {
		if v, ok := c.selected[f]; ok && f.Value(it) != v {
			return false
		}
	}
	return true
}

// Match reports whether it satisfies every selection.
func (c *Cascade) Match(it Item) bool {
	return c.matchAbove(it, len(c.levels))
}

// Filter returns the items matching every selection, in input order.
func (c *Cascade) Filter(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if c.Match(it) {
			out = append(out, it)
		}
	}
	return out
}

// Options returns the sorted distinct non-empty values of f among items
// matching all ancestor selections. The result is never nil.
func (c *Cascade) Options(items []Item, f Field) []string {
	d := c.depth(f)
	if d < 0 {
		return []string{}
	}
	seen := make(map[string]struct{})
	for _, it := range items {
		if !c.matchAbove(it, d) {
			continue
		}
		if v := f.Value(it); v != "" {
			seen[v] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// AllOptions returns the options for every level, outermost first.
func (c *Cascade) AllOptions(items []Item) []LevelOptions {
	out := make([]LevelOptions, len(c.levels))
	for i, f := range c.levels {
		out[i] = LevelOptions{
			Field:    f,
			Label:    f.Label(),
			Selected: c.selected[f],
			Options:  c.Options(items, f),
		}
	}
	return out
}

// Normalize drops the first selection whose value is not among its
// level's options, together with everything below it. It returns the
// fields that were cleared.
func (c *Cascade) Normalize(items []Item) []Field {
	for _, f := range c.levels {
		v, ok := c.selected[f]
		if !ok {
			continue
		}
		if !slices.Contains(c.Options(items, f), v) {
			var dropped []Field
			for _, child := range c.levels[c.depth(f):] {
				if _, ok := c.selected[child]; ok {
					dropped = append(dropped, child)
				}
			}
			_ = c.Select(f, "")
			return dropped
		}
	}
	return nil
}

// Distinct returns the sorted distinct non-empty values of f across items.
func Distinct(items []Item, f Field) []string {
	seen := make(map[string]struct{})
	for _, it := range items {
		if v := f.Value(it); v != "" {
			seen[v] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
