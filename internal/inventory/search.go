package inventory

import "strings"

// MatchesSearch reports whether query occurs, case-insensitively, in any
// of the item's fields. An empty query matches everything.
func MatchesSearch(it Item, query string, fields []Field) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f.Value(it)), q) {
			return true
		}
	}
	return false
}

// Search returns the items matching query in any of fields, in input order.
func Search(items []Item, query string, fields []Field) []Item {
	if strings.TrimSpace(query) == "" {
		return items
	}
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if MatchesSearch(it, query, fields) {
			out = append(out, it)
		}
	}
	return out
}
