package report

import (
	"sort"
	"strings"
	"time"

	"github.com/JonMunkholm/FieldInspect/internal/core"
)

// Punctuality classifies a user's first login of the day.
type Punctuality string

const (
	OnTime  Punctuality = "On Time"
	Delayed Punctuality = "Delayed"
)

// Cutoff is the latest local time of day a first login counts as on time.
type Cutoff struct {
	Hour   int
	Minute int
}

// DefaultCutoff is 09:00.
var DefaultCutoff = Cutoff{Hour: 9}

// LoginRow is one user's first login on one day.
type LoginRow struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId"`
	UserName  string      `json:"userName"`
	UserRole  string      `json:"userRole"`
	Date      string      `json:"date"` // 02/01/2006
	Day       string      `json:"day"`  // Monday
	Time      string      `json:"time"` // 03:04 PM
	Status    Punctuality `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
}

// LoginFilter narrows a login report. Start and End are inclusive
// YYYY-MM-DD dates; empty fields match all.
type LoginFilter struct {
	Search string // user name, case-insensitive
	UserID string
	Status Punctuality
	Start  string
	End    string
}

// LoginReport groups events by user and calendar day in loc and keeps
// the first login of each group, newest first.
func LoginReport(events []core.LoginEvent, loc *time.Location, cutoff Cutoff) []LoginRow {
	type key struct{ user, day string }
	first := make(map[key]core.LoginEvent)
	for _, ev := range events {
		k := key{ev.UserID, ev.Timestamp.In(loc).Format(core.DateLayout)}
		if cur, ok := first[k]; !ok || ev.Timestamp.Before(cur.Timestamp) {
			first[k] = ev
		}
	}

	rows := make([]LoginRow, 0, len(first))
	for _, ev := range first {
		rows = append(rows, newLoginRow(ev, loc, cutoff))
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Timestamp.Equal(rows[j].Timestamp) {
			return rows[i].Timestamp.After(rows[j].Timestamp)
		}
		return rows[i].ID < rows[j].ID
	})
	return rows
}

func newLoginRow(ev core.LoginEvent, loc *time.Location, cutoff Cutoff) LoginRow {
	t := ev.Timestamp.In(loc)
	limit := time.Date(t.Year(), t.Month(), t.Day(), cutoff.Hour, cutoff.Minute, 0, 0, loc)

	status := OnTime
	if t.After(limit) {
		status = Delayed
	}
	name := ev.UserName
	if name == "" {
		name = "Unknown User"
	}
	role := string(ev.UserRole)
	if role == "" {
		role = "N/A"
	}
	return LoginRow{
		ID:        ev.ID,
		UserID:    ev.UserID,
		UserName:  name,
		UserRole:  role,
		Date:      t.Format("02/01/2006"),
		Day:       t.Format("Monday"),
		Time:      t.Format("03:04 PM"),
		Status:    status,
		Timestamp: t,
	}
}

// Apply returns the rows matching f, in order.
func (f LoginFilter) Apply(rows []LoginRow) []LoginRow {
	q := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]LoginRow, 0, len(rows))
	for _, r := range rows {
		day := r.Timestamp.Format(core.DateLayout)
		switch {
		case q != "" && !strings.Contains(strings.ToLower(r.UserName), q):
		case f.UserID != "" && r.UserID != f.UserID:
		case f.Status != "" && r.Status != f.Status:
		case f.Start != "" && day < f.Start:
		case f.End != "" && day > f.End:
		default:
			out = append(out, r)
		}
	}
	return out
}
