// Package report aggregates inventory, inspections and login activity
// into the admin dashboard, the detailed reports and their CSV exports.
//
// Everything here is a pure function over a core.Snapshot; callers load
// the snapshot once per request.
package report

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/JonMunkholm/FieldInspect/internal/core"
	"github.com/JonMunkholm/FieldInspect/internal/inventory"
)

// RecentLoginLimit is the number of login events shown on the dashboard.
const RecentLoginLimit = 5

// RegionStat is the visit progress of one region.
type RegionStat struct {
	Name   string `json:"name"`
	Region string `json:"region"`
	inventory.Count
}

// DayCount is the number of logins on one calendar day.
type DayCount struct {
	Date  string `json:"date"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Dashboard is the admin overview.
type Dashboard struct {
	TDMRegions     []RegionStat      `json:"tdmRegions"`
	FTTHRegions    []RegionStat      `json:"ftthRegions"`
	TDM            inventory.Count   `json:"tdm"`
	FTTH           inventory.Count   `json:"ftth"`
	TotalInventory int               `json:"totalInventory"`
	Progress       int               `json:"progress"`
	ActiveCenters  int               `json:"activeCenters"`
	LoginsToday    int               `json:"loginsToday"`
	LoginActivity  []DayCount        `json:"loginActivity"`
	RecentLogins   []core.LoginEvent `json:"recentLogins"`
}

// BuildDashboard aggregates sn. Calendar days are taken in now's location.
func BuildDashboard(sn core.Snapshot, now time.Time) Dashboard {
	d := Dashboard{
		TDMRegions:  RegionStats(sn.TDM),
		FTTHRegions: RegionStats(sn.FTTH),
		TDM:         inventory.Tally(sn.TDM),
		FTTH:        inventory.Tally(sn.FTTH),
	}
	d.TotalInventory = d.TDM.Total + d.FTTH.Total
	d.Progress = Progress(d.TDM.Done+d.FTTH.Done, d.TotalInventory)

	for _, c := range sn.Centers {
		if c.Active() {
			d.ActiveCenters++
		}
	}

	loc := now.Location()
	today := now.Format(core.DateLayout)
	for _, ev := range sn.LoginEvents {
		if ev.Timestamp.In(loc).Format(core.DateLayout) == today {
			d.LoginsToday++
		}
	}
	d.LoginActivity = LoginActivity(sn.LoginEvents, loc)
	d.RecentLogins = recent(sn.LoginEvents, RecentLoginLimit)
	return d
}

// RegionLabel shortens a region for charts: "Sharqia Telephones Zone 2"
// becomes "Sharqia 2".
func RegionLabel(region string) string {
	if region == "" {
		return "Unknown"
	}
	return strings.Join(strings.Fields(strings.Replace(region, "Telephones Zone", "", 1)), " ")
}

// RegionStats groups items by region, largest region first. Regions of
// equal size are ordered by name.
func RegionStats(items []inventory.Item) []RegionStat {
	byRegion := make(map[string]*RegionStat)
	for _, it := range items {
		region := it.Region
		if region == "" {
			region = "Unknown"
		}
		st, ok := byRegion[region]
		if !ok {
			st = &RegionStat{Name: RegionLabel(region), Region: region}
			byRegion[region] = st
		}
		st.Add(it)
	}

	out := make([]RegionStat, 0, len(byRegion))
	for _, st := range byRegion {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Progress returns done/total as a rounded percentage, 0 when total is 0.
func Progress(done, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}

// LoginActivity counts logins per calendar day in loc, oldest day first.
func LoginActivity(events []core.LoginEvent, loc *time.Location) []DayCount {
	counts := make(map[string]int)
	for _, ev := range events {
		counts[ev.Timestamp.In(loc).Format(core.DateLayout)]++
	}

	out := make([]DayCount, 0, len(counts))
	for day, n := range counts {
		t, _ := time.ParseInLocation(core.DateLayout, day, loc)
		out = append(out, DayCount{Date: day, Label: t.Format("02 Jan"), Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func recent(events []core.LoginEvent, n int) []core.LoginEvent {
	sorted := append([]core.LoginEvent(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
