package report

import (
	"sort"

	"github.com/JonMunkholm/FieldInspect/internal/core"
	"github.com/JonMunkholm/FieldInspect/internal/inventory"
)

// InventoryRow is an inventory item with its latest inspection.
type InventoryRow struct {
	inventory.Item
	LastInspectionDate string `json:"lastInspectionDate,omitempty"`
	InspectorName      string `json:"inspectorName,omitempty"`
	InspectorID        string `json:"inspectorId,omitempty"`
}

// reportSearchFields are the fields InventoryFilter.Search looks at.
var reportSearchFields = []inventory.Field{inventory.FieldExchangeCode, inventory.FieldMSANCode}

// InventoryFilter narrows an inventory report. Empty fields match all.
type InventoryFilter struct {
	Search       string // exchange code or MSAN code, case-insensitive
	Sector       string
	Region       string
	MainExchange string
	Status       inventory.VisitStatus // Done matches every visited status; Pending the rest
	InspectorID  string
}

// Person is an entry in a user picker.
type Person struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// InventoryOptions are the values offered by the report's filter bar.
type InventoryOptions struct {
	Sectors    []string `json:"sectors"`
	Regions    []string `json:"regions"`
	Exchanges  []string `json:"exchanges"`
	Inspectors []Person `json:"inspectors"`
}

// InventoryReport is the detailed report for one network.
type InventoryReport struct {
	Network inventory.Network `json:"network"`
	Rows    []InventoryRow    `json:"rows"`
	Counts  inventory.Count   `json:"counts"`
	Options InventoryOptions  `json:"options"`
}

// BuildInventoryReport enriches and filters the network's inventory.
func BuildInventoryReport(sn core.Snapshot, n inventory.Network, f InventoryFilter) InventoryReport {
	items := sn.Items(n)
	rows := f.Apply(Enrich(n, items, sn.Inspections, sn.Users))

	var counts inventory.Count
	for _, r := range rows {
		counts.Add(r.Item)
	}
	return InventoryReport{
		Network: n,
		Rows:    rows,
		Counts:  counts,
		Options: Options(items, sn.Users),
	}
}

// Enrich attaches to each item the first submitted inspection that
// covers it. Inspections are expected newest first, so the match is the
// most recent one. FTTH items match on passive cabinet and box number,
// TDM items on MSAN and cabinet.
func Enrich(n inventory.Network, items []inventory.Item, inspections []core.Inspection, users []core.User) []InventoryRow {
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	rows := make([]InventoryRow, len(items))
	for i, it := range items {
		rows[i] = InventoryRow{Item: it}
		for _, in := range inspections {
			if in.Status != core.InspectionSubmitted || in.Type.Network() != n || !covers(in, it) {
				continue
			}
			rows[i].LastInspectionDate = in.Date
			if name, ok := names[in.InspectorID]; ok {
				rows[i].InspectorName = name
				rows[i].InspectorID = in.InspectorID
			}
			break
		}
	}
	return rows
}

func covers(in core.Inspection, it inventory.Item) bool {
	if it.Network == inventory.FTTH {
		box, cab := in.Data["boxNumber"], in.Data["passiveCabinet"]
		return box != "" && cab != "" && box == it.BoxNumber && cab == it.Cabinet
	}
	msan, cab := in.Data["msanCode"], in.Data["cabinetNumber"]
	return msan != "" && cab != "" && msan == it.MSANCode && cab == it.Cabinet
}

// Apply returns the rows matching f, in order.
func (f InventoryFilter) Apply(rows []InventoryRow) []InventoryRow {
	out := make([]InventoryRow, 0, len(rows))
	for _, r := range rows {
		if !inventory.MatchesSearch(r.Item, f.Search, reportSearchFields) {
			continue
		}
		if f.Sector != "" && r.Sector != f.Sector {
			continue
		}
		if f.Region != "" && r.Region != f.Region {
			continue
		}
		if f.MainExchange != "" && r.MainExchange != f.MainExchange {
			continue
		}
		if f.Status != "" && (f.Status == inventory.Done) != r.Visited() {
			continue
		}
		if f.InspectorID != "" && r.InspectorID != f.InspectorID {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Options collects the filter bar values from the unfiltered inventory.
func Options(items []inventory.Item, users []core.User) InventoryOptions {
	opts := InventoryOptions{
		Sectors:    inventory.Distinct(items, inventory.FieldSector),
		Regions:    inventory.Distinct(items, inventory.FieldRegion),
		Exchanges:  inventory.Distinct(items, inventory.FieldMainExchange),
		Inspectors: []Person{},
	}
	for _, u := range users {
		if u.Role == core.RoleInspector {
			opts.Inspectors = append(opts.Inspectors, Person{ID: u.ID, Name: u.Name})
		}
	}
	sort.SliceStable(opts.Inspectors, func(i, j int) bool { return opts.Inspectors[i].Name < opts.Inspectors[j].Name })
	return opts
}
