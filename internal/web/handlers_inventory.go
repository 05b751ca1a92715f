package web

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/FieldInspect/internal/inventory"
	"github.com/JonMunkholm/FieldInspect/internal/logging"
	"github.com/JonMunkholm/FieldInspect/internal/report"
)

// inventoryListing is an inventory page: the cascade state, the rows it
// selects and their visit counts.
type inventoryListing struct {
	Network inventory.Network        `json:"network"`
	Label   string                   `json:"label"`
	Levels  []inventory.LevelOptions `json:"levels"`
	Search  string                   `json:"search,omitempty"`
	Dropped []inventory.Field        `json:"dropped,omitempty"`
	Counts  inventory.Count          `json:"counts"`
	Items   []inventory.Item         `json:"items"`

	def inventory.Definition
}

// cascadeFromQuery applies the query's level selections outermost first.
// Selections that no longer match the data are dropped.
func cascadeFromQuery(def inventory.Definition, q url.Values, items []inventory.Item) (*inventory.Cascade, []inventory.Field) {
	c := def.NewCascade()
	for _, f := range c.Levels() {
		if v := q.Get(string(f)); v != "" {
			_ = c.Select(f, v)
		}
	}
	return c, c.Normalize(items)
}

func (s *Server) listInventory(r *http.Request) (inventoryListing, error) {
	def, err := inventory.Lookup(chi.URLParam(r, "network"))
	if err != nil {
		return inventoryListing{}, notFound(err)
	}
	items, err := s.service.Inventory(r.Context(), def.Network)
	if err != nil {
		return inventoryListing{}, err
	}

	q := r.URL.Query()
	c, dropped := cascadeFromQuery(def, q, items)
	if len(dropped) > 0 {
		logging.WithFields(r.Context(), "network", def.Network, "dropped", dropped).
			Debug("stale inventory selection dropped")
	}

	search := q.Get("search")
	filtered := def.Search(c.Filter(items), search)
	return inventoryListing{
		Network: def.Network,
		Label:   def.Label,
		Levels:  c.AllOptions(items),
		Search:  search,
		Dropped: dropped,
		Counts:  inventory.Tally(filtered),
		Items:   filtered,
		def:     def,
	}, nil
}

// handleInventory returns a network's inventory filtered by the cascade
// (?sector=&region=&...) and free-text ?search=.
func (s *Server) handleInventory(w http.ResponseWriter, r *http.Request) {
	listing, err := s.listInventory(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

// handleExportInventory streams the same selection as CSV.
func (s *Server) handleExportInventory(w http.ResponseWriter, r *http.Request) {
	listing, err := s.listInventory(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	setAttachment(w, report.InventoryFileName(listing.Network, s.service.Now()))
	if err := report.WriteInventory(w, listing.def, listing.Items); err != nil {
		logging.FromContext(r.Context()).Error("inventory export failed", "error", err)
	}
}

// setAttachment sets CSV download headers.
func setAttachment(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
}
