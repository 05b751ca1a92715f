package web

import (
	"net/http"

	"github.com/JonMunkholm/FieldInspect/internal/inventory"
	"github.com/JonMunkholm/FieldInspect/internal/logging"
	"github.com/JonMunkholm/FieldInspect/internal/report"
	"github.com/JonMunkholm/FieldInspect/internal/web/templates"
)

const statusTitle = "Field Inspection Service"

// handleStatusPage renders a public summary of inventory progress.
func (s *Server) handleStatusPage(w http.ResponseWriter, r *http.Request) {
	sn, err := s.service.Snapshot(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	now := s.service.Now()
	dash := report.BuildDashboard(sn, now)

	status := templates.Status{
		Title:         statusTitle,
		GeneratedAt:   now.Format("2006-01-02 15:04 MST"),
		Users:         len(sn.Users),
		ActiveCenters: dash.ActiveCenters,
		Inspections:   len(sn.Inspections),
		LoginsToday:   dash.LoginsToday,
	}
	for _, def := range inventory.All() {
		c := inventory.Tally(sn.Items(def.Network))
		status.Networks = append(status.Networks, templates.NetworkStatus{
			Label:    def.Label,
			Done:     c.Done,
			Pending:  c.Pending,
			Total:    c.Total,
			Progress: report.Progress(c.Done, c.Total),
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.StatusPage(status).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render status page", "error", err)
	}
}

// handleHealthz reports liveness.
func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
