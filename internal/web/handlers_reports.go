package web

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/FieldInspect/internal/core"
	"github.com/JonMunkholm/FieldInspect/internal/inventory"
	"github.com/JonMunkholm/FieldInspect/internal/logging"
	"github.com/JonMunkholm/FieldInspect/internal/report"
)

const reportLogin = "login"

// handleDashboard returns the admin overview.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sn, err := s.service.Snapshot(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report.BuildDashboard(sn, s.service.Now()))
}

// handleLoginEvents returns every login event, newest first.
func (s *Server) handleLoginEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.service.ListLoginEvents(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// inventoryFilterFromQuery reads ?search=&sector=&region=&mainExchange=&status=&inspector=.
func inventoryFilterFromQuery(q url.Values) (report.InventoryFilter, error) {
	f := report.InventoryFilter{
		Search:       q.Get("search"),
		Sector:       q.Get("sector"),
		Region:       q.Get("region"),
		MainExchange: q.Get("mainExchange"),
		InspectorID:  q.Get("inspector"),
	}
	switch st := inventory.VisitStatus(q.Get("status")); st {
	case "", inventory.Done, inventory.Pending:
		f.Status = st
	default:
		return f, badRequest("invalid status %q: use Done or Pending", st)
	}
	return f, nil
}

// loginFilterFromQuery reads ?search=&user=&status=&start=&end=.
func loginFilterFromQuery(q url.Values) (report.LoginFilter, error) {
	f := report.LoginFilter{
		Search: q.Get("search"),
		UserID: q.Get("user"),
		Start:  q.Get("start"),
		End:    q.Get("end"),
	}
	switch st := report.Punctuality(q.Get("status")); st {
	case "", report.OnTime, report.Delayed:
		f.Status = st
	default:
		return f, badRequest("invalid status %q: use %q or %q", st, report.OnTime, report.Delayed)
	}
	for _, d := range []string{f.Start, f.End} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(core.DateLayout, d); err != nil {
			return f, fmt.Errorf("%w %q", core.ErrInvalidDate, d)
		}
	}
	return f, nil
}

func (s *Server) loginRows(r *http.Request) ([]report.LoginRow, error) {
	f, err := loginFilterFromQuery(r.URL.Query())
	if err != nil {
		return nil, err
	}
	events, err := s.service.ListLoginEvents(r.Context())
	if err != nil {
		return nil, err
	}
	return f.Apply(report.LoginReport(events, s.service.Location(), s.cutoff)), nil
}

func (s *Server) inventoryReport(r *http.Request, n inventory.Network) (report.InventoryReport, error) {
	f, err := inventoryFilterFromQuery(r.URL.Query())
	if err != nil {
		return report.InventoryReport{}, err
	}
	sn, err := s.service.Snapshot(r.Context())
	if err != nil {
		return report.InventoryReport{}, err
	}
	return report.BuildInventoryReport(sn, n, f), nil
}

// reportNetwork resolves {kind} for the inventory reports.
func reportNetwork(kind string) (inventory.Network, error) {
	n, err := inventory.ParseNetwork(kind)
	if err != nil {
		return "", fmt.Errorf("%w: %q", core.ErrUnknownReport, kind)
	}
	return n, nil
}

// handleReport returns the tdm, ftth or login report as JSON.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	if kind == reportLogin {
		rows, err := s.loginRows(r)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, rows)
		return
	}

	n, err := reportNetwork(kind)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rep, err := s.inventoryReport(r, n)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// handleExportReport returns the same report as a CSV download.
func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	now := s.service.Now()

	if kind == reportLogin {
		rows, err := s.loginRows(r)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		setAttachment(w, report.LoginFileName(now))
		if err := report.WriteLoginReport(w, rows); err != nil {
			logging.FromContext(r.Context()).Error("login report export failed", "error", err)
		}
		return
	}

	n, err := reportNetwork(kind)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rep, err := s.inventoryReport(r, n)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	setAttachment(w, report.ReportFileName(n, now))
	if err := report.WriteInventoryReport(w, n, rep.Rows); err != nil {
		logging.FromContext(r.Context()).Error("inventory report export failed", "error", err)
	}
}
