package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/FieldInspect/internal/core"
)

func (s *Server) handleListCenters(w http.ResponseWriter, r *http.Request) {
	centers, err := s.service.ListCenters(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, centers)
}

// handleGetForm returns the checklist definition for {type}.
func (s *Server) handleGetForm(w http.ResponseWriter, r *http.Request) {
	t, err := core.ParseInspectionType(chi.URLParam(r, "type"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	form, err := s.service.Form(t)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// handleFormOptions returns the location option lists for {type}. The
// query carries the selections made so far, keyed by form field name.
func (s *Server) handleFormOptions(w http.ResponseWriter, r *http.Request) {
	t, err := core.ParseInspectionType(chi.URLParam(r, "type"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	q := r.URL.Query()
	data := make(map[string]string, len(q))
	for k := range q {
		data[k] = q.Get(k)
	}

	opts, err := s.service.FormOptions(r.Context(), t, data)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

// handleListInspections lists the caller's visible inspections, filtered
// by ?type=&location=&date=&status=.
func (s *Server) handleListInspections(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	q := r.URL.Query()
	f := core.InspectionFilter{
		Type:     q.Get("type"),
		Location: q.Get("location"),
		Date:     q.Get("date"),
		Status:   core.InspectionStatus(q.Get("status")),
	}
	if f.Date != "" {
		if _, err := time.Parse(core.DateLayout, f.Date); err != nil {
			s.fail(w, r, fmt.Errorf("%w %q", core.ErrInvalidDate, f.Date))
			return
		}
	}

	views, err := s.service.ListInspections(r.Context(), user, f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetInspection(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	view, err := s.service.GetInspection(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleSubmitInspection stores a completed checklist and marks the
// inspected box as visited.
func (s *Server) handleSubmitInspection(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var sub core.Submission
	if err := decodeJSON(w, r, &sub); err != nil {
		s.fail(w, r, err)
		return
	}
	t, err := core.ParseInspectionType(string(sub.Type))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sub.Type = t

	res, err := s.service.SubmitInspection(r.Context(), user, sub)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if s.metrics != nil {
		s.metrics.RecordInspection(string(t), string(t.Network()), res.BoxesMarked)
	}
	writeJSON(w, http.StatusCreated, res)
}
