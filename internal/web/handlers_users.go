package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/FieldInspect/internal/core"
	"github.com/JonMunkholm/FieldInspect/internal/logging"
)

// handleListUsers returns users, optionally filtered by ?q= on name or username.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.service.ListUsers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var in core.UserInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}

	user, err := s.service.CreateUser(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	logging.WithFields(r.Context(), "created_user", user.ID, "role", user.Role).Info("user created")
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var in core.UserInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}

	user, err := s.service.UpdateUser(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// handleToggleUserStatus flips a user between active and inactive.
func (s *Server) handleToggleUserStatus(w http.ResponseWriter, r *http.Request) {
	user, err := s.service.ToggleUserStatus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	logging.WithFields(r.Context(), "target_user", user.ID, "status", user.Status).Info("user status changed")
	writeJSON(w, http.StatusOK, user)
}
