package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/JonMunkholm/FieldInspect/internal/core"
	"github.com/JonMunkholm/FieldInspect/internal/metrics"
)

type loginRequest struct {
	Username string         `json:"username"`
	Password string         `json:"password"`
	Location *core.GeoPoint `json:"location,omitempty"`
}

type loginResponse struct {
	Token      string          `json:"token"`
	ExpiresAt  time.Time       `json:"expiresAt"`
	User       core.User       `json:"user"`
	LoginEvent core.LoginEvent `json:"loginEvent"`
}

// decodeJSON reads a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest("invalid request body: %v", err)
	}
	return nil
}

// handleLogin checks credentials, records the login event and issues an
// access token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	user, ev, err := s.service.Login(ctx, req.Username, req.Password, req.Location)
	if err != nil {
		s.recordLogin(err)
		s.fail(w, r, err)
		return
	}

	token, exp, err := s.issuer.Issue(user.ID, string(user.Role), user.Name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.recordLogin(nil)

	writeJSON(w, http.StatusOK, loginResponse{
		Token:      token,
		ExpiresAt:  exp,
		User:       user,
		LoginEvent: ev,
	})
}

func (s *Server) recordLogin(err error) {
	if s.metrics == nil {
		return
	}
	switch {
	case err == nil:
		s.metrics.RecordLogin(metrics.LoginSuccess)
	case errors.Is(err, core.ErrInactiveAccount):
		s.metrics.RecordLogin(metrics.LoginInactive)
	case errors.Is(err, core.ErrInvalidCredentials):
		s.metrics.RecordLogin(metrics.LoginInvalid)
	}
}

// handleMe returns the authenticated user.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
