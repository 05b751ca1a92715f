package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/FieldInspect/internal/auth"
	"github.com/JonMunkholm/FieldInspect/internal/core"
)

type recorder struct{ err error }

func (rec *recorder) respond(w http.ResponseWriter, _ *http.Request, err error) {
	rec.err = err
	w.WriteHeader(http.StatusTeapot)
}

type fakeUsers map[string]core.User

func (f fakeUsers) Authenticate(_ context.Context, id string) (core.User, error) {
	u, ok := f[id]
	if !ok {
		return core.User{}, fmt.Errorf("authenticate %s: %w", id, core.ErrInvalidCredentials)
	}
	if !u.Active() {
		return core.User{}, fmt.Errorf("authenticate %s: %w", id, core.ErrInactiveAccount)
	}
	return u, nil
}

func okHandler(t *testing.T, wantRole core.Role) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := core.UserFromContext(r.Context())
		require.True(t, ok, "user missing from context")
		assert.Equal(t, wantRole, u.Role)
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestRequireAuth(t *testing.T) {
	issuer := auth.NewIssuer("0123456789abcdef0123", time.Hour)
	users := fakeUsers{
		"u1": {ID: "u1", Role: core.RoleAdmin, Status: core.StatusActive},
		"u2": {ID: "u2", Role: core.RoleInspector, Status: core.StatusInactive},
	}
	valid, _, err := issuer.Issue("u1", "admin", "Admin")
	require.NoError(t, err)
	inactive, _, err := issuer.Issue("u2", "inspector", "Ahmed")
	require.NoError(t, err)
	ghost, _, err := issuer.Issue("gone", "inspector", "Ghost")
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		want    int
		wantErr error
	}{
		{"valid token", "Bearer " + valid, http.StatusNoContent, nil},
		{"lowercase scheme", "bearer " + valid, http.StatusNoContent, nil},
		{"missing header", "", http.StatusTeapot, auth.ErrInvalidToken},
		{"wrong scheme", "Basic " + valid, http.StatusTeapot, auth.ErrInvalidToken},
		{"garbage token", "Bearer nope", http.StatusTeapot, auth.ErrInvalidToken},
		{"inactive user", "Bearer " + inactive, http.StatusTeapot, core.ErrInactiveAccount},
		{"deleted user", "Bearer " + ghost, http.StatusTeapot, core.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			h := RequireAuth(issuer, users, rec.respond)(okHandler(t, core.RoleAdmin))

			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.wantErr != nil {
				assert.ErrorIs(t, rec.err, tt.wantErr)
			} else {
				assert.NoError(t, rec.err)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	rec := &recorder{}
	h := RequireRole(rec.respond, core.RoleAdmin)(okHandler(t, core.RoleAdmin))

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req = req.WithContext(core.ContextWithUser(req.Context(), core.User{ID: "u1", Role: core.RoleAdmin}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req = req.WithContext(core.ContextWithUser(req.Context(), core.User{ID: "u2", Role: core.RoleInspector}))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.ErrorIs(t, rec.err, core.ErrForbidden)

	rec.err = nil
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/users", nil))
	assert.ErrorIs(t, rec.err, auth.ErrInvalidToken)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2)
	defer rl.Stop()

	rec := &recorder{}
	h := rl.Limit(rec.respond)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1:1111").Code)
	assert.Equal(t, http.StatusOK, do("10.0.0.1:2222").Code)

	w := do("10.0.0.1:3333")
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.True(t, errors.Is(rec.err, ErrRateLimited))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, do("10.0.0.2:1111").Code, "other clients keep their own budget")

	rl.Stop()
}

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name    string
		trusted []string
		remote  string
		headers map[string]string
		want    string
	}{
		{"untrusted keeps socket", []string{"10.0.0.0/8"}, "203.0.113.9:5000",
			map[string]string{"X-Real-IP": "1.2.3.4"}, "203.0.113.9:5000"},
		{"trusted real ip", []string{"10.0.0.0/8"}, "10.1.2.3:5000",
			map[string]string{"X-Real-IP": "1.2.3.4"}, "1.2.3.4"},
		{"trusted forwarded for", []string{"10.0.0.0/8"}, "10.1.2.3:5000",
			map[string]string{"X-Forwarded-For": "5.6.7.8, 10.1.2.3"}, "5.6.7.8"},
		{"invalid header ignored", []string{"10.0.0.0/8"}, "10.1.2.3:5000",
			map[string]string{"X-Real-IP": "not-an-ip"}, "10.1.2.3:5000"},
		{"no trusted proxies", nil, "10.1.2.3:5000",
			map[string]string{"X-Real-IP": "1.2.3.4"}, "10.1.2.3:5000"},
		{"bad cidr skipped", []string{"nope", "127.0.0.0/8"}, "127.0.0.1:80",
			map[string]string{"X-Real-IP": "9.9.9.9"}, "9.9.9.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := TrustedRealIP(tt.trusted)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogger_PassesThrough(t *testing.T) {
	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("ok"))
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}
