package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/JonMunkholm/FieldInspect/internal/auth"
	"github.com/JonMunkholm/FieldInspect/internal/core"
	"github.com/JonMunkholm/FieldInspect/internal/logging"
)

// ErrorResponder renders err for the client. The web package passes its
// own error renderer so middleware failures look like handler failures.
type ErrorResponder func(w http.ResponseWriter, r *http.Request, err error)

// TokenParser verifies an access token.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// UserLoader reloads the account behind a token.
type UserLoader interface {
	Authenticate(ctx context.Context, userID string) (core.User, error)
}

var errMissingToken = fmt.Errorf("missing token: %w", auth.ErrInvalidToken)

// RequireAuth validates the Bearer token, reloads the user and stores it
// on the request context. Tokens of deleted or deactivated users are
// rejected even when they have not yet expired.
func RequireAuth(tokens TokenParser, users UserLoader, fail ErrorResponder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				fail(w, r, errMissingToken)
				return
			}

			claims, err := tokens.Parse(raw)
			if err != nil {
				slog.Warn("auth: rejected token",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
					"error", err,
				)
				fail(w, r, err)
				return
			}

			user, err := users.Authenticate(r.Context(), claims.Subject)
			if err != nil {
				fail(w, r, err)
				return
			}

			ctx := core.ContextWithUser(r.Context(), user)
			ctx = logging.WithUser(ctx, user.ID, string(user.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects authenticated users whose role is not in roles.
// It must run after RequireAuth.
func RequireRole(fail ErrorResponder, roles ...core.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := core.UserFromContext(r.Context())
			if !ok {
				fail(w, r, errMissingToken)
				return
			}
			if !slices.Contains(roles, user.Role) {
				fail(w, r, fmt.Errorf("%w: role %s may not %s %s", core.ErrForbidden, user.Role, r.Method, r.URL.Path))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

