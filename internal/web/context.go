package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/FieldInspect/internal/core"
)

// WithRequestMetadata adds the client IP and User-Agent to ctx so the
// service can log them alongside login events.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	ip := r.RemoteAddr // already rewritten by TrustedRealIP
	ctx = core.ContextWithIPAddress(ctx, ip)
	ctx = core.ContextWithUserAgent(ctx, r.UserAgent())
	return ctx
}

// currentUser returns the user RequireAuth stored on the request.
func currentUser(r *http.Request) (core.User, error) {
	u, ok := core.UserFromContext(r.Context())
	if !ok {
		return core.User{}, core.ErrInvalidCredentials
	}
	return u, nil
}
