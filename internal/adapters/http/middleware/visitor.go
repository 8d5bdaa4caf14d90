package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"portal/internal/adapters/backend"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const visitorContextKey contextKey = "visitor"

// VisitorCookieName is the anonymous visitor id cookie. It scopes draft
// storage; it is NOT an authentication credential.
const VisitorCookieName = "portal_visitor"

// BackendSessionCookieName is the backend's session cookie. The portal never
// decodes it, it only forwards it on backend requests.
const BackendSessionCookieName = "portal_session"

// SecureCookies controls the Secure flag on cookies set by this package.
// Set to true in production (HTTPS).
var SecureCookies = false

// Visitor ensures every request carries a stable visitor id and forwards the
// backend session cookie into the request context.
// POST: the context has a visitor id; a missing cookie is set on the response
func Visitor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		visitorID := ""
		if c, err := r.Cookie(VisitorCookieName); err == nil && c.Value != "" {
			visitorID = c.Value
		}
		if visitorID == "" {
			visitorID = uuid.New().String()
			http.SetCookie(w, &http.Cookie{
				Name:     VisitorCookieName,
				Value:    visitorID,
				Path:     "/",
				MaxAge:   int((365 * 24 * 3600)),
				HttpOnly: true,
				Secure:   SecureCookies,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), visitorContextKey, visitorID)
		if c, err := r.Cookie(BackendSessionCookieName); err == nil && c.Value != "" {
			ctx = backend.WithSession(ctx, BackendSessionCookieName+"="+c.Value)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithVisitorID returns a context carrying the visitor id. The Visitor
// middleware does this for real requests; tests call it directly.
func WithVisitorID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, visitorContextKey, id)
}

// VisitorID returns the visitor id stored by the Visitor middleware.
func VisitorID(ctx context.Context) string {
	if v, ok := ctx.Value(visitorContextKey).(string); ok {
		return v
	}
	return ""
}
