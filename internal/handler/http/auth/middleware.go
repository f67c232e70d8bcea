package auth

import (
	"log/slog"
	"net/http"
	"strings"
)

// CookieName is the session cookie set by Login.
const CookieName = "session"

// Middleware attaches the caller identity to the request context.
// The token comes from "Authorization: Bearer" or the session cookie.
// Missing or invalid tokens leave the request anonymous; handlers decide
// whether anonymity is acceptable.
func Middleware(tokens *Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := tokenFromRequest(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			id, err := tokens.Parse(raw)
			if err != nil {
				rejectedSessions.Inc()
				slog.DebugContext(r.Context(), "ignoring session token", slog.Any("error", err))
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	const prefix = "Bearer "
	if h := r.Header.Get("Authorization"); len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}
