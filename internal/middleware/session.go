package middleware

import (
	"context"
	"net/http"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/session"
)

// SessionHeader carries the shopper's session id in both directions
const SessionHeader = "X-Session-ID"

type sessionKey struct{}

// Session resolves the session named by the X-Session-ID header. A missing
// or unknown id gets a fresh session. The resolved id is echoed on the
// response and stored in the request context.
func Session(store *session.Store) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			snap, _ := store.GetOrCreate(r.Header.Get(SessionHeader))

			w.Header().Set(SessionHeader, snap.ID)
			ctx := context.WithValue(r.Context(), sessionKey{}, snap.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionID returns the session id stored by Session, or "" outside it
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}
