package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/bookcook/bookcook/internal/auth"
	"github.com/bookcook/bookcook/internal/store"
)

const sessionCookieName = "bookcook_session"

// RequireAuth resolves the session token (Authorization bearer or the
// session cookie) and populates AuthContext. Unauthenticated API
// requests get a JSON 401; the calendar feed route does not pass
// through here — it is gated by its capability token instead.
func RequireAuth(sessionStore *store.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				if cookie, err := r.Cookie(sessionCookieName); err == nil {
					token = cookie.Value
				}
			}
			if token == "" {
				unauthorized(w)
				return
			}

			sess, err := sessionStore.GetByToken(token)
			if err != nil || sess == nil {
				unauthorized(w)
				return
			}

			ac := auth.AuthContext{UserID: sess.UserID, SessionID: sess.ID}
			next.ServeHTTP(w, r.WithContext(auth.WithAuth(r.Context(), ac)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "authentication required"})
}
