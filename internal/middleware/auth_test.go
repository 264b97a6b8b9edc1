package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bookcook/bookcook/internal/auth"
	"github.com/bookcook/bookcook/internal/database"
	"github.com/bookcook/bookcook/internal/store"
)

func setupAuth(t *testing.T) (*store.SessionStore, int64) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	userID, err := store.NewUserStore(db).Create("Alice", "alice@example.com")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return store.NewSessionStore(db), userID
}

func TestRequireAuthBearerToken(t *testing.T) {
	sessions, userID := setupAuth(t)
	sess, err := sessions.Create(userID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	var gotUser int64
	handler := RequireAuth(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = auth.UserID(r.Context())
	}))

	req := httptest.NewRequest("GET", "/api/plans", nil)
	req.Header.Set("Authorization", "Bearer "+sess.Token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if gotUser != userID {
		t.Errorf("user id in context = %d, want %d", gotUser, userID)
	}
}

func TestRequireAuthCookie(t *testing.T) {
	sessions, userID := setupAuth(t)
	sess, err := sessions.Create(userID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	handler := RequireAuth(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest("GET", "/api/plans", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: sess.Token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	sessions, _ := setupAuth(t)

	called := false
	handler := RequireAuth(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest("GET", "/api/plans", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if called {
		t.Error("handler ran without authentication")
	}
}

func TestRequireAuthRejectsBadToken(t *testing.T) {
	sessions, _ := setupAuth(t)

	handler := RequireAuth(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest("GET", "/api/plans", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
