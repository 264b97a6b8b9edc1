package store

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/bookcook/bookcook/internal/model"
)

const sessionTTL = 30 * 24 * time.Hour

// SessionStore resolves opaque session tokens to user identities. How
// sessions get created (login, invite, CLI) is a collaborator concern;
// the planner only needs token -> user resolution.
type SessionStore struct {
	db *sql.DB
}

func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

// Create issues a new session token for the user.
func (s *SessionStore) Create(userID int64) (*model.Session, error) {
	token, err := randomToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	expires := now.Add(sessionTTL)
	result, err := s.db.Exec(
		`INSERT INTO sessions (user_id, token, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		userID, token, now, expires,
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return &model.Session{ID: id, UserID: userID, Token: token, CreatedAt: now, ExpiresAt: expires}, nil
}

// GetByToken returns the unexpired session for a token, or nil.
func (s *SessionStore) GetByToken(token string) (*model.Session, error) {
	var sess model.Session
	err := s.db.QueryRow(
		`SELECT id, user_id, token, created_at, expires_at FROM sessions WHERE token = ?`,
		token,
	).Scan(&sess.ID, &sess.UserID, &sess.Token, &sess.CreatedAt, &sess.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}
	if time.Now().After(sess.ExpiresAt) {
		return nil, nil
	}
	return &sess, nil
}

// DeleteExpired removes sessions past their expiry.
func (s *SessionStore) DeleteExpired() error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE expires_at < ?`, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("delete expired sessions: %w", err)
	}
	return nil
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
