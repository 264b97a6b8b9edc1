package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bookcook/bookcook/internal/model"
)

// FeedTokenStore manages the per-user capability tokens embedded in
// calendar subscription URLs. The token is the only credential the feed
// endpoint checks, so rotating it revokes every previously shared URL.
type FeedTokenStore struct {
	db *sql.DB
}

func NewFeedTokenStore(db *sql.DB) *FeedTokenStore {
	return &FeedTokenStore{db: db}
}

// Get returns the user's current token, creating one on first use.
func (s *FeedTokenStore) Get(userID int64) (*model.FeedToken, error) {
	var t model.FeedToken
	err := s.db.QueryRow(
		`SELECT user_id, token, created_at FROM feed_tokens WHERE user_id = ?`, userID,
	).Scan(&t.UserID, &t.Token, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return s.Rotate(userID)
	}
	if err != nil {
		return nil, fmt.Errorf("query feed token: %w", err)
	}
	return &t, nil
}

// Rotate replaces the user's token with a fresh one.
func (s *FeedTokenStore) Rotate(userID int64) (*model.FeedToken, error) {
	token, err := randomToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	_, err = s.db.Exec(
		`INSERT INTO feed_tokens (user_id, token, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET token = excluded.token, created_at = excluded.created_at`,
		userID, token, now,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert feed token: %w", err)
	}
	return &model.FeedToken{UserID: userID, Token: token, CreatedAt: now}, nil
}

// ResolveUser maps a presented token back to its user id. Returns 0
// with no error for an unknown token.
func (s *FeedTokenStore) ResolveUser(token string) (int64, error) {
	var userID int64
	err := s.db.QueryRow(`SELECT user_id FROM feed_tokens WHERE token = ?`, token).Scan(&userID)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query feed token: %w", err)
	}
	return userID, nil
}
