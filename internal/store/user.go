package store

import (
	"database/sql"
	"fmt"
)

// UserStore covers the minimal user surface the planner needs: rows to
// own plans and sessions. Account management is a collaborator concern.
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(name, email string) (int64, error) {
	result, err := s.db.Exec(`INSERT INTO users (name, email) VALUES (?, ?)`, name, email)
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// Exists reports whether the user id is present.
func (s *UserStore) Exists(id int64) (bool, error) {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM users WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query user: %w", err)
	}
	return true, nil
}
