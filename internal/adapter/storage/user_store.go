// internal/adapter/storage/user_store.go

package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

// UserStore persists identities
type UserStore struct {
	db *pgxpool.Pool
}

// NewUserStore creates a new user store
func NewUserStore(db *pgxpool.Pool) *UserStore {
	return &UserStore{
		db: db,
	}
}

// CreateAnonymousUser inserts a new anonymous user row
func (s *UserStore) CreateAnonymousUser(ctx context.Context, id string) error {
	query := `INSERT INTO users (id, is_anonymous, created_at) VALUES ($1, true, now())`

	_, err := s.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}
