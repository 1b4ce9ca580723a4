// internal/adapter/storage/rsvp_store.go

package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"moves/internal/domain/rsvp"
)

// RSVPStore implements the remote relation store over Postgres
type RSVPStore struct {
	db *pgxpool.Pool
}

// NewRSVPStore creates a new RSVP store
func NewRSVPStore(db *pgxpool.Pool) *RSVPStore {
	return &RSVPStore{
		db: db,
	}
}

// Upsert creates or replaces the relation for (event, user). The unique
// key on (event_id, user_id) is what keeps a user at a single status per
// event remotely.
func (s *RSVPStore) Upsert(ctx context.Context, rel rsvp.Relation) error {
	query := `
		INSERT INTO rsvps (event_id, user_id, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id, user_id) DO UPDATE
		SET status = EXCLUDED.status
	`

	_, err := s.db.Exec(ctx, query, rel.EventID, rel.UserID, string(rel.Status))
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// Delete removes the relation for (event, user)
func (s *RSVPStore) Delete(ctx context.Context, eventID, userID string) error {
	query := `DELETE FROM rsvps WHERE event_id = $1 AND user_id = $2`

	_, err := s.db.Exec(ctx, query, eventID, userID)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// ListByUser returns all relations held by a user
func (s *RSVPStore) ListByUser(ctx context.Context, userID string) ([]rsvp.Relation, error) {
	query := `SELECT event_id, status FROM rsvps WHERE user_id = $1`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var relations []rsvp.Relation
	for rows.Next() {
		var rel rsvp.Relation
		var status string

		if err := rows.Scan(&rel.EventID, &status); err != nil {
			return nil, fmt.Errorf("error scanning relation: %w", err)
		}

		rel.UserID = userID
		rel.Status = rsvp.Status(status)
		relations = append(relations, rel)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating relations: %w", err)
	}

	return relations, nil
}
