// internal/adapter/storage/event_store.go

package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"moves/internal/domain/event"
)

// EventStore implements the remote event source over Postgres
type EventStore struct {
	db *pgxpool.Pool
}

// NewEventStore creates a new event store
func NewEventStore(db *pgxpool.Pool) *EventStore {
	return &EventStore{
		db: db,
	}
}

// FetchEvents returns every event row ordered by start time. The
// coordinates column is read as text so the service-layer normalizer sees
// the raw point representation.
func (s *EventStore) FetchEvents(ctx context.Context) ([]event.Record, error) {
	query := `
		SELECT
			id, title, description, coordinates::text, category, icon,
			start_time, end_time, full_address, header_image_url, font_style
		FROM events
		ORDER BY start_time ASC
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var records []event.Record
	for rows.Next() {
		var rec event.Record
		var description, coordinates, category, icon *string
		var fullAddress, headerImageURL, fontStyle *string
		var startTime, endTime *time.Time

		err := rows.Scan(
			&rec.ID,
			&rec.Title,
			&description,
			&coordinates,
			&category,
			&icon,
			&startTime,
			&endTime,
			&fullAddress,
			&headerImageURL,
			&fontStyle,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning event: %w", err)
		}

		rec.Description = deref(description)
		rec.Category = deref(category)
		rec.Icon = deref(icon)
		rec.FullAddress = deref(fullAddress)
		rec.HeaderImageURL = deref(headerImageURL)
		rec.FontStyle = deref(fontStyle)
		rec.StartTime = startTime
		rec.EndTime = endTime
		if coordinates != nil {
			rec.Coordinates = *coordinates
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return records, nil
}

// InsertEvent saves a newly created event
func (s *EventStore) InsertEvent(ctx context.Context, ev event.Event) error {
	query := `
		INSERT INTO events (
			id, title, description, coordinates, category, icon,
			start_time, end_time, full_address, header_image_url, font_style
		) VALUES (
			$1, $2, $3, point($4, $5), $6, $7,
			$8, $9, $10, $11, $12
		)
	`

	var lng, lat *float64
	if ev.Coordinates != nil {
		lon := ev.Coordinates.Lon()
		la := ev.Coordinates.Lat()
		lng, lat = &lon, &la
	}

	_, err := s.db.Exec(
		ctx,
		query,
		ev.ID,
		ev.Title,
		ev.Description,
		lng,
		lat,
		string(ev.Category),
		ev.Icon,
		ev.StartTime,
		ev.EndTime,
		ev.FullAddress,
		ev.HeaderImageURL,
		ev.FontStyle,
	)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
