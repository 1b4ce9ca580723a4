// internal/domain/rsvp/model.go

package rsvp

import (
	"context"
)

// Status is one of the two mutually exclusive RSVP states a user can hold
// for an event
type Status string

const (
	StatusGoing Status = "going"
	StatusMaybe Status = "maybe"
)

// Relation is an (event, user, status) row mirrored in the remote relation
// store. At most one relation exists per (event, user) pair.
type Relation struct {
	EventID string `json:"event_id"`
	UserID  string `json:"user_id"`
	Status  Status `json:"status"`
}

// Store defines the remote relation store the tracker synchronizes against
type Store interface {
	// Upsert creates or replaces the relation for (event, user)
	Upsert(ctx context.Context, rel Relation) error

	// Delete removes the relation for (event, user)
	Delete(ctx context.Context, eventID, userID string) error

	// ListByUser returns all relations held by a user
	ListByUser(ctx context.Context, userID string) ([]Relation, error)
}
