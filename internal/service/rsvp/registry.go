// internal/service/rsvp/registry.go

package rsvp

import (
	"context"
	"sync"

	"moves/internal/domain/event"
	domainIdentity "moves/internal/domain/identity"
	"moves/internal/domain/rsvp"
	identityService "moves/internal/service/identity"
)

// Registry hands out one tracker per identity and keeps them reconciled
// against the live event collection. Trackers are created lazily on first
// use and live for the rest of the session.
type Registry struct {
	relations rsvp.Store
	users     domainIdentity.Store

	mu       sync.Mutex
	trackers map[string]*Tracker
}

// NewRegistry creates an empty tracker registry
func NewRegistry(relations rsvp.Store, users domainIdentity.Store) *Registry {
	return &Registry{
		relations: relations,
		users:     users,
		trackers:  make(map[string]*Tracker),
	}
}

// For returns the tracker for an identity, creating and reconciling it
// against the given collection on first use
func (r *Registry) For(ctx context.Context, userID string, events []event.Event) (*Tracker, error) {
	r.mu.Lock()
	t, ok := r.trackers[userID]
	if !ok {
		resolver := identityService.NewService(r.users, userID)
		t = NewTracker(r.relations, resolver)
		r.trackers[userID] = t
	}
	r.mu.Unlock()

	if !ok {
		if err := t.Reconcile(ctx, events); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// ReconcileAll re-runs reconciliation for every known tracker. Called
// whenever the event collection changes, because relation ids only mean
// something against the current events.
func (r *Registry) ReconcileAll(ctx context.Context, events []event.Event) []error {
	r.mu.Lock()
	trackers := make([]*Tracker, 0, len(r.trackers))
	for _, t := range r.trackers {
		trackers = append(trackers, t)
	}
	r.mu.Unlock()

	var errs []error
	for _, t := range trackers {
		if err := t.Reconcile(ctx, events); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
