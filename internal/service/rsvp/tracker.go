// internal/service/rsvp/tracker.go

package rsvp

import (
	"context"
	"fmt"
	"log"
	"sync"

	"moves/internal/domain/event"
	"moves/internal/domain/identity"
	"moves/internal/domain/rsvp"
)

// Tracker maintains the per-identity going/maybe sets, synchronized against
// the remote relation store. Local state is updated optimistically before
// the remote call resolves and is not rolled back when it fails; the
// failure is logged and surfaced.
//
// Toggles on the same event must not be issued concurrently by two
// interactions; debouncing rapid double-taps is the caller's obligation.
type Tracker struct {
	store    rsvp.Store
	resolver identity.Resolver

	mu    sync.RWMutex
	going []event.Event
	maybe []event.Event
}

// NewTracker creates a tracker for one session
func NewTracker(store rsvp.Store, resolver identity.Resolver) *Tracker {
	return &Tracker{
		store:    store,
		resolver: resolver,
	}
}

// IsGoing reports whether the event is in the going set
func (t *Tracker) IsGoing(eventID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return indexOf(t.going, eventID) >= 0
}

// IsMaybe reports whether the event is in the maybe set
func (t *Tracker) IsMaybe(eventID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return indexOf(t.maybe, eventID) >= 0
}

// Going returns the events the user is locked in for
func (t *Tracker) Going() []event.Event {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return copyEvents(t.going)
}

// Maybe returns the events the user has saved as interested
func (t *Tracker) Maybe() []event.Event {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return copyEvents(t.maybe)
}

// ToggleGoing flips the going status for an event. A set event is removed
// locally and remotely; an unset one first clears any maybe status, then
// goes going. No event ever holds both statuses.
func (t *Tracker) ToggleGoing(ctx context.Context, ev event.Event) error {
	return t.toggle(ctx, ev, rsvp.StatusGoing)
}

// ToggleMaybe is symmetric to ToggleGoing with the statuses swapped
func (t *Tracker) ToggleMaybe(ctx context.Context, ev event.Event) error {
	return t.toggle(ctx, ev, rsvp.StatusMaybe)
}

func (t *Tracker) toggle(ctx context.Context, ev event.Event, status rsvp.Status) error {
	userID, err := t.resolveIdentity(ctx)
	if err != nil {
		return err
	}

	target, other := &t.going, &t.maybe
	if status == rsvp.StatusMaybe {
		target, other = &t.maybe, &t.going
	}

	t.mu.Lock()
	if idx := indexOf(*target, ev.ID); idx >= 0 {
		*target = removeAt(*target, idx)
		t.mu.Unlock()

		if err := t.store.Delete(ctx, ev.ID, userID); err != nil {
			log.Printf("rsvp: remote delete failed for event %s, local state kept: %v", ev.ID, err)
			return fmt.Errorf("delete relation: %w", err)
		}
		return nil
	}

	// Clearing the opposite status is ordered before setting the new one.
	// The remote side collapses to a single row via upsert-by-(event, user).
	if idx := indexOf(*other, ev.ID); idx >= 0 {
		*other = removeAt(*other, idx)
	}
	*target = append(*target, ev)
	t.mu.Unlock()

	rel := rsvp.Relation{EventID: ev.ID, UserID: userID, Status: status}
	if err := t.store.Upsert(ctx, rel); err != nil {
		log.Printf("rsvp: remote upsert failed for event %s, local state kept: %v", ev.ID, err)
		return fmt.Errorf("upsert relation: %w", err)
	}
	return nil
}

// Reconcile recomputes the going/maybe lists as the subset of the given
// authoritative collection whose ids appear in the stored relations. It
// must run whenever the event collection changes, because relation ids are
// meaningless without the event objects behind them. Without an identity
// both lists are empty.
func (t *Tracker) Reconcile(ctx context.Context, events []event.Event) error {
	userID, err := t.resolver.Current(ctx)
	if err != nil {
		return fmt.Errorf("resolve identity: %w", err)
	}
	if userID == "" {
		t.mu.Lock()
		t.going, t.maybe = nil, nil
		t.mu.Unlock()
		return nil
	}

	relations, err := t.store.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("list relations: %w", err)
	}

	goingIDs := make(map[string]bool)
	maybeIDs := make(map[string]bool)
	for _, rel := range relations {
		switch rel.Status {
		case rsvp.StatusGoing:
			goingIDs[rel.EventID] = true
		case rsvp.StatusMaybe:
			maybeIDs[rel.EventID] = true
		}
	}

	var going, maybe []event.Event
	for _, ev := range events {
		if goingIDs[ev.ID] {
			going = append(going, ev)
		}
		if maybeIDs[ev.ID] {
			maybe = append(maybe, ev)
		}
	}

	t.mu.Lock()
	t.going, t.maybe = going, maybe
	t.mu.Unlock()
	return nil
}

// resolveIdentity returns the current identity, creating an anonymous one
// on demand. Identity absence plus creation failure is terminal for the
// triggering operation.
func (t *Tracker) resolveIdentity(ctx context.Context) (string, error) {
	userID, err := t.resolver.Current(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve identity: %w", err)
	}
	if userID != "" {
		return userID, nil
	}

	userID, err = t.resolver.CreateAnonymous(ctx)
	if err != nil {
		return "", fmt.Errorf("create anonymous identity: %w", err)
	}
	return userID, nil
}

func indexOf(events []event.Event, id string) int {
	for i, ev := range events {
		if ev.ID == id {
			return i
		}
	}
	return -1
}

func removeAt(events []event.Event, idx int) []event.Event {
	out := make([]event.Event, 0, len(events)-1)
	out = append(out, events[:idx]...)
	return append(out, events[idx+1:]...)
}

func copyEvents(events []event.Event) []event.Event {
	out := make([]event.Event, len(events))
	copy(out, events)
	return out
}
