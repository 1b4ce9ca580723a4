// internal/service/event/store.go

package event

import (
	"context"
	"fmt"
	"log"
	"sync"

	"moves/internal/domain/event"
)

// Source is the remote event collection, queried ordered by start time
type Source interface {
	// FetchEvents returns the full remote event set
	FetchEvents(ctx context.Context) ([]event.Record, error)
}

// ChangeFeed delivers realtime add/update/delete notifications for the
// remote event table. Subscribe returns an unsubscribe function that stops
// further deliveries and releases the underlying channel.
type ChangeFeed interface {
	Subscribe(handler func()) (func(), error)
}

// Store owns the canonical event collection: it fetches from the remote
// source, normalizes coordinates, merges with the bundled seed set,
// deduplicates by id, and re-runs the whole load on every realtime
// notification.
//
// Every completed load replaces the collection wholesale, so overlapping
// loads never leave a partially merged state: the most recently completed
// one wins. A failed fetch keeps the last-known-good collection.
//
// Subscribers observe every successful load, whether it was triggered by a
// realtime notification or called directly; consumers that derive state
// from the collection stay in sync with manual refreshes too.
type Store struct {
	source Source
	feed   ChangeFeed
	seed   []event.Event

	mu     sync.RWMutex
	events []event.Event

	subMu     sync.Mutex
	subs      map[int]func([]event.Event)
	nextSubID int
	stopFeed  func()
}

// NewStore creates an event store seeded with the fallback set, so
// consumers have content before the first load completes
func NewStore(source Source, feed ChangeFeed, seed []event.Event) *Store {
	s := &Store{
		source: source,
		feed:   feed,
		seed:   seed,
		subs:   make(map[int]func([]event.Event)),
	}
	s.events = make([]event.Event, len(seed))
	copy(s.events, seed)
	return s
}

// Events returns the current collection snapshot
func (s *Store) Events() []event.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]event.Event, len(s.events))
	copy(snapshot, s.events)
	return snapshot
}

// Load fetches the remote collection, normalizes and merges it with the
// seed set, and replaces the current collection. On fetch failure the
// previous collection is retained and returned alongside the error; the
// caller decides whether to re-trigger.
func (s *Store) Load(ctx context.Context) ([]event.Event, error) {
	records, err := s.source.FetchEvents(ctx)
	if err != nil {
		log.Printf("event store: fetch failed, keeping %d known events: %v", len(s.Events()), err)
		return s.Events(), fmt.Errorf("fetch events: %w", err)
	}

	remote := make([]event.Event, 0, len(records))
	for _, rec := range records {
		remote = append(remote, formatRecord(rec))
	}

	merged := mergeWithSeed(remote, s.seed)

	s.mu.Lock()
	s.events = merged
	s.mu.Unlock()

	snapshot := s.Events()
	s.notify(snapshot)
	return snapshot, nil
}

// Subscribe registers for collection changes. onChange fires after every
// successful Load, realtime-triggered or direct. The returned function
// unsubscribes; the underlying feed channel is held only while at least one
// subscriber remains.
func (s *Store) Subscribe(onChange func([]event.Event)) (func(), error) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	if len(s.subs) == 0 {
		stop, err := s.feed.Subscribe(func() {
			if _, err := s.Load(context.Background()); err != nil {
				log.Printf("event store: reload after change notification failed: %v", err)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("subscribe to change feed: %w", err)
		}
		s.stopFeed = stop
	}

	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = onChange

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()

		delete(s.subs, id)
		if len(s.subs) == 0 && s.stopFeed != nil {
			s.stopFeed()
			s.stopFeed = nil
		}
	}, nil
}

// notify fans a collection snapshot out to the current subscribers. The
// subscriber set is copied first so a callback may unsubscribe itself.
func (s *Store) notify(events []event.Event) {
	s.subMu.Lock()
	callbacks := make([]func([]event.Event), 0, len(s.subs))
	for _, cb := range s.subs {
		callbacks = append(callbacks, cb)
	}
	s.subMu.Unlock()

	for _, cb := range callbacks {
		cb(events)
	}
}

// formatRecord maps a raw remote row into the app shape
func formatRecord(rec event.Record) event.Event {
	coords := normalizeCoordinates(rec.Coordinates)

	category := event.Category(rec.Category)
	if category == "" {
		category = event.CategoryParty
	}

	icon := rec.Icon
	if icon == "" {
		icon = "📍"
	}

	return event.Event{
		ID:             rec.ID,
		Title:          rec.Title,
		Description:    rec.Description,
		Coordinates:    &coords,
		Category:       category,
		Icon:           icon,
		StartTime:      rec.StartTime,
		EndTime:        rec.EndTime,
		FullAddress:    rec.FullAddress,
		HeaderImageURL: rec.HeaderImageURL,
		FontStyle:      rec.FontStyle,
	}
}

// mergeWithSeed appends seed events the remote set doesn't know about and
// deduplicates by id, remote rows taking precedence
func mergeWithSeed(remote, seed []event.Event) []event.Event {
	merged := make([]event.Event, 0, len(remote)+len(seed))
	seen := make(map[string]bool, len(remote)+len(seed))

	for _, ev := range remote {
		if seen[ev.ID] {
			continue
		}
		seen[ev.ID] = true
		merged = append(merged, ev)
	}
	for _, ev := range seed {
		if seen[ev.ID] {
			continue
		}
		seen[ev.ID] = true
		merged = append(merged, ev)
	}

	return merged
}
