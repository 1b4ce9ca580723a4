package event

import (
	"context"
	"errors"
	"testing"

	"moves/internal/domain/event"
)

type fakeSource struct {
	records []event.Record
	err     error
	calls   int
}

func (f *fakeSource) FetchEvents(ctx context.Context) ([]event.Record, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

type fakeFeed struct {
	handler func()
}

func (f *fakeFeed) Subscribe(handler func()) (func(), error) {
	f.handler = handler
	return func() { f.handler = nil }, nil
}

// Fire simulates a change notification from the remote table
func (f *fakeFeed) Fire() {
	if f.handler != nil {
		f.handler()
	}
}

func seed() []event.Event {
	return []event.Event{
		{ID: "1", Title: "Seed One", Category: event.CategoryParty},
		{ID: "2", Title: "Seed Two", Category: event.CategoryMusic},
	}
}

func TestStore_ServesSeedBeforeFirstLoad(t *testing.T) {
	store := NewStore(&fakeSource{}, &fakeFeed{}, seed())

	events := store.Events()
	if len(events) != 2 {
		t.Fatalf("expected 2 seed events, got %d", len(events))
	}
	if events[0].ID != "1" || events[1].ID != "2" {
		t.Errorf("unexpected seed order: %s, %s", events[0].ID, events[1].ID)
	}
}

func TestStore_LoadMergesRemoteOverSeed(t *testing.T) {
	source := &fakeSource{records: []event.Record{
		{ID: "1", Title: "Remote One", Coordinates: "(-73.9973,40.7308)", Category: "food"},
		{ID: "9", Title: "Remote Nine", Coordinates: "(40.7359,-74.0014)"},
	}}
	store := NewStore(source, &fakeFeed{}, seed())

	events, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}

	if len(events) != 3 {
		t.Fatalf("expected 3 merged events, got %d", len(events))
	}

	// Remote row for "1" wins over the seed entry, exactly once
	byID := make(map[string]event.Event)
	for _, ev := range events {
		if _, dup := byID[ev.ID]; dup {
			t.Fatalf("duplicate id %s in merged collection", ev.ID)
		}
		byID[ev.ID] = ev
	}

	if byID["1"].Title != "Remote One" {
		t.Errorf("remote row should override seed, got title %q", byID["1"].Title)
	}
	if byID["2"].Title != "Seed Two" {
		t.Errorf("seed-only event lost, got title %q", byID["2"].Title)
	}

	// Coordinates arrive normalized to [lon, lat] regardless of source order
	for _, id := range []string{"1", "9"} {
		c := byID[id].Coordinates
		if c == nil || c.Lon() > 0 || c.Lat() < 0 {
			t.Errorf("event %s: coordinates not normalized: %v", id, c)
		}
	}
}

func TestStore_LoadAppliesDefaults(t *testing.T) {
	source := &fakeSource{records: []event.Record{{ID: "9", Title: "Bare"}}}
	store := NewStore(source, &fakeFeed{}, nil)

	events, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if events[0].Category != event.CategoryParty {
		t.Errorf("expected default category, got %q", events[0].Category)
	}
	if events[0].Icon == "" {
		t.Error("expected default icon")
	}
}

func TestStore_FetchFailureKeepsKnownCollection(t *testing.T) {
	source := &fakeSource{err: errors.New("connection refused")}
	store := NewStore(source, &fakeFeed{}, seed())

	events, err := store.Load(context.Background())
	if err == nil {
		t.Fatal("expected load error")
	}
	if len(events) != 2 {
		t.Fatalf("expected last-known-good collection, got %d events", len(events))
	}
	if got := store.Events(); len(got) != 2 {
		t.Fatalf("collection should be unchanged after failure, got %d events", len(got))
	}
}

func TestStore_SubscribeReloadsOnNotification(t *testing.T) {
	source := &fakeSource{records: []event.Record{{ID: "9", Title: "Remote Nine"}}}
	feed := &fakeFeed{}
	store := NewStore(source, feed, seed())

	var notified [][]event.Event
	unsubscribe, err := store.Subscribe(func(events []event.Event) {
		notified = append(notified, events)
	})
	if err != nil {
		t.Fatalf("unexpected subscribe error: %v", err)
	}

	feed.Fire()

	if source.calls != 1 {
		t.Fatalf("expected one fetch after notification, got %d", source.calls)
	}
	if len(notified) != 1 {
		t.Fatalf("expected one change callback, got %d", len(notified))
	}

	count := 0
	for _, ev := range notified[0] {
		if ev.ID == "9" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected the new event exactly once, got %d occurrences", count)
	}

	unsubscribe()
	feed.Fire()
	if len(notified) != 1 {
		t.Errorf("expected no callbacks after unsubscribe, got %d", len(notified))
	}
}

func TestStore_DirectLoadNotifiesSubscribers(t *testing.T) {
	// A manual refresh changes the collection just like a realtime
	// notification does; subscribers must see both.
	source := &fakeSource{records: []event.Record{{ID: "9", Title: "Remote Nine"}}}
	store := NewStore(source, &fakeFeed{}, seed())

	var notified [][]event.Event
	unsubscribe, err := store.Subscribe(func(events []event.Event) {
		notified = append(notified, events)
	})
	if err != nil {
		t.Fatalf("unexpected subscribe error: %v", err)
	}

	if _, err := store.Load(context.Background()); err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}

	if len(notified) != 1 {
		t.Fatalf("expected one change callback after direct load, got %d", len(notified))
	}
	found := false
	for _, ev := range notified[0] {
		if ev.ID == "9" {
			found = true
		}
	}
	if !found {
		t.Error("expected the freshly loaded event in the callback snapshot")
	}

	unsubscribe()
	if _, err := store.Load(context.Background()); err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if len(notified) != 1 {
		t.Errorf("expected no callbacks after unsubscribe, got %d", len(notified))
	}
}

func TestStore_FailedLoadNotifiesNobody(t *testing.T) {
	source := &fakeSource{err: errors.New("connection refused")}
	store := NewStore(source, &fakeFeed{}, seed())

	callbacks := 0
	if _, err := store.Subscribe(func([]event.Event) { callbacks++ }); err != nil {
		t.Fatalf("unexpected subscribe error: %v", err)
	}

	if _, err := store.Load(context.Background()); err == nil {
		t.Fatal("expected load error")
	}
	if callbacks != 0 {
		t.Errorf("expected no callback from a failed load, got %d", callbacks)
	}
}

func TestStore_SubscribeSkipsCallbackOnFailedReload(t *testing.T) {
	source := &fakeSource{err: errors.New("connection refused")}
	feed := &fakeFeed{}
	store := NewStore(source, feed, seed())

	callbacks := 0
	if _, err := store.Subscribe(func([]event.Event) { callbacks++ }); err != nil {
		t.Fatalf("unexpected subscribe error: %v", err)
	}

	feed.Fire()

	if callbacks != 0 {
		t.Errorf("expected no callback when the reload fails, got %d", callbacks)
	}
	if got := store.Events(); len(got) != 2 {
		t.Errorf("collection should be unchanged after failed reload, got %d events", len(got))
	}
}
