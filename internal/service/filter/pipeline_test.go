package filter

import (
	"testing"

	"moves/internal/domain/event"
)

func coords(lon, lat float64) *event.Coordinates {
	c := event.Coordinates{lon, lat}
	return &c
}

func sampleEvents() []event.Event {
	return []event.Event{
		{
			ID:          "near-food",
			Title:       "Night Market",
			Description: "Street food vendors",
			Category:    event.CategoryFood,
			FullAddress: "100 Broadway, New York, NY",
			Coordinates: coords(-74.0060, 40.7418),
		},
		{
			ID:          "far-party",
			Title:       "Warehouse Party",
			Description: "All night, smooth house sets",
			Category:    event.CategoryParty,
			FullAddress: "1 River Rd, Yonkers, NY",
			Coordinates: coords(-74.0060, 41.0028),
		},
		{
			ID:          "no-coords",
			Title:       "Jazz Evening",
			Description: "Live quartet",
			Category:    event.CategoryMusic,
			FullAddress: "Somewhere downtown",
		},
	}
}

func newYorkCenter() *Center {
	return &Center{Lat: 40.7128, Lon: -74.0060, Name: "New York"}
}

func ids(events []event.Event) []string {
	out := make([]string, len(events))
	for i, ev := range events {
		out[i] = ev.ID
	}
	return out
}

func TestApply_ZeroFilterMatchesEverything(t *testing.T) {
	events := sampleEvents()
	got := Apply(events, Filter{})
	if len(got) != len(events) {
		t.Fatalf("expected all %d events, got %d", len(events), len(got))
	}
	for i := range events {
		if got[i].ID != events[i].ID {
			t.Errorf("order not preserved at %d: got %s, want %s", i, got[i].ID, events[i].ID)
		}
	}
}

func TestApply_TextMatchesAcrossFields(t *testing.T) {
	events := sampleEvents()

	cases := []struct {
		query string
		want  string
	}{
		{"jazz", "no-coords"},     // title
		{"JAZZ", "no-coords"},     // case-insensitive
		{"smooth", "far-party"},   // description
		{"food", "near-food"},     // category label
		{"broadway", "near-food"}, // address
	}

	for _, tc := range cases {
		got := Apply(events, Filter{SearchQuery: tc.query})
		if len(got) != 1 || got[0].ID != tc.want {
			t.Errorf("query %q: got %v, want [%s]", tc.query, ids(got), tc.want)
		}
	}
}

func TestApply_TextNoMatch(t *testing.T) {
	if got := Apply(sampleEvents(), Filter{SearchQuery: "karaoke"}); len(got) != 0 {
		t.Errorf("expected no matches, got %v", ids(got))
	}
}

func TestApply_Category(t *testing.T) {
	got := Apply(sampleEvents(), Filter{Category: "party"})
	if len(got) != 1 || got[0].ID != "far-party" {
		t.Errorf("category filter: got %v, want [far-party]", ids(got))
	}
}

func TestApply_RadiusAroundCenter(t *testing.T) {
	// near-food is about 2 miles from the center, far-party about 20
	got := Apply(sampleEvents(), Filter{RadiusMiles: 10, Center: newYorkCenter()})
	if len(got) != 1 || got[0].ID != "near-food" {
		t.Fatalf("radius filter: got %v, want [near-food]", ids(got))
	}

	got = Apply(sampleEvents(), Filter{RadiusMiles: 25, Center: newYorkCenter()})
	if len(got) != 2 {
		t.Fatalf("wide radius: got %v, want both located events", ids(got))
	}
}

func TestApply_MissingCoordinates(t *testing.T) {
	// Without a center the unlocated event passes; with one it never does
	all := Apply(sampleEvents(), Filter{SearchQuery: "jazz"})
	if len(all) != 1 {
		t.Fatalf("expected the unlocated event without a center, got %v", ids(all))
	}

	located := Apply(sampleEvents(), Filter{SearchQuery: "jazz", RadiusMiles: 10000, Center: newYorkCenter()})
	if len(located) != 0 {
		t.Errorf("expected unlocated event excluded under an active center, got %v", ids(located))
	}
}

func TestApply_PredicatesCombine(t *testing.T) {
	f := Filter{SearchQuery: "night", Category: "food", RadiusMiles: 10, Center: newYorkCenter()}
	got := Apply(sampleEvents(), f)
	if len(got) != 1 || got[0].ID != "near-food" {
		t.Errorf("combined filter: got %v, want [near-food]", ids(got))
	}
}

func TestApply_Idempotent(t *testing.T) {
	f := Filter{Category: "food", RadiusMiles: 10, Center: newYorkCenter()}
	once := Apply(sampleEvents(), f)
	twice := Apply(once, f)

	if len(once) != len(twice) {
		t.Fatalf("filter not idempotent: %v vs %v", ids(once), ids(twice))
	}
	for i := range once {
		if once[i].ID != twice[i].ID {
			t.Errorf("filter not idempotent at %d: %s vs %s", i, once[i].ID, twice[i].ID)
		}
	}
}
