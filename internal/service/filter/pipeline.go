// internal/service/filter/pipeline.go

package filter

import (
	"strings"

	"moves/internal/domain/event"
	"moves/internal/service/geo"
)

// Center is a user-chosen search location
type Center struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Name string  `json:"name"`
}

// Filter is the caller-owned filter state applied to the event collection.
// The zero value matches everything.
type Filter struct {
	// SearchQuery is a free-text query; empty matches every event
	SearchQuery string

	// Category restricts to an exact category; empty matches every event
	Category string

	// RadiusMiles bounds the distance from Center; ignored when Center is nil
	RadiusMiles float64

	// Center is the search location; nil disables the location predicate
	Center *Center
}

// Apply returns the subset of events passing all three predicates (text,
// category, location), preserving input order. It is a pure function of its
// inputs.
func Apply(events []event.Event, f Filter) []event.Event {
	var matched []event.Event
	for _, ev := range events {
		if matchesText(ev, f.SearchQuery) && matchesCategory(ev, f.Category) && matchesLocation(ev, f) {
			matched = append(matched, ev)
		}
	}
	return matched
}

// matchesText is a case-insensitive substring match against title,
// description, category label and address
func matchesText(ev event.Event, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(ev.Title), q) ||
		strings.Contains(strings.ToLower(ev.Description), q) ||
		strings.Contains(strings.ToLower(string(ev.Category)), q) ||
		strings.Contains(strings.ToLower(ev.FullAddress), q)
}

func matchesCategory(ev event.Event, category string) bool {
	return category == "" || string(ev.Category) == category
}

// matchesLocation passes when no search center is set. With an active
// center, an event passes only with valid coordinates inside the radius;
// missing coordinates exclude it.
func matchesLocation(ev event.Event, f Filter) bool {
	if f.Center == nil {
		return true
	}
	center := event.Coordinates{f.Center.Lon, f.Center.Lat}
	return geo.Within(center, f.RadiusMiles, ev.Coordinates)
}
