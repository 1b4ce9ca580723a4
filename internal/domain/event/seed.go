// internal/domain/event/seed.go

package event

import (
	"time"
)

// SeedEvents returns the bundled fallback event set. It keeps the map and
// feed populated when the remote source is empty or unreachable; remote rows
// with the same id take precedence on merge.
func SeedEvents() []Event {
	now := time.Now()
	in3h := now.Add(3 * time.Hour)
	in4h := now.Add(4 * time.Hour)

	coords := func(lon, lat float64) *Coordinates {
		c := Coordinates{lon, lat}
		return &c
	}

	return []Event{
		{
			ID:          "1",
			Title:       "Neon Rooftop Rager",
			Description: "Underground house music & neon lights. BYOB.",
			Coordinates: coords(-73.9973, 40.7308),
			Category:    CategoryParty,
			Icon:        "🎉",
			StartTime:   &now,
			EndTime:     &in4h,
			FullAddress: "123 Broadway, New York, NY",
			FontStyle:   "digital",
			Host:        &Host{Name: "Marcus Chen"},
		},
		{
			ID:          "2",
			Title:       "Midnight Jazz Club",
			Description: "Smooth jazz, dark corners, strong cocktails.",
			Coordinates: coords(-74.0060, 40.7128),
			Category:    CategoryMusic,
			Icon:        "🎷",
			StartTime:   &now,
			EndTime:     &in3h,
			FullAddress: "42 Blue Note Ln, New York, NY",
			FontStyle:   "elegant",
			Host:        &Host{Name: "Sophia Williams"},
		},
		{
			ID:          "3",
			Title:       "Pop-up Vintage Market",
			Description: "Curated 90s streetwear and vinyl records.",
			Coordinates: coords(-73.9632, 40.7789),
			Category:    CategoryShop,
			Icon:        "🛍️",
			FullAddress: "Williamsburg Market, Brooklyn, NY",
			FontStyle:   "simple",
			Host:        &Host{Name: "Jaylen Brooks"},
		},
		{
			ID:          "4",
			Title:       "Latte Art Throwdown",
			Description: "Barista battle. Free espresso shots for spectators.",
			Coordinates: coords(-73.9822, 40.7589),
			Category:    CategoryCoffee,
			Icon:        "☕",
			FullAddress: "Coffee Lab, Manhattan, NY",
			FontStyle:   "fancy",
			Host:        &Host{Name: "Alice Nakamura"},
		},
		{
			ID:          "5",
			Title:       "Central Park Picnic",
			Description: "Chill vibes, frisbee, and good snacks.",
			Coordinates: coords(-73.9665, 40.7812),
			Category:    CategoryFood,
			Icon:        "🧺",
			FullAddress: "Sheep Meadow, Central Park, NY",
			FontStyle:   "literary",
			Host:        &Host{Name: "Emma Rodriguez"},
		},
		{
			ID:          "6",
			Title:       "Startup Pitch Night",
			Description: "Watch the next unicorn founders pitch to top VCs. Networking & drinks.",
			Coordinates: coords(-71.0589, 42.3601),
			Category:    CategoryParty,
			Icon:        "🚀",
			FullAddress: "Innovation Lab, Boston, MA",
			FontStyle:   "digital",
			Host:        &Host{Name: "David Kim"},
		},
		{
			ID:          "7",
			Title:       "Smorgasburg WTC",
			Description: "The largest weekly open-air food market in America with 100 local vendors.",
			Coordinates: coords(-74.0116, 40.7115),
			Category:    CategoryFood,
			Icon:        "🌮",
			FullAddress: "The Oculus, New York, NY",
			FontStyle:   "simple",
			Host:        &Host{Name: "NYC Food Collective"},
		},
	}
}
