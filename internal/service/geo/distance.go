// internal/service/geo/distance.go

package geo

import (
	"math"

	"moves/internal/domain/event"
)

const earthRadiusMiles = 3958.8

// DistanceMiles calculates the great-circle distance between two
// [lon, lat] coordinates in miles using the Haversine formula. It is
// symmetric and returns exactly zero for identical points.
func DistanceMiles(a, b event.Coordinates) float64 {
	lat1 := a.Lat() * math.Pi / 180.0
	lon1 := a.Lon() * math.Pi / 180.0
	lat2 := b.Lat() * math.Pi / 180.0
	lon2 := b.Lon() * math.Pi / 180.0

	dLat := lat2 - lat1
	dLon := lon2 - lon1

	hSin := math.Sin(dLat / 2)
	hSin *= hSin

	vSin := math.Sin(dLon / 2)
	vSin *= vSin

	h := hSin + math.Cos(lat1)*math.Cos(lat2)*vSin

	return 2 * earthRadiusMiles * math.Asin(math.Sqrt(h))
}

// Within reports whether point lies within radiusMiles of center. The
// boundary is inclusive. A nil point (event without coordinates) is always
// outside.
func Within(center event.Coordinates, radiusMiles float64, point *event.Coordinates) bool {
	if point == nil {
		return false
	}
	return DistanceMiles(center, *point) <= radiusMiles
}
