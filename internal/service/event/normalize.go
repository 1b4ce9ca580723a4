// internal/service/event/normalize.go

package event

import (
	"strconv"
	"strings"

	"moves/internal/domain/event"
)

// normalizeCoordinates converts the heterogeneous coordinate shapes the
// remote source emits into the canonical [longitude, latitude] pair.
// Textual values ("(40.73,-73.99)", "POINT(-73.99 40.73)", "lon, lat") are
// stripped and split; objects are read via x/lon/longitude and
// y/lat/latitude; pairs arriving as arrays are taken positionally.
//
// Axis-order heuristic: a positive first component with a negative second
// is taken to be [latitude, longitude] (Western hemisphere at positive
// latitude) and swapped. This is ambiguous near the equator or prime
// meridian and in the Eastern hemisphere; the source system only emits
// North-America coordinates today.
//
// Any parse failure yields [0, 0] so one malformed record never blocks the
// rest of the collection.
func normalizeCoordinates(raw interface{}) event.Coordinates {
	switch v := raw.(type) {
	case string:
		return normalizeText(v)
	case *string:
		if v == nil {
			return event.Coordinates{}
		}
		return normalizeText(*v)
	case map[string]interface{}:
		return normalizeObject(v)
	case []float64:
		if len(v) >= 2 {
			return orient(v[0], v[1])
		}
	case [2]float64:
		return orient(v[0], v[1])
	case event.Coordinates:
		return orient(v[0], v[1])
	case []interface{}:
		if len(v) >= 2 {
			a, aok := toFloat(v[0])
			b, bok := toFloat(v[1])
			if aok && bok {
				return orient(a, b)
			}
		}
	}
	return event.Coordinates{}
}

func normalizeText(raw string) event.Coordinates {
	// Strip point-syntax wrapper characters: parentheses and the letters
	// of the "POINT" prefix.
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '(', ')', 'P', 'O', 'I', 'N', 'T':
			return -1
		}
		return r
	}, raw)
	cleaned = strings.TrimSpace(cleaned)

	var parts []string
	if strings.Contains(cleaned, ",") {
		parts = strings.Split(cleaned, ",")
	} else {
		parts = strings.Fields(cleaned)
	}
	if len(parts) < 2 {
		return event.Coordinates{}
	}

	first, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	second, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return event.Coordinates{}
	}

	return orient(first, second)
}

func normalizeObject(obj map[string]interface{}) event.Coordinates {
	first, firstOK := lookupFloat(obj, "x", "lon", "longitude")
	second, secondOK := lookupFloat(obj, "y", "lat", "latitude")
	if !firstOK || !secondOK {
		return event.Coordinates{}
	}
	return orient(first, second)
}

// orient applies the sign-based axis-order correction
func orient(first, second float64) event.Coordinates {
	if first > 0 && second < 0 {
		return event.Coordinates{second, first}
	}
	return event.Coordinates{first, second}
}

func lookupFloat(obj map[string]interface{}, keys ...string) (float64, bool) {
	for _, key := range keys {
		if raw, ok := obj[key]; ok {
			if f, ok := toFloat(raw); ok {
				return f, true
			}
		}
	}
	return 0, false
}

func toFloat(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}
