package geo

import (
	"math"
	"testing"

	"moves/internal/domain/geo"
)

var worldBounds = geo.BoundingBox{West: -180, South: -85, East: 180, North: 85}

func testPoints() []geo.Point {
	return []geo.Point{
		{ID: "1", Longitude: -73.9973, Latitude: 40.7308},
		{ID: "2", Longitude: -73.9934, Latitude: 40.7273},
		{ID: "3", Longitude: -74.0014, Latitude: 40.7359},
		{ID: "4", Longitude: -73.9881, Latitude: 40.7224},
		{ID: "5", Longitude: -74.0048, Latitude: 40.7411},
		{ID: "6", Longitude: -71.0589, Latitude: 42.3601},
	}
}

func buildIndex(points []geo.Point) *Index {
	ix := NewIndex(DefaultIndexConfig())
	ix.Build(points)
	return ix
}

func TestQuery_Deterministic(t *testing.T) {
	ix := buildIndex(testPoints())

	first := ix.Query(worldBounds, 11)
	second := ix.Query(worldBounds, 11)

	if len(first) != len(second) {
		t.Fatalf("result count changed between queries: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("result %d changed between queries: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestQuery_InputOrderIndependent(t *testing.T) {
	points := testPoints()
	reversed := make([]geo.Point, len(points))
	for i, p := range points {
		reversed[len(points)-1-i] = p
	}

	a := buildIndex(points).Query(worldBounds, 11)
	b := buildIndex(reversed).Query(worldBounds, 11)

	if len(a) != len(b) {
		t.Fatalf("result count depends on input order: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("result %d depends on input order: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestQuery_ClusterCountMonotoneInZoom(t *testing.T) {
	ix := buildIndex(testPoints())

	prev := len(ix.Query(worldBounds, 16))
	for zoom := 15; zoom >= 0; zoom-- {
		n := len(ix.Query(worldBounds, float64(zoom)))
		if n > prev {
			t.Errorf("zooming out from %d to %d grew the result from %d to %d", zoom+1, zoom, prev, n)
		}
		prev = n
	}

	if prev != 1 {
		t.Errorf("expected a single cluster at zoom 0, got %d", prev)
	}
}

func TestQuery_MergePreservesTotalCount(t *testing.T) {
	points := testPoints()
	ix := buildIndex(points)

	for _, zoom := range []float64{0, 5, 10, 14, 16} {
		total := 0
		for _, cp := range ix.Query(worldBounds, zoom) {
			total += cp.Count
		}
		if total != len(points) {
			t.Errorf("zoom %v: member counts sum to %d, want %d", zoom, total, len(points))
		}
	}
}

func TestQuery_AboveMaxZoomReturnsSingletons(t *testing.T) {
	// Two coincident points stay separate above the merge ceiling
	points := []geo.Point{
		{ID: "a", Longitude: -73.9973, Latitude: 40.7308},
		{ID: "b", Longitude: -73.9973, Latitude: 40.7308},
	}
	ix := buildIndex(points)

	results := ix.Query(worldBounds, 15)
	if len(results) != 2 {
		t.Fatalf("expected 2 singletons above max zoom, got %d", len(results))
	}
	for _, cp := range results {
		if cp.Cluster || cp.Count != 1 {
			t.Errorf("expected singleton, got %+v", cp)
		}
	}

	// Below the ceiling the same pair merges
	merged := ix.Query(worldBounds, 10)
	if len(merged) != 1 || merged[0].Count != 2 || !merged[0].Cluster {
		t.Fatalf("expected one cluster of 2 at zoom 10, got %+v", merged)
	}
}

func TestQuery_ClusterCentroid(t *testing.T) {
	points := []geo.Point{
		{ID: "a", Longitude: -74.00, Latitude: 40.70},
		{ID: "b", Longitude: -73.99, Latitude: 40.72},
	}
	ix := buildIndex(points)

	results := ix.Query(worldBounds, 5)
	if len(results) != 1 {
		t.Fatalf("expected one cluster at zoom 5, got %d", len(results))
	}

	cp := results[0]
	if math.Abs(cp.Longitude - -73.995) > 1e-9 || math.Abs(cp.Latitude-40.71) > 1e-9 {
		t.Errorf("centroid mismatch: got (%f, %f)", cp.Longitude, cp.Latitude)
	}
	if cp.ID == "" || cp.ID == "a" || cp.ID == "b" {
		t.Errorf("cluster id should be synthetic, got %q", cp.ID)
	}
}

func TestQuery_ViewportExcludesOutsidePoints(t *testing.T) {
	ix := buildIndex(testPoints())

	// A Manhattan viewport excludes the Boston point
	manhattan := geo.BoundingBox{West: -74.05, South: 40.68, East: -73.90, North: 40.80}
	for _, cp := range ix.Query(manhattan, 16) {
		if cp.ID == "6" {
			t.Error("expected Boston point outside Manhattan viewport")
		}
	}
}

func TestQuery_DegenerateViewports(t *testing.T) {
	ix := buildIndex(testPoints())

	cases := []struct {
		name string
		bbox geo.BoundingBox
		zoom float64
	}{
		{"west beyond east", geo.BoundingBox{West: 10, South: 0, East: -10, North: 5}, 10},
		{"south beyond north", geo.BoundingBox{West: -10, South: 5, East: 10, North: 0}, 10},
		{"nan bound", geo.BoundingBox{West: math.NaN(), South: -85, East: 180, North: 85}, 10},
		{"infinite bound", geo.BoundingBox{West: -180, South: -85, East: math.Inf(1), North: 85}, 10},
		{"negative zoom", worldBounds, -1},
		{"nan zoom", worldBounds, math.NaN()},
	}

	for _, tc := range cases {
		if got := ix.Query(tc.bbox, tc.zoom); len(got) != 0 {
			t.Errorf("%s: expected empty result, got %d entries", tc.name, len(got))
		}
	}
}

func TestQuery_EmptyIndex(t *testing.T) {
	ix := NewIndex(DefaultIndexConfig())
	ix.Build(nil)

	if got := ix.Query(worldBounds, 10); len(got) != 0 {
		t.Errorf("expected empty result from empty index, got %d entries", len(got))
	}
}
