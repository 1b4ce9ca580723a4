// internal/service/geo/cluster.go

package geo

import (
	"fmt"
	"math"
	"sort"

	"moves/internal/domain/geo"
)

// Web Mercator is undefined at the poles; latitudes are clamped to the
// usual cutoff before projection.
const maxMercatorLat = 85.05112878

// IndexConfig contains configuration for the cluster index
type IndexConfig struct {
	// RadiusPx is the merge radius in screen pixels: points that fall into
	// the same RadiusPx-sized grid cell at the query zoom are merged
	RadiusPx float64

	// MaxZoom is the zoom above which no merging occurs and every point is
	// returned as a singleton
	MaxZoom int

	// TileExtent is the world size in pixels at zoom 0
	TileExtent float64
}

// DefaultIndexConfig returns the index configuration the map surface uses
func DefaultIndexConfig() IndexConfig {
	return IndexConfig{
		RadiusPx:   50,
		MaxZoom:    14,
		TileExtent: 256,
	}
}

// Index partitions a set of located items into zoom- and viewport-aware
// clusters. It is stateless given its input set: Build performs a full
// rebuild, and Query is deterministic for a fixed item set, bounding box
// and zoom.
//
// Clustering uses a grid over Web Mercator world-pixel space. The grid at
// zoom z-1 is an exact coarsening of the grid at zoom z (the world halves,
// the cell size stays RadiusPx), so zooming out can only merge groups,
// never split them.
type Index struct {
	config IndexConfig
	points []geo.Point
}

// NewIndex creates an empty cluster index
func NewIndex(config IndexConfig) *Index {
	if config.RadiusPx <= 0 {
		config.RadiusPx = DefaultIndexConfig().RadiusPx
	}
	if config.TileExtent <= 0 {
		config.TileExtent = DefaultIndexConfig().TileExtent
	}
	return &Index{config: config}
}

// Build indexes the given items, replacing any previous set. An empty or
// nil set is valid and yields an index that answers every query with no
// results. Points are held sorted by ID so grouping order never depends on
// caller ordering.
func (ix *Index) Build(points []geo.Point) {
	ix.points = make([]geo.Point, len(points))
	copy(ix.points, points)
	sort.Slice(ix.points, func(i, j int) bool {
		return ix.points[i].ID < ix.points[j].ID
	})
}

// Query returns the clusters and singletons visible in the given viewport
// at the given zoom. Fractional zooms are floored. A cluster's synthetic ID
// encodes its zoom and grid cell, so repeated queries with the same inputs
// return identical identifiers. Degenerate or non-finite viewports and
// negative zooms produce an empty result.
func (ix *Index) Query(bbox geo.BoundingBox, zoom float64) []geo.ClusterPoint {
	if !validBounds(bbox) || math.IsNaN(zoom) || math.IsInf(zoom, 0) || zoom < 0 {
		return nil
	}

	z := int(math.Floor(zoom))
	if z > ix.config.MaxZoom {
		return ix.singletons(bbox)
	}

	worldSize := ix.config.TileExtent * math.Exp2(float64(z))

	type cell struct {
		cx, cy int
		sumLon float64
		sumLat float64
		count  int
		first  geo.Point
	}

	// Grid cells in first-seen order over the ID-sorted point set, so the
	// output order is stable across calls.
	byKey := make(map[[2]int]*cell)
	var order []*cell

	for _, p := range ix.points {
		px, py := project(p.Longitude, p.Latitude, worldSize)
		key := [2]int{
			int(math.Floor(px / ix.config.RadiusPx)),
			int(math.Floor(py / ix.config.RadiusPx)),
		}

		c, ok := byKey[key]
		if !ok {
			c = &cell{cx: key[0], cy: key[1], first: p}
			byKey[key] = c
			order = append(order, c)
		}
		c.sumLon += p.Longitude
		c.sumLat += p.Latitude
		c.count++
	}

	var results []geo.ClusterPoint
	for _, c := range order {
		if c.count == 1 {
			if !bbox.Contains(c.first.Longitude, c.first.Latitude) {
				continue
			}
			results = append(results, geo.ClusterPoint{
				ID:        c.first.ID,
				Longitude: c.first.Longitude,
				Latitude:  c.first.Latitude,
				Count:     1,
			})
			continue
		}

		lon := c.sumLon / float64(c.count)
		lat := c.sumLat / float64(c.count)
		if !bbox.Contains(lon, lat) {
			continue
		}
		results = append(results, geo.ClusterPoint{
			ID:        fmt.Sprintf("%d/%d/%d", z, c.cx, c.cy),
			Longitude: lon,
			Latitude:  lat,
			Count:     c.count,
			Cluster:   true,
		})
	}

	return results
}

// singletons returns every indexed point inside the viewport unmerged
func (ix *Index) singletons(bbox geo.BoundingBox) []geo.ClusterPoint {
	var results []geo.ClusterPoint
	for _, p := range ix.points {
		if !bbox.Contains(p.Longitude, p.Latitude) {
			continue
		}
		results = append(results, geo.ClusterPoint{
			ID:        p.ID,
			Longitude: p.Longitude,
			Latitude:  p.Latitude,
			Count:     1,
		})
	}
	return results
}

// project maps a coordinate onto Web Mercator world-pixel space of the
// given size
func project(lon, lat float64, worldSize float64) (float64, float64) {
	if lat > maxMercatorLat {
		lat = maxMercatorLat
	}
	if lat < -maxMercatorLat {
		lat = -maxMercatorLat
	}

	x := (lon + 180.0) / 360.0 * worldSize

	sin := math.Sin(lat * math.Pi / 180.0)
	y := (0.5 - math.Log((1+sin)/(1-sin))/(4*math.Pi)) * worldSize

	return x, y
}

func validBounds(bbox geo.BoundingBox) bool {
	for _, v := range []float64{bbox.West, bbox.South, bbox.East, bbox.North} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return bbox.West <= bbox.East && bbox.South <= bbox.North
}
