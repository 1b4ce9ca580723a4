// internal/domain/geo/model.go

package geo

// Point is a located item fed into the cluster index. ID is the identity of
// the underlying event; it survives unchanged when the point is returned as
// a singleton.
type Point struct {
	ID        string
	Longitude float64
	Latitude  float64
}

// BoundingBox is a viewport in degrees: [West, East] x [South, North]
type BoundingBox struct {
	West  float64
	South float64
	East  float64
	North float64
}

// Contains reports whether the box contains the given coordinate.
// Boundaries are inclusive.
func (b BoundingBox) Contains(lon, lat float64) bool {
	return lon >= b.West && lon <= b.East && lat >= b.South && lat <= b.North
}

// ClusterPoint is one entry of a cluster query result: either an aggregate
// of nearby points (Cluster true, synthetic ID, centroid, member count) or a
// single untouched point (Cluster false, original ID and coordinate,
// Count 1).
type ClusterPoint struct {
	ID        string  `json:"id"`
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Count     int     `json:"count"`
	Cluster   bool    `json:"cluster"`
}
