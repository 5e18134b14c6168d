package domain

import "time"

// Point is an entry of the point lookup table. X is the longitude and Y the
// latitude, both in degrees.
//
// The zero value is the "not found" sentinel returned at the service
// boundary when an ID is absent from the table.
type Point struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// GeoPoint returns the point's coordinates as latitude/longitude.
func (p Point) GeoPoint() GeoPoint {
	return GeoPoint{Lat: p.Y, Lon: p.X}
}

// IsZero reports whether p is the not-found sentinel.
func (p Point) IsZero() bool {
	return p == Point{}
}

// PerimeterResult is the outcome of a triangle perimeter calculation.
type PerimeterResult struct {
	Vertices    Triangle   `json:"vertices"`
	SidesM      [3]float64 `json:"sides_m"`
	PerimeterM  float64    `json:"perimeter_m"`
	PerimeterKm float64    `json:"perimeter_km"`
}

// Result source labels.
const (
	SourceIDs         = "ids"
	SourceCoordinates = "coordinates"
)

// PerimeterComputed is published after every successful calculation.
type PerimeterComputed struct {
	Source     string    `json:"source"`
	PointIDs   []int     `json:"point_ids,omitempty"`
	Vertices   Triangle  `json:"vertices"`
	PerimeterM float64   `json:"perimeter_m"`
	ComputedAt time.Time `json:"computed_at"`
}
