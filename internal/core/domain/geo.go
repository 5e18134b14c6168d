package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/samirrijal/geotriangle/internal/pkg/geospatial"
)

// Coordinate bounds for WGS 84 degrees. Both ends are inclusive.
const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate reports whether the point lies inside the WGS 84 degree ranges.
// name identifies the point in the returned error, e.g. "Point 2".
func (g GeoPoint) Validate(name string) error {
	if math.IsNaN(g.Lat) || g.Lat < MinLatitude || g.Lat > MaxLatitude {
		return &CoordinateError{Point: name, Field: FieldLatitude, Value: g.Lat, Err: ErrOutOfRange}
	}
	if math.IsNaN(g.Lon) || g.Lon < MinLongitude || g.Lon > MaxLongitude {
		return &CoordinateError{Point: name, Field: FieldLongitude, Value: g.Lon, Err: ErrOutOfRange}
	}
	return nil
}

// DistanceTo returns the great-circle distance to other in meters.
func (g GeoPoint) DistanceTo(other GeoPoint) float64 {
	return geospatial.Haversine(g.Lat, g.Lon, other.Lat, other.Lon)
}

func (g GeoPoint) String() string {
	return fmt.Sprintf("(%g, %g)", g.Lat, g.Lon)
}

// Distance is the Haversine distance between a and b in meters.
func Distance(a, b GeoPoint) float64 {
	return a.DistanceTo(b)
}

// Perimeter is the length of the closed cycle p1 -> p2 -> p3 -> p1 in meters.
func Perimeter(p1, p2, p3 GeoPoint) float64 {
	return geospatial.Perimeter(p1.Lat, p1.Lon, p2.Lat, p2.Lon, p3.Lat, p3.Lon)
}

// Triangle holds three vertices in traversal order.
type Triangle [3]GeoPoint

// Sides returns the side lengths d12, d23 and d31 in meters.
func (t Triangle) Sides() [3]float64 {
	return [3]float64{
		Distance(t[0], t[1]),
		Distance(t[1], t[2]),
		Distance(t[2], t[0]),
	}
}

// Perimeter returns the sum of the three sides in meters.
func (t Triangle) Perimeter() float64 {
	return Perimeter(t[0], t[1], t[2])
}

// Validate checks every vertex, naming them "Point 1" to "Point 3".
func (t Triangle) Validate() error {
	for i, p := range t {
		if err := p.Validate(VertexName(i)); err != nil {
			return err
		}
	}
	return nil
}

// VertexName returns the display name of the i-th (zero-based) vertex.
func VertexName(i int) string {
	return "Point " + strconv.Itoa(i+1)
}

// ParseGeoPoint parses user-entered latitude and longitude text and validates
// the result. Non-numeric text yields ErrNonNumeric, out-of-range values
// ErrOutOfRange, both wrapped in a *CoordinateError naming the point.
func ParseGeoPoint(name, latText, lonText string) (GeoPoint, error) {
	lat, err := parseDegrees(latText)
	if err != nil {
		return GeoPoint{}, &CoordinateError{Point: name, Field: FieldLatitude, Input: latText, Err: ErrNonNumeric}
	}
	lon, err := parseDegrees(lonText)
	if err != nil {
		return GeoPoint{}, &CoordinateError{Point: name, Field: FieldLongitude, Input: lonText, Err: ErrNonNumeric}
	}

	p := GeoPoint{Lat: lat, Lon: lon}
	if err := p.Validate(name); err != nil {
		return GeoPoint{}, err
	}
	return p, nil
}

func parseDegrees(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number: %q", s)
	}
	return v, nil
}
