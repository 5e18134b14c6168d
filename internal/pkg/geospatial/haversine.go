package geospatial

import "math"

// EarthRadiusMeters is the WGS84 mean Earth radius.
const EarthRadiusMeters = 6371008.8

// Haversine calculates the great-circle distance in meters between two points
// given in degrees.
//
// The central angle uses the atan2 form. The haversine term is clamped to
// [0, 1] so rounding near antipodal points cannot produce NaN.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := toRad(lat1)
	phi2 := toRad(lat2)
	dLat := phi2 - phi1
	dLon := toRad(lon2) - toRad(lon1)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	a := sinLat*sinLat + math.Cos(phi1)*math.Cos(phi2)*sinLon*sinLon
	a = math.Min(1, math.Max(0, a))

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusMeters * c
}

// Perimeter sums the three great-circle sides of the cycle
// (lat1,lon1) -> (lat2,lon2) -> (lat3,lon3) -> (lat1,lon1), in meters.
func Perimeter(lat1, lon1, lat2, lon2, lat3, lon3 float64) float64 {
	return Haversine(lat1, lon1, lat2, lon2) +
		Haversine(lat2, lon2, lat3, lon3) +
		Haversine(lat3, lon3, lat1, lon1)
}

// MetersToKm converts meters to kilometres.
func MetersToKm(m float64) float64 {
	return m / 1000
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
