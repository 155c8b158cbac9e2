package geofence

import "math"

// EarthRadiusMeters is the mean Earth radius used by DistanceMeters.
const EarthRadiusMeters = 6371000

// Point is a WGS84 coordinate in decimal degrees.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether p is a finite coordinate within the lat/lng ranges.
func (p Point) Valid() bool {
	if math.IsNaN(p.Latitude) || math.IsNaN(p.Longitude) ||
		math.IsInf(p.Latitude, 0) || math.IsInf(p.Longitude, 0) {
		return false
	}
	return p.Latitude >= -90 && p.Latitude <= 90 &&
		p.Longitude >= -180 && p.Longitude <= 180
}

// DistanceMeters returns the great-circle distance between a and b in meters
// using the haversine formula.
func DistanceMeters(a, b Point) float64 {
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1)*math.Cos(lat2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

// IsInside reports whether user lies within radiusMeters of center.
// The boundary is inclusive and the comparison uses the unrounded distance.
func IsInside(user, center Point, radiusMeters float64) bool {
	return DistanceMeters(user, center) <= radiusMeters
}

// Check returns the distance from center and whether it is within radiusMeters.
func Check(user, center Point, radiusMeters float64) (distance float64, inside bool) {
	distance = DistanceMeters(user, center)
	return distance, distance <= radiusMeters
}

func toRadians(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}
