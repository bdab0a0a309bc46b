// Package geospatial holds spherical-earth helpers shared by the ordering
// engine and the storage adapters. Inputs are decimal degrees.
package geospatial

import "math"

// EarthRadiusMeters is the mean earth radius used by every distance here.
const EarthRadiusMeters = 6371.0 * 1000

// Haversine calculates the great-circle distance in meters between two points.
// It is symmetric and returns exactly 0 for identical inputs.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	if lat1 == lat2 && lon1 == lon2 {
		return 0
	}

	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	// rounding can push a past 1 for antipodal pairs
	a = math.Min(1, math.Max(0, a))

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusMeters * c
}

// BoundingBox returns a bounding box around a point with the given radius in meters.
// Latitudes are clamped to the poles. Near a pole, or when the box would cross
// the antimeridian, it spans every longitude.
func BoundingBox(lat, lon, radiusMeters float64) (minLat, minLon, maxLat, maxLon float64) {
	angular := radiusMeters / EarthRadiusMeters
	latDelta := toDeg(angular)
	minLat = math.Max(-90, lat-latDelta)
	maxLat = math.Min(90, lat+latDelta)

	if minLat == -90 || maxLat == 90 {
		return minLat, -180, maxLat, 180
	}
	s := math.Sin(angular) / math.Cos(toRad(lat))
	if s >= 1 {
		return minLat, -180, maxLat, 180
	}
	lonDelta := toDeg(math.Asin(s))
	if lon-lonDelta < -180 || lon+lonDelta > 180 {
		return minLat, -180, maxLat, 180
	}

	return minLat, lon - lonDelta, maxLat, lon + lonDelta
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
