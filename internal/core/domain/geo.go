package domain

import (
	"fmt"
	"math"
)

// CoordinateTolerance is the per-axis slack, in degrees, used when comparing
// coordinates for equality (about 0.1 mm on the ground).
const CoordinateTolerance = 1e-9

// Coordinate is a WGS 84 position in signed decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lon float64 `json:"lon" validate:"longitude"`
}

// Validate rejects coordinates outside lat [-90,90] / lon [-180,180], NaN and Inf.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: latitude %v outside [-90, 90]", ErrInvalidCoordinate, c.Lat)
	}
	if math.IsNaN(c.Lon) || math.IsInf(c.Lon, 0) || c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("%w: longitude %v outside [-180, 180]", ErrInvalidCoordinate, c.Lon)
	}
	return nil
}

// Equal reports whether both axes match within CoordinateTolerance.
func (c Coordinate) Equal(o Coordinate) bool {
	return math.Abs(c.Lat-o.Lat) <= CoordinateTolerance &&
		math.Abs(c.Lon-o.Lon) <= CoordinateTolerance
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lon)
}

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Contains reports whether c lies inside the box, edges included.
func (b Bounds) Contains(c Coordinate) bool {
	return c.Lat >= b.MinLat && c.Lat <= b.MaxLat &&
		c.Lon >= b.MinLon && c.Lon <= b.MaxLon
}
