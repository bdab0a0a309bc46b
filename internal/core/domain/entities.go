package domain

import (
	"fmt"
	"strings"
	"time"
)

// POI is a labelled point of interest.
// ID is a storage key only; equality ignores it.
type POI struct {
	ID        string     `json:"id,omitempty"`
	Title     string     `json:"title" validate:"required,max=200"`
	Subtitle  string     `json:"subtitle" validate:"max=500"`
	Location  Coordinate `json:"location"`
	Distance  *float64   `json:"distance,omitempty"` // computed field
	CreatedAt time.Time  `json:"created_at,omitempty"`
}

// Equal compares title, subtitle and location (within CoordinateTolerance).
func (p POI) Equal(o POI) bool {
	return p.Title == o.Title &&
		p.Subtitle == o.Subtitle &&
		p.Location.Equal(o.Location)
}

// Strategy names one of the ordering algorithms.
type Strategy string

const (
	// StrategyProximity sorts points by distance to the reference.
	StrategyProximity Strategy = "proximity"
	// StrategyExact finds the shortest open path by brute force.
	StrategyExact Strategy = "exact"
	// StrategyNearest follows the greedy nearest-neighbour heuristic.
	StrategyNearest Strategy = "nearest"
)

// Strategies lists every supported strategy.
var Strategies = []Strategy{StrategyProximity, StrategyExact, StrategyNearest}

// ParseStrategy maps a user supplied name to a Strategy. Empty means proximity.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyProximity:
		return StrategyProximity, nil
	case StrategyExact:
		return StrategyExact, nil
	case StrategyNearest, "nearest_neighbor", "nearest-neighbour":
		return StrategyNearest, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// Route is an ordered visiting sequence starting at Reference.
type Route struct {
	Strategy   Strategy   `json:"strategy"`
	Reference  Coordinate `json:"reference"`
	Points     []POI      `json:"points"`
	Length     float64    `json:"length_meters"` // reference -> p1 -> ... -> pn, no return leg
	FellBack   bool       `json:"fell_back,omitempty"`
	ComputedAt time.Time  `json:"computed_at"`
}

// LocationUpdate is a new reference position reported by a device.
type LocationUpdate struct {
	DeviceID string     `json:"device_id"`
	Location Coordinate `json:"location"`
	Strategy Strategy   `json:"strategy,omitempty"`
	Time     time.Time  `json:"time"`
}
