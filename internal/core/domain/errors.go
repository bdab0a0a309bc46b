package domain

import "errors"

var (
	// ErrInvalidCoordinate marks a latitude or longitude outside its valid range.
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// ErrTooManyPoints is returned when an exact route is requested for more
	// points than the configured ceiling.
	ErrTooManyPoints = errors.New("too many points for exact route")

	// ErrUnknownStrategy is returned for an unrecognised ordering strategy name.
	ErrUnknownStrategy = errors.New("unknown ordering strategy")

	// ErrPointNotFound is returned when a point id has no stored point.
	ErrPointNotFound = errors.New("point not found")

	// ErrFetchFailed wraps any failure of a point provider.
	ErrFetchFailed = errors.New("fetch points failed")
)
