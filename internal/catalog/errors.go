package catalog

import "errors"

var (
	// ErrStarNotFound is returned when the archive has no record of the star.
	ErrStarNotFound = errors.New("star not found")

	// ErrMalformedSeries is returned when the archive payload is internally
	// inconsistent (e.g. parallel arrays of different lengths).
	ErrMalformedSeries = errors.New("malformed series")
)
