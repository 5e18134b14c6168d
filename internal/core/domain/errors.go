package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange marks a latitude outside [-90, 90] or a longitude
	// outside [-180, 180].
	ErrOutOfRange = errors.New("coordinate out of range")

	// ErrNonNumeric marks coordinate text that is not a finite number.
	ErrNonNumeric = errors.New("coordinate is not numeric")

	// ErrPointNotFound is returned by point lookups for unknown IDs.
	ErrPointNotFound = errors.New("point not found")
)

// Coordinate fields.
const (
	FieldLatitude  = "latitude"
	FieldLongitude = "longitude"
)

// CoordinateError describes a rejected coordinate of a named point.
type CoordinateError struct {
	Point string  // e.g. "Point 1"
	Field string  // FieldLatitude or FieldLongitude
	Value float64 // parsed value, for ErrOutOfRange
	Input string  // raw text, for ErrNonNumeric
	Err   error
}

func (e *CoordinateError) Error() string {
	if errors.Is(e.Err, ErrNonNumeric) {
		return fmt.Sprintf("invalid input for %s: please enter numeric values", e.Point)
	}
	if e.Field == FieldLatitude {
		return fmt.Sprintf("latitude for %s must be between %g and %g", e.Point, MinLatitude, MaxLatitude)
	}
	return fmt.Sprintf("longitude for %s must be between %g and %g", e.Point, MinLongitude, MaxLongitude)
}

func (e *CoordinateError) Unwrap() error {
	return e.Err
}

// Reason returns a short label for metrics: "out_of_range" or "non_numeric".
func (e *CoordinateError) Reason() string {
	if errors.Is(e.Err, ErrNonNumeric) {
		return "non_numeric"
	}
	return "out_of_range"
}
