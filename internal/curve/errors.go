package curve

import "errors"

// Domain errors for curve operations.
var (
	// ErrInvalidCurve indicates fewer than two usable points after cleaning.
	ErrInvalidCurve = errors.New("curve: fewer than 2 usable points")

	// ErrDegenerateCurve indicates equal consecutive x-values, which make a
	// derivative undefined.
	ErrDegenerateCurve = errors.New("curve: repeated x-values, derivative undefined")

	// ErrOutOfRange indicates a requested x outside the curve domain.
	ErrOutOfRange = errors.New("curve: requested point outside curve domain")

	// ErrLengthMismatch indicates x and y slices of different lengths.
	ErrLengthMismatch = errors.New("curve: x and y length mismatch")
)
