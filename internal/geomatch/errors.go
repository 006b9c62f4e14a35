package geomatch

import "errors"

// Errors returned by the engine. Callers match them with errors.Is.
var (
	// ErrInvalidCoordinate is returned when a latitude or longitude is outside its range or not finite.
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	// ErrInvalidParameter is returned when a query argument such as speed or radius is rejected.
	ErrInvalidParameter = errors.New("invalid parameter")
)
