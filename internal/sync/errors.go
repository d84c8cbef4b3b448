package sync

import "errors"

// Common sync errors
var (
	// ErrInvalidResolution indicates a resolution value outside {server, client, merge}
	ErrInvalidResolution = errors.New("invalid resolution")
)
