package repository

import "errors"

// Sentinel kinds for snapshot cache errors.
var (
	// ErrNotReady marks the cold-start window before the first
	// successful refresh.
	ErrNotReady = errors.New("no snapshot yet")
)
