package config

import "errors"

// Sentinel kinds for configuration errors, matchable with errors.Is.
var (
	// ErrInvalidConfig indicates a value the service cannot run with.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrLoadConfig indicates the file or environment layer failed to load.
	ErrLoadConfig = errors.New("load config failed")
)
