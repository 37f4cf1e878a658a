package service

import "errors"

// Sentinel errors for the service lifecycle.
var (
	// ErrAlreadyStarted indicates Start was called twice.
	ErrAlreadyStarted = errors.New("service already started")

	// ErrNoSources indicates the CSV source URLs are missing.
	ErrNoSources = errors.New("missing source configuration")
)
