package fetch

import "errors"

// Sentinel kinds for fetch errors.
var (
	ErrFetch  = errors.New("fetch failed")
	ErrStatus = errors.New("unexpected status")
	ErrParse  = errors.New("csv parse failed")
)
