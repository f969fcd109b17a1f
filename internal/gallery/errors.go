package gallery

import "errors"

var (
	// ErrNotFound is wrapped by capability errors for a missing file or key.
	ErrNotFound = errors.New("not found")

	// ErrNotString is returned when a fetched resource cannot be turned into
	// a data URI string.
	ErrNotString = errors.New("method did not return a string")

	// ErrLocked is returned by stores that need an unlocked key to read.
	ErrLocked = errors.New("store is locked")
)
