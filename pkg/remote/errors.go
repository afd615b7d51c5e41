package remote

import "errors"

var (
	// ErrValidation indicates a configuration record failed validation.
	ErrValidation = errors.New("validation error")

	// ErrUnknownKind indicates a configuration named a remote kind this
	// build does not implement.
	ErrUnknownKind = errors.New("unknown remote kind")

	// ErrDuplicatePin indicates a second remote claimed a pin already
	// owned by another remote.
	ErrDuplicatePin = errors.New("pin already in use by another remote")

	// ErrNotFound indicates no remote is registered on the pin.
	ErrNotFound = errors.New("remote not found")

	// ErrClosed indicates an operation on a remote whose hardware has
	// been released for good.
	ErrClosed = errors.New("remote closed")
)
