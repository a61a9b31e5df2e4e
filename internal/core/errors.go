package core

import "errors"

// Sentinel errors shared across the dispatch core. Transports map these to
// their own status codes; nothing below the transport layer retries.
var (
	// ErrValidation marks a missing or malformed required parameter. The
	// action was not attempted.
	ErrValidation = errors.New("validation failed")

	// ErrNotReady marks a backend collaborator that has not finished
	// initialization. Surfaced as service-unavailable, never swallowed.
	ErrNotReady = errors.New("service not ready")

	// ErrNotFound marks a lookup miss (unknown session or image id).
	ErrNotFound = errors.New("not found")

	// ErrUnknownAction marks an action name outside the catalog.
	ErrUnknownAction = errors.New("unknown action")
)
