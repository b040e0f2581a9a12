package node

import "errors"

// Domain-specific errors for node lifecycle operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNotInitialized is returned when an operation requires a Running node.
	ErrNotInitialized = errors.New("node: not initialized")

	// ErrStopped is returned when an operation is attempted on a node that
	// has been shut down; a stopped node cannot be restarted.
	ErrStopped = errors.New("node: stopped")

	// ErrInit is returned when binding or connecting an endpoint fails
	// during initialisation.
	ErrInit = errors.New("node: init failed")
)
