package transport

import "errors"

// Domain-specific errors for socket operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrInvalidAddress is returned for endpoint addresses that are empty,
	// missing a scheme, or not host:port shaped.
	ErrInvalidAddress = errors.New("transport: invalid endpoint address")

	// ErrUnsupportedScheme is returned when an address names a transport
	// this build does not provide.
	ErrUnsupportedScheme = errors.New("transport: unsupported address scheme")

	// ErrBind is returned when a publish socket cannot be created, e.g.
	// the address is malformed or already in use.
	ErrBind = errors.New("transport: bind failed")

	// ErrConnect is returned when a subscribe socket cannot be created.
	ErrConnect = errors.New("transport: connect failed")

	// ErrClosed is returned when operating on a closed socket.
	ErrClosed = errors.New("transport: socket closed")
)
