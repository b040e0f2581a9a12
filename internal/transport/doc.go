// Package transport provides the socket layer for Gray Wire.
//
// This package manages:
//   - Endpoint descriptions (address + topic filters), validated at construction
//   - TCP publish sockets: one listener per endpoint, fanning out framed
//     messages to every connected subscriber
//   - TCP subscribe sockets: one dialled connection per endpoint, with
//     client-side exact-prefix topic filtering
//   - The Publisher/Subscriber interfaces implemented by all transports
//     (see internal/bridges/mqtt for the broker-backed alternative)
//
// # Delivery model
//
// Delivery is best-effort, at-most-once. A publisher with no connected
// subscribers silently drops messages; a subscriber whose receive queue is
// full drops the newest message; a failed write drops that subscriber's
// connection. There is no acknowledgment, retry, or persistence; this is
// inherent to the model, not a defect.
//
// # Addresses
//
// Addresses are transport-qualified strings: "tcp://host:port" to connect,
// "tcp://*:port" to bind on all interfaces. Socket creation fails with
// ErrBind or ErrConnect (wrapping ErrInvalidAddress where relevant) on
// malformed or unavailable addresses.
package transport
