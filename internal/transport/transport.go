package transport

import "github.com/nerrad567/gray-wire/internal/wire"

// Publisher is one outbound socket: a bound send channel that fans a
// framed message out to every peer currently connected to it.
//
// Send is safe for concurrent use; implementations serialise writers.
type Publisher interface {
	// Address returns the resolved bind address, scheme included.
	Address() string

	// Send writes one framed message to every connected peer.
	// Per-peer write failures drop that peer, never the whole send.
	Send(msg wire.Message) error

	// Close releases the socket's resources exactly once.
	Close() error
}

// Subscriber is one inbound socket: a connected receive channel with a
// topic filter and a bounded message queue.
//
// The receive multiplexer drives subscribers through Pending/TryRecv and
// learns of new arrivals through the waker; the methods are safe to call
// from any goroutine.
type Subscriber interface {
	// Address returns the connect address, scheme included.
	Address() string

	// Topics returns the endpoint's filter list (copy).
	Topics() []string

	// SetWaker registers a non-blocking callback invoked whenever a
	// message is enqueued. Replaces any previous waker.
	SetWaker(wake func())

	// SetOnDrop registers a callback invoked with the topic of every
	// message discarded because the queue was full. Replaces any
	// previous callback.
	SetOnDrop(onDrop func(topic string))

	// Pending reports whether at least one message is queued.
	Pending() bool

	// TryRecv pops one queued message without blocking.
	TryRecv() (wire.Message, bool)

	// Close releases the socket's resources exactly once.
	Close() error
}
