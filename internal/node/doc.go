// Package node implements the Gray Wire messaging node: a thin pub/sub
// façade that owns a set of publish and subscribe sockets and a single
// background dispatch worker.
//
// # Lifecycle
//
// A node moves through four states:
//
//	Idle -> Running -> Stopping -> Stopped
//
// New creates an Idle node. Init binds the publish endpoints, connects
// the subscribe endpoints and starts the dispatch worker; calling Init
// on a Running node is a no-op. Uninit stops the worker, waits a bounded
// time for it to drain, then tears the sockets down; a Stopped node
// cannot be restarted.
//
// # Dispatch
//
// One worker goroutine multiplexes every subscribe socket. Each cycle it
// polls the socket set with a bounded timeout, drains at most one
// message per ready socket in registration order, decodes it and invokes
// the receive callback synchronously. The callback is therefore never
// concurrent with itself. Sockets added by Subscribe while Running join
// the poll set on the worker's next cycle.
//
// # Delivery guarantees
//
// Delivery is best-effort, at most once. Messages published with no
// connected peers, messages that overflow a subscriber's queue and
// messages that fail to decode are dropped and counted, never retried.
package node
