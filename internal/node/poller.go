package node

import (
	"time"

	"github.com/nerrad567/gray-wire/internal/transport"
)

// poller multiplexes a growing set of subscribe sockets for the dispatch
// worker. It is used from that single goroutine only; notify is the one
// method safe to call from elsewhere.
//
// The socket set is append-only, so each cycle registers only the
// sockets added since the last one (tracked by registered) and the cost
// of a cycle does not grow with churn.
type poller struct {
	// source returns the current socket snapshot; indices are stable.
	source func() []transport.Subscriber

	// registered is the count of sockets whose waker is already set.
	registered int

	// wake is buffered so a waker firing between polls is not lost.
	wake chan struct{}
}

func newPoller(source func() []transport.Subscriber) *poller {
	return &poller{
		source: source,
		wake:   make(chan struct{}, 1),
	}
}

// notify wakes a blocked poll without ever blocking the caller. Safe to
// call from any goroutine, including socket read loops and shutdown.
func (p *poller) notify() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// poll returns the sockets with at least one queued message, in
// registration order. It never blocks longer than timeout; an empty
// result after the timeout is normal.
//
// Newly appended sockets are registered at the top of the call. SetWaker
// fires immediately when the socket already has queued data, so a
// message that arrived before registration still wakes this poll.
func (p *poller) poll(timeout time.Duration) []transport.Subscriber {
	subs := p.source()
	for i := p.registered; i < len(subs); i++ {
		subs[i].SetWaker(p.notify)
	}
	p.registered = len(subs)

	if ready := pendingOf(subs); len(ready) > 0 {
		return ready
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-p.wake:
	case <-timer.C:
	}

	return pendingOf(subs)
}

// pendingOf filters subs to those with queued messages, preserving order.
func pendingOf(subs []transport.Subscriber) []transport.Subscriber {
	var ready []transport.Subscriber
	for _, s := range subs {
		if s.Pending() {
			ready = append(ready, s)
		}
	}
	return ready
}
