package node

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	mqttbridge "github.com/nerrad567/gray-wire/internal/bridges/mqtt"
	"github.com/nerrad567/gray-wire/internal/codec"
	"github.com/nerrad567/gray-wire/internal/infrastructure/logging"
	"github.com/nerrad567/gray-wire/internal/transport"
)

// State is the node lifecycle state.
type State int32

// Lifecycle states. Transitions only move forward; a Stopped node cannot
// be restarted.
const (
	StateIdle State = iota
	StateRunning
	StateStopping
	StateStopped
)

// String returns the lowercase state name for logging.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// subscriberSet is the immutable snapshot stored in Node.subs. Appends
// replace the whole snapshot so the dispatch worker reads without locks.
type subscriberSet struct {
	subs []transport.Subscriber
}

// Node owns a set of publish and subscribe sockets and the single
// dispatch worker that multiplexes them. See the package documentation
// for the lifecycle and delivery model.
//
// Thread Safety:
//   - All exported methods are safe for concurrent use.
type Node struct {
	opts      Options
	log       *logging.Logger
	codec     codec.Codec
	telemetry Recorder

	// mu guards lifecycle transitions, pubs and pending.
	mu      sync.Mutex
	state   atomic.Int32
	pubs    []transport.Publisher
	pending []transport.SubEndpoint

	// subs holds the append-only *subscriberSet snapshot; indices are
	// stable for the life of the node, which the poller relies on.
	subs    atomic.Value
	running atomic.Bool
	poller  *poller
	done    chan struct{}
}

// New creates an Idle node from opts. Endpoints are validated here;
// sockets are not created until Init.
//
// Parameters:
//   - opts: Node configuration; zero-valued fields take defaults
//
// Returns:
//   - *Node: Idle node ready for Init
//   - error: Validation error for a malformed endpoint
func New(opts Options) (*Node, error) {
	opts = opts.withDefaults()

	for _, ep := range opts.Publish {
		if err := ep.Validate(); err != nil {
			return nil, err
		}
	}
	for _, ep := range opts.Subscribe {
		if err := ep.Validate(); err != nil {
			return nil, err
		}
	}

	n := &Node{
		opts:      opts,
		log:       opts.Logger.With("component", "node"),
		codec:     opts.Codec,
		telemetry: opts.Telemetry,
		pending:   append([]transport.SubEndpoint(nil), opts.Subscribe...),
	}
	n.state.Store(int32(StateIdle))
	return n, nil
}

// State returns the current lifecycle state.
func (n *Node) State() State {
	return State(n.state.Load())
}

// Init binds every publish endpoint, connects every subscribe endpoint
// and starts the dispatch worker.
//
// Init is idempotent while Running. On any endpoint failure all sockets
// created so far are closed and the node stays Idle, so Init can be
// retried.
//
// Returns:
//   - error: ErrInit wrapping the first endpoint failure,
//     ErrStopped if the node has been shut down
func (n *Node) Init() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch n.State() {
	case StateRunning:
		return nil
	case StateStopping, StateStopped:
		return ErrStopped
	}

	var pubs []transport.Publisher
	var subs []transport.Subscriber
	cleanup := func() {
		for _, s := range subs {
			s.Close()
		}
		for _, p := range pubs {
			p.Close()
		}
	}

	for _, ep := range n.opts.Publish {
		pub, err := n.bindPublisher(ep)
		if err != nil {
			cleanup()
			return fmt.Errorf("%w: %w", ErrInit, err)
		}
		pubs = append(pubs, pub)
		n.log.Info("publish endpoint bound", "address", pub.Address())
	}

	for _, ep := range n.pending {
		sub, err := n.connectSubscriber(ep)
		if err != nil {
			cleanup()
			return fmt.Errorf("%w: %w", ErrInit, err)
		}
		subs = append(subs, sub)
		n.log.Info("subscribe endpoint connected", "address", sub.Address(), "topics", sub.Topics())
	}

	n.pubs = pubs
	n.pending = nil
	n.subs.Store(&subscriberSet{subs: subs})
	n.poller = newPoller(n.snapshot)
	n.done = make(chan struct{})
	n.running.Store(true)
	n.state.Store(int32(StateRunning))

	go n.dispatchLoop()

	n.log.Info("node started", "publishers", len(pubs), "subscribers", len(subs))
	return nil
}

// Subscribe adds a subscribe endpoint to the node.
//
// While Idle the endpoint is recorded and connected by Init. While
// Running the socket is connected immediately and joins the poll set on
// the worker's next cycle; messages already flowing are unaffected.
//
// Parameters:
//   - ep: Endpoint to add
//
// Returns:
//   - error: Validation or connection failure, ErrStopped after shutdown
func (n *Node) Subscribe(ep transport.SubEndpoint) error {
	if err := ep.Validate(); err != nil {
		return err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	switch n.State() {
	case StateIdle:
		n.pending = append(n.pending, ep)
		return nil
	case StateRunning:
		sub, err := n.connectSubscriber(ep)
		if err != nil {
			return err
		}
		n.appendSubscriberLocked(sub)
		n.log.Info("subscribe endpoint connected", "address", sub.Address(), "topics", sub.Topics())
		return nil
	default:
		return ErrStopped
	}
}

// Run initialises the node, repeatedly invokes main until it returns
// false, then shuts the node down. Run returns the first error from
// Init or Uninit.
//
// With a nil main Run does nothing and returns nil: the caller drives
// Init and Uninit directly. The node's state is untouched.
func (n *Node) Run(main func() bool) error {
	if main == nil {
		return nil
	}
	if err := n.Init(); err != nil {
		return err
	}
	for n.running.Load() && main() {
	}
	return n.Uninit()
}

// Uninit shuts the node down: the terminated callback fires first while
// the sockets are still open, then the dispatch worker is stopped with a
// bounded wait, then the sockets are closed, subscribers before
// publishers.
//
// Uninit is idempotent. If the worker does not stop within StopTimeout a
// warning is logged and teardown proceeds anyway.
func (n *Node) Uninit() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch n.State() {
	case StateStopped, StateStopping:
		return nil
	case StateIdle:
		n.state.Store(int32(StateStopped))
		return nil
	}

	if n.opts.OnTerminated != nil {
		n.opts.OnTerminated()
	}

	n.state.Store(int32(StateStopping))
	n.running.Store(false)
	n.poller.notify()

	timer := time.NewTimer(n.opts.StopTimeout)
	select {
	case <-n.done:
		timer.Stop()
	case <-timer.C:
		n.log.Warn("dispatch worker did not stop in time, proceeding with teardown",
			"timeout", n.opts.StopTimeout)
	}

	for _, s := range n.snapshot() {
		if err := s.Close(); err != nil {
			n.log.Warn("subscriber close failed", "address", s.Address(), "error", err)
		}
	}
	for _, p := range n.pubs {
		if err := p.Close(); err != nil {
			n.log.Warn("publisher close failed", "address", p.Address(), "error", err)
		}
	}

	n.state.Store(int32(StateStopped))
	n.log.Info("node stopped")
	return nil
}

// peerCounter is implemented by publishers that track connected peers.
type peerCounter interface {
	SubscriberCount() int
}

// SubscriberCount returns the number of peers currently connected across
// all publish sockets. Broker-backed publishers do not expose peer
// counts and contribute zero.
func (n *Node) SubscriberCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()

	total := 0
	for _, p := range n.pubs {
		if pc, ok := p.(peerCounter); ok {
			total += pc.SubscriberCount()
		}
	}
	return total
}

// PublishAddresses returns the resolved bind addresses of the publish
// sockets, in configuration order. Useful when an endpoint was bound
// with port 0 and the caller needs the assigned port.
func (n *Node) PublishAddresses() []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	addrs := make([]string, 0, len(n.pubs))
	for _, p := range n.pubs {
		addrs = append(addrs, p.Address())
	}
	return addrs
}

// snapshot returns the current subscriber slice. The slice is append-only
// and must not be mutated by callers.
func (n *Node) snapshot() []transport.Subscriber {
	v := n.subs.Load()
	if v == nil {
		return nil
	}
	return v.(*subscriberSet).subs
}

// appendSubscriberLocked publishes a new snapshot with sub appended and
// nudges the worker so the socket registers promptly. Caller holds mu.
func (n *Node) appendSubscriberLocked(sub transport.Subscriber) {
	cur := n.snapshot()
	next := make([]transport.Subscriber, len(cur)+1)
	copy(next, cur)
	next[len(cur)] = sub
	n.subs.Store(&subscriberSet{subs: next})
	n.poller.notify()
}

// bindPublisher creates the publish socket matching the endpoint scheme.
func (n *Node) bindPublisher(ep transport.PubEndpoint) (transport.Publisher, error) {
	scheme, _, err := transport.ParseAddress(ep.Address)
	if err != nil {
		return nil, err
	}
	if scheme == transport.SchemeMQTT {
		return mqttbridge.BindPublisher(ep, n.opts.MQTT)
	}
	return transport.BindPublisher(ep)
}

// connectSubscriber creates the subscribe socket matching the endpoint
// scheme and wires its overflow drops into the telemetry counters.
func (n *Node) connectSubscriber(ep transport.SubEndpoint) (transport.Subscriber, error) {
	scheme, _, err := transport.ParseAddress(ep.Address)
	if err != nil {
		return nil, err
	}

	var sub transport.Subscriber
	if scheme == transport.SchemeMQTT {
		sub, err = mqttbridge.ConnectSubscriber(ep, n.opts.MQTT)
	} else {
		sub, err = transport.ConnectSubscriber(ep)
	}
	if err != nil {
		return nil, err
	}

	sub.SetOnDrop(n.recordOverflow)
	return sub, nil
}

// recordOverflow counts one message discarded because a subscriber's
// receive queue was full. Called from socket read loops.
func (n *Node) recordOverflow(topic string) {
	n.log.Warn("receive queue full, dropping message", "topic", topic)
	n.telemetry.MessageDropped(topic, "queue_full")
}
