package transport

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/nerrad567/gray-wire/internal/wire"
)

// writeTimeout bounds a single fan-out write so one stalled subscriber
// cannot block Send indefinitely. A timed-out peer is dropped.
const writeTimeout = 5 * time.Second

// TCPPublisher owns one bound TCP listener and fans framed messages out
// to every subscriber connection it has accepted.
//
// Thread Safety:
//   - Send may be called from any goroutine; writes are serialised so the
//     two frames of a message are never interleaved between callers.
type TCPPublisher struct {
	address string
	ln      net.Listener

	// mu guards conns and closed, and serialises concurrent senders.
	mu     sync.Mutex
	conns  []net.Conn
	closed bool

	wg sync.WaitGroup
}

// BindPublisher creates and binds a TCP publish socket.
//
// The endpoint address must use the tcp scheme; "tcp://*:port" binds all
// interfaces and "tcp://host:0" picks an ephemeral port (the resolved
// address is available via Address).
//
// Returns:
//   - *TCPPublisher: Bound socket accepting subscriber connections
//   - error: ErrBind if the address is malformed, unsupported, or in use
func BindPublisher(ep PubEndpoint) (*TCPPublisher, error) {
	scheme, hostport, err := ParseAddress(ep.Address)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBind, err)
	}
	if scheme != SchemeTCP {
		return nil, fmt.Errorf("%w: %w: %q", ErrBind, ErrUnsupportedScheme, scheme)
	}

	ln, err := net.Listen("tcp", listenHostPort(hostport))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBind, err)
	}

	p := &TCPPublisher{
		address: SchemeTCP + "://" + ln.Addr().String(),
		ln:      ln,
	}

	p.wg.Add(1)
	go p.acceptLoop()

	return p, nil
}

// acceptLoop admits subscriber connections until the listener closes.
func (p *TCPPublisher) acceptLoop() {
	defer p.wg.Done()

	for {
		conn, err := p.ln.Accept()
		if err != nil {
			// Listener closed during teardown.
			return
		}

		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			_ = conn.Close()
			return
		}
		p.conns = append(p.conns, conn)
		p.mu.Unlock()
	}
}

// Address returns the resolved bind address, e.g. "tcp://127.0.0.1:5555".
func (p *TCPPublisher) Address() string {
	return p.address
}

// Send writes one framed message to every connected subscriber, in
// connection-acceptance order.
//
// A write failure drops that subscriber's connection and continues with
// the rest; with no subscribers connected the message is silently
// dropped. Send only returns an error for an unencodable message or a
// closed socket.
func (p *TCPPublisher) Send(msg wire.Message) error {
	data, err := wire.EncodeMessage(msg)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}

	kept := p.conns[:0]
	for _, conn := range p.conns {
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if _, err := conn.Write(data); err != nil {
			_ = conn.Close()
			continue
		}
		kept = append(kept, conn)
	}
	p.conns = kept

	return nil
}

// SubscriberCount returns the number of currently connected subscribers.
//
// Dead connections are only detected on write, so the count may lag.
func (p *TCPPublisher) SubscriberCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.conns)
}

// Close shuts the listener and all subscriber connections. Idempotent.
func (p *TCPPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	conns := p.conns
	p.conns = nil
	p.mu.Unlock()

	err := p.ln.Close()
	for _, conn := range conns {
		_ = conn.Close()
	}

	p.wg.Wait()
	return err
}
