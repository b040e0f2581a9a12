package transport

import (
	"bufio"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/nerrad567/gray-wire/internal/wire"
)

// dialTimeout bounds the initial TCP connect.
const dialTimeout = 10 * time.Second

// TCPSubscriber owns one dialled TCP connection, filters incoming
// messages by topic prefix, and buffers matches for the dispatch loop.
type TCPSubscriber struct {
	address string
	topics  []string
	conn    net.Conn
	queue   *Queue

	closeOnce sync.Once
	wg        sync.WaitGroup
}

// ConnectSubscriber creates a TCP subscribe socket connected to the
// endpoint's address, with the endpoint's topic filters applied.
//
// Returns:
//   - *TCPSubscriber: Connected socket, already receiving in the background
//   - error: ErrConnect if the address is malformed, unsupported, or unreachable
func ConnectSubscriber(ep SubEndpoint) (*TCPSubscriber, error) {
	scheme, hostport, err := ParseAddress(ep.Address)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}
	if scheme != SchemeTCP {
		return nil, fmt.Errorf("%w: %w: %q", ErrConnect, ErrUnsupportedScheme, scheme)
	}

	conn, err := net.DialTimeout("tcp", hostport, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}

	s := &TCPSubscriber{
		address: ep.Address,
		topics:  append([]string(nil), ep.Topics...),
		conn:    conn,
		queue:   NewQueue(0),
	}

	s.wg.Add(1)
	go s.readLoop()

	return s, nil
}

// readLoop reads framed messages until the connection closes. Messages
// failing the topic filter are discarded here; a full queue drops the
// message (best-effort).
func (s *TCPSubscriber) readLoop() {
	defer s.wg.Done()

	br := bufio.NewReader(s.conn)
	for {
		msg, err := wire.ReadMessage(br)
		if err != nil {
			// Connection closed or stream corrupt; the socket goes
			// quiet rather than killing the dispatch loop.
			return
		}
		if !wire.MatchesAny(msg.Topic, s.topics) {
			continue
		}
		s.queue.Push(msg)
	}
}

// Address returns the connect address.
func (s *TCPSubscriber) Address() string {
	return s.address
}

// Topics returns a copy of the endpoint's filter list.
func (s *TCPSubscriber) Topics() []string {
	return append([]string(nil), s.topics...)
}

// SetWaker implements Subscriber.
func (s *TCPSubscriber) SetWaker(wake func()) {
	s.queue.SetWaker(wake)
}

// SetOnDrop implements Subscriber.
func (s *TCPSubscriber) SetOnDrop(onDrop func(topic string)) {
	s.queue.SetOnDrop(onDrop)
}

// Pending implements Subscriber.
func (s *TCPSubscriber) Pending() bool {
	return s.queue.Pending()
}

// TryRecv implements Subscriber.
func (s *TCPSubscriber) TryRecv() (wire.Message, bool) {
	return s.queue.TryPop()
}

// Close shuts the connection and waits for the reader to exit. Idempotent.
func (s *TCPSubscriber) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.conn.Close()
	})
	s.wg.Wait()
	return err
}
