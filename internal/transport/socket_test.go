package transport

import (
	"errors"
	"testing"
	"time"

	"github.com/nerrad567/gray-wire/internal/wire"
)

// bindLoopback binds a publisher on an ephemeral loopback port.
func bindLoopback(t *testing.T) *TCPPublisher {
	t.Helper()
	pub, err := BindPublisher(PubEndpoint{Address: "tcp://127.0.0.1:0"})
	if err != nil {
		t.Fatalf("BindPublisher() error = %v", err)
	}
	t.Cleanup(func() { pub.Close() })
	return pub
}

// connectTo connects a subscriber to pub with the given filters and waits
// until the publisher has accepted the connection.
func connectTo(t *testing.T, pub *TCPPublisher, topics []string) *TCPSubscriber {
	t.Helper()

	before := pub.SubscriberCount()
	sub, err := ConnectSubscriber(SubEndpoint{Address: pub.Address(), Topics: topics})
	if err != nil {
		t.Fatalf("ConnectSubscriber() error = %v", err)
	}
	t.Cleanup(func() { sub.Close() })

	waitFor(t, "publisher to accept connection", func() bool {
		return pub.SubscriberCount() > before
	})
	return sub
}

// waitFor polls cond until it holds or the deadline expires.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

// recvOne waits for one message to arrive on sub.
func recvOne(t *testing.T, sub *TCPSubscriber) wire.Message {
	t.Helper()
	var msg wire.Message
	waitFor(t, "message on "+sub.Address(), func() bool {
		m, ok := sub.TryRecv()
		if ok {
			msg = m
		}
		return ok
	})
	return msg
}

func TestBindPublisher_ResolvedAddress(t *testing.T) {
	pub := bindLoopback(t)

	scheme, hostport, err := ParseAddress(pub.Address())
	if err != nil {
		t.Fatalf("Address() %q not parseable: %v", pub.Address(), err)
	}
	if scheme != SchemeTCP {
		t.Errorf("scheme = %q, want tcp", scheme)
	}
	if hostport == "127.0.0.1:0" {
		t.Error("Address() still reports port 0, want resolved ephemeral port")
	}
}

func TestBindPublisher_MalformedAddress(t *testing.T) {
	_, err := BindPublisher(PubEndpoint{Address: "tcp://no-port"})
	if !errors.Is(err, ErrBind) {
		t.Errorf("BindPublisher() error = %v, want ErrBind", err)
	}
	if !errors.Is(err, ErrInvalidAddress) {
		t.Errorf("BindPublisher() error = %v, want wrapped ErrInvalidAddress", err)
	}
}

func TestBindPublisher_AddressInUse(t *testing.T) {
	pub := bindLoopback(t)

	_, err := BindPublisher(PubEndpoint{Address: pub.Address()})
	if !errors.Is(err, ErrBind) {
		t.Errorf("BindPublisher() on occupied address error = %v, want ErrBind", err)
	}
}

func TestBindPublisher_UnsupportedScheme(t *testing.T) {
	_, err := BindPublisher(PubEndpoint{Address: "udp://127.0.0.1:0"})
	if !errors.Is(err, ErrUnsupportedScheme) {
		t.Errorf("BindPublisher() error = %v, want ErrUnsupportedScheme", err)
	}
}

func TestConnectSubscriber_MalformedAddress(t *testing.T) {
	_, err := ConnectSubscriber(SubEndpoint{Address: "totally-wrong"})
	if !errors.Is(err, ErrConnect) {
		t.Errorf("ConnectSubscriber() error = %v, want ErrConnect", err)
	}
}

func TestConnectSubscriber_Unreachable(t *testing.T) {
	// Port 1 on loopback is essentially never listening.
	_, err := ConnectSubscriber(SubEndpoint{Address: "tcp://127.0.0.1:1"})
	if !errors.Is(err, ErrConnect) {
		t.Errorf("ConnectSubscriber() error = %v, want ErrConnect", err)
	}
}

func TestSendReceive_AllTopics(t *testing.T) {
	pub := bindLoopback(t)
	sub := connectTo(t, pub, nil)

	want := wire.Message{Topic: "sensor/temp", Payload: []byte(`21.5`)}
	if err := pub.Send(want); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	got := recvOne(t, sub)
	if got.Topic != want.Topic || string(got.Payload) != string(want.Payload) {
		t.Errorf("received %+v, want %+v", got, want)
	}
}

func TestSendReceive_TopicFiltering(t *testing.T) {
	pub := bindLoopback(t)
	subA := connectTo(t, pub, []string{"A"})

	if err := pub.Send(wire.Message{Topic: "B", Payload: []byte("nope")}); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if err := pub.Send(wire.Message{Topic: "A", Payload: []byte("yes")}); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	got := recvOne(t, subA)
	if got.Topic != "A" {
		t.Errorf("received topic %q, want %q (non-matching topic must be filtered)", got.Topic, "A")
	}

	// Only the matching message may ever arrive.
	time.Sleep(50 * time.Millisecond)
	if msg, ok := subA.TryRecv(); ok {
		t.Errorf("unexpected extra message %+v after filtered send", msg)
	}
}

func TestSend_NoSubscribersSilentlyDrops(t *testing.T) {
	pub := bindLoopback(t)

	// Best-effort: sending into the void is not an error.
	if err := pub.Send(wire.Message{Topic: "A", Payload: []byte("x")}); err != nil {
		t.Errorf("Send() with no subscribers error = %v, want nil", err)
	}
}

func TestSend_AfterClose(t *testing.T) {
	pub := bindLoopback(t)
	pub.Close()

	err := pub.Send(wire.Message{Topic: "A", Payload: []byte("x")})
	if !errors.Is(err, ErrClosed) {
		t.Errorf("Send() after Close error = %v, want ErrClosed", err)
	}
}

func TestPublisher_FanOutToMultipleSubscribers(t *testing.T) {
	pub := bindLoopback(t)
	sub1 := connectTo(t, pub, nil)
	sub2 := connectTo(t, pub, nil)

	if err := pub.Send(wire.Message{Topic: "broadcast", Payload: []byte("hi")}); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	for i, sub := range []*TCPSubscriber{sub1, sub2} {
		got := recvOne(t, sub)
		if got.Topic != "broadcast" {
			t.Errorf("subscriber %d received topic %q, want broadcast", i, got.Topic)
		}
	}
}

func TestSubscriber_CloseIdempotent(t *testing.T) {
	pub := bindLoopback(t)
	sub := connectTo(t, pub, nil)

	if err := sub.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := sub.Close(); err != nil {
		t.Errorf("second Close() error = %v, want nil", err)
	}
}

func TestPublisher_CloseIdempotent(t *testing.T) {
	pub := bindLoopback(t)

	if err := pub.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := pub.Close(); err != nil {
		t.Errorf("second Close() error = %v, want nil", err)
	}
}

func TestSubscriber_Topics(t *testing.T) {
	pub := bindLoopback(t)
	sub := connectTo(t, pub, []string{"a", "b"})

	topics := sub.Topics()
	if len(topics) != 2 || topics[0] != "a" || topics[1] != "b" {
		t.Errorf("Topics() = %v, want [a b]", topics)
	}

	// Returned slice is a copy.
	topics[0] = "mutated"
	if sub.Topics()[0] != "a" {
		t.Error("Topics() exposed internal state")
	}
}
