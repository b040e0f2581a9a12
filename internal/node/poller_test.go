package node

import (
	"testing"
	"time"

	"github.com/nerrad567/gray-wire/internal/transport"
	"github.com/nerrad567/gray-wire/internal/wire"
)

// fakeSub is an in-memory subscribe socket built on the transport queue,
// so it has the same waker contract as the real sockets.
type fakeSub struct {
	addr string
	q    *transport.Queue
}

func newFakeSub(addr string) *fakeSub {
	return &fakeSub{addr: addr, q: transport.NewQueue(0)}
}

func (f *fakeSub) push(topic string) {
	f.q.Push(wire.Message{Topic: topic, Payload: []byte("{}")})
}

func (f *fakeSub) Address() string                     { return f.addr }
func (f *fakeSub) Topics() []string                    { return nil }
func (f *fakeSub) SetWaker(wake func())                { f.q.SetWaker(wake) }
func (f *fakeSub) SetOnDrop(onDrop func(topic string)) { f.q.SetOnDrop(onDrop) }
func (f *fakeSub) Pending() bool                       { return f.q.Pending() }
func (f *fakeSub) TryRecv() (wire.Message, bool)       { return f.q.TryPop() }
func (f *fakeSub) Close() error                        { return nil }

func fixedSource(subs ...transport.Subscriber) func() []transport.Subscriber {
	return func() []transport.Subscriber { return subs }
}

func TestPoll_ReadyInRegistrationOrder(t *testing.T) {
	a := newFakeSub("a")
	b := newFakeSub("b")
	c := newFakeSub("c")
	p := newPoller(fixedSource(a, b, c))

	c.push("t")
	a.push("t")

	ready := p.poll(time.Second)
	if len(ready) != 2 {
		t.Fatalf("poll() returned %d sockets, want 2", len(ready))
	}
	if ready[0].Address() != "a" || ready[1].Address() != "c" {
		t.Errorf("poll() order = [%s %s], want [a c]", ready[0].Address(), ready[1].Address())
	}
}

func TestPoll_TimesOutWhenQuiet(t *testing.T) {
	p := newPoller(fixedSource(newFakeSub("a")))

	start := time.Now()
	ready := p.poll(50 * time.Millisecond)
	elapsed := time.Since(start)

	if len(ready) != 0 {
		t.Errorf("poll() returned %d sockets, want 0", len(ready))
	}
	if elapsed < 40*time.Millisecond {
		t.Errorf("poll() returned after %v, want >= ~50ms", elapsed)
	}
	if elapsed > time.Second {
		t.Errorf("poll() blocked %v, want bounded by timeout", elapsed)
	}
}

func TestPoll_WakesOnPushWhileBlocked(t *testing.T) {
	a := newFakeSub("a")
	p := newPoller(fixedSource(a))

	// First poll registers the waker and times out.
	p.poll(time.Millisecond)

	go func() {
		time.Sleep(30 * time.Millisecond)
		a.push("t")
	}()

	start := time.Now()
	ready := p.poll(5 * time.Second)
	if len(ready) != 1 {
		t.Fatalf("poll() returned %d sockets, want 1", len(ready))
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("poll() took %v, want early wake well under the timeout", elapsed)
	}
}

func TestPoll_RegistersOnlyNewSockets(t *testing.T) {
	a := newFakeSub("a")
	subs := []transport.Subscriber{a}
	p := newPoller(func() []transport.Subscriber { return subs })

	p.poll(time.Millisecond)
	if p.registered != 1 {
		t.Fatalf("registered = %d, want 1", p.registered)
	}

	b := newFakeSub("b")
	b.push("t")
	subs = append(subs, b)

	ready := p.poll(time.Second)
	if p.registered != 2 {
		t.Errorf("registered = %d, want 2", p.registered)
	}
	if len(ready) != 1 || ready[0].Address() != "b" {
		t.Errorf("poll() = %v, want the new socket ready", ready)
	}
}

func TestPoll_DataQueuedBeforeRegistrationWakes(t *testing.T) {
	a := newFakeSub("a")
	a.push("t")
	p := newPoller(fixedSource(a))

	ready := p.poll(5 * time.Second)
	if len(ready) != 1 {
		t.Fatalf("poll() returned %d sockets, want 1 for pre-queued data", len(ready))
	}
}

func TestNotify_NeverBlocks(t *testing.T) {
	p := newPoller(fixedSource())
	for i := 0; i < 100; i++ {
		p.notify()
	}
}
