package transport

import (
	"sync"

	"github.com/nerrad567/gray-wire/internal/wire"
)

// defaultQueueCapacity bounds the per-subscriber receive buffer. A full
// queue drops the newest message (best-effort delivery).
const defaultQueueCapacity = 256

// Queue is the bounded receive buffer shared by all Subscriber
// implementations. A reader goroutine (or broker callback) pushes
// filtered messages in; the dispatch loop pops them out one at a time.
//
// Thread Safety:
//   - All methods are safe for concurrent use.
type Queue struct {
	mu     sync.Mutex
	msgs   []wire.Message
	cap    int
	wake   func()
	onDrop func(topic string)
}

// NewQueue creates a queue holding at most capacity messages.
// Non-positive capacity selects the default.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = defaultQueueCapacity
	}
	return &Queue{cap: capacity}
}

// SetWaker registers a callback invoked (outside the queue lock) whenever
// a message is enqueued. If messages are already pending, the waker fires
// immediately so a late registration never misses buffered data.
func (q *Queue) SetWaker(wake func()) {
	q.mu.Lock()
	q.wake = wake
	pending := len(q.msgs) > 0
	q.mu.Unlock()

	if pending && wake != nil {
		wake()
	}
}

// SetOnDrop registers a callback invoked (outside the queue lock) with
// the topic of every message discarded because the queue was full.
// Replaces any previous callback.
func (q *Queue) SetOnDrop(onDrop func(topic string)) {
	q.mu.Lock()
	q.onDrop = onDrop
	q.mu.Unlock()
}

// Push enqueues one message. It reports false when the queue is full and
// the message was dropped.
func (q *Queue) Push(msg wire.Message) bool {
	q.mu.Lock()
	if len(q.msgs) >= q.cap {
		onDrop := q.onDrop
		q.mu.Unlock()
		if onDrop != nil {
			onDrop(msg.Topic)
		}
		return false
	}
	q.msgs = append(q.msgs, msg)
	wake := q.wake
	q.mu.Unlock()

	if wake != nil {
		wake()
	}
	return true
}

// TryPop dequeues the oldest message without blocking.
func (q *Queue) TryPop() (wire.Message, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.msgs) == 0 {
		return wire.Message{}, false
	}
	msg := q.msgs[0]
	// Shift rather than re-slice so the backing array does not pin
	// delivered payloads.
	copy(q.msgs, q.msgs[1:])
	q.msgs = q.msgs[:len(q.msgs)-1]
	return msg, true
}

// Pending reports whether at least one message is queued.
func (q *Queue) Pending() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.msgs) > 0
}

// Len returns the number of queued messages.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.msgs)
}
