package node

import (
	"time"

	"github.com/nerrad567/gray-wire/internal/wire"
)

// dispatchLoop is the node's single background worker. Each cycle polls
// the subscriber set and drains at most one message per ready socket, so
// a chatty socket cannot starve the others.
func (n *Node) dispatchLoop() {
	defer close(n.done)

	for n.running.Load() {
		if len(n.snapshot()) == 0 {
			time.Sleep(n.opts.IdleInterval)
			continue
		}

		for _, sub := range n.poller.poll(n.opts.PollInterval) {
			if !n.running.Load() {
				return
			}
			msg, ok := sub.TryRecv()
			if !ok {
				continue
			}
			n.deliver(msg)
		}
	}
}

// deliver decodes one message and hands it to the receive callback.
// Decode failures drop the message; the callback runs synchronously so
// it is never concurrent with itself.
func (n *Node) deliver(msg wire.Message) {
	payload, err := n.codec.Decode(msg.Payload)
	if err != nil {
		n.log.Warn("dropping undecodable message", "topic", msg.Topic, "error", err)
		n.telemetry.MessageDropped(msg.Topic, "decode_error")
		return
	}

	if n.opts.OnMessage != nil {
		n.opts.OnMessage(msg.Topic, payload)
	}
	n.telemetry.MessageDelivered(msg.Topic)
}
