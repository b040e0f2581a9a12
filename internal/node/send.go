package node

import (
	"fmt"

	"github.com/nerrad567/gray-wire/internal/wire"
)

// Send encodes payload and fans it out on topic through every publish
// socket, in the order the endpoints were configured.
//
// Delivery is best-effort: a publish socket that fails is logged and
// counted, then skipped, and Send still returns nil. Only an encoding
// failure or calling Send on a node that is not Running returns an
// error.
//
// Parameters:
//   - topic: Routing key matched against subscriber prefix filters
//   - payload: Value encoded with the node's codec
//
// Returns:
//   - error: ErrNotInitialized, or a codec error wrapping codec.ErrEncode
func (n *Node) Send(topic string, payload any) error {
	if n.State() != StateRunning {
		return ErrNotInitialized
	}

	data, err := n.codec.Encode(payload)
	if err != nil {
		return fmt.Errorf("node: send on %q: %w", topic, err)
	}

	msg := wire.Message{Topic: topic, Payload: data}
	for _, pub := range n.pubs {
		if err := pub.Send(msg); err != nil {
			n.log.Warn("publish failed, dropping message",
				"address", pub.Address(), "topic", topic, "error", err)
			n.telemetry.MessageDropped(topic, "publish_error")
			continue
		}
		n.telemetry.MessagePublished(topic)
	}
	return nil
}
