package telemetry

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// MessagePublished records one successful publish fan-out write.
//
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - topic: The topic the message was published on
func (c *Client) MessagePublished(topic string) {
	c.writeCounter("published", topic, "")
}

// MessageDelivered records one message handed to the receive callback.
//
// Parameters:
//   - topic: The topic the message arrived on
func (c *Client) MessageDelivered(topic string) {
	c.writeCounter("delivered", topic, "")
}

// MessageDropped records one message lost on the publish or receive path.
//
// Parameters:
//   - topic: The topic of the dropped message
//   - reason: Short machine-readable cause (e.g. "decode_error", "publish_error")
func (c *Client) MessageDropped(topic string, reason string) {
	c.writeCounter("dropped", topic, reason)
}

// writeCounter emits a single count=1 point to the messages measurement.
func (c *Client) writeCounter(event string, topic string, reason string) {
	if !c.IsConnected() {
		return
	}

	tags := map[string]string{
		"event": event,
		"topic": topic,
	}
	if reason != "" {
		tags["reason"] = reason
	}

	point := write.NewPoint(
		"messages",
		tags,
		map[string]interface{}{
			"count": int64(1),
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}
