// Package mqtt provides the broker-backed transport for Gray Wire.
//
// Endpoints with the mqtt:// address scheme are served by this package
// instead of the raw TCP transport: the topic frame maps onto the MQTT
// topic and the payload frame onto the MQTT payload, so peers on either
// transport see identical messages.
//
// # Filter semantics
//
// Gray Wire filters are exact-prefix matches, which MQTT topic filters
// cannot express ("a/#" does not match "abc"). Subscribers therefore
// subscribe to the broker's multi-level wildcard and filter client-side
// with the same predicate the TCP transport uses, keeping behaviour
// identical across transports at the cost of broker-side fan-in.
//
// # Delivery model
//
// Publishes default to QoS 0 (fire and forget), preserving best-effort,
// at-most-once semantics. Raising mqtt.qos in config buys broker-level
// retransmission without changing the caller-facing contract.
package mqtt
