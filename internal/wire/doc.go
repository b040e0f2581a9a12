// Package wire defines the on-the-wire message format for Gray Wire.
//
// Every message is two frames, each a 4-byte big-endian length followed
// by that many bytes:
//
//	frame 1: topic (UTF-8 text)
//	frame 2: payload (opaque bytes, encoded by the configured codec)
//
// Subscribers filter on frame 1 with exact-prefix matching; an empty
// filter matches every topic. The payload is never inspected by the
// transport layer.
package wire
