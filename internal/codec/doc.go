// Package codec defines the payload serialisation contract for Gray Wire.
//
// The messaging core treats payloads as opaque bytes; a Codec converts
// application values to and from that byte form. Any implementation must
// satisfy the round-trip property: Decode(Encode(v)) yields a value
// observably equal to v. The default codec is JSON, matching the payload
// convention used across Gray Logic services.
package codec
