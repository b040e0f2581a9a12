package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// MaxFrameSize is the maximum size of a single frame (1MB).
// This prevents resource exhaustion from a malformed or hostile peer.
const MaxFrameSize = 1 << 20

// frameHeaderSize is the length prefix size in bytes.
const frameHeaderSize = 4

// ErrFrameTooLarge is returned when a frame exceeds MaxFrameSize,
// either while encoding an outgoing message or while reading an
// incoming length prefix.
var ErrFrameTooLarge = errors.New("wire: frame exceeds maximum size")

// Message is the envelope carried between publishers and subscribers.
type Message struct {
	Topic   string
	Payload []byte
}

// EncodeMessage serialises a message into its two-frame wire form.
//
// The result is written to the connection in a single call so that
// concurrent publishers never interleave frames.
func EncodeMessage(msg Message) ([]byte, error) {
	topic := []byte(msg.Topic)
	if len(topic) > MaxFrameSize {
		return nil, fmt.Errorf("%w: topic is %d bytes", ErrFrameTooLarge, len(topic))
	}
	if len(msg.Payload) > MaxFrameSize {
		return nil, fmt.Errorf("%w: payload is %d bytes", ErrFrameTooLarge, len(msg.Payload))
	}

	buf := make([]byte, 0, 2*frameHeaderSize+len(topic)+len(msg.Payload))
	buf = appendFrame(buf, topic)
	buf = appendFrame(buf, msg.Payload)
	return buf, nil
}

// ReadMessage reads one two-frame message from r.
//
// Errors from the underlying reader are returned as-is (wrapped), so
// callers can distinguish a closed connection (io.EOF) from a protocol
// violation (ErrFrameTooLarge).
func ReadMessage(r io.Reader) (Message, error) {
	topic, err := readFrame(r)
	if err != nil {
		return Message{}, fmt.Errorf("reading topic frame: %w", err)
	}
	payload, err := readFrame(r)
	if err != nil {
		return Message{}, fmt.Errorf("reading payload frame: %w", err)
	}
	return Message{Topic: string(topic), Payload: payload}, nil
}

func appendFrame(buf []byte, data []byte) []byte {
	var hdr [frameHeaderSize]byte
	binary.BigEndian.PutUint32(hdr[:], uint32(len(data)))
	buf = append(buf, hdr[:]...)
	return append(buf, data...)
}

func readFrame(r io.Reader) ([]byte, error) {
	var hdr [frameHeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}
	size := binary.BigEndian.Uint32(hdr[:])
	if size > MaxFrameSize {
		return nil, fmt.Errorf("%w: length prefix claims %d bytes", ErrFrameTooLarge, size)
	}
	data := make([]byte, size)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, err
	}
	return data, nil
}
