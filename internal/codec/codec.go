package codec

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Domain-specific errors for payload serialisation.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrEncode is returned when a value cannot be serialised.
	ErrEncode = errors.New("codec: payload failed to encode")

	// ErrDecode is returned when received bytes cannot be deserialised.
	ErrDecode = errors.New("codec: payload failed to decode")
)

// Codec converts application payload values to and from wire bytes.
//
// Implementations must be safe for concurrent use: Encode is called from
// any goroutine invoking Send, Decode from the dispatch goroutine.
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte) (any, error)
}

// JSON is the default Codec. Decoded values use encoding/json's generic
// mapping (map[string]any, []any, float64, string, bool, nil).
type JSON struct{}

// Encode implements Codec.
func (JSON) Encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return data, nil
}

// Decode implements Codec.
func (JSON) Decode(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return v, nil
}
