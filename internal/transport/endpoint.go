package transport

import "fmt"

// PubEndpoint is the immutable description of one publish endpoint.
type PubEndpoint struct {
	// Address is the bind address, e.g. "tcp://*:5555".
	Address string
}

// Validate checks the endpoint at construction time.
func (e PubEndpoint) Validate() error {
	if e.Address == "" {
		return fmt.Errorf("%w: empty publish address", ErrInvalidAddress)
	}
	if _, _, err := ParseAddress(e.Address); err != nil {
		return err
	}
	return nil
}

// SubEndpoint is the immutable description of one subscribe endpoint.
type SubEndpoint struct {
	// Address is the connect address, e.g. "tcp://127.0.0.1:5555".
	Address string

	// Topics is the filter list, matched by exact prefix against the
	// topic frame. An empty list (or a single empty string) means
	// "receive all topics".
	Topics []string
}

// Validate checks the endpoint at construction time.
func (e SubEndpoint) Validate() error {
	if e.Address == "" {
		return fmt.Errorf("%w: empty subscribe address", ErrInvalidAddress)
	}
	if _, _, err := ParseAddress(e.Address); err != nil {
		return err
	}
	return nil
}
