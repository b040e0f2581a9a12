package transport

import (
	"fmt"
	"net"
	"strings"
)

// Address schemes recognised across the façade. The transport package
// implements tcp; mqtt is provided by internal/bridges/mqtt.
const (
	SchemeTCP  = "tcp"
	SchemeMQTT = "mqtt"
)

// ParseAddress splits a transport-qualified address string into its
// scheme and host:port parts.
//
// Accepted forms: "tcp://host:port", "tcp://*:port", "mqtt://host:port".
// The wildcard host "*" is only meaningful for bind addresses.
//
// Returns:
//   - scheme: The transport scheme, lowercased
//   - hostport: The host:port remainder, unmodified
//   - error: ErrInvalidAddress if the string is not scheme://host:port shaped
func ParseAddress(address string) (scheme string, hostport string, err error) {
	scheme, hostport, ok := strings.Cut(address, "://")
	if !ok || scheme == "" || hostport == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}

	host, port, splitErr := net.SplitHostPort(hostport)
	if splitErr != nil || port == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	_ = host // empty host is valid for listeners

	return strings.ToLower(scheme), hostport, nil
}

// listenHostPort converts a parsed host:port into the form expected by
// net.Listen, translating the "*" wildcard host into all-interfaces.
func listenHostPort(hostport string) string {
	host, port, err := net.SplitHostPort(hostport)
	if err != nil {
		return hostport
	}
	if host == "*" {
		return net.JoinHostPort("", port)
	}
	return hostport
}
