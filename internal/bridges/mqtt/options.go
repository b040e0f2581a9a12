package mqtt

import (
	"fmt"
	"sync/atomic"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/gray-wire/internal/infrastructure/config"
)

// Connection constants.
const (
	// defaultConnectTimeout is the maximum time to wait for initial connection.
	defaultConnectTimeout = 10 * time.Second

	// defaultTokenTimeout is the maximum time to wait for publish/subscribe acks.
	defaultTokenTimeout = 5 * time.Second

	// defaultDisconnectQuiesce is the time to wait for pending operations on disconnect.
	defaultDisconnectQuiesce = 1000 // milliseconds

	// defaultKeepAlive is the keepalive interval for the connection.
	defaultKeepAlive = 60 * time.Second
)

// clientSeq distinguishes the client IDs of multiple sockets created from
// one configured base ID; brokers disconnect duplicate IDs.
var clientSeq atomic.Uint64

// buildClientOptions creates paho MQTT options from Gray Wire config.
//
// This configures:
//   - Broker URL from the endpoint's host:port
//   - A unique client ID derived from the configured base ID and role
//   - Authentication credentials (if provided)
//   - Auto-reconnect and connection timeouts
//   - Clean session mode
func buildClientOptions(hostport string, role string, cfg config.MQTTConfig) *pahomqtt.ClientOptions {
	opts := pahomqtt.NewClientOptions()

	opts.AddBroker("tcp://" + hostport)

	base := cfg.ClientID
	if base == "" {
		base = "graywire"
	}
	opts.SetClientID(fmt.Sprintf("%s-%s-%d", base, role, clientSeq.Add(1)))

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	// Clean session - start fresh on connect (no persistent session on broker)
	opts.SetCleanSession(true)

	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(defaultConnectTimeout)
	opts.SetKeepAlive(defaultKeepAlive)

	return opts
}

// connect creates a client from opts and waits for the initial connection.
func connect(opts *pahomqtt.ClientOptions) (pahomqtt.Client, error) {
	client := pahomqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	return client, nil
}
