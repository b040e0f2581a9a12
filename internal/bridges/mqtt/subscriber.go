package mqtt

import (
	"fmt"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/gray-wire/internal/infrastructure/config"
	"github.com/nerrad567/gray-wire/internal/transport"
	"github.com/nerrad567/gray-wire/internal/wire"
)

// allTopics is the broker-side subscription; Gray Wire prefix filters are
// applied client-side (see package doc).
const allTopics = "#"

// Subscriber is a broker-backed subscribe socket. It satisfies
// transport.Subscriber for mqtt:// endpoints.
type Subscriber struct {
	address string
	topics  []string
	client  pahomqtt.Client
	queue   *transport.Queue
}

// ConnectSubscriber connects a subscribe-side client to the broker named
// by the endpoint address and applies the endpoint's topic filters.
//
// Connection and subscription failures surface as transport.ErrConnect.
func ConnectSubscriber(ep transport.SubEndpoint, cfg config.MQTTConfig) (*Subscriber, error) {
	scheme, hostport, err := transport.ParseAddress(ep.Address)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", transport.ErrConnect, err)
	}
	if scheme != transport.SchemeMQTT {
		return nil, fmt.Errorf("%w: %w: %q", transport.ErrConnect, transport.ErrUnsupportedScheme, scheme)
	}

	client, err := connect(buildClientOptions(hostport, "sub", cfg))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", transport.ErrConnect, err)
	}

	s := &Subscriber{
		address: ep.Address,
		topics:  append([]string(nil), ep.Topics...),
		client:  client,
		queue:   transport.NewQueue(0),
	}

	token := client.Subscribe(allTopics, byte(cfg.QoS), s.handleMessage)
	if !token.WaitTimeout(defaultTokenTimeout) {
		client.Disconnect(defaultDisconnectQuiesce)
		return nil, fmt.Errorf("%w: %w: timeout after %v", transport.ErrConnect, ErrSubscribeFailed, defaultTokenTimeout)
	}
	if err := token.Error(); err != nil {
		client.Disconnect(defaultDisconnectQuiesce)
		return nil, fmt.Errorf("%w: %w: %w", transport.ErrConnect, ErrSubscribeFailed, err)
	}

	return s, nil
}

// handleMessage filters and buffers one broker delivery. Non-matching
// topics are discarded; a full queue drops the message (best-effort).
func (s *Subscriber) handleMessage(_ pahomqtt.Client, m pahomqtt.Message) {
	if !wire.MatchesAny(m.Topic(), s.topics) {
		return
	}
	payload := append([]byte(nil), m.Payload()...)
	s.queue.Push(wire.Message{Topic: m.Topic(), Payload: payload})
}

// Address returns the endpoint's broker address.
func (s *Subscriber) Address() string {
	return s.address
}

// Topics returns a copy of the endpoint's filter list.
func (s *Subscriber) Topics() []string {
	return append([]string(nil), s.topics...)
}

// SetWaker implements transport.Subscriber.
func (s *Subscriber) SetWaker(wake func()) {
	s.queue.SetWaker(wake)
}

// SetOnDrop implements transport.Subscriber.
func (s *Subscriber) SetOnDrop(onDrop func(topic string)) {
	s.queue.SetOnDrop(onDrop)
}

// Pending implements transport.Subscriber.
func (s *Subscriber) Pending() bool {
	return s.queue.Pending()
}

// TryRecv implements transport.Subscriber.
func (s *Subscriber) TryRecv() (wire.Message, bool) {
	return s.queue.TryPop()
}

// Close disconnects from the broker. Idempotent.
func (s *Subscriber) Close() error {
	if s.client == nil {
		return nil
	}
	s.client.Disconnect(defaultDisconnectQuiesce)
	return nil
}
