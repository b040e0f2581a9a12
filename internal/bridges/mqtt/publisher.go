package mqtt

import (
	"fmt"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/gray-wire/internal/infrastructure/config"
	"github.com/nerrad567/gray-wire/internal/transport"
	"github.com/nerrad567/gray-wire/internal/wire"
)

// Publisher is a broker-backed publish socket. It satisfies
// transport.Publisher for mqtt:// endpoints.
type Publisher struct {
	address string
	client  pahomqtt.Client
	qos     byte
}

// BindPublisher connects a publish-side client to the broker named by the
// endpoint address.
//
// Unlike a TCP bind there is no local listener; "bind" here means the
// socket is ready to fan out through the broker. Connection failures
// surface as transport.ErrBind so callers handle both transports alike.
func BindPublisher(ep transport.PubEndpoint, cfg config.MQTTConfig) (*Publisher, error) {
	scheme, hostport, err := transport.ParseAddress(ep.Address)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", transport.ErrBind, err)
	}
	if scheme != transport.SchemeMQTT {
		return nil, fmt.Errorf("%w: %w: %q", transport.ErrBind, transport.ErrUnsupportedScheme, scheme)
	}

	client, err := connect(buildClientOptions(hostport, "pub", cfg))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", transport.ErrBind, err)
	}

	return &Publisher{
		address: ep.Address,
		client:  client,
		qos:     byte(cfg.QoS),
	}, nil
}

// Address returns the endpoint's broker address.
func (p *Publisher) Address() string {
	return p.address
}

// Send publishes one message through the broker; the topic frame becomes
// the MQTT topic and the payload frame the MQTT payload.
func (p *Publisher) Send(msg wire.Message) error {
	token := p.client.Publish(msg.Topic, p.qos, false, msg.Payload)
	if !token.WaitTimeout(defaultTokenTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, defaultTokenTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}

// Close disconnects from the broker. Idempotent.
func (p *Publisher) Close() error {
	if p.client == nil {
		return nil
	}
	p.client.Disconnect(defaultDisconnectQuiesce)
	return nil
}
