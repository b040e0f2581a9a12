package node

import (
	"time"

	"github.com/nerrad567/gray-wire/internal/codec"
	"github.com/nerrad567/gray-wire/internal/infrastructure/config"
	"github.com/nerrad567/gray-wire/internal/infrastructure/logging"
	"github.com/nerrad567/gray-wire/internal/transport"
)

// Timing defaults, used when the corresponding Options field is zero.
const (
	// defaultPollInterval bounds each dispatch poll so shutdown is never
	// blocked on a quiet socket set.
	defaultPollInterval = 250 * time.Millisecond

	// defaultIdleInterval is the sleep between cycles while the node has
	// no subscribe sockets at all.
	defaultIdleInterval = 50 * time.Millisecond

	// defaultStopTimeout bounds the wait for the dispatch worker during
	// shutdown; teardown proceeds when it elapses.
	defaultStopTimeout = 2000 * time.Millisecond
)

// Recorder receives message-flow counters. telemetry.Client satisfies it;
// tests substitute their own.
type Recorder interface {
	MessagePublished(topic string)
	MessageDelivered(topic string)
	MessageDropped(topic string, reason string)
}

// noopRecorder discards all counters. Used when telemetry is disabled.
type noopRecorder struct{}

func (noopRecorder) MessagePublished(string)       {}
func (noopRecorder) MessageDelivered(string)       {}
func (noopRecorder) MessageDropped(string, string) {}

// Options configures a Node. The zero value is valid: a node with no
// endpoints, JSON payload encoding and default timings.
type Options struct {
	// Publish lists the endpoints to bind at Init.
	Publish []transport.PubEndpoint

	// Subscribe lists the endpoints to connect at Init. More can be
	// added later with Node.Subscribe.
	Subscribe []transport.SubEndpoint

	// OnMessage is invoked synchronously from the dispatch worker for
	// every received, decoded message. Nil means received messages are
	// counted and discarded.
	OnMessage func(topic string, payload any)

	// OnTerminated is invoked at the start of Uninit, while the sockets
	// are still open, so the application can send farewell messages.
	OnTerminated func()

	// Codec encodes outgoing and decodes incoming payloads.
	// Defaults to codec.JSON.
	Codec codec.Codec

	// Logger receives dispatch and shutdown diagnostics.
	// Defaults to logging.Default().
	Logger *logging.Logger

	// Telemetry receives message-flow counters. Nil disables counting.
	Telemetry Recorder

	// MQTT carries broker credentials for mqtt:// endpoints.
	MQTT config.MQTTConfig

	// PollInterval bounds each dispatch poll cycle.
	PollInterval time.Duration

	// IdleInterval is the sleep between cycles with no subscribers.
	IdleInterval time.Duration

	// StopTimeout bounds the shutdown wait for the dispatch worker.
	StopTimeout time.Duration
}

// withDefaults fills zero-valued fields. Called once by New.
func (o Options) withDefaults() Options {
	if o.Codec == nil {
		o.Codec = codec.JSON{}
	}
	if o.Logger == nil {
		o.Logger = logging.Default()
	}
	if o.Telemetry == nil {
		o.Telemetry = noopRecorder{}
	}
	if o.PollInterval <= 0 {
		o.PollInterval = defaultPollInterval
	}
	if o.IdleInterval <= 0 {
		o.IdleInterval = defaultIdleInterval
	}
	if o.StopTimeout <= 0 {
		o.StopTimeout = defaultStopTimeout
	}
	return o
}
