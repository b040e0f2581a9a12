package telemetry

import (
	"errors"
	"testing"

	"github.com/nerrad567/gray-wire/internal/infrastructure/config"
)

func TestConnect_Disabled(t *testing.T) {
	_, err := Connect(config.TelemetryConfig{Enabled: false})
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("Connect() error = %v, want ErrDisabled", err)
	}
}

func TestConnect_Unreachable(t *testing.T) {
	cfg := config.TelemetryConfig{
		Enabled: true,
		URL:     "http://127.0.0.1:19999",
		Bucket:  "messages",
	}

	_, err := Connect(cfg)
	if !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}

func TestClose_Nil(t *testing.T) {
	client := &Client{}
	if err := client.Close(); err != nil {
		t.Errorf("Close() on zero-value client error = %v, want nil", err)
	}
}

func TestIsConnected_InitialState(t *testing.T) {
	client := &Client{}

	if client.IsConnected() {
		t.Error("IsConnected() should be false for uninitialised client")
	}
}

func TestWriteCounter_Disconnected(t *testing.T) {
	// Counter writes on a disconnected client must be silent no-ops.
	client := &Client{}
	client.MessagePublished("sensor/temp")
	client.MessageDelivered("sensor/temp")
	client.MessageDropped("sensor/temp", "decode_error")
}

func TestFlush_Disconnected(t *testing.T) {
	client := &Client{}
	client.Flush() // must not panic
}
