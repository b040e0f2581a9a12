// Gray Wire - lightweight pub/sub messaging node
//
// This is the main entry point for the Gray Wire daemon. It binds the
// configured publish endpoints, connects the configured subscribe
// endpoints, logs every received message and runs until interrupted.
//
// The daemon is the reference wiring of the node package; most
// deployments embed the node in their own binary instead.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nerrad567/gray-wire/internal/infrastructure/config"
	"github.com/nerrad567/gray-wire/internal/infrastructure/logging"
	"github.com/nerrad567/gray-wire/internal/infrastructure/telemetry"
	"github.com/nerrad567/gray-wire/internal/node"
	"github.com/nerrad567/gray-wire/internal/transport"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	sig, err := run(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Re-raise the terminating signal after cleanup so the exit status
	// reports death-by-signal to the supervisor.
	if s, ok := sig.(syscall.Signal); ok {
		signal.Reset(sig)
		_ = syscall.Kill(os.Getpid(), s)
	}
}

// run is the actual application logic, separated from main for
// testability. It returns the signal that triggered shutdown, if any,
// so main can re-raise it after every deferred cleanup has run.
//
// Parameters:
//   - ctx: Context for cancellation (tests cancel it instead of signalling)
//
// Returns:
//   - os.Signal: Signal that triggered shutdown, nil if ctx was cancelled
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) (os.Signal, error) {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Gray Wire",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Connect to the telemetry backend (optional)
	var recorder node.Recorder
	if cfg.Telemetry.Enabled {
		telemetryClient, err := telemetry.Connect(cfg.Telemetry)
		if err != nil {
			return nil, fmt.Errorf("connecting telemetry: %w", err)
		}
		defer func() {
			log.Info("closing telemetry connection")
			if closeErr := telemetryClient.Close(); closeErr != nil {
				log.Error("error closing telemetry", "error", closeErr)
			}
		}()
		telemetryClient.SetOnError(func(err error) {
			log.Error("telemetry write error", "error", err)
		})
		log.Info("telemetry connected",
			"url", cfg.Telemetry.URL,
			"bucket", cfg.Telemetry.Bucket,
		)
		recorder = telemetryClient
	} else {
		log.Info("telemetry disabled")
	}

	// Create the messaging node from the configured endpoints
	n, err := node.New(node.Options{
		Publish:   publishEndpoints(cfg),
		Subscribe: subscribeEndpoints(cfg),
		OnMessage: func(topic string, payload any) {
			log.Info("message received", "topic", topic, "payload", payload)
		},
		OnTerminated: func() {
			log.Info("node terminating")
		},
		Logger:       log,
		Telemetry:    recorder,
		MQTT:         cfg.MQTT,
		PollInterval: cfg.PollInterval(),
		IdleInterval: cfg.IdleInterval(),
		StopTimeout:  cfg.StopTimeout(),
	})
	if err != nil {
		return nil, fmt.Errorf("creating node: %w", err)
	}

	if err := n.Init(); err != nil {
		return nil, fmt.Errorf("starting node: %w", err)
	}
	log.Info("node running",
		"publish", n.PublishAddresses(),
		"subscribe", len(cfg.Subscribe),
	)

	// Wait for a shutdown signal or context cancellation
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var sig os.Signal
	select {
	case sig = <-sigCh:
		log.Info("shutdown signal received, cleaning up", "signal", sig.String())
	case <-ctx.Done():
		log.Info("context cancelled, cleaning up")
	}

	if err := n.Uninit(); err != nil {
		return sig, fmt.Errorf("stopping node: %w", err)
	}

	log.Info("Gray Wire stopped")
	return sig, nil
}

// getConfigPath returns the configuration file path.
// Uses GRAYWIRE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("GRAYWIRE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// publishEndpoints converts the config endpoint list to transport endpoints.
func publishEndpoints(cfg *config.Config) []transport.PubEndpoint {
	eps := make([]transport.PubEndpoint, 0, len(cfg.Publish))
	for _, ep := range cfg.Publish {
		eps = append(eps, transport.PubEndpoint{Address: ep.Address})
	}
	return eps
}

// subscribeEndpoints converts the config endpoint list to transport endpoints.
func subscribeEndpoints(cfg *config.Config) []transport.SubEndpoint {
	eps := make([]transport.SubEndpoint, 0, len(cfg.Subscribe))
	for _, ep := range cfg.Subscribe {
		eps = append(eps, transport.SubEndpoint{Address: ep.Address, Topics: ep.Topics})
	}
	return eps
}
