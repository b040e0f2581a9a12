package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for Gray Wire.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Node      NodeConfig      `yaml:"node"`
	Publish   []PubEndpoint   `yaml:"publish"`
	Subscribe []SubEndpoint   `yaml:"subscribe"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// NodeConfig contains dispatch loop timing settings.
type NodeConfig struct {
	// PollIntervalMs bounds how long one poll cycle may block waiting for
	// data. It also bounds how quickly the loop notices newly added
	// subscriptions and shutdown requests.
	// Default: 250
	PollIntervalMs int `yaml:"poll_interval_ms"`

	// IdleIntervalMs is the sleep between loop iterations while no
	// subscriber sockets exist yet.
	// Default: 50
	IdleIntervalMs int `yaml:"idle_interval_ms"`

	// StopTimeoutMs is the maximum time to wait for the dispatch loop to
	// exit during shutdown. Teardown proceeds regardless once it elapses.
	// Default: 2000
	StopTimeoutMs int `yaml:"stop_timeout_ms"`
}

// PubEndpoint describes one outbound (publish) endpoint.
type PubEndpoint struct {
	// Address is a transport-qualified address string, e.g.
	// "tcp://*:5555" (wildcard bind) or "mqtt://broker:1883".
	Address string `yaml:"address"`
}

// SubEndpoint describes one inbound (subscribe) endpoint.
type SubEndpoint struct {
	Address string `yaml:"address"`

	// Topics is the topic filter list (exact-prefix match).
	// Empty means "receive all topics".
	Topics []string `yaml:"topics"`
}

// MQTTConfig contains client settings for mqtt:// endpoints.
type MQTTConfig struct {
	ClientID string `yaml:"client_id"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// QoS for published and subscribed messages. Gray Wire is a
	// best-effort façade, so the default is 0.
	QoS int `yaml:"qos"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// TelemetryConfig contains InfluxDB message-counter settings.
type TelemetryConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: GRAYWIRE_SECTION_KEY
// For example: GRAYWIRE_MQTT_PASSWORD, GRAYWIRE_TELEMETRY_TOKEN
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Node: NodeConfig{
			PollIntervalMs: 250,
			IdleIntervalMs: 50,
			StopTimeoutMs:  2000,
		},
		MQTT: MQTTConfig{
			ClientID: "graywire",
			QoS:      0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Telemetry: TelemetryConfig{
			BatchSize:     100,
			FlushInterval: 10,
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: GRAYWIRE_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// MQTT credentials
	if v := os.Getenv("GRAYWIRE_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Username = v
	}
	if v := os.Getenv("GRAYWIRE_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Password = v
	}

	// Logging
	if v := os.Getenv("GRAYWIRE_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// Telemetry
	if v := os.Getenv("GRAYWIRE_TELEMETRY_URL"); v != "" {
		cfg.Telemetry.URL = v
	}
	if v := os.Getenv("GRAYWIRE_TELEMETRY_TOKEN"); v != "" {
		cfg.Telemetry.Token = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Timing validation
	if c.Node.PollIntervalMs <= 0 {
		errs = append(errs, "node.poll_interval_ms must be positive")
	}
	if c.Node.IdleIntervalMs <= 0 {
		errs = append(errs, "node.idle_interval_ms must be positive")
	}
	if c.Node.StopTimeoutMs <= 0 {
		errs = append(errs, "node.stop_timeout_ms must be positive")
	}

	// Endpoint validation. Address shape is checked by the transport
	// layer at socket creation; here we only catch obviously broken config.
	for i, ep := range c.Publish {
		if ep.Address == "" {
			errs = append(errs, fmt.Sprintf("publish[%d].address is required", i))
		}
	}
	for i, ep := range c.Subscribe {
		if ep.Address == "" {
			errs = append(errs, fmt.Sprintf("subscribe[%d].address is required", i))
		}
	}

	// MQTT validation
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	// Telemetry validation
	if c.Telemetry.Enabled {
		if c.Telemetry.URL == "" {
			errs = append(errs, "telemetry.url is required when telemetry is enabled")
		}
		if c.Telemetry.Bucket == "" {
			errs = append(errs, "telemetry.bucket is required when telemetry is enabled")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// PollInterval returns the dispatch poll interval as a Duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Node.PollIntervalMs) * time.Millisecond
}

// IdleInterval returns the empty-set idle sleep as a Duration.
func (c *Config) IdleInterval() time.Duration {
	return time.Duration(c.Node.IdleIntervalMs) * time.Millisecond
}

// StopTimeout returns the shutdown wait bound as a Duration.
func (c *Config) StopTimeout() time.Duration {
	return time.Duration(c.Node.StopTimeoutMs) * time.Millisecond
}
