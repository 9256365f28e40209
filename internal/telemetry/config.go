package telemetry

import (
	"fmt"
	"net"
	"strings"
	"time"
)

// Config holds telemetry configuration.
type Config struct {
	// Enabled turns telemetry on. When false, New returns a no-op
	// instance and no exporters are created.
	Enabled bool `koanf:"enabled"`

	// Endpoint is the OTLP collector endpoint (host:port).
	Endpoint string `koanf:"endpoint"`

	// Protocol selects the OTLP transport: "grpc" or "http/protobuf".
	Protocol string `koanf:"protocol"`

	// ServiceName identifies this service in traces and metrics.
	ServiceName string `koanf:"service_name"`

	// ServiceVersion is the running version, stamped on the resource.
	ServiceVersion string `koanf:"service_version"`

	// Insecure disables TLS for the exporter connection. Only honored
	// for local endpoints.
	Insecure bool `koanf:"insecure"`

	// TLSSkipVerify disables certificate verification when TLS is on.
	TLSSkipVerify bool `koanf:"tls_skip_verify"`

	// Sampling controls trace sampling.
	Sampling SamplingConfig `koanf:"sampling"`

	// Metrics controls metric export.
	Metrics MetricsConfig `koanf:"metrics"`

	// Shutdown controls graceful shutdown.
	Shutdown ShutdownConfig `koanf:"shutdown"`
}

// SamplingConfig controls trace sampling behavior.
type SamplingConfig struct {
	// Rate is the fraction of traces to sample, in [0.0, 1.0].
	Rate float64 `koanf:"rate"`
}

// MetricsConfig controls metric collection and export.
type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`

	// ExportInterval is the period between metric exports.
	ExportInterval time.Duration `koanf:"export_interval"`
}

// ShutdownConfig controls graceful shutdown behavior.
type ShutdownConfig struct {
	// Timeout bounds how long Shutdown waits for exporters to flush.
	Timeout time.Duration `koanf:"timeout"`
}

// NewDefaultConfig returns a Config with sane defaults. Telemetry is
// disabled by default; CLI runs should not need a collector.
func NewDefaultConfig() *Config {
	return &Config{
		Enabled:        false,
		Endpoint:       "localhost:4317",
		Protocol:       "grpc",
		ServiceName:    "docforge",
		ServiceVersion: "dev",
		Insecure:       true,
		Sampling: SamplingConfig{
			Rate: 1.0,
		},
		Metrics: MetricsConfig{
			Enabled:        true,
			ExportInterval: 15 * time.Second,
		},
		Shutdown: ShutdownConfig{
			Timeout: 5 * time.Second,
		},
	}
}

// Validate checks the configuration for errors. A disabled config is
// always valid.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required when telemetry is enabled")
	}

	if c.Protocol != "grpc" && c.Protocol != "http/protobuf" {
		return fmt.Errorf("protocol must be grpc or http/protobuf, got %q", c.Protocol)
	}

	if c.ServiceName == "" {
		return fmt.Errorf("service_name is required when telemetry is enabled")
	}

	if c.Sampling.Rate < 0.0 || c.Sampling.Rate > 1.0 {
		return fmt.Errorf("sampling rate must be between 0.0 and 1.0, got %f", c.Sampling.Rate)
	}

	if c.Metrics.Enabled && c.Metrics.ExportInterval <= 0 {
		return fmt.Errorf("metrics export interval must be positive, got %v", c.Metrics.ExportInterval)
	}

	if c.Shutdown.Timeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive, got %v", c.Shutdown.Timeout)
	}

	// Plaintext export of trace data is only acceptable on loopback.
	if c.Insecure && !isLocalEndpoint(c.Endpoint) {
		return fmt.Errorf("insecure transport requires a local endpoint, got %q", c.Endpoint)
	}

	return nil
}

// isLocalEndpoint reports whether the endpoint points at this machine.
func isLocalEndpoint(endpoint string) bool {
	host := endpoint
	if h, _, err := net.SplitHostPort(endpoint); err == nil {
		host = h
	}
	host = strings.Trim(host, "[]")

	switch host {
	case "localhost", "127.0.0.1", "::1", "0.0.0.0", "::":
		return true
	}

	if ip := net.ParseIP(host); ip != nil {
		return ip.IsLoopback()
	}
	return false
}
