// Package observability owns the OpenTelemetry provider lifecycle for
// gofetch. The fetch package instruments itself through the otel API only;
// this package decides whether those spans and metrics go nowhere (noop),
// to stdout for local inspection, or to an OTLP collector.
package observability

import (
	"errors"
	"strings"
	"time"
)

const (
	// EndpointStdout routes telemetry to stdout exporters for local runs.
	EndpointStdout = "stdout"

	// ProtocolHTTP selects OTLP over HTTP/protobuf.
	ProtocolHTTP = "http"

	// ProtocolGRPC selects OTLP over gRPC.
	ProtocolGRPC = "grpc"

	// CompressionGzip enables gzip compression on OTLP export.
	CompressionGzip = "gzip"

	// CompressionNone disables compression on OTLP export.
	CompressionNone = "none"

	// EnvironmentDevelopment is the environment assumed when none is set.
	EnvironmentDevelopment = "development"
)

// Validation errors. NewProvider wraps these, so callers can errors.Is
// against them to distinguish misconfiguration from exporter failures.
var (
	ErrNilConfig          = errors.New("observability: config is nil")
	ErrMissingServiceName = errors.New("observability: service name is required when enabled")
	ErrInvalidSampleRate  = errors.New("observability: trace sample rate must be within [0.0, 1.0]")
	ErrInvalidProtocol    = errors.New("observability: protocol must be http or grpc")
	ErrInvalidCompression = errors.New("observability: compression must be gzip or none")

	// ErrEndpointProtocolMismatch flags endpoints whose format does not fit
	// the protocol: gRPC wants host:port, HTTP wants an http(s):// URL.
	ErrEndpointProtocolMismatch = errors.New("observability: endpoint format does not match protocol")
)

// BoolPtr returns a pointer to v, for the optional bool fields below.
func BoolPtr(v bool) *bool { return &v }

// Float64Ptr returns a pointer to v, for the optional float64 fields below.
func Float64Ptr(v float64) *float64 { return &v }

// Config controls whether and where telemetry is exported. The zero value
// is valid and means disabled.
type Config struct {
	// Enabled turns telemetry on. When false everything becomes a no-op.
	Enabled bool `mapstructure:"enabled"`

	// Service names this process in exported telemetry.
	Service ServiceConfig `mapstructure:"service"`

	// Environment tags telemetry with the deployment environment and picks
	// the export tuning: development favors fast flushes.
	Environment string `mapstructure:"environment"`

	Trace   TraceConfig   `mapstructure:"trace"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// ServiceConfig identifies the service in traces and metrics.
type ServiceConfig struct {
	// Name is required when observability is enabled.
	Name string `mapstructure:"name"`

	Version string `mapstructure:"version"`
}

// TraceConfig configures span export.
type TraceConfig struct {
	// Enabled is a tri-state: nil follows the top-level Enabled flag,
	// an explicit false keeps metrics without traces.
	Enabled *bool `mapstructure:"enabled"`

	// Endpoint is "stdout" or an OTLP target. HTTP endpoints carry their
	// scheme ("http://collector:4318"); gRPC endpoints are bare host:port.
	Endpoint string `mapstructure:"endpoint"`

	// Protocol is "http" or "grpc". Defaults to http.
	Protocol string `mapstructure:"protocol"`

	// Insecure skips TLS on OTLP connections. Implied by stdout.
	Insecure bool `mapstructure:"insecure"`

	// Headers ride along on OTLP export requests, typically auth tokens.
	Headers map[string]string `mapstructure:"headers"`

	// Compression is "gzip" (default) or "none".
	Compression string `mapstructure:"compression"`

	Sample SampleConfig `mapstructure:"sample"`
	Batch  BatchConfig  `mapstructure:"batch"`
	Export ExportConfig `mapstructure:"export"`
}

// SampleConfig controls trace sampling.
type SampleConfig struct {
	// Rate is the sampled fraction in [0.0, 1.0]. nil means 1.0; an
	// explicit 0.0 disables sampling and is respected.
	Rate *float64 `mapstructure:"rate"`
}

// BatchConfig controls how long spans wait before export. A one-shot CLI
// run flushes everything at shutdown anyway, so this mostly matters for
// library use in long-lived processes.
type BatchConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// ExportConfig bounds a single export call.
type ExportConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// MetricsConfig configures metric export. Endpoint, protocol, TLS and
// headers inherit the trace settings when unset, so a single collector
// endpoint only needs configuring once.
type MetricsConfig struct {
	// Enabled is a tri-state like TraceConfig.Enabled.
	Enabled *bool `mapstructure:"enabled"`

	Endpoint string `mapstructure:"endpoint"`

	// Protocol falls back to the trace protocol when empty.
	Protocol string `mapstructure:"protocol"`

	// Insecure falls back to the trace setting when nil.
	Insecure *bool `mapstructure:"insecure"`

	// Headers fall back to the trace headers when empty.
	Headers map[string]string `mapstructure:"headers"`

	Compression string `mapstructure:"compression"`

	// Interval is the periodic export cadence. Short-lived runs usually
	// exit before it elapses and rely on the shutdown flush instead.
	Interval time.Duration `mapstructure:"interval"`

	Export ExportConfig `mapstructure:"export"`
}

// ApplyDefaults fills every unset field. NewProvider calls it on a copy,
// so loaders that want the effective values must call it themselves.
func (c *Config) ApplyDefaults() {
	if c.Service.Version == "" {
		c.Service.Version = "unknown"
	}
	if c.Environment == "" {
		c.Environment = EnvironmentDevelopment
	}

	c.applyTraceDefaults()
	c.applyMetricsDefaults()
}

func (c *Config) applyTraceDefaults() {
	if c.Enabled && c.Trace.Enabled == nil {
		c.Trace.Enabled = BoolPtr(true)
	}
	if c.Trace.Endpoint == "" {
		c.Trace.Endpoint = EndpointStdout
	}
	if c.Trace.Protocol == "" {
		c.Trace.Protocol = ProtocolHTTP
	}
	// The stdout endpoint never negotiates TLS
	if c.Trace.Endpoint == EndpointStdout {
		c.Trace.Insecure = true
	}
	if c.Trace.Compression == "" {
		c.Trace.Compression = CompressionGzip
	}
	// nil means unset; an explicit 0.0 is respected
	if c.Trace.Sample.Rate == nil {
		c.Trace.Sample.Rate = Float64Ptr(1.0)
	}

	if c.Trace.Batch.Timeout == 0 {
		c.Trace.Batch.Timeout = 5 * time.Second
		if c.fastExport(c.Trace.Endpoint) {
			c.Trace.Batch.Timeout = 500 * time.Millisecond
		}
	}
	if c.Trace.Export.Timeout == 0 {
		c.Trace.Export.Timeout = 60 * time.Second
		if c.fastExport(c.Trace.Endpoint) {
			c.Trace.Export.Timeout = 10 * time.Second
		}
	}
}

func (c *Config) applyMetricsDefaults() {
	if c.Enabled && c.Metrics.Enabled == nil {
		c.Metrics.Enabled = BoolPtr(true)
	}
	if c.Metrics.Endpoint == "" {
		c.Metrics.Endpoint = EndpointStdout
	}
	if c.Metrics.Compression == "" {
		c.Metrics.Compression = CompressionGzip
	}
	if c.Metrics.Interval == 0 {
		c.Metrics.Interval = 10 * time.Second
	}
	if c.Metrics.Export.Timeout == 0 {
		c.Metrics.Export.Timeout = 60 * time.Second
		if c.fastExport(c.Metrics.Endpoint) {
			c.Metrics.Export.Timeout = 10 * time.Second
		}
	}
}

// fastExport reports whether export tuning should favor quick feedback
// over batching efficiency. Interactive runs should not sit on spans.
func (c *Config) fastExport(endpoint string) bool {
	return c.Environment == EnvironmentDevelopment || endpoint == EndpointStdout
}

// metricsProtocol resolves the metrics protocol, inheriting from traces.
func (c *Config) metricsProtocol() string {
	if c.Metrics.Protocol != "" {
		return c.Metrics.Protocol
	}
	if c.Trace.Protocol != "" {
		return c.Trace.Protocol
	}
	return ProtocolHTTP
}

// metricsInsecure resolves the metrics TLS setting, inheriting from traces.
func (c *Config) metricsInsecure() bool {
	if c.Metrics.Insecure != nil {
		return *c.Metrics.Insecure
	}
	return c.Trace.Insecure
}

// metricsHeaders resolves the metrics export headers, inheriting from traces.
func (c *Config) metricsHeaders() map[string]string {
	if len(c.Metrics.Headers) > 0 {
		return c.Metrics.Headers
	}
	return c.Trace.Headers
}

// Validate reports the first configuration problem found. A disabled
// config is always valid.
func (c *Config) Validate() error {
	if c == nil {
		return ErrNilConfig
	}
	if !c.Enabled {
		return nil
	}
	if c.Service.Name == "" {
		return ErrMissingServiceName
	}
	if err := c.validateTrace(); err != nil {
		return err
	}
	return c.validateMetrics()
}

func (c *Config) validateTrace() error {
	if c.Trace.Sample.Rate != nil {
		if rate := *c.Trace.Sample.Rate; rate < 0.0 || rate > 1.0 {
			return ErrInvalidSampleRate
		}
	}
	if err := validateCompression(c.Trace.Compression); err != nil {
		return err
	}

	endpoint := c.Trace.Endpoint
	if endpoint == "" || endpoint == EndpointStdout {
		return nil
	}
	protocol := c.Trace.Protocol
	if protocol == "" {
		protocol = ProtocolHTTP
	}
	return validateOTLPTarget(endpoint, protocol)
}

func (c *Config) validateMetrics() error {
	// nil counts as disabled here; defaults have not run yet
	if c.Metrics.Enabled == nil || !*c.Metrics.Enabled {
		return nil
	}
	if err := validateCompression(c.Metrics.Compression); err != nil {
		return err
	}

	endpoint := c.Metrics.Endpoint
	if endpoint == "" || endpoint == EndpointStdout {
		return nil
	}
	return validateOTLPTarget(endpoint, c.metricsProtocol())
}

// validateOTLPTarget checks a non-stdout endpoint against its protocol.
func validateOTLPTarget(endpoint, protocol string) error {
	hasScheme := strings.HasPrefix(endpoint, "http://") ||
		strings.HasPrefix(endpoint, "https://")

	switch protocol {
	case ProtocolGRPC:
		if hasScheme {
			return ErrEndpointProtocolMismatch
		}
	case ProtocolHTTP:
		if !hasScheme {
			return ErrEndpointProtocolMismatch
		}
	default:
		return ErrInvalidProtocol
	}
	return nil
}

func validateCompression(compression string) error {
	switch compression {
	case "", CompressionGzip, CompressionNone:
		return nil
	default:
		return ErrInvalidCompression
	}
}
