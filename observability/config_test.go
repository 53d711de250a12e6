package observability

import (
	"testing"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "disabled_config_is_always_valid",
			config:  Config{Enabled: false},
			wantErr: nil,
		},
		{
			name: "enabled_without_service_name",
			config: Config{
				Enabled: true,
			},
			wantErr: ErrMissingServiceName,
		},
		{
			name: "valid_stdout_config",
			config: Config{
				Enabled: true,
				Service: ServiceConfig{Name: "gofetch"},
				Trace:   TraceConfig{Endpoint: EndpointStdout},
			},
			wantErr: nil,
		},
		{
			name: "sample_rate_above_one",
			config: Config{
				Enabled: true,
				Service: ServiceConfig{Name: "gofetch"},
				Trace:   TraceConfig{Sample: SampleConfig{Rate: Float64Ptr(1.5)}},
			},
			wantErr: ErrInvalidSampleRate,
		},
		{
			name: "negative_sample_rate",
			config: Config{
				Enabled: true,
				Service: ServiceConfig{Name: "gofetch"},
				Trace:   TraceConfig{Sample: SampleConfig{Rate: Float64Ptr(-0.1)}},
			},
			wantErr: ErrInvalidSampleRate,
		},
		{
			name: "invalid_trace_protocol",
			config: Config{
				Enabled: true,
				Service: ServiceConfig{Name: "gofetch"},
				Trace: TraceConfig{
					Endpoint: "http://collector:4318",
					Protocol: "carrier-pigeon",
				},
			},
			wantErr: ErrInvalidProtocol,
		},
		{
			name: "grpc_endpoint_with_scheme",
			config: Config{
				Enabled: true,
				Service: ServiceConfig{Name: "gofetch"},
				Trace: TraceConfig{
					Endpoint: "http://collector:4317",
					Protocol: ProtocolGRPC,
				},
			},
			wantErr: ErrEndpointProtocolMismatch,
		},
		{
			name: "http_endpoint_without_scheme",
			config: Config{
				Enabled: true,
				Service: ServiceConfig{Name: "gofetch"},
				Trace: TraceConfig{
					Endpoint: "collector:4318",
					Protocol: ProtocolHTTP,
				},
			},
			wantErr: ErrEndpointProtocolMismatch,
		},
		{
			name: "invalid_trace_compression",
			config: Config{
				Enabled: true,
				Service: ServiceConfig{Name: "gofetch"},
				Trace:   TraceConfig{Compression: "zstd"},
			},
			wantErr: ErrInvalidCompression,
		},
		{
			name: "invalid_metrics_compression",
			config: Config{
				Enabled: true,
				Service: ServiceConfig{Name: "gofetch"},
				Metrics: MetricsConfig{
					Enabled:     BoolPtr(true),
					Compression: "zstd",
				},
			},
			wantErr: ErrInvalidCompression,
		},
		{
			name: "metrics_inherit_invalid_trace_protocol",
			config: Config{
				Enabled: true,
				Service: ServiceConfig{Name: "gofetch"},
				Trace:   TraceConfig{Protocol: "smoke-signal"},
				Metrics: MetricsConfig{
					Enabled:  BoolPtr(true),
					Endpoint: "collector:4317",
				},
			},
			wantErr: ErrInvalidProtocol,
		},
		{
			name: "disabled_metrics_skip_validation",
			config: Config{
				Enabled: true,
				Service: ServiceConfig{Name: "gofetch"},
				Metrics: MetricsConfig{
					Enabled:     BoolPtr(false),
					Compression: "zstd",
				},
			},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateNilConfig(t *testing.T) {
	var cfg *Config
	assert.ErrorIs(t, cfg.Validate(), ErrNilConfig)
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{
		Enabled: true,
		Service: ServiceConfig{Name: "gofetch"},
	}
	cfg.ApplyDefaults()

	assert.Equal(t, "unknown", cfg.Service.Version)
	assert.Equal(t, EnvironmentDevelopment, cfg.Environment)

	require.NotNil(t, cfg.Trace.Enabled)
	assert.True(t, *cfg.Trace.Enabled)
	assert.Equal(t, EndpointStdout, cfg.Trace.Endpoint)
	assert.Equal(t, ProtocolHTTP, cfg.Trace.Protocol)
	assert.True(t, cfg.Trace.Insecure, "stdout endpoint implies insecure")
	assert.Equal(t, CompressionGzip, cfg.Trace.Compression)
	require.NotNil(t, cfg.Trace.Sample.Rate)
	assert.Equal(t, 1.0, *cfg.Trace.Sample.Rate)

	// Interactive endpoints get fast export settings
	assert.Equal(t, 500*time.Millisecond, cfg.Trace.Batch.Timeout)
	assert.Equal(t, 10*time.Second, cfg.Trace.Export.Timeout)

	require.NotNil(t, cfg.Metrics.Enabled)
	assert.True(t, *cfg.Metrics.Enabled)
	assert.Equal(t, EndpointStdout, cfg.Metrics.Endpoint)
	assert.Equal(t, CompressionGzip, cfg.Metrics.Compression)
	assert.Equal(t, 10*time.Second, cfg.Metrics.Interval)
	assert.Equal(t, 10*time.Second, cfg.Metrics.Export.Timeout)
}

func TestApplyDefaultsProductionExportTuning(t *testing.T) {
	cfg := Config{
		Enabled:     true,
		Service:     ServiceConfig{Name: "gofetch"},
		Environment: "production",
		Trace:       TraceConfig{Endpoint: "http://collector:4318"},
		Metrics:     MetricsConfig{Endpoint: "http://collector:4318"},
	}
	cfg.ApplyDefaults()

	assert.Equal(t, 5*time.Second, cfg.Trace.Batch.Timeout)
	assert.Equal(t, 60*time.Second, cfg.Trace.Export.Timeout)
	assert.Equal(t, 60*time.Second, cfg.Metrics.Export.Timeout)
	assert.False(t, cfg.Trace.Insecure, "non-stdout endpoints keep TLS by default")
}

func TestApplyDefaultsPreservesExplicitDisables(t *testing.T) {
	cfg := Config{
		Enabled: true,
		Service: ServiceConfig{Name: "gofetch"},
		Trace:   TraceConfig{Enabled: BoolPtr(false)},
		Metrics: MetricsConfig{Enabled: BoolPtr(false)},
	}
	cfg.ApplyDefaults()

	require.NotNil(t, cfg.Trace.Enabled)
	assert.False(t, *cfg.Trace.Enabled)
	require.NotNil(t, cfg.Metrics.Enabled)
	assert.False(t, *cfg.Metrics.Enabled)
}

func TestApplyDefaultsRespectsExplicitZeroSampleRate(t *testing.T) {
	cfg := Config{
		Enabled: true,
		Service: ServiceConfig{Name: "gofetch"},
		Trace:   TraceConfig{Sample: SampleConfig{Rate: Float64Ptr(0.0)}},
	}
	cfg.ApplyDefaults()

	require.NotNil(t, cfg.Trace.Sample.Rate)
	assert.Equal(t, 0.0, *cfg.Trace.Sample.Rate)
}

func TestMetricsInheritance(t *testing.T) {
	cfg := Config{
		Trace: TraceConfig{
			Protocol: ProtocolGRPC,
			Insecure: true,
			Headers:  map[string]string{"api-key": "trace-key"},
		},
	}

	assert.Equal(t, ProtocolGRPC, cfg.metricsProtocol())
	assert.True(t, cfg.metricsInsecure())
	assert.Equal(t, "trace-key", cfg.metricsHeaders()["api-key"])

	cfg.Metrics.Protocol = ProtocolHTTP
	cfg.Metrics.Insecure = BoolPtr(false)
	cfg.Metrics.Headers = map[string]string{"api-key": "metrics-key"}

	assert.Equal(t, ProtocolHTTP, cfg.metricsProtocol())
	assert.False(t, cfg.metricsInsecure())
	assert.Equal(t, "metrics-key", cfg.metricsHeaders()["api-key"])
}

func TestMetricsProtocolDefaultsToHTTP(t *testing.T) {
	cfg := Config{}
	assert.Equal(t, ProtocolHTTP, cfg.metricsProtocol())
}

// TestConfigUnmarshalFromYAML validates that mapstructure can properly
// unmarshal the nested config structs, including pointer fields.
func TestConfigUnmarshalFromYAML(t *testing.T) {
	yamlContent := `
enabled: true
service:
  name: "gofetch"
  version: "1.0.0"
environment: "development"
trace:
  enabled: true
  endpoint: "stdout"
  protocol: "http"
  insecure: true
  compression: "none"
  sample:
    rate: 0.5
  batch:
    timeout: 10s
  export:
    timeout: 20s
metrics:
  enabled: true
  endpoint: "stdout"
  interval: 15s
  export:
    timeout: 25s
`

	k := koanf.New(".")
	err := k.Load(rawbytes.Provider([]byte(yamlContent)), yaml.Parser())
	require.NoError(t, err)

	var cfg Config
	err = k.Unmarshal("", &cfg)
	require.NoError(t, err, "failed to unmarshal observability config from YAML")

	assert.True(t, cfg.Enabled)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "gofetch", cfg.Service.Name)
	assert.Equal(t, "1.0.0", cfg.Service.Version)

	require.NotNil(t, cfg.Trace.Enabled)
	assert.True(t, *cfg.Trace.Enabled)
	assert.Equal(t, EndpointStdout, cfg.Trace.Endpoint)
	assert.Equal(t, ProtocolHTTP, cfg.Trace.Protocol)
	assert.True(t, cfg.Trace.Insecure)
	assert.Equal(t, CompressionNone, cfg.Trace.Compression)

	require.NotNil(t, cfg.Trace.Sample.Rate)
	assert.Equal(t, 0.5, *cfg.Trace.Sample.Rate)

	assert.Equal(t, 10*time.Second, cfg.Trace.Batch.Timeout)
	assert.Equal(t, 20*time.Second, cfg.Trace.Export.Timeout)

	require.NotNil(t, cfg.Metrics.Enabled)
	assert.True(t, *cfg.Metrics.Enabled)
	assert.Equal(t, EndpointStdout, cfg.Metrics.Endpoint)
	assert.Equal(t, 15*time.Second, cfg.Metrics.Interval)
	assert.Equal(t, 25*time.Second, cfg.Metrics.Export.Timeout)
}
