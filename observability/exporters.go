package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.32.0"
	"google.golang.org/grpc/credentials/insecure"
)

// newResource describes this process in exported telemetry. The default
// resource is merged in so SDK detectors keep working.
func newResource(cfg *Config) (*resource.Resource, error) {
	described, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.Service.Name),
			semconv.ServiceVersion(cfg.Service.Version),
			semconv.DeploymentEnvironmentName(cfg.Environment),
		),
	)
	if err != nil {
		return nil, err
	}
	return resource.Merge(resource.Default(), described)
}

// newTracerProvider wires the configured span exporter behind a batch
// processor. Queue and batch sizes stay at SDK defaults: a CLI run emits a
// handful of spans, nowhere near those limits.
func newTracerProvider(cfg *Config, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	exporter, err := newTraceExporter(cfg)
	if err != nil {
		return nil, err
	}

	processor := sdktrace.NewBatchSpanProcessor(
		exporter,
		sdktrace.WithBatchTimeout(cfg.Trace.Batch.Timeout),
		sdktrace.WithExportTimeout(cfg.Trace.Export.Timeout),
	)

	return sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(processor),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(*cfg.Trace.Sample.Rate)),
	), nil
}

// newMeterProvider wires the configured metric exporter behind a periodic
// reader. Short-lived runs rarely reach the interval; the shutdown flush
// delivers their datapoints.
func newMeterProvider(cfg *Config, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	exporter, err := newMetricExporter(cfg)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(
		exporter,
		sdkmetric.WithInterval(cfg.Metrics.Interval),
		sdkmetric.WithTimeout(cfg.Metrics.Export.Timeout),
	)

	return sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	), nil
}

func newTraceExporter(cfg *Config) (sdktrace.SpanExporter, error) {
	if cfg.Trace.Endpoint == EndpointStdout {
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	}

	switch cfg.Trace.Protocol {
	case ProtocolHTTP:
		opts := []otlptracehttp.Option{
			otlptracehttp.WithEndpoint(cfg.Trace.Endpoint),
		}
		if cfg.Trace.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		if len(cfg.Trace.Headers) > 0 {
			opts = append(opts, otlptracehttp.WithHeaders(cfg.Trace.Headers))
		}
		if cfg.Trace.Compression == CompressionGzip {
			opts = append(opts, otlptracehttp.WithCompression(otlptracehttp.GzipCompression))
		}
		return otlptracehttp.New(context.Background(), opts...)
	case ProtocolGRPC:
		opts := []otlptracegrpc.Option{
			otlptracegrpc.WithEndpoint(cfg.Trace.Endpoint),
		}
		if cfg.Trace.Insecure {
			opts = append(opts, otlptracegrpc.WithTLSCredentials(insecure.NewCredentials()))
		}
		if len(cfg.Trace.Headers) > 0 {
			opts = append(opts, otlptracegrpc.WithHeaders(cfg.Trace.Headers))
		}
		if cfg.Trace.Compression == CompressionGzip {
			opts = append(opts, otlptracegrpc.WithCompressor(CompressionGzip))
		}
		return otlptracegrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("trace protocol %q: %w", cfg.Trace.Protocol, ErrInvalidProtocol)
	}
}

func newMetricExporter(cfg *Config) (sdkmetric.Exporter, error) {
	if cfg.Metrics.Endpoint == EndpointStdout {
		return stdoutmetric.New(stdoutmetric.WithPrettyPrint())
	}

	protocol := cfg.metricsProtocol()
	switch protocol {
	case ProtocolHTTP:
		opts := []otlpmetrichttp.Option{
			otlpmetrichttp.WithEndpoint(cfg.Metrics.Endpoint),
		}
		if cfg.metricsInsecure() {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		if headers := cfg.metricsHeaders(); len(headers) > 0 {
			opts = append(opts, otlpmetrichttp.WithHeaders(headers))
		}
		if cfg.Metrics.Compression == CompressionGzip {
			opts = append(opts, otlpmetrichttp.WithCompression(otlpmetrichttp.GzipCompression))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case ProtocolGRPC:
		opts := []otlpmetricgrpc.Option{
			otlpmetricgrpc.WithEndpoint(cfg.Metrics.Endpoint),
		}
		if cfg.metricsInsecure() {
			opts = append(opts, otlpmetricgrpc.WithTLSCredentials(insecure.NewCredentials()))
		}
		if headers := cfg.metricsHeaders(); len(headers) > 0 {
			opts = append(opts, otlpmetricgrpc.WithHeaders(headers))
		}
		if cfg.Metrics.Compression == CompressionGzip {
			opts = append(opts, otlpmetricgrpc.WithCompressor(CompressionGzip))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("metrics protocol %q: %w", protocol, ErrInvalidProtocol)
	}
}
