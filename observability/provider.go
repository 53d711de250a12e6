package observability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Provider hands out the tracer and meter providers behind the telemetry
// of a run and flushes them at shutdown.
type Provider interface {
	TracerProvider() trace.TracerProvider
	MeterProvider() metric.MeterProvider

	// Shutdown flushes buffered telemetry and releases exporter resources.
	// Call it once, when the process is done.
	Shutdown(ctx context.Context) error
}

// sdkProvider is the real OpenTelemetry-SDK-backed Provider.
type sdkProvider struct {
	traces  *sdktrace.TracerProvider
	metrics *sdkmetric.MeterProvider
}

// NewProvider builds a Provider from cfg. Defaults are applied to a copy,
// so the caller's config is not mutated and does not need ApplyDefaults
// first. A disabled config yields a no-op provider; an enabled one
// installs the SDK providers and the W3C propagator globally, which is
// what lets the fetch package instrument itself through the otel API
// without knowing about this package.
func NewProvider(cfg *Config) (Provider, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	effective := *cfg
	effective.ApplyDefaults()

	if err := effective.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}
	if !effective.Enabled {
		return newNoopProvider(), nil
	}

	res, err := newResource(&effective)
	if err != nil {
		return nil, fmt.Errorf("failed to build telemetry resource: %w", err)
	}

	p := &sdkProvider{}
	if effective.Trace.Enabled != nil && *effective.Trace.Enabled {
		p.traces, err = newTracerProvider(&effective, res)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
	}
	if effective.Metrics.Enabled != nil && *effective.Metrics.Enabled {
		p.metrics, err = newMeterProvider(&effective, res)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}

	if p.traces != nil {
		otel.SetTracerProvider(p.traces)
	}
	if p.metrics != nil {
		otel.SetMeterProvider(p.metrics)
	}
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return p, nil
}

func (p *sdkProvider) TracerProvider() trace.TracerProvider {
	if p.traces == nil {
		return tracenoop.NewTracerProvider()
	}
	return p.traces
}

func (p *sdkProvider) MeterProvider() metric.MeterProvider {
	if p.metrics == nil {
		return metricnoop.NewMeterProvider()
	}
	return p.metrics
}

// Shutdown flushes and stops whichever providers were initialized. Both
// are attempted even when the first fails.
func (p *sdkProvider) Shutdown(ctx context.Context) error {
	var errs []error
	if p.traces != nil {
		if err := p.traces.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("trace shutdown: %w", err))
		}
	}
	if p.metrics != nil {
		if err := p.metrics.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

// DefaultShutdownTimeout bounds the final flush so a hung collector cannot
// stall process exit.
const DefaultShutdownTimeout = 10 * time.Second

// Shutdown flushes a provider within the given timeout. A zero or negative
// timeout means DefaultShutdownTimeout. Safe on a nil provider.
func Shutdown(provider Provider, timeout time.Duration) error {
	if provider == nil {
		return nil
	}
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("observability shutdown failed: %w", err)
	}
	return nil
}

// noopProvider satisfies Provider when telemetry is disabled.
type noopProvider struct {
	traces  trace.TracerProvider
	metrics metric.MeterProvider
}

func newNoopProvider() *noopProvider {
	return &noopProvider{
		traces:  tracenoop.NewTracerProvider(),
		metrics: metricnoop.NewMeterProvider(),
	}
}

func (n *noopProvider) TracerProvider() trace.TracerProvider { return n.traces }

func (n *noopProvider) MeterProvider() metric.MeterProvider { return n.metrics }

func (n *noopProvider) Shutdown(_ context.Context) error { return nil }
