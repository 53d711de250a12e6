package fetch

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/gaborage/go-fetch/fetch"

var (
	tracer = otel.Tracer(instrumentationName)
	meter  = otel.Meter(instrumentationName)

	attemptCounter metric.Int64Counter
	retryCounter   metric.Int64Counter
	durationHisto  metric.Float64Histogram
)

func init() {
	var err error
	attemptCounter, err = meter.Int64Counter(
		"fetch.client.attempts",
		metric.WithDescription("Number of HTTP request attempts issued"),
	)
	if err != nil {
		otel.Handle(err)
	}
	retryCounter, err = meter.Int64Counter(
		"fetch.client.retries",
		metric.WithDescription("Number of retries performed after failed attempts"),
	)
	if err != nil {
		otel.Handle(err)
	}
	durationHisto, err = meter.Float64Histogram(
		"fetch.client.duration",
		metric.WithDescription("End-to-end execution duration including backoff"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		otel.Handle(err)
	}
}
