package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const (
	unitDimensionless = "1"
	unitMilliseconds  = "ms"

	FetchFailuresMetric = "sitelayout.graph.fetch_failures"
)

// LatencyMeasure returns the latency histogram of pkg.
func LatencyMeasure(pkg string) metric.Float64Histogram {
	h, err := otel.Meter(pkg).Float64Histogram(
		pkg+"/latency",
		metric.WithDescription("Latency of calls"),
		metric.WithUnit(unitMilliseconds),
	)
	if err != nil {
		h, _ = noop.NewMeterProvider().Meter(pkg).Float64Histogram(pkg + "/latency")
	}
	return h
}

type failureCounter struct {
	counter metric.Int64Counter
}

// NewFailureCounter creates the fetch failure counter on the global meter provider.
func NewFailureCounter(pkg string) FailureCounter {
	c, err := otel.Meter(pkg).Int64Counter(
		FetchFailuresMetric,
		metric.WithDescription("Content graph fetches that failed and degraded to empty content"),
		metric.WithUnit(unitDimensionless),
	)
	if err != nil {
		c, _ = noop.NewMeterProvider().Meter(pkg).Int64Counter(FetchFailuresMetric)
	}
	return &failureCounter{counter: c}
}

func (f *failureCounter) Add(ctx context.Context, operation string, code string) {
	f.counter.Add(ctx, 1, metric.WithAttributes(
		AttrOperationKey.String(operation),
		AttrCodeKey.String(code),
	))
}
