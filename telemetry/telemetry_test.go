package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/moseybank/sitelayout/telemetry"
)

type TelemetrySuite struct {
	suite.Suite
	reader *sdkmetric.ManualReader
}

func TestTelemetrySuite(t *testing.T) {
	suite.Run(t, new(TelemetrySuite))
}

func (s *TelemetrySuite) SetupTest() {
	s.reader = sdkmetric.NewManualReader()
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(s.reader)))
}

func (s *TelemetrySuite) collect() map[string]metricdata.Metrics {
	var rm metricdata.ResourceMetrics
	s.Require().NoError(s.reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func (s *TelemetrySuite) TestFailureCounter() {
	ctx := context.Background()
	counter := telemetry.NewFailureCounter("sitelayout/test")
	counter.Add(ctx, "getLocales", "UNKNOWN")
	counter.Add(ctx, "getLocales", "UNKNOWN")

	metrics := s.collect()
	m, ok := metrics[telemetry.FetchFailuresMetric]
	s.Require().True(ok)

	sum, ok := m.Data.(metricdata.Sum[int64])
	s.Require().True(ok)
	s.Require().Len(sum.DataPoints, 1)
	s.Equal(int64(2), sum.DataPoints[0].Value)
}

func (s *TelemetrySuite) TestTracerRecordsLatency() {
	tr := telemetry.NewTracer("sitelayout/test")

	ctx, span := tr.Start(context.Background(), "getFooterData")
	tr.End(ctx, span, nil)

	ctx, span = tr.Start(context.Background(), "getLocales")
	tr.End(ctx, span, errors.New("boom"))

	metrics := s.collect()
	m, ok := metrics["sitelayout/test/latency"]
	s.Require().True(ok)

	hist, ok := m.Data.(metricdata.Histogram[float64])
	s.Require().True(ok)
	s.Len(hist.DataPoints, 2)
}

func (s *TelemetrySuite) TestErrorCode() {
	s.Equal("ok", telemetry.ErrorCode(nil))
	s.Equal("canceled", telemetry.ErrorCode(context.Canceled))
	s.Equal("deadline exceeded", telemetry.ErrorCode(context.DeadlineExceeded))
	s.Equal("err", telemetry.ErrorCode(errors.New("x")))
}
