package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/moseybank/sitelayout/config"
	"github.com/moseybank/sitelayout/telemetry"
)

type ManagerSuite struct {
	suite.Suite
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerSuite))
}

func (s *ManagerSuite) TestDisabledByConfig() {
	cfg := &config.ConfigurationDefault{OpenTelemetryDisable: true}

	m := telemetry.NewManager(context.Background(), cfg)
	s.True(m.Disabled())
	s.Require().NoError(m.Init(context.Background()))
	s.Nil(m.LogHandler())
	s.Require().NoError(m.Shutdown(context.Background()))
}

func (s *ManagerSuite) TestInitExportsSpansAndViews() {
	ctx := context.Background()
	s.T().Setenv("OTEL_LOGS_EXPORTER", "none")

	exporter := tracetest.NewInMemoryExporter()
	reader := sdkmetric.NewManualReader()
	cfg := &config.ConfigurationDefault{OpenTelemetryTraceRatio: 1}

	m := telemetry.NewManager(ctx, cfg,
		telemetry.WithServiceName("sitelayout-test"),
		telemetry.WithServiceVersion("v0.0.1"),
		telemetry.WithServiceEnvironment("test"),
		telemetry.WithTraceExporter(exporter),
		telemetry.WithMetricsReader(reader),
	)
	s.False(m.Disabled())
	s.Require().NoError(m.Init(ctx))
	s.NotNil(m.LogHandler())

	tr := telemetry.NewTracer(telemetry.GraphPackage)
	spanCtx, span := tr.Start(ctx, "getLocales")
	tr.End(spanCtx, span, nil)

	var rm metricdata.ResourceMetrics
	s.Require().NoError(reader.Collect(ctx, &rm))

	names := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, metric := range sm.Metrics {
			names[metric.Name] = true
		}
	}
	s.True(names[telemetry.GraphPackage+"/latency"])
	s.True(names[telemetry.GraphPackage+"/completed_calls"])

	s.Require().NoError(m.Shutdown(ctx))

	spans := exporter.GetSpans()
	s.Require().Len(spans, 1)
	s.Equal("getLocales", spans[0].Name)

	otel.SetMeterProvider(sdkmetric.NewMeterProvider())
}
