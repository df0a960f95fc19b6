package telemetry

import (
	"strings"

	"go.opentelemetry.io/otel/attribute"
	sdkmetrics "go.opentelemetry.io/otel/sdk/metric"
)

// GraphPackage is the instrumentation scope of the graph client.
const GraphPackage = "github.com/moseybank/sitelayout/graph"

//nolint:gochecknoglobals // bucket layout shared by every latency view
var defaultMillisecondsBoundaries = []float64{
	0.0, 1.0, 2.0, 5.0, 10.0, 20.0, 50.0, 100.0, 200.0, 300.0, 400.0,
	500.0, 600.0, 800.0, 1000.0, 2000.0, 5000.0, 10000.0,
}

// Views shapes the latency histogram of pkg and derives a call count from it.
func Views(pkg string) []sdkmetrics.View {
	return []sdkmetrics.View{
		func(inst sdkmetrics.Instrument) (sdkmetrics.Stream, bool) {
			if inst.Kind == sdkmetrics.InstrumentKindHistogram && inst.Name == pkg+"/latency" {
				return sdkmetrics.Stream{
					Name:        inst.Name,
					Description: "Distribution of graph query latency, by operation.",
					Aggregation: sdkmetrics.AggregationExplicitBucketHistogram{
						Boundaries: defaultMillisecondsBoundaries,
					},
					AttributeFilter: func(kv attribute.KeyValue) bool {
						return kv.Key == AttrMethodKey || kv.Key == AttrStatusKey
					},
				}, true
			}
			return sdkmetrics.Stream{}, false
		},

		func(inst sdkmetrics.Instrument) (sdkmetrics.Stream, bool) {
			if inst.Kind == sdkmetrics.InstrumentKindHistogram && inst.Name == pkg+"/latency" {
				return sdkmetrics.Stream{
					Name:        strings.Replace(inst.Name, "/latency", "/completed_calls", 1),
					Description: "Count of graph queries by operation and status.",
					Aggregation: sdkmetrics.DefaultAggregationSelector(sdkmetrics.InstrumentKindCounter),
					AttributeFilter: func(kv attribute.KeyValue) bool {
						return kv.Key == AttrMethodKey || kv.Key == AttrStatusKey
					},
				}, true
			}
			return sdkmetrics.Stream{}, false
		},
	}
}
