package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/pitabwire/util"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

//nolint:gochecknoglobals // OpenTelemetry attribute keys must be global for reuse
var (
	AttrMethodKey    = attribute.Key("sitelayout_method")
	AttrStatusKey    = attribute.Key("sitelayout_status")
	AttrErrorKey     = attribute.Key("sitelayout_error")
	AttrOperationKey = attribute.Key("sitelayout_operation")
	AttrCodeKey      = attribute.Key("sitelayout_code")
)

type contextKey string

const (
	startTimeContextKey  contextKey = "spanStartTimeCtxKey"
	methodNameContextKey contextKey = "methodNameCtxKey"
)

type tracer struct {
	name           string
	tracer         trace.Tracer
	latencyMeasure metric.Float64Histogram
}

// NewTracer creates a tracer recording spans and a latency histogram for a package.
func NewTracer(name string, options ...trace.TracerOption) Tracer {
	return &tracer{
		name:           name,
		tracer:         otel.Tracer(name, options...),
		latencyMeasure: LatencyMeasure(name),
	}
}

//nolint:spancheck // span is ended by the caller through End
func (t *tracer) Start(
	ctx context.Context,
	spanName string,
	options ...trace.SpanStartOption,
) (context.Context, trace.Span) {
	fullName := t.name + "/" + spanName

	options = append(options, trace.WithAttributes(AttrMethodKey.String(spanName)))

	sCtx, span := t.tracer.Start(ctx, spanName, options...)
	sCtx = context.WithValue(sCtx, startTimeContextKey, time.Now())
	return context.WithValue(sCtx, methodNameContextKey, fullName), span
}

// End completes a span, recording err when set, and measures the elapsed time.
func (t *tracer) End(ctx context.Context, span trace.Span, err error, options ...trace.SpanEndOption) {
	if err != nil {
		span.SetAttributes(AttrErrorKey.String(err.Error()))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	span.End(options...)

	startTime, ok := ctx.Value(startTimeContextKey).(time.Time)
	if !ok {
		util.Log(ctx).Warn("span ended without a start time")
		return
	}
	methodName, _ := ctx.Value(methodNameContextKey).(string)

	t.latencyMeasure.Record(ctx,
		float64(time.Since(startTime).Milliseconds()),
		metric.WithAttributes(
			AttrStatusKey.String(ErrorCode(err)),
			AttrMethodKey.String(methodName)),
	)
}

func ErrorCode(err error) string {
	if err == nil {
		return "ok"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "deadline exceeded"
	}
	return "err"
}
