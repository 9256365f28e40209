package telemetry

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// TestTelemetry captures spans and metrics in memory for assertions.
// It never exports anywhere.
type TestTelemetry struct {
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	spanRecorder   *tracetest.SpanRecorder
	metricReader   *sdkmetric.ManualReader
}

// NewTestTelemetry creates a telemetry harness for tests.
func NewTestTelemetry() *TestTelemetry {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sr),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	return &TestTelemetry{
		tracerProvider: tp,
		meterProvider:  mp,
		spanRecorder:   sr,
		metricReader:   reader,
	}
}

// Tracer returns a tracer recording into the harness.
func (tt *TestTelemetry) Tracer(name string) trace.Tracer {
	return tt.tracerProvider.Tracer(name)
}

// Meter returns a meter recording into the harness.
func (tt *TestTelemetry) Meter(name string) metric.Meter {
	return tt.meterProvider.Meter(name)
}

// Spans returns all spans ended so far.
func (tt *TestTelemetry) Spans() []sdktrace.ReadOnlySpan {
	return tt.spanRecorder.Ended()
}

// SpanByName returns the first ended span with the given name, or nil.
func (tt *TestTelemetry) SpanByName(name string) sdktrace.ReadOnlySpan {
	for _, s := range tt.spanRecorder.Ended() {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

// Collect gathers current metrics into rm.
func (tt *TestTelemetry) Collect(ctx context.Context, rm *metricdata.ResourceMetrics) error {
	return tt.metricReader.Collect(ctx, rm)
}

// Shutdown stops the in-memory providers.
func (tt *TestTelemetry) Shutdown(ctx context.Context) error {
	if err := tt.tracerProvider.Shutdown(ctx); err != nil {
		return err
	}
	return tt.meterProvider.Shutdown(ctx)
}

// AssertSpanExists fails the test if no ended span has the given name.
func (tt *TestTelemetry) AssertSpanExists(t *testing.T, name string) sdktrace.ReadOnlySpan {
	t.Helper()
	span := tt.SpanByName(name)
	if span == nil {
		names := make([]string, 0, len(tt.Spans()))
		for _, s := range tt.Spans() {
			names = append(names, s.Name())
		}
		t.Fatalf("span %q not found, have %v", name, names)
	}
	return span
}

// AssertSpanAttribute fails the test unless the named span carries the
// attribute key with the given string value.
func (tt *TestTelemetry) AssertSpanAttribute(t *testing.T, spanName, key, want string) {
	t.Helper()
	span := tt.AssertSpanExists(t, spanName)
	for _, attr := range span.Attributes() {
		if string(attr.Key) == key {
			if got := attr.Value.Emit(); got != want {
				t.Fatalf("span %q attribute %q = %q, want %q", spanName, key, got, want)
			}
			return
		}
	}
	t.Fatalf("span %q has no attribute %q", spanName, key)
}
