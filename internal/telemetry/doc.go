// Package telemetry provides OpenTelemetry instrumentation for docforge.
//
// # Overview
//
// The package wires distributed tracing and metrics through the
// OpenTelemetry Go SDK, exporting OTLP to a collector over gRPC or
// HTTP/protobuf. Pipeline stages are traced, the HTTP API carries
// request metrics, and the logging package bridges into the same
// collector through the log provider.
//
// # Usage
//
// Create a telemetry instance:
//
//	cfg := telemetry.NewDefaultConfig()
//	tel, err := telemetry.New(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tel.Shutdown(ctx)
//
// Use tracer and meter:
//
//	tracer := tel.Tracer("docforge.workflow")
//	ctx, span := tracer.Start(ctx, "workflow.render")
//	defer span.End()
//
//	meter := tel.Meter("docforge.http")
//	counter, _ := meter.Int64Counter("http.requests")
//	counter.Add(ctx, 1)
//
// # Configuration
//
//	telemetry:
//	  enabled: true
//	  endpoint: "localhost:4317"
//	  service_name: "docforge"
//	  sampling:
//	    rate: 1.0
//	  metrics:
//	    enabled: true
//	    export_interval: "15s"
//
// # Error Handling
//
// Telemetry failures never crash the pipeline. When providers cannot be
// initialized the instance degrades to no-op tracers and meters and
// reports Degraded through Health().
//
// # Testing
//
// Use TestTelemetry for in-memory span and metric capture:
//
//	tt := telemetry.NewTestTelemetry()
//	tracer := tt.Tracer("test")
//	_, span := tracer.Start(ctx, "workflow.classify")
//	span.End()
//	tt.AssertSpanExists(t, "workflow.classify")
package telemetry
