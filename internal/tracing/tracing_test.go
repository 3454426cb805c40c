package tracing_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/davemt/stressforge/internal/config"
	"github.com/davemt/stressforge/internal/tracing"
)

func setupTestTracer(t *testing.T) (*tracetest.InMemoryExporter, trace.Tracer) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
	})
	return exporter, tp.Tracer("test")
}

func TestInitDisabledByDefault(t *testing.T) {
	p, err := tracing.Init(context.Background(), config.TracingConfig{})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })

	if p.ShouldPropagate() {
		t.Error("ShouldPropagate() = true, want false when tracing disabled")
	}

	// Tracer should return a usable no-op.
	_, span := p.Tracer().Start(context.Background(), "test")
	span.End()
}

func TestInitWithEndpoint(t *testing.T) {
	p, err := tracing.Init(context.Background(), config.TracingConfig{
		Endpoint:    "localhost:4317",
		Protocol:    "grpc",
		ServiceName: "test-service",
		SampleRate:  1.0,
		Insecure:    true,
		Propagate:   true,
	})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })

	if !p.ShouldPropagate() {
		t.Error("ShouldPropagate() = false, want true")
	}
}

func TestInitRejectsBadProtocol(t *testing.T) {
	_, err := tracing.Init(context.Background(), config.TracingConfig{
		Endpoint: "localhost:4317",
		Protocol: "carrier-pigeon",
	})
	if err == nil {
		t.Fatalf("expected error for unsupported protocol")
	}
}

func TestInitRejectsBadSampleRate(t *testing.T) {
	_, err := tracing.Init(context.Background(), config.TracingConfig{
		Endpoint:   "localhost:4317",
		Protocol:   "grpc",
		Insecure:   true,
		SampleRate: 1.5,
	})
	if err == nil {
		t.Fatalf("expected error for sample rate above 1.0")
	}
}

func TestStartRequestSpanAttributes(t *testing.T) {
	exporter, tracer := setupTestTracer(t)

	ctx, span := tracing.StartRequestSpan(context.Background(), tracer, "https://example.com")
	tracing.EndSpan(span, nil)
	_ = ctx

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != "GET https://example.com" {
		t.Fatalf("span name = %q", spans[0].Name)
	}
	if spans[0].SpanKind != trace.SpanKindClient {
		t.Fatalf("span kind = %v, want client", spans[0].SpanKind)
	}
}

func TestEndSpanRecordsError(t *testing.T) {
	exporter, tracer := setupTestTracer(t)

	_, span := tracing.StartRequestSpan(context.Background(), tracer, "https://example.com")
	tracing.EndSpan(span, errors.New("503"))

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Status.Code != codes.Error {
		t.Fatalf("status = %v, want error", spans[0].Status.Code)
	}
}

func TestInjectHTTPHeaders(t *testing.T) {
	_, tracer := setupTestTracer(t)

	ctx, span := tracing.StartRequestSpan(context.Background(), tracer, "https://example.com")
	defer span.End()

	headers := http.Header{}
	tracing.InjectHTTPHeaders(ctx, headers)

	if headers.Get("traceparent") == "" {
		t.Fatalf("traceparent header not injected: %v", headers)
	}
}
