package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
)

// ServiceName names the tracer, the meter and the otelgin middleware.
var ServiceName = "mediafetch-api"

type Options struct {
	ServiceName string
	Endpoint    string // OTLP gRPC collector, host:port
}

// Setup exports spans to opts.Endpoint and installs W3C trace context
// propagation. The returned func flushes pending spans.
func Setup(ctx context.Context, opts Options) (func(context.Context) error, error) {
	if opts.Endpoint == "" {
		return nil, errors.New("telemetry: empty collector endpoint")
	}
	if opts.ServiceName != "" {
		ServiceName = opts.ServiceName
	}

	exp, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(opts.Endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		semconv.ServiceNameKey.String(ServiceName),
	))
	if err != nil {
		res = resource.Default()
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp.Shutdown, nil
}

func Tracer() trace.Tracer {
	return otel.Tracer(ServiceName)
}

func Meter() metric.Meter {
	return otel.Meter(ServiceName)
}

// TraceID returns the hex trace id carried by ctx, or "none".
func TraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return "none"
	}
	return sc.TraceID().String()
}
