package observability

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// Metrics holds all application metrics
type Metrics struct {
	RequestCount      metric.Int64Counter
	RequestDuration   metric.Float64Histogram
	ScoreComputed     metric.Int64Counter
	FollowUpSent      metric.Int64Counter
	FollowUpFailed    metric.Int64Counter
	CatchUpDispatched metric.Int64Counter
}

// Setup initializes OpenTelemetry trace and metric pipelines
func Setup(ctx context.Context, serviceName, serviceVersion, endpoint string) (func(context.Context) error, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	traceExporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	metricExporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(endpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter,
			sdkmetric.WithInterval(30*time.Second))),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(meterProvider)

	if err := runtime.Start(runtime.WithMinimumReadMemStatsInterval(time.Second)); err != nil {
		return nil, err
	}

	shutdown := func(ctx context.Context) error {
		return errors.Join(
			tracerProvider.Shutdown(ctx),
			meterProvider.Shutdown(ctx),
		)
	}

	return shutdown, nil
}

// InitMetrics initializes application metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("github.com/careloop/symptom-intake")

	requestCount, err := meter.Int64Counter(
		"http.server.request.count",
		metric.WithDescription("Number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	scoreComputed, err := meter.Int64Counter(
		"triage.score.computed.count",
		metric.WithDescription("Number of confidence scores computed"),
	)
	if err != nil {
		return nil, err
	}

	followUpSent, err := meter.Int64Counter(
		"followup.sent.count",
		metric.WithDescription("Number of follow-up notifications delivered"),
	)
	if err != nil {
		return nil, err
	}

	followUpFailed, err := meter.Int64Counter(
		"followup.failed.count",
		metric.WithDescription("Number of follow-up notification failures"),
	)
	if err != nil {
		return nil, err
	}

	catchUpDispatched, err := meter.Int64Counter(
		"followup.catchup.dispatched.count",
		metric.WithDescription("Number of overdue follow-ups dispatched by catch-up"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		RequestCount:      requestCount,
		RequestDuration:   requestDuration,
		ScoreComputed:     scoreComputed,
		FollowUpSent:      followUpSent,
		FollowUpFailed:    followUpFailed,
		CatchUpDispatched: catchUpDispatched,
	}, nil
}

// StartSpan starts a new trace span
func StartSpan(ctx context.Context, spanName string) (context.Context, trace.Span) {
	tracer := otel.Tracer("github.com/careloop/symptom-intake")
	return tracer.Start(ctx, spanName)
}

// RecordError records an error in the current span
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
	}
}

// SetSpanAttributes sets attributes on a span
func SetSpanAttributes(span trace.Span, attrs ...attribute.KeyValue) {
	span.SetAttributes(attrs...)
}

// RecordRequestMetric records a request metric with attributes
func RecordRequestMetric(ctx context.Context, metrics *Metrics, method, path string, statusCode int, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.route", path),
		attribute.Int("http.status_code", statusCode),
	}

	metrics.RequestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	metrics.RequestDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordScoreComputed records one confidence score computation
func RecordScoreComputed(ctx context.Context, metrics *Metrics, severity string) {
	if metrics == nil {
		return
	}
	metrics.ScoreComputed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("triage.severity", severity),
	))
}

// RecordFollowUpSent records a delivered follow-up, with the path that
// dispatched it (timer or catchup)
func RecordFollowUpSent(ctx context.Context, metrics *Metrics, path string) {
	if metrics == nil {
		return
	}
	metrics.FollowUpSent.Add(ctx, 1, metric.WithAttributes(
		attribute.String("followup.path", path),
	))
	if path == "catchup" {
		metrics.CatchUpDispatched.Add(ctx, 1)
	}
}

// RecordFollowUpFailed records a failed follow-up delivery attempt
func RecordFollowUpFailed(ctx context.Context, metrics *Metrics, path string) {
	if metrics == nil {
		return
	}
	metrics.FollowUpFailed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("followup.path", path),
	))
}
