package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records navigator metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordNavigation records a push or presentation on a stack.
	RecordNavigation(ctx context.Context, navigatorID, method string)

	// RecordSend records a broadcast and how many receivers observed it.
	RecordSend(ctx context.Context, valueType string, receivers int)

	// RecordAction records one executed action.
	RecordAction(ctx context.Context, action string, duration time.Duration)

	// RecordRun records the end of an action list.
	RecordRun(ctx context.Context, status string, duration time.Duration)
}

type otelMetrics struct {
	navigations   metric.Int64Counter
	sends         metric.Int64Counter
	undelivered   metric.Int64Counter
	actions       metric.Int64Counter
	actionLatency metric.Float64Histogram
	runs          metric.Int64Counter
	runLatency    metric.Float64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("navigator")

	navigations, err := meter.Int64Counter("navigator.navigations",
		metric.WithDescription("Number of pushes and presentations"),
	)
	if err != nil {
		return nil, err
	}

	sends, err := meter.Int64Counter("navigator.sends",
		metric.WithDescription("Number of broadcast values"),
	)
	if err != nil {
		return nil, err
	}

	undelivered, err := meter.Int64Counter("navigator.sends.undelivered",
		metric.WithDescription("Number of broadcast values no receiver matched"),
	)
	if err != nil {
		return nil, err
	}

	actions, err := meter.Int64Counter("navigator.actions",
		metric.WithDescription("Number of executed actions"),
	)
	if err != nil {
		return nil, err
	}

	actionLatency, err := meter.Float64Histogram("navigator.action.latency_ms",
		metric.WithDescription("Action execution latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	runs, err := meter.Int64Counter("navigator.runs",
		metric.WithDescription("Number of finished action lists"),
	)
	if err != nil {
		return nil, err
	}

	runLatency, err := meter.Float64Histogram("navigator.run.latency_ms",
		metric.WithDescription("Action list wall-clock latency in milliseconds, including suspension"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		navigations:   navigations,
		sends:         sends,
		undelivered:   undelivered,
		actions:       actions,
		actionLatency: actionLatency,
		runs:          runs,
		runLatency:    runLatency,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

func (m *otelMetrics) RecordNavigation(ctx context.Context, navigatorID, method string) {
	m.navigations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("navigator_id", navigatorID),
		attribute.String("method", method),
	))
}

func (m *otelMetrics) RecordSend(ctx context.Context, valueType string, receivers int) {
	attrs := metric.WithAttributes(attribute.String("value_type", valueType))
	m.sends.Add(ctx, 1, attrs)
	if receivers == 0 {
		m.undelivered.Add(ctx, 1, attrs)
	}
}

func (m *otelMetrics) RecordAction(ctx context.Context, action string, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String("action", action))
	m.actions.Add(ctx, 1, attrs)
	m.actionLatency.Record(ctx, float64(duration.Milliseconds()), attrs)
}

func (m *otelMetrics) RecordRun(ctx context.Context, status string, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String("status", status))
	m.runs.Add(ctx, 1, attrs)
	m.runLatency.Record(ctx, float64(duration.Milliseconds()), attrs)
}
