package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTracingTest(t *testing.T) (*tracetest.InMemoryExporter, func()) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	originalProvider := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	tracer = otel.Tracer("navigator")

	cleanup := func() {
		otel.SetTracerProvider(originalProvider)
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down tracer provider: %v", err)
		}
	}
	return exporter, cleanup
}

func attr(kvs []attribute.KeyValue, key string) attribute.Value {
	for _, kv := range kvs {
		if string(kv.Key) == key {
			return kv.Value
		}
	}
	return attribute.Value{}
}

func TestSpanManager_RunAndActionSpans(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	sm := NewSpanManager()
	ctx, run := sm.StartRunSpan(context.Background(), "session-1", "run-1", 3)
	_, action := sm.StartActionSpan(ctx, "push", 0)
	sm.EndSpanWithError(action, nil)
	sm.EndSpanWithError(run, nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)

	actionSpan, runSpan := spans[0], spans[1]
	assert.Equal(t, "navigator.action.push", actionSpan.Name)
	assert.Equal(t, "navigator.run", runSpan.Name)
	assert.Equal(t, runSpan.SpanContext.SpanID(), actionSpan.Parent.SpanID())

	assert.Equal(t, "run-1", attr(runSpan.Attributes, "run.id").AsString())
	assert.Equal(t, int64(3), attr(runSpan.Attributes, "run.actions").AsInt64())
	assert.Equal(t, int64(0), attr(actionSpan.Attributes, "action.index").AsInt64())
	assert.Equal(t, codes.Ok, runSpan.Status.Code)
}

func TestEndSpanWithError_RecordsError(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	_, span := NewSpanManager().StartRunSpan(context.Background(), "s", "r", 1)
	EndSpanWithError(span, errors.New("cancelled"))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, "cancelled", spans[0].Status.Description)
	require.NotEmpty(t, spans[0].Events)
}

func TestEndSpanWithError_NilSpan(t *testing.T) {
	assert.NotPanics(t, func() { EndSpanWithError(nil, nil) })
}

func TestAddSpanEvent(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	ctx, span := NewSpanManager().StartRunSpan(context.Background(), "s", "r", 1)
	AddSpanEvent(ctx, "suspended", attribute.Int("next_action", 2))
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	require.Len(t, spans[0].Events, 1)
	assert.Equal(t, "suspended", spans[0].Events[0].Name)
}

func TestAddSpanEvent_NoSpan(t *testing.T) {
	assert.NotPanics(t, func() { AddSpanEvent(context.Background(), "nothing") })
}
