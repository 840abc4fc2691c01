package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoopMetrics(t *testing.T) {
	var m MetricsRecorder = NoopMetrics{}
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.RecordNavigation(ctx, "home", "push")
		m.RecordSend(ctx, "x", 0)
		m.RecordAction(ctx, "reset", time.Second)
		m.RecordRun(ctx, "completed", time.Second)
	})
}

func TestNoopSpanManager(t *testing.T) {
	var sm SpanManager = NoopSpanManager{}
	ctx := context.Background()

	runCtx, run := sm.StartRunSpan(ctx, "s", "r", 1)
	assert.Equal(t, ctx, runCtx)
	assert.False(t, run.IsRecording())

	actionCtx, action := sm.StartActionSpan(ctx, "push", 0)
	assert.Equal(t, ctx, actionCtx)

	assert.NotPanics(t, func() {
		sm.AddSpanEvent(ctx, "event")
		sm.EndSpanWithError(action, errors.New("x"))
		sm.EndSpanWithError(run, nil)
	})
}
