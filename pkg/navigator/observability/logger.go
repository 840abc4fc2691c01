// Package observability provides logging, metrics and tracing for
// navigator sessions.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds session and stack context to a logger.
//
// Example:
//
//	enriched := EnrichLogger(logger, "session-1", "home")
//	enriched.Info("pushed") // includes session_id, navigator_id
func EnrichLogger(logger *slog.Logger, sessionID, navigatorID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("session_id", sessionID),
		slog.String("navigator_id", navigatorID),
	)
}

// LogNavigate logs a navigation request and the method chosen for it.
func LogNavigate(logger *slog.Logger, navigatorID, destination, method string) {
	if logger == nil {
		return
	}
	logger.Debug("navigating",
		slog.String("navigator_id", navigatorID),
		slog.String("destination", destination),
		slog.String("method", method),
	)
}

// LogSend logs a broadcast value and the size of the queue behind it.
func LogSend(logger *slog.Logger, navigatorID, value string, remaining int) {
	if logger == nil {
		return
	}
	logger.Debug("sending",
		slog.String("navigator_id", navigatorID),
		slog.String("value", value),
		slog.Int("remaining", remaining),
	)
}

// LogReceive logs delivery of a value to a receiver and the directive it
// returned.
func LogReceive(logger *slog.Logger, navigatorID, value, directive string) {
	if logger == nil {
		return
	}
	logger.Debug("receiving",
		slog.String("navigator_id", navigatorID),
		slog.String("value", value),
		slog.String("resume", directive),
	)
}

// LogIgnored logs a navigation request that was absorbed as a no-op.
func LogIgnored(logger *slog.Logger, navigatorID, op, reason string) {
	if logger == nil {
		return
	}
	logger.Debug("navigation ignored",
		slog.String("navigator_id", navigatorID),
		slog.String("operation", op),
		slog.String("reason", reason),
	)
}

// LogRunStart logs the start of an action list.
func LogRunStart(logger *slog.Logger, runID string, actions int) {
	if logger == nil {
		return
	}
	logger.Info("action run starting",
		slog.String("run_id", runID),
		slog.Int("actions", actions),
	)
}

// LogRunSuspended logs an action list paused at a gate.
func LogRunSuspended(logger *slog.Logger, runID string, next int) {
	if logger == nil {
		return
	}
	logger.Info("action run suspended",
		slog.String("run_id", runID),
		slog.Int("next_action", next),
	)
}

// LogRunComplete logs completion of an action list.
func LogRunComplete(logger *slog.Logger, runID string, durationMs float64, executed int) {
	if logger == nil {
		return
	}
	logger.Info("action run completed",
		slog.String("run_id", runID),
		slog.Float64("duration_ms", durationMs),
		slog.Int("actions_executed", executed),
	)
}

// LogRunCancelled logs an action list dropped before it finished.
func LogRunCancelled(logger *slog.Logger, runID string, next int, reason string) {
	if logger == nil {
		return
	}
	logger.Warn("action run cancelled",
		slog.String("run_id", runID),
		slog.Int("next_action", next),
		slog.String("reason", reason),
	)
}

// LogAction logs one executed action.
func LogAction(logger *slog.Logger, runID, action, targetID string) {
	if logger == nil {
		return
	}
	logger.Debug("action executed",
		slog.String("run_id", runID),
		slog.String("action", action),
		slog.String("target_id", targetID),
	)
}

// LogCheckpoint logs checkpoint capture or restoration.
func LogCheckpoint(logger *slog.Logger, op, name, navigatorID string, depth int) {
	if logger == nil {
		return
	}
	logger.Debug("checkpoint "+op,
		slog.String("checkpoint", name),
		slog.String("navigator_id", navigatorID),
		slog.Int("depth", depth),
	)
}

// LogSnapshotError logs a failed snapshot operation (non-fatal).
func LogSnapshotError(logger *slog.Logger, navigatorID, op string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("snapshot failed",
		slog.String("navigator_id", navigatorID),
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}

// TimedOperation starts a clock and returns a function reporting the time
// elapsed since the call.
func TimedOperation() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}

// Milliseconds converts d to fractional milliseconds for log attributes.
func Milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
