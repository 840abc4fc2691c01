package navigator

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/randalmurphal/navigator/pkg/navigator/config"
	"github.com/randalmurphal/navigator/pkg/navigator/observability"
	"github.com/randalmurphal/navigator/pkg/navigator/schedule"
)

// DefaultAutoResumeDelay is how long an Auto resume waits before sending
// the remainder.
const DefaultAutoResumeDelay = 700 * time.Millisecond

// sessionConfig holds configuration for a Session.
type sessionConfig struct {
	sessionID       string
	logger          *slog.Logger
	scheduler       Scheduler
	gate            Gate
	autoResumeDelay time.Duration
	coverSupported  bool
	observer        func(Change)
	codec           *Codec
	metrics         observability.MetricsRecorder
	spans           observability.SpanManager
}

func defaultSessionConfig() sessionConfig {
	return sessionConfig{
		autoResumeDelay: DefaultAutoResumeDelay,
		coverSupported:  true,
		metrics:         observability.NoopMetrics{},
		spans:           observability.NoopSpanManager{},
	}
}

// Option configures a Session.
type Option func(*sessionConfig)

// WithSessionID sets the session id. Default: a random UUID.
func WithSessionID(id string) Option {
	return func(c *sessionConfig) {
		if id != "" {
			c.sessionID = id
		}
	}
}

// WithLogger sets the logger. Navigator loggers are derived from it with
// session_id and navigator_id attached.
// Default: slog.Default()
func WithLogger(logger *slog.Logger) Option {
	return func(c *sessionConfig) {
		c.logger = logger
	}
}

// WithScheduler sets the execution context.
// Default: a new schedule.MainLoop, available from Session.Scheduler,
// which the caller must Run.
func WithScheduler(s Scheduler) Option {
	return func(c *sessionConfig) {
		c.scheduler = s
	}
}

// WithGate sets the gate AuthenticationRequired waits on. Without one,
// AuthenticationRequired passes through.
func WithGate(g Gate) Option {
	return func(c *sessionConfig) {
		c.gate = g
	}
}

// WithAutoResumeDelay sets the delay used by Auto resumes.
// Default: 700ms
func WithAutoResumeDelay(d time.Duration) Option {
	return func(c *sessionConfig) {
		if d >= 0 {
			c.autoResumeDelay = d
		}
	}
}

// WithCoverSupported sets whether covers are presented as covers. When
// false, MethodCover falls back to a sheet.
// Default: true
func WithCoverSupported(supported bool) Option {
	return func(c *sessionConfig) {
		c.coverSupported = supported
	}
}

// WithObserver registers a callback for every state change. It is how a
// view layer binds to navigation state. The callback runs on the
// scheduler context.
func WithObserver(fn func(Change)) Option {
	return func(c *sessionConfig) {
		c.observer = fn
	}
}

// WithCodec sets the codec used by SaveSnapshots and RestoreSnapshots.
func WithCodec(codec *Codec) Option {
	return func(c *sessionConfig) {
		c.codec = codec
	}
}

// WithMetrics enables OpenTelemetry metrics using the global meter
// provider.
//
// Metrics recorded:
//   - navigator.navigations (counter): pushes and presentations
//   - navigator.sends (counter): broadcasts
//   - navigator.sends.undelivered (counter): broadcasts nobody received
//   - navigator.actions (counter): executed actions
//   - navigator.action.latency_ms (histogram): action latency
//   - navigator.runs (counter): finished action lists
//   - navigator.run.latency_ms (histogram): action list latency
func WithMetrics(enabled bool) Option {
	return func(c *sessionConfig) {
		if enabled {
			c.metrics = observability.NewMetricsRecorder()
		} else {
			c.metrics = observability.NoopMetrics{}
		}
	}
}

// WithTracing enables OpenTelemetry tracing using the global tracer
// provider. Each action list gets a navigator.run span with one
// navigator.action.<kind> child per action.
func WithTracing(enabled bool) Option {
	return func(c *sessionConfig) {
		if enabled {
			c.spans = observability.NewSpanManager()
		} else {
			c.spans = observability.NoopSpanManager{}
		}
	}
}

// OptionsFromConfig maps configuration keys to options:
//
//	session_id        string
//	auto_resume_delay duration
//	cover_supported   bool
//	metrics           bool
//	tracing           bool
//	log_level         debug | info | warn | error
//
// Keys may also live under a "navigator" section. Missing keys leave the
// defaults alone.
func OptionsFromConfig(cfg config.Config) []Option {
	if cfg.Has("navigator") {
		cfg = cfg.Merge(cfg.Section("navigator"))
	}

	var opts []Option
	if cfg.Has("session_id") {
		opts = append(opts, WithSessionID(cfg.String("session_id", "")))
	}
	if cfg.Has("auto_resume_delay") {
		opts = append(opts, WithAutoResumeDelay(cfg.Duration("auto_resume_delay", DefaultAutoResumeDelay)))
	}
	if cfg.Has("cover_supported") {
		opts = append(opts, WithCoverSupported(cfg.Bool("cover_supported", true)))
	}
	if cfg.Has("metrics") {
		opts = append(opts, WithMetrics(cfg.Bool("metrics", false)))
	}
	if cfg.Has("tracing") {
		opts = append(opts, WithTracing(cfg.Bool("tracing", false)))
	}
	if level, ok := parseLevel(cfg.String("log_level", "")); ok {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		opts = append(opts, WithLogger(logger))
	}
	return opts
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return 0, false
}

func (c *sessionConfig) applyDefaults() {
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.scheduler == nil {
		c.scheduler = schedule.NewMainLoop()
	}
	if c.metrics == nil {
		c.metrics = observability.NoopMetrics{}
	}
	if c.spans == nil {
		c.spans = observability.NoopSpanManager{}
	}
}
