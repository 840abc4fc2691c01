package navigator

import "log/slog"

// Router turns a route into an action list.
type Router[R any] interface {
	Actions(route R) []Action
}

// RouterFunc adapts a function to Router.
type RouterFunc[R any] func(route R) []Action

// Actions implements Router.
func (f RouterFunc[R]) Actions(route R) []Action {
	return f(route)
}

// Route asks router for route's actions and performs them on the session
// root. A nil router yields a cancelled run.
func Route[R any](s *Session, router Router[R], route R) *Run {
	if router == nil {
		s.logger.Warn("route dropped", slog.String("error", ErrNilRouter.Error()))
		run := s.newRun(s.root, nil)
		s.finish(run, RunCancelled, ErrNilRouter.Error())
		return run
	}
	actions := router.Actions(route)
	s.logger.Debug("routing",
		slog.Any("route", route),
		slog.Int("actions", len(actions)),
	)
	return s.Perform(actions...)
}
