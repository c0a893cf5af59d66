package store

import "go.uber.org/zap"

// Option is a functional option for configuring a Store.
type Option func(*Store)

// WithLogger sets the store's logger. Unknown-action dispatches and slice
// key collisions are logged at Warn level with structured fields.
//
// The default is zap.NewNop(), so an unconfigured store is silent.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithObserver attaches an observer to the store. May be given multiple
// times; observers are invoked in the order they were attached.
//
// Observers see every dispatch outcome and every listener-count change.
// See the instrument package for Prometheus and OpenTelemetry observers.
func WithObserver(o Observer) Option {
	return func(s *Store) {
		if o != nil {
			s.observers = append(s.observers, o)
		}
	}
}
