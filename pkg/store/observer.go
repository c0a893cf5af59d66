package store

import "time"

// DispatchRecord describes one Dispatch call, successful or not.
type DispatchRecord struct {
	// Seq is the store's dispatch sequence number after this dispatch
	// applied. Zero when the dispatch did not apply (unknown action or
	// payload type mismatch).
	Seq uint64

	// ActionID is the dispatched action identifier.
	ActionID string

	// Start is when Dispatch began processing this request.
	Start time.Time

	// Duration covers the action function, the merge, and listener
	// notification.
	Duration time.Duration

	// Err is nil for applied dispatches, or ErrUnknownAction /
	// ErrPayloadType when the dispatch was rejected.
	Err error
}

// Observer receives store lifecycle callbacks. Implementations must be
// safe for concurrent use and should return quickly; they are invoked
// synchronously on the dispatching goroutine, outside the store's lock.
type Observer interface {
	// ObserveDispatch is called once per Dispatch call, after listener
	// notification for applied dispatches.
	ObserveDispatch(rec DispatchRecord)

	// ObserveListeners is called with the new listener count after every
	// subscribe and unsubscribe.
	ObserveListeners(count int)
}

// observeDispatch fans a record out to all attached observers.
func (s *Store) observeDispatch(rec DispatchRecord) {
	for _, o := range s.observers {
		o.ObserveDispatch(rec)
	}
}

// observeListeners fans a listener-count change out to all observers.
func (s *Store) observeListeners(count int) {
	for _, o := range s.observers {
		o.ObserveListeners(count)
	}
}
