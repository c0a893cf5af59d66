package store

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// request is a dispatch waiting to be applied.
type request struct {
	id      string
	entry   actionEntry
	payload any
	start   time.Time
}

// Dispatch looks up actionID, applies its action function to the current
// state, shallow-merges the returned partial state into a fresh state map,
// and synchronously notifies every currently subscribed listener in
// insertion order.
//
// An unknown actionID is non-fatal: it is logged, ErrUnknownAction is
// returned, state is unchanged, and no listener is notified.
//
// A Dispatch issued while another dispatch is still notifying listeners
// (from a listener callback, or from another goroutine) does not run
// reentrantly. It is validated immediately, queued, and applied in FIFO
// order after the current notification pass completes, with its own full
// notification pass. Such queued dispatches return nil; a payload type
// error surfacing later is logged.
//
// A panicking action function propagates to the caller. The panic happens
// before the merge step, so state remains consistent; dispatches queued
// behind the panicking one are dropped.
func (s *Store) Dispatch(actionID string, payload any) error {
	start := time.Now()

	s.mu.Lock()
	entry, ok := s.actions[actionID]
	if !ok {
		s.mu.Unlock()
		s.logger.Warn("dispatch of unknown action", zap.String("action", actionID))
		s.observeDispatch(DispatchRecord{
			ActionID: actionID,
			Start:    start,
			Duration: time.Since(start),
			Err:      ErrUnknownAction,
		})
		return fmt.Errorf("%w: %q", ErrUnknownAction, actionID)
	}
	if s.draining {
		s.queue = append(s.queue, request{id: actionID, entry: entry, payload: payload, start: start})
		s.mu.Unlock()
		return nil
	}
	s.draining = true
	s.mu.Unlock()

	defer s.releaseOnPanic()

	err := s.applyAndNotify(request{id: actionID, entry: entry, payload: payload, start: start})
	s.drainQueue()
	return err
}

// applyAndNotify runs one dispatch to completion: action function, merge,
// listener notification, observer record.
func (s *Store) applyAndNotify(req request) error {
	s.mu.Lock()
	current := s.state
	s.mu.Unlock()

	// User code runs outside the lock so an action can never deadlock
	// against the store. A panic here happens before the merge, leaving
	// state untouched.
	partial, err := req.entry.fn(current, req.payload)
	if err != nil {
		s.logger.Warn("dispatch rejected", zap.String("action", req.id), zap.Error(err))
		s.observeDispatch(DispatchRecord{
			ActionID: req.id,
			Start:    req.start,
			Duration: time.Since(req.start),
			Err:      err,
		})
		return err
	}

	s.mu.Lock()
	s.state = Merge(s.state, partial)
	s.seq++
	seq := s.seq
	var subs []func()
	if s.batchDepth > 0 {
		s.batchDirty = true
	} else {
		subs = s.snapshotSubsLocked()
	}
	s.mu.Unlock()

	// Copy-before-notify: listeners added or removed from here on do not
	// affect this pass's delivery list.
	for _, fn := range subs {
		fn()
	}

	s.observeDispatch(DispatchRecord{
		Seq:      seq,
		ActionID: req.id,
		Start:    req.start,
		Duration: time.Since(req.start),
	})
	return nil
}

// drainQueue applies queued dispatches until the queue is empty, then
// releases the draining flag. The caller must hold the draining flag.
func (s *Store) drainQueue() {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.draining = false
			s.mu.Unlock()
			return
		}
		next := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		// The queued caller already got nil back; applyAndNotify logs
		// the rejection.
		_ = s.applyAndNotify(next)
	}
}

// releaseOnPanic releases the draining flag and drops any queued
// dispatches when the notification pass panics, then re-panics. Must be
// installed with defer by whoever claimed the draining flag.
func (s *Store) releaseOnPanic() {
	if r := recover(); r != nil {
		s.mu.Lock()
		s.draining = false
		s.queue = nil
		s.mu.Unlock()
		panic(r)
	}
}

// snapshotSubsLocked copies the current listener callbacks in insertion
// order. Caller must hold s.mu.
func (s *Store) snapshotSubsLocked() []func() {
	if len(s.subs) == 0 {
		return nil
	}
	subs := make([]func(), len(s.subs))
	for i, sub := range s.subs {
		subs[i] = sub.fn
	}
	return subs
}

// Batch groups multiple dispatches into a single notification pass. State
// updates inside the batch apply immediately and are visible through
// GetState, but listeners are notified once, after the outermost batch
// returns, and only if at least one dispatch applied.
//
// Batches can be nested; notification fires when the outermost batch
// completes.
//
// Example:
//
//	s.Batch(func() {
//	    s.Dispatch("SET_NAME", "Ada")
//	    s.Dispatch("SET_ROLE", "admin")
//	})
//	// Listeners run once with both changes applied
func (s *Store) Batch(fn func()) {
	s.mu.Lock()
	s.batchDepth++
	s.mu.Unlock()

	defer s.endBatch()
	fn()
}

// endBatch closes one batch level and, at the outermost level, runs the
// coalesced notification pass.
func (s *Store) endBatch() {
	s.mu.Lock()
	s.batchDepth--
	if s.batchDepth > 0 || !s.batchDirty {
		s.mu.Unlock()
		return
	}
	s.batchDirty = false
	claimed := !s.draining
	if claimed {
		s.draining = true
	}
	subs := s.snapshotSubsLocked()
	s.mu.Unlock()

	if claimed {
		defer s.releaseOnPanic()
	}
	for _, fn := range subs {
		fn()
	}
	if claimed {
		s.drainQueue()
	}
}
