package store

// Subscribe registers a listener to be invoked after every applied
// dispatch. The listener is never invoked during Subscribe itself, only on
// subsequent dispatches. Listeners are notified in insertion order.
//
// The returned handle removes exactly this registration. It is idempotent:
// calling it more than once, or after the listener was already removed, is
// a no-op. Subscribing the same function twice yields two registrations,
// each with its own handle.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	id := nextSubID()

	s.mu.Lock()
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	count := len(s.subs)
	s.mu.Unlock()

	s.observeListeners(count)

	return func() {
		s.mu.Lock()
		removed := false
		for i, sub := range s.subs {
			if sub.id == id {
				// Shift rather than swap: notification order is
				// insertion order and must stay deterministic.
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				removed = true
				break
			}
		}
		count := len(s.subs)
		s.mu.Unlock()

		if removed {
			s.observeListeners(count)
		}
	}
}
