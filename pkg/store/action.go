package store

import "fmt"

// Action binds an action identifier to a payload type, so the payload is
// checked at compile time instead of discovered inside the action function.
//
// Example:
//
//	increment := store.NewAction("INCREMENT", func(st store.State, n int) store.State {
//	    return store.State{"count": st["count"].(int) + n}
//	})
//	increment.Register(s)
//
//	increment.Dispatch(s, 5)   // typed; compile error for a non-int payload
//	s.Dispatch("INCREMENT", 5) // still works through the plain table
//
// A plain Dispatch with a payload of the wrong dynamic type is rejected
// with ErrPayloadType before the action function runs.
type Action[P any] struct {
	id string
	fn func(current State, payload P) State
}

// NewAction creates a typed action. The identifier is the same namespace
// as ActionTable keys; registering it overwrites any existing action with
// that identifier (with a warning, as in RegisterSlice).
func NewAction[P any](id string, fn func(current State, payload P) State) Action[P] {
	return Action[P]{id: id, fn: fn}
}

// ID returns the action identifier.
func (a Action[P]) ID() string {
	return a.id
}

// Register installs the action into the store's action table behind a
// payload type check.
func (a Action[P]) Register(s *Store) {
	fn := a.fn
	id := a.id
	s.registerEntry(id, actionEntry{
		fn: func(current State, payload any) (State, error) {
			p, ok := payload.(P)
			if !ok {
				var want P
				return nil, fmt.Errorf("%w: action %q expects %T, got %T",
					ErrPayloadType, id, want, payload)
			}
			return fn(current, p), nil
		},
	})
}

// Dispatch dispatches this action with a statically typed payload.
func (a Action[P]) Dispatch(s *Store, payload P) error {
	return s.Dispatch(a.id, payload)
}
