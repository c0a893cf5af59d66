// Package store provides an observable state container: a single merged
// state map, a table of named actions that compute partial updates, and a
// registry of listeners notified after every mutation.
//
// # Core Types
//
// Store owns the state, the action table, and the listener registry. All
// mutations flow through Dispatch:
//
//	s := store.New()
//	s.RegisterSlice(store.ActionTable{
//	    "INCREMENT": func(st store.State, p any) store.State {
//	        return store.State{"count": st["count"].(int) + p.(int)}
//	    },
//	}, store.State{"count": 0})
//
//	unsubscribe := s.Subscribe(func() { render(s.GetState()) })
//	defer unsubscribe()
//
//	s.Dispatch("INCREMENT", 5)
//
// State is never mutated in place. Every dispatch and every slice
// registration replaces the state with a fresh shallow merge, so snapshots
// returned by GetState stay valid and reference equality detects change.
//
// # Typed Actions
//
// Action[P] gives an action a compile-time payload type:
//
//	increment := store.NewAction("INCREMENT", func(st store.State, n int) store.State {
//	    return store.State{"count": st["count"].(int) + n}
//	})
//	increment.Register(s)
//	increment.Dispatch(s, 5)
//
// # Batching
//
// Batch groups dispatches into a single notification pass:
//
//	s.Batch(func() {
//	    s.Dispatch("SET_NAME", "Ada")
//	    s.Dispatch("SET_ROLE", "admin")
//	})
//	// Listeners run once with both changes applied
//
// # Thread Safety
//
// All operations are safe for concurrent use. A single mutex guards the
// state, the action table, and the listener registry. Listeners are
// notified from a snapshot taken at dispatch time, and a dispatch issued
// while another dispatch is still notifying is queued and applied in FIFO
// order after the current pass completes.
package store
