package store

import (
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Store is an observable state container. It owns the merged state map,
// the action table, and the listener registry, and serializes every
// mutation through Dispatch.
//
// A Store is an explicit value rather than package-level state: construct
// one with New, share it by reference, and tests can build a fresh Store
// per test case. The zero value is not usable.
type Store struct {
	// mu guards state, actions, subs, and the dispatch bookkeeping below.
	// Everything the store owns is shared mutable state with no
	// partitioning, so a single lock is the whole concurrency story.
	mu sync.Mutex

	// state is the current snapshot. Replaced wholesale by Merge on every
	// mutation, never written through.
	state State

	// actions maps action identifiers to internal entries.
	actions map[string]actionEntry

	// subs are the listeners in insertion order. Notification order is
	// insertion order.
	subs []subscription

	// draining is true while a goroutine is applying dispatches and
	// notifying listeners. Dispatches arriving meanwhile are queued.
	draining bool

	// queue holds dispatches deferred until the current notification pass
	// completes. FIFO.
	queue []request

	// batchDepth counts nested Batch calls. While positive, notification
	// is deferred and coalesced.
	batchDepth int

	// batchDirty records that at least one dispatch applied during the
	// current batch, so the outermost Batch must run a notification pass.
	batchDirty bool

	// seq counts applied dispatches, for observability.
	seq uint64

	logger    *zap.Logger
	observers []Observer
}

// actionEntry is the internal form of a registered action. RegisterSlice
// wraps plain ActionFuncs; typed actions install entries that validate the
// payload and can reject it with an error.
type actionEntry struct {
	fn func(current State, payload any) (State, error)
}

// subscription pairs a listener callback with the ID its unsubscribe
// handle removes it by.
type subscription struct {
	id uint64
	fn func()
}

// New creates an empty Store. With no options it is silent: the default
// logger is a no-op and no observers are attached.
func New(opts ...Option) *Store {
	s := &Store{
		state:   make(State),
		actions: make(map[string]actionEntry),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterSlice merges a slice's initial state and action table into the
// store. Keys already present are overwritten (last registration wins),
// and every collision is logged as a warning with the offending keys.
//
// Registration is meant to happen during startup, before any consumer
// subscribes. It does not notify listeners, and there is no unregister.
func (s *Store) RegisterSlice(actions ActionTable, initial State) {
	s.mu.Lock()

	var stateDups, actionDups []string
	for k := range initial {
		if _, ok := s.state[k]; ok {
			stateDups = append(stateDups, k)
		}
	}
	for id := range actions {
		if _, ok := s.actions[id]; ok {
			actionDups = append(actionDups, id)
		}
	}

	s.state = Merge(s.state, initial)
	for id, fn := range actions {
		fn := fn
		s.actions[id] = actionEntry{
			fn: func(current State, payload any) (State, error) {
				return fn(current, payload), nil
			},
		}
	}

	s.mu.Unlock()

	// Sorted so collision logs are deterministic.
	if len(stateDups) > 0 {
		sort.Strings(stateDups)
		s.logger.Warn("slice registration overwrites existing state keys",
			zap.Strings("keys", stateDups))
	}
	if len(actionDups) > 0 {
		sort.Strings(actionDups)
		s.logger.Warn("slice registration overwrites existing actions",
			zap.Strings("actions", actionDups))
	}
}

// registerEntry installs a single internal action entry, warning on
// collision. Used by typed actions.
func (s *Store) registerEntry(id string, e actionEntry) {
	s.mu.Lock()
	_, collided := s.actions[id]
	s.actions[id] = e
	s.mu.Unlock()

	if collided {
		s.logger.Warn("action registration overwrites existing action",
			zap.String("action", id))
	}
}

// GetState returns the current state snapshot. Callers must treat the
// returned map as read-only; the store never mutates a map it has
// returned, only replaces its internal reference on the next mutation.
func (s *Store) GetState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// AddObserver attaches an observer after construction. This exists for
// observers that need a reference to the store, like the devtool
// inspector. Call it during startup wiring, not concurrently with
// Dispatch or Subscribe.
func (s *Store) AddObserver(o Observer) {
	if o != nil {
		s.observers = append(s.observers, o)
	}
}

// Seq returns the number of dispatches applied so far.
func (s *Store) Seq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// ListenerCount returns the number of currently subscribed listeners.
func (s *Store) ListenerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
