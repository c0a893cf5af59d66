package store

import (
	"errors"
	"testing"
)

func newTypedCounterStore() (*Store, Action[int]) {
	s := New()
	s.RegisterSlice(nil, State{"count": 0})
	increment := NewAction("INCREMENT", func(st State, n int) State {
		return State{"count": st["count"].(int) + n}
	})
	increment.Register(s)
	return s, increment
}

func TestTypedActionDispatch(t *testing.T) {
	s, increment := newTypedCounterStore()

	if err := increment.Dispatch(s, 5); err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}
	if err := increment.Dispatch(s, 3); err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}

	if got := s.GetState()["count"]; got != 8 {
		t.Errorf("expected count 8, got %v", got)
	}
}

func TestTypedActionReachableByID(t *testing.T) {
	s, increment := newTypedCounterStore()

	if increment.ID() != "INCREMENT" {
		t.Fatalf("unexpected id %q", increment.ID())
	}

	// The typed action lives in the same table as plain actions.
	if err := s.Dispatch("INCREMENT", 2); err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}
	if got := s.GetState()["count"]; got != 2 {
		t.Errorf("expected count 2, got %v", got)
	}
}

func TestTypedActionRejectsWrongPayload(t *testing.T) {
	s, _ := newTypedCounterStore()

	calls := 0
	s.Subscribe(func() { calls++ })

	err := s.Dispatch("INCREMENT", "five")
	if !errors.Is(err, ErrPayloadType) {
		t.Fatalf("expected ErrPayloadType, got %v", err)
	}
	if got := s.GetState()["count"]; got != 0 {
		t.Errorf("rejected dispatch must not change state, got count=%v", got)
	}
	if calls != 0 {
		t.Errorf("rejected dispatch must not notify, got %d calls", calls)
	}
}

func TestTypedActionRejectsNilPayload(t *testing.T) {
	s, _ := newTypedCounterStore()

	err := s.Dispatch("INCREMENT", nil)
	if !errors.Is(err, ErrPayloadType) {
		t.Errorf("expected ErrPayloadType for nil payload, got %v", err)
	}
}

func TestTypedActionRegisterOverwriteWarns(t *testing.T) {
	logger, logs := newWarnLogger()
	s := New(WithLogger(logger))

	a := NewAction("SET", func(st State, v string) State { return State{"v": v} })
	a.Register(s)
	a.Register(s)

	if logs.Len() != 1 {
		t.Errorf("expected 1 collision warning, got %d", logs.Len())
	}
}
