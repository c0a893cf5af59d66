package store

import (
	"errors"
	"testing"
)

func TestBatchCoalescesNotifications(t *testing.T) {
	s := newCounterStore()

	calls := 0
	s.Subscribe(func() { calls++ })

	s.Batch(func() {
		s.Dispatch("INCREMENT", 1)
		s.Dispatch("INCREMENT", 2)
		s.Dispatch("INCREMENT", 3)
	})

	if calls != 1 {
		t.Errorf("expected a single coalesced notification, got %d", calls)
	}
	if got := s.GetState()["count"]; got != 6 {
		t.Errorf("expected count 6, got %v", got)
	}
}

func TestBatchStateVisibleInsideBatch(t *testing.T) {
	s := newCounterStore()

	s.Batch(func() {
		s.Dispatch("INCREMENT", 5)
		if got := s.GetState()["count"]; got != 5 {
			t.Errorf("state must apply immediately inside a batch, got %v", got)
		}
	})
}

func TestBatchNested(t *testing.T) {
	s := newCounterStore()

	calls := 0
	s.Subscribe(func() { calls++ })

	s.Batch(func() {
		s.Dispatch("INCREMENT", 1)
		s.Batch(func() {
			s.Dispatch("INCREMENT", 1)
		})
		if calls != 0 {
			t.Errorf("inner batch must not notify, got %d calls", calls)
		}
		s.Dispatch("INCREMENT", 1)
	})

	if calls != 1 {
		t.Errorf("expected one notification after outermost batch, got %d", calls)
	}
	if got := s.GetState()["count"]; got != 3 {
		t.Errorf("expected count 3, got %v", got)
	}
}

func TestBatchWithoutDispatchDoesNotNotify(t *testing.T) {
	s := newCounterStore()

	calls := 0
	s.Subscribe(func() { calls++ })

	s.Batch(func() {})

	if calls != 0 {
		t.Errorf("empty batch must not notify, got %d calls", calls)
	}
}

func TestBatchUnknownActionStillErrors(t *testing.T) {
	s := newCounterStore()

	var err error
	s.Batch(func() {
		err = s.Dispatch("MISSING", nil)
	})

	if !errors.Is(err, ErrUnknownAction) {
		t.Errorf("expected ErrUnknownAction inside batch, got %v", err)
	}
}

func TestBatchListenerSeesFinalState(t *testing.T) {
	s := newCounterStore()

	var seen any
	s.Subscribe(func() { seen = s.GetState()["count"] })

	s.Batch(func() {
		s.Dispatch("INCREMENT", 2)
		s.Dispatch("INCREMENT", 2)
	})

	if seen != 4 {
		t.Errorf("listener should see the fully merged batch state, saw %v", seen)
	}
}
