package store

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// newWarnLogger returns a logger capturing Warn-level entries for
// assertions about collision and unknown-action diagnostics.
func newWarnLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.WarnLevel)
	return zap.New(core), logs
}

func TestNewStoreIsEmpty(t *testing.T) {
	s := New()

	if got := s.GetState(); len(got) != 0 {
		t.Errorf("expected empty initial state, got %v", got)
	}
	if got := s.ListenerCount(); got != 0 {
		t.Errorf("expected 0 listeners, got %d", got)
	}
	if got := s.Seq(); got != 0 {
		t.Errorf("expected seq 0, got %d", got)
	}
}

func TestRegisterSliceStateUnion(t *testing.T) {
	s := New()

	s.RegisterSlice(nil, State{"a": 1})
	s.RegisterSlice(nil, State{"b": 2})

	got := s.GetState()
	if len(got) != 2 {
		t.Fatalf("expected 2 keys, got %v", got)
	}
	if got["a"] != 1 || got["b"] != 2 {
		t.Errorf("expected {a:1 b:2}, got %v", got)
	}
}

func TestRegisterSliceLastWriteWins(t *testing.T) {
	s := New()

	s.RegisterSlice(nil, State{"theme": "light", "lang": "en"})
	s.RegisterSlice(nil, State{"theme": "dark"})

	got := s.GetState()
	if got["theme"] != "dark" {
		t.Errorf("expected later registration to win, got theme=%v", got["theme"])
	}
	if got["lang"] != "en" {
		t.Errorf("expected untouched key to survive, got lang=%v", got["lang"])
	}
}

func TestRegisterSliceWarnsOnStateKeyCollision(t *testing.T) {
	logger, logs := newWarnLogger()
	s := New(WithLogger(logger))

	s.RegisterSlice(nil, State{"count": 0})
	if logs.Len() != 0 {
		t.Fatalf("first registration should not warn, got %v", logs.All())
	}

	s.RegisterSlice(nil, State{"count": 10})
	if logs.Len() != 1 {
		t.Fatalf("expected 1 collision warning, got %d", logs.Len())
	}
	if msg := logs.All()[0].Message; msg != "slice registration overwrites existing state keys" {
		t.Errorf("unexpected warning message: %q", msg)
	}
}

func TestRegisterSliceWarnsOnActionCollision(t *testing.T) {
	logger, logs := newWarnLogger()
	s := New(WithLogger(logger))

	noop := func(State, any) State { return State{} }
	s.RegisterSlice(ActionTable{"RESET": noop}, nil)
	s.RegisterSlice(ActionTable{"RESET": noop}, nil)

	if logs.Len() != 1 {
		t.Fatalf("expected 1 collision warning, got %d", logs.Len())
	}
	if msg := logs.All()[0].Message; msg != "slice registration overwrites existing actions" {
		t.Errorf("unexpected warning message: %q", msg)
	}
}

func TestRegisterSliceActionLastWriteWins(t *testing.T) {
	s := New()

	s.RegisterSlice(ActionTable{
		"SET": func(State, any) State { return State{"v": "first"} },
	}, nil)
	s.RegisterSlice(ActionTable{
		"SET": func(State, any) State { return State{"v": "second"} },
	}, nil)

	if err := s.Dispatch("SET", nil); err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}
	if got := s.GetState()["v"]; got != "second" {
		t.Errorf("expected later action to win, got %v", got)
	}
}

func TestRegisterSliceDoesNotNotify(t *testing.T) {
	s := New()

	calls := 0
	s.Subscribe(func() { calls++ })

	s.RegisterSlice(ActionTable{
		"NOOP": func(State, any) State { return State{} },
	}, State{"x": 1})

	if calls != 0 {
		t.Errorf("registration should not notify listeners, got %d calls", calls)
	}
}
