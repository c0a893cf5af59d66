package instrument

import (
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/statekit-dev/statekit/pkg/store"
)

// These tests run against the global no-op tracer provider; they verify
// the observer's control flow, not span export.

func TestOpenTelemetryObserverRecordsDispatch(t *testing.T) {
	extracted := 0
	obs := OpenTelemetry(
		WithTracerName("statekit-test"),
		WithAttributeExtractor(func(rec store.DispatchRecord) []attribute.KeyValue {
			extracted++
			return []attribute.KeyValue{attribute.String("test.attr", "ok")}
		}),
	)

	obs.ObserveDispatch(store.DispatchRecord{
		Seq:      1,
		ActionID: "INCREMENT",
		Start:    time.Now(),
		Duration: time.Millisecond,
	})
	obs.ObserveDispatch(store.DispatchRecord{
		ActionID: "MISSING",
		Start:    time.Now(),
		Err:      errors.New("unknown action"),
	})

	if extracted != 2 {
		t.Errorf("expected extractor called for both dispatches, got %d", extracted)
	}
}

func TestOpenTelemetryObserverFilter(t *testing.T) {
	extracted := 0
	obs := OpenTelemetry(
		WithDispatchFilter(func(rec store.DispatchRecord) bool {
			return rec.ActionID != "NOISY"
		}),
		WithAttributeExtractor(func(rec store.DispatchRecord) []attribute.KeyValue {
			extracted++
			return nil
		}),
	)

	obs.ObserveDispatch(store.DispatchRecord{ActionID: "NOISY", Start: time.Now()})
	obs.ObserveDispatch(store.DispatchRecord{ActionID: "KEPT", Start: time.Now()})

	if extracted != 1 {
		t.Errorf("expected filter to skip NOISY, extractor ran %d times", extracted)
	}
}

func TestOpenTelemetryObserverOnStore(t *testing.T) {
	s := store.New(store.WithObserver(OpenTelemetry()))
	s.RegisterSlice(store.ActionTable{
		"SET": func(st store.State, p any) store.State { return store.State{"v": p} },
	}, nil)

	if err := s.Dispatch("SET", 1); err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}
	// Observer must not interfere with listener counting either.
	unsubscribe := s.Subscribe(func() {})
	unsubscribe()
}
