// Package instrument provides ready-made store observers for Prometheus
// metrics and OpenTelemetry tracing.
//
// Attach them when constructing a store:
//
//	s := store.New(
//	    store.WithObserver(instrument.Prometheus()),
//	    store.WithObserver(instrument.OpenTelemetry()),
//	)
package instrument
