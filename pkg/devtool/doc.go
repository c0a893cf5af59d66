// Package devtool provides a development-time inspector for a store: an
// HTTP server that exposes the current state snapshot, Prometheus metrics,
// and a WebSocket stream of dispatch activity for debugging UIs.
//
// The inspector attaches to a store as an observer:
//
//	insp := devtool.New(s, devtool.WithLogger(logger))
//	s.AddObserver(insp)
//	http.ListenAndServe(":6360", insp.Handler())
//
// Endpoints:
//
//	GET /ws       WebSocket stream of dispatch and listener events
//	GET /state    current state snapshot as JSON
//	GET /metrics  Prometheus metrics
//	GET /healthz  liveness probe
//
// This is debug tooling for a single process; it streams observations
// about the store, it does not share or transport the state itself.
package devtool
