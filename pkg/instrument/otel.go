package instrument

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/statekit-dev/statekit/pkg/store"
)

// Default tracer name for statekit stores.
const defaultTracerName = "statekit"

// OTelConfig configures the OpenTelemetry observer.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "statekit").
	TracerName string

	// Filter determines which dispatches to trace.
	// Return true to trace the dispatch, false to skip.
	// If nil, all dispatches are traced.
	Filter func(rec store.DispatchRecord) bool

	// AttributeExtractor extracts custom attributes for each traced
	// dispatch.
	AttributeExtractor func(rec store.DispatchRecord) []attribute.KeyValue

	// tracer is the resolved tracer instance.
	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry observer.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithDispatchFilter sets a filter function for dispatches.
func WithDispatchFilter(filter func(rec store.DispatchRecord) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(rec store.DispatchRecord) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// defaultOTelConfig returns the default OpenTelemetry configuration.
func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName: defaultTracerName,
	}
}

// otelObserver implements store.Observer by emitting one span per dispatch.
type otelObserver struct {
	config OTelConfig
}

// OpenTelemetry creates a store observer that emits a span for every
// dispatch. Dispatch is synchronous, so the span is created after the fact
// with explicit start and end timestamps from the dispatch record.
//
// The tracer uses the global OpenTelemetry tracer provider. Configure it
// in your main() before dispatching:
//
//	tp := sdktrace.NewTracerProvider(
//	    sdktrace.WithBatcher(exporter),
//	)
//	otel.SetTracerProvider(tp)
//
//	s := store.New(store.WithObserver(instrument.OpenTelemetry()))
func OpenTelemetry(opts ...OTelOption) store.Observer {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}

	// Resolve tracer from global provider
	config.tracer = otel.Tracer(config.TracerName)

	return &otelObserver{config: config}
}

// ObserveDispatch implements store.Observer.
func (o *otelObserver) ObserveDispatch(rec store.DispatchRecord) {
	if o.config.Filter != nil && !o.config.Filter(rec) {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("statekit.action", rec.ActionID),
		attribute.Int64("statekit.seq", int64(rec.Seq)),
	}
	if o.config.AttributeExtractor != nil {
		attrs = append(attrs, o.config.AttributeExtractor(rec)...)
	}

	_, span := o.config.tracer.Start(
		context.Background(),
		"statekit.dispatch "+rec.ActionID,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
		trace.WithTimestamp(rec.Start),
	)

	if rec.Err != nil {
		span.RecordError(rec.Err)
		span.SetStatus(codes.Error, rec.Err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	span.End(trace.WithTimestamp(rec.Start.Add(rec.Duration)))
}

// ObserveListeners implements store.Observer. Listener-count changes are
// not traced.
func (o *otelObserver) ObserveListeners(count int) {}
