// Package navtrace records OpenTelemetry spans for history transitions.
//
// Each span starts when History.Navigate is called and ends when the host calls
// History.CompleteTransition, so its duration is the time the UI needed to
// catch up with the URL. Pops do not start transitions and are not traced.
//
// The tracer uses the global OpenTelemetry tracer provider unless one is given:
//
//	otel.SetTracerProvider(tp)
//	h := history.New(src, history.WithObserver(navtrace.New()))
package navtrace

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vugu/vgnav/history"
)

const defaultTracerName = "vgnav"

// Config configures the tracing observer.
type Config struct {
	// TracerName is the name of the tracer (default: "vgnav").
	TracerName string

	// TracerProvider overrides the global provider.
	TracerProvider trace.TracerProvider
}

// Option configures the tracing observer.
type Option func(*Config)

// WithTracerName sets the tracer name.
func WithTracerName(name string) Option {
	return func(c *Config) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Config) {
		c.TracerProvider = tp
	}
}

// Observer implements history.Observer by tracing transitions.
type Observer struct {
	tracer trace.Tracer

	mu    sync.Mutex
	spans map[*history.Transition]trace.Span
}

var _ history.Observer = (*Observer)(nil)

// New returns a tracing observer.
func New(opts ...Option) *Observer {
	config := Config{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Observer{
		tracer: tp.Tracer(config.TracerName),
		spans:  make(map[*history.Transition]trace.Span),
	}
}

// Navigated implements history.Observer.
func (o *Observer) Navigated(history.Update) {}

// TransitionStarted implements history.Observer.
func (o *Observer) TransitionStarted(t *history.Transition) {
	_, span := o.tracer.Start(context.Background(), "vgnav.transition",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithTimestamp(t.Started),
		trace.WithAttributes(
			attribute.String("vgnav.to", t.To),
			attribute.String("vgnav.action", t.Action.String()),
			attribute.Bool("vgnav.replace", t.Action == history.ActionReplace),
		),
	)

	o.mu.Lock()
	o.spans[t] = span
	o.mu.Unlock()
}

// TransitionCompleted implements history.Observer.
func (o *Observer) TransitionCompleted(t *history.Transition) {
	o.mu.Lock()
	span, ok := o.spans[t]
	delete(o.spans, t)
	o.mu.Unlock()

	if !ok {
		return
	}
	span.SetStatus(codes.Ok, "")
	span.End(trace.WithTimestamp(t.Started.Add(t.Duration())))
}

// FallbackUsed implements history.Observer. History reports the fallback
// before starting the transition, so the error is recorded as its own span.
func (o *Observer) FallbackUsed(to string, err error) {
	_, span := o.tracer.Start(context.Background(), "vgnav.fallback",
		trace.WithAttributes(attribute.String("vgnav.to", to)),
	)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.End()
}
