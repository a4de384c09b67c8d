package observability

import (
	"context"
	"log/slog"
	"time"
)

// Timer tracks the wall-clock duration of an operation and logs it on Stop.
// The weekly coordinator uses one per day to surface each day's heuristic/CP
// solve time.
type Timer struct {
	operation string
	start     time.Time
	logger    *slog.Logger
	tags      []Tag
}

// Tag is a label attached to a timer for structured log output.
type Tag struct {
	Key   string
	Value string
}

// T constructs a Tag.
func T(key, value string) Tag {
	return Tag{Key: key, Value: value}
}

// StartTimer creates a new timer for the given operation.
func StartTimer(operation string) *Timer {
	return &Timer{
		operation: operation,
		start:     time.Now(),
	}
}

// WithLogger adds a logger to the timer for automatic logging on stop.
func (t *Timer) WithLogger(logger *slog.Logger) *Timer {
	t.logger = logger
	return t
}

// WithTags adds tags to the timer for log output.
func (t *Timer) WithTags(tags ...Tag) *Timer {
	t.tags = append(t.tags, tags...)
	return t
}

// Stop records the operation duration.
func (t *Timer) Stop() time.Duration {
	duration := time.Since(t.start)

	if t.logger != nil {
		args := make([]any, 0, 4+2*len(t.tags))
		args = append(args, "operation", t.operation, "duration_ms", duration.Milliseconds())
		for _, tag := range t.tags {
			args = append(args, tag.Key, tag.Value)
		}
		t.logger.Info("operation completed", args...)
	}

	return duration
}

// StopWithError records the operation duration with error status.
func (t *Timer) StopWithError(err error) time.Duration {
	duration := time.Since(t.start)

	if t.logger != nil {
		args := make([]any, 0, 4+2*len(t.tags))
		args = append(args, "operation", t.operation, "duration_ms", duration.Milliseconds())
		for _, tag := range t.tags {
			args = append(args, tag.Key, tag.Value)
		}
		if err != nil {
			args = append(args, "error", err.Error())
			t.logger.Error("operation failed", args...)
		} else {
			t.logger.Info("operation completed", args...)
		}
	}

	return duration
}

// Elapsed returns the elapsed time without stopping the timer.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// TimeOperation times a function and logs its duration.
func TimeOperation(ctx context.Context, logger *slog.Logger, operation string, fn func() error) error {
	timer := StartTimer(operation).WithLogger(logger)
	err := fn()
	timer.StopWithError(err)
	return err
}

// TimeOperationResult times a function that returns a value and logs its duration.
func TimeOperationResult[T any](ctx context.Context, logger *slog.Logger, operation string, fn func() (T, error)) (T, error) {
	timer := StartTimer(operation).WithLogger(logger)
	result, err := fn()
	timer.StopWithError(err)
	return result, err
}

// Span represents a traced span of execution within a request.
type Span struct {
	operation string
	start     time.Time
	parent    *Span
	attrs     map[string]any
}

// StartSpan creates a new span, optionally as a child of a parent span found in ctx.
func StartSpan(ctx context.Context, operation string) (*Span, context.Context) {
	span := &Span{
		operation: operation,
		start:     time.Now(),
		attrs:     make(map[string]any),
	}

	if parent, ok := ctx.Value(spanCtxKey).(*Span); ok {
		span.parent = parent
	}

	ctx = context.WithValue(ctx, spanCtxKey, span)
	return span, ctx
}

// SetAttribute adds an attribute to the span.
func (s *Span) SetAttribute(key string, value any) {
	s.attrs[key] = value
}

// End completes the span and returns its duration.
func (s *Span) End() time.Duration {
	return time.Since(s.start)
}

// Operation returns the span's operation name.
func (s *Span) Operation() string {
	return s.operation
}

// Attributes returns the span's attributes.
func (s *Span) Attributes() map[string]any {
	return s.attrs
}

type spanContextKey struct{}

var spanCtxKey = spanContextKey{}

// SpanFromContext extracts the current span from context.
func SpanFromContext(ctx context.Context) *Span {
	if span, ok := ctx.Value(spanCtxKey).(*Span); ok {
		return span
	}
	return nil
}
