package charskema

import (
	"context"

	js "github.com/reoring/charskema/jsonschema"
)

// Schema is a validation rule producing values of type T. Parse never mutates
// its input and returns either a fully validated value or an error carrying
// Issues.
type Schema[T any] interface {
	// Parse validates an unknown input and returns the normalized value, with
	// defaults applied.
	Parse(ctx context.Context, v any) (T, error)

	// Validate runs Parse and discards the value.
	Validate(ctx context.Context, v any) error

	// JSONSchema projects the schema into a JSON Schema representation.
	JSONSchema() (*js.Schema, error)
}

// Codec performs bidirectional transformation between the wire representation
// A and the domain representation B.
type Codec[A, B any] interface {
	Decode(ctx context.Context, a A) (B, error)
	Encode(ctx context.Context, b B) (A, error)
}

// Refiner provides an optional hook at the end of parsing to perform
// cross-field validation. If it is not implemented, the phase is skipped.
type Refiner[T any] interface {
	Refine(ctx context.Context, v T) error
}

// ApplyRefine runs the Refiner hook of s when it has one. Plain errors come
// back as a single custom issue at the root, so callers always see Issues.
func ApplyRefine[T any](ctx context.Context, v T, s Schema[T]) error {
	r, ok := any(s).(Refiner[T])
	if !ok {
		return nil
	}
	if iss := Rebase("/", r.Refine(ctx, v)); len(iss) > 0 {
		return iss
	}
	return nil
}

// SafeParse parses v into T, returning (zero, false) on validation error.
func SafeParse[T any](ctx context.Context, s Schema[T], v any) (T, bool) {
	val, err := s.Parse(ctx, v)
	if err != nil {
		var zero T
		return zero, false
	}
	return val, true
}

// Is returns true if v conforms to the schema s.
func Is[T any](ctx context.Context, s Schema[T], v any) bool {
	return s.Validate(ctx, v) == nil
}

type contextKey int

const (
	_ctxKeyFailFast contextKey = iota
)

// WithFailFast returns a child context that marks fail-fast parsing behavior.
// ParseFrom sets it from ParseOpt; schema implementations consume it.
func WithFailFast(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, _ctxKeyFailFast, enabled)
}

// IsFailFast reports whether fail-fast mode is enabled in ctx.
func IsFailFast(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	v, _ := ctx.Value(_ctxKeyFailFast).(bool)
	return v
}
