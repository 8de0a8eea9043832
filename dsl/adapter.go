package dsl

import (
	"context"

	charskema "github.com/reoring/charskema"
	"github.com/reoring/charskema/internal/ir"
	js "github.com/reoring/charskema/jsonschema"
)

// Doc is the documentation record attached to a rule or a field. The
// declaration generator renders it as TSDoc; JSON Schema export carries the
// description, deprecation, default and examples.
type Doc = ir.Meta

// Rule is implemented by every dsl schema. Object fields, array elements and
// union alternatives accept any Rule.
type Rule interface {
	Adapter() AnyAdapter
}

// Describer is implemented by rules that can project themselves into the
// descriptor tree.
type Describer interface {
	Describe() ir.Node
}

// AnyAdapter adapts a typed rule to the any-typed form fields store.
// It keeps the original schema to support default application, JSON Schema
// augmentation, and descriptor projection.
type AnyAdapter struct {
	parse        func(context.Context, any) (any, error)
	applyDefault func(context.Context) (any, error)
	jsonSchema   func() (*js.Schema, error)
	describe     func() ir.Node
	orig         any
}

type describedSchema[T any] interface {
	charskema.Schema[T]
	Describer
}

// adapt wraps a strongly typed, self-describing rule as AnyAdapter.
func adapt[T any](s describedSchema[T]) AnyAdapter {
	return AnyAdapter{
		parse:      func(ctx context.Context, v any) (any, error) { return s.Parse(ctx, v) },
		jsonSchema: s.JSONSchema,
		describe:   s.Describe,
		orig:       s,
	}
}

// SchemaOf adapts an arbitrary Schema[T] so it can be embedded in builders.
// Schemas that do not implement Describer cannot be projected and make the
// declaration generator fail for the enclosing export.
func SchemaOf[T any](s charskema.Schema[T]) AnyAdapter {
	ad := AnyAdapter{
		parse:      func(ctx context.Context, v any) (any, error) { return s.Parse(ctx, v) },
		jsonSchema: s.JSONSchema,
		orig:       s,
	}
	if d, ok := any(s).(Describer); ok {
		ad.describe = d.Describe
	}
	return ad
}

// Adapter returns ad itself so AnyAdapter satisfies Rule.
func (ad AnyAdapter) Adapter() AnyAdapter { return ad }

// Orig returns the underlying rule used to create this adapter.
func (ad AnyAdapter) Orig() any { return ad.orig }

// Parse runs the adapted rule.
func (ad AnyAdapter) Parse(ctx context.Context, v any) (any, error) {
	if ad.parse == nil {
		return v, nil
	}
	return ad.parse(ctx, v)
}

// Validate runs Parse and discards the value.
func (ad AnyAdapter) Validate(ctx context.Context, v any) error {
	_, err := ad.Parse(ctx, v)
	return err
}

// JSONSchema projects the adapted rule.
func (ad AnyAdapter) JSONSchema() (*js.Schema, error) {
	if ad.jsonSchema == nil {
		return &js.Schema{}, nil
	}
	return ad.jsonSchema()
}

// Describe projects the adapted rule; nil when the rule is opaque.
func (ad AnyAdapter) Describe() ir.Node {
	if ad.describe == nil {
		return nil
	}
	return ad.describe()
}

// Nullable wraps a rule to also accept JSON null. The descriptor becomes a
// union with the null primitive.
func Nullable(r Rule) AnyAdapter {
	ad := r.Adapter()
	prevParse := ad.parse
	prevJSON := ad.jsonSchema
	prevDescribe := ad.describe
	out := ad
	out.parse = func(ctx context.Context, v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		if prevParse == nil {
			return v, nil
		}
		return prevParse(ctx, v)
	}
	out.jsonSchema = func() (*js.Schema, error) {
		inner := &js.Schema{}
		if prevJSON != nil {
			s, err := prevJSON()
			if err != nil {
				return nil, err
			}
			inner = s
		}
		return &js.Schema{AnyOf: []*js.Schema{inner, {Type: "null"}}}, nil
	}
	out.describe = func() ir.Node {
		if prevDescribe == nil {
			return nil
		}
		inner := prevDescribe()
		if inner == nil {
			return nil
		}
		return &ir.Union{Variants: []ir.Variant{{Node: inner}, {Node: &ir.Primitive{Name: "null"}}}}
	}
	return out
}

// Nullable enables fluent chaining: g.String().Adapter().Nullable()
func (ad AnyAdapter) Nullable() AnyAdapter { return Nullable(ad) }

func invalidType(expected string, got any) charskema.Issues {
	return charskema.Issues{{
		Path:    "/",
		Code:    charskema.CodeInvalidType,
		Message: msg(charskema.CodeInvalidType, map[string]string{"expected": expected, "got": typeName(got)}),
		Hint:    "expected " + expected,
		Params:  map[string]any{"expected": expected, "got": typeName(got)},
	}}
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case []byte:
		return "bytes"
	}
	if _, ok := toFloat(v); ok {
		return "number"
	}
	return "unknown"
}
