package dsl

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	charskema "github.com/reoring/charskema"
	"github.com/reoring/charskema/internal/ir"
	js "github.com/reoring/charskema/jsonschema"
)

type fieldDef struct {
	ad  AnyAdapter
	doc ir.Meta
	pos ir.Pos
	// static default as declared, for documentation
	def    any
	hasDef bool
}

type objectBuilder struct {
	fields        map[string]*fieldDef
	order         []string
	required      map[string]struct{}
	unknownPolicy charskema.UnknownPolicy
	refines       []objRefine
	meta          ir.Meta
	discriminator string
	variants      []UnionVariant
	err           error
}

type fieldStep struct {
	b    *objectBuilder
	name string
}

// Object creates a new object builder with safe defaults (UnknownStrict).
func Object() *objectBuilder {
	return &objectBuilder{
		fields:        map[string]*fieldDef{},
		required:      map[string]struct{}{},
		unknownPolicy: charskema.UnknownStrict,
	}
}

// Field registers a field with its rule. The declaring source line is
// recorded so generators can pick up hand-written comments above it.
func (b *objectBuilder) Field(name string, r Rule) *fieldStep { return b.field(name, r) }

func (b *objectBuilder) field(name string, r Rule) *fieldStep {
	if _, dup := b.fields[name]; dup && b.err == nil {
		b.err = fmt.Errorf("dsl: field %q declared twice", name)
	}
	fd := &fieldDef{ad: r.Adapter()}
	// 0 = field, 1 = Field (builder or step), 2 = declaring code
	if _, file, line, ok := runtime.Caller(2); ok {
		fd.pos = ir.Pos{File: file, Line: line}
	}
	if _, dup := b.fields[name]; !dup {
		b.order = append(b.order, name)
	}
	b.fields[name] = fd
	return &fieldStep{b: b, name: name}
}

// Required marks the field as required and returns the builder.
func (f *fieldStep) Required() *objectBuilder {
	f.b.required[f.name] = struct{}{}
	return f.b
}

// Optional marks the field as optional (default) and returns the builder.
func (f *fieldStep) Optional() *objectBuilder {
	delete(f.b.required, f.name)
	return f.b
}

// Doc attaches documentation to the field itself (not to its rule).
func (f *fieldStep) Doc(d Doc) *fieldStep {
	f.b.fields[f.name].doc = d
	return f
}

// Deprecated marks the field deprecated with an optional note.
func (f *fieldStep) Deprecated(note string) *fieldStep {
	fd := f.b.fields[f.name]
	fd.doc.Deprecated = true
	fd.doc.DeprecationNote = note
	return f
}

// Default sets a default for the current field and exports it to JSON Schema.
// The value is parsed through the field rule each time it is applied, so
// nested defaults are filled in and the result is never shared between
// parses.
func (f *fieldStep) Default(v any) *objectBuilder {
	fd := f.b.fields[f.name]
	ad := fd.ad
	fd.ad.applyDefault = func(ctx context.Context) (any, error) { return ad.Parse(ctx, v) }
	prev := ad.jsonSchema
	fd.ad.jsonSchema = func() (*js.Schema, error) {
		if prev == nil {
			return &js.Schema{Default: v}, nil
		}
		s, err := prev()
		if err != nil {
			return nil, err
		}
		if s == nil {
			s = &js.Schema{}
		}
		s.Default = v
		return s, nil
	}
	fd.def = v
	fd.hasDef = true
	delete(f.b.required, f.name)
	return f.b
}

// DefaultFunc computes the default on every application (for example the
// current time).
func (f *fieldStep) DefaultFunc(fn func() any) *objectBuilder {
	fd := f.b.fields[f.name]
	ad := fd.ad
	fd.ad.applyDefault = func(ctx context.Context) (any, error) { return ad.Parse(ctx, fn()) }
	fd.hasDef = true
	fd.def = nil
	delete(f.b.required, f.name)
	return f.b
}

func (f *fieldStep) Refine(name string, fn func(context.Context, map[string]any) error) *objectBuilder {
	return f.b.Refine(name, fn)
}
func (f *fieldStep) Field(name string, r Rule) *fieldStep { return f.b.field(name, r) }
func (f *fieldStep) UnknownStrict() *objectBuilder        { return f.b.UnknownStrict() }
func (f *fieldStep) UnknownStrip() *objectBuilder         { return f.b.UnknownStrip() }
func (f *fieldStep) UnknownPassthrough() *objectBuilder   { return f.b.UnknownPassthrough() }
func (f *fieldStep) Build() (ObjectRule, error)           { return f.b.Build() }
func (f *fieldStep) MustBuild() ObjectRule                { return f.b.MustBuild() }

// Require marks one or more fields as required.
func (b *objectBuilder) Require(names ...string) *objectBuilder {
	for _, n := range names {
		b.required[n] = struct{}{}
	}
	return b
}

// UnknownStrict sets unknown policy to Strict.
func (b *objectBuilder) UnknownStrict() *objectBuilder {
	b.unknownPolicy = charskema.UnknownStrict
	return b
}

// UnknownStrip sets unknown policy to Strip.
func (b *objectBuilder) UnknownStrip() *objectBuilder {
	b.unknownPolicy = charskema.UnknownStrip
	return b
}

// UnknownPassthrough keeps unknown keys in the output unchanged.
func (b *objectBuilder) UnknownPassthrough() *objectBuilder {
	b.unknownPolicy = charskema.UnknownPassthrough
	return b
}

// Doc attaches documentation to the object.
func (b *objectBuilder) Doc(d Doc) *objectBuilder {
	b.meta = d
	return b
}

// Refine adds an object-level refine function. It runs only after every field
// validated.
func (b *objectBuilder) Refine(name string, fn func(context.Context, map[string]any) error) *objectBuilder {
	if fn == nil {
		return b
	}
	b.refines = append(b.refines, objRefine{name: name, fn: fn})
	return b
}

// Discriminator sets the discriminator key for a discriminated union.
func (b *objectBuilder) Discriminator(key string) *objectBuilder {
	b.discriminator = key
	return b
}

// UnionVariant defines a named variant schema for discriminated unions.
type UnionVariant struct {
	name   string
	schema ObjectRule
}

// Variant constructs a UnionVariant.
func Variant(name string, s ObjectRule) UnionVariant {
	return UnionVariant{name: name, schema: s}
}

// OneOf registers union variants when a discriminator is set. Declaration
// order is kept.
func (b *objectBuilder) OneOf(vars ...UnionVariant) *objectBuilder {
	for _, v := range vars {
		if v.name == "" || v.schema == nil {
			continue
		}
		b.variants = append(b.variants, v)
	}
	return b
}

// Build validates the builder and returns a Schema.
func (b *objectBuilder) Build() (ObjectRule, error) {
	if b.err != nil {
		return nil, b.err
	}
	// If discriminator is configured, return a union schema
	if b.discriminator != "" {
		if len(b.variants) == 0 {
			return nil, fmt.Errorf("dsl: discriminator %q has no variants", b.discriminator)
		}
		u, err := newUnion(b.discriminator, b.variants, b.meta)
		if err != nil {
			return nil, err
		}
		return u, nil
	}
	for k := range b.required {
		if _, ok := b.fields[k]; !ok {
			return nil, fmt.Errorf("dsl: required field %q is not declared", k)
		}
	}
	// cache sorted keys for deterministic order without per-parse sorting
	kfs := make([]string, 0, len(b.fields))
	for k := range b.fields {
		kfs = append(kfs, k)
	}
	sort.Strings(kfs)
	return &objectSchema{fields: b.fields, required: b.required, unknownPolicy: b.unknownPolicy, refines: b.refines, meta: b.meta, sortedKeys: kfs, declared: append([]string(nil), b.order...)}, nil
}

// MustBuild is like Build but panics on error.
func (b *objectBuilder) MustBuild() ObjectRule {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}
