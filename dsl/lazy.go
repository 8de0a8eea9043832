package dsl

import (
	"context"
	"sync"

	"github.com/reoring/charskema/internal/ir"
	js "github.com/reoring/charskema/jsonschema"
)

// LazySchema defers construction of its rule until first use, which allows
// self-referencing definitions.
type LazySchema struct {
	name    string
	meta    ir.Meta
	fn      func() Rule
	once    sync.Once
	adapter AnyAdapter
}

// Lazy returns a deferred rule. name identifies the hoisted declaration the
// generator emits for it.
func Lazy(name string, fn func() Rule) *LazySchema {
	return &LazySchema{name: name, fn: fn}
}

// Doc attaches documentation. The returned rule resolves on its own.
func (l *LazySchema) Doc(d Doc) *LazySchema {
	return &LazySchema{name: l.name, meta: d, fn: l.fn}
}

func (l *LazySchema) resolve() AnyAdapter {
	l.once.Do(func() { l.adapter = l.fn().Adapter() })
	return l.adapter
}

func (l *LazySchema) Parse(ctx context.Context, v any) (any, error) {
	return l.resolve().Parse(ctx, v)
}

func (l *LazySchema) Validate(ctx context.Context, v any) error {
	_, err := l.Parse(ctx, v)
	return err
}

// JSONSchema refers to the hoisted definition by name.
func (l *LazySchema) JSONSchema() (*js.Schema, error) {
	return withMeta(&js.Schema{Title: l.name}, l.meta), nil
}

func (l *LazySchema) Describe() ir.Node {
	return &ir.Lazy{
		Base:    ir.Base{Meta: l.meta, Src: l},
		Name:    l.name,
		Resolve: func() ir.Node { return l.resolve().Describe() },
	}
}

func (l *LazySchema) Adapter() AnyAdapter { return adapt[any](l) }
