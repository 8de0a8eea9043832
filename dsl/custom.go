package dsl

import (
	"context"
	"reflect"

	charskema "github.com/reoring/charskema"
	"github.com/reoring/charskema/internal/ir"
	js "github.com/reoring/charskema/jsonschema"
)

// CustomSchema validates through a predicate. Its declaration type cannot be
// derived from the predicate, so generation relies on the stored check
// descriptors or on an explicit override.
type CustomSchema struct {
	meta    ir.Meta
	pred    func(any) bool
	checks  []ir.Check
	message string
	base    *AnyAdapter
}

// Custom returns a rule accepting values for which pred returns true.
func Custom(pred func(any) bool) *CustomSchema {
	return &CustomSchema{pred: pred, checks: []ir.Check{{Kind: ir.CheckPredicate}}}
}

// InstanceOf accepts values whose dynamic type is T.
func InstanceOf[T any]() *CustomSchema {
	return &CustomSchema{
		pred:   func(v any) bool { _, ok := v.(T); return ok },
		checks: []ir.Check{{Kind: ir.CheckInstanceOf, Type: reflect.TypeOf((*T)(nil)).Elem()}},
	}
}

// Binary accepts raw bytes.
func Binary() *CustomSchema { return InstanceOf[[]byte]() }

// Check narrows base with a named predicate applied to the parsed value. The
// declaration type stays the type of base.
func Check(base Rule, name string, pred func(any) bool) *CustomSchema {
	ad := base.Adapter()
	return &CustomSchema{
		pred:   pred,
		checks: []ir.Check{{Kind: ir.CheckRefinement, Name: name}},
		base:   &ad,
	}
}

// TypeOverride fixes the declaration type emitted for this rule.
func (c *CustomSchema) TypeOverride(ts string) *CustomSchema {
	cc := *c
	cc.meta.TypeOverride = ts
	return &cc
}

// Message sets the issue message reported on failure.
func (c *CustomSchema) Message(m string) *CustomSchema {
	cc := *c
	cc.message = m
	return &cc
}

// Doc attaches documentation. A TypeOverride already set is kept unless d
// sets its own.
func (c *CustomSchema) Doc(d Doc) *CustomSchema {
	cc := *c
	if d.TypeOverride == "" {
		d.TypeOverride = c.meta.TypeOverride
	}
	cc.meta = d
	return &cc
}

func (c *CustomSchema) Parse(ctx context.Context, v any) (any, error) {
	val := v
	if c.base != nil {
		out, err := c.base.Parse(ctx, v)
		if err != nil {
			return nil, err
		}
		val = out
	}
	if c.pred != nil && !c.pred(val) {
		m := c.message
		if m == "" {
			m = msg(charskema.CodeCustom, nil)
		}
		it := charskema.Issue{Path: "/", Code: charskema.CodeCustom, Message: m}
		if len(c.checks) > 0 {
			it.Rule = c.checks[0].Name
		}
		return nil, charskema.Issues{it}
	}
	return val, nil
}

func (c *CustomSchema) Validate(ctx context.Context, v any) error {
	_, err := c.Parse(ctx, v)
	return err
}

func (c *CustomSchema) JSONSchema() (*js.Schema, error) {
	if c.base != nil {
		s, err := c.base.JSONSchema()
		if err != nil {
			return nil, err
		}
		return withMeta(s, c.meta), nil
	}
	out := &js.Schema{}
	for _, chk := range c.checks {
		if chk.Kind == ir.CheckInstanceOf && chk.Type == reflect.TypeOf((*[]byte)(nil)).Elem() {
			out.Type = "string"
			out.Format = "binary"
		}
	}
	return withMeta(out, c.meta), nil
}

func (c *CustomSchema) Describe() ir.Node {
	n := &ir.Custom{
		Base:      ir.Base{Meta: c.meta, Src: c},
		Checks:    append([]ir.Check(nil), c.checks...),
		Predicate: c.pred,
	}
	if c.base != nil {
		n.Refines = c.base.Describe()
	}
	return n
}

func (c *CustomSchema) Adapter() AnyAdapter { return adapt[any](c) }
