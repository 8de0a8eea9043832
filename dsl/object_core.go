package dsl

import (
	"context"
	"reflect"
	"sort"

	charskema "github.com/reoring/charskema"
	"github.com/reoring/charskema/internal/ir"
	js "github.com/reoring/charskema/jsonschema"
)

// ObjectRule is a rule over JSON objects: plain objects, discriminated unions
// and intersections. Keys lists every key the rule knows about.
type ObjectRule interface {
	charskema.Schema[map[string]any]
	Rule
	Describer
	Keys() []string
}

type objectSchema struct {
	fields        map[string]*fieldDef
	required      map[string]struct{}
	unknownPolicy charskema.UnknownPolicy
	refines       []objRefine
	meta          ir.Meta
	sortedKeys    []string
	// declared lists the fields in declaration order, for descriptors.
	declared      []string
}

var _ ObjectRule = (*objectSchema)(nil)

type objRefine struct {
	name string
	fn   func(context.Context, map[string]any) error
}

// asObject accepts map[string]any and other maps keyed by strings.
func asObject(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// collectKnown parses known fields in key order and applies defaults.
func (o *objectSchema) collectKnown(ctx context.Context, src map[string]any) (map[string]any, charskema.Issues) {
	out := make(map[string]any, len(src))
	var iss charskema.Issues
	for _, k := range o.sortedKeys {
		fd := o.fields[k]
		base := charskema.FieldPointer("/", k)
		if val, exists := src[k]; exists {
			parsed, err := fd.ad.Parse(ctx, val)
			if err != nil {
				iss = charskema.AppendIssues(iss, charskema.Rebase(base, err)...)
				if charskema.IsFailFast(ctx) {
					return out, iss
				}
				continue
			}
			out[k] = parsed
			continue
		}
		// missing: apply default if provided; otherwise enforce required
		if fd.ad.applyDefault != nil {
			dv, err := fd.ad.applyDefault(ctx)
			if err != nil {
				iss = charskema.AppendIssues(iss, charskema.Rebase(base, err)...)
				if charskema.IsFailFast(ctx) {
					return out, iss
				}
				continue
			}
			out[k] = dv
			continue
		}
		if _, req := o.required[k]; req {
			iss = charskema.AppendIssues(iss, charskema.Issue{Path: base, Code: charskema.CodeRequired, Message: msg(charskema.CodeRequired, nil), Hint: "required property missing"})
			if charskema.IsFailFast(ctx) {
				return out, iss
			}
		}
	}
	return out, iss
}

// collectUnknown processes unknown keys according to unknownPolicy and may write into out for passthrough.
func (o *objectSchema) collectUnknown(src map[string]any, out map[string]any) charskema.Issues {
	var iss charskema.Issues
	// unknown keys in key-sorted order
	uks := make([]string, 0, len(src))
	for k := range src {
		if _, known := o.fields[k]; !known {
			uks = append(uks, k)
		}
	}
	sort.Strings(uks)
	for _, k := range uks {
		switch o.unknownPolicy {
		case charskema.UnknownStrict:
			iss = charskema.AppendIssues(iss, charskema.Issue{Path: charskema.FieldPointer("/", k), Code: charskema.CodeUnknownKey, Message: msg(charskema.CodeUnknownKey, map[string]string{"key": k})})
		case charskema.UnknownStrip:
			// drop
		case charskema.UnknownPassthrough:
			out[k] = src[k]
		}
	}
	return iss
}

func (o *objectSchema) Parse(ctx context.Context, v any) (map[string]any, error) {
	src, ok := asObject(v)
	if !ok {
		return nil, invalidType("object", v)
	}
	out, iss := o.collectKnown(ctx, src)
	if charskema.IsFailFast(ctx) && len(iss) > 0 {
		return nil, iss
	}
	if issUnknown := o.collectUnknown(src, out); len(issUnknown) > 0 {
		iss = charskema.AppendIssues(iss, issUnknown...)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	if err := charskema.ApplyRefine[map[string]any](ctx, out, o); err != nil {
		return nil, err
	}
	return out, nil
}

func (o *objectSchema) Validate(ctx context.Context, v any) error {
	_, err := o.Parse(ctx, v)
	return err
}

// Refine implements charskema.Refiner[map[string]any] using builder-registered hooks.
func (o *objectSchema) Refine(ctx context.Context, v map[string]any) error {
	if len(o.refines) == 0 {
		return nil
	}
	var iss charskema.Issues
	for _, r := range o.refines {
		if err := r.fn(ctx, v); err != nil {
			if i2, ok := charskema.AsIssues(err); ok {
				for _, it := range i2 {
					if it.Rule == "" {
						it.Rule = r.name
					}
					iss = charskema.AppendIssues(iss, it)
				}
			} else {
				iss = charskema.AppendIssues(iss, charskema.Issue{Path: "/", Code: charskema.CodeCustom, Message: err.Error(), Cause: err, Rule: r.name})
			}
			if charskema.IsFailFast(ctx) {
				return iss
			}
		}
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

func (o *objectSchema) JSONSchema() (*js.Schema, error) {
	out := withMeta(&js.Schema{Type: "object", Properties: make(map[string]*js.Schema, len(o.sortedKeys))}, o.meta)
	for _, k := range o.sortedKeys {
		fd := o.fields[k]
		ps, err := fd.ad.JSONSchema()
		if err != nil {
			return nil, err
		}
		if ps == nil {
			ps = &js.Schema{}
		}
		out.Properties[k] = withMeta(ps, fd.doc)
		if _, req := o.required[k]; req {
			out.Required = append(out.Required, k)
		}
	}
	if o.unknownPolicy == charskema.UnknownStrict {
		out.AdditionalProperties = false
	}
	return out, nil
}

func (o *objectSchema) Describe() ir.Node {
	n := &ir.Object{
		Base:   ir.Base{Meta: o.meta, Src: o},
		Fields: make([]ir.Field, 0, len(o.declared)),
		Strict: o.unknownPolicy == charskema.UnknownStrict,
	}
	for _, k := range o.declared {
		fd := o.fields[k]
		_, req := o.required[k]
		n.Fields = append(n.Fields, ir.Field{
			Name:       k,
			Node:       fd.ad.Describe(),
			Optional:   !req && !fd.hasDef,
			HasDefault: fd.hasDef,
			Default:    fd.def,
			Meta:       fd.doc,
			Pos:        fd.pos,
		})
	}
	return n
}

func (o *objectSchema) Keys() []string { return append([]string(nil), o.sortedKeys...) }

func (o *objectSchema) Adapter() AnyAdapter { return adapt[map[string]any](o) }
