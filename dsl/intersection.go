package dsl

import (
	"context"
	"sort"

	charskema "github.com/reoring/charskema"
	"github.com/reoring/charskema/internal/ir"
	js "github.com/reoring/charskema/jsonschema"
)

// intersectionSchema requires every part to accept the object. Each part sees
// only the keys it knows; keys no part knows are unknown keys.
type intersectionSchema struct {
	parts []ObjectRule
	meta  ir.Meta
}

var _ ObjectRule = (*intersectionSchema)(nil)

// Intersection combines object rules. The output merges the parts' outputs.
func Intersection(parts ...ObjectRule) ObjectRule {
	return &intersectionSchema{parts: parts}
}

// IntersectionDoc is Intersection with documentation attached.
func IntersectionDoc(d Doc, parts ...ObjectRule) ObjectRule {
	return &intersectionSchema{parts: parts, meta: d}
}

func (s *intersectionSchema) Parse(ctx context.Context, v any) (map[string]any, error) {
	src, ok := asObject(v)
	if !ok {
		return nil, invalidType("object", v)
	}
	out := make(map[string]any, len(src))
	known := make(map[string]struct{})
	var iss charskema.Issues
	for _, p := range s.parts {
		view := make(map[string]any)
		for _, k := range p.Keys() {
			known[k] = struct{}{}
			if val, ok := src[k]; ok {
				view[k] = val
			}
		}
		po, err := p.Parse(ctx, view)
		if err != nil {
			iss = charskema.AppendIssues(iss, charskema.Rebase("/", err)...)
			if charskema.IsFailFast(ctx) {
				return nil, iss
			}
			continue
		}
		for k, val := range po {
			out[k] = val
		}
	}
	var unknown []string
	for k := range src {
		if _, ok := known[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	for _, k := range unknown {
		iss = charskema.AppendIssues(iss, charskema.Issue{Path: charskema.FieldPointer("/", k), Code: charskema.CodeUnknownKey, Message: msg(charskema.CodeUnknownKey, map[string]string{"key": k})})
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func (s *intersectionSchema) Validate(ctx context.Context, v any) error {
	_, err := s.Parse(ctx, v)
	return err
}

func (s *intersectionSchema) JSONSchema() (*js.Schema, error) {
	out := withMeta(&js.Schema{}, s.meta)
	for _, p := range s.parts {
		ps, err := p.JSONSchema()
		if err != nil {
			return nil, err
		}
		out.AllOf = append(out.AllOf, ps)
	}
	return out, nil
}

func (s *intersectionSchema) Describe() ir.Node {
	n := &ir.Intersection{Base: ir.Base{Meta: s.meta, Src: s}}
	for _, p := range s.parts {
		n.Parts = append(n.Parts, p.Describe())
	}
	return n
}

func (s *intersectionSchema) Keys() []string {
	set := map[string]struct{}{}
	for _, p := range s.parts {
		for _, k := range p.Keys() {
			set[k] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (s *intersectionSchema) Adapter() AnyAdapter { return adapt[map[string]any](s) }
