package dsl

import (
	"context"
	"sort"

	charskema "github.com/reoring/charskema"
	"github.com/reoring/charskema/internal/ir"
	js "github.com/reoring/charskema/jsonschema"
)

// unionSchema is a discriminated union over objects. The discriminator value
// selects exactly one variant, which then validates the whole object.
type unionSchema struct {
	discriminator string
	order         []string
	mapping       map[string]ObjectRule
	meta          ir.Meta
}

var _ ObjectRule = (*unionSchema)(nil)

// Union builds a discriminated union directly. It is equivalent to
// Object().Discriminator(key).OneOf(vars...).MustBuild().
func Union(key string, vars ...UnionVariant) ObjectRule {
	return Object().Discriminator(key).OneOf(vars...).MustBuild()
}

func newUnion(key string, vars []UnionVariant, meta ir.Meta) (*unionSchema, error) {
	u := &unionSchema{discriminator: key, mapping: make(map[string]ObjectRule, len(vars)), meta: meta}
	for _, v := range vars {
		if _, dup := u.mapping[v.name]; dup {
			return nil, charskema.Issues{{Path: "/", Code: charskema.CodeDuplicateKey, Message: "variant '" + v.name + "' declared twice"}}
		}
		u.mapping[v.name] = v.schema
		u.order = append(u.order, v.name)
	}
	return u, nil
}

func (u *unionSchema) tags() []string {
	out := append([]string(nil), u.order...)
	sort.Strings(out)
	return out
}

func (u *unionSchema) Parse(ctx context.Context, v any) (map[string]any, error) {
	m, ok := asObject(v)
	if !ok {
		return nil, invalidType("object", v)
	}
	p := charskema.FieldPointer("/", u.discriminator)
	dv, present := m[u.discriminator]
	if !present {
		return nil, charskema.Issues{{Path: p, Code: charskema.CodeDiscriminatorMissing, Message: msg(charskema.CodeDiscriminatorMissing, nil), Hint: "discriminator missing", Params: map[string]any{"allowed": u.tags()}}}
	}
	tag, _ := dv.(string)
	s, ok := u.mapping[tag]
	if !ok {
		return nil, charskema.Issues{{Path: p, Code: charskema.CodeDiscriminatorUnknown, Message: msg(charskema.CodeDiscriminatorUnknown, nil), Hint: "unknown variant", Params: map[string]any{"allowed": u.tags(), "got": dv}}}
	}
	return s.Parse(ctx, m)
}

func (u *unionSchema) Validate(ctx context.Context, v any) error {
	_, err := u.Parse(ctx, v)
	return err
}

func (u *unionSchema) JSONSchema() (*js.Schema, error) {
	out := withMeta(&js.Schema{}, u.meta)
	out.OneOf = make([]*js.Schema, 0, len(u.order))
	for _, tag := range u.order {
		vs, err := u.mapping[tag].JSONSchema()
		if err != nil {
			return nil, err
		}
		out.OneOf = append(out.OneOf, vs)
	}
	return out, nil
}

func (u *unionSchema) Describe() ir.Node {
	n := &ir.Union{Base: ir.Base{Meta: u.meta, Src: u}, Discriminator: u.discriminator}
	for _, tag := range u.order {
		n.Variants = append(n.Variants, ir.Variant{Tag: tag, Node: u.mapping[tag].Describe()})
	}
	return n
}

// Keys is the discriminator plus the keys of every variant.
func (u *unionSchema) Keys() []string {
	set := map[string]struct{}{u.discriminator: {}}
	for _, s := range u.mapping {
		for _, k := range s.Keys() {
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

func (u *unionSchema) Adapter() AnyAdapter { return adapt[map[string]any](u) }

// AnyOfSchema is an untagged union: alternatives are tried in order and the
// first that accepts the value wins.
type AnyOfSchema struct {
	meta ir.Meta
	alts []AnyAdapter
}

// AnyOf returns an untagged union of rules.
func AnyOf(rules ...Rule) *AnyOfSchema {
	alts := make([]AnyAdapter, len(rules))
	for i, r := range rules {
		alts[i] = r.Adapter()
	}
	return &AnyOfSchema{alts: alts}
}

// Doc attaches documentation.
func (a *AnyOfSchema) Doc(d Doc) *AnyOfSchema { return &AnyOfSchema{meta: d, alts: a.alts} }

func (a *AnyOfSchema) Parse(ctx context.Context, v any) (any, error) {
	codes := make([][]string, 0, len(a.alts))
	for _, alt := range a.alts {
		out, err := alt.Parse(ctx, v)
		if err == nil {
			return out, nil
		}
		iss, _ := charskema.AsIssues(err)
		codes = append(codes, iss.Codes())
	}
	return nil, charskema.Issues{{Path: "/", Code: charskema.CodeInvalidUnion, Message: msg(charskema.CodeInvalidUnion, nil), Params: map[string]any{"alternatives": codes}}}
}

func (a *AnyOfSchema) Validate(ctx context.Context, v any) error {
	_, err := a.Parse(ctx, v)
	return err
}

func (a *AnyOfSchema) JSONSchema() (*js.Schema, error) {
	out := withMeta(&js.Schema{}, a.meta)
	for _, alt := range a.alts {
		s, err := alt.JSONSchema()
		if err != nil {
			return nil, err
		}
		out.AnyOf = append(out.AnyOf, s)
	}
	return out, nil
}

func (a *AnyOfSchema) Describe() ir.Node {
	n := &ir.Union{Base: ir.Base{Meta: a.meta, Src: a}}
	for _, alt := range a.alts {
		n.Variants = append(n.Variants, ir.Variant{Node: alt.Describe()})
	}
	return n
}

func (a *AnyOfSchema) Adapter() AnyAdapter { return adapt[any](a) }
