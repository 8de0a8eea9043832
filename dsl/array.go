package dsl

import (
	"context"
	"reflect"
	"strconv"

	charskema "github.com/reoring/charskema"
	"github.com/reoring/charskema/internal/ir"
	js "github.com/reoring/charskema/jsonschema"
	"github.com/reoring/charskema/rules"
)

// ArraySchema validates every element with the element rule and yields []any.
type ArraySchema struct {
	meta      ir.Meta
	elem      AnyAdapter
	min, max  *int
	uniqueKey string
}

// Array returns an array schema whose elements must satisfy elem.
func Array(elem Rule) *ArraySchema { return &ArraySchema{elem: elem.Adapter()} }

// Min requires at least n elements.
func (a *ArraySchema) Min(n int) *ArraySchema {
	c := *a
	c.min = &n
	return &c
}

// Max allows at most n elements.
func (a *ArraySchema) Max(n int) *ArraySchema {
	c := *a
	c.max = &n
	return &c
}

// UniqueBy requires the value at key to be distinct across elements. The
// check runs only once every element has validated.
func (a *ArraySchema) UniqueBy(key string) *ArraySchema {
	c := *a
	c.uniqueKey = key
	return &c
}

// Doc attaches documentation.
func (a *ArraySchema) Doc(d Doc) *ArraySchema {
	c := *a
	c.meta = d
	return &c
}

// Element returns the element rule.
func (a *ArraySchema) Element() AnyAdapter { return a.elem }

func (a *ArraySchema) Parse(ctx context.Context, v any) ([]any, error) {
	in, ok := asSlice(v)
	if !ok {
		return nil, invalidType("array", v)
	}
	var iss charskema.Issues
	if a.min != nil && len(in) < *a.min {
		iss = append(iss, charskema.Root().Issue(charskema.CodeTooShort, msg(charskema.CodeTooShort, map[string]string{"min": strconv.Itoa(*a.min)}), "min", *a.min, "got", len(in)))
	}
	if a.max != nil && len(in) > *a.max {
		iss = append(iss, charskema.Root().Issue(charskema.CodeTooLong, msg(charskema.CodeTooLong, map[string]string{"max": strconv.Itoa(*a.max)}), "max", *a.max, "got", len(in)))
	}
	if len(iss) > 0 && charskema.IsFailFast(ctx) {
		return nil, iss
	}
	out := make([]any, 0, len(in))
	for i, e := range in {
		pv, err := a.elem.Parse(ctx, e)
		if err != nil {
			iss = append(iss, charskema.Rebase(charskema.IndexPointer("/", i), err)...)
			if charskema.IsFailFast(ctx) {
				return nil, iss
			}
			continue
		}
		out = append(out, pv)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	if a.uniqueKey != "" {
		if dup := rules.UniqueBy(out, a.uniqueKey); len(dup) > 0 {
			return nil, dup
		}
	}
	return out, nil
}

func (a *ArraySchema) Validate(ctx context.Context, v any) error {
	_, err := a.Parse(ctx, v)
	return err
}

func (a *ArraySchema) JSONSchema() (*js.Schema, error) {
	items, err := a.elem.JSONSchema()
	if err != nil {
		return nil, err
	}
	return withMeta(&js.Schema{Type: "array", Items: items, MinItems: a.min, MaxItems: a.max}, a.meta), nil
}

func (a *ArraySchema) Describe() ir.Node {
	return &ir.Array{Base: ir.Base{Meta: a.meta, Src: a}, Item: a.elem.Describe()}
}

func (a *ArraySchema) Adapter() AnyAdapter { return adapt[[]any](a) }

// asSlice accepts []any and other slice kinds except raw bytes.
func asSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []byte, nil:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
