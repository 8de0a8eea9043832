package gen

import (
	"reflect"
	"time"

	"github.com/reoring/charskema/internal/ir"
)

// knownTypes maps Go types accepted by InstanceOf checks to their
// declaration type.
var knownTypes = map[reflect.Type]string{
	reflect.TypeOf((*[]byte)(nil)).Elem():         "Uint8Array",
	reflect.TypeOf((*time.Time)(nil)).Elem():      "Date",
	reflect.TypeOf((*string)(nil)).Elem():         "string",
	reflect.TypeOf((*bool)(nil)).Elem():           "boolean",
	reflect.TypeOf((*float64)(nil)).Elem():        "number",
	reflect.TypeOf((*int64)(nil)).Elem():          "number",
	reflect.TypeOf((*int)(nil)).Elem():            "number",
	reflect.TypeOf((*map[string]any)(nil)).Elem(): "Record<string, unknown>",
	reflect.TypeOf((*[]any)(nil)).Elem():          "unknown[]",
}

type probeSample struct {
	ts    string
	value any
}

// probeSamples are representative values of the types a predicate may test
// for, in resolution order.
var probeSamples = []probeSample{
	{ts: "Uint8Array", value: []byte{0x00}},
	{ts: "Date", value: time.Unix(0, 0).UTC()},
	{ts: "string", value: "sample"},
	{ts: "number", value: float64(1)},
	{ts: "boolean", value: true},
	{ts: "Record<string, unknown>", value: map[string]any{}},
	{ts: "unknown[]", value: []any{}},
}

// customType resolves the declaration type of a custom rule without an
// explicit override. ok is false when nothing applies; render is used for
// the base node of refinements.
func (r *moduleRenderer) customType(c *ir.Custom, level int, hint string) (string, bool, error) {
	for _, chk := range c.Checks {
		if chk.Kind != ir.CheckInstanceOf || chk.Type == nil {
			continue
		}
		if ts, ok := knownTypes[chk.Type]; ok {
			return ts, true, nil
		}
	}
	if r.g.opt.ProbeCustom && c.Predicate != nil {
		if ts, ok := probe(c.Predicate); ok {
			return ts, true, nil
		}
	}
	for _, chk := range c.Checks {
		if chk.Kind != ir.CheckRefinement {
			continue
		}
		if c.Refines == nil {
			return "unknown", true, nil
		}
		ts, err := r.typeExpr(c.Refines, level, hint)
		return ts, err == nil, err
	}
	return "", false, nil
}

// probe finds the single sample type pred accepts. A predicate accepting
// several samples, or none, is ambiguous.
func probe(pred func(any) bool) (string, bool) {
	match := ""
	for _, s := range probeSamples {
		if safeCall(pred, s.value) {
			if match != "" {
				return "", false
			}
			match = s.ts
		}
	}
	return match, match != ""
}

func safeCall(pred func(any) bool, v any) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return pred(v)
}
