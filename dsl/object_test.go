package dsl_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	charskema "github.com/reoring/charskema"
	g "github.com/reoring/charskema/dsl"
)

func codesAt(err error) map[string]string {
	iss, _ := charskema.AsIssues(err)
	out := map[string]string{}
	for _, it := range iss {
		out[it.Path] = it.Code
	}
	return out
}

func TestObject_RequiredUnknownAndNestedPaths(t *testing.T) {
	inner := g.Object().Field("n", g.Int()).Required().MustBuild()
	s := g.Object().
		Field("name", g.String()).Required().
		Field("inner", inner).Required().
		MustBuild()

	_, err := s.Parse(context.Background(), map[string]any{
		"inner": map[string]any{"n": "x"},
		"extra": 1,
	})
	got := codesAt(err)
	want := map[string]string{
		"/name":    charskema.CodeRequired,
		"/inner/n": charskema.CodeInvalidType,
		"/extra":   charskema.CodeUnknownKey,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected issues: got %v want %v", got, want)
	}
}

func TestObject_DefaultsAreParsedAndNotShared(t *testing.T) {
	meta := g.Object().
		Field("license", g.String()).Default("ARR").
		Field("author", g.String()).
		MustBuild()
	s := g.Object().
		Field("meta", meta).Default(map[string]any{}).
		Field("tags", g.Array(g.String())).Default([]any{}).
		MustBuild()

	a, err := s.Parse(context.Background(), map[string]any{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := map[string]any{"meta": map[string]any{"license": "ARR"}, "tags": []any{}}
	if !reflect.DeepEqual(a, want) {
		t.Fatalf("got %#v want %#v", a, want)
	}
	a["tags"] = append(a["tags"].([]any), "mutated")
	b, _ := s.Parse(context.Background(), map[string]any{})
	if len(b["tags"].([]any)) != 0 {
		t.Fatalf("default leaked between parses: %#v", b)
	}
}

func TestObject_DefaultFunc(t *testing.T) {
	n := 0
	s := g.Object().Field("seq", g.Int()).DefaultFunc(func() any { n++; return n }).MustBuild()
	v1, _ := s.Parse(context.Background(), map[string]any{})
	v2, _ := s.Parse(context.Background(), map[string]any{})
	if v1["seq"] != int64(1) || v2["seq"] != int64(2) {
		t.Fatalf("expected computed defaults, got %v %v", v1, v2)
	}
	v3, _ := s.Parse(context.Background(), map[string]any{"seq": 10})
	if v3["seq"] != int64(10) {
		t.Fatalf("expected explicit value to win, got %v", v3)
	}
}

func TestObject_InputNotMutated(t *testing.T) {
	s := g.Object().Field("a", g.String()).Default("x").MustBuild()
	in := map[string]any{}
	if _, err := s.Parse(context.Background(), in); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(in) != 0 {
		t.Fatalf("input mutated: %v", in)
	}
}

func TestObject_NullIsNotMissing(t *testing.T) {
	s := g.Object().Field("url", g.URL()).MustBuild()
	if _, err := s.Parse(context.Background(), map[string]any{}); err != nil {
		t.Fatalf("absent optional must pass: %v", err)
	}
	_, err := s.Parse(context.Background(), map[string]any{"url": nil})
	if codesAt(err)["/url"] != charskema.CodeInvalidType {
		t.Fatalf("expected invalid_type for null, got %v", err)
	}
}

func TestObject_UnknownPolicies(t *testing.T) {
	in := map[string]any{"a": "x", "b": 1}
	strip := g.Object().Field("a", g.String()).UnknownStrip().MustBuild()
	v, err := strip.Parse(context.Background(), in)
	if err != nil || len(v) != 1 {
		t.Fatalf("strip: %v %v", v, err)
	}
	pass := g.Object().Field("a", g.String()).UnknownPassthrough().MustBuild()
	v, err = pass.Parse(context.Background(), in)
	if err != nil || v["b"] != 1 {
		t.Fatalf("passthrough: %v %v", v, err)
	}
}

func TestObject_RefineRunsAfterShape(t *testing.T) {
	calls := 0
	s := g.Object().
		Field("min", g.Int()).Required().
		Field("max", g.Int()).Required().
		Refine("ordered", func(ctx context.Context, m map[string]any) error {
			calls++
			if m["min"].(int64) > m["max"].(int64) {
				return charskema.Issues{charskema.Root().Field("min").Issue(charskema.CodeTooBig, "min exceeds max")}
			}
			return nil
		}).
		MustBuild()

	if _, err := s.Parse(context.Background(), map[string]any{"min": "x", "max": 1}); err == nil {
		t.Fatalf("expected shape error")
	}
	if calls != 0 {
		t.Fatalf("refine must not run on invalid shape")
	}
	_, err := s.Parse(context.Background(), map[string]any{"min": 5, "max": 1})
	iss, _ := charskema.AsIssues(err)
	if len(iss) != 1 || iss[0].Path != "/min" || iss[0].Rule != "ordered" {
		t.Fatalf("unexpected refine issues: %v", iss)
	}
	_, err = g.Object().Refine("plain", func(context.Context, map[string]any) error { return errors.New("boom") }).MustBuild().
		Parse(context.Background(), map[string]any{})
	if codesAt(err)["/"] != charskema.CodeCustom {
		t.Fatalf("expected custom issue, got %v", err)
	}
}

func TestObject_FailFastStopsAtFirstIssue(t *testing.T) {
	s := g.Object().
		Field("a", g.String()).Required().
		Field("b", g.String()).Required().
		MustBuild()
	_, err := s.Parse(charskema.WithFailFast(context.Background(), true), map[string]any{})
	iss, _ := charskema.AsIssues(err)
	if len(iss) != 1 || iss[0].Path != "/a" {
		t.Fatalf("expected only /a, got %v", iss)
	}
}

func TestObject_BuildErrors(t *testing.T) {
	if _, err := g.Object().Field("a", g.String()).Field("a", g.Int()).Build(); err == nil {
		t.Fatalf("expected duplicate field error")
	}
	if _, err := g.Object().Require("ghost").Build(); err == nil {
		t.Fatalf("expected undeclared required error")
	}
	if _, err := g.Object().Discriminator("type").Build(); err == nil {
		t.Fatalf("expected missing variants error")
	}
}

func TestObject_JSONSchema(t *testing.T) {
	s := g.Object().
		Doc(g.Doc{Description: "A thing."}).
		Field("name", g.String()).Doc(g.Doc{Description: "Display name."}).Required().
		Field("license", g.String()).Default("ARR").
		MustBuild()
	js, err := s.JSONSchema()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if js.Type != "object" || js.Description != "A thing." || js.AdditionalProperties != false {
		t.Fatalf("unexpected root: %+v", js)
	}
	if !reflect.DeepEqual(js.Required, []string{"name"}) {
		t.Fatalf("unexpected required: %v", js.Required)
	}
	if js.Properties["license"].Default != "ARR" || js.Properties["name"].Description != "Display name." {
		t.Fatalf("unexpected properties: %+v", js.Properties)
	}
}
