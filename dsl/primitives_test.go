package dsl_test

import (
	"context"
	"encoding/json"
	"testing"

	charskema "github.com/reoring/charskema"
	g "github.com/reoring/charskema/dsl"
)

func firstCode(err error) string {
	iss, ok := charskema.AsIssues(err)
	if !ok || len(iss) == 0 {
		return ""
	}
	return iss[0].Code
}

func TestString_LengthAndPattern(t *testing.T) {
	s := g.String().Min(2).Max(4).Pattern(`^[a-z]+$`)
	ctx := context.Background()
	if _, err := s.Parse(ctx, "abc"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c := firstCode(s.Validate(ctx, "a")); c != charskema.CodeTooShort {
		t.Fatalf("expected too_short, got %q", c)
	}
	if c := firstCode(s.Validate(ctx, "abcde")); c != charskema.CodeTooLong {
		t.Fatalf("expected too_long, got %q", c)
	}
	if c := firstCode(s.Validate(ctx, "AB")); c != charskema.CodePattern {
		t.Fatalf("expected pattern, got %q", c)
	}
	if c := firstCode(s.Validate(ctx, 12)); c != charskema.CodeInvalidType {
		t.Fatalf("expected invalid_type, got %q", c)
	}
}

func TestString_BuildersDoNotShareState(t *testing.T) {
	base := g.String()
	_ = base.Min(5)
	if err := base.Validate(context.Background(), "a"); err != nil {
		t.Fatalf("base schema was mutated: %v", err)
	}
}

func TestFormats(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name string
		s    *g.StringSchema
		ok   []string
		bad  []string
	}{
		{"url", g.URL(), []string{"https://example.com/a.png", "data:image/png;base64,AAAA", "file:///tmp/x", " https://x", "https://x/a\n"}, []string{"", "  ", "example.com", "http://", " example.com "}},
		{"email", g.Email(), []string{"a@example.com"}, []string{"nope", "Bob <a@example.com>"}},
		{"uuid", g.UUID(), []string{"123e4567-e89b-12d3-a456-426614174000"}, []string{"123e4567e89b12d3a456426614174000", "urn:uuid:123e4567-e89b-12d3-a456-426614174000"}},
	}
	for _, tc := range cases {
		for _, v := range tc.ok {
			if err := tc.s.Validate(ctx, v); err != nil {
				t.Errorf("%s: expected %q to pass, got %v", tc.name, v, err)
			}
		}
		for _, v := range tc.bad {
			if c := firstCode(tc.s.Validate(ctx, v)); c != charskema.CodeInvalidFormat {
				t.Errorf("%s: expected %q to fail with invalid_format, got %q", tc.name, v, c)
			}
		}
	}
}

func TestPositiveInteger(t *testing.T) {
	s := g.PositiveInteger()
	ctx := context.Background()
	for _, v := range []any{1, int64(2), 3.0, json.Number("4"), uint64(5)} {
		if _, err := s.Parse(ctx, v); err != nil {
			t.Fatalf("expected %v to pass, got %v", v, err)
		}
	}
	if c := firstCode(s.Validate(ctx, 0)); c != charskema.CodeTooSmall {
		t.Fatalf("expected too_small for 0, got %q", c)
	}
	if c := firstCode(s.Validate(ctx, -3)); c != charskema.CodeTooSmall {
		t.Fatalf("expected too_small for -3, got %q", c)
	}
	if c := firstCode(s.Validate(ctx, 1.5)); c != charskema.CodeInvalidType {
		t.Fatalf("expected invalid_type for 1.5, got %q", c)
	}
	if c := firstCode(s.Validate(ctx, "1")); c != charskema.CodeInvalidType {
		t.Fatalf("expected invalid_type for string, got %q", c)
	}
}

func TestInt32Range(t *testing.T) {
	s := g.Int32()
	if err := s.Validate(context.Background(), 2147483647); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c := firstCode(s.Validate(context.Background(), int64(2147483648))); c != charskema.CodeTooBig {
		t.Fatalf("expected too_big, got %q", c)
	}
}

func TestNumber_RejectsNonNumbers(t *testing.T) {
	s := g.Number().Min(0)
	if v, err := s.Parse(context.Background(), json.Number("2.5")); err != nil || v != 2.5 {
		t.Fatalf("unexpected: %v %v", v, err)
	}
	if c := firstCode(s.Validate(context.Background(), true)); c != charskema.CodeInvalidType {
		t.Fatalf("expected invalid_type, got %q", c)
	}
	if c := firstCode(s.Validate(context.Background(), -1)); c != charskema.CodeTooSmall {
		t.Fatalf("expected too_small, got %q", c)
	}
}

func TestLiteralAndEnum(t *testing.T) {
	ctx := context.Background()
	lit := g.Literal(1)
	for _, v := range []any{1, 1.0, json.Number("1"), uint64(1)} {
		out, err := lit.Parse(ctx, v)
		if err != nil || out != 1 {
			t.Fatalf("literal %v: %v %v", v, out, err)
		}
	}
	if c := firstCode(lit.Validate(ctx, 2)); c != charskema.CodeInvalidLiteral {
		t.Fatalf("expected invalid_literal, got %q", c)
	}
	if c := firstCode(g.Literal("a").Validate(ctx, "b")); c != charskema.CodeInvalidLiteral {
		t.Fatalf("expected invalid_literal, got %q", c)
	}
	role := g.Enum("user", "assistant", "system")
	if _, err := role.Parse(ctx, "system"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c := firstCode(role.Validate(ctx, "bot")); c != charskema.CodeInvalidEnum {
		t.Fatalf("expected invalid_enum, got %q", c)
	}
}

func TestCustomAndBinary(t *testing.T) {
	ctx := context.Background()
	bin := g.Binary()
	if _, err := bin.Parse(ctx, []byte{1, 2}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c := firstCode(bin.Validate(ctx, "AQI=")); c != charskema.CodeCustom {
		t.Fatalf("expected custom, got %q", c)
	}
	even := g.Check(g.Int(), "even", func(v any) bool { return v.(int64)%2 == 0 })
	if out, err := even.Parse(ctx, 4); err != nil || out != int64(4) {
		t.Fatalf("unexpected: %v %v", out, err)
	}
	if c := firstCode(even.Validate(ctx, "4")); c != charskema.CodeInvalidType {
		t.Fatalf("base rule must run first, got %q", c)
	}
	iss, _ := charskema.AsIssues(even.Validate(ctx, 3))
	if len(iss) != 1 || iss[0].Rule != "even" {
		t.Fatalf("unexpected issues: %v", iss)
	}
}

func TestNullable(t *testing.T) {
	s := g.Nullable(g.String())
	if v, err := s.Parse(context.Background(), nil); err != nil || v != nil {
		t.Fatalf("unexpected: %v %v", v, err)
	}
	if c := firstCode(s.Validate(context.Background(), 1)); c != charskema.CodeInvalidType {
		t.Fatalf("expected invalid_type, got %q", c)
	}
}
