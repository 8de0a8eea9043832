package dsl

import (
	"context"
	"regexp"
	"strconv"
	"unicode/utf8"

	charskema "github.com/reoring/charskema"
	"github.com/reoring/charskema/internal/ir"
	js "github.com/reoring/charskema/jsonschema"
)

// ---- string ----

// StringSchema accepts strings, optionally bounded in length, matched against
// a pattern or checked against a named format.
type StringSchema struct {
	meta    ir.Meta
	minLen  *int
	maxLen  *int
	pattern *regexp.Regexp
	format  string
	check   func(string) bool
}

// String returns a string schema without constraints.
func String() *StringSchema { return &StringSchema{} }

// Min requires at least n characters.
func (s *StringSchema) Min(n int) *StringSchema {
	c := *s
	c.minLen = &n
	return &c
}

// Max allows at most n characters.
func (s *StringSchema) Max(n int) *StringSchema {
	c := *s
	c.maxLen = &n
	return &c
}

// Pattern requires the value to match re. It panics on an invalid expression.
func (s *StringSchema) Pattern(re string) *StringSchema {
	c := *s
	c.pattern = regexp.MustCompile(re)
	return &c
}

// Doc attaches documentation.
func (s *StringSchema) Doc(d Doc) *StringSchema {
	c := *s
	c.meta = d
	return &c
}

func (s *StringSchema) withFormat(name string, check func(string) bool) *StringSchema {
	c := *s
	c.format = name
	c.check = check
	return &c
}

func (s *StringSchema) Parse(ctx context.Context, v any) (string, error) {
	str, ok := v.(string)
	if !ok {
		return "", invalidType("string", v)
	}
	var iss charskema.Issues
	n := utf8.RuneCountInString(str)
	if s.minLen != nil && n < *s.minLen {
		iss = append(iss, charskema.Root().Issue(charskema.CodeTooShort, msg(charskema.CodeTooShort, map[string]string{"min": strconv.Itoa(*s.minLen)}), "min", *s.minLen, "got", n))
	}
	if s.maxLen != nil && n > *s.maxLen {
		iss = append(iss, charskema.Root().Issue(charskema.CodeTooLong, msg(charskema.CodeTooLong, map[string]string{"max": strconv.Itoa(*s.maxLen)}), "max", *s.maxLen, "got", n))
	}
	if s.pattern != nil && !s.pattern.MatchString(str) {
		iss = append(iss, charskema.Root().Issue(charskema.CodePattern, msg(charskema.CodePattern, nil), "pattern", s.pattern.String()))
	}
	if s.check != nil && !s.check(str) {
		iss = append(iss, charskema.Root().Issue(charskema.CodeInvalidFormat, msg(charskema.CodeInvalidFormat, map[string]string{"format": s.format}), "format", s.format))
	}
	if len(iss) > 0 {
		return "", iss
	}
	return str, nil
}

func (s *StringSchema) Validate(ctx context.Context, v any) error {
	_, err := s.Parse(ctx, v)
	return err
}

func (s *StringSchema) JSONSchema() (*js.Schema, error) {
	out := withMeta(&js.Schema{Type: "string", Format: s.format, MinLength: s.minLen, MaxLength: s.maxLen}, s.meta)
	if s.pattern != nil {
		out.Pattern = s.pattern.String()
	}
	return out, nil
}

func (s *StringSchema) Describe() ir.Node {
	return &ir.Primitive{Base: ir.Base{Meta: s.meta, Src: s}, Name: "string", Format: s.format}
}

func (s *StringSchema) Adapter() AnyAdapter { return adapt[string](s) }

// ---- boolean ----

// BoolSchema accepts booleans.
type BoolSchema struct {
	meta ir.Meta
}

// Bool returns a boolean schema.
func Bool() *BoolSchema { return &BoolSchema{} }

// Doc attaches documentation.
func (s *BoolSchema) Doc(d Doc) *BoolSchema { return &BoolSchema{meta: d} }

func (s *BoolSchema) Parse(ctx context.Context, v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, invalidType("boolean", v)
	}
	return b, nil
}

func (s *BoolSchema) Validate(ctx context.Context, v any) error {
	_, err := s.Parse(ctx, v)
	return err
}

func (s *BoolSchema) JSONSchema() (*js.Schema, error) {
	return withMeta(&js.Schema{Type: "boolean"}, s.meta), nil
}

func (s *BoolSchema) Describe() ir.Node {
	return &ir.Primitive{Base: ir.Base{Meta: s.meta, Src: s}, Name: "boolean"}
}

func (s *BoolSchema) Adapter() AnyAdapter { return adapt[bool](s) }

// ---- number ----

// NumberSchema accepts finite numbers and yields float64.
type NumberSchema struct {
	meta     ir.Meta
	min, max *float64
}

// Number returns a number schema without bounds.
func Number() *NumberSchema { return &NumberSchema{} }

// Min sets an inclusive lower bound.
func (s *NumberSchema) Min(n float64) *NumberSchema {
	c := *s
	c.min = &n
	return &c
}

// Max sets an inclusive upper bound.
func (s *NumberSchema) Max(n float64) *NumberSchema {
	c := *s
	c.max = &n
	return &c
}

// Doc attaches documentation.
func (s *NumberSchema) Doc(d Doc) *NumberSchema {
	c := *s
	c.meta = d
	return &c
}

func (s *NumberSchema) Parse(ctx context.Context, v any) (float64, error) {
	f, ok := toFloat(v)
	if !ok {
		return 0, invalidType("number", v)
	}
	if err := boundsCheck(f, s.min, s.max); err != nil {
		return 0, err
	}
	return f, nil
}

func (s *NumberSchema) Validate(ctx context.Context, v any) error {
	_, err := s.Parse(ctx, v)
	return err
}

func (s *NumberSchema) JSONSchema() (*js.Schema, error) {
	return withMeta(&js.Schema{Type: "number", Minimum: s.min, Maximum: s.max}, s.meta), nil
}

func (s *NumberSchema) Describe() ir.Node {
	return &ir.Primitive{Base: ir.Base{Meta: s.meta, Src: s}, Name: "number"}
}

func (s *NumberSchema) Adapter() AnyAdapter { return adapt[float64](s) }

// ---- integer ----

// IntSchema accepts integral numbers and yields int64.
type IntSchema struct {
	meta     ir.Meta
	min, max *int64
	format   string
}

// Int returns an integer schema without bounds.
func Int() *IntSchema { return &IntSchema{} }

// Min sets an inclusive lower bound.
func (s *IntSchema) Min(n int64) *IntSchema {
	c := *s
	c.min = &n
	return &c
}

// Max sets an inclusive upper bound.
func (s *IntSchema) Max(n int64) *IntSchema {
	c := *s
	c.max = &n
	return &c
}

// Doc attaches documentation.
func (s *IntSchema) Doc(d Doc) *IntSchema {
	c := *s
	c.meta = d
	return &c
}

func (s *IntSchema) Parse(ctx context.Context, v any) (int64, error) {
	if _, isNum := toFloat(v); !isNum {
		return 0, invalidType("integer", v)
	}
	i, ok := toInt(v)
	if !ok {
		return 0, charskema.Issues{charskema.Root().Issue(charskema.CodeInvalidType, msg(charskema.CodeInvalidType, map[string]string{"expected": "integer"}), "expected", "integer")}
	}
	var lo, hi *float64
	if s.min != nil {
		f := float64(*s.min)
		lo = &f
	}
	if s.max != nil {
		f := float64(*s.max)
		hi = &f
	}
	if err := boundsCheck(float64(i), lo, hi); err != nil {
		return 0, err
	}
	return i, nil
}

func (s *IntSchema) Validate(ctx context.Context, v any) error {
	_, err := s.Parse(ctx, v)
	return err
}

func (s *IntSchema) JSONSchema() (*js.Schema, error) {
	out := withMeta(&js.Schema{Type: "integer", Format: s.format}, s.meta)
	if s.min != nil {
		out.Minimum = js.FloatPtr(float64(*s.min))
	}
	if s.max != nil {
		out.Maximum = js.FloatPtr(float64(*s.max))
	}
	return out, nil
}

func (s *IntSchema) Describe() ir.Node {
	return &ir.Primitive{Base: ir.Base{Meta: s.meta, Src: s}, Name: "integer", Format: s.format}
}

func (s *IntSchema) Adapter() AnyAdapter { return adapt[int64](s) }

func boundsCheck(f float64, lo, hi *float64) error {
	if lo != nil && f < *lo {
		m := strconv.FormatFloat(*lo, 'g', -1, 64)
		return charskema.Issues{charskema.Root().Issue(charskema.CodeTooSmall, msg(charskema.CodeTooSmall, map[string]string{"min": m}), "min", *lo, "got", f)}
	}
	if hi != nil && f > *hi {
		m := strconv.FormatFloat(*hi, 'g', -1, 64)
		return charskema.Issues{charskema.Root().Issue(charskema.CodeTooBig, msg(charskema.CodeTooBig, map[string]string{"max": m}), "max", *hi, "got", f)}
	}
	return nil
}

// ---- literal ----

// LiteralSchema accepts exactly one scalar value and yields the declared value.
type LiteralSchema struct {
	meta  ir.Meta
	value any
}

// Literal returns a schema accepting only v. Numbers compare by value.
func Literal(v any) *LiteralSchema { return &LiteralSchema{value: v} }

// Doc attaches documentation.
func (s *LiteralSchema) Doc(d Doc) *LiteralSchema { return &LiteralSchema{meta: d, value: s.value} }

// Value returns the accepted value.
func (s *LiteralSchema) Value() any { return s.value }

func (s *LiteralSchema) Parse(ctx context.Context, v any) (any, error) {
	if !sameValue(s.value, v) {
		return nil, charskema.Issues{charskema.Root().Issue(charskema.CodeInvalidLiteral, msg(charskema.CodeInvalidLiteral, nil), "expected", s.value)}
	}
	return s.value, nil
}

func (s *LiteralSchema) Validate(ctx context.Context, v any) error {
	_, err := s.Parse(ctx, v)
	return err
}

func (s *LiteralSchema) JSONSchema() (*js.Schema, error) {
	return withMeta(&js.Schema{Const: s.value}, s.meta), nil
}

func (s *LiteralSchema) Describe() ir.Node {
	return &ir.Literal{Base: ir.Base{Meta: s.meta, Src: s}, Value: s.value}
}

func (s *LiteralSchema) Adapter() AnyAdapter { return adapt[any](s) }

// ---- enum ----

// EnumSchema accepts one of a fixed set of strings.
type EnumSchema struct {
	meta   ir.Meta
	values []string
}

// Enum returns a schema accepting any of values.
func Enum(values ...string) *EnumSchema {
	return &EnumSchema{values: append([]string(nil), values...)}
}

// Doc attaches documentation.
func (s *EnumSchema) Doc(d Doc) *EnumSchema { return &EnumSchema{meta: d, values: s.values} }

func (s *EnumSchema) Parse(ctx context.Context, v any) (string, error) {
	str, ok := v.(string)
	if !ok {
		return "", invalidType("string", v)
	}
	for _, allowed := range s.values {
		if str == allowed {
			return str, nil
		}
	}
	return "", charskema.Issues{charskema.Root().Issue(charskema.CodeInvalidEnum, msg(charskema.CodeInvalidEnum, nil), "allowed", s.values, "got", str)}
}

func (s *EnumSchema) Validate(ctx context.Context, v any) error {
	_, err := s.Parse(ctx, v)
	return err
}

func (s *EnumSchema) JSONSchema() (*js.Schema, error) {
	vals := make([]any, len(s.values))
	for i, v := range s.values {
		vals[i] = v
	}
	return withMeta(&js.Schema{Type: "string", Enum: vals}, s.meta), nil
}

func (s *EnumSchema) Describe() ir.Node {
	return &ir.Enum{Base: ir.Base{Meta: s.meta, Src: s}, Values: append([]string(nil), s.values...)}
}

func (s *EnumSchema) Adapter() AnyAdapter { return adapt[string](s) }

// withMeta copies the documentation fields JSON Schema can carry.
func withMeta(s *js.Schema, m ir.Meta) *js.Schema {
	if m.Description != "" {
		s.Description = m.Description
	}
	if m.Deprecated {
		s.Deprecated = true
	}
	if m.Default != nil {
		s.Default = m.Default
	}
	if len(m.Examples) > 0 {
		s.Examples = m.Examples
	}
	return s
}
