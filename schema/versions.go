// Package schema dispatches character input to the schema generation named
// by its specVersion tag.
package schema

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"strconv"

	charskema "github.com/reoring/charskema"
	"github.com/reoring/charskema/dsl"
	v1 "github.com/reoring/charskema/schema/v1"
)

// SpecVersion is the closed set of character schema generations.
type SpecVersion int

const (
	V1 SpecVersion = v1.Version

	// Latest is the generation new characters are written in.
	Latest = V1
)

// VersionKey is the discriminator field every character carries.
const VersionKey = "specVersion"

var generations = map[SpecVersion]dsl.ObjectRule{
	V1: v1.CharacterSchema,
}

func (v SpecVersion) String() string { return "v" + strconv.Itoa(int(v)) }

// Versions lists the known generations in ascending order.
func Versions() []SpecVersion {
	out := make([]SpecVersion, 0, len(generations))
	for v := range generations {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Lookup returns the character schema of generation v.
func Lookup(v SpecVersion) (dsl.ObjectRule, bool) {
	s, ok := generations[v]
	return s, ok
}

// DetectVersion reads the specVersion tag of a plain character value.
func DetectVersion(input any) (SpecVersion, error) {
	pointer := charskema.FieldPointer("/", VersionKey)
	m, ok := input.(map[string]any)
	if !ok {
		return 0, charskema.Issues{{Path: "/", Code: charskema.CodeInvalidType, Message: "character must be an object", Params: map[string]any{"expected": "object"}}}
	}
	raw, present := m[VersionKey]
	if !present {
		return 0, charskema.Issues{{Path: pointer, Code: charskema.CodeDiscriminatorMissing, Message: "specVersion is missing", Params: map[string]any{"allowed": Versions()}}}
	}
	v, ok := asVersion(raw)
	if !ok {
		return 0, charskema.Issues{{Path: pointer, Code: charskema.CodeDiscriminatorUnknown, Message: "unsupported specVersion", Params: map[string]any{"allowed": Versions(), "got": raw}}}
	}
	if _, known := generations[v]; !known {
		return 0, charskema.Issues{{Path: pointer, Code: charskema.CodeDiscriminatorUnknown, Message: "unsupported specVersion", Params: map[string]any{"allowed": Versions(), "got": raw}}}
	}
	return v, nil
}

// ParseCharacter validates input against the generation it declares.
func ParseCharacter(ctx context.Context, input any) (map[string]any, SpecVersion, error) {
	v, err := DetectVersion(input)
	if err != nil {
		return nil, 0, err
	}
	out, err := generations[v].Parse(ctx, input)
	if err != nil {
		return nil, v, err
	}
	return out, v, nil
}

// ParseCharacterFrom decodes src and validates it with ParseCharacter.
func ParseCharacterFrom(ctx context.Context, src charskema.Source, opts ...charskema.ParseOpt) (map[string]any, SpecVersion, error) {
	var opt charskema.ParseOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	if opt.FailFast {
		ctx = charskema.WithFailFast(ctx, true)
	}
	val, err := charskema.Decode(src, opt)
	if err != nil {
		return nil, 0, err
	}
	return ParseCharacter(ctx, val)
}

func asVersion(raw any) (SpecVersion, bool) {
	var f float64
	switch n := raw.(type) {
	case int:
		return SpecVersion(n), true
	case int64:
		return SpecVersion(n), true
	case uint64:
		if n > math.MaxInt32 {
			return 0, false
		}
		return SpecVersion(n), true
	case float64:
		f = n
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return SpecVersion(f), true
}
