package ir

// Package ir defines the descriptor tree every dsl rule projects into. The
// declaration generator walks it; validation never reads it.

import "reflect"

// NodeKind identifies an IR node type.
type NodeKind int

const (
	NodePrimitive NodeKind = iota
	NodeLiteral
	NodeEnum
	NodeArray
	NodeObject
	NodeUnion
	NodeIntersection
	NodeCustom
	NodeLazy
)

func (k NodeKind) String() string {
	switch k {
	case NodePrimitive:
		return "primitive"
	case NodeLiteral:
		return "literal"
	case NodeEnum:
		return "enum"
	case NodeArray:
		return "array"
	case NodeObject:
		return "object"
	case NodeUnion:
		return "union"
	case NodeIntersection:
		return "intersection"
	case NodeCustom:
		return "custom"
	case NodeLazy:
		return "lazy"
	}
	return "unknown"
}

// Node is the root IR node interface. The set of kinds is closed.
type Node interface {
	Kind() NodeKind
	// Annotations returns the documentation record attached to the node.
	Annotations() *Meta
	// Origin returns the rule value that produced the node. Two nodes with the
	// same origin describe the same rule instance.
	Origin() any
}

// Meta is the documentation side channel of a node.
type Meta struct {
	Description string
	Deprecated  bool
	// DeprecationNote is rendered next to the deprecated tag when set.
	DeprecationNote string
	Since           string
	// Default documents a default value. When nil the generator falls back to
	// the static default of the field, if any.
	Default  any
	Examples []any
	See      []string
	// TypeOverride is the target-language type to emit instead of deriving
	// one from the node.
	TypeOverride string
	// Name hoists the node into a standalone auxiliary declaration.
	Name string
}

// Empty reports whether m carries no documentation.
func (m Meta) Empty() bool {
	return m.Description == "" && !m.Deprecated && m.Since == "" && m.Default == nil &&
		len(m.Examples) == 0 && len(m.See) == 0
}

// Base carries the fields shared by every node.
type Base struct {
	Meta Meta
	Src  any
}

func (b *Base) Annotations() *Meta { return &b.Meta }
func (b *Base) Origin() any        { return b.Src }

// Primitive represents string/number/integer/boolean/unknown values.
type Primitive struct {
	Base
	Name   string // "string"|"number"|"integer"|"boolean"|"unknown"
	Format string // e.g. "url", "email", "uuid", "int32"; informational only
}

func (p *Primitive) Kind() NodeKind { return NodePrimitive }

// Literal accepts exactly one value.
type Literal struct {
	Base
	Value any
}

func (l *Literal) Kind() NodeKind { return NodeLiteral }

// Enum accepts one of a fixed set of strings.
type Enum struct {
	Base
	Values []string
}

func (e *Enum) Kind() NodeKind { return NodeEnum }

// Array represents an array of items.
type Array struct {
	Base
	Item Node
}

func (a *Array) Kind() NodeKind { return NodeArray }

// Object represents an object with fields in declaration order.
type Object struct {
	Base
	Fields []Field
	Strict bool
}

func (o *Object) Kind() NodeKind { return NodeObject }

// Field returns the field with the given name.
func (o *Object) Field(name string) (Field, bool) {
	for _, f := range o.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Pos is the source location where a field was declared.
type Pos struct {
	File string
	Line int
}

// Field maps a JSON name to a node.
type Field struct {
	Name string
	Node Node
	// Optional fields may be absent from the validated value. Fields with a
	// default are always present and therefore not optional.
	Optional   bool
	HasDefault bool
	Default    any // static default; nil for computed defaults
	Meta       Meta
	Pos        Pos
}

// Variant is one alternative of a union.
type Variant struct {
	Tag  string // discriminator value; empty for untagged unions
	Node Node
}

// Union accepts exactly one of its variants.
type Union struct {
	Base
	Discriminator string // empty for untagged unions
	Variants      []Variant
}

func (u *Union) Kind() NodeKind { return NodeUnion }

// Intersection requires every part to accept the value.
type Intersection struct {
	Base
	Parts []Node
}

func (i *Intersection) Kind() NodeKind { return NodeIntersection }

// CheckKind classifies a stored custom check.
type CheckKind int

const (
	// CheckPredicate is an opaque boolean predicate.
	CheckPredicate CheckKind = iota
	// CheckInstanceOf accepts values of a concrete Go type.
	CheckInstanceOf
	// CheckRefinement narrows a base node without changing its type.
	CheckRefinement
)

// Check is the structural descriptor of a custom check.
type Check struct {
	Kind CheckKind
	Name string
	Type reflect.Type // CheckInstanceOf only
}

// Custom is a rule defined by a predicate the generator cannot see through.
type Custom struct {
	Base
	Checks []Check
	// Predicate is the runtime check, used only for type probing.
	Predicate func(any) bool
	// Base node narrowed by a refinement; nil when absent.
	Refines Node
}

func (c *Custom) Kind() NodeKind { return NodeCustom }

// Lazy defers resolution of a possibly recursive node.
type Lazy struct {
	Base
	Name    string
	Resolve func() Node
}

func (l *Lazy) Kind() NodeKind { return NodeLazy }
