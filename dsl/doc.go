// Package dsl provides the rule builders character schemas are written in.
//
// Overview
//   - Builder API: declare object semantics (unknown/required/default/refine) with Object()/Field()/Required()/Default()/MustBuild().
//   - Primitives: String()/Bool()/Number()/Int()/Literal()/Enum() plus the format helpers URL()/Email()/UUID()/Int32()/PositiveInteger().
//   - Composition: Array(elem) with UniqueBy, Union(key, Variant(...)) for tagged variants, AnyOf for untagged alternatives, Intersection, Lazy for recursion.
//   - Custom rules: Custom(pred), InstanceOf[T](), Binary() and Check(base, name, pred). Declarations for predicates need TypeOverride.
//   - Documentation: Doc{} on rules and fields is a side channel. Validation never reads it.
//   - AnyAdapter: adapt an existing Schema[T] via SchemaOf[T](s) to embed it into builders.
//
// Values
//
// Rules consume plain values as produced by a JSON or YAML decoder and return
// plain values: objects become map[string]any, arrays []any, Int() yields
// int64 and Number() float64. Inputs are never mutated.
//
// Every rule projects itself into the descriptor tree through Describe. The
// declaration generator walks that tree (see dsl/irconv).
//
// Example
//
//	var MetaSchema = dsl.Object().
//		Field("author", dsl.String()).
//		Field("license", dsl.String()).Default("ARR").
//		MustBuild()
package dsl
