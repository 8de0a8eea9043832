// Package charskema is the validation core of the character schema:
//
// - Schema[T] with Parse/Validate/JSONSchema, and the SafeParse/Is helpers
// - A stable error model via Issues (JSON Pointer, code, message, params)
// - Raw input sources (JSON, YAML, plain values) with duplicate-key/depth/size enforcement
//
// Rules are written with the dsl package; the character entities live under
// schema/.
//
// Typical usage:
//
//	v, err := charskema.ParseFrom(ctx, v1.CharacterSchema, charskema.JSONBytes(data))
//	if iss, ok := charskema.AsIssues(err); ok {
//		for _, it := range iss {
//			fmt.Println(it.Path, it.Code, it.Message)
//		}
//	}
package charskema
