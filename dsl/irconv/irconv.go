// Package irconv projects live dsl rules into the descriptor tree.
package irconv

import (
	"errors"
	"fmt"

	"github.com/reoring/charskema/dsl"
	ir "github.com/reoring/charskema/internal/ir"
)

var (
	// ErrNotRule is returned for values that are not dsl rules.
	ErrNotRule = errors.New("irconv: value is not a schema rule")
	// ErrOpaque is returned when part of a rule cannot describe itself.
	ErrOpaque = errors.New("irconv: rule contains an opaque sub-rule")
)

// FromSchema returns the descriptor of v, which must be a dsl rule. Every
// reachable node must be describable; lazy nodes are resolved once.
func FromSchema(v any) (ir.Node, error) {
	if v == nil {
		return nil, ErrNotRule
	}
	var n ir.Node
	switch s := v.(type) {
	case dsl.Describer:
		n = s.Describe()
	case dsl.Rule:
		n = s.Adapter().Describe()
	default:
		return nil, fmt.Errorf("%w: %T", ErrNotRule, v)
	}
	if n == nil {
		return nil, fmt.Errorf("%w: %T", ErrOpaque, v)
	}
	if err := check(n, "", map[any]bool{}); err != nil {
		return nil, err
	}
	return n, nil
}

func check(n ir.Node, path string, seen map[any]bool) error {
	if n == nil {
		if path == "" {
			path = "/"
		}
		return fmt.Errorf("%w at %s", ErrOpaque, path)
	}
	switch t := n.(type) {
	case *ir.Array:
		return check(t.Item, path+"/[]", seen)
	case *ir.Object:
		for _, f := range t.Fields {
			if err := check(f.Node, path+"/"+f.Name, seen); err != nil {
				return err
			}
		}
	case *ir.Union:
		for i, v := range t.Variants {
			label := v.Tag
			if label == "" {
				label = fmt.Sprint(i)
			}
			if err := check(v.Node, path+"/<"+label+">", seen); err != nil {
				return err
			}
		}
	case *ir.Intersection:
		for i, p := range t.Parts {
			if err := check(p, fmt.Sprintf("%s/&%d", path, i), seen); err != nil {
				return err
			}
		}
	case *ir.Custom:
		if t.Refines != nil {
			return check(t.Refines, path, seen)
		}
	case *ir.Lazy:
		if seen[t.Origin()] {
			return nil
		}
		seen[t.Origin()] = true
		return check(t.Resolve(), path, seen)
	}
	return nil
}
