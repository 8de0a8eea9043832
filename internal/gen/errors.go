package gen

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Failure kinds. Every generation error wraps exactly one of them.
var (
	// ErrNotSchema marks a Schema-suffixed export whose value is not a rule,
	// or a rule with parts that cannot describe themselves.
	ErrNotSchema = errors.New("not a schema rule")
	// ErrUnregistered marks a Schema-suffixed export missing from the registry.
	ErrUnregistered = errors.New("export is not registered")
	// ErrDuplicateName marks two declarations deriving the same name.
	ErrDuplicateName = errors.New("duplicate declaration name")
	// ErrInvalidName marks a derived name that is not a valid identifier.
	ErrInvalidName = errors.New("invalid declaration name")
	// ErrUnresolvedCustom marks a custom rule whose type cannot be resolved.
	ErrUnresolvedCustom = errors.New("unresolved custom rule type")
)

// Error attributes a generation failure to a module and, when known, an
// export.
type Error struct {
	Module string
	Export string
	Err    error
}

func (e *Error) Error() string {
	if e.Export == "" {
		return fmt.Sprintf("%s: %v", e.Module, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Module, e.Export, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func fail(module, export string, kind error, format string, args ...any) error {
	return &Error{Module: module, Export: export, Err: errors.Wrapf(kind, format, args...)}
}

func withHint(kind error, at string) error {
	return errors.WithHint(errors.Wrapf(kind, "cannot resolve the type of %s", at),
		"set TypeOverride on the custom rule")
}
