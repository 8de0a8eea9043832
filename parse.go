package charskema

import (
	"context"
	"errors"

	eng "github.com/reoring/charskema/internal/engine"
)

// ParseFrom is the primary entry point. It materializes the Source, then
// delegates validation to the Schema.
func ParseFrom[T any](ctx context.Context, s Schema[T], src Source, opts ...ParseOpt) (T, error) {
	var zero T
	if s == nil {
		return zero, singleIssue(CodeParseError, "nil schema")
	}
	if src == nil {
		return zero, singleIssue(CodeParseError, "nil source")
	}
	var opt ParseOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	if opt.FailFast {
		ctx = WithFailFast(ctx, true)
	}
	v, err := Decode(src, opt)
	if err != nil {
		return zero, err
	}
	return s.Parse(ctx, v)
}

// Decode materializes src into a plain value graph. Decoder failures are
// reported as Issues.
func Decode(src Source, opt ParseOpt) (any, error) {
	if src == nil {
		return nil, singleIssue(CodeParseError, "nil source")
	}
	v, err := src.Value(opt)
	if err != nil {
		return nil, toIssues(err)
	}
	return v, nil
}

// ParseJSON parses a JSON document against s.
func ParseJSON[T any](ctx context.Context, s Schema[T], b []byte, opts ...ParseOpt) (T, error) {
	return ParseFrom(ctx, s, JSONBytes(b), opts...)
}

// ParseYAML parses a YAML document against s.
func ParseYAML[T any](ctx context.Context, s Schema[T], b []byte, opts ...ParseOpt) (T, error) {
	return ParseFrom(ctx, s, YAMLBytes(b), opts...)
}

func singleIssue(code, msg string) Issues {
	return Issues{{Path: "/", Code: code, Message: msg}}
}

func fromSimple(si eng.SimpleIssue) Issue {
	return Issue{Path: normalizePointer(si.Path), Code: si.Code, Message: si.Message}
}

// toIssues lifts decoder failures into Issues so callers see one error model.
func toIssues(err error) error {
	if _, ok := AsIssues(err); ok {
		return err
	}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return Issues{fromSimple(ie.SimpleIssue)}
	}
	return Issues{{Path: "/", Code: CodeParseError, Message: err.Error(), Cause: err}}
}
