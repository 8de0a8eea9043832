package charskema

import (
	"bytes"
	"io"

	eng "github.com/reoring/charskema/internal/engine"
)

// Source produces the plain value graph a Schema validates.
type Source interface {
	Value(opt ParseOpt) (any, error)
}

// SourceFunc adapts a function into a Source.
type SourceFunc func(opt ParseOpt) (any, error)

func (f SourceFunc) Value(opt ParseOpt) (any, error) { return f(opt) }

// JSONBytes reads a JSON document from b.
func JSONBytes(b []byte) Source { return JSONReader(bytes.NewReader(b)) }

// JSONReader reads a JSON document from r. The reader is consumed lazily when
// the source is parsed.
func JSONReader(r io.Reader) Source {
	return SourceFunc(func(opt ParseOpt) (any, error) {
		src := eng.WrapWithEnforcement(eng.NewGoJSONReader(r), enforceOptions(opt))
		return eng.DecodeAnyFromSource(src)
	})
}

// YAMLBytes reads a single YAML document from b.
func YAMLBytes(b []byte) Source {
	return SourceFunc(func(opt ParseOpt) (any, error) {
		return eng.DecodeYAML(b, enforceOptions(opt))
	})
}

// Value wraps an already decoded value graph.
func Value(v any) Source {
	return SourceFunc(func(ParseOpt) (any, error) { return v, nil })
}

func enforceOptions(opt ParseOpt) eng.EnforceOptions {
	eo := eng.EnforceOptions{
		MaxDepth: opt.MaxDepth,
		MaxBytes: opt.MaxBytes,
		FailFast: opt.FailFast,
	}
	switch opt.DuplicateKeys {
	case Warn:
		eo.OnDuplicate = eng.DupWarn
	case Ignore:
		eo.OnDuplicate = eng.DupIgnore
	default:
		eo.OnDuplicate = eng.DupError
	}
	if opt.OnWarning != nil {
		eo.IssueSink = func(si eng.SimpleIssue) {
			if si.Code == CodeDuplicateKey && opt.DuplicateKeys == Warn {
				opt.OnWarning(fromSimple(si))
			}
		}
	}
	return eo
}
