package charskema

// UnknownPolicy controls how unknown keys are handled.
type UnknownPolicy int

const (
	UnknownStrict      UnknownPolicy = iota // Reject unknown keys with an error.
	UnknownStrip                            // Drop unknown keys.
	UnknownPassthrough                      // Preserve unknown keys in the output.
)

// Severity expresses the severity level for input-level findings. The zero
// value is Error.
type Severity int

const (
	Error Severity = iota
	Warn
	Ignore
)

// ParseOpt bundles parsing options.
type ParseOpt struct {
	// DuplicateKeys decides what happens when an object repeats a key.
	DuplicateKeys Severity
	// MaxDepth bounds container nesting (0 disables the check).
	MaxDepth int
	// MaxBytes bounds the consumed input size (0 disables the check).
	MaxBytes int64
	// FailFast stops at the first issue instead of collecting all of them.
	FailFast bool
	// OnWarning receives issues reported with Warn severity.
	OnWarning func(Issue)
}
