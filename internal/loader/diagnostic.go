package loader

import (
	"fmt"

	"go.uber.org/multierr"
)

// DiagnosticKind classifies a recoverable per-line load problem.
type DiagnosticKind int

const (
	UnknownField DiagnosticKind = iota + 1
	TypeMismatch
)

func (k DiagnosticKind) String() string {
	switch k {
	case UnknownField:
		return "unknown field"
	case TypeMismatch:
		return "type mismatch"
	default:
		return fmt.Sprintf("DiagnosticKind(%d)", int(k))
	}
}

// Diagnostic describes one rejected assignment line.
type Diagnostic struct {
	Source string
	Line   int
	Kind   DiagnosticKind
	Field  string
	Text   string
	Err    error
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s:%d: %s: %v", d.Source, d.Line, d.Kind, d.Err)
}

func (d Diagnostic) Unwrap() error {
	return d.Err
}

// Report summarises a load across all sources.
type Report struct {
	Diagnostics []Diagnostic
	Applied     int
}

// Err combines every diagnostic into a single error, or nil when the load
// was clean.
func (r Report) Err() error {
	var err error
	for _, d := range r.Diagnostics {
		err = multierr.Append(err, d)
	}
	return err
}
