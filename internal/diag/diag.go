// Package diag implements the compiler's error taxonomy and its append-only
// diagnostic log. The lexer/parser and the log's eventual sink (console,
// editor integration, ...) are external collaborators (spec.md §1); this
// package only defines the shapes the core produces and the interface it
// writes them through.
package diag

import "fmt"

// Location is a source span: a file name plus a start/end line and column.
// The lexer/parser is responsible for producing these; the core only
// threads them through.
type Location struct {
	File    string
	Line    int
	Col     int
	EndLine int
	EndCol  int
}

func (l Location) String() string {
	if l.File == "" && l.Line == 0 {
		return "<unknown location>"
	}
	if l.Line == l.EndLine && l.Col == l.EndCol {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Col)
	}
	return fmt.Sprintf("%s:%d:%d-%d:%d", l.File, l.Line, l.Col, l.EndLine, l.EndCol)
}

// Severity classifies how serious a diagnostic is.
type Severity int

const (
	SevWarning Severity = iota
	SevError
	SevFatal
)

func (s Severity) String() string {
	switch s {
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	case SevFatal:
		return "fatal"
	default:
		return "<invalid severity>"
	}
}

// Diagnostic is one entry in the append-only log: a severity, a source
// location, and a formatted, user-facing sentence describing the violated
// rule.
type Diagnostic struct {
	Severity Severity
	Loc      Location
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Loc, d.Severity, d.Message)
}

// Log is an append-only diagnostic sink, supplied by the caller (spec.md
// §6 "Diagnostic log"). Ordering matches the order in which problems are
// detected.
type Log interface {
	Append(Diagnostic)
	All() []Diagnostic
}

// MemoryLog is the in-memory Log implementation used by the CLI and by
// tests; it never drops or reorders entries.
type MemoryLog struct {
	entries []Diagnostic
}

// NewMemoryLog returns an empty MemoryLog.
func NewMemoryLog() *MemoryLog { return &MemoryLog{} }

func (l *MemoryLog) Append(d Diagnostic) { l.entries = append(l.entries, d) }

func (l *MemoryLog) All() []Diagnostic { return l.entries }

// HasErrors reports whether the log contains an Error or Fatal entry.
func (l *MemoryLog) HasErrors() bool {
	for _, d := range l.entries {
		if d.Severity >= SevError {
			return true
		}
	}
	return false
}

// Kind classifies a compile-time failure so callers can branch on intent
// rather than on message text, mirroring the teacher's typed-error pattern
// (pkg/types.ErrKind in the example repo this module is built from).
type Kind int

const (
	KindType Kind = iota
	KindName
	KindRedefinition
	KindParse
	KindShape
	KindTemplate
	KindUnimplemented
)

func (k Kind) String() string {
	switch k {
	case KindType:
		return "type error"
	case KindName:
		return "name resolution error"
	case KindRedefinition:
		return "redefinition error"
	case KindParse:
		return "parse error"
	case KindShape:
		return "shape mismatch"
	case KindTemplate:
		return "template instantiation failure"
	case KindUnimplemented:
		return "not implemented"
	default:
		return "<invalid error kind>"
	}
}

// Error is a typed compiler error with an optional source location and
// underlying cause.
type Error struct {
	Kind Kind
	Msg  string
	Loc  Location
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	prefix := e.Kind.String()
	if e.Loc.File != "" || e.Loc.Line != 0 {
		prefix = e.Loc.String() + ": " + prefix
	}
	if e.Err != nil {
		return prefix + ": " + e.Msg + ": " + e.Err.Error()
	}
	return prefix + ": " + e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error of the given kind at the given location.
func New(kind Kind, loc Location, format string, args ...any) *Error {
	return &Error{Kind: kind, Loc: loc, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error that records an underlying cause.
func Wrap(kind Kind, loc Location, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Loc: loc, Msg: fmt.Sprintf(format, args...), Err: cause}
}

// ErrUnimplemented reports a knowingly-rejected, untyped branch of the
// front end (spec.md §7 "Feature not implemented").
func ErrUnimplemented(feature string) *Error {
	return &Error{Kind: KindUnimplemented, Msg: "feature not implemented: " + feature}
}

// ToDiagnostic converts a typed Error into a log entry at SevError.
func (e *Error) ToDiagnostic() Diagnostic {
	return Diagnostic{Severity: SevError, Loc: e.Loc, Message: e.Msg}
}
