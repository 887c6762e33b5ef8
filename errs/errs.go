// Package errs defines the closed error taxonomy a parse can fail with
// (spec.md §7). It mirrors the teacher's SpecError{Cause, Row} wrapping
// idiom (nihei9-vartan's error.SpecError), extended with a span and a
// resolved line/column position since this grammar's errors need more
// than a bare row number for a usable diagnostic.
package errs

import (
	"fmt"
	"strings"

	"github.com/nihei9/star/lineindex"
	"github.com/nihei9/star/parsetree"
)

// Kind is the closed set of parse failure categories (spec.md §7).
type Kind int

const (
	// SyntaxError: the token stream doesn't match any production at a span.
	SyntaxError Kind = iota
	// UnclosedString: a quoted or semicolon-bounded region hit EOF first.
	UnclosedString
	// UnexpectedKeyword: a reserved keyword appeared where a value was expected.
	UnexpectedKeyword
	// InvalidCharacter: a byte/rune falls outside the active encoding's class.
	InvalidCharacter
)

func (k Kind) String() string {
	switch k {
	case SyntaxError:
		return "SyntaxError"
	case UnclosedString:
		return "UnclosedString"
	case UnexpectedKeyword:
		return "UnexpectedKeyword"
	case InvalidCharacter:
		return "InvalidCharacter"
	default:
		return "UnknownError"
	}
}

// ParseError is returned by every parse* operation (spec.md §7
// Propagation policy: the parser makes no attempt to recover past the
// first syntactic failure).
type ParseError struct {
	Kind     Kind
	Span     parsetree.Span
	Pos      lineindex.Pos
	Message  string
	Expected []string

	// Excerpt is a short, pointer-quality rendering of the offending
	// source line with a caret under the failing column. It is a
	// presentation convenience (SPEC_FULL.md §5.1), not part of the
	// closed error taxonomy itself.
	Excerpt string

	cause error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d:%d: %s: %s", e.Pos.Line, e.Pos.Col, e.Kind, e.Message)
	if len(e.Expected) > 0 {
		fmt.Fprintf(&b, " (expected %s)", strings.Join(e.Expected, ", "))
	}
	return b.String()
}

// Unwrap lets callers use errors.Is/errors.As against the underlying
// cause, matching the teacher's SpecError.Cause field.
func (e *ParseError) Unwrap() error {
	return e.cause
}

// New builds a ParseError. idx and src are used to resolve the span's
// position and render the excerpt; idx may be nil, in which case Pos and
// Excerpt are left zero (used by callers that haven't built an index yet).
func New(kind Kind, span parsetree.Span, message string, expected []string, cause error, idx *lineindex.Index, src []byte) *ParseError {
	e := &ParseError{
		Kind:     kind,
		Span:     span,
		Message:  message,
		Expected: expected,
		cause:    cause,
	}
	if idx != nil {
		e.Pos = idx.Resolve(span.Begin)
		e.Excerpt = excerpt(src, idx, span.Begin)
	}
	return e
}

// excerpt renders the source line containing offset with a caret marker
// under the failing column.
func excerpt(src []byte, idx *lineindex.Index, offset int) string {
	if len(src) == 0 {
		return ""
	}
	if offset > len(src) {
		offset = len(src)
	}
	lineStart := offset
	for lineStart > 0 && src[lineStart-1] != '\n' {
		lineStart--
	}
	lineEnd := offset
	for lineEnd < len(src) && src[lineEnd] != '\n' {
		lineEnd++
	}
	line := string(src[lineStart:lineEnd])
	pos := idx.Resolve(offset)
	col := pos.Col
	if col < 1 {
		col = 1
	}
	marker := strings.Repeat(" ", col-1) + "^"
	return line + "\n" + marker
}
