// Package charclass defines the three character classes the STAR grammar
// template is instantiated over: ASCII, Extended-ASCII (Latin-1), and
// Unicode. One template (the scanning and parsing logic in
// internal/lexer and internal/parser) is parameterized at runtime by a
// Set instead of being compiled three times, per the sanctioned
// alternative in spec.md §9 ("An implementer may alternatively
// runtime-parameterize a single parser over a character-class predicate if
// the performance penalty is acceptable; the public contract is
// identical.").
package charclass

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Mode names one of the three admissible character classes.
type Mode int

const (
	ASCII Mode = iota
	ExtendedASCII
	Unicode
)

func (m Mode) String() string {
	switch m {
	case ASCII:
		return "ASCII"
	case ExtendedASCII:
		return "ExtendedASCII"
	case Unicode:
		return "Unicode"
	default:
		return "unknown"
	}
}

// ColumnUnit reports whether this mode counts columns in bytes or runes.
// ASCII and Extended-ASCII count bytes; Unicode counts characters — fixed
// by spec.md §4.2.
func (m Mode) ColumnUnit() bool {
	return m == Unicode
}

// Set is the character-class template: a handful of predicates over a
// decoded rune, plus a DecodeRune method that knows how many input bytes
// that rune consumed in this mode's encoding. internal/lexer drives the
// scanner exclusively through a Set so the same scanning code serves all
// three instantiations.
type Set struct {
	mode Mode
}

// New returns the Set for the given mode.
func New(mode Mode) Set {
	return Set{mode: mode}
}

func (s Set) Mode() Mode { return s.mode }

// DecodeRune decodes the rune at the start of b and reports its byte
// width in this character class's encoding. In ASCII and Extended-ASCII
// mode every character is one byte (Extended-ASCII decodes 0x80..0xFF
// through the Latin-1/ISO-8859-1 table so the same printable/whitespace
// predicates below apply uniformly). In Unicode mode it is ordinary
// UTF-8 decoding.
func (s Set) DecodeRune(b []byte) (r rune, size int) {
	if len(b) == 0 {
		return utf8.RuneError, 0
	}
	switch s.mode {
	case ASCII, ExtendedASCII:
		return charmap.ISO8859_1.DecodeByte(b[0]), 1
	default:
		return utf8.DecodeRune(b)
	}
}

// InClass reports whether r falls within the admissible character class
// for this mode at all (spec.md §7 InvalidCharacter). ASCII admits
// '!'..'~' plus space/tab/CR; Extended-ASCII additionally admits
// 0x80..0xFF; Unicode admits any rune unicode.IsGraphic accepts (letters,
// marks, numbers, punctuation, symbols, and Zs spaces) plus the blanks
// IsBlank accepts. No mode admits newline: the lexer handles '\n' before
// it ever consults InClass.
func (s Set) InClass(r rune) bool {
	switch s.mode {
	case ASCII:
		return isASCIIGraphic(r) || isASCIIBlank(r)
	case ExtendedASCII:
		return (r >= 0x00 && r <= 0xff) && (isASCIIGraphic(r) || isASCIIBlank(r) || (r >= 0x80 && r <= 0xff))
	default:
		return r != utf8.RuneError && (unicode.IsGraphic(r) || isUnicodeBlank(r))
	}
}

// IsBlank reports whether r is inter-token whitespace: space, tab, or CR,
// plus any other unicode.IsSpace rune in Unicode mode.
// Newlines are never blank — the grammar treats them specially around
// semicolon-bounded text (spec.md §4.1).
func (s Set) IsBlank(r rune) bool {
	if s.mode == Unicode {
		return isUnicodeBlank(r)
	}
	return isASCIIBlank(r)
}

// IsNewline reports whether r is a line terminator character (the
// grammar itself handles the two-character CRLF case by treating '\r' as
// insignificant whitespace immediately before '\n').
func (s Set) IsNewline(r rune) bool {
	return r == '\n'
}

// IsPrintable reports whether r may appear inside a non-quoted token,
// quoted-string interior, or semicolon-bounded text body.
func (s Set) IsPrintable(r rune) bool {
	switch s.mode {
	case ASCII:
		return isASCIIGraphic(r) || isASCIIBlank(r) || r == '\n'
	case ExtendedASCII:
		return (r >= 0x80 && r <= 0xff) || isASCIIGraphic(r) || isASCIIBlank(r) || r == '\n'
	default:
		return unicode.IsGraphic(r) || isUnicodeBlank(r) || r == '\n'
	}
}

func isASCIIGraphic(r rune) bool {
	return r >= '!' && r <= '~'
}

func isASCIIBlank(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r'
}

func isUnicodeBlank(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || (unicode.IsSpace(r) && r != '\n')
}
