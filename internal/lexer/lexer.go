// Package lexer is the hand-written, character-class-parameterized
// scanner that tokenizes STAR source text: keyword discrimination,
// non-quoted text, the three quoting disciplines, and semicolon-bounded
// multi-line text (spec.md §3, §4.1, §6).
//
// The scanning loop follows the teacher's lexAndSkipWSs idiom
// (nihei9-vartan's spec/lexer.go): a single switch over the character
// just read, classifying it into a token kind as it goes, with implicit
// whitespace skipped between tokens.
package lexer

import (
	"strings"

	"github.com/nihei9/star/charclass"
	"github.com/nihei9/star/errs"
	"github.com/nihei9/star/parsetree"
)

// Kind is the set of lexical token kinds the scanner produces.
type Kind int

const (
	TokEOF Kind = iota
	TokDataHeading
	TokGlobalKeyword
	TokSaveHeading
	TokSaveKeyword
	TokLoopKeyword
	TokStopKeyword
	TokDataName
	TokNonQuoted
	TokSingleQuoted
	TokDoubleQuoted
	TokSemiColon
	TokFrameCode
)

func (k Kind) String() string {
	switch k {
	case TokEOF:
		return "<EOF>"
	case TokDataHeading:
		return "data_NAME"
	case TokGlobalKeyword:
		return "global_"
	case TokSaveHeading:
		return "save_NAME"
	case TokSaveKeyword:
		return "save_"
	case TokLoopKeyword:
		return "loop_"
	case TokStopKeyword:
		return "stop_"
	case TokDataName:
		return "data name"
	case TokNonQuoted:
		return "value"
	case TokSingleQuoted:
		return "'quoted value'"
	case TokDoubleQuoted:
		return `"quoted value"`
	case TokSemiColon:
		return "semicolon-bounded text"
	case TokFrameCode:
		return "frame code"
	default:
		return "unknown token"
	}
}

// Token is a single scanned token: its kind and the exact byte span it
// was scanned from (including any delimiters, per spec.md §8: "for every
// Node N... input[span] equals the concatenation of that token's
// characters as consumed").
type Token struct {
	Kind Kind
	Span parsetree.Span
}

// Lexer scans src, one token at a time, under the character class cs.
type Lexer struct {
	src              []byte
	pos              int
	cs               charclass.Set
	atLineStart      bool
	preserveComments bool
	comments         []parsetree.Span
}

// New returns a Lexer over src using the given character class. When
// preserveComments is true, comment spans encountered during scanning are
// recorded and retrievable via Comments after scanning finishes.
func New(src []byte, cs charclass.Set, preserveComments bool) *Lexer {
	return &Lexer{src: src, cs: cs, atLineStart: true, preserveComments: preserveComments}
}

// Comments returns the comment spans collected so far, in source order.
func (l *Lexer) Comments() []parsetree.Span {
	return l.comments
}

// Next scans and returns the next token, skipping implicit whitespace and
// comments first.
func (l *Lexer) Next() (Token, error) {
	for {
		l.skipBlanks()

		if l.pos >= len(l.src) {
			return Token{Kind: TokEOF, Span: parsetree.Span{Begin: l.pos, End: l.pos}}, nil
		}

		r, size := l.cs.DecodeRune(l.src[l.pos:])

		switch {
		case l.cs.IsNewline(r):
			l.pos += size
			l.atLineStart = true
			continue

		case r == '#':
			begin := l.pos
			for l.pos < len(l.src) {
				r2, size2 := l.cs.DecodeRune(l.src[l.pos:])
				if l.cs.IsNewline(r2) {
					break
				}
				l.pos += size2
			}
			if l.preserveComments {
				l.comments = append(l.comments, parsetree.Span{Begin: begin, End: l.pos})
			}
			continue

		case r == ';' && l.atLineStart && (l.pos == 0 || l.src[l.pos-1] == '\n'):
			return l.scanSemiColonBounded()

		case r == '\'':
			return l.scanQuoted('\'', TokSingleQuoted)

		case r == '"':
			return l.scanQuoted('"', TokDoubleQuoted)

		case r == '$':
			return l.scanFrameCode()

		default:
			if !l.cs.InClass(r) {
				return Token{}, l.invalidCharacter(l.pos, size)
			}
			return l.scanWord()
		}
	}
}

func (l *Lexer) skipBlanks() {
	for l.pos < len(l.src) {
		r, size := l.cs.DecodeRune(l.src[l.pos:])
		if !l.cs.IsBlank(r) {
			return
		}
		l.pos += size
	}
}

// scanWord reads a run of non-blank, non-newline characters and
// classifies it as a keyword, data name, or non-quoted value per spec.md
// §3's keyword-discrimination rules. Frame codes never reach it: Next
// hands a leading '$' to scanFrameCode.
func (l *Lexer) scanWord() (Token, error) {
	begin := l.pos
	for l.pos < len(l.src) {
		r, size := l.cs.DecodeRune(l.src[l.pos:])
		if l.cs.IsBlank(r) || l.cs.IsNewline(r) {
			break
		}
		if !l.cs.InClass(r) {
			return Token{}, l.invalidCharacter(l.pos, size)
		}
		l.pos += size
	}
	end := l.pos
	l.atLineStart = false

	word := string(l.src[begin:end])
	span := parsetree.Span{Begin: begin, End: end}

	if strings.HasPrefix(word, "_") {
		if len(word) < 2 {
			return Token{}, &errs.ParseError{Kind: errs.SyntaxError, Span: span, Message: "a data name must have at least one character after '_'"}
		}
		return Token{Kind: TokDataName, Span: span}, nil
	}

	lower := strings.ToLower(word)
	switch {
	case lower == "global_":
		return Token{Kind: TokGlobalKeyword, Span: span}, nil
	case lower == "loop_":
		return Token{Kind: TokLoopKeyword, Span: span}, nil
	case lower == "stop_":
		return Token{Kind: TokStopKeyword, Span: span}, nil
	case lower == "save_":
		return Token{Kind: TokSaveKeyword, Span: span}, nil
	case strings.HasPrefix(lower, "save_") && len(word) > len("save_"):
		return Token{Kind: TokSaveHeading, Span: span}, nil
	case lower == "data_":
		return Token{}, &errs.ParseError{Kind: errs.SyntaxError, Span: span, Message: "a data block name is missing after 'data_'"}
	case strings.HasPrefix(lower, "data_") && len(word) > len("data_"):
		return Token{Kind: TokDataHeading, Span: span}, nil
	default:
		return Token{Kind: TokNonQuoted, Span: span}, nil
	}
}

func (l *Lexer) scanFrameCode() (Token, error) {
	begin := l.pos
	l.pos++ // consume '$'
	for l.pos < len(l.src) {
		r, size := l.cs.DecodeRune(l.src[l.pos:])
		if l.cs.IsBlank(r) || l.cs.IsNewline(r) || r == '\'' || r == '"' {
			break
		}
		if !l.cs.InClass(r) {
			return Token{}, l.invalidCharacter(l.pos, size)
		}
		l.pos += size
	}
	l.atLineStart = false
	return Token{Kind: TokFrameCode, Span: parsetree.Span{Begin: begin, End: l.pos}}, nil
}

// scanQuoted scans a single- or double-quoted value. A doubled delimiter
// is a literal escaped delimiter (spec.md §6); an unescaped delimiter
// closes the token, but only the token's raw bytes are stored — no
// unescaping is performed here or anywhere in this package (spec.md
// §4.4).
func (l *Lexer) scanQuoted(delim byte, kind Kind) (Token, error) {
	begin := l.pos
	l.pos++ // consume opening delimiter
	for {
		if l.pos >= len(l.src) {
			return Token{}, &errs.ParseError{Kind: errs.UnclosedString, Span: parsetree.Span{Begin: begin, End: l.pos}, Message: "unclosed quoted value"}
		}
		r, size := l.cs.DecodeRune(l.src[l.pos:])
		if byte(r) == delim && r < 0x80 {
			if l.pos+1 < len(l.src) && l.src[l.pos+1] == delim {
				l.pos += 2
				continue
			}
			l.pos++ // consume closing delimiter
			l.atLineStart = false
			return Token{Kind: kind, Span: parsetree.Span{Begin: begin, End: l.pos}}, nil
		}
		if l.cs.IsNewline(r) {
			return Token{}, &errs.ParseError{Kind: errs.UnclosedString, Span: parsetree.Span{Begin: begin, End: l.pos}, Message: "unclosed quoted value"}
		}
		if !l.cs.InClass(r) {
			return Token{}, l.invalidCharacter(l.pos, size)
		}
		l.pos += size
	}
}

// scanSemiColonBounded scans a semicolon-bounded multi-line text value.
// It opens with a newline-then-';' at column 1 and closes the same way.
// The token's span begins at the opening ';' (the newline before it is
// not included) and ends after the closing newline-';' pair; package
// decompose excludes both framing parts from the content span.
func (l *Lexer) scanSemiColonBounded() (Token, error) {
	begin := l.pos
	l.pos++ // consume opening ';'
	for {
		if l.pos >= len(l.src) {
			return Token{}, &errs.ParseError{Kind: errs.UnclosedString, Span: parsetree.Span{Begin: begin, End: l.pos}, Message: "unclosed semicolon-bounded text"}
		}
		r, size := l.cs.DecodeRune(l.src[l.pos:])
		if l.cs.IsNewline(r) {
			l.pos += size
			if l.pos < len(l.src) && l.src[l.pos] == ';' {
				l.pos++ // consume closing ';'
				l.atLineStart = false
				return Token{Kind: TokSemiColon, Span: parsetree.Span{Begin: begin, End: l.pos}}, nil
			}
			continue
		}
		if !l.cs.InClass(r) {
			return Token{}, l.invalidCharacter(l.pos, size)
		}
		l.pos += size
	}
}

func (l *Lexer) invalidCharacter(offset, size int) error {
	if size < 1 {
		size = 1
	}
	return &errs.ParseError{Kind: errs.InvalidCharacter, Span: parsetree.Span{Begin: offset, End: offset + size}, Message: "character is outside the active encoding's character class"}
}
