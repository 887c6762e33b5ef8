// Package parser is the hand-written recursive-descent parser that turns
// a token stream from internal/lexer into a parsetree.Tree (spec.md §3,
// §4.1). It follows the teacher's hand-written parser idiom
// (nihei9-vartan's spec/parser.go): a `consume`/`lastTok` cursor over one
// token of lookahead, and panic-based error propagation recovered once at
// the outermost entry point rather than threaded by hand through every
// production method.
package parser

import (
	"github.com/nihei9/star/charclass"
	"github.com/nihei9/star/config"
	"github.com/nihei9/star/errs"
	"github.com/nihei9/star/internal/lexer"
	"github.com/nihei9/star/lineindex"
	"github.com/nihei9/star/parsetree"
)

// Result is the product of a successful parse: the tree plus the
// comment spans collected while scanning (populated only when
// config.PreserveComments is set).
type Result struct {
	Tree     *parsetree.Tree
	Comments []parsetree.Span
}

// Parse runs the grammar over src under cfg and returns the resulting
// parse tree, or the first syntax error encountered (spec.md §7:
// "the parser makes no attempt to recover past the first syntactic
// failure").
func Parse(src []byte, cfg config.Config) (res *Result, retErr error) {
	stripped := src
	if cfg.BOMDetection {
		stripped, _ = charclass.StripBOM(src)
	}

	cs := charclass.New(cfg.EncodingMode)
	unit := lineindex.UnitByte
	if cs.Mode().ColumnUnit() {
		unit = lineindex.UnitRune
	}
	idx := lineindex.New(stripped, unit)

	p := &parser{
		lex: lexer.New(stripped, cs, cfg.PreserveComments),
		idx: idx,
		src: stripped,
	}

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		pe, ok := r.(*errs.ParseError)
		if !ok {
			panic(r)
		}
		retErr = errs.New(pe.Kind, pe.Span, pe.Message, pe.Expected, pe.Unwrap(), idx, stripped)
	}()

	p.next() // prime lookahead
	root := p.parseStarFile()

	return &Result{
		Tree:     &parsetree.Tree{Root: root, Src: stripped},
		Comments: p.lex.Comments(),
	}, nil
}

type parser struct {
	lex     *lexer.Lexer
	peeked  *lexer.Token
	lastTok lexer.Token
	idx     *lineindex.Index
	src     []byte
}

// next advances the cursor by one token, panicking with a *errs.ParseError
// if the lexer itself fails (e.g. InvalidCharacter, UnclosedString).
func (p *parser) next() lexer.Token {
	if p.peeked != nil {
		p.lastTok = *p.peeked
		p.peeked = nil
		return p.lastTok
	}
	tok, err := p.lex.Next()
	if err != nil {
		panic(err)
	}
	p.lastTok = tok
	return tok
}

// peek returns the next token without consuming it.
func (p *parser) peek() lexer.Token {
	if p.peeked == nil {
		tok, err := p.lex.Next()
		if err != nil {
			panic(err)
		}
		p.peeked = &tok
	}
	return *p.peeked
}

// consume advances past the next token and reports true if it matched
// kind; otherwise it leaves the token buffered for the next peek/consume.
func (p *parser) consume(kind lexer.Kind) bool {
	tok := p.peek()
	if tok.Kind != kind {
		return false
	}
	p.peeked = nil
	p.lastTok = tok
	return true
}

func (p *parser) raiseSyntaxError(span parsetree.Span, message string, expected ...string) {
	panic(&errs.ParseError{Kind: errs.SyntaxError, Span: span, Message: message, Expected: expected})
}

func (p *parser) raiseUnexpectedKeyword(span parsetree.Span, message string) {
	panic(&errs.ParseError{Kind: errs.UnexpectedKeyword, Span: span, Message: message})
}

func leaf(kind parsetree.Kind, span parsetree.Span) *parsetree.Node {
	return &parsetree.Node{Kind: kind, Span: span}
}

func spanOf(children ...*parsetree.Node) parsetree.Span {
	if len(children) == 0 {
		return parsetree.Span{}
	}
	begin := children[0].Span.Begin
	end := children[0].Span.End
	for _, c := range children[1:] {
		if c.Span.Begin < begin {
			begin = c.Span.Begin
		}
		if c.Span.End > end {
			end = c.Span.End
		}
	}
	return parsetree.Span{Begin: begin, End: end}
}

// --- grammar ---

func (p *parser) parseStarFile() *parsetree.Node {
	var children []*parsetree.Node
	for {
		tok := p.peek()
		switch tok.Kind {
		case lexer.TokEOF:
			end := tok.Span.End
			begin := 0
			if len(children) > 0 {
				begin = children[0].Span.Begin
			}
			return &parsetree.Node{Kind: parsetree.KindStarFile, Span: parsetree.Span{Begin: begin, End: end}, Children: children}
		case lexer.TokDataHeading:
			children = append(children, p.parseDataBlock())
		case lexer.TokGlobalKeyword:
			children = append(children, p.parseGlobalBlock())
		default:
			p.raiseSyntaxError(tok.Span, "expected a data block or a global block", "data_NAME", "global_")
		}
	}
}

func (p *parser) parseDataBlock() *parsetree.Node {
	p.consume(lexer.TokDataHeading)
	heading := leaf(parsetree.KindDataHeading, p.lastTok.Span)

	children := []*parsetree.Node{heading}
	children = append(children, p.parseBlockBody(true)...)

	return &parsetree.Node{Kind: parsetree.KindDataBlock, Span: spanOf(children...), Children: children}
}

func (p *parser) parseGlobalBlock() *parsetree.Node {
	p.consume(lexer.TokGlobalKeyword)
	kw := leaf(parsetree.KindDataHeading, p.lastTok.Span)

	children := []*parsetree.Node{kw}
	children = append(children, p.parseBlockBody(true)...)

	return &parsetree.Node{Kind: parsetree.KindGlobalBlock, Span: spanOf(children...), Children: children}
}

// parseBlockBody parses the repeated {data | data_loop | save_frame}*
// body shared by data_block and global_block. allowSaveFrame is always
// true for these two productions; save_frame bodies are parsed by the
// narrower loop inside parseSaveFrame instead (spec.md §3 invariants, reconciled with
// scenario S4 in DESIGN.md).
func (p *parser) parseBlockBody(allowSaveFrame bool) []*parsetree.Node {
	var items []*parsetree.Node
	for {
		tok := p.peek()
		switch tok.Kind {
		case lexer.TokDataName:
			items = append(items, p.parseData())
		case lexer.TokLoopKeyword:
			items = append(items, p.parseDataLoop())
		case lexer.TokSaveHeading:
			if !allowSaveFrame {
				return items
			}
			items = append(items, p.parseSaveFrame())
		default:
			return items
		}
	}
}

func (p *parser) parseSaveFrame() *parsetree.Node {
	p.consume(lexer.TokSaveHeading)
	heading := leaf(parsetree.KindSaveHeading, p.lastTok.Span)

	children := []*parsetree.Node{heading}
	for {
		tok := p.peek()
		switch tok.Kind {
		case lexer.TokDataName:
			children = append(children, p.parseData())
		case lexer.TokLoopKeyword:
			children = append(children, p.parseDataLoop())
		case lexer.TokSaveKeyword:
			p.consume(lexer.TokSaveKeyword)
			span := spanOf(children...)
			span.End = p.lastTok.Span.End
			return &parsetree.Node{Kind: parsetree.KindSaveFrame, Span: span, Children: children}
		case lexer.TokEOF:
			p.raiseSyntaxError(tok.Span, "unexpected end of input inside a save frame", "save_")
		default:
			p.raiseSyntaxError(tok.Span, "expected a data item, a loop, or the closing save_", "_NAME", "loop_", "save_")
		}
	}
}

func (p *parser) parseData() *parsetree.Node {
	p.consume(lexer.TokDataName)
	name := leaf(parsetree.KindDataName, p.lastTok.Span)

	valTok := p.peek()
	valKind, ok := dataValueKind(valTok.Kind)
	if !ok {
		switch valTok.Kind {
		case lexer.TokDataName, lexer.TokLoopKeyword, lexer.TokSaveKeyword, lexer.TokSaveHeading, lexer.TokGlobalKeyword, lexer.TokStopKeyword, lexer.TokDataHeading:
			p.raiseUnexpectedKeyword(valTok.Span, "expected a value, found a reserved keyword or another tag name")
		default:
			p.raiseSyntaxError(valTok.Span, "expected a value")
		}
	}
	p.next()
	value := leaf(valKind, p.lastTok.Span)

	children := []*parsetree.Node{name, value}
	return &parsetree.Node{Kind: parsetree.KindData, Span: spanOf(children...), Children: children}
}

func dataValueKind(k lexer.Kind) (parsetree.Kind, bool) {
	switch k {
	case lexer.TokNonQuoted:
		return parsetree.KindNonQuotedTextString, true
	case lexer.TokSingleQuoted:
		return parsetree.KindSingleQuoteString, true
	case lexer.TokDoubleQuoted:
		return parsetree.KindDoubleQuoteString, true
	case lexer.TokSemiColon:
		return parsetree.KindSemiColonBoundedTextString, true
	case lexer.TokFrameCode:
		return parsetree.KindFrameCode, true
	default:
		return 0, false
	}
}

func (p *parser) parseDataLoop() *parsetree.Node {
	p.consume(lexer.TokLoopKeyword)
	def := p.parseDataLoopDefinition()
	values := p.parseDataLoopValues(def.Span.End)
	children := []*parsetree.Node{def, values}
	return &parsetree.Node{Kind: parsetree.KindDataLoop, Span: spanOf(children...), Children: children}
}

// parseDataLoopDefinition parses the field list immediately following a
// `loop_` keyword: one or more data_name fields and/or nested_loop
// fields, each wrapped in a data_loop_field node (spec.md §3).
func (p *parser) parseDataLoopDefinition() *parsetree.Node {
	loopKwSpan := p.lastTok.Span
	fields := p.parseFieldList()
	if len(fields) == 0 {
		p.raiseSyntaxError(loopKwSpan, "a loop must declare at least one field", "_NAME", "loop_")
	}
	span := spanOf(fields...)
	// A definition with no values after it still spans at least the
	// `loop_` keyword itself.
	if span.Begin > loopKwSpan.Begin {
		span.Begin = loopKwSpan.Begin
	}
	return &parsetree.Node{Kind: parsetree.KindDataLoopDefinition, Span: span, Children: fields}
}

func (p *parser) parseFieldList() []*parsetree.Node {
	var fields []*parsetree.Node
	for {
		tok := p.peek()
		switch tok.Kind {
		case lexer.TokDataName:
			p.consume(lexer.TokDataName)
			name := leaf(parsetree.KindDataName, p.lastTok.Span)
			fields = append(fields, &parsetree.Node{Kind: parsetree.KindDataLoopField, Span: name.Span, Children: []*parsetree.Node{name}})
		case lexer.TokLoopKeyword:
			fields = append(fields, p.parseNestedLoopField())
		default:
			return fields
		}
	}
}

func (p *parser) parseNestedLoopField() *parsetree.Node {
	p.consume(lexer.TokLoopKeyword)
	kwSpan := p.lastTok.Span

	innerFields := p.parseFieldList()
	if len(innerFields) == 0 {
		p.raiseSyntaxError(kwSpan, "a nested loop must declare at least one field", "_NAME", "loop_")
	}

	span := spanOf(innerFields...)
	if span.Begin > kwSpan.Begin {
		span.Begin = kwSpan.Begin
	}

	// A trailing `stop_` is tolerated but not required (spec.md §4.1:
	// "nested-loop stop tolerance").
	if p.consume(lexer.TokStopKeyword) {
		span.End = p.lastTok.Span.End
	}

	nested := &parsetree.Node{Kind: parsetree.KindNestedLoop, Span: span, Children: innerFields}
	return &parsetree.Node{Kind: parsetree.KindDataLoopField, Span: span, Children: []*parsetree.Node{nested}}
}

// parseDataLoopValues greedily consumes every value-shaped or stop_
// token that follows: the grammar itself stays flat here, and the walker
// (package walker) is responsible for reconstructing rows and nested-loop
// boundaries from this flat stream against the field list, per spec.md
// §4.5.
func (p *parser) parseDataLoopValues(afterDefEnd int) *parsetree.Node {
	var items []*parsetree.Node
	for {
		tok := p.peek()
		if tok.Kind == lexer.TokStopKeyword {
			p.consume(lexer.TokStopKeyword)
			items = append(items, &parsetree.Node{Kind: parsetree.KindDataLoopItem, Span: p.lastTok.Span})
			continue
		}
		valKind, ok := dataValueKind(tok.Kind)
		if !ok {
			break
		}
		p.next()
		value := leaf(valKind, p.lastTok.Span)
		items = append(items, &parsetree.Node{Kind: parsetree.KindDataLoopItem, Span: value.Span, Children: []*parsetree.Node{value}})
	}

	if len(items) == 0 {
		// A loop with no values at all and no trailing stop_ is valid
		// (spec.md §8 boundary behaviors): the values node is a
		// zero-width placeholder positioned right after the definition.
		return &parsetree.Node{Kind: parsetree.KindDataLoopValues, Span: parsetree.Span{Begin: afterDefEnd, End: afterDefEnd}}
	}
	return &parsetree.Node{Kind: parsetree.KindDataLoopValues, Span: spanOf(items...), Children: items}
}
