// Package decompose implements the post-parse string decomposition pass
// (spec.md §4.4): every quoted or semicolon-bounded data_value leaf is
// split into opening-delimiter/content/closing-delimiter children, so a
// caller that wants the delimiter-stripped text doesn't have to know each
// quoting discipline's framing rules itself.
//
// The pass runs against a mutabletree.Tree mirror rather than the
// immutable parsetree.Tree the parser produces, since it changes tree
// shape (spec.md §4.4's "non_quoted_text_string and frame_code are never
// decomposed — they have no delimiters to strip").
package decompose

import (
	"github.com/nihei9/star/mutabletree"
	"github.com/nihei9/star/parsetree"
)

// Run walks t and decomposes every quoted or semicolon-bounded leaf it
// finds. It is idempotent: a node that has already been decomposed (or
// was never a candidate) is left alone, so calling Run twice on the same
// tree is a no-op the second time.
func Run(t *mutabletree.Tree) {
	walk(t.Root)
}

func walk(n *mutabletree.Node) {
	if n == nil {
		return
	}
	if decomposeOne(n) {
		return
	}
	for _, c := range n.Children {
		walk(c)
	}
}

// decomposeOne decomposes n in place if it is an un-decomposed candidate
// leaf, and reports whether it did so (in which case its new children are
// plain delimiter/content leaves that need no further recursion).
func decomposeOne(n *mutabletree.Node) bool {
	if !n.IsLeaf() {
		return false
	}

	switch n.Kind {
	case parsetree.KindSingleQuoteString, parsetree.KindDoubleQuoteString:
		decomposeQuoted(n)
		return true
	case parsetree.KindSemiColonBoundedTextString:
		decomposeSemiColon(n)
		return true
	default:
		return false
	}
}

// decomposeQuoted splits a single- or double-quote leaf into its framing
// one-byte delimiters and the content between them. Doubled-delimiter
// escapes inside the content span are left exactly as scanned — they are
// not unescaped, matching the rest of this package's span-only model
// (spec.md §4.4).
func decomposeQuoted(n *mutabletree.Node) {
	begin, end := n.Span.Begin, n.Span.End
	opening := leaf(parsetree.KindOpeningDelimiter, begin, begin+1)
	content := leaf(parsetree.KindStringContent, begin+1, end-1)
	closing := leaf(parsetree.KindClosingDelimiter, end-1, end)
	n.Children = []*mutabletree.Node{opening, content, closing}
	for _, c := range n.Children {
		c.Parent = n
	}
}

// decomposeSemiColon splits a semicolon-bounded leaf into its framing
// delimiters and the content between them. The opening delimiter is the
// single ';' byte at column 1; the closing delimiter is the trailing
// newline-then-';' pair the lexer requires to close the token. Both
// framing sequences are excluded from the content span, unlike the
// quoting disciplines where only the bare delimiter byte is excluded.
func decomposeSemiColon(n *mutabletree.Node) {
	begin, end := n.Span.Begin, n.Span.End
	opening := leaf(parsetree.KindOpeningDelimiter, begin, begin+1)
	content := leaf(parsetree.KindStringContent, begin+1, end-2)
	closing := leaf(parsetree.KindClosingDelimiter, end-2, end)
	n.Children = []*mutabletree.Node{opening, content, closing}
	for _, c := range n.Children {
		c.Parent = n
	}
}

func leaf(kind parsetree.Kind, begin, end int) *mutabletree.Node {
	return &mutabletree.Node{Kind: kind, Span: parsetree.Span{Begin: begin, End: end}}
}
