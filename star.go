// Package star is the public surface of the module (spec.md §6): parse a
// STAR-family document, optionally decompose its quoted strings, and walk
// it with a caller-supplied handler. Everything underneath (internal/lexer,
// internal/parser, parsetree, mutabletree, decompose, walker) is reachable
// on its own, but this package is the one callers are expected to import
// for the common path.
package star

import (
	"github.com/nihei9/star/config"
	"github.com/nihei9/star/decompose"
	"github.com/nihei9/star/internal/parser"
	"github.com/nihei9/star/lineindex"
	"github.com/nihei9/star/mutabletree"
	"github.com/nihei9/star/parsetree"
	"github.com/nihei9/star/walker"
)

// ContentHandler re-exports walker.ContentHandler so most callers need not
// import the walker package directly.
type ContentHandler = walker.ContentHandler

// Document is the result of a parse: the tree, the comment spans
// collected alongside it (empty unless config.PreserveComments was set),
// and the configuration the parse ran under (Walk needs EncodingMode and
// StreamName from it).
type Document struct {
	Tree     *parsetree.Tree
	Comments []parsetree.Span
	Config   config.Config
}

// ParseDefault parses text under config.Default().
func ParseDefault(text []byte) (*Document, error) {
	return ParseWith(text, config.Default())
}

// ParseWith parses text under cfg. When cfg.DecomposeStrings is set, the
// returned tree has already been run through the string decomposer (via a
// throwaway mutabletree.Tree mirror) before being handed back.
func ParseWith(text []byte, cfg config.Config) (*Document, error) {
	res, err := parser.Parse(text, cfg)
	if err != nil {
		return nil, err
	}

	tree := res.Tree
	if cfg.DecomposeStrings {
		tree = decomposeTree(tree)
	}

	return &Document{Tree: tree, Comments: res.Comments, Config: cfg}, nil
}

// DecomposeStrings runs the string decomposer over doc's tree in place
// (spec.md §6 library surface: decompose_strings(mutable_tree)). It is
// idempotent, matching the decompose package's own guarantee.
func DecomposeStrings(doc *Document) {
	doc.Tree = decomposeTree(doc.Tree)
}

func decomposeTree(tree *parsetree.Tree) *parsetree.Tree {
	mt := mutabletree.FromParseTree(tree)
	decompose.Run(mt)
	return mt.Freeze()
}

// Walk traverses doc's tree, resolving positions against doc.Tree.Src.
func Walk(doc *Document, h ContentHandler) error {
	return walker.Walk(doc.Tree, h, walkOptions(doc))
}

// WalkWithSource traverses doc's tree, resolving positions and value text
// against source instead of doc.Tree.Src.
func WalkWithSource(doc *Document, h ContentHandler, source []byte) error {
	return walker.WalkWithSource(doc.Tree, h, source, walkOptions(doc))
}

func walkOptions(doc *Document) walker.Options {
	unit := lineindex.UnitByte
	if doc.Config.EncodingMode.ColumnUnit() {
		unit = lineindex.UnitRune
	}
	return walker.Options{
		Unit:       unit,
		StreamName: doc.Config.StreamName,
		Comments:   doc.Comments,
	}
}
