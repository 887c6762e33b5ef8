// Package walker implements the SAS (STAR-based API for Streaming) walker
// (spec.md §4.5): a single in-order traversal of a parsetree.Tree that
// drives a caller-supplied ContentHandler with a closed set of events,
// tracking loop level and reconstructing loop rows (including nested
// loops and the EMPTY_LOOP sentinel) from the flat data_loop_values
// stream the parser produces.
package walker

import (
	"github.com/nihei9/star/lineindex"
	"github.com/nihei9/star/parsetree"
)

// Delimiter values reported on a Data event (spec.md §4.5).
const (
	DelimNone        = ""
	DelimSingleQuote = "'"
	DelimDoubleQuote = `"`
	DelimSemiColon   = ";"
	// DelimEmptyLoop marks a synthesized event for a loop tag that has no
	// row data (spec.md's EMPTY_LOOP sentinel).
	DelimEmptyLoop = "EMPTY_LOOP"
)

// ContentHandler is the polymorphic event sink a walk drives (spec.md
// §4.5). Every method returns a bool; returning true halts the walk
// immediately, with no compensating end_* event for whatever was left
// open.
type ContentHandler interface {
	StartStream(name string) bool
	EndStream(pos lineindex.Pos) bool
	StartGlobal(pos lineindex.Pos) bool
	EndGlobal(pos lineindex.Pos) bool
	StartData(pos lineindex.Pos, name string) bool
	EndData(pos lineindex.Pos, name string) bool
	StartSaveFrame(pos lineindex.Pos, name string) bool
	EndSaveFrame(pos lineindex.Pos, name string) bool
	StartLoop(pos lineindex.Pos) bool
	EndLoop(pos lineindex.Pos) bool
	Comment(pos lineindex.Pos, text string) bool
	Data(tag string, tagPos lineindex.Pos, value string, valuePos lineindex.Pos, delim string, level int) bool
}

// Options configures a walk: the line-index unit to resolve positions
// with, an optional stream name (spec.md §9 Open Question (a), resolved
// in SPEC_FULL.md §5.4), and the comment spans collected while lexing
// (empty unless config.PreserveComments was set).
type Options struct {
	Unit       lineindex.Unit
	StreamName string
	Comments   []parsetree.Span
}

// Walk traverses tree, resolving positions against tree.Src.
func Walk(tree *parsetree.Tree, h ContentHandler, opts Options) error {
	return WalkWithSource(tree, h, tree.Src, opts)
}

// WalkWithSource traverses tree, resolving positions and value/comment
// text against source instead of tree.Src. This lets a caller walk a
// tree whose spans were borrowed from a buffer it manages separately
// (spec.md §6 library surface: walk_with_source).
func WalkWithSource(tree *parsetree.Tree, h ContentHandler, source []byte, opts Options) error {
	c := &ctx{
		h:        h,
		src:      source,
		idx:      lineindex.New(source, opts.Unit),
		comments: opts.Comments,
	}

	if h.StartStream(opts.StreamName) {
		return nil
	}

	stop := false
	for _, child := range tree.Root.Children {
		if c.flush(h, child.Span.Begin) {
			return nil
		}
		switch child.Kind {
		case parsetree.KindDataBlock:
			stop = c.visitDataBlock(child)
		case parsetree.KindGlobalBlock:
			stop = c.visitGlobalBlock(child)
		}
		if stop {
			return nil
		}
	}

	if c.flush(h, tree.Root.Span.End) {
		return nil
	}
	h.EndStream(c.idx.Resolve(tree.Root.Span.End))
	return nil
}

type ctx struct {
	h          ContentHandler
	src        []byte
	idx        *lineindex.Index
	comments   []parsetree.Span
	commentPos int
}

// flush emits every pending comment that starts before offset, in source
// order, and reports whether the handler asked to stop.
func (c *ctx) flush(h ContentHandler, offset int) bool {
	for c.commentPos < len(c.comments) && c.comments[c.commentPos].Begin < offset {
		span := c.comments[c.commentPos]
		c.commentPos++
		if h.Comment(c.idx.Resolve(span.Begin), string(span.Text(c.src))) {
			return true
		}
	}
	return false
}

func (c *ctx) text(n *parsetree.Node) string {
	return string(n.Span.Text(c.src))
}

func (c *ctx) pos(offset int) lineindex.Pos {
	return c.idx.Resolve(offset)
}

const (
	dataPrefixLen = len("data_")
	savePrefixLen = len("save_")
)

func (c *ctx) visitDataBlock(n *parsetree.Node) bool {
	heading := n.Children[0]
	name := heading.Span.Text(c.src)[dataPrefixLen:]
	if c.flush(c.h, heading.Span.Begin) {
		return true
	}
	if c.h.StartData(c.pos(heading.Span.Begin), string(name)) {
		return true
	}
	for _, child := range n.Children[1:] {
		if c.flush(c.h, child.Span.Begin) {
			return true
		}
		if c.visitBlockMember(child) {
			return true
		}
	}
	if c.flush(c.h, n.Span.End) {
		return true
	}
	return c.h.EndData(c.pos(n.Span.End), string(name))
}

func (c *ctx) visitGlobalBlock(n *parsetree.Node) bool {
	heading := n.Children[0]
	if c.flush(c.h, heading.Span.Begin) {
		return true
	}
	if c.h.StartGlobal(c.pos(heading.Span.Begin)) {
		return true
	}
	for _, child := range n.Children[1:] {
		if c.flush(c.h, child.Span.Begin) {
			return true
		}
		if c.visitBlockMember(child) {
			return true
		}
	}
	if c.flush(c.h, n.Span.End) {
		return true
	}
	return c.h.EndGlobal(c.pos(n.Span.End))
}

// visitBlockMember dispatches a data_block/global_block body item: a
// plain data node, a data_loop, or (data_block only) a save_frame.
func (c *ctx) visitBlockMember(n *parsetree.Node) bool {
	switch n.Kind {
	case parsetree.KindData:
		return c.visitData(n, 0)
	case parsetree.KindDataLoop:
		return c.visitLoop(n)
	case parsetree.KindSaveFrame:
		return c.visitSaveFrame(n)
	}
	return false
}

func (c *ctx) visitSaveFrame(n *parsetree.Node) bool {
	heading := n.Children[0]
	name := heading.Span.Text(c.src)[savePrefixLen:]
	if c.h.StartSaveFrame(c.pos(heading.Span.Begin), string(name)) {
		return true
	}
	body := n.Children[1:]
	for _, child := range body {
		if c.flush(c.h, child.Span.Begin) {
			return true
		}
		switch child.Kind {
		case parsetree.KindData:
			if c.visitData(child, 0) {
				return true
			}
		case parsetree.KindDataLoop:
			if c.visitLoop(child) {
				return true
			}
		}
	}
	if c.flush(c.h, n.Span.End) {
		return true
	}
	return c.h.EndSaveFrame(c.pos(n.Span.End), string(name))
}

func (c *ctx) visitData(n *parsetree.Node, level int) bool {
	tagNode := n.Children[0]
	valueNode := n.Children[1]
	value, delim := valueTextAndDelim(valueNode, c.src)
	if c.flush(c.h, tagNode.Span.Begin) {
		return true
	}
	return c.h.Data(c.text(tagNode), c.pos(tagNode.Span.Begin), value, c.pos(valueNode.Span.Begin), delim, level)
}

// valueTextAndDelim derives the delimiter-stripped value text and the
// reported delimiter for a data_value leaf (spec.md §4.5's "Delimiter
// encoding on data events"). Quoted and semicolon-bounded values are
// reported with their interior content only; non-quoted and frame-code
// values are reported with their full scanned text.
func valueTextAndDelim(n *parsetree.Node, src []byte) (string, string) {
	begin, end := n.Span.Begin, n.Span.End
	switch n.Kind {
	case parsetree.KindSingleQuoteString:
		return string(src[begin+1 : end-1]), DelimSingleQuote
	case parsetree.KindDoubleQuoteString:
		return string(src[begin+1 : end-1]), DelimDoubleQuote
	case parsetree.KindSemiColonBoundedTextString:
		return string(src[begin+1 : end-2]), DelimSemiColon
	default: // non_quoted_text_string, frame_code
		return string(src[begin:end]), DelimNone
	}
}

// field is a flattened view of a data_loop_definition entry: either a
// plain tag (tagNode != nil) or a nested loop's own field list.
type field struct {
	tagNode *parsetree.Node
	nested  []field
}

func buildFields(defFields []*parsetree.Node) []field {
	fields := make([]field, len(defFields))
	for i, f := range defFields {
		child := f.Children[0]
		if child.Kind == parsetree.KindDataName {
			fields[i] = field{tagNode: child}
		} else {
			fields[i] = field{nested: buildFields(child.Children)}
		}
	}
	return fields
}

func isStopMarker(item *parsetree.Node) bool {
	return item.Kind == parsetree.KindDataLoopItem && len(item.Children) == 0
}

func (c *ctx) visitLoop(n *parsetree.Node) bool {
	def := n.Children[0]
	valuesNode := n.Children[1]
	fields := buildFields(def.Children)
	items := valuesNode.Children

	if c.h.StartLoop(c.pos(n.Span.Begin)) {
		return true
	}

	pos := 0
	if c.consumeLoopBody(fields, items, &pos, 1) {
		return true
	}

	if c.flush(c.h, n.Span.End) {
		return true
	}
	return c.h.EndLoop(c.pos(n.Span.End))
}

// consumeLoopBody consumes zero or more rows of fields from items
// (starting at *pos), stopping at the first stop_ marker or when items
// are exhausted, and emits one EMPTY_LOOP event per tag (recursively,
// for nested fields too) if no row was ever consumed (spec.md §4.5's
// empty-loop emission, generalized to nested loops).
func (c *ctx) consumeLoopBody(fields []field, items []*parsetree.Node, pos *int, level int) bool {
	rows := 0
	for {
		if *pos >= len(items) {
			break
		}
		if isStopMarker(items[*pos]) {
			*pos++
			break
		}
		if c.consumeRow(fields, items, pos, level) {
			return true
		}
		rows++
	}
	if rows == 0 {
		return c.emitEmptyLoopRow(fields, level)
	}
	return false
}

func (c *ctx) consumeRow(fields []field, items []*parsetree.Node, pos *int, level int) bool {
	for _, f := range fields {
		if f.tagNode != nil {
			item := items[*pos]
			*pos++
			value, delim := valueTextAndDelim(item.Children[0], c.src)
			if c.flush(c.h, item.Span.Begin) {
				return true
			}
			if c.h.Data(c.text(f.tagNode), c.pos(f.tagNode.Span.Begin), value, c.pos(item.Span.Begin), delim, level) {
				return true
			}
			continue
		}
		if c.consumeLoopBody(f.nested, items, pos, level+1) {
			return true
		}
	}
	return false
}

func (c *ctx) emitEmptyLoopRow(fields []field, level int) bool {
	for _, f := range fields {
		if f.tagNode != nil {
			p := c.pos(f.tagNode.Span.Begin)
			if c.h.Data(c.text(f.tagNode), p, "", p, DelimEmptyLoop, level) {
				return true
			}
			continue
		}
		if c.emitEmptyLoopRow(f.nested, level+1) {
			return true
		}
	}
	return false
}
