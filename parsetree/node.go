// Package parsetree defines the immutable parse tree produced by a single
// parse call: a closed set of node kinds, each carrying a byte span into
// the caller-owned input buffer and an ordered list of children. See
// spec.md §3.
package parsetree

import "fmt"

// Kind is the closed set of parse-tree node productions (spec.md §3).
type Kind int

const (
	KindStarFile Kind = iota
	KindDataBlock
	KindDataHeading
	KindGlobalBlock
	KindSaveFrame
	KindSaveHeading
	KindData
	KindDataName
	KindDataLoop
	KindDataLoopDefinition
	KindDataLoopField
	KindNestedLoop
	KindDataLoopValues
	KindDataLoopItem

	KindNonQuotedTextString
	KindSingleQuoteString
	KindDoubleQuoteString
	KindSemiColonBoundedTextString
	KindFrameCode

	// Post-decomposition kinds (spec.md §3, §4.4).
	KindOpeningDelimiter
	KindStringContent
	KindClosingDelimiter
)

var kindNames = [...]string{
	"star_file",
	"data_block",
	"data_heading",
	"global_block",
	"save_frame",
	"save_heading",
	"data",
	"data_name",
	"data_loop",
	"data_loop_definition",
	"data_loop_field",
	"nested_loop",
	"data_loop_values",
	"data_loop_item",
	"non_quoted_text_string",
	"single_quote_string",
	"double_quote_string",
	"semi_colon_bounded_text_string",
	"frame_code",
	"opening_delimiter",
	"string_content",
	"closing_delimiter",
}

func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// IsDataValue reports whether k is one of the data_value leaf kinds
// (spec.md §3).
func (k Kind) IsDataValue() bool {
	switch k {
	case KindNonQuotedTextString, KindSingleQuoteString, KindDoubleQuoteString,
		KindSemiColonBoundedTextString, KindFrameCode:
		return true
	}
	return false
}

// Span is a half-open [Begin, End) byte range into the input buffer a
// Node was parsed from.
type Span struct {
	Begin int
	End   int
}

// Len returns the number of bytes the span covers.
func (s Span) Len() int { return s.End - s.Begin }

// Text returns the slice of src the span covers. src must be the same
// buffer (or an identical copy) the tree was parsed from.
func (s Span) Text(src []byte) []byte {
	return src[s.Begin:s.End]
}

// Node is a single immutable parse-tree node: a kind, a span, and an
// ordered list of children. Sibling order is semantically significant —
// it mirrors source order (spec.md §3).
type Node struct {
	Kind     Kind
	Span     Span
	Children []*Node
}

// Tree is the root of a completed parse: a star_file Node plus the input
// buffer it borrows spans from. The buffer must outlive every use of the
// tree's spans (spec.md §3 Ownership).
type Tree struct {
	Root *Node
	Src  []byte
}

// Text returns the source text a node's span covers, resolved against the
// tree's input buffer.
func (t *Tree) Text(n *Node) []byte {
	return n.Span.Text(t.Src)
}
