// Package mutabletree is an owned, editable mirror of a parsetree.Tree
// (spec.md §4.4). The immutable tree parser.Parse returns borrows spans
// into the caller's buffer but never changes shape once built; the string
// decomposer needs to splice new children into existing leaves, so it
// works against this mirror instead and hands back a frozen
// parsetree.Tree when it's done.
package mutabletree

import "github.com/nihei9/star/parsetree"

// Node is the mutable counterpart of parsetree.Node. Unlike the immutable
// tree, a Node here knows its Parent, which the edit operations need to
// keep the parent's Children slice consistent.
type Node struct {
	Kind     parsetree.Kind
	Span     parsetree.Span
	Children []*Node
	Parent   *Node
}

// Tree is the mutable counterpart of parsetree.Tree.
type Tree struct {
	Root *Node
	Src  []byte
}

// TreeInvariantViolation is a programmer-bug signal, not a returned error
// (spec.md §7 item 5): it is only ever panicked, never part of the errs.Kind
// taxonomy, because the conditions it guards (editing a node that isn't
// where its parent says it is, splicing children whose spans don't tile
// the node they replace) can only happen from a bug in this package or its
// caller, never from malformed input.
type TreeInvariantViolation struct {
	Node    *Node
	Message string
}

func (e *TreeInvariantViolation) Error() string {
	return "mutabletree: invariant violated: " + e.Message
}

func violate(n *Node, message string) {
	panic(&TreeInvariantViolation{Node: n, Message: message})
}

// FromParseTree builds an owned, editable clone of t.
func FromParseTree(t *parsetree.Tree) *Tree {
	return &Tree{Root: cloneFromImmutable(t.Root, nil), Src: t.Src}
}

func cloneFromImmutable(n *parsetree.Node, parent *Node) *Node {
	if n == nil {
		return nil
	}
	m := &Node{Kind: n.Kind, Span: n.Span, Parent: parent}
	m.Children = make([]*Node, len(n.Children))
	for i, c := range n.Children {
		m.Children[i] = cloneFromImmutable(c, m)
	}
	return m
}

// Freeze produces an immutable parsetree.Tree snapshot of the current
// (possibly edited) mutable tree. The two trees share no node pointers, so
// further edits to t do not retroactively change a Freeze'd snapshot.
func (t *Tree) Freeze() *parsetree.Tree {
	return &parsetree.Tree{Root: freezeNode(t.Root), Src: t.Src}
}

func freezeNode(n *Node) *parsetree.Node {
	if n == nil {
		return nil
	}
	f := &parsetree.Node{Kind: n.Kind, Span: n.Span}
	f.Children = make([]*parsetree.Node, len(n.Children))
	for i, c := range n.Children {
		f.Children[i] = freezeNode(c)
	}
	return f
}

// indexOf returns the position of child within parent.Children, or -1.
func indexOf(parent *Node, child *Node) int {
	for i, c := range parent.Children {
		if c == child {
			return i
		}
	}
	return -1
}

// ReplaceChild replaces old, a direct child of n, with replacement.
// old must actually be one of n's children; otherwise this is an
// invariant violation (a programmer bug, never reachable from input).
func (n *Node) ReplaceChild(old, replacement *Node) {
	i := indexOf(n, old)
	if i < 0 {
		violate(n, "ReplaceChild: old is not a child of n")
	}
	replacement.Parent = n
	n.Children[i] = replacement
}

// ReplaceChildWithSequence replaces the single child old with the ordered
// sequence news, splicing them in at old's former position, so the new
// nodes become siblings of old's former siblings. (The decompose package
// does not use it: it keeps each quoted leaf and gives it its own
// delimiter/content/delimiter children.)
//
// The union of news' spans must exactly tile old's span, contiguously and
// in order; any mismatch is an invariant violation, since it would mean
// the decomposer miscounted delimiter bytes rather than the input being
// malformed.
func (n *Node) ReplaceChildWithSequence(old *Node, news []*Node) {
	i := indexOf(n, old)
	if i < 0 {
		violate(n, "ReplaceChildWithSequence: old is not a child of n")
	}
	if len(news) == 0 {
		violate(n, "ReplaceChildWithSequence: replacement sequence is empty")
	}
	if news[0].Span.Begin != old.Span.Begin || news[len(news)-1].Span.End != old.Span.End {
		violate(n, "ReplaceChildWithSequence: replacement sequence does not tile old's span")
	}
	for j := 1; j < len(news); j++ {
		if news[j].Span.Begin != news[j-1].Span.End {
			violate(n, "ReplaceChildWithSequence: replacement sequence has a gap or overlap")
		}
	}

	for _, c := range news {
		c.Parent = n
	}
	merged := make([]*Node, 0, len(n.Children)-1+len(news))
	merged = append(merged, n.Children[:i]...)
	merged = append(merged, news...)
	merged = append(merged, n.Children[i+1:]...)
	n.Children = merged
}

// InsertChild inserts child at position index among n's children.
func (n *Node) InsertChild(index int, child *Node) {
	if index < 0 || index > len(n.Children) {
		violate(n, "InsertChild: index out of range")
	}
	child.Parent = n
	n.Children = append(n.Children, nil)
	copy(n.Children[index+1:], n.Children[index:])
	n.Children[index] = child
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}
