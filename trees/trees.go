/*
Package trees implements the tree model for treebank processing: ordered
constituent trees over an indexed terminal string, with support for
discontinuous constituents.

A node either is a terminal, carrying a word form and a fixed position
within the sentence, or an inner node carrying a category label. Children
are kept in canonical order, i.e., ordered by the position of the leftmost
terminal they dominate. Every node knows the set of terminal positions it
covers; for a discontinuous node this yield falls apart into more than one
contiguous block. Yields are cached per node and invalidated along the path
to the root whenever the tree is restructured.

Terminal positions are 0-based throughout. Format readers translate from
the 1-based conventions of their file formats.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package trees

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/treegram"
	"golang.org/x/exp/slices"
)

// tracer traces with key 'treegram.trees'.
func tracer() tracing.Trace {
	return tracing.Select("treegram.trees")
}

// === Nodes =================================================================

// Node is a node of a constituent tree, either a terminal carrying a word
// and a sentence position, or an inner node carrying a category label.
//
// The exported fields mirror the columns of the common treebank formats.
// Format readers fill them, transformations modify them in place.
type Node struct {
	Label string // category or part-of-speech tag
	Word  string // word form, empty for inner nodes
	Lemma string
	Morph string // morphological annotation
	Edge  string // grammatical function of the edge to the parent
	Head  bool   // true if this node is the head child of its parent

	// Markings left behind by the block-splitting transformation.
	Split     bool // node has been introduced by splitting
	HeadBlock bool // node covers the block containing the head
	BlockNum  int  // 1-based block number, 0 if not split

	Bin *BinLabel // binarization context, non-nil on synthetic nodes only

	parent   *Node
	children []*Node
	pos      int             // terminal position, -1 for inner nodes
	yield    []treegram.Span // cached yield blocks, nil if not computed
}

// Terminal creates a terminal node for a word with part-of-speech tag label
// at sentence position pos (0-based). Lemma, morph and edge fields start
// out with their conventional defaults.
func Terminal(word, label string, pos int) *Node {
	return &Node{
		Label: label,
		Word:  word,
		Lemma: DefaultLemma,
		Morph: DefaultMorph,
		Edge:  DefaultEdge,
		pos:   pos,
	}
}

// Nonterminal creates an inner node with the given category label.
func Nonterminal(label string) *Node {
	return &Node{
		Label: label,
		Lemma: DefaultLemma,
		Morph: DefaultMorph,
		Edge:  DefaultEdge,
		pos:   -1,
	}
}

// Clone returns a new inner node carrying copies of the data fields of n.
// Neither children nor parent nor the terminal position are copied.
func (n *Node) Clone() *Node {
	return &Node{
		Label: n.Label,
		Word:  n.Word,
		Lemma: n.Lemma,
		Morph: n.Morph,
		Edge:  n.Edge,
		Head:  n.Head,
		pos:   -1,
	}
}

// IsTerminal is true for terminal nodes.
func (n *Node) IsTerminal() bool {
	return n.pos >= 0
}

// Pos returns the sentence position of a terminal, -1 for inner nodes.
func (n *Node) Pos() int {
	return n.pos
}

// SetPos renumbers a terminal. Format readers use this while assembling
// trees; everyone else should leave positions alone.
func (n *Node) SetPos(pos int) {
	n.pos = pos
	invalidate(n)
}

// Parent returns the parent node, nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// HasChildren is true if n has at least one child.
func (n *Node) HasChildren() bool {
	return len(n.children) > 0
}

// ChildCount returns the number of children of n.
func (n *Node) ChildCount() int {
	return len(n.children)
}

// Children returns a copy of the child sequence of n.
func (n *Node) Children() []*Node {
	cs := make([]*Node, len(n.children))
	copy(cs, n.children)
	return cs
}

func (n *Node) String() string {
	if n.IsTerminal() {
		return fmt.Sprintf("%s/%d", n.Word, n.pos)
	}
	return n.Label
}

// === Structural edits ======================================================

// Attach makes child the at-th child of parent. Position -1 inserts at the
// slot matching canonical order, i.e., before the first sibling whose
// leftmost terminal lies right of child's; a child without terminals goes
// to the end. Attach fails if child already has a parent or if the
// attachment would create a dominance cycle.
func Attach(parent, child *Node, at int) error {
	if child.parent != nil {
		return &StructureError{Msg: "node to attach already has a parent"}
	}
	for anc := parent; anc != nil; anc = anc.parent {
		if anc == child {
			return &StructureError{Msg: "attachment would create a cycle"}
		}
	}
	if at < 0 {
		at = len(parent.children)
		if l := leftmost(child); l >= 0 {
			for i, sib := range parent.children {
				sl := leftmost(sib)
				if sl < 0 || l < sl {
					at = i
					break
				}
			}
		}
	} else if at > len(parent.children) {
		at = len(parent.children)
	}
	parent.children = append(parent.children, nil)
	copy(parent.children[at+1:], parent.children[at:])
	parent.children[at] = child
	child.parent = parent
	invalidate(parent)
	return nil
}

// Detach removes child from its parent and returns it. Detaching a root is
// a no-op.
func Detach(child *Node) *Node {
	p := child.parent
	if p == nil {
		return child
	}
	for i, c := range p.children {
		if c == child {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	child.parent = nil
	invalidate(p)
	return child
}

// ReorderChildren permutes the child sequence of n: the new i-th child is
// the old perm[i]-th one. Dominance and yields are unaffected. Canonical
// order, once disturbed, is restored by SortChildren.
func ReorderChildren(n *Node, perm []int) error {
	if len(perm) != len(n.children) {
		return &StructureError{Msg: fmt.Sprintf("permutation of length %d for %d children", len(perm), len(n.children))}
	}
	seen := make([]bool, len(perm))
	reordered := make([]*Node, len(perm))
	for i, p := range perm {
		if p < 0 || p >= len(perm) || seen[p] {
			return &StructureError{Msg: "child reordering needs a permutation"}
		}
		seen[p] = true
		reordered[i] = n.children[p]
	}
	n.children = reordered
	return nil
}

// SortChildren re-establishes canonical order among the children of n.
// Children without terminals keep their relative order at the end.
func SortChildren(n *Node) {
	sortNodes(n.children)
}

// sortNodes sorts nodes stably by leftmost terminal, nodes without
// terminals last.
func sortNodes(ns []*Node) {
	slices.SortStableFunc(ns, func(a, b *Node) bool {
		la, lb := leftmost(a), leftmost(b)
		if lb < 0 {
			return la >= 0
		}
		if la < 0 {
			return false
		}
		return la < lb
	})
}

// === Yields ================================================================

// Blocks returns the yield of n as a sequence of maximal contiguous runs of
// terminal positions, leftmost first. The result is cached until the tree
// around n is restructured. A position covered twice within the subtree
// makes Blocks fail with a StructureError.
func (n *Node) Blocks() ([]treegram.Span, error) {
	if n.yield != nil {
		return n.yield, nil
	}
	positions := collectPositions(n, nil)
	slices.Sort(positions)
	blocks := make([]treegram.Span, 0, 1)
	for i, p := range positions {
		if i > 0 && p == positions[i-1] {
			return nil, &StructureError{Msg: fmt.Sprintf("terminal position %d dominated twice", p)}
		}
		if len(blocks) > 0 && blocks[len(blocks)-1].To() == p {
			blocks[len(blocks)-1] = treegram.SpanOf(blocks[len(blocks)-1].From(), p+1)
		} else {
			blocks = append(blocks, treegram.SpanOf(p, p+1))
		}
	}
	n.yield = blocks
	return blocks, nil
}

// GapDegree returns the number of gaps in the yield of n, i.e., the block
// count minus one. Terminals and nodes with contiguous yield have gap
// degree 0.
func (n *Node) GapDegree() (int, error) {
	blocks, err := n.Blocks()
	if err != nil {
		return 0, err
	}
	if len(blocks) == 0 {
		return 0, nil
	}
	return len(blocks) - 1, nil
}

// Fanout returns the number of yield blocks of n; 1 for terminals, 0 for
// inner nodes without terminals.
func (n *Node) Fanout() (int, error) {
	blocks, err := n.Blocks()
	if err != nil {
		return 0, err
	}
	return len(blocks), nil
}

// Terminals returns the terminals of the subtree rooted at n, ordered by
// sentence position.
func (n *Node) Terminals() []*Node {
	ts := n.UnorderedTerminals()
	slices.SortFunc(ts, func(a, b *Node) bool {
		return a.pos < b.pos
	})
	return ts
}

// UnorderedTerminals returns the terminals of the subtree rooted at n in
// document order. Inner nodes without children contribute nothing.
func (n *Node) UnorderedTerminals() []*Node {
	var ts []*Node
	var walk func(*Node)
	walk = func(m *Node) {
		if m.IsTerminal() {
			ts = append(ts, m)
			return
		}
		for _, c := range m.children {
			walk(c)
		}
	}
	walk(n)
	return ts
}

func collectPositions(n *Node, positions []int) []int {
	if n.pos >= 0 {
		return append(positions, n.pos)
	}
	for _, c := range n.children {
		positions = collectPositions(c, positions)
	}
	return positions
}

// leftmost returns the position of the leftmost terminal below n, -1 if
// there is none. Uses the yield cache when it is warm.
func leftmost(n *Node) int {
	if n.pos >= 0 {
		return n.pos
	}
	if n.yield != nil {
		if len(n.yield) == 0 {
			return -1
		}
		return n.yield[0].From()
	}
	min := -1
	for _, c := range n.children {
		if l := leftmost(c); l >= 0 && (min < 0 || l < min) {
			min = l
		}
	}
	return min
}

// invalidate drops the yield caches on the path from n to the root.
func invalidate(n *Node) {
	for ; n != nil; n = n.parent {
		n.yield = nil
	}
}

// invalidateAll drops the yield caches in the whole subtree of n. Needed
// after edits which renumber terminals across subtrees.
func invalidateAll(n *Node) {
	n.yield = nil
	for _, c := range n.children {
		invalidateAll(c)
	}
}
