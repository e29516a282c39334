package trees

import (
	"fmt"
)

// Tree binds the root node of a tree to a sentence ID.
type Tree struct {
	ID   int
	root *Node
}

// NewTree wraps root into a tree with the given sentence ID and validates
// the structure, see Validate.
func NewTree(id int, root *Node) (*Tree, error) {
	t := &Tree{ID: id, root: root}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Root returns the root node.
func (t *Tree) Root() *Node {
	return t.root
}

// SetRoot replaces the root node. Transformations which introduce a new top
// node use this; the new root must dominate the old structure.
func (t *Tree) SetRoot(root *Node) {
	t.root = root
}

// Terminals returns the terminals of the tree, ordered by position.
func (t *Tree) Terminals() []*Node {
	return t.root.Terminals()
}

// Len returns the sentence length, i.e., the number of terminals.
func (t *Tree) Len() int {
	return len(t.root.UnorderedTerminals())
}

// GapDegree returns the maximum gap degree over all nodes of the tree.
func (t *Tree) GapDegree() (int, error) {
	max := 0
	var firstErr error
	Preorder(t.root, func(n *Node) bool {
		g, err := n.GapDegree()
		if err != nil {
			firstErr = err
			return false
		}
		if g > max {
			max = g
		}
		return true
	})
	return max, firstErr
}

// Validate checks the structural invariants: parent pointers must be
// consistent, the root must not have a parent, every leaf must be a
// terminal, and the terminal positions must be exactly 0..n-1, each
// occurring once. Violations are reported as a StructureError wrapped with
// the sentence ID.
func (t *Tree) Validate() error {
	if t.root == nil {
		return t.structureError("tree has no root")
	}
	if t.root.parent != nil {
		return t.structureError("root has a parent")
	}
	seen := make(map[int]*Node)
	count := 0
	var err error
	Preorder(t.root, func(n *Node) bool {
		for _, c := range n.children {
			if c.parent != n {
				err = t.structureError(fmt.Sprintf("%v has an inconsistent parent pointer", c))
				return false
			}
		}
		if !n.IsTerminal() {
			if !n.HasChildren() {
				err = t.structureError(fmt.Sprintf("inner node %v has no children", n))
				return false
			}
			return true
		}
		if n.HasChildren() {
			err = t.structureError(fmt.Sprintf("terminal %v has children", n))
			return false
		}
		if dup, ok := seen[n.pos]; ok {
			err = t.structureError(fmt.Sprintf("terminals %v and %v share position %d", dup, n, n.pos))
			return false
		}
		seen[n.pos] = n
		count++
		return true
	})
	if err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		if _, ok := seen[i]; !ok {
			return t.structureError(fmt.Sprintf("no terminal at position %d", i))
		}
	}
	return nil
}

func (t *Tree) structureError(msg string) error {
	return fmt.Errorf("tree %d: %w", t.ID, &StructureError{Msg: msg})
}

// === Terminal surgery ======================================================

// InsertTerminal inserts leaf, whose position must be set, as a child of
// parent. Positions at or right of the insertion point move up by one.
func (t *Tree) InsertTerminal(leaf, parent *Node) error {
	if !leaf.IsTerminal() {
		return t.structureError("only terminals can be inserted")
	}
	n := t.Len()
	if leaf.pos > n {
		return t.structureError(fmt.Sprintf("terminal position %d out of range 0..%d", leaf.pos, n))
	}
	for _, term := range t.root.UnorderedTerminals() {
		if term.pos >= leaf.pos {
			term.pos++
		}
	}
	// Renumbering bypasses the per-node caches, so they must be dropped
	// before Attach picks the canonical slot from leftmost positions.
	invalidateAll(t.root)
	return Attach(parent, leaf, -1)
}

// DeleteTerminal removes leaf from the tree, pruning ancestors left without
// children, and renumbers the remaining terminals. It returns the lowest
// ancestor of leaf which survived the pruning.
func (t *Tree) DeleteTerminal(leaf *Node) (*Node, error) {
	if !leaf.IsTerminal() || leaf.parent == nil {
		return nil, t.structureError("not an attached terminal")
	}
	pos := leaf.pos
	anc := leaf.parent
	Detach(leaf)
	for anc.parent != nil && !anc.HasChildren() {
		next := anc.parent
		Detach(anc)
		anc = next
	}
	for _, term := range t.root.UnorderedTerminals() {
		if term.pos > pos {
			term.pos--
		}
	}
	invalidateAll(t.root)
	tracer().Debugf("tree %d: deleted terminal %s/%d", t.ID, leaf.Word, pos)
	return anc, nil
}
