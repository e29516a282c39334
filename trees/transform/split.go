package transform

import (
	"fmt"

	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/treegram/trees"
)

// UnresolvableCrossingError reports that crossing-branch removal did
// not reach a tree free of crossing branches within its step bound.
// The partially transformed tree travels with the error, so that
// callers can inspect what went wrong.
type UnresolvableCrossingError struct {
	Tree  *trees.Tree
	Steps int
}

func (e *UnresolvableCrossingError) Error() string {
	return fmt.Sprintf("tree %d still has crossing branches after %d raising steps",
		e.Tree.ID, e.Steps)
}

var _ error = &UnresolvableCrossingError{}

// childBlocks groups the children of n into maximal sequences dominating
// contiguous blocks of terminals. Children are expected to be continuous
// themselves, which boydSplit guarantees by proceeding bottom-up.
func childBlocks(n *trees.Node) ([][]*trees.Node, error) {
	var blocks [][]*trees.Node
	last := -2
	for _, child := range n.Children() {
		left, right, err := span(child)
		if err != nil {
			return nil, err
		}
		if len(blocks) == 0 || left > last+1 {
			blocks = append(blocks, nil)
		}
		blocks[len(blocks)-1] = append(blocks[len(blocks)-1], child)
		last = right
	}
	return blocks, nil
}

// boydSplit replaces each discontinuous node by one node per continuous
// terminal block, each covering exactly that block. The unique block
// covering the head daughter of the unsplit node is marked as head
// block, determined recursively where the head daughter has been split
// itself. The algorithm is due to Boyd (2007) and proceeds bottom-up,
// so that the children of a node are already continuous when the node
// itself is split.
//
// Split nodes carry the Split, HeadBlock and BlockNum markings, which
// raising and the export writer options boyd_split_marking and
// boyd_split_numbering rely on.
//
// Prerequisite: marked heads, e.g. by negra_mark_heads or mark_heads.
func boydSplit(t *trees.Tree, opts Options) error {
	var nodes []*trees.Node
	trees.Postorder(t.Root(), func(n *trees.Node) bool {
		nodes = append(nodes, n)
		return true
	})
	for _, n := range nodes {
		n.Split = false
		n.HeadBlock = true
		if !n.HasChildren() {
			continue
		}
		blocks, err := childBlocks(n)
		if err != nil {
			return err
		}
		if len(blocks) < 2 {
			continue
		}
		parent := n.Parent()
		if parent == nil {
			return &trees.StructureError{Msg: "root covers a discontinuous yield"}
		}
		if !anyHead(n.Children()) {
			return &trees.StructureError{Msg: "heads not marked"}
		}
		trees.Detach(n)
		for i, block := range blocks {
			split := n.Clone()
			split.Split = true
			split.HeadBlock = false
			split.BlockNum = i + 1
			for _, child := range block {
				trees.Detach(child)
				if err := trees.Attach(split, child, -1); err != nil {
					return err
				}
				if child.Head && (!child.Split || child.HeadBlock) {
					split.HeadBlock = true
				}
			}
			if err := trees.Attach(parent, split, -1); err != nil {
				return err
			}
		}
		tracer().Debugf("tree %d: split %s into %d blocks", t.ID, n.Label, len(blocks))
	}
	return nil
}

func anyHead(children []*trees.Node) bool {
	for _, child := range children {
		if child.Head {
			return true
		}
	}
	return false
}

// raising removes all split nodes which are not marked as head block,
// attaching their children to the split node's parent. Together with a
// previous boydSplit this removes all crossing branches from the tree;
// the head block node stays in place as the representative of the
// formerly discontinuous node.
//
// Prerequisite: a previous application of boyd_split.
func raising(t *trees.Tree, opts Options) error {
	root := t.Root()
	var removal []*trees.Node
	trees.Preorder(root, func(n *trees.Node) bool {
		if n != root && n.Split && !n.HeadBlock {
			removal = append(removal, n)
		}
		return true
	})
	for _, n := range removal {
		parent := n.Parent()
		trees.Detach(n)
		for _, child := range n.Children() {
			trees.Detach(child)
			if err := trees.Attach(parent, child, -1); err != nil {
				return err
			}
		}
	}
	return nil
}

const defaultMaxRaise = 32

// removeCrossing removes crossing branches by alternating block
// splitting and raising until every node of the tree covers a single
// contiguous terminal block. Normally a single round suffices; the
// total gap degree summed over all nodes must decrease strictly with
// every round, and the number of rounds is bounded by the parameter
// max_raise. If either condition is violated the tree is handed back,
// partially transformed, inside an UnresolvableCrossingError.
//
// Prerequisite: marked heads.
func removeCrossing(t *trees.Tree, opts Options) error {
	maxRaise := opts.Int("max_raise", defaultMaxRaise)
	prev := -1
	for step := 0; ; step++ {
		sum, err := gapSum(t)
		if err != nil {
			return err
		}
		if sum == 0 {
			return nil
		}
		if step >= maxRaise || (prev >= 0 && sum >= prev) {
			err := &UnresolvableCrossingError{Tree: t, Steps: step}
			tracer().Errorf(err.Error())
			if gconf.GetBool("panic-on-raise-limit") {
				panic(`crossing-branch removal did not terminate.

Configuration flag panic-on-raise-limit is set to true. It is aimed at helping
to debug tree transformations and do a post-mortem of why raising did not
converge. However, if this is a production environment and you did not expect
this to panic, please unset panic-on-raise-limit to its default (false).

` + err.Error())
			}
			return err
		}
		prev = sum
		if err := boydSplit(t, opts); err != nil {
			return err
		}
		if err := raising(t, opts); err != nil {
			return err
		}
	}
}

// gapSum is the gap degree summed over all nodes of the tree.
func gapSum(t *trees.Tree) (int, error) {
	sum := 0
	var firstErr error
	trees.Preorder(t.Root(), func(n *trees.Node) bool {
		g, err := n.GapDegree()
		if err != nil {
			firstErr = err
			return false
		}
		sum += g
		return true
	})
	return sum, firstErr
}
