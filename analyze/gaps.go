package analyze

import (
	"fmt"
	"strconv"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/npillmayer/treegram/trees"
)

// Gap types of Maier & Lichte (2016).
const (
	GapNone   = "none"
	GapPass   = "pass"
	GapSource = "source"
)

// GapType classifies a node by its relation to gaps: "pass" for a node
// whose own yield has a gap, "source" for a node with contiguous yield
// dominating a gapped inner child (the node where the gap gets filled),
// "none" otherwise. Terminals are always "none".
func GapType(n *trees.Node) (string, error) {
	if !n.HasChildren() {
		return GapNone, nil
	}
	g, err := n.GapDegree()
	if err != nil {
		return "", err
	}
	if g > 0 {
		return GapPass, nil
	}
	for _, c := range n.Children() {
		if !c.HasChildren() {
			continue
		}
		cg, err := c.GapDegree()
		if err != nil {
			return "", err
		}
		if cg > 0 {
			return GapSource, nil
		}
	}
	return GapNone, nil
}

// DiscoOrder returns the terminals below n in the continuous reading
// order of Maier & Lichte (2016). Mode "left" keeps the canonical order;
// mode "rightd" flips the children of every gap source, which places gap
// fillers before the material they interrupt. The subtree must be
// binarized.
func DiscoOrder(n *trees.Node, mode string) ([]*trees.Node, error) {
	if mode != "left" && mode != "rightd" {
		return nil, fmt.Errorf("unknown disco-order mode '%s'", mode)
	}
	return discoOrder(n, mode)
}

func discoOrder(n *trees.Node, mode string) ([]*trees.Node, error) {
	if n.ChildCount() > 2 {
		return nil, &trees.StructureError{Msg: "tree must be binarized"}
	}
	if !n.HasChildren() {
		return []*trees.Node{n}, nil
	}
	cs := trees.CanonicalChildren(n)
	if len(cs) == 1 {
		return discoOrder(cs[0], mode)
	}
	first, second := cs[0], cs[1]
	if mode == "rightd" {
		gt, err := GapType(n)
		if err != nil {
			return nil, err
		}
		if gt == GapSource {
			first, second = second, first
		}
	}
	head, err := discoOrder(first, mode)
	if err != nil {
		return nil, err
	}
	tail, err := discoOrder(second, mode)
	if err != nil {
		return nil, err
	}
	return append(head, tail...), nil
}

// === Gap degree task =======================================================

// GapDegree accumulates gap-degree histograms: how often each degree
// occurs per nonterminal node, and per tree when taking each tree's
// maximum.
type GapDegree struct {
	perNode *treemap.Map // gap degree -> node count
	perTree *treemap.Map // gap degree -> tree count
}

// NewGapDegree creates an empty gap-degree accumulator.
func NewGapDegree() *GapDegree {
	return &GapDegree{
		perNode: treemap.NewWithIntComparator(),
		perTree: treemap.NewWithIntComparator(),
	}
}

// Run folds one tree into the histograms.
func (gd *GapDegree) Run(t *trees.Tree) error {
	treeDeg := 0
	var firstErr error
	trees.Preorder(t.Root(), func(n *trees.Node) bool {
		if !n.HasChildren() {
			return true
		}
		g, err := n.GapDegree()
		if err != nil {
			firstErr = err
			return false
		}
		bump(gd.perNode, g)
		if g > treeDeg {
			treeDeg = g
		}
		return true
	})
	if firstErr != nil {
		return fmt.Errorf("tree %d (%w)", t.ID, firstErr)
	}
	bump(gd.perTree, treeDeg)
	return nil
}

// PerTree visits the per-tree histogram in ascending degree order.
func (gd *GapDegree) PerTree(visit func(degree, count int)) {
	gd.perTree.Each(func(k, v interface{}) {
		visit(k.(int), v.(int))
	})
}

// PerNode visits the per-node histogram in ascending degree order.
func (gd *GapDegree) PerNode(visit func(degree, count int)) {
	gd.perNode.Each(func(k, v interface{}) {
		visit(k.(int), v.(int))
	})
}

// Header returns the summary table header.
func (gd *GapDegree) Header() []string {
	return []string{"scope", "gap degree", "count", "share"}
}

// Rows returns one row per histogram entry, trees first.
func (gd *GapDegree) Rows() [][]string {
	rows := histRows("tree", gd.perTree)
	return append(rows, histRows("node", gd.perNode)...)
}

func histRows(scope string, hist *treemap.Map) [][]string {
	total := 0
	hist.Each(func(_, v interface{}) {
		total += v.(int)
	})
	var rows [][]string
	hist.Each(func(k, v interface{}) {
		share := 100 * float64(v.(int)) / float64(total)
		rows = append(rows, []string{
			scope,
			strconv.Itoa(k.(int)),
			strconv.Itoa(v.(int)),
			fmt.Sprintf("%.2f%%", share),
		})
	})
	return rows
}
