package treetest

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/treegram"
	"github.com/npillmayer/treegram/trees"
)

func preorderLabels(root *trees.Node) []string {
	var labels []string
	trees.Preorder(root, func(n *trees.Node) bool {
		labels = append(labels, n.Label)
		return true
	})
	return labels
}

func TestDiscoTree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.trees")
	defer teardown()
	//
	tree := DiscoTree(t)
	got := preorderLabels(tree.Root())
	if len(got) != len(DiscoLabelsPreorder) {
		t.Fatalf("preorder has %d nodes, want %d", len(got), len(DiscoLabelsPreorder))
	}
	for i := range got {
		if got[i] != DiscoLabelsPreorder[i] {
			t.Fatalf("preorder[%d] = %s, want %s", i, got[i], DiscoLabelsPreorder[i])
		}
	}
	if g, err := tree.GapDegree(); err != nil || g != 1 {
		t.Errorf("gap degree = %d (err %v), want 1", g, err)
	}
	// the outer VP covers 'Who' and 'tell Hans that Manfred likes'
	vp := tree.Root().Children()[0].Children()[0]
	if vp.Label != "VP" {
		t.Fatalf("expected the outer VP, got %s", vp.Label)
	}
	blocks, err := vp.Blocks()
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 2 || blocks[0] != treegram.SpanOf(0, 1) || blocks[1] != treegram.SpanOf(3, 8) {
		t.Errorf("outer VP blocks = %v", blocks)
	}
}

func TestContTree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.trees")
	defer teardown()
	//
	tree := ContTree(t)
	got := preorderLabels(tree.Root())
	for i := range got {
		if got[i] != ContLabelsPreorder[i] {
			t.Fatalf("preorder[%d] = %s, want %s", i, got[i], ContLabelsPreorder[i])
		}
	}
	if g, err := tree.GapDegree(); err != nil || g != 0 {
		t.Errorf("gap degree = %d (err %v), want 0", g, err)
	}
}

func TestDiscoSiblingsAndDominance(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.trees")
	defer teardown()
	//
	tree := DiscoTree(t)
	rightSibs := []string{
		"", "?", "VB", "VB", "IN", "VB", "", "NP", "", "", "NNP", "", "NNP", "", "",
	}
	leftSibs := []string{
		"", "", "", "", "", "", "WP", "VP", "IN", "", "SBAR", "VB", "VP", "VB", "S",
	}
	i := 0
	trees.Preorder(tree.Root(), func(n *trees.Node) bool {
		if sib := trees.RightSibling(n); sib == nil && rightSibs[i] != "" {
			t.Errorf("node %d (%s): no right sibling, want %s", i, n.Label, rightSibs[i])
		} else if sib != nil && sib.Label != rightSibs[i] {
			t.Errorf("node %d (%s): right sibling %s, want %s", i, n.Label, sib.Label, rightSibs[i])
		}
		if sib := trees.LeftSibling(n); sib == nil && leftSibs[i] != "" {
			t.Errorf("node %d (%s): no left sibling, want %s", i, n.Label, leftSibs[i])
		} else if sib != nil && sib.Label != leftSibs[i] {
			t.Errorf("node %d (%s): left sibling %s, want %s", i, n.Label, sib.Label, leftSibs[i])
		}
		i++
		return true
	})
	//
	who := tree.Terminals()[0]
	dom := trees.Dominance(who)
	want := []string{"WP", "VP", "SBAR", "VP", "S", "VROOT"}
	for i, n := range dom {
		if n.Label != want[i] {
			t.Errorf("dominance[%d] = %s, want %s", i, n.Label, want[i])
		}
	}
	likes := tree.Terminals()[7]
	if lca := trees.LCA(who, likes); lca.Label != "VP" {
		t.Errorf("LCA(Who, likes) = %s, want VP", lca.Label)
	}
}
