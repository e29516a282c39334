package transform

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/treegram/trees"
	"github.com/npillmayer/treegram/trees/treetest"
)

func labelsOf(t *trees.Tree) []string {
	var labels []string
	trees.Preorder(t.Root(), func(n *trees.Node) bool {
		labels = append(labels, n.Label)
		return true
	})
	return labels
}

func wordsOf(t *trees.Tree) []string {
	terms := t.Terminals()
	words := make([]string, len(terms))
	for i, term := range terms {
		words[i] = term.Word
	}
	return words
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func mustRun(t *testing.T, tree *trees.Tree, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := Apply(name, tree, nil); err != nil {
			t.Fatalf("step %s: %v", name, err)
		}
	}
}

func mustAttach(t *testing.T, parent *trees.Node, children ...*trees.Node) {
	t.Helper()
	for _, c := range children {
		if err := trees.Attach(parent, c, -1); err != nil {
			t.Fatal(err)
		}
	}
}

func mustTree(t *testing.T, id int, root *trees.Node) *trees.Tree {
	t.Helper()
	tree, err := trees.NewTree(id, root)
	if err != nil {
		t.Fatal(err)
	}
	return tree
}

// preorder labels of the sample tree after block splitting
var boydLabelsPreorder = []string{
	"VROOT", "S", "VP", "SBAR", "VP", "WP", "VB", "NNP", "VP", "VB",
	"NNP", "SBAR", "IN", "NP", "NNP", "VP", "VB", "?",
}

// --- the Tests -------------------------------------------------------------

func TestPipelineValidation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.trees")
	defer teardown()
	//
	if _, err := NewPipelineNamed([]string{"root_attach", "no_such_step"}, nil); err == nil {
		t.Error("expected pipeline creation to fail for unknown step")
	}
	p, err := NewPipelineNamed([]string{"root_attach", "negra_mark_heads"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !equalStrings(p.Steps(), []string{"root_attach", "negra_mark_heads"}) {
		t.Errorf("pipeline steps = %v", p.Steps())
	}
}

func TestParseOptions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.trees")
	defer teardown()
	//
	opts := ParseOptions([]string{"terminalfile:some/file.txt", "max_raise:5", "gf"})
	if opts.String("terminalfile", "") != "some/file.txt" {
		t.Errorf("terminalfile = %s", opts.String("terminalfile", ""))
	}
	if opts.Int("max_raise", 32) != 5 {
		t.Errorf("max_raise = %d", opts.Int("max_raise", 32))
	}
	if !opts.Bool("gf") {
		t.Error("flag option gf not set")
	}
	if opts.Bool("other") {
		t.Error("unset option reported as set")
	}
}

func TestRootAttachLeavesSample(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.trees")
	defer teardown()
	//
	tree := treetest.DiscoTree(t)
	mustRun(t, tree, "root_attach")
	if !equalStrings(labelsOf(tree), treetest.DiscoLabelsPreorder) {
		t.Errorf("preorder labels changed: %v", labelsOf(tree))
	}
	if !equalStrings(wordsOf(tree), treetest.Words) {
		t.Errorf("terminals changed: %v", wordsOf(tree))
	}
	// splitting without marked heads must fail
	err := Apply("boyd_split", tree, nil)
	var serr *trees.StructureError
	if !errors.As(err, &serr) {
		t.Errorf("expected structure error from boyd_split, got %v", err)
	}
}

func TestRootAttachMovesPunctuation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.trees")
	defer teardown()
	//
	// NeGra style: comma interrupting the S hangs off VROOT
	a := trees.Terminal("a", "NN", 0)
	comma := trees.Terminal(",", "$,", 1)
	b := trees.Terminal("b", "NN", 2)
	s := trees.Nonterminal("S")
	root := trees.Nonterminal(trees.DefaultRoot)
	mustAttach(t, s, a, b)
	mustAttach(t, root, s, comma)
	tree := mustTree(t, 7, root)
	mustRun(t, tree, "root_attach")
	if comma.Parent() != s {
		t.Errorf("comma not attached to S but to %v", comma.Parent())
	}
	if g, err := tree.GapDegree(); err != nil || g != 0 {
		t.Errorf("gap degree = %d (err %v) after root_attach", g, err)
	}
}

func TestBoydSplit(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.trees")
	defer teardown()
	//
	tree := treetest.DiscoTree(t)
	mustRun(t, tree, "root_attach", "negra_mark_heads", "boyd_split")
	if !equalStrings(labelsOf(tree), boydLabelsPreorder) {
		t.Errorf("preorder labels after splitting:\ngot  %v\nwant %v",
			labelsOf(tree), boydLabelsPreorder)
	}
	if !equalStrings(wordsOf(tree), treetest.Words) {
		t.Errorf("terminals changed: %v", wordsOf(tree))
	}
	if err := tree.Validate(); err != nil {
		t.Error(err)
	}
	// the S node now has two VP blocks, the second covering the head
	s := tree.Root().Children()[0]
	blocks := s.Children()
	if len(blocks) != 4 {
		t.Fatalf("S has %d children after splitting, want 4", len(blocks))
	}
	first, last := blocks[0], blocks[3]
	if !first.Split || first.HeadBlock || first.BlockNum != 1 {
		t.Errorf("first VP block marked %v/%v/%d", first.Split, first.HeadBlock, first.BlockNum)
	}
	if !last.Split || !last.HeadBlock || last.BlockNum != 2 {
		t.Errorf("second VP block marked %v/%v/%d", last.Split, last.HeadBlock, last.BlockNum)
	}
}

func TestRaising(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.trees")
	defer teardown()
	//
	tree := treetest.DiscoTree(t)
	mustRun(t, tree, "root_attach", "negra_mark_heads", "boyd_split", "raising")
	if !equalStrings(labelsOf(tree), treetest.ContLabelsPreorder) {
		t.Errorf("preorder labels after raising:\ngot  %v\nwant %v",
			labelsOf(tree), treetest.ContLabelsPreorder)
	}
	if !equalStrings(wordsOf(tree), treetest.Words) {
		t.Errorf("terminals changed: %v", wordsOf(tree))
	}
	if g, err := tree.GapDegree(); err != nil || g != 0 {
		t.Errorf("gap degree = %d (err %v) after raising", g, err)
	}
	if err := tree.Validate(); err != nil {
		t.Error(err)
	}
}

func TestRemoveCrossing(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.trees")
	defer teardown()
	//
	tree := treetest.DiscoTree(t)
	mustRun(t, tree, "negra_mark_heads", "remove_crossing")
	if g, err := tree.GapDegree(); err != nil || g != 0 {
		t.Fatalf("gap degree = %d (err %v) after remove_crossing", g, err)
	}
	if !equalStrings(labelsOf(tree), treetest.ContLabelsPreorder) {
		t.Errorf("preorder labels: %v", labelsOf(tree))
	}
	if !equalStrings(wordsOf(tree), treetest.Words) {
		t.Errorf("terminals changed: %v", wordsOf(tree))
	}
	// idempotent: a second application does not change the tree
	labels := labelsOf(tree)
	mustRun(t, tree, "remove_crossing")
	if !equalStrings(labelsOf(tree), labels) {
		t.Errorf("second application changed the tree: %v", labelsOf(tree))
	}
}

func TestRemoveCrossingBound(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.trees")
	defer teardown()
	//
	tree := treetest.DiscoTree(t)
	mustRun(t, tree, "negra_mark_heads")
	err := Apply("remove_crossing", tree, Options{"max_raise": "0"})
	var uerr *UnresolvableCrossingError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UnresolvableCrossingError, got %v", err)
	}
	if uerr.Tree != tree {
		t.Error("error does not carry the partially transformed tree")
	}
}

func TestAddTopnode(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.trees")
	defer teardown()
	//
	tree := treetest.ContTree(t)
	mustRun(t, tree, "add_topnode")
	root := tree.Root()
	if root.Label != "TOP" || root.ChildCount() != 1 {
		t.Errorf("root is %s with %d children", root.Label, root.ChildCount())
	}
	if root.Children()[0].Label != trees.DefaultRoot {
		t.Errorf("child of TOP is %s", root.Children()[0].Label)
	}
	if err := tree.Validate(); err != nil {
		t.Error(err)
	}
}

func TestInsertTerminals(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.trees")
	defer teardown()
	//
	a := trees.Terminal("A", "T", 0)
	b := trees.Terminal("B", "T", 1)
	d := trees.Terminal("D", "T", 2)
	s := trees.Nonterminal("S")
	root := trees.Nonterminal(trees.DefaultRoot)
	mustAttach(t, s, a, b, d)
	mustAttach(t, root, s)
	tree := mustTree(t, 3, root)
	name := filepath.Join(t.TempDir(), "terminals.txt")
	if err := os.WriteFile(name, []byte("2 C X\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := Apply("insert_terminals", tree, Options{"terminalfile": name}); err != nil {
		t.Fatal(err)
	}
	if !equalStrings(wordsOf(tree), []string{"A", "B", "C", "D"}) {
		t.Errorf("terminals = %v", wordsOf(tree))
	}
	c := tree.Terminals()[2]
	if c.Label != "X" || c.Parent() != root {
		t.Errorf("inserted terminal has label %s below %v", c.Label, c.Parent())
	}
	if err := tree.Validate(); err != nil {
		t.Error(err)
	}
}
