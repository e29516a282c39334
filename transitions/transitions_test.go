package transitions

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/treegram/trees"
	"github.com/npillmayer/treegram/trees/binarize"
	"github.com/npillmayer/treegram/trees/transform"
	"github.com/npillmayer/treegram/trees/treetest"
)

// oracleTransitions is the reference sequence for the continuous sample
// with NeGra-style head marking and right-to-left binarization.
var oracleTransitions = []string{
	"SHIFT", "SHIFT", "UNARY-VP", "SHIFT", "UNARY-NP", "SHIFT",
	"BINARY-LEFT-@SBAR", "BINARY-LEFT-SBAR", "SHIFT", "SHIFT",
	"BINARY-LEFT-@VP", "BINARY-LEFT-VP", "SHIFT", "SHIFT", "SHIFT",
	"BINARY-LEFT-@S", "BINARY-LEFT-@S", "BINARY-LEFT-S",
	"BINARY-LEFT-VROOT",
}

func oracleTree(t *testing.T) *trees.Tree {
	t.Helper()
	tree := treetest.ContTree(t)
	if err := transform.Apply("negra_mark_heads", tree, nil); err != nil {
		t.Fatal(err)
	}
	if err := binarize.Binarize(tree, binarize.RightToLeft); err != nil {
		t.Fatal(err)
	}
	return tree
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

// --- the Tests -------------------------------------------------------------

func TestTopdown(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.trees")
	defer teardown()
	//
	seq, err := Topdown(oracleTree(t))
	if err != nil {
		t.Fatal(err)
	}
	if !equalStrings(seq.Transitions, oracleTransitions) {
		t.Errorf("transitions are\n%v, expected\n%v", seq.Transitions, oracleTransitions)
	}
	if len(seq.Tokens) != len(treetest.Words) {
		t.Fatalf("expected %d tokens, got %d", len(treetest.Words), len(seq.Tokens))
	}
	for i, tok := range seq.Tokens {
		if tok.Word != treetest.Words[i] || tok.Tag != treetest.POS[i] {
			t.Errorf("token %d is %s/%s", i, tok.Word, tok.Tag)
		}
	}
}

func TestTopdownWantsHeads(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.trees")
	defer teardown()
	//
	tree := treetest.ContTree(t)
	if err := binarize.Binarize(tree, binarize.RightToLeft); err != nil {
		t.Fatal(err)
	}
	// binarization marks the chains it builds, but the untouched binary
	// VROOT has no marked child
	_, err := Topdown(tree)
	if err == nil {
		t.Fatal("expected an error on a tree without head marking")
	}
	var structErr *trees.StructureError
	if !errors.As(err, &structErr) || !strings.Contains(err.Error(), "heads") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestTopdownWantsBinarized(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.trees")
	defer teardown()
	//
	tree := treetest.ContTree(t)
	if err := transform.Apply("negra_mark_heads", tree, nil); err != nil {
		t.Fatal(err)
	}
	_, err := Topdown(tree)
	if err == nil || !strings.Contains(err.Error(), "binarized") {
		t.Errorf("expected a binarization error, got %v", err)
	}
}

func TestPlainWriter(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.trees")
	defer teardown()
	//
	seq, err := Topdown(oracleTree(t))
	if err != nil {
		t.Fatal(err)
	}
	var sb strings.Builder
	if err := NewPlainWriter(&sb).Write(seq); err != nil {
		t.Fatal(err)
	}
	want := "Who/WP did/VB Fritz/NNP tell/VB Hans/NNP that/IN Manfred/NNP likes/VB ?/? ||| " +
		strings.Join(oracleTransitions, " ") + "\n"
	if sb.String() != want {
		t.Errorf("plain line is\n%q, expected\n%q", sb.String(), want)
	}
}

func TestRegistry(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.trees")
	defer teardown()
	//
	if got := Types(); !equalStrings(got, []string{"topdown"}) {
		t.Errorf("transition types are %v", got)
	}
	if _, err := ByName("topdown"); err != nil {
		t.Errorf("topdown oracle not available: %v", err)
	}
	if _, err := ByName("swap"); err == nil {
		t.Errorf("expected an error for an unknown transition type")
	}
}
