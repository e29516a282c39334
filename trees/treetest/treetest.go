/*
Package treetest provides the shared test fixtures of the module: a 9-word
sentence with a discontinuous VP, and its continuous counterpart.

	Who did Fritz tell Hans that Manfred likes ?

In the discontinuous variant, 'Who' belongs to the VP of 'likes', five
positions to the right. The continuous variant attaches 'Who' inside the
SBAR instead.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package treetest

import (
	"testing"

	"github.com/npillmayer/treegram/trees"
)

// Words of the sample sentence.
var Words = []string{"Who", "did", "Fritz", "tell", "Hans", "that", "Manfred", "likes", "?"}

// POS tags of the sample sentence.
var POS = []string{"WP", "VB", "NNP", "VB", "NNP", "IN", "NNP", "VB", "?"}

// DiscoLabelsPreorder is the preorder label sequence of DiscoTree.
var DiscoLabelsPreorder = []string{
	"VROOT", "S", "VP", "SBAR", "VP", "WP", "VB", "IN", "NP", "NNP",
	"VB", "NNP", "VB", "NNP", "?",
}

// ContLabelsPreorder is the preorder label sequence of ContTree.
var ContLabelsPreorder = []string{
	"VROOT", "S", "WP", "VB", "NNP", "VP", "VB", "NNP", "SBAR", "IN",
	"NP", "NNP", "VP", "VB", "?",
}

// DiscoTree builds the discontinuous sample tree:
//
//	(VROOT (S (VP (SBAR (VP (WP Who) (VB likes)) (IN that) (NP (NNP Manfred)))
//	          (VB tell) (NNP Hans))
//	       (VB did) (NNP Fritz))
//	       (? ?))
//
// with edge labels as in the NeGra export rendition of the sample. The VP
// of 'likes' covers positions {0,7}, its SBAR {0,5,6,7}, the outer VP
// {0,3..7}; the tree has gap degree 1.
func DiscoTree(t *testing.T) *trees.Tree {
	t.Helper()
	terms := terminals(t)
	edges := []string{"--", "HD", "HD", "HD", "--", "HD", "HD", "HD", "--"}
	for i, e := range edges {
		terms[i].Edge = e
	}
	vp500 := trees.Nonterminal("VP")
	np501 := trees.Nonterminal("NP")
	sbar502 := trees.Nonterminal("SBAR")
	vp503 := trees.Nonterminal("VP")
	s504 := trees.Nonterminal("S")
	root := trees.Nonterminal(trees.DefaultRoot)
	attach(t, vp500, terms[0], terms[7])
	attach(t, np501, terms[6])
	attach(t, sbar502, vp500, terms[5], np501)
	attach(t, vp503, sbar502, terms[3], terms[4])
	attach(t, s504, vp503, terms[1], terms[2])
	attach(t, root, s504, terms[8])
	tree, err := trees.NewTree(1, root)
	if err != nil {
		t.Fatal(err)
	}
	return tree
}

// ContTree builds the continuous counterpart:
//
//	(VROOT (S (WP Who) (VB did) (NNP Fritz)
//	          (VP (VB tell) (NNP Hans)
//	              (SBAR (IN that) (NP (NNP Manfred)) (VP (VB likes)))))
//	       (? ?))
//
// All edges carry the default label, as when read from bracketed input.
func ContTree(t *testing.T) *trees.Tree {
	t.Helper()
	terms := terminals(t)
	np := trees.Nonterminal("NP")
	vpLikes := trees.Nonterminal("VP")
	sbar := trees.Nonterminal("SBAR")
	vp := trees.Nonterminal("VP")
	s := trees.Nonterminal("S")
	root := trees.Nonterminal(trees.DefaultRoot)
	attach(t, np, terms[6])
	attach(t, vpLikes, terms[7])
	attach(t, sbar, terms[5], np, vpLikes)
	attach(t, vp, terms[3], terms[4], sbar)
	attach(t, s, terms[0], terms[1], terms[2], vp)
	attach(t, root, s, terms[8])
	tree, err := trees.NewTree(1, root)
	if err != nil {
		t.Fatal(err)
	}
	return tree
}

func terminals(t *testing.T) []*trees.Node {
	t.Helper()
	terms := make([]*trees.Node, len(Words))
	for i := range Words {
		terms[i] = trees.Terminal(Words[i], POS[i], i)
	}
	return terms
}

func attach(t *testing.T, parent *trees.Node, children ...*trees.Node) {
	t.Helper()
	for _, c := range children {
		if err := trees.Attach(parent, c, -1); err != nil {
			t.Fatal(err)
		}
	}
}
