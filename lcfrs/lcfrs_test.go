package lcfrs

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/treegram/trees"
	"github.com/npillmayer/treegram/trees/binarize"
	"github.com/npillmayer/treegram/trees/treetest"
	"golang.org/x/exp/slices"
)

func mustExtract(t *testing.T, tree *trees.Tree) []*Rule {
	t.Helper()
	rules, err := Extract(tree)
	if err != nil {
		t.Fatalf("extraction failed: %v", err)
	}
	return rules
}

// phrasalStrings renders the non-lexical rules, sorted.
func phrasalStrings(rules []*Rule) []string {
	var ss []string
	for _, r := range rules {
		if !r.IsLexical() {
			ss = append(ss, r.String())
		}
	}
	slices.Sort(ss)
	return ss
}

func lexicalCount(rules []*Rule) int {
	cnt := 0
	for _, r := range rules {
		if r.IsLexical() {
			cnt++
		}
	}
	return cnt
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

func mustAttach(t *testing.T, parent *trees.Node, children ...*trees.Node) {
	t.Helper()
	for _, c := range children {
		if err := trees.Attach(parent, c, -1); err != nil {
			t.Fatal(err)
		}
	}
}

// ruleNamed finds the phrasal rule with the given rendering in g.
func ruleNamed(t *testing.T, g *Grammar, want string) *Rule {
	t.Helper()
	var found *Rule
	g.Each(func(r *Rule) {
		if r.String() == want {
			found = r
		}
	})
	if found == nil {
		t.Fatalf("grammar has no rule %s", want)
	}
	return found
}

// --- the Tests -------------------------------------------------------------

func TestExtractDiscontinuous(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.lcfrs")
	defer teardown()
	//
	tree := treetest.DiscoTree(t)
	rules := mustExtract(t, tree)
	if len(rules) != 15 {
		t.Fatalf("expected 15 rules from 6 nonterminals and 9 words, got %d", len(rules))
	}
	for _, r := range rules {
		if err := r.Check(); err != nil {
			t.Errorf("extracted rule fails check: %v", err)
		}
		if r.Count != 1 {
			t.Errorf("rule %s has count %d", r, r.Count)
		}
	}
	if rules[0].String() != "VROOT1([0][1]) --> S1([0]) ?1([1])" {
		t.Errorf("first rule should belong to the root, got %s", rules[0])
	}
	want := []string{
		"NP1([0]) --> NNP1([0])",
		"S1([0][1][2][3]) --> VP2([0],[3]) VB1([1]) NNP1([2])",
		"SBAR2([0],[1][2][3]) --> VP2([0],[3]) IN1([1]) NP1([2])",
		"VP2([0],[1]) --> WP1([0]) VB1([1])",
		"VP2([0],[1][2][3]) --> SBAR2([0],[3]) VB1([1]) NNP1([2])",
		"VROOT1([0][1]) --> S1([0]) ?1([1])",
	}
	if got := phrasalStrings(rules); !equalStrings(got, want) {
		t.Errorf("phrasal rules are\n%v, expected\n%v", got, want)
	}
	if lexicalCount(rules) != 9 {
		t.Errorf("expected 9 lexical rules, got %d", lexicalCount(rules))
	}
}

func TestExtractContinuous(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.lcfrs")
	defer teardown()
	//
	tree := treetest.ContTree(t)
	rules := mustExtract(t, tree)
	want := []string{
		"NP1([0]) --> NNP1([0])",
		"S1([0][1][2][3]) --> WP1([0]) VB1([1]) NNP1([2]) VP1([3])",
		"SBAR1([0][1][2]) --> IN1([0]) NP1([1]) VP1([2])",
		"VP1([0]) --> VB1([0])",
		"VP1([0][1][2]) --> VB1([0]) NNP1([1]) SBAR1([2])",
		"VROOT1([0][1]) --> S1([0]) ?1([1])",
	}
	if got := phrasalStrings(rules); !equalStrings(got, want) {
		t.Errorf("phrasal rules are\n%v, expected\n%v", got, want)
	}
	for _, r := range rules {
		if r.LHS.Fanout != 1 {
			t.Errorf("continuous tree produced fan-out %d for %s", r.LHS.Fanout, r.LHS.Label)
		}
	}
	g := NewGrammar()
	if err := g.Merge(rules); err != nil {
		t.Fatal(err)
	}
	if !g.ContextFree() {
		t.Errorf("grammar of a continuous tree should be context-free")
	}
}

func TestExtractLexicon(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.lcfrs")
	defer teardown()
	//
	g := NewGrammar()
	if err := g.Merge(mustExtract(t, treetest.DiscoTree(t))); err != nil {
		t.Fatal(err)
	}
	if g.LexSize() != 9 {
		t.Fatalf("expected 9 lexicon entries, got %d", g.LexSize())
	}
	if g.ContextFree() {
		t.Errorf("discontinuous grammar claims to be context-free")
	}
	want := []string{ // sorted by word, then tag
		"?1(?)", "NNP1(Fritz)", "NNP1(Hans)", "NNP1(Manfred)", "WP1(Who)",
		"VB1(did)", "VB1(likes)", "VB1(tell)", "IN1(that)",
	}
	lex := g.Lexical()
	got := make([]string, len(lex))
	for i, r := range lex {
		got[i] = r.String()
		if r.Count != 1 {
			t.Errorf("%s has count %d", r, r.Count)
		}
	}
	if !equalStrings(got, want) {
		t.Errorf("lexicon is\n%v, expected\n%v", got, want)
	}
}

func TestExtractBinarizedMarkov(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.lcfrs")
	defer teardown()
	//
	tree := treetest.DiscoTree(t)
	if err := binarize.Binarize(tree, binarize.LeftToRight); err != nil {
		t.Fatal(err)
	}
	binarize.Markovize(tree, 1, 2)
	rules := mustExtract(t, tree)
	want := []string{
		"@^S1^VROOT1-VP2X1([0][1]) --> VB1([0]) NNP1([1])",
		"@^SBAR2^VP2-VP2X1([0][1]) --> IN1([0]) NP1([1])",
		"@^VP2^S1-SBAR2X1([0][1]) --> VB1([0]) NNP1([1])",
		"NP1([0]) --> NNP1([0])",
		"S1([0][1][2]) --> VP2([0],[2]) @^S1^VROOT1-VP2X1([1])",
		"SBAR2([0],[1][2]) --> VP2([0],[2]) @^SBAR2^VP2-VP2X1([1])",
		"VP2([0],[1]) --> WP1([0]) VB1([1])",
		"VP2([0],[1][2]) --> SBAR2([0],[2]) @^VP2^S1-SBAR2X1([1])",
		"VROOT1([0][1]) --> S1([0]) ?1([1])",
	}
	if got := phrasalStrings(rules); !equalStrings(got, want) {
		t.Errorf("markovized rules are\n%v, expected\n%v", got, want)
	}
}

func TestExtractBinarizedMarkovH2V1(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.lcfrs")
	defer teardown()
	//
	tree := treetest.DiscoTree(t)
	if err := binarize.Binarize(tree, binarize.LeftToRight); err != nil {
		t.Fatal(err)
	}
	binarize.Markovize(tree, 2, 1)
	got := phrasalStrings(mustExtract(t, tree))
	for _, want := range []string{
		"S1([0][1][2]) --> VP2([0],[2]) @^S1-VP2X1([1])",
		"@^S1-VP2X1([0][1]) --> VB1([0]) NNP1([1])",
		"SBAR2([0],[1][2]) --> VP2([0],[2]) @^SBAR2-VP2X1([1])",
		"@^VP2-SBAR2X1([0][1]) --> VB1([0]) NNP1([1])",
	} {
		if !slices.Contains(got, want) {
			t.Errorf("markovized rules lack %s, got\n%v", want, got)
		}
	}
}

func TestExtractBridgedGap(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.lcfrs")
	defer teardown()
	//
	// A node covering {0,1,3,4}, with the gap filled by a sibling.
	terms := []*trees.Node{
		trees.Terminal("w0", "A", 0),
		trees.Terminal("w1", "B", 1),
		trees.Terminal("w2", "E", 2),
		trees.Terminal("w3", "C", 3),
		trees.Terminal("w4", "D", 4),
	}
	x := trees.Nonterminal("X")
	y := trees.Nonterminal("Y")
	root := trees.Nonterminal(trees.DefaultRoot)
	mustAttach(t, x, terms[0], terms[1], terms[3], terms[4])
	mustAttach(t, y, terms[2])
	mustAttach(t, root, x, y)
	tree, err := trees.NewTree(42, root)
	if err != nil {
		t.Fatal(err)
	}
	rules := mustExtract(t, tree)
	if rules[1].LHS.Fanout != 2 || len(rules[1].Lin) != 2 {
		t.Fatalf("gapped node should yield fan-out 2, got %s", rules[1])
	}
	if got := rules[1].String(); got != "X2([0][1],[2][3]) --> A1([0]) B1([1]) C1([2]) D1([3])" {
		t.Errorf("gapped rule is %s", got)
	}
	if got := rules[0].String(); got != "VROOT1([0][1][2]) --> X2([0],[2]) Y1([1])" {
		t.Errorf("bridging rule is %s", got)
	}
}

func TestGrammarCounts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.lcfrs")
	defer teardown()
	//
	g := NewGrammar()
	for i := 0; i < 2; i++ {
		if err := g.Merge(mustExtract(t, treetest.DiscoTree(t))); err != nil {
			t.Fatal(err)
		}
	}
	if g.Size() != 6 {
		t.Fatalf("expected 6 distinct phrasal rules, got %d", g.Size())
	}
	g.Each(func(r *Rule) {
		if r.Count != 2 {
			t.Errorf("%s has count %d after two identical trees", r, r.Count)
		}
	})
	if g.LexSize() != 9 {
		t.Errorf("expected 9 lexicon entries, got %d", g.LexSize())
	}
	for _, r := range g.Lexical() {
		if r.Count != 2 {
			t.Errorf("%s has count %d after two identical trees", r, r.Count)
		}
	}
}

func TestGrammarAbsorb(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.lcfrs")
	defer teardown()
	//
	g1 := NewGrammar()
	if err := g1.Merge(mustExtract(t, treetest.DiscoTree(t))); err != nil {
		t.Fatal(err)
	}
	g2 := NewGrammar()
	if err := g2.Merge(mustExtract(t, treetest.ContTree(t))); err != nil {
		t.Fatal(err)
	}
	g1.Absorb(g2)
	// NP and VROOT rules coincide, everything else differs.
	if g1.Size() != 10 {
		t.Fatalf("expected 10 distinct phrasal rules, got %d", g1.Size())
	}
	if r := ruleNamed(t, g1, "NP1([0]) --> NNP1([0])"); r.Count != 2 {
		t.Errorf("shared NP rule has count %d", r.Count)
	}
	if r := ruleNamed(t, g1, "VROOT1([0][1]) --> S1([0]) ?1([1])"); r.Count != 2 {
		t.Errorf("shared VROOT rule has count %d", r.Count)
	}
	if r := ruleNamed(t, g1, "S1([0][1][2][3]) --> VP2([0],[3]) VB1([1]) NNP1([2])"); r.Count != 1 {
		t.Errorf("discontinuous S rule has count %d", r.Count)
	}
	// absorbing must not alias rules between the grammars
	if r := ruleNamed(t, g2, "NP1([0]) --> NNP1([0])"); r.Count != 1 {
		t.Errorf("absorbed grammar was modified, NP rule has count %d", r.Count)
	}
	if g2.Size() != 6 || g2.LexSize() != 9 {
		t.Errorf("absorbed grammar was modified: %d rules, %d lexicon entries",
			g2.Size(), g2.LexSize())
	}
}

func TestRuleCheck(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.lcfrs")
	defer teardown()
	//
	valid := &Rule{
		LHS: Pred{"S", 1},
		RHS: []Pred{{"A", 2}, {"B", 1}},
		Lin: LinFunc{{Ref(0, 0), Ref(1, 0), Ref(0, 1)}},
	}
	if err := valid.Check(); err != nil {
		t.Errorf("valid rule rejected: %v", err)
	}
	bad := []*Rule{
		{LHS: Pred{"S", 2}, RHS: []Pred{{"A", 1}}, Lin: LinFunc{{Ref(0, 0)}}},
		{LHS: Pred{"S", 1}, RHS: []Pred{{"A", 1}}, Lin: LinFunc{{}}},
		{LHS: Pred{"S", 1}, RHS: []Pred{{"A", 1}}, Lin: LinFunc{{Ref(1, 0)}}},
		{LHS: Pred{"S", 1}, RHS: []Pred{{"A", 2}}, Lin: LinFunc{{Ref(0, 1), Ref(0, 0)}}},
		{LHS: Pred{"S", 1}, RHS: []Pred{{"A", 2}}, Lin: LinFunc{{Ref(0, 0)}}},
		{LHS: Pred{"S", 1}, RHS: []Pred{{"A", 1}}, Lin: LinFunc{{Lit("x"), Ref(0, 0)}}},
	}
	g := NewGrammar()
	for i, r := range bad {
		err := r.Check()
		if err == nil {
			t.Errorf("rule #%d should have been rejected", i)
			continue
		}
		var illErr *IllFormedRuleError
		if !errors.As(err, &illErr) {
			t.Errorf("rule #%d: error is %T, not an IllFormedRuleError", i, err)
		}
		if g.Add(r) == nil {
			t.Errorf("grammar accepted ill-formed rule #%d", i)
		}
	}
	if g.Size() != 0 {
		t.Errorf("grammar should still be empty, has %d rules", g.Size())
	}
}
