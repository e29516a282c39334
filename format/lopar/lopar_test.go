package lopar

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/treegram/format"
	"github.com/npillmayer/treegram/lcfrs"
	"github.com/npillmayer/treegram/trees"
	"github.com/npillmayer/treegram/trees/treetest"
)

func extractGrammar(t *testing.T, tree func(*testing.T) *trees.Tree) *lcfrs.Grammar {
	t.Helper()
	g := lcfrs.NewGrammar()
	rules, err := lcfrs.Extract(tree(t))
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Merge(rules); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestLoparRejectsLCFRS(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.format")
	defer teardown()
	//
	g := extractGrammar(t, treetest.DiscoTree)
	dest := filepath.Join(t.TempDir(), "sample")
	if err := format.WriteGrammar("lopar", g, dest, nil); err == nil {
		t.Error("expected LoPar output to reject a grammar with fan-out 2")
	}
}

func TestLoparWrite(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.format")
	defer teardown()
	//
	g := extractGrammar(t, treetest.ContTree)
	dest := filepath.Join(t.TempDir(), "sample")
	if err := format.WriteGrammar("lopar", g, dest, nil); err != nil {
		t.Fatal(err)
	}
	gram := readOut(t, dest+".gram")
	lines := strings.Split(strings.TrimRight(gram, "\n"), "\n")
	if len(lines) != g.Size() {
		t.Errorf("expected %d rule lines, got %d", g.Size(), len(lines))
	}
	for _, rule := range []string{"1 NP NNP", "1 VROOT S ?", "1 S WP VB NNP VP"} {
		if !strings.Contains(gram, rule+"\n") {
			t.Errorf("rule line missing from grammar:\n%s", rule)
		}
	}
	if lex := readOut(t, dest+".lex"); !strings.Contains(lex, "Fritz\tNNP 1\n") {
		t.Errorf("lexicon entry for 'Fritz' missing:\n%s", lex)
	}
}

func TestLoparStartAndOpenClass(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.format")
	defer teardown()
	//
	g := extractGrammar(t, treetest.ContTree)
	dest := filepath.Join(t.TempDir(), "sample")
	if err := format.WriteGrammar("lopar", g, dest, nil); err != nil {
		t.Fatal(err)
	}
	// VROOT is the only label heading a rule without occurring on a
	// right-hand side.
	if start := readOut(t, dest+".start"); start != "VROOT 1\n" {
		t.Errorf("unexpected start symbols: %q", start)
	}
	// Uppercase words: Who/WP, Fritz, Hans, Manfred/NNP.
	if oc := readOut(t, dest+".OC"); oc != "NNP 3\nWP 1\n" {
		t.Errorf("unexpected uppercase open-class tags: %q", oc)
	}
	// Lowercase: did, tell, likes/VB, that/IN, and the question mark.
	if oc := readOut(t, dest+".oc"); oc != "? 1\nIN 1\nVB 3\n" {
		t.Errorf("unexpected lowercase open-class tags: %q", oc)
	}
}

func readOut(t *testing.T, path string) string {
	t.Helper()
	out, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(out)
}
