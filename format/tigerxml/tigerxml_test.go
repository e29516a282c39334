package tigerxml

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/treegram/format"
	"github.com/npillmayer/treegram/trees"
	"github.com/npillmayer/treegram/trees/treetest"
)

const sampleSentence = `
<s id="s7">
<graph root="n0">
  <terminals>
    <t id="t1" word="Manfred" lemma="--" pos="NNP" morph="--" />
    <t id="t2" word="schläft" lemma="--" pos="VB" morph="--" />
  </terminals>
  <nonterminals>
    <nt id="n1" cat="S">
      <edge label="SB" idref="t1" />
      <edge label="HD" idref="t2" />
    </nt>
    <nt id="n0" cat="VROOT">
      <edge label="--" idref="n1" />
    </nt>
  </nonterminals>
</graph>
</s>
`

func corpus(sentences ...string) string {
	return "<?xml version='1.0' encoding='utf-8'?>\n<corpus>\n<body>\n" +
		strings.Join(sentences, "\n") + "\n</body>\n</corpus>\n"
}

// --- the Tests -------------------------------------------------------------

func TestTigerXMLRead(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.format")
	defer teardown()
	//
	r, err := format.NewTreeReader("tigerxml", strings.NewReader(corpus(sampleSentence)), nil)
	if err != nil {
		t.Fatal(err)
	}
	tree, err := r.Next()
	if err != nil {
		t.Fatal(err)
	}
	if tree.ID != 7 {
		t.Errorf("expected sentence id 7, got %d", tree.ID)
	}
	if tree.Root().Label != trees.DefaultRoot {
		t.Errorf("expected a virtual root, got '%s'", tree.Root().Label)
	}
	s := tree.Root().Children()[0]
	if s.Label != "S" || s.Edge != "--" {
		t.Errorf("unexpected S node %s/%s", s.Label, s.Edge)
	}
	terms := tree.Terminals()
	if terms[0].Word != "Manfred" || terms[0].Edge != "SB" {
		t.Errorf("unexpected first terminal %s/%s", terms[0].Word, terms[0].Edge)
	}
	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("expected EOF after last sentence, got %v", err)
	}
}

func TestTigerXMLRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.format")
	defer teardown()
	//
	orig := treetest.DiscoTree(t)
	var sb strings.Builder
	w, err := format.NewTreeWriter("tigerxml", &sb, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Write(orig); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	out := sb.String()
	if !strings.HasPrefix(out, "<?xml") || !strings.HasSuffix(out, "</body>\n</corpus>\n") {
		t.Errorf("corpus framing missing:\n%s", out)
	}
	if !strings.Contains(out, `<t id="1" word="Who" lemma="--" pos="WP" morph="--" />`) {
		t.Errorf("terminal line missing:\n%s", out)
	}
	r, err := format.NewTreeReader("tigerxml", strings.NewReader(out), nil)
	if err != nil {
		t.Fatal(err)
	}
	tree, err := r.Next()
	if err != nil {
		t.Fatal(err)
	}
	if tree.ID != 1 {
		t.Errorf("expected sentence id 1, got %d", tree.ID)
	}
	var labels []string
	trees.Preorder(tree.Root(), func(n *trees.Node) bool {
		labels = append(labels, n.Label)
		return true
	})
	if strings.Join(labels, " ") != strings.Join(treetest.DiscoLabelsPreorder, " ") {
		t.Errorf("unexpected label sequence %v", labels)
	}
	for i, term := range tree.Terminals() {
		if term.Word != treetest.Words[i] {
			t.Errorf("terminal %d: expected '%s', got '%s'", i, treetest.Words[i], term.Word)
		}
		if term.Edge != orig.Terminals()[i].Edge {
			t.Errorf("terminal %d: expected edge '%s', got '%s'", i, orig.Terminals()[i].Edge, term.Edge)
		}
	}
	if gd, _ := tree.GapDegree(); gd != 1 {
		t.Errorf("expected gap degree 1 after round trip, got %d", gd)
	}
}

func TestTigerXMLWrapsRoot(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.format")
	defer teardown()
	//
	input := corpus(`
<s id="s1">
<graph root="n1">
  <terminals>
    <t id="t1" word="Manfred" lemma="--" pos="NNP" morph="--" />
  </terminals>
  <nonterminals>
    <nt id="n1" cat="S">
      <edge label="HD" idref="t1" />
    </nt>
  </nonterminals>
</graph>
</s>`)
	r, _ := format.NewTreeReader("tigerxml", strings.NewReader(input), nil)
	tree, err := r.Next()
	if err != nil {
		t.Fatal(err)
	}
	if tree.Root().Label != trees.DefaultRoot {
		t.Fatalf("expected the S root wrapped in a virtual root, got '%s'", tree.Root().Label)
	}
	if tree.Root().Children()[0].Label != "S" {
		t.Errorf("expected S below the virtual root")
	}
}

func TestTigerXMLSkipsBroken(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.format")
	defer teardown()
	//
	broken := `
<s id="s1">
<graph root="n1">
  <terminals>
    <t id="t1" word="Manfred" lemma="--" pos="NNP" morph="--" />
    <t id="t2" word="schläft" lemma="--" pos="VB" morph="--" />
  </terminals>
  <nonterminals>
    <nt id="n1" cat="S">
      <edge label="HD" idref="t1" />
      <edge label="HD" idref="t1" />
    </nt>
  </nonterminals>
</graph>
</s>`
	input := corpus(broken, sampleSentence)
	r, _ := format.NewTreeReader("tigerxml", strings.NewReader(input), nil)
	tree, err := r.Next()
	if err != nil {
		t.Fatal(err)
	}
	if tree.ID != 7 {
		t.Errorf("expected the broken sentence skipped, got id %d", tree.ID)
	}
	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("expected EOF, got %v", err)
	}
}

func TestTigerXMLContinuous(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.format")
	defer teardown()
	//
	r, _ := format.NewTreeReader("tigerxml", strings.NewReader(corpus(sampleSentence)),
		format.Options{"continuous": "true"})
	tree, err := r.Next()
	if err != nil {
		t.Fatal(err)
	}
	if tree.ID != 1 {
		t.Errorf("expected renumbered id 1, got %d", tree.ID)
	}
}

func TestTigerXMLEscapesAttributes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.format")
	defer teardown()
	//
	term := trees.Terminal(`a"b&c`, "NNP", 0)
	root := trees.Nonterminal(trees.DefaultRoot)
	if err := trees.Attach(root, term, -1); err != nil {
		t.Fatal(err)
	}
	tree, err := trees.NewTree(3, root)
	if err != nil {
		t.Fatal(err)
	}
	var sb strings.Builder
	w, _ := format.NewTreeWriter("tigerxml", &sb, nil)
	if err := w.Write(tree); err != nil {
		t.Fatal(err)
	}
	w.Close()
	if !strings.Contains(sb.String(), `word="a&quot;b&amp;c"`) {
		t.Errorf("expected escaped attribute, got:\n%s", sb.String())
	}
	r, _ := format.NewTreeReader("tigerxml", strings.NewReader(sb.String()), nil)
	back, err := r.Next()
	if err != nil {
		t.Fatal(err)
	}
	if back.Terminals()[0].Word != `a"b&c` {
		t.Errorf("escaping does not round trip, got '%s'", back.Terminals()[0].Word)
	}
}
