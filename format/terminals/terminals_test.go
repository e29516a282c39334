package terminals

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/treegram/format"
	"github.com/npillmayer/treegram/trees/treetest"
)

// --- the Tests -------------------------------------------------------------

func TestTerminalsWrite(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.format")
	defer teardown()
	//
	var sb strings.Builder
	w, err := format.NewTreeWriter("terminals", &sb, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Write(treetest.DiscoTree(t)); err != nil {
		t.Fatal(err)
	}
	w.Close()
	expected := strings.Join(treetest.Words, " ") + "\n"
	if sb.String() != expected {
		t.Errorf("unexpected output: %q", sb.String())
	}
}

func TestTerminalsWithPOS(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.format")
	defer teardown()
	//
	var sb strings.Builder
	w, _ := format.NewTreeWriter("terminals", &sb, format.Options{"terminals_pos": "true"})
	if err := w.Write(treetest.ContTree(t)); err != nil {
		t.Fatal(err)
	}
	w.Close()
	if !strings.HasPrefix(sb.String(), "Who/WP did/VB") {
		t.Errorf("expected tagged words, got: %q", sb.String())
	}
}

func TestTerminalsOnePerLine(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.format")
	defer teardown()
	//
	var sb strings.Builder
	w, _ := format.NewTreeWriter("terminals", &sb,
		format.Options{"terminals_one": "true", "terminals_pos": "true"})
	if err := w.Write(treetest.ContTree(t)); err != nil {
		t.Fatal(err)
	}
	if err := w.Write(treetest.ContTree(t)); err != nil {
		t.Fatal(err)
	}
	w.Close()
	lines := strings.Split(sb.String(), "\n")
	if lines[0] != "Who\tWP" {
		t.Errorf("expected one tagged word per line, got %q", lines[0])
	}
	if lines[9] != "" || lines[10] != "Who\tWP" {
		t.Errorf("expected sentences separated by an empty line, got %q", lines[9:11])
	}
}
