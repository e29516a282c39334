package transform

import (
	"github.com/npillmayer/treegram/trees"
)

// punctuationDelete removes punctuation terminals from the tree,
// logging each removed terminal. A tree consisting of punctuation only
// is left untouched.
func punctuationDelete(t *trees.Tree, opts Options) error {
	terms := t.Terminals()
	var removal []*trees.Node
	for _, terminal := range terms {
		if trees.Punct[terminal.Word] {
			removal = append(removal, terminal)
		}
	}
	if len(removal) == len(terms) {
		tracer().Infof("tree %d consists of punctuation only, not modified", t.ID)
		return nil
	}
	for _, terminal := range removal {
		tracer().Infof("tree %d: deleting %d\t%s\t%s", t.ID, terminal.Pos(),
			terminal.Word, terminal.Label)
		if _, err := t.DeleteTerminal(terminal); err != nil {
			return err
		}
	}
	return nil
}

// punctuationVerylow moves every punctuation terminal to the parent of
// its left terminal neighbor. Punctuation which starts the sentence
// stays in place, as does punctuation below a node which dominates
// punctuation only.
//
// Prerequisite: a previous application of root_attach.
func punctuationVerylow(t *trees.Tree, opts Options) error {
	terms := t.Terminals()
	for i, terminal := range terms {
		if i == 0 || !trees.Punct[terminal.Word] {
			continue
		}
		parent := terminal.Parent()
		if allPunct(parent.Children()) {
			continue
		}
		target := terms[i-1].Parent()
		if target == parent {
			continue
		}
		trees.Detach(terminal)
		if err := trees.Attach(target, terminal, -1); err != nil {
			return err
		}
	}
	return nil
}

func allPunct(nodes []*trees.Node) bool {
	for _, n := range nodes {
		if !trees.Punct[n.Word] {
			return false
		}
	}
	return true
}

// punctuationSymetrify reattaches pairwise punctuation symmetrically.
// A punctuation terminal X is lowered to a node Y if it is pairwise
// punctuation (brackets, quotes and the like), the part L matching X is
// a direct daughter of Y, X is the right neighbor of the rightmost
// terminal dominated by Y, and no pairwise punctuation stands between L
// and X.
//
// Prerequisite: a previous application of root_attach.
func punctuationSymetrify(t *trees.Tree, opts Options) error {
	terms := t.Terminals()
	if len(terms) == 0 {
		return nil
	}
	done := make(map[*trees.Node]bool)
	for i, terminal := range terms {
		if !trees.PairPunct[terminal.Word] || done[terminal] {
			continue
		}
		// is it a left part? then lower it into the phrase to the right
		// which contains its counterpart
		if terminal == terms[len(terms)-1] {
			continue
		}
		if neighbor := trees.RightSibling(terminal); neighbor != nil && neighbor.HasChildren() {
			lowered := false
			for _, neighborTerm := range neighbor.Terminals() {
				if trees.PairPunct[neighborTerm.Word] {
					trees.Detach(terminal)
					if err := trees.Attach(neighbor, terminal, -1); err != nil {
						return err
					}
					done[neighborTerm] = true
					lowered = true
					break
				}
			}
			if lowered {
				continue
			}
		}
		// is it a right part? then lower the punctuation terminal
		// following the parent's yield, provided it matches
		parent := terminal.Parent()
		pterms := parent.Terminals()
		last := pterms[len(pterms)-1]
		if last == terms[len(terms)-1] {
			continue
		}
		neighborPos := last.Pos() + 1
		neighbor := terms[neighborPos]
		if !trees.PairPunct[neighbor.Word] {
			continue
		}
		between := false
		for x := i + 1; x < neighborPos; x++ {
			if trees.PairPunct[terms[x].Word] {
				between = true
				break
			}
		}
		if between || wouldOrphan(neighbor) {
			continue
		}
		trees.Detach(neighbor)
		if err := trees.Attach(parent, neighbor, -1); err != nil {
			return err
		}
		done[neighbor] = true
	}
	return nil
}

// punctuationRoot attaches all punctuation terminals to the root node.
// Punctuation is recognized by its tag here, not by the word form, and
// a terminal which is the only child of its parent stays in place.
func punctuationRoot(t *trees.Tree, opts Options) error {
	root := t.Root()
	var punct []*trees.Node
	for _, terminal := range t.Terminals() {
		if trees.Punct[terminal.Label] && terminal.Parent().ChildCount() > 1 {
			punct = append(punct, terminal)
		}
	}
	for _, terminal := range punct {
		if terminal.Parent() == root || wouldOrphan(terminal) {
			continue
		}
		trees.Detach(terminal)
		if err := trees.Attach(root, terminal, -1); err != nil {
			return err
		}
	}
	return nil
}

// wouldOrphan is true if detaching the node would leave its parent
// without children.
func wouldOrphan(n *trees.Node) bool {
	parent := n.Parent()
	return parent != nil && parent.ChildCount() == 1
}

// ptbDeleteTraces deletes PTB trace terminals, i.e. terminals tagged
// -NONE-, pruning emptied ancestors, and strips the co-indexation from
// all remaining labels.
func ptbDeleteTraces(t *trees.Tree, opts Options) error {
	var traces []*trees.Node
	for _, terminal := range t.Terminals() {
		if terminal.Label == "-NONE-" {
			traces = append(traces, terminal)
		}
	}
	for _, trace := range traces {
		if _, err := t.DeleteTerminal(trace); err != nil {
			return err
		}
	}
	trees.Preorder(t.Root(), func(n *trees.Node) bool {
		label := trees.ParseLabel(n.Label)
		label.Coindex = ""
		n.Label = trees.FormatLabel(label)
		return true
	})
	return nil
}
