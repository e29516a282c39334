package binarize

import (
	"github.com/npillmayer/treegram/trees"
)

// Flatten undoes binarization, in place: all synthetic nodes are removed
// and every original node gets back its original child sequence. Labels
// and contexts of the synthetic nodes are discarded. Head marks are left
// the way binarization set them; callers who need the original marking
// re-run a head marking step.
func Flatten(t *trees.Tree) error {
	removed := 0
	var originals []*trees.Node
	trees.Preorder(t.Root(), func(n *trees.Node) bool {
		if n.IsTerminal() {
			return true
		}
		if n.Bin != nil {
			removed++
		} else {
			originals = append(originals, n)
		}
		return true
	})
	for _, n := range originals {
		synthetic := false
		for _, c := range n.Children() {
			if c.Bin != nil {
				synthetic = true
			}
		}
		if !synthetic {
			continue
		}
		front := frontier(n, nil)
		for _, c := range n.Children() {
			trees.Detach(c)
		}
		for i, c := range front {
			trees.Detach(c)
			if err := trees.Attach(n, c, i); err != nil {
				return err
			}
		}
	}
	tracer().Debugf("tree %d: flattening removed %d synthetic nodes", t.ID, removed)
	return nil
}

// frontier collects, in order, the nearest non-synthetic descendants of
// n, i.e. the child sequence n had before binarization.
func frontier(n *trees.Node, out []*trees.Node) []*trees.Node {
	for _, c := range n.Children() {
		if c.Bin != nil {
			out = frontier(c, out)
		} else {
			out = append(out, c)
		}
	}
	return out
}
