package binarize

import (
	"math"

	"github.com/npillmayer/treegram/trees"
)

// Unbounded keeps the full context when passed as a markovization order.
const Unbounded = math.MaxInt

// Markovize rewrites the labels of all synthetic nodes of t. Each label
// encodes the originating category, the nearest v vertical ancestors
// (the originating category counts as the first one) and the h most
// recently combined siblings, every part carrying the fanout of the node
// it was taken from. Markovization is a pure label rewrite: since the
// synthetic nodes keep their complete contexts, it may be applied
// repeatedly with different orders.
//
// Labels of equal truncated contexts come out equal, which is what makes
// rules extracted from markovized trees merge.
func Markovize(t *trees.Tree, h, v int, opts ...Option) {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	trees.Preorder(t.Root(), func(n *trees.Node) bool {
		if n.Bin != nil {
			n.Label = n.Bin.Render(h, v, cfg.nofanout)
		}
		return true
	})
}
