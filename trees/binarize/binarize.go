/*
Package binarize converts n-ary constituent trees into binary-branching
form and back, and rewrites the labels of the synthetic nodes it inserts
with markovization contexts of configurable size.

Binarization splices k-2 synthetic nodes into every node with k > 2
children. The synthetic nodes form a chain whose direction is selected by
a Strategy. Each synthetic node remembers its complete binarization
context, i.e. the originating category together with the ancestor chain
and the sibling history at the time of binarization, so that markovization
may later truncate the context to any horizontal and vertical order.
Freshly created synthetic nodes carry the plain label form "@" plus the
originating category.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package binarize

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/treegram/trees"
	"github.com/npillmayer/treegram/trees/transform"
)

// tracer traces with key 'treegram.trees'.
func tracer() tracing.Trace {
	return tracing.Select("treegram.trees")
}

// --- Strategies ------------------------------------------------------------

// Strategy selects the direction in which the children of a node are
// combined during binarization.
type Strategy int8

const (
	// LeftToRight peels children off at the left end: the first child
	// stays at the top of the chain, the last two children form the
	// deepest pair.
	LeftToRight Strategy = iota
	// RightToLeft peels children off at the right end: the last child
	// stays at the top of the chain, the first two children form the
	// deepest pair.
	RightToLeft
	// HeadDriven keeps the head child deepest: the head is combined with
	// its right neighbor first, then with the remaining siblings to the
	// right, then with the siblings to the left. Requires marked heads
	// or the HeadRules option.
	HeadDriven
)

var strategyNames = map[Strategy]string{
	LeftToRight: "leftright",
	RightToLeft: "rightleft",
	HeadDriven:  "headdriven",
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// StrategyNamed resolves a strategy name, as given on the command line.
func StrategyNamed(name string) (Strategy, error) {
	for s, n := range strategyNames {
		if n == name {
			return s, nil
		}
	}
	return LeftToRight, fmt.Errorf("no such binarization strategy: %q", name)
}

// --- Options ---------------------------------------------------------------

// Option configures a call to Binarize or Markovize.
type Option func(*config)

type config struct {
	rules    transform.HeadRules
	nofanout bool
}

// HeadRules provides a fallback head table for the head-driven strategy:
// a node without a marked head child gets one picked by the table.
func HeadRules(rules transform.HeadRules) Option {
	return func(c *config) {
		c.rules = rules
	}
}

// NoFanout drops the fanout digits from markovized labels.
func NoFanout(b bool) Option {
	return func(c *config) {
		c.nofanout = b
	}
}

// --- Errors ----------------------------------------------------------------

// DegenerateNodeError reports a nonterminal without children, which
// binarization refuses to process.
type DegenerateNodeError struct {
	Tree *trees.Tree
	Node *trees.Node
}

func (e *DegenerateNodeError) Error() string {
	return fmt.Sprintf("tree %d: nonterminal %s has no children", e.Tree.ID, e.Node.Label)
}

var _ error = &DegenerateNodeError{}

// --- Binarization ----------------------------------------------------------

// Binarize converts t into binary-branching form, in place: the child
// sequence of every node with more than two children is repacked into a
// chain of synthetic nodes, so that afterwards no node has more than two
// children. Nodes that already are binary or unary are left alone.
//
// Binarize re-marks head flags along each chain it builds: at every
// binary level the child leading toward the deepest pair is marked as
// the head, its sibling is unmarked. For the head-driven strategy this
// agrees with the original head marks; the two directional strategies
// overwrite them.
//
// A nonterminal without children makes Binarize fail with a
// DegenerateNodeError.
func Binarize(t *trees.Tree, strat Strategy, opts ...Option) error {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	var nodes []*trees.Node
	trees.Postorder(t.Root(), func(n *trees.Node) bool {
		if !n.IsTerminal() {
			nodes = append(nodes, n)
		}
		return true
	})
	created := 0
	for _, n := range nodes {
		c, err := binarizeNode(t, n, strat, cfg)
		if err != nil {
			return err
		}
		created += c
	}
	tracer().Debugf("tree %d: %s binarization introduced %d synthetic nodes",
		t.ID, strat, created)
	return nil
}

// binarizeNode repacks the children of a single node and returns the
// number of synthetic nodes created. Called bottom-up, so the ancestor
// chain of n is still unbinarized when the context is recorded.
func binarizeNode(t *trees.Tree, n *trees.Node, strat Strategy, cfg config) (int, error) {
	if n.IsTerminal() {
		return 0, nil
	}
	children := n.Children()
	k := len(children)
	if k == 0 {
		return 0, &DegenerateNodeError{Tree: t, Node: n}
	}
	if k <= 2 {
		return 0, nil
	}
	head := 0
	if strat == HeadDriven {
		var err error
		head, err = headIndex(n, children, cfg)
		if err != nil {
			return 0, err
		}
	}
	orig, err := binPart(n)
	if err != nil {
		return 0, err
	}
	var vert []trees.BinPart
	for anc := n.Parent(); anc != nil; anc = anc.Parent() {
		p, err := binPart(anc)
		if err != nil {
			return 0, err
		}
		vert = append(vert, p)
	}
	parts := make([]trees.BinPart, k)
	for i, c := range children {
		if parts[i], err = binPart(c); err != nil {
			return 0, err
		}
	}
	for _, c := range children {
		trees.Detach(c)
	}
	var horiz []trees.BinPart // most recently peeled child first
	cur := n
	lo, hi := 0, k-1
	for hi-lo > 1 {
		peelLo := peelAtLow(strat, lo, head)
		var peeled *trees.Node
		if peelLo {
			peeled = children[lo]
			horiz = prepend(horiz, parts[lo])
			lo++
		} else {
			peeled = children[hi]
			horiz = prepend(horiz, parts[hi])
			hi--
		}
		syn := trees.Nonterminal("")
		syn.Bin = &trees.BinLabel{Orig: orig, Vert: vert, Horiz: horiz}
		syn.Label = syn.Bin.Plain()
		syn.Head = true
		peeled.Head = false
		if peelLo {
			err = attachPair(cur, peeled, syn)
		} else {
			err = attachPair(cur, syn, peeled)
		}
		if err != nil {
			return 0, err
		}
		cur = syn
	}
	left, right := children[lo], children[hi]
	left.Head = spineEndsLow(strat, lo, head)
	right.Head = !left.Head
	if err := attachPair(cur, left, right); err != nil {
		return 0, err
	}
	return k - 2, nil
}

// peelAtLow decides whether the next child peeled off the group lo..hi
// is the leftmost one.
func peelAtLow(strat Strategy, lo, head int) bool {
	switch strat {
	case RightToLeft:
		return false
	case HeadDriven:
		return lo < head
	}
	return true
}

// spineEndsLow decides whether the left child of the deepest pair is the
// one the chain was built toward, i.e. the one to mark as head.
func spineEndsLow(strat Strategy, lo, head int) bool {
	switch strat {
	case RightToLeft:
		return true
	case HeadDriven:
		return head == lo
	}
	return false
}

// headIndex finds the marked head child, falling back to a head-rule
// table if one was given.
func headIndex(n *trees.Node, children []*trees.Node, cfg config) (int, error) {
	for i, c := range children {
		if c.Head {
			return i, nil
		}
	}
	if cfg.rules != nil {
		return cfg.rules.Head(n.Label, children), nil
	}
	return 0, &trees.StructureError{Msg: "heads not marked"}
}

func binPart(n *trees.Node) (trees.BinPart, error) {
	f, err := n.Fanout()
	if err != nil {
		return trees.BinPart{}, err
	}
	return trees.BinPart{Label: n.Label, Fanout: f}, nil
}

func prepend(parts []trees.BinPart, p trees.BinPart) []trees.BinPart {
	out := make([]trees.BinPart, 0, len(parts)+1)
	out = append(out, p)
	return append(out, parts...)
}

func attachPair(parent, left, right *trees.Node) error {
	if err := trees.Attach(parent, left, 0); err != nil {
		return err
	}
	return trees.Attach(parent, right, 1)
}
