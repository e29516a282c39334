package lcfrs

import (
	"fmt"

	"github.com/npillmayer/treegram/trees"
)

// Extract reads off the rules of a single tree, in preorder: one rule per
// nonterminal node, one lexical rule per terminal. All rules come back
// with Count 1; aggregation over a corpus is the Grammar's job.
//
// The linearization of a node's rule follows from its yield blocks:
// walking the positions of each block left to right, every maximal run
// covered by the same child contributes one fragment. Sibling yields are
// disjoint and cover the node's yield completely, so on a validated tree
// the walk accounts for every position; a position no child covers makes
// the rule ill-formed.
func Extract(t *trees.Tree) ([]*Rule, error) {
	var rules []*Rule
	var firstErr error
	trees.Preorder(t.Root(), func(n *trees.Node) bool {
		if n.IsTerminal() {
			rules = append(rules, lexicalRule(n))
			return true
		}
		r, err := nodeRule(n)
		if err != nil {
			firstErr = err
			return false
		}
		rules = append(rules, r)
		return true
	})
	if firstErr != nil {
		return nil, fmt.Errorf("tree %d (%w)", t.ID, firstErr)
	}
	tracer().Debugf("tree %d: extracted %d rules", t.ID, len(rules))
	return rules, nil
}

// nodeRule builds the rule of a single nonterminal node.
func nodeRule(n *trees.Node) (*Rule, error) {
	children := n.Children()
	rhs := make([]Pred, len(children))
	cover := make(map[int]int)
	for i, c := range children {
		blocks, err := c.Blocks()
		if err != nil {
			return nil, err
		}
		rhs[i] = Pred{Label: c.Label, Fanout: len(blocks)}
		for _, b := range blocks {
			for pos := b.From(); pos < b.To(); pos++ {
				cover[pos] = i
			}
		}
	}
	blocks, err := n.Blocks()
	if err != nil {
		return nil, err
	}
	r := &Rule{
		LHS:   Pred{Label: n.Label, Fanout: len(blocks)},
		RHS:   rhs,
		Lin:   make(LinFunc, 0, len(blocks)),
		Count: 1,
	}
	next := make([]int, len(children))
	for _, b := range blocks {
		var arg []Fragment
		last := -1
		for pos := b.From(); pos < b.To(); pos++ {
			ci, ok := cover[pos]
			if !ok {
				return nil, &IllFormedRuleError{Rule: r,
					Reason: fmt.Sprintf("no child covers position %d", pos)}
			}
			if ci != last {
				arg = append(arg, Ref(ci, next[ci]))
				next[ci]++
				last = ci
			}
		}
		r.Lin = append(r.Lin, arg)
	}
	return r, nil
}

// lexicalRule builds the rule rewriting a terminal's tag to its word.
func lexicalRule(n *trees.Node) *Rule {
	return &Rule{
		LHS:   Pred{Label: n.Label, Fanout: 1},
		Lin:   LinFunc{{Lit(n.Word)}},
		Count: 1,
	}
}
