/*
Package transitions extracts transition sequences from treebank trees:
the oracle actions a shift-reduce parser takes to rebuild the tree.

The top-down oracle works on continuous binarized trees with marked
heads. Terminals become SHIFT, unary nodes UNARY-X, binary nodes
BINARY-LEFT-X or BINARY-RIGHT-X depending on the side of the head child.
The actions come out in reversed preorder, the derivation order of an
incremental top-down parser.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package transitions

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/treegram/trees"
	"golang.org/x/exp/slices"
)

// tracer traces with key 'treegram.trees'.
func tracer() tracing.Trace {
	return tracing.Select("treegram.trees")
}

// Token is a terminal as the parser sees it: word form and tag.
type Token struct {
	Word string
	Tag  string
}

// Sequence is the extraction result for one sentence: the tagged tokens
// and the transition actions.
type Sequence struct {
	Tokens      []Token
	Transitions []string
}

// An Oracle turns a tree into a transition sequence.
type Oracle func(t *trees.Tree) (*Sequence, error)

// registry is the closed set of known transition types.
var registry = map[string]Oracle{
	"topdown": Topdown,
}

// ByName returns the oracle registered under name.
func ByName(name string) (Oracle, error) {
	oracle, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown transition type '%s'", name)
	}
	return oracle, nil
}

// Types returns the names of all known transition types, sorted.
func Types() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Topdown extracts the transition sequence of a continuous binarized
// tree with marked heads.
func Topdown(t *trees.Tree) (*Sequence, error) {
	terms := t.Terminals()
	seq := &Sequence{Tokens: make([]Token, len(terms))}
	for i, term := range terms {
		seq.Tokens[i] = Token{Word: term.Word, Tag: term.Label}
	}
	var actions []string
	var firstErr error
	trees.Preorder(t.Root(), func(n *trees.Node) bool {
		children := trees.CanonicalChildren(n)
		switch len(children) {
		case 0:
			actions = append(actions, "SHIFT")
		case 1:
			actions = append(actions, "UNARY-"+n.Label)
		case 2:
			if !children[0].Head && !children[1].Head {
				firstErr = &trees.StructureError{Msg: "heads are supposed to be marked"}
				return false
			}
			side := "RIGHT"
			if children[0].Head {
				side = "LEFT"
			}
			actions = append(actions, "BINARY-"+side+"-"+n.Label)
		default:
			firstErr = &trees.StructureError{Msg: "trees must be binarized"}
			return false
		}
		return true
	})
	if firstErr != nil {
		return nil, fmt.Errorf("tree %d (%w)", t.ID, firstErr)
	}
	for i, j := 0, len(actions)-1; i < j; i, j = i+1, j-1 {
		actions[i], actions[j] = actions[j], actions[i]
	}
	seq.Transitions = actions
	tracer().Debugf("tree %d: %d transitions", t.ID, len(actions))
	return seq, nil
}
