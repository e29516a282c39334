/*
Package lcfrs extracts linear context-free rewriting systems from
treebank trees.

Every tree contributes one rule per nonterminal node and one lexical rule
per terminal. A rule pairs the label of a node with the labels of its
children and records, as a linearization function, how the yield blocks of
the children concatenate into the blocks of the node. Trees without
crossing branches produce plain context-free rules; a discontinuous node
becomes a predicate of higher fan-out.

Rules carry no ranges, just the concatenation pattern, so the extracted
system is a simple RCG in the sense of Boullier. A Grammar aggregates the
rules of a corpus and merges structurally equal ones by counting.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lcfrs

import (
	"fmt"
	"strings"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'treegram.lcfrs'.
func tracer() tracing.Trace {
	return tracing.Select("treegram.lcfrs")
}

// === Predicates and rules ==================================================

// Pred is a predicate occurrence: a nonterminal label together with its
// fan-out, i.e., the number of yield blocks the nonterminal covers.
type Pred struct {
	Label  string
	Fanout int
}

// String renders the predicate with the fan-out attached to the label,
// e.g. "VP2".
func (p Pred) String() string {
	return fmt.Sprintf("%s%d", p.Label, p.Fanout)
}

// Fragment is one element of a linearization argument: a reference to an
// argument of a right-hand side predicate, or, in lexical rules only, a
// literal word.
type Fragment struct {
	Child int    // index into the rule's RHS, -1 for literals
	Arg   int    // argument index within the child predicate
	Word  string // word form, literals only
}

// Ref creates a fragment referencing argument arg of RHS element child.
func Ref(child, arg int) Fragment {
	return Fragment{Child: child, Arg: arg}
}

// Lit creates a literal fragment carrying a word form.
func Lit(word string) Fragment {
	return Fragment{Child: -1, Word: word}
}

// IsLit is true for literal fragments.
func (f Fragment) IsLit() bool {
	return f.Child < 0
}

// LinFunc is the linearization function of a rule: one fragment sequence
// per argument block of the left-hand side, in yield order.
type LinFunc [][]Fragment

// Rule is a single LCFRS rule with an occurrence count. Extract returns
// rules with Count 1; a Grammar adds up the counts of structurally equal
// rules.
type Rule struct {
	LHS   Pred
	RHS   []Pred
	Lin   LinFunc
	Count int
}

// IsLexical is true for lexical rules, which rewrite a part-of-speech tag
// to a literal word and have an empty right-hand side.
func (r *Rule) IsLexical() bool {
	return len(r.RHS) == 0
}

// Word returns the word form of a lexical rule, "" for phrasal rules.
func (r *Rule) Word() string {
	if !r.IsLexical() || len(r.Lin) == 0 || len(r.Lin[0]) == 0 {
		return ""
	}
	return r.Lin[0][0].Word
}

// Check verifies well-formedness: the linearization must have one
// non-empty fragment sequence per LHS argument, references must hit
// existing RHS arguments, every RHS argument must be consumed exactly
// once and in ascending order, and literals may only appear in lexical
// rules. Rules coming out of Extract always pass.
func (r *Rule) Check() error {
	if len(r.Lin) != r.LHS.Fanout {
		return &IllFormedRuleError{Rule: r,
			Reason: fmt.Sprintf("linearization has %d argument(s) for fan-out %d", len(r.Lin), r.LHS.Fanout)}
	}
	next := make([]int, len(r.RHS))
	for _, arg := range r.Lin {
		if len(arg) == 0 {
			return &IllFormedRuleError{Rule: r, Reason: "empty argument"}
		}
		for _, f := range arg {
			if f.IsLit() {
				if !r.IsLexical() {
					return &IllFormedRuleError{Rule: r,
						Reason: fmt.Sprintf("literal '%s' in phrasal rule", f.Word)}
				}
				continue
			}
			if f.Child >= len(r.RHS) {
				return &IllFormedRuleError{Rule: r,
					Reason: fmt.Sprintf("reference to nonexistent RHS element %d", f.Child)}
			}
			if f.Arg != next[f.Child] {
				return &IllFormedRuleError{Rule: r,
					Reason: fmt.Sprintf("argument %d of %s out of order", f.Arg, r.RHS[f.Child])}
			}
			next[f.Child]++
		}
	}
	for i, p := range r.RHS {
		if next[i] != p.Fanout {
			return &IllFormedRuleError{Rule: r,
				Reason: fmt.Sprintf("%s consumes %d of %d argument(s)", p, next[i], p.Fanout)}
		}
	}
	return nil
}

// String renders the rule in variable notation, numbering the variables
// by first appearance on the left-hand side:
//
//	S1([0][1][2][3]) --> VP2([0],[3]) VB1([1]) NNP1([2])
//
// Lexical rules render as the predicate applied to its word, e.g.
// "WP1(Who)".
func (r *Rule) String() string {
	if r.IsLexical() {
		return fmt.Sprintf("%s(%s)", r.LHS, r.Word())
	}
	var lhs strings.Builder
	rhsArgs := make([][]string, len(r.RHS))
	varnum := 0
	for i, arg := range r.Lin {
		if i > 0 {
			lhs.WriteByte(',')
		}
		for _, f := range arg {
			fmt.Fprintf(&lhs, "[%d]", varnum)
			if f.Child >= 0 && f.Child < len(r.RHS) {
				rhsArgs[f.Child] = append(rhsArgs[f.Child], fmt.Sprintf("[%d]", varnum))
			}
			varnum++
		}
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s(%s) -->", r.LHS, lhs.String())
	for i, p := range r.RHS {
		fmt.Fprintf(&sb, " %s(%s)", p, strings.Join(rhsArgs[i], ","))
	}
	return sb.String()
}

// === Errors ================================================================

// IllFormedRuleError reports a rule whose linearization does not match
// its predicates. Extraction produces such a rule only from a tree with
// broken invariants.
type IllFormedRuleError struct {
	Rule   *Rule
	Reason string
}

var _ error = (*IllFormedRuleError)(nil)

func (e *IllFormedRuleError) Error() string {
	if e.Rule == nil {
		return fmt.Sprintf("ill-formed rule: %s", e.Reason)
	}
	return fmt.Sprintf("ill-formed rule for %s: %s", e.Rule.LHS, e.Reason)
}
