package lcfrs

import (
	"fmt"

	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/maps/treemap"
)

// Grammar aggregates extracted rules. Structurally equal rules merge by
// adding their counts; equality is decided by a content hash over LHS,
// RHS and linearization, so labels are free to contain whatever
// characters the treebank throws at us.
//
// Lexical rules are kept apart from the phrasal rules, mirroring the
// grammar/lexicon split of the common output formats. A Grammar is not
// safe for concurrent mutation; the corpus driver funnels all trees
// through a single collector.
type Grammar struct {
	rules *treemap.Map // signature -> *Rule
	lex   *treemap.Map // word \t tag -> *Rule
}

// NewGrammar creates an empty grammar.
func NewGrammar() *Grammar {
	return &Grammar{
		rules: treemap.NewWithStringComparator(),
		lex:   treemap.NewWithStringComparator(),
	}
}

// Add enters a rule. A structurally equal rule already in the grammar
// absorbs the new rule's count; otherwise the grammar keeps the rule
// itself, so callers must not modify it afterwards. A non-positive count
// counts once. Ill-formed rules are rejected.
func (g *Grammar) Add(r *Rule) error {
	if err := r.Check(); err != nil {
		return err
	}
	if r.Count < 1 {
		r.Count = 1
	}
	g.bump(r)
	return nil
}

// Merge enters all rules, typically the result of Extract for one tree.
func (g *Grammar) Merge(rules []*Rule) error {
	for _, r := range rules {
		if err := g.Add(r); err != nil {
			return err
		}
	}
	return nil
}

// Absorb folds the contents of another grammar into g, adding counts.
// The other grammar is left untouched.
func (g *Grammar) Absorb(other *Grammar) {
	other.rules.Each(func(_, v interface{}) {
		c := *v.(*Rule)
		g.bump(&c)
	})
	other.lex.Each(func(_, v interface{}) {
		c := *v.(*Rule)
		g.bump(&c)
	})
	tracer().Debugf("grammar absorbed %d rules, %d lexicon entries",
		other.Size(), other.LexSize())
}

// bump merges a checked rule into the tables.
func (g *Grammar) bump(r *Rule) {
	m, key := g.rules, signature(r)
	if r.IsLexical() {
		m, key = g.lex, r.Word()+"\t"+r.LHS.Label
	}
	if old, ok := m.Get(key); ok {
		old.(*Rule).Count += r.Count
		return
	}
	m.Put(key, r)
}

// signature returns the content hash key of a rule. The count does not
// take part in rule identity.
func signature(r *Rule) string {
	return fmt.Sprintf("%x", structhash.Md5(struct {
		LHS Pred
		RHS []Pred
		Lin LinFunc
	}{r.LHS, r.RHS, r.Lin}, 1))
}

// Each visits the phrasal rules in signature order, which is stable
// across runs but otherwise arbitrary.
func (g *Grammar) Each(visit func(*Rule)) {
	g.rules.Each(func(_, v interface{}) {
		visit(v.(*Rule))
	})
}

// Lexical returns the lexical rules, sorted by word, then tag.
func (g *Grammar) Lexical() []*Rule {
	rs := make([]*Rule, 0, g.lex.Size())
	g.lex.Each(func(_, v interface{}) {
		rs = append(rs, v.(*Rule))
	})
	return rs
}

// Size returns the number of distinct phrasal rules.
func (g *Grammar) Size() int {
	return g.rules.Size()
}

// LexSize returns the number of distinct word/tag pairs.
func (g *Grammar) LexSize() int {
	return g.lex.Size()
}

// ContextFree is true if every phrasal rule has fan-out 1 on its
// left-hand side, i.e., the grammar is a plain CFG.
func (g *Grammar) ContextFree() bool {
	cf := true
	g.rules.Each(func(_, v interface{}) {
		if v.(*Rule).LHS.Fanout != 1 {
			cf = false
		}
	})
	return cf
}
