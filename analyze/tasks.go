package analyze

import (
	"strconv"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/npillmayer/treegram/trees"
)

// PosTags counts the part-of-speech tags of a corpus.
type PosTags struct {
	tags *treemap.Map // tag -> count
}

// NewPosTags creates an empty tag accumulator.
func NewPosTags() *PosTags {
	return &PosTags{tags: treemap.NewWithStringComparator()}
}

// Run counts the preterminal labels of one tree.
func (pt *PosTags) Run(t *trees.Tree) error {
	for _, term := range t.Terminals() {
		bump(pt.tags, term.Label)
	}
	return nil
}

// Distinct returns the number of different tags seen so far.
func (pt *PosTags) Distinct() int {
	return pt.tags.Size()
}

// Each visits the tags alphabetically.
func (pt *PosTags) Each(visit func(tag string, count int)) {
	pt.tags.Each(func(k, v interface{}) {
		visit(k.(string), v.(int))
	})
}

// Header returns the summary table header.
func (pt *PosTags) Header() []string {
	return []string{"tag", "count"}
}

// Rows returns one row per tag, alphabetically.
func (pt *PosTags) Rows() [][]string {
	rows := make([][]string, 0, pt.tags.Size())
	pt.Each(func(tag string, count int) {
		rows = append(rows, []string{tag, strconv.Itoa(count)})
	})
	return rows
}

// SentenceCount counts sentences and words.
type SentenceCount struct {
	trees int
	words int
}

// Run counts one tree.
func (sc *SentenceCount) Run(t *trees.Tree) error {
	sc.trees++
	sc.words += t.Len()
	return nil
}

// Count returns the number of trees seen so far.
func (sc *SentenceCount) Count() int {
	return sc.trees
}

// Words returns the number of terminals seen so far.
func (sc *SentenceCount) Words() int {
	return sc.words
}

// Header returns the summary table header.
func (sc *SentenceCount) Header() []string {
	return []string{"measure", "count"}
}

// Rows returns the two summary rows.
func (sc *SentenceCount) Rows() [][]string {
	return [][]string{
		{"sentences", strconv.Itoa(sc.trees)},
		{"words", strconv.Itoa(sc.words)},
	}
}
