/*
Package export reads and writes treebanks in the NeGra/TIGER export
format.

A sentence is a block of tab-aligned node lines between "#BOS id" and
"#EOS id" markers. Terminal lines carry the word itself, nonterminal
lines a node number of the form "#500"; the last column is the number of
the parent node, 0 for children of the virtual root. Both the three
column flavor (export 3) and the flavor with a lemma column (export 4)
are read transparently; writing the lemma column is switched on with the
export_four option.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/treegram/format"
	"github.com/npillmayer/treegram/trees"
	"golang.org/x/exp/slices"
)

// tracer traces with key 'treegram.format'.
func tracer() tracing.Trace {
	return tracing.Select("treegram.format")
}

func init() {
	format.RegisterTreeReader("export", newReader)
	format.RegisterTreeWriter("export", newWriter)
}

// === Numbering =============================================================

// Numbering computes the export numbering of a tree: inner nodes get
// numbers from 500 upwards, assigned by node height (the longest path down
// to a terminal) and, within one height, left to right. The root is always
// numbered 0. Terminals are not part of the map; their number is their
// position plus one.
func Numbering(t *trees.Tree) map[*trees.Node]int {
	byHeight := map[int][]*trees.Node{}
	maxHeight := 0
	var walk func(n *trees.Node) int
	walk = func(n *trees.Node) int {
		if n.IsTerminal() {
			return 0
		}
		h := 0
		for _, c := range n.Children() {
			if ch := walk(c); ch > h {
				h = ch
			}
		}
		h++
		if n != t.Root() {
			byHeight[h] = append(byHeight[h], n)
		}
		if h > maxHeight {
			maxHeight = h
		}
		return h
	}
	walk(t.Root())
	nums := map[*trees.Node]int{t.Root(): 0}
	num := 500
	for h := 1; h <= maxHeight; h++ {
		level := byHeight[h]
		slices.SortStableFunc(level, func(a, b *trees.Node) bool {
			return leftmost(a) < leftmost(b)
		})
		for _, n := range level {
			nums[n] = num
			num++
		}
	}
	return nums
}

// leftmost returns the position of the leftmost terminal below n.
func leftmost(n *trees.Node) int {
	return n.Terminals()[0].Pos()
}

// === Reading ===============================================================

type reader struct {
	scanner *bufio.Scanner
	opts    format.Options
	cnt     int
}

func newReader(r io.Reader, opts format.Options) (format.TreeReader, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &reader{scanner: scanner, opts: opts}, nil
}

// Next reads the next sentence block. Lines outside of #BOS/#EOS markers
// are skipped.
func (r *reader) Next() (*trees.Tree, error) {
	for r.scanner.Scan() {
		line := strings.TrimSpace(r.scanner.Text())
		if !strings.HasPrefix(line, "#BOS") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("cannot parse sentence header '%s'", line)
		}
		sid, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("cannot parse sentence id in '%s'", line)
		}
		r.cnt++
		if r.opts.Bool("continuous") {
			sid = r.cnt
		}
		var sentence []string
		for r.scanner.Scan() {
			line = strings.TrimSpace(r.scanner.Text())
			if strings.HasPrefix(line, "#EOS") {
				return r.build(sid, sentence)
			}
			sentence = append(sentence, line)
		}
		if err := r.scanner.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("unexpected end of input in sentence %d", sid)
	}
	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// nodeLine is one parsed node line of a sentence block.
type nodeLine struct {
	word   string
	lemma  string
	label  string
	morph  string
	edge   string
	parent int
}

// parseLine splits a node line into its fields. Export 3 lines get a
// default lemma inserted. Extra fields at the end of the line are ignored.
func parseLine(line string) (nodeLine, error) {
	fields := strings.Fields(line)
	if len(fields) >= 5 && isDigits(fields[4]) {
		withLemma := make([]string, 0, len(fields)+1)
		withLemma = append(withLemma, fields[0], trees.DefaultLemma)
		withLemma = append(withLemma, fields[1:]...)
		fields = withLemma
	}
	if len(fields) < 6 {
		return nodeLine{}, fmt.Errorf("too few fields in '%s'", line)
	}
	parent, err := strconv.Atoi(fields[5])
	if err != nil || !(parent == 0 || (500 <= parent && parent <= 999)) {
		return nodeLine{}, fmt.Errorf("parent field must be 0 or between 500 and 999 in '%s'", line)
	}
	return nodeLine{
		word:   fields[0],
		lemma:  fields[1],
		label:  fields[2],
		morph:  fields[3],
		edge:   fields[4],
		parent: parent,
	}, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// build assembles a tree from the node lines of one sentence block.
func (r *reader) build(sid int, sentence []string) (*trees.Tree, error) {
	byNum := map[int]*trees.Node{0: trees.Nonterminal(trees.DefaultRoot)}
	children := map[int][]int{}
	termCnt := 0
	for _, line := range sentence {
		nl, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("sentence %d: %w", sid, err)
		}
		label := nl.label
		edge := nl.edge
		if r.opts.Bool("gf_split") {
			if l, gf := format.SplitGF(label, r.opts.String("gf_separator", trees.DefaultGFSeparator)); gf != trees.DefaultEdge {
				label, edge = l, gf
			}
		}
		var num int
		var node *trees.Node
		if len(nl.word) == 4 && nl.word[0] == '#' && isDigits(nl.word[1:]) {
			num, _ = strconv.Atoi(nl.word[1:])
			node = trees.Nonterminal(label)
		} else {
			num = termCnt + 1
			node = trees.Terminal(nl.word, label, termCnt)
			termCnt++
		}
		if num > 999 {
			return nil, fmt.Errorf("sentence %d: node number must be between 0 and 999", sid)
		}
		if _, ok := byNum[num]; ok {
			return nil, fmt.Errorf("sentence %d: node number %d used twice", sid, num)
		}
		node.Lemma = nl.lemma
		node.Morph = nl.morph
		node.Edge = edge
		byNum[num] = node
		children[nl.parent] = append(children[nl.parent], num)
	}
	if err := attach(byNum, children, 0, sid); err != nil {
		return nil, err
	}
	root := byNum[0]
	if r.opts.Bool("replace_parens") {
		trees.ReplaceParensAll(root)
	}
	return trees.NewTree(sid, root)
}

// attach links the children of node num, depth-first, so that every child
// subtree is complete before it is inserted at its canonical position.
// Every node carries exactly one parent number, so the walk terminates;
// nodes on a parent cycle stay unreachable and fail tree validation.
func attach(byNum map[int]*trees.Node, children map[int][]int, num, sid int) error {
	for _, c := range children[num] {
		if err := attach(byNum, children, c, sid); err != nil {
			return err
		}
		if err := trees.Attach(byNum[num], byNum[c], -1); err != nil {
			return fmt.Errorf("sentence %d (%w)", sid, err)
		}
	}
	return nil
}

// === Writing ===============================================================

type writer struct {
	w    *bufio.Writer
	opts format.Options
}

func newWriter(w io.Writer, opts format.Options) (format.TreeWriter, error) {
	return &writer{w: bufio.NewWriter(w), opts: opts}, nil
}

func (w *writer) Write(t *trees.Tree) error {
	nums := Numbering(t)
	if t.Len() > 499 || len(nums) > 501 {
		return fmt.Errorf("tree %d has too many nodes for export numbering", t.ID)
	}
	fourCol := w.opts.Bool("export_four")
	fmt.Fprintf(w.w, "#BOS %d\n", t.ID)
	for _, term := range t.Terminals() {
		w.writeLine(term, term.Word, nums[term.Parent()], fourCol)
	}
	inner := make([]*trees.Node, 0, len(nums)-1)
	for n := range nums {
		if n != t.Root() {
			inner = append(inner, n)
		}
	}
	slices.SortFunc(inner, func(a, b *trees.Node) bool {
		return nums[a] < nums[b]
	})
	for _, n := range inner {
		w.writeLine(n, fmt.Sprintf("#%d", nums[n]), nums[n.Parent()], fourCol)
	}
	fmt.Fprintf(w.w, "#EOS %d\n", t.ID)
	return nil
}

// writeLine writes one tab-aligned node line.
func (w *writer) writeLine(n *trees.Node, word string, parent int, fourCol bool) {
	label := format.RenderLabel(n, w.opts)
	lemma := n.Lemma
	if lemma == "" {
		lemma = trees.DefaultLemma
	}
	morph := n.Morph
	if morph == "" {
		morph = trees.DefaultMorph
	}
	edge := n.Edge
	if edge == "" {
		edge = trees.DefaultEdge
	}
	w.w.WriteString(word)
	w.w.WriteString(tabs(len(word)))
	if fourCol {
		w.w.WriteString(lemma)
		w.w.WriteString(tabs(len(lemma)))
	}
	w.w.WriteString(label)
	w.w.WriteString("\t")
	w.w.WriteString(morph)
	w.w.WriteString(tabs(len(morph) + 8))
	w.w.WriteString(edge)
	w.w.WriteString("\t")
	w.w.WriteString(strconv.Itoa(parent))
	w.w.WriteString("\n")
}

// tabs pads a column of the given width out to 24 characters.
func tabs(length int) string {
	switch {
	case length < 8:
		return "\t\t\t"
	case length < 16:
		return "\t\t"
	default:
		return "\t"
	}
}

func (w *writer) Close() error {
	return w.w.Flush()
}
