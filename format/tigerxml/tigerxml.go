/*
Package tigerxml reads and writes treebanks in TIGER-XML.

A sentence is a <s> element holding a <graph> with flat lists of
terminals and nonterminals; <edge> elements inside the nonterminals make
up the dominance structure, so discontinuity needs no special treatment.
The reader is forgiving: a sentence with broken structure, multiple
roots, or duplicated edges is skipped with a note, and reading continues
with the next sentence. A root that is not a virtual root is wrapped in
one.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package tigerxml

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/treegram/format"
	"github.com/npillmayer/treegram/format/export"
	"github.com/npillmayer/treegram/trees"
)

// tracer traces with key 'treegram.format'.
func tracer() tracing.Trace {
	return tracing.Select("treegram.format")
}

func init() {
	format.RegisterTreeReader("tigerxml", newReader)
	format.RegisterTreeWriter("tigerxml", newWriter)
}

// === Reading ===============================================================

type xmlSentence struct {
	ID    string `xml:"id,attr"`
	Graph struct {
		Root      string        `xml:"root,attr"`
		Terminals []xmlTerminal `xml:"terminals>t"`
		Nonterms  []xmlNonterm  `xml:"nonterminals>nt"`
	} `xml:"graph"`
}

type xmlTerminal struct {
	ID    string `xml:"id,attr"`
	Word  string `xml:"word,attr"`
	Lemma string `xml:"lemma,attr"`
	POS   string `xml:"pos,attr"`
	Morph string `xml:"morph,attr"`
}

type xmlNonterm struct {
	ID    string    `xml:"id,attr"`
	Cat   string    `xml:"cat,attr"`
	Edges []xmlEdge `xml:"edge"`
}

type xmlEdge struct {
	Label string `xml:"label,attr"`
	IDRef string `xml:"idref,attr"`
}

var sidPattern = regexp.MustCompile(`\d+`)

type reader struct {
	dec  *xml.Decoder
	opts format.Options
	cnt  int
}

func newReader(r io.Reader, opts format.Options) (format.TreeReader, error) {
	return &reader{dec: xml.NewDecoder(r), opts: opts}, nil
}

// Next returns the next well-formed sentence. Sentences which cannot be
// assembled into a tree are skipped; malformed XML is fatal.
func (r *reader) Next() (*trees.Tree, error) {
	for {
		tok, err := r.dec.Token()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, fmt.Errorf("reading tiger xml (%w)", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "s" {
			continue
		}
		var s xmlSentence
		if err := r.dec.DecodeElement(&s, &start); err != nil {
			return nil, fmt.Errorf("reading tiger xml (%w)", err)
		}
		r.cnt++
		tree, err := r.build(s)
		if err != nil {
			if !r.opts.Bool("quiet") {
				tracer().Errorf("skipping sentence '%s': %v", s.ID, err)
			}
			continue
		}
		return tree, nil
	}
}

// build assembles the tree of one <s> element.
func (r *reader) build(s xmlSentence) (*trees.Tree, error) {
	sid := r.cnt
	if !r.opts.Bool("continuous") {
		matches := sidPattern.FindAllString(s.ID, -1)
		if len(matches) == 0 {
			return nil, fmt.Errorf("sentence id '%s' carries no number", s.ID)
		}
		sid, _ = strconv.Atoi(matches[len(matches)-1])
	}
	gfSplit := r.opts.Bool("gf_split")
	gfSep := r.opts.String("gf_separator", trees.DefaultGFSeparator)
	byID := map[string]*trees.Node{}
	enter := func(id string, n *trees.Node) error {
		if _, ok := byID[id]; ok {
			return fmt.Errorf("node id '%s' used twice", id)
		}
		byID[id] = n
		return nil
	}
	for i, t := range s.Graph.Terminals {
		label := t.POS
		edge := ""
		if gfSplit {
			if l, gf := format.SplitGF(label, gfSep); gf != trees.DefaultEdge {
				label, edge = l, gf
			}
		}
		node := trees.Terminal(t.Word, label, i)
		if t.Lemma != "" {
			node.Lemma = t.Lemma
		}
		if t.Morph != "" {
			node.Morph = t.Morph
		}
		if edge != "" {
			node.Edge = edge
		}
		if err := enter(t.ID, node); err != nil {
			return nil, err
		}
	}
	for _, nt := range s.Graph.Nonterms {
		label := nt.Cat
		if gfSplit {
			if l, gf := format.SplitGF(label, gfSep); gf != trees.DefaultEdge {
				label = l
			}
		}
		if err := enter(nt.ID, trees.Nonterminal(label)); err != nil {
			return nil, err
		}
	}
	for _, nt := range s.Graph.Nonterms {
		parent := byID[nt.ID]
		for _, e := range nt.Edges {
			child, ok := byID[e.IDRef]
			if !ok {
				return nil, fmt.Errorf("unknown node id '%s'", e.IDRef)
			}
			if child.Parent() != nil {
				return nil, fmt.Errorf("more than one incoming edge for one node")
			}
			if err := trees.Attach(parent, child, parent.ChildCount()); err != nil {
				return nil, err
			}
			if e.Label != "" {
				child.Edge = e.Label
			}
		}
	}
	var roots []*trees.Node
	var rootIDs []string
	for id, n := range byID {
		if n.Parent() == nil {
			roots = append(roots, n)
			rootIDs = append(rootIDs, id)
		}
	}
	if len(roots) == 0 {
		return nil, fmt.Errorf("looks like a cycle")
	}
	if len(roots) > 1 {
		return nil, fmt.Errorf("multiple roots: %s", strings.Join(rootIDs, ", "))
	}
	root := roots[0]
	if root.Label != trees.DefaultRoot {
		vroot := trees.Nonterminal(trees.DefaultRoot)
		if err := trees.Attach(vroot, root, -1); err != nil {
			return nil, err
		}
		root = vroot
	}
	trees.Preorder(root, func(n *trees.Node) bool {
		if n.HasChildren() {
			trees.SortChildren(n)
		}
		return true
	})
	if r.opts.Bool("replace_parens") {
		trees.ReplaceParensAll(root)
	}
	return trees.NewTree(sid, root)
}

// === Writing ===============================================================

const corpusHeader = "<?xml version='1.0' encoding='utf-8'?>\n<corpus>\n<body>\n"
const corpusTrailer = "</body>\n</corpus>\n"

var attrEscaper = strings.NewReplacer(
	"&", "&amp;", "<", "&lt;", ">", "&gt;", "\"", "&quot;",
)

func quoteAttr(s string) string {
	return "\"" + attrEscaper.Replace(s) + "\""
}

type writer struct {
	w      *bufio.Writer
	opts   format.Options
	opened bool
}

func newWriter(w io.Writer, opts format.Options) (format.TreeWriter, error) {
	return &writer{w: bufio.NewWriter(w), opts: opts}, nil
}

func (w *writer) Write(t *trees.Tree) error {
	if !w.opened {
		w.w.WriteString(corpusHeader)
		w.opened = true
	}
	nums := export.Numbering(t)
	fmt.Fprintf(w.w, "<s id=\"%d\">\n<graph root=\"0\">\n  <terminals>\n", t.ID)
	for i, term := range t.Terminals() {
		fmt.Fprintf(w.w, "    <t id=\"%d\" word=%s lemma=%s pos=%s morph=%s />\n",
			i+1, quoteAttr(term.Word), quoteAttr(orDefault(term.Lemma, trees.DefaultLemma)),
			quoteAttr(term.Label), quoteAttr(orDefault(term.Morph, trees.DefaultMorph)))
	}
	w.w.WriteString("  </terminals>\n  <nonterminals>\n")
	trees.Postorder(t.Root(), func(n *trees.Node) bool {
		if n.IsTerminal() {
			return true
		}
		fmt.Fprintf(w.w, "    <nt id=\"%d\" cat=%s>\n", nums[n], quoteAttr(n.Label))
		for _, c := range n.Children() {
			ref := nums[c]
			if c.IsTerminal() {
				ref = c.Pos() + 1
			}
			fmt.Fprintf(w.w, "      <edge label=%s idref=\"%d\" />\n",
				quoteAttr(orDefault(c.Edge, trees.DefaultEdge)), ref)
		}
		w.w.WriteString("    </nt>\n")
		return true
	})
	w.w.WriteString("  </nonterminals>\n</graph>\n</s>\n")
	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// Close completes the corpus element. The underlying stream stays open.
func (w *writer) Close() error {
	if w.opened {
		w.w.WriteString(corpusTrailer)
	}
	return w.w.Flush()
}
