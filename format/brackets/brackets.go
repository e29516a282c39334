/*
Package brackets reads and writes treebanks in bracketed notation, one
sentence per line:

	(S(NP Who)(VP (VB likes) (NP Manfred)))

The discontinuous flavor, registered as "discobrackets", keeps the words
out of the brackets: terminals hold sentence positions instead, and the
words follow the tree on the same line, separated by whitespace. Reading
such a sentence reorders the terminals to their positions, which is how
trees with crossing branches are written down in a line-based format.

Writing always produces continuous bracketed output; trees with gaps are
rejected.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package brackets

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/treegram/format"
	"github.com/npillmayer/treegram/trees"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// tracer traces with key 'treegram.format'.
func tracer() tracing.Trace {
	return tracing.Select("treegram.format")
}

func init() {
	format.RegisterTreeReader("brackets", newReader)
	format.RegisterTreeReader("discobrackets", newDiscoReader)
	format.RegisterTreeWriter("brackets", newWriter)
}

// === Lexing ================================================================

// Token classes of the bracketed notation.
const (
	tokLRB = iota + 1
	tokRRB
	tokWS
	tokToken
)

// newLexer compiles the four token classes. Together they cover every
// byte, so scanning never gets stuck.
func newLexer() (*lexmachine.Lexer, error) {
	lexer := lexmachine.NewLexer()
	lexer.Add([]byte(`\(`), tokenAction(tokLRB))
	lexer.Add([]byte(`\)`), tokenAction(tokRRB))
	lexer.Add([]byte(`[ \t\n\r]+`), tokenAction(tokWS))
	lexer.Add([]byte(`[^ \t\n\r\(\)]+`), tokenAction(tokToken))
	if err := lexer.Compile(); err != nil {
		return nil, fmt.Errorf("cannot compile brackets lexer (%w)", err)
	}
	return lexer, nil
}

func tokenAction(id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}

// === Reading ===============================================================

// Parser states, named after what the parser expects to see next.
const (
	stSentence   = 0 // a new sentence, i.e., '('
	stLabel      = 1 // whitespace or the label of a fresh node
	stWord       = 2 // whitespace before word or child, or ')' on empty POS
	stWordOrNode = 3 // a word or a child node
	stClose      = 4 // whitespace or ')' after a word
	stNext       = 5 // a sibling node or ')' after a closed child
	stRootLabel  = 9 // the possibly empty label of the root
)

type reader struct {
	scanner *lexmachine.Scanner
	opts    format.Options
	disco   bool
	firstid int
	cnt     int
}

func newReader(r io.Reader, opts format.Options) (format.TreeReader, error) {
	input, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading bracketed input (%w)", err)
	}
	lexer, err := newLexer()
	if err != nil {
		return nil, err
	}
	scanner, err := lexer.Scanner(input)
	if err != nil {
		return nil, fmt.Errorf("cannot scan bracketed input (%w)", err)
	}
	rd := &reader{
		scanner: scanner,
		opts:    opts,
		disco:   opts.Bool("disco"),
		firstid: opts.Int("brackets_firstid", 1),
	}
	if !opts.Bool("quiet") {
		tracer().Infof("first sentence id will be %d", rd.firstid)
	}
	return rd, nil
}

// newDiscoReader reads the discontinuous flavor.
func newDiscoReader(r io.Reader, opts format.Options) (format.TreeReader, error) {
	withDisco := format.Options{"disco": "true"}
	for k, v := range opts {
		withDisco[k] = v
	}
	return newReader(r, withDisco)
}

// next returns the next token, nil at the end of the input.
func (r *reader) next() (*lexmachine.Token, error) {
	tok, err, eof := r.scanner.Next()
	if eof {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot scan bracketed input (%w)", err)
	}
	return tok.(*lexmachine.Token), nil
}

// sid returns the id the sentence under construction will get.
func (r *reader) sid() int {
	return r.firstid + r.cnt
}

func (r *reader) Next() (*trees.Tree, error) {
	var queue []*trees.Node
	var terms []*trees.Node
	state := stSentence
	level := 0
	termCnt := 0
	emptypos := r.opts.Bool("brackets_emptypos")
	for {
		tok, err := r.next()
		if err != nil {
			return nil, err
		}
		if tok == nil {
			if state != stSentence || len(queue) > 0 {
				return nil, fmt.Errorf("unexpected end of input in sentence %d", r.sid())
			}
			return nil, io.EOF
		}
		text := tok.Value.(string)
		switch tok.Type {
		case tokLRB:
			switch state {
			case stSentence, stWord, stWordOrNode, stNext:
				queue = append(queue, trees.Nonterminal(trees.DefaultLabel))
				level++
				if state == stSentence {
					state = stRootLabel
				} else {
					state = stLabel
				}
			case stRootLabel:
				queue[len(queue)-1].Label = trees.DefaultRoot
				queue = append(queue, trees.Nonterminal(trees.DefaultLabel))
				level++
				state = stLabel
			case stLabel:
				return nil, fmt.Errorf("sentence %d: expected whitespace or label, got '('", r.sid())
			default: // stClose
				return nil, fmt.Errorf("sentence %d: expected whitespace or ')', got '('", r.sid())
			}
		case tokRRB:
			switch state {
			case stSentence:
				continue
			case stWord:
				if !emptypos {
					return nil, fmt.Errorf("sentence %d: expected whitespace or '(', got ')'", r.sid())
				}
				top := queue[len(queue)-1]
				term := trees.Terminal(top.Label, "--", termCnt)
				termCnt++
				queue[len(queue)-1] = term
				terms = append(terms, term)
				if !r.opts.Bool("quiet") {
					tracer().Infof("empty POS for '%s' in sentence %d", term.Word, r.sid())
				}
			case stClose, stNext:
				// regular close below
			case stLabel:
				return nil, fmt.Errorf("sentence %d: expected label, got ')'", r.sid())
			default: // stWordOrNode, stRootLabel
				return nil, fmt.Errorf("sentence %d: expected whitespace, label or '(', got ')'", r.sid())
			}
			level--
			if len(queue) > 1 {
				child := queue[len(queue)-1]
				queue = queue[:len(queue)-1]
				if err := trees.Attach(queue[len(queue)-1], child, -1); err != nil {
					return nil, fmt.Errorf("sentence %d (%w)", r.sid(), err)
				}
			}
			state = stNext
			if level == 0 {
				return r.finish(queue[0], terms)
			}
		case tokWS:
			switch state {
			case stWord:
				state = stWordOrNode
			case stClose:
				state = stNext
			}
		case tokToken:
			switch state {
			case stLabel, stRootLabel:
				top := queue[len(queue)-1]
				top.Label = text
				if r.opts.Bool("gf_split") {
					if label, gf := format.SplitGF(text, r.opts.String("gf_separator", trees.DefaultGFSeparator)); gf != trees.DefaultEdge {
						top.Label, top.Edge = label, gf
					}
				}
				state = stWord
			case stWordOrNode:
				top := queue[len(queue)-1]
				term := trees.Terminal(text, top.Label, termCnt)
				term.Edge = top.Edge
				termCnt++
				queue[len(queue)-1] = term
				terms = append(terms, term)
				state = stClose
			case stSentence:
				return nil, fmt.Errorf("expected '(', got '%s' before sentence %d", text, r.sid())
			case stWord:
				return nil, fmt.Errorf("sentence %d: expected whitespace or '(', got '%s'", r.sid(), text)
			case stClose:
				return nil, fmt.Errorf("sentence %d: expected whitespace or ')', got '%s'", r.sid(), text)
			default: // stNext
				return nil, fmt.Errorf("sentence %d: expected whitespace, '(' or ')', got '%s'", r.sid(), text)
			}
		}
	}
}

// finish completes a parsed sentence: assign the id, remap discontinuous
// terminals, validate.
func (r *reader) finish(root *trees.Node, terms []*trees.Node) (*trees.Tree, error) {
	sid := r.sid()
	r.cnt++
	if r.disco {
		if err := r.remap(sid, terms, root); err != nil {
			return nil, err
		}
	}
	if r.opts.Bool("replace_parens") {
		trees.ReplaceParensAll(root)
	}
	return trees.NewTree(sid, root)
}

// remap reads the word tokens following a discontinuous tree and moves the
// terminals to the positions their index words name.
func (r *reader) remap(sid int, terms []*trees.Node, root *trees.Node) error {
	fields, err := r.tail()
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return fmt.Errorf("no sentence after tree %d", sid)
	}
	if r.opts.Bool("disco_reordered") {
		if len(fields) < len(terms) {
			return fmt.Errorf("sentence after tree %d has %d tokens for %d terminals", sid, len(fields), len(terms))
		}
		for i, term := range terms {
			term.Word = term.Word + "-" + fields[i]
		}
		return nil
	}
	for _, term := range terms {
		pos, err := strconv.Atoi(term.Word)
		if err != nil {
			return fmt.Errorf("terminal '%s' of tree %d is not a position", term.Word, sid)
		}
		if pos < 0 || pos >= len(fields) {
			return fmt.Errorf("sentence after tree %d has no token %d", sid, pos)
		}
		term.SetPos(pos)
		term.Word = fields[pos]
	}
	trees.Preorder(root, func(n *trees.Node) bool {
		if n.HasChildren() {
			trees.SortChildren(n)
		}
		return true
	})
	return nil
}

// tail collects the word tokens up to the end of the line.
func (r *reader) tail() ([]string, error) {
	var fields []string
	for {
		tok, err := r.next()
		if err != nil {
			return nil, err
		}
		if tok == nil {
			return fields, nil
		}
		switch tok.Type {
		case tokWS:
			if strings.ContainsRune(tok.Value.(string), '\n') {
				return fields, nil
			}
		case tokToken:
			fields = append(fields, tok.Value.(string))
		default:
			return nil, fmt.Errorf("unexpected '%s' in the sentence after tree %d", tok.Value.(string), r.sid())
		}
	}
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
	gd, err := t.GapDegree()
	if err != nil {
		return err
	}
	if gd > 0 {
		return fmt.Errorf("cannot write a discontinuous tree (%d) with brackets", t.ID)
	}
	w.subtree(t.Root(), true)
	w.w.WriteString("\n")
	return nil
}

func (w *writer) subtree(n *trees.Node, isRoot bool) {
	w.w.WriteByte('(')
	if n.IsTerminal() {
		w.w.WriteString(trees.ReplaceParenChars(format.RenderLabel(n, w.opts)))
		w.w.WriteByte(' ')
		w.w.WriteString(trees.ReplaceParenChars(n.Word))
	} else {
		if !isRoot || !w.opts.Bool("brackets_emptyroot") {
			w.w.WriteString(format.RenderLabel(n, w.opts))
		}
		for _, c := range n.Children() {
			w.subtree(c, false)
		}
	}
	w.w.WriteByte(')')
}

func (w *writer) Close() error {
	return w.w.Flush()
}
