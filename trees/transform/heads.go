package transform

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/npillmayer/treegram/trees"
)

// negraMarkHeads marks the head child of each node in a NeGra/TIGER
// tree using the edge labels: the leftmost child with an HD edge wins,
// otherwise the rightmost child with an NK edge, otherwise the leftmost
// child.
func negraMarkHeads(t *trees.Tree, opts Options) error {
	root := t.Root()
	root.Head = false
	trees.Preorder(root, func(n *trees.Node) bool {
		if !n.HasChildren() {
			return true
		}
		children := n.Children()
		hd, nk := -1, -1
		for i, child := range children {
			if child.Edge == "HD" && hd < 0 {
				hd = i
			}
			if child.Edge == "NK" {
				nk = i
			}
		}
		index := 0
		if hd >= 0 {
			index = hd
		} else if nk >= 0 {
			index = nk
		}
		for i, child := range children {
			child.Head = i == index
		}
		return true
	})
	return nil
}

// markHeads marks the head child of each node using a per-label
// priority table. The table is selected with parameter "rules", either
// "negra" (default) or "ptb", or read from a rule file given with
// parameter "rulefile".
func markHeads(t *trees.Tree, opts Options) error {
	var rules HeadRules
	if file := opts.String("rulefile", ""); file != "" {
		var err error
		if rules, err = LoadHeadRules(file); err != nil {
			return err
		}
	} else {
		switch set := opts.String("rules", "negra"); set {
		case "negra":
			rules = NegraHeadRules()
		case "ptb":
			rules = PTBHeadRules()
		default:
			return fmt.Errorf("unknown head rule set '%s'", set)
		}
	}
	rules.Mark(t)
	return nil
}

// === Head rule tables ======================================================

type direction int8

const (
	leftToRight direction = iota
	rightToLeft
)

// headRule is one priority group: try the categories in order, scanning
// the children in the group's direction; the first hit wins. A group
// without categories matches the first child in scan direction.
type headRule struct {
	dir  direction
	cats []string
}

// HeadRules maps a nonterminal label to an ordered list of priority
// groups. Lookup and category comparison ignore case and any decoration
// of the label (grammatical function, indices, head markers).
type HeadRules map[string][]headRule

// Head determines the index of the head child among children according
// to the rules. Nodes with a label not covered by the table default to
// the leftmost child.
func (hr HeadRules) Head(label string, children []*trees.Node) int {
	if len(children) == 0 {
		return -1
	}
	groups, ok := hr[coreLabel(label)]
	if !ok {
		return 0
	}
	for _, group := range groups {
		if len(group.cats) == 0 {
			if group.dir == rightToLeft {
				return len(children) - 1
			}
			return 0
		}
		for _, cat := range group.cats {
			if i := scan(children, cat, group.dir); i >= 0 {
				return i
			}
		}
	}
	if groups[0].dir == rightToLeft {
		return len(children) - 1
	}
	return 0
}

// Mark annotates every node of the tree with its head child. The root
// itself carries no head flag.
func (hr HeadRules) Mark(t *trees.Tree) {
	root := t.Root()
	root.Head = false
	trees.Preorder(root, func(n *trees.Node) bool {
		if !n.HasChildren() {
			return true
		}
		children := n.Children()
		index := hr.Head(n.Label, children)
		for i, child := range children {
			child.Head = i == index
		}
		return true
	})
}

func scan(children []*trees.Node, cat string, dir direction) int {
	if dir == rightToLeft {
		for i := len(children) - 1; i >= 0; i-- {
			if coreLabel(children[i].Label) == cat {
				return i
			}
		}
		return -1
	}
	for i, child := range children {
		if coreLabel(child.Label) == cat {
			return i
		}
	}
	return -1
}

// coreLabel uppercases and strips decoration from a node label, so that
// "np-sbj-2" and "NP" compare equal.
func coreLabel(label string) string {
	parsed := trees.ParseLabel(label)
	return strings.ToUpper(parsed.Label)
}

// ParseHeadRules reads head rules in the format used by rparse and
// disco-dop: one priority group per line, consisting of a label, a scan
// direction ("left-to-right" or "right-to-left", abbreviated "left" and
// "right"), and the categories of the group. Several lines for the same
// label form successive fallback groups. '%' and '#' start comments.
func ParseHeadRules(r io.Reader) (HeadRules, error) {
	rules := make(HeadRules)
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		if i := strings.IndexAny(line, "%#"); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("head rules line %d: missing direction", lineno)
		}
		var dir direction
		switch strings.ToLower(fields[1]) {
		case "left-to-right", "left":
			dir = leftToRight
		case "right-to-left", "right":
			dir = rightToLeft
		default:
			return nil, fmt.Errorf("head rules line %d: unknown direction '%s'", lineno, fields[1])
		}
		label := strings.ToUpper(fields[0])
		cats := make([]string, len(fields)-2)
		for i, cat := range fields[2:] {
			cats[i] = strings.ToUpper(cat)
		}
		rules[label] = append(rules[label], headRule{dir: dir, cats: cats})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return rules, nil
}

// LoadHeadRules reads head rules from a file.
func LoadHeadRules(name string) (HeadRules, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("cannot read head rules (%w)", err)
	}
	defer file.Close()
	rules, err := ParseHeadRules(file)
	if err != nil {
		return nil, fmt.Errorf("head rules %s: %w", name, err)
	}
	return rules, nil
}

// PTBHeadRules returns the head percolation table for the Penn Treebank
// after Collins (1999), in the category-major reading of Stanford's
// head finders. Callers must not modify the returned table.
func PTBHeadRules() HeadRules {
	return ptbRules
}

// NegraHeadRules returns a head percolation table for NeGra/TIGER
// annotation. Callers must not modify the returned table.
func NegraHeadRules() HeadRules {
	return negraRules
}

var ptbRules = mustHeadRules(`
ADJP    left    NNS QP NN $ ADVP JJ VBN VBG ADJP JJR NP JJS DT FW RBR RBS SBAR RB
ADVP    right   RB RBR RBS FW ADVP TO CD JJR JJ IN NP JJS NN
CONJP   right   CC RB IN
FRAG    right
INTJ    left
LST     right   LS :
NAC     left    NN NNS NNP NNPS NP NAC EX $ CD QP PRP VBG JJ JJS JJR ADJP FW
PP      right   IN TO VBG VBN RP FW
PRN     left
PRT     right   RP
QP      left    $ IN NNS NN JJ RB DT CD QP JJR JJS
RRC     right   VP NP ADVP ADJP PP
S       left    TO IN VP S SBAR ADJP UCP NP
SBAR    left    WHNP WHPP WHADVP WHADJP IN DT S SQ SINV SBAR FRAG
SBARQ   left    SQ S SINV SBARQ FRAG
SINV    left    VBZ VBD VBP VB MD VP S SINV ADJP NP
SQ      left    VBZ VBD VBP VB MD VP SQ
UCP     right
VP      left    TO VBD VBN MD VBZ VB VBG VBP VP ADJP NN NNS NP
WHADJP  left    CC WRB JJ ADJP
WHADVP  right   CC WRB
WHNP    left    WDT WP WP$ WHADJP WHPP WHNP
WHPP    right   IN TO FW
NP      right   POS
NP      right   NN NNP NNPS NNS NX JJR
NP      left    NP
NP      right   $ ADJP PRN
NP      right   CD
NP      right   JJ JJS RB QP
NX      right   NN NNP NNPS NNS NX JJR
X       left
ROOT    left    S SQ SINV SBARQ FRAG
TOP     left    S SQ SINV SBARQ FRAG
`)

var negraRules = mustHeadRules(`
VROOT   left    S CS VP CVP NP CNP
S       right   VVFIN VMFIN VAFIN VVIMP VAIMP
S       right   VP CVP VZ
S       right   S CS NP
VP      right   VVINF VVIZU VVPP VZ VAINF VMINF VMPP VAPP
VP      right   VP CVP
VZ      right   VVINF VAINF VMINF
VZ      left    PTKZU
NP      right   NN NE MPN PN NP CNP PPER PIS PDS PRELS PWS CARD
PP      left    APPR APPRART APPO APZR KOKOM PROAV
PP      right   NP CNP NN NE
AP      right   ADJA ADJD CAP AA ADV
AVP     right   ADV AVP ADJD PROAV PTKNEG
AA      right   ADJD ADJA
NM      right   CARD NN
MPN     right   NE NN
MTA     right   ADJA ADJD NN
CS      right   S
CVP     right   VP
CNP     right   NN NE MPN PN NP
CAP     right   ADJA ADJD AP
CAVP    right   ADV AVP
CPP     right   PP
CAC     right   APPR AVP
CO      left
DL      left
ISU     left
CH      left
`)

func mustHeadRules(table string) HeadRules {
	rules, err := ParseHeadRules(strings.NewReader(table))
	if err != nil {
		panic(fmt.Sprintf("builtin head rules broken: %v", err))
	}
	return rules
}
