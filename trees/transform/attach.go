package transform

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/npillmayer/treegram/trees"
	"golang.org/x/exp/slices"
)

// span returns the positions of the leftmost and rightmost terminal
// below n.
func span(n *trees.Node) (int, int, error) {
	blocks, err := n.Blocks()
	if err != nil {
		return 0, 0, err
	}
	if len(blocks) == 0 {
		return 0, 0, &trees.StructureError{Msg: "node covers no terminals"}
	}
	return blocks[0].From(), blocks[len(blocks)-1].To() - 1, nil
}

// rootAttach reattaches children of the virtual root node in
// NeGra/TIGER style treebanks, where punctuation and parentheticals hang
// off the root. Each child of the root is moved to the least common
// ancestor of the two terminals neighboring its yield, left to right.
// Adjacent root children on the right are skipped over when determining
// the right neighbor, since they are not attached yet. A child touching
// the sentence boundary stays in place, as does one whose computed
// target is the root itself.
func rootAttach(t *trees.Tree, opts Options) error {
	terms := t.Terminals()
	if len(terms) == 0 {
		return nil
	}
	root := t.Root()
	for _, child := range root.Children() {
		left, right, err := span(child)
		if err != nil {
			return err
		}
		tl, tr := left-1, right+1
		// skip over adjacent right siblings, they may interrupt the
		// span we are about to attach into
		focus := child
		for sibling := trees.RightSibling(focus); sibling != nil; sibling = trees.RightSibling(sibling) {
			_, focusMax, err := span(focus)
			if err != nil {
				return err
			}
			sibMin, sibMax, err := span(sibling)
			if err != nil {
				return err
			}
			if sibMin < focusMax { // sibling interleaves with focus
				continue
			}
			if sibMin > focusMax+1 { // gap, we are done
				break
			}
			tr = sibMax + 1
			focus = sibling
		}
		if tl < 0 || tr > len(terms)-1 { // yield touches sentence boundary
			continue
		}
		target := trees.LCA(terms[tl], terms[tr])
		if target == nil || target == root {
			continue
		}
		trees.Detach(child)
		if err := trees.Attach(target, child, -1); err != nil {
			return err
		}
		tracer().Debugf("tree %d: attached %s below %s", t.ID, child.Label, target.Label)
	}
	return nil
}

// addTopnode puts a node labeled TOP on top of the tree, ensuring a
// unary edge above the old root.
func addTopnode(t *trees.Tree, opts Options) error {
	top := trees.Nonterminal("TOP")
	root := t.Root()
	t.SetRoot(top)
	return trees.Attach(top, root, -1)
}

// insertTerminals inserts terminal nodes given in a parameter file with
// three columns: position index, word and tag. The new terminals are
// attached to the root node and existing terminals at or right of the
// index are shifted. To insert a 'C' tagged 'X' between the 'B' and the
// 'D' of a sentence "A B D", specify
//
//	2 C X
//
// Insertions are applied right to left, so that all indices in the file
// refer to positions in the unmodified sentence.
func insertTerminals(t *trees.Tree, opts Options) error {
	name := opts.String("terminalfile", "")
	if name == "" {
		return fmt.Errorf("insert_terminals requires parameter terminalfile")
	}
	file, err := os.Open(name)
	if err != nil {
		return fmt.Errorf("cannot read terminals (%w)", err)
	}
	defer file.Close()
	type insertion struct {
		pos   int
		word  string
		label string
	}
	var insertions []insertion
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			continue
		}
		pos, err := strconv.Atoi(fields[0])
		if err != nil {
			return fmt.Errorf("terminal file %s: bad index '%s' (%w)", name, fields[0], err)
		}
		insertions = append(insertions, insertion{pos, fields[1], fields[2]})
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("terminal file %s (%w)", name, err)
	}
	slices.SortStableFunc(insertions, func(a, b insertion) bool {
		return a.pos < b.pos
	})
	for i := len(insertions) - 1; i >= 0; i-- {
		ins := insertions[i]
		leaf := trees.Terminal(ins.word, ins.label, ins.pos)
		if err := t.InsertTerminal(leaf, t.Root()); err != nil {
			return err
		}
	}
	return nil
}
