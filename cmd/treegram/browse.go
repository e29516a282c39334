package main

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/pterm/pterm"

	"github.com/npillmayer/treegram/format"
	"github.com/npillmayer/treegram/trees"
)

var browseOpts struct {
	srcFormat string
	srcOpts   string
	trace     *string
}

func browseCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       runBrowse,
		UsageLine: "browse [options] <src>",
		Short:     "browse a treebank interactively",
		Long: `
Browse walks through a treebank tree by tree. At the prompt:

	next      read the next tree and display it
	print     display the current tree again
	blocks    show the yield blocks of every node
	gaps      show the gap degree of the tree and its gapped nodes
	quit      leave (or <ctrl>D)

`,
		Flag: *flag.NewFlagSet("browse", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&browseOpts.srcFormat, "src-format", "export", "input format")
	cmd.Flag.StringVar(&browseOpts.srcOpts, "src-opts", "", "input format options, comma-separated key:value pairs")
	browseOpts.trace = traceFlag(cmd)
	return cmd
}

func runBrowse(cmd *commander.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: %s", cmd.UsageLine)
	}
	setupTracing(*browseOpts.trace)
	reader, closeSrc, err := openSource(args[0], browseOpts.srcFormat, browseOpts.srcOpts)
	if err != nil {
		return err
	}
	defer closeSrc()
	repl, err := readline.New("treegram> ")
	if err != nil {
		return err
	}
	defer repl.Close()
	pterm.Info.Println("Browsing " + args[0] + ", quit with <ctrl>D")
	b := &browser{reader: reader}
	if err := b.next(); err != nil {
		return err
	}
	for {
		line, err := repl.Readline()
		if err != nil { // io.EOF
			break
		}
		quit, err := b.execute(strings.TrimSpace(line))
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
	return nil
}

// browser holds the REPL state: the corpus reader and the current tree.
type browser struct {
	reader  format.TreeReader
	current *trees.Tree
}

func (b *browser) execute(line string) (bool, error) {
	switch line {
	case "":
		return false, nil
	case "next", "n":
		return false, b.next()
	case "print", "p":
		return false, b.print()
	case "blocks", "b":
		return false, b.blocks()
	case "gaps", "g":
		return false, b.gaps()
	case "quit", "q", "exit":
		return true, nil
	}
	return false, fmt.Errorf("unknown command '%s'", line)
}

func (b *browser) next() error {
	t, err := b.reader.Next()
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("end of treebank")
	}
	if err != nil {
		return err
	}
	b.current = t
	return b.print()
}

func (b *browser) print() error {
	if b.current == nil {
		return fmt.Errorf("no current tree")
	}
	pterm.Println(fmt.Sprintf("tree %d: %s", b.current.ID, sentence(b.current)))
	ll := leveled(b.current.Root(), 0, pterm.LeveledList{})
	root := pterm.NewTreeFromLeveledList(ll)
	pterm.DefaultTree.WithRoot(root).Render()
	return nil
}

func (b *browser) blocks() error {
	if b.current == nil {
		return fmt.Errorf("no current tree")
	}
	var walkErr error
	trees.Preorder(b.current.Root(), func(n *trees.Node) bool {
		if n.IsTerminal() {
			return true
		}
		blocks, err := n.Blocks()
		if err != nil {
			walkErr = err
			return false
		}
		spans := make([]string, len(blocks))
		for i, s := range blocks {
			spans[i] = s.String()
		}
		pterm.Println(fmt.Sprintf("%-12s %s", n.Label, strings.Join(spans, " ")))
		return true
	})
	return walkErr
}

func (b *browser) gaps() error {
	if b.current == nil {
		return fmt.Errorf("no current tree")
	}
	degree, err := b.current.GapDegree()
	if err != nil {
		return err
	}
	pterm.Info.Println(fmt.Sprintf("gap degree %d", degree))
	var walkErr error
	trees.Preorder(b.current.Root(), func(n *trees.Node) bool {
		d, err := n.GapDegree()
		if err != nil {
			walkErr = err
			return false
		}
		if d > 0 {
			pterm.Println(fmt.Sprintf("%-12s gap degree %d", n.Label, d))
		}
		return true
	})
	return walkErr
}

// leveled flattens a tree into pterm's leveled-list form, terminals
// rendered as word/tag.
func leveled(n *trees.Node, level int, ll pterm.LeveledList) pterm.LeveledList {
	text := n.Label
	if n.IsTerminal() {
		text = fmt.Sprintf("%s/%s", n.Word, n.Label)
	}
	ll = append(ll, pterm.LeveledListItem{Level: level, Text: text})
	for _, c := range n.Children() {
		ll = leveled(c, level+1, ll)
	}
	return ll
}

func sentence(t *trees.Tree) string {
	words := make([]string, 0, t.Len())
	for _, term := range t.Terminals() {
		words = append(words, term.Word)
	}
	return strings.Join(words, " ")
}
