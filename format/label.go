package format

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"strconv"
	"strings"

	"github.com/npillmayer/treegram/trees"
)

// SplitGF splits the grammatical function off a raw node label, for readers
// honoring the gf_split option. It returns the label with the grammatical
// function removed, and the function itself, which readers store in the
// edge field.
func SplitGF(raw, sep string) (label, gf string) {
	l := trees.ParseLabelSep(raw, sep)
	gf = l.GF
	l.GF = ""
	return trees.FormatLabel(l), gf
}

// RenderLabel renders the label of a node for output, decorated according
// to the writer options:
//
//	gf                   append the grammatical function (edge field)
//	gf_separator         separator before the grammatical function
//	gf_terminals         append grammatical functions on terminals, too
//	boyd_split_marking   mark block nodes of split categories with '*'
//	boyd_split_numbering number the block marks
//	mark_heads_marking   append the head marker on head children
func RenderLabel(n *trees.Node, opts Options) string {
	var sb strings.Builder
	sb.WriteString(n.Label)
	if opts.Bool("gf") && n.Edge != "" && n.Edge != trees.DefaultEdge {
		if !n.IsTerminal() || opts.Bool("gf_terminals") {
			sb.WriteString(opts.String("gf_separator", trees.DefaultGFSeparator))
			sb.WriteString(n.Edge)
		}
	}
	if opts.Bool("boyd_split_marking") && n.Split {
		sb.WriteString("*")
		if opts.Bool("boyd_split_numbering") {
			sb.WriteString(strconv.Itoa(n.BlockNum))
		}
	}
	if opts.Bool("mark_heads_marking") && n.Head {
		sb.WriteString(trees.DefaultHeadMarker)
	}
	return sb.String()
}
