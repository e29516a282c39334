/*
Package terminals writes the words of a treebank, dropping the trees.

By default every sentence becomes one space-separated line. With the
terminals_one option each word gets its own line and sentences are
separated by empty lines; terminals_pos appends the part-of-speech tags.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package terminals

import (
	"bufio"
	"io"
	"strings"

	"github.com/npillmayer/treegram/format"
	"github.com/npillmayer/treegram/trees"
)

func init() {
	format.RegisterTreeWriter("terminals", newWriter)
}

type writer struct {
	w    *bufio.Writer
	opts format.Options
}

func newWriter(w io.Writer, opts format.Options) (format.TreeWriter, error) {
	return &writer{w: bufio.NewWriter(w), opts: opts}, nil
}

func (w *writer) Write(t *trees.Tree) error {
	one := w.opts.Bool("terminals_one")
	pos := w.opts.Bool("terminals_pos")
	if one {
		for _, term := range t.Terminals() {
			w.w.WriteString(term.Word)
			if pos {
				w.w.WriteString("\t")
				w.w.WriteString(format.RenderLabel(term, w.opts))
			}
			w.w.WriteString("\n")
		}
		w.w.WriteString("\n")
		return nil
	}
	words := make([]string, 0, t.Len())
	for _, term := range t.Terminals() {
		word := term.Word
		if pos {
			word += "/" + format.RenderLabel(term, w.opts)
		}
		words = append(words, word)
	}
	w.w.WriteString(strings.Join(words, " "))
	w.w.WriteString("\n")
	return nil
}

func (w *writer) Close() error {
	return w.w.Flush()
}
