package format

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/treegram/lcfrs"
)

// WriteLexicon writes the lexical rules of a grammar, one line per word:
//
//	word <TAB> tag count [tag count ...]
//
// Words are sorted, and so are the tags within a line. Both the LoPar and
// the RCG output use this layout for their lexicon files.
func WriteLexicon(w io.Writer, g *lcfrs.Grammar) error {
	var sb strings.Builder
	var word string
	for i, r := range g.Lexical() {
		if i == 0 || r.Word() != word {
			if i > 0 {
				sb.WriteByte('\n')
			}
			word = r.Word()
			fmt.Fprintf(&sb, "%s\t%s %d", word, r.LHS.Label, r.Count)
			continue
		}
		fmt.Fprintf(&sb, " %s %d", r.LHS.Label, r.Count)
	}
	if sb.Len() > 0 {
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
