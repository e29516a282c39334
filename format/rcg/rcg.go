/*
Package rcg reads and writes grammars in rparse RCG notation.

Every phrasal rule becomes one line with a count field and the rule in
variable notation, variables numbered by their appearance on the
left-hand side:

	C:2 S1([0][1][2][3]) --> VP2([0],[3]) VB1([1]) NNP1([2])

Lexical rules go into a separate lexicon file, one word per line with its
tags and counts. Reading inverts writing, so a stored grammar can be fed
back into analysis.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package rcg

import (
	"bufio"
	"fmt"

	"github.com/npillmayer/treegram/format"
	"github.com/npillmayer/treegram/lcfrs"
)

func init() {
	format.RegisterGrammarWriter("rcg", writeGrammar)
}

func writeGrammar(g *lcfrs.Grammar, dest string, opts format.Options) error {
	f, err := format.Create(dest + ".rcg")
	if err != nil {
		return fmt.Errorf("writing rcg grammar (%w)", err)
	}
	w := bufio.NewWriter(f)
	g.Each(func(r *lcfrs.Rule) {
		fmt.Fprintf(w, "C:%d %s\n", r.Count, r)
	})
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("writing rcg grammar (%w)", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	lex, err := format.Create(dest + ".lex")
	if err != nil {
		return fmt.Errorf("writing rcg lexicon (%w)", err)
	}
	if err := format.WriteLexicon(lex, g); err != nil {
		lex.Close()
		return fmt.Errorf("writing rcg lexicon (%w)", err)
	}
	return lex.Close()
}
