/*
Package pmcfg writes grammars in PMCFG notation.

Every phrasal rule becomes three lines: the function with its left-hand
and right-hand side categories, the linearization sequences of the
function, and its count. The sequences themselves, tuples of
child:argument pairs, are deduplicated across the grammar and defined at
the end of the file. There is no lexicon in this format.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package pmcfg

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/npillmayer/treegram/format"
	"github.com/npillmayer/treegram/lcfrs"
)

func init() {
	format.RegisterGrammarWriter("pmcfg", writeGrammar)
}

func writeGrammar(g *lcfrs.Grammar, dest string, opts format.Options) error {
	f, err := format.Create(dest + ".pmcfg")
	if err != nil {
		return fmt.Errorf("writing pmcfg grammar (%w)", err)
	}
	w := bufio.NewWriter(f)
	lindefIDs := map[string]int{}
	var lindefs []string
	funcID := 0
	g.Each(func(r *lcfrs.Rule) {
		funcID++
		fmt.Fprintf(w, " fun%d : %s <-", funcID, r.LHS.Label)
		for _, p := range r.RHS {
			fmt.Fprintf(w, " %s", p.Label)
		}
		w.WriteByte('\n')
		fmt.Fprintf(w, " fun%d =", funcID)
		for _, arg := range r.Lin {
			key := sequence(arg)
			id, ok := lindefIDs[key]
			if !ok {
				id = len(lindefs) + 1
				lindefIDs[key] = id
				lindefs = append(lindefs, key)
			}
			fmt.Fprintf(w, " s%d", id)
		}
		w.WriteByte('\n')
		fmt.Fprintf(w, " fun%d %d\n", funcID, r.Count)
	})
	for i, def := range lindefs {
		fmt.Fprintf(w, " s%d -> %s\n", i+1, def)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("writing pmcfg grammar (%w)", err)
	}
	return f.Close()
}

// sequence renders one linearization argument as child:argument pairs.
func sequence(arg []lcfrs.Fragment) string {
	parts := make([]string, len(arg))
	for i, f := range arg {
		parts[i] = fmt.Sprintf("%d:%d", f.Child, f.Arg)
	}
	return strings.Join(parts, " ")
}
