/*
Package lopar writes grammars in LoPar format.

LoPar is a PCFG parser, so the grammar must be context-free: every
left-hand side has fan-out 1. Five files are written under the
destination prefix: the rules with their counts (.gram), the lexicon
(.lex), the start symbols with counts (.start), and the open-class tags
of lower- and uppercase words with counts (.oc and .OC). Start symbols
are the labels which head rules but never occur on a right-hand side.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lopar

import (
	"bufio"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/treegram/format"
	"github.com/npillmayer/treegram/lcfrs"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// tracer traces with key 'treegram.format'.
func tracer() tracing.Trace {
	return tracing.Select("treegram.format")
}

func init() {
	format.RegisterGrammarWriter("lopar", writeGrammar)
}

func writeGrammar(g *lcfrs.Grammar, dest string, opts format.Options) error {
	if !g.ContextFree() {
		return fmt.Errorf("grammar must be a PCFG to be written in LoPar format")
	}
	starts := map[string]int{} // LHS labels, minus RHS occurrences below
	ocLower := map[string]int{}
	ocUpper := map[string]int{}
	if err := writeRules(g, dest, starts); err != nil {
		return err
	}
	if err := writeLexicon(g, dest, ocLower, ocUpper); err != nil {
		return err
	}
	if err := writeCounts(dest+".start", starts); err != nil {
		return err
	}
	if err := writeCounts(dest+".oc", ocLower); err != nil {
		return err
	}
	return writeCounts(dest+".OC", ocUpper)
}

// writeRules writes the .gram file and leaves the start symbols with
// their counts in starts.
func writeRules(g *lcfrs.Grammar, dest string, starts map[string]int) error {
	rhses := map[string]bool{}
	g.Each(func(r *lcfrs.Rule) {
		starts[r.LHS.Label] += r.Count
		for _, p := range r.RHS {
			rhses[p.Label] = true
		}
	})
	for label := range rhses {
		delete(starts, label)
	}
	f, err := format.Create(dest + ".gram")
	if err != nil {
		return fmt.Errorf("writing LoPar grammar (%w)", err)
	}
	w := bufio.NewWriter(f)
	g.Each(func(r *lcfrs.Rule) {
		fmt.Fprintf(w, "%d %s", r.Count, r.LHS.Label)
		for _, p := range r.RHS {
			fmt.Fprintf(w, " %s", p.Label)
		}
		w.WriteByte('\n')
	})
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("writing LoPar grammar (%w)", err)
	}
	return f.Close()
}

// writeLexicon writes the .lex file and counts the open-class tags per
// word case. Words still containing bracket characters will garble the
// parser output; they draw a warning, as the treebank should have been
// run through bracket replacement first.
func writeLexicon(g *lcfrs.Grammar, dest string, ocLower, ocUpper map[string]int) error {
	for _, r := range g.Lexical() {
		word := r.Word()
		if strings.ContainsAny(word, "()") {
			tracer().Infof("brackets seem to not have been replaced, may garble parser output: %s", word)
		}
		if first, _ := utf8.DecodeRuneInString(word); unicode.IsUpper(first) {
			ocUpper[r.LHS.Label] += r.Count
		} else {
			ocLower[r.LHS.Label] += r.Count
		}
	}
	f, err := format.Create(dest + ".lex")
	if err != nil {
		return fmt.Errorf("writing LoPar lexicon (%w)", err)
	}
	if err := format.WriteLexicon(f, g); err != nil {
		f.Close()
		return fmt.Errorf("writing LoPar lexicon (%w)", err)
	}
	return f.Close()
}

// writeCounts writes a "symbol count" file, sorted by symbol.
func writeCounts(path string, counts map[string]int) error {
	f, err := format.Create(path)
	if err != nil {
		return fmt.Errorf("writing %s (%w)", path, err)
	}
	w := bufio.NewWriter(f)
	symbols := maps.Keys(counts)
	slices.Sort(symbols)
	for _, symbol := range symbols {
		fmt.Fprintf(w, "%s %d\n", symbol, counts[symbol])
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("writing %s (%w)", path, err)
	}
	return f.Close()
}
