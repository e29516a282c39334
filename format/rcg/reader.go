package rcg

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/treegram/format"
	"github.com/npillmayer/treegram/lcfrs"
)

// tracer traces with key 'treegram.format'.
func tracer() tracing.Trace {
	return tracing.Select("treegram.format")
}

func init() {
	format.RegisterGrammarReader("rcg", readGrammar)
}

// readGrammar reads a grammar back from src+".rcg" and src+".lex",
// inverting writeGrammar.
func readGrammar(src string, opts format.Options) (*lcfrs.Grammar, error) {
	if opts.Bool("lex_in_grammar") {
		return nil, fmt.Errorf("option 'lex_in_grammar' is not supported for the rcg format")
	}
	g := lcfrs.NewGrammar()
	if err := readRules(g, src+".rcg"); err != nil {
		return nil, err
	}
	if err := readLexicon(g, src+".lex"); err != nil {
		return nil, err
	}
	tracer().Infof("read %d rules, %d lexicon entries from '%s'", g.Size(), g.LexSize(), src)
	return g, nil
}

func readRules(g *lcfrs.Grammar, path string) error {
	f, err := format.Open(path)
	if err != nil {
		return fmt.Errorf("reading rcg grammar (%w)", err)
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		rule, err := parseRule(line)
		if err != nil {
			return fmt.Errorf("%s:%d: %w", path, lineno, err)
		}
		if err := g.Add(rule); err != nil {
			return fmt.Errorf("%s:%d: %w", path, lineno, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading rcg grammar (%w)", err)
	}
	return nil
}

// parseRule parses one grammar line, e.g.
//
//	C:2 S1([0][1][2][3]) --> VP2([0],[3]) VB1([1]) NNP1([2])
//
// Variables are matched to right-hand side arguments by name; every
// right-hand side predicate consumes its arguments left to right, which
// is the order the writer emits them in.
func parseRule(line string) (*lcfrs.Rule, error) {
	fields := strings.Fields(line)
	if len(fields) < 4 || fields[2] != "-->" {
		return nil, fmt.Errorf("not a grammar rule: '%s'", line)
	}
	_, cnt, ok := strings.Cut(fields[0], ":")
	if !ok {
		return nil, fmt.Errorf("missing rule count in '%s'", fields[0])
	}
	count, err := strconv.Atoi(cnt)
	if err != nil {
		return nil, fmt.Errorf("rule count (%w)", err)
	}
	lhsLabel, lhsArgs, err := parsePred(fields[1])
	if err != nil {
		return nil, err
	}
	rhs := make([]lcfrs.Pred, 0, len(fields)-3)
	rhsArgs := make([][]string, 0, len(fields)-3)
	for _, s := range fields[3:] {
		label, args, err := parsePred(s)
		if err != nil {
			return nil, err
		}
		rhs = append(rhs, lcfrs.Pred{Label: label, Fanout: len(args)})
		rhsArgs = append(rhsArgs, args)
	}
	lin := make(lcfrs.LinFunc, len(lhsArgs))
	next := make([]int, len(rhs))
	for i, arg := range lhsArgs {
		for _, v := range splitVars(arg) {
			found := false
			for j := range rhs {
				if next[j] < len(rhsArgs[j]) && rhsArgs[j][next[j]] == v {
					lin[i] = append(lin[i], lcfrs.Ref(j, next[j]))
					next[j]++
					found = true
					break
				}
			}
			if !found {
				return nil, fmt.Errorf("variable %s has no right-hand side source", v)
			}
		}
	}
	return &lcfrs.Rule{
		LHS:   lcfrs.Pred{Label: lhsLabel, Fanout: len(lhsArgs)},
		RHS:   rhs,
		Lin:   lin,
		Count: count,
	}, nil
}

// parsePred splits a predicate like "VP2([0],[3])" into its label, with
// the trailing fan-out digits stripped, and its raw argument strings.
func parsePred(s string) (string, []string, error) {
	paren := strings.IndexByte(s, '(')
	if paren < 0 || !strings.HasSuffix(s, ")") {
		return "", nil, fmt.Errorf("not a predicate: '%s'", s)
	}
	label := stripFanout(s[:paren])
	if label == "" {
		return "", nil, fmt.Errorf("predicate without a label: '%s'", s)
	}
	return label, strings.Split(s[paren+1:len(s)-1], ","), nil
}

// stripFanout removes the trailing fan-out digits from a label.
func stripFanout(label string) string {
	for len(label) > 0 && label[len(label)-1] >= '0' && label[len(label)-1] <= '9' {
		label = label[:len(label)-1]
	}
	return label
}

// splitVars splits an argument like "[0][1]" into its bracketed variable
// occurrences.
func splitVars(arg string) []string {
	var vars []string
	for len(arg) > 0 {
		end := strings.IndexByte(arg, ']')
		if end < 0 {
			return append(vars, arg)
		}
		vars = append(vars, arg[:end+1])
		arg = arg[end+1:]
	}
	return vars
}

// readLexicon reads lines of the form "word tag count [tag count ...]"
// and enters one lexical rule per tag.
func readLexicon(g *lcfrs.Grammar, path string) error {
	f, err := format.Open(path)
	if err != nil {
		return fmt.Errorf("reading rcg lexicon (%w)", err)
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineno := 0
	for scanner.Scan() {
		lineno++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields)%2 == 0 {
			return fmt.Errorf("%s:%d: lexicon line is not a word plus tag/count pairs", path, lineno)
		}
		word := fields[0]
		for i := 1; i < len(fields); i += 2 {
			count, err := strconv.Atoi(fields[i+1])
			if err != nil {
				return fmt.Errorf("%s:%d: tag count (%w)", path, lineno, err)
			}
			rule := &lcfrs.Rule{
				LHS:   lcfrs.Pred{Label: fields[i], Fanout: 1},
				Lin:   lcfrs.LinFunc{{lcfrs.Lit(word)}},
				Count: count,
			}
			if err := g.Add(rule); err != nil {
				return fmt.Errorf("%s:%d: %w", path, lineno, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading rcg lexicon (%w)", err)
	}
	return nil
}
