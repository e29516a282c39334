package main

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"

	"github.com/npillmayer/treegram/corpus"
	"github.com/npillmayer/treegram/format"
	"github.com/npillmayer/treegram/lcfrs"
	"github.com/npillmayer/treegram/trees"
	"github.com/npillmayer/treegram/trees/binarize"
	"github.com/npillmayer/treegram/trees/transform"
)

var grammarOpts struct {
	trans      string
	params     string
	markov     string
	headRules  string
	srcFormat  string
	srcOpts    string
	destFormat string
	destOpts   string
	workers    int
	trace      *string
}

func grammarCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       runGrammar,
		UsageLine: "grammar [options] <src> <dest> <type>",
		Short:     "extract an LCFRS grammar from a treebank",
		Long: `
Grammar reads a treebank and extracts an LCFRS/RCG grammar from its
trees, writing the result to files under the dest prefix. The grammar
type is "treebank" for the plain treebank grammar, or one of the
binarization strategies "leftright", "rightleft" and "headdriven" for a
binarized grammar, optionally markovized.

	$ treegram grammar tiger.export tiger headdriven -trans negra_mark_heads -markov v:1,h:2 -dest-format rcg

Available grammar formats: ` + strings.Join(format.GrammarWriters(), ", ") + `.
`,
		Flag: *flag.NewFlagSet("grammar", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&grammarOpts.trans, "trans", "", "transformations to apply before extraction, comma-separated")
	cmd.Flag.StringVar(&grammarOpts.params, "params", "", "transformation parameters, comma-separated key:value pairs")
	cmd.Flag.StringVar(&grammarOpts.markov, "markov", "", "markovization, e.g. 'v:1,h:2' or 'v:1,h:2,nofanout'")
	cmd.Flag.StringVar(&grammarOpts.headRules, "head-rules", "", "head rule table for head-driven binarization: 'ptb', 'negra', or a rule file")
	cmd.Flag.StringVar(&grammarOpts.srcFormat, "src-format", "export", "input format")
	cmd.Flag.StringVar(&grammarOpts.srcOpts, "src-opts", "", "input format options, comma-separated key:value pairs")
	cmd.Flag.StringVar(&grammarOpts.destFormat, "dest-format", "rcg", "grammar output format")
	cmd.Flag.StringVar(&grammarOpts.destOpts, "dest-opts", "", "grammar output options, comma-separated key:value pairs")
	cmd.Flag.IntVar(&grammarOpts.workers, "workers", runtime.NumCPU(), "number of concurrent extraction workers")
	grammarOpts.trace = traceFlag(cmd)
	return cmd
}

func runGrammar(cmd *commander.Command, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: %s", cmd.UsageLine)
	}
	setupTracing(*grammarOpts.trace)
	src, dest, gramtype := args[0], args[1], args[2]
	tracer().Infof("extracting grammar (%s) from '%s'", gramtype, src)
	extract, err := extractFunc(gramtype)
	if err != nil {
		return err
	}
	var pipeline *transform.Pipeline
	if grammarOpts.trans != "" {
		pipeline, err = transform.NewPipelineNamed(
			strings.Split(grammarOpts.trans, ","),
			transform.ParseOptions(strings.Split(grammarOpts.params, ",")))
		if err != nil {
			return err
		}
	}
	reader, closeSrc, err := openSource(src, grammarOpts.srcFormat, grammarOpts.srcOpts)
	if err != nil {
		return err
	}
	defer closeSrc()
	res, err := corpus.Run(context.Background(), reader, corpus.Options{
		Workers:  grammarOpts.workers,
		Pipeline: pipeline,
		Extract:  extract,
		Progress: progress,
	})
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}
	tracer().Infof("extracted %d rules, %d lexicon entries from %d trees",
		res.Grammar.Size(), res.Grammar.LexSize(), res.Trees)
	if err := format.WriteGrammar(grammarOpts.destFormat, res.Grammar, dest,
		parseOpts(grammarOpts.destOpts)); err != nil {
		return err
	}
	return reportFailures(res.Failed)
}

// extractFunc builds the per-tree extraction: plain rule extraction for
// the treebank grammar, or binarization and optional markovization
// followed by extraction.
func extractFunc(gramtype string) (corpus.ExtractFunc, error) {
	if gramtype == "treebank" {
		return lcfrs.Extract, nil
	}
	strat, err := binarize.StrategyNamed(gramtype)
	if err != nil {
		return nil, err
	}
	var binOpts []binarize.Option
	if grammarOpts.headRules != "" {
		rules, err := headRules(grammarOpts.headRules)
		if err != nil {
			return nil, err
		}
		binOpts = append(binOpts, binarize.HeadRules(rules))
	}
	markov := parseOpts(grammarOpts.markov)
	h, v := markov.Int("h", 2), markov.Int("v", 1)
	if markov.Bool("nofanout") {
		binOpts = append(binOpts, binarize.NoFanout(true))
	}
	return func(t *trees.Tree) ([]*lcfrs.Rule, error) {
		if err := binarize.Binarize(t, strat, binOpts...); err != nil {
			return nil, err
		}
		if len(markov) > 0 {
			binarize.Markovize(t, h, v, binOpts...)
		}
		return lcfrs.Extract(t)
	}, nil
}

// headRules resolves the -head-rules flag: one of the builtin tables, or
// the name of a head rule file.
func headRules(name string) (transform.HeadRules, error) {
	switch name {
	case "ptb":
		return transform.PTBHeadRules(), nil
	case "negra":
		return transform.NegraHeadRules(), nil
	}
	return transform.LoadHeadRules(name)
}
