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
	"os"
	"strings"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"

	"github.com/npillmayer/treegram/corpus"
	"github.com/npillmayer/treegram/format"
	"github.com/npillmayer/treegram/trees/binarize"
	"github.com/npillmayer/treegram/trees/transform"
	"github.com/npillmayer/treegram/transitions"
)

var transitionsOpts struct {
	transtype string
	trans     string
	params    string
	binarize  string
	srcFormat string
	srcOpts   string
	trace     *string
}

func transitionsCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       runTransitions,
		UsageLine: "transitions [options] <src> <dest>",
		Short:     "extract oracle transition sequences",
		Long: `
Transitions derives the oracle action sequence of a shift-reduce parser
for every tree of a treebank, one line per sentence. The oracle needs
continuous trees with marked heads; trees are head-marked and binarized
on the way, controlled by the -trans and -binarize flags.

	$ treegram transitions tiger.export tiger.trans -trans negra_mark_heads

Available transition types: ` + strings.Join(transitions.Types(), ", ") + `.
`,
		Flag: *flag.NewFlagSet("transitions", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&transitionsOpts.transtype, "type", "topdown", "transition type")
	cmd.Flag.StringVar(&transitionsOpts.trans, "trans", "negra_mark_heads", "transformations to apply first, comma-separated")
	cmd.Flag.StringVar(&transitionsOpts.params, "params", "", "transformation parameters, comma-separated key:value pairs")
	cmd.Flag.StringVar(&transitionsOpts.binarize, "binarize", "rightleft", "binarization strategy")
	cmd.Flag.StringVar(&transitionsOpts.srcFormat, "src-format", "export", "input format")
	cmd.Flag.StringVar(&transitionsOpts.srcOpts, "src-opts", "", "input format options, comma-separated key:value pairs")
	transitionsOpts.trace = traceFlag(cmd)
	return cmd
}

func runTransitions(cmd *commander.Command, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: %s", cmd.UsageLine)
	}
	setupTracing(*transitionsOpts.trace)
	oracle, err := transitions.ByName(transitionsOpts.transtype)
	if err != nil {
		return err
	}
	strat, err := binarize.StrategyNamed(transitionsOpts.binarize)
	if err != nil {
		return err
	}
	var pipeline *transform.Pipeline
	if transitionsOpts.trans != "" {
		pipeline, err = transform.NewPipelineNamed(
			strings.Split(transitionsOpts.trans, ","),
			transform.ParseOptions(strings.Split(transitionsOpts.params, ",")))
		if err != nil {
			return err
		}
	}
	reader, closeSrc, err := openSource(args[0], transitionsOpts.srcFormat, transitionsOpts.srcOpts)
	if err != nil {
		return err
	}
	defer closeSrc()
	f, err := format.Create(args[1])
	if err != nil {
		return err
	}
	defer f.Close()
	writer := transitions.NewPlainWriter(f)
	var failed []corpus.TreeError
	cnt := 0
	for {
		t, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("reading corpus (%w)", err)
		}
		cnt++
		progress(cnt)
		if pipeline != nil {
			if err := pipeline.Run(t); err != nil {
				failed = append(failed, corpus.TreeError{SID: t.ID, Step: corpus.StepTransform, Err: err})
				continue
			}
		}
		if err := binarize.Binarize(t, strat); err != nil {
			failed = append(failed, corpus.TreeError{SID: t.ID, Step: "binarize", Err: err})
			continue
		}
		seq, err := oracle(t)
		if err != nil {
			failed = append(failed, corpus.TreeError{SID: t.ID, Step: transitionsOpts.transtype, Err: err})
			continue
		}
		if err := writer.Write(seq); err != nil {
			return fmt.Errorf("writing transitions (%w)", err)
		}
	}
	fmt.Fprintln(os.Stderr)
	return reportFailures(failed)
}
