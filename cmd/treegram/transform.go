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
	"strings"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"

	"github.com/npillmayer/treegram/corpus"
	"github.com/npillmayer/treegram/format"
	"github.com/npillmayer/treegram/trees"
	"github.com/npillmayer/treegram/trees/transform"
)

var transformOpts struct {
	trans      string
	params     string
	srcFormat  string
	srcOpts    string
	destFormat string
	destOpts   string
	split      string
	trace      *string
}

func transformCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       runTransform,
		UsageLine: "transform [options] <src> <dest>",
		Short:     "transform treebank trees",
		Long: `
Transform reads a treebank, applies a sequence of tree transformations to
every tree, and writes the result.

	$ treegram transform tiger.export tiger.out -trans root_attach,negra_mark_heads,boyd_split,raising

Available transformations: ` + strings.Join(transform.Transformations(), ", ") + `.
Available input formats: ` + strings.Join(format.TreeReaders(), ", ") + `.
Available output formats: ` + strings.Join(format.TreeWriters(), ", ") + `.
`,
		Flag: *flag.NewFlagSet("transform", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&transformOpts.trans, "trans", "root_attach", "transformations to apply, comma-separated")
	cmd.Flag.StringVar(&transformOpts.params, "params", "", "transformation parameters, comma-separated key:value pairs")
	cmd.Flag.StringVar(&transformOpts.srcFormat, "src-format", "export", "input format")
	cmd.Flag.StringVar(&transformOpts.srcOpts, "src-opts", "", "input format options, comma-separated key:value pairs")
	cmd.Flag.StringVar(&transformOpts.destFormat, "dest-format", "export", "output format")
	cmd.Flag.StringVar(&transformOpts.destOpts, "dest-opts", "", "output format options, comma-separated key:value pairs")
	cmd.Flag.StringVar(&transformOpts.split, "split", "", "split output into parts, e.g. '10%_rest_5000#'")
	transformOpts.trace = traceFlag(cmd)
	return cmd
}

func runTransform(cmd *commander.Command, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: %s", cmd.UsageLine)
	}
	setupTracing(*transformOpts.trace)
	src, dest := args[0], args[1]
	tracer().Infof("reading from '%s' in format '%s'", src, transformOpts.srcFormat)
	tracer().Infof("applying %s", transformOpts.trans)
	pipeline, err := transform.NewPipelineNamed(
		strings.Split(transformOpts.trans, ","),
		transform.ParseOptions(strings.Split(transformOpts.params, ",")))
	if err != nil {
		return err
	}
	reader, closeSrc, err := openSource(src, transformOpts.srcFormat, transformOpts.srcOpts)
	if err != nil {
		return err
	}
	defer closeSrc()
	if transformOpts.split == "" {
		return transformToFile(reader, pipeline, dest)
	}
	return transformSplit(reader, pipeline, dest)
}

// transformToFile streams the transformed trees into a single output
// file. A single worker keeps the trees in input order.
func transformToFile(reader format.TreeReader, pipeline *transform.Pipeline, dest string) error {
	f, err := format.Create(dest)
	if err != nil {
		return err
	}
	sink, err := format.NewTreeWriter(transformOpts.destFormat, f, parseOpts(transformOpts.destOpts))
	if err != nil {
		f.Close()
		return err
	}
	res, err := corpus.Run(context.Background(), reader, corpus.Options{
		Workers:  1,
		Pipeline: pipeline,
		Sink:     sink,
		Progress: progress,
	})
	fmt.Fprintln(os.Stderr)
	if cerr := sink.Close(); err == nil {
		err = cerr
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	tracer().Infof("wrote %d trees to '%s'", res.Trees, dest)
	return reportFailures(res.Failed)
}

// transformSplit collects all transformed trees, then writes them into
// parts dest.0, dest.1, ... with sizes given by the split specification.
// Part sizes depend on the corpus size, so streaming is not an option
// here.
func transformSplit(reader format.TreeReader, pipeline *transform.Pipeline, dest string) error {
	collector := &corpus.Collector{}
	res, err := corpus.Run(context.Background(), reader, corpus.Options{
		Workers:  1,
		Pipeline: pipeline,
		Sink:     collector,
		Progress: progress,
	})
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}
	sizes, err := corpus.SplitSizes(transformOpts.split, len(collector.Trees))
	if err != nil {
		return err
	}
	tracer().Infof("writing parts of sizes %v", sizes)
	next := 0
	for i, size := range sizes {
		if err := writePart(fmt.Sprintf("%s.%d", dest, i), collector.Trees[next:next+size]); err != nil {
			return err
		}
		next += size
	}
	return reportFailures(res.Failed)
}

func writePart(path string, part []*trees.Tree) error {
	f, err := format.Create(path)
	if err != nil {
		return err
	}
	sink, err := format.NewTreeWriter(transformOpts.destFormat, f, parseOpts(transformOpts.destOpts))
	if err != nil {
		f.Close()
		return err
	}
	for _, t := range part {
		if err := sink.Write(t); err != nil {
			f.Close()
			return err
		}
	}
	if err := sink.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
