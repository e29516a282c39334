/*
Command treegram processes constituency treebanks.

The command transforms treebank trees, removes crossing branches,
extracts LCFRS/RCG grammars, computes corpus statistics, derives oracle
transition sequences and lets users browse a treebank interactively.
Functionality is split over subcommands:

	treegram transform src dest [options]
	treegram grammar src dest {treebank|leftright|rightleft|headdriven} [options]
	treegram analyze src [options]
	treegram transitions src dest [options]
	treegram browse src [options]

Run a subcommand with -help for its options.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/pterm/pterm"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/npillmayer/treegram/corpus"
	"github.com/npillmayer/treegram/format"
	_ "github.com/npillmayer/treegram/format/brackets"
	_ "github.com/npillmayer/treegram/format/export"
	_ "github.com/npillmayer/treegram/format/lopar"
	_ "github.com/npillmayer/treegram/format/pmcfg"
	_ "github.com/npillmayer/treegram/format/rcg"
	_ "github.com/npillmayer/treegram/format/terminals"
	_ "github.com/npillmayer/treegram/format/tigerxml"
)

// tracer traces with key 'treegram.cli'.
func tracer() tracing.Trace {
	return tracing.Select("treegram.cli")
}

// Subsystem trace keys of the module.
var traceKeys = []string{
	"treegram.trees", "treegram.lcfrs", "treegram.corpus",
	"treegram.format", "treegram.cli",
}

func allCommands() *commander.Command {
	return &commander.Command{
		UsageLine: "treegram command [arguments]",
		Short:     "transform treebank trees and extract grammars",
		Subcommands: []*commander.Command{
			transformCmd(),
			grammarCmd(),
			analyzeCmd(),
			transitionsCmd(),
			browseCmd(),
		},
		Flag: *flag.NewFlagSet("treegram", flag.ExitOnError),
	}
}

func main() {
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	cmd := allCommands()
	if err := cmd.Flag.Parse(os.Args[1:]); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
	if err := cmd.Dispatch(cmd.Flag.Args()); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// setupTracing sets the trace level, given by the -trace flag every
// subcommand carries, on all subsystems.
func setupTracing(level string) {
	l := tracing.TraceLevelFromString(level)
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(l)
	}
}

// traceFlag adds the common -trace flag to a subcommand.
func traceFlag(cmd *commander.Command) *string {
	return cmd.Flag.String("trace", "Error", "trace level [Debug|Info|Error]")
}

// openSource opens a treebank file and creates a reader for it, honoring
// the -src-format and -src-opts flags.
func openSource(path, formatName, opts string) (format.TreeReader, func() error, error) {
	f, err := format.Open(path)
	if err != nil {
		return nil, nil, err
	}
	reader, err := format.NewTreeReader(formatName, f, parseOpts(opts))
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return reader, f.Close, nil
}

// parseOpts parses a comma-separated "key:value" list, the form reader,
// writer and transformation options take on the command line.
func parseOpts(s string) format.Options {
	if s == "" {
		return nil
	}
	return format.ParseOptions(strings.Split(s, ","))
}

// reportFailures prints the accumulated per-tree errors of a corpus run.
// It returns an error if any tree failed, so that the process exits
// non-zero; which trees to re-inspect is then up to the user.
func reportFailures(failed []corpus.TreeError) error {
	for _, te := range failed {
		pterm.Error.Println(te.Error())
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d tree(s) failed", len(failed))
	}
	return nil
}

// progress prints a counter to stderr, overwriting itself, every 100
// trees.
func progress(n int) {
	if n%100 == 0 {
		fmt.Fprintf(os.Stderr, "\r%d", n)
	}
}
