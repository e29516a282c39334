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
	"strconv"
	"strings"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/pterm/pterm"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/npillmayer/treegram/analyze"
	"github.com/npillmayer/treegram/corpus"
	"github.com/npillmayer/treegram/format"
	"github.com/npillmayer/treegram/lcfrs"
)

var analyzeOpts struct {
	tasks      string
	srcFormat  string
	srcOpts    string
	gramFormat string
	trace      *string
}

func analyzeCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       runAnalyze,
		UsageLine: "analyze [options] <src>",
		Short:     "compute treebank statistics",
		Long: `
Analyze reads a treebank and accumulates statistics over its trees,
printing one table per task.

	$ treegram analyze tiger.export -tasks gapdegree,sentencecount

With -grammar-format, src names the prefix of a stored grammar instead
of a treebank, and analyze reports its rule counts and fan-outs.

	$ treegram analyze tiger -grammar-format rcg

Available tasks: ` + strings.Join(analyze.Tasks(), ", ") + `.
Available grammar formats: ` + strings.Join(format.GrammarReaders(), ", ") + `.
`,
		Flag: *flag.NewFlagSet("analyze", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&analyzeOpts.tasks, "tasks", strings.Join(analyze.Tasks(), ","), "analysis tasks to run, comma-separated")
	cmd.Flag.StringVar(&analyzeOpts.srcFormat, "src-format", "export", "input format")
	cmd.Flag.StringVar(&analyzeOpts.srcOpts, "src-opts", "", "input format options, comma-separated key:value pairs")
	cmd.Flag.StringVar(&analyzeOpts.gramFormat, "grammar-format", "", "analyze a stored grammar under the src prefix instead of a treebank")
	analyzeOpts.trace = traceFlag(cmd)
	return cmd
}

func runAnalyze(cmd *commander.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: %s", cmd.UsageLine)
	}
	setupTracing(*analyzeOpts.trace)
	if analyzeOpts.gramFormat != "" {
		return analyzeGrammar(args[0])
	}
	names := strings.Split(analyzeOpts.tasks, ",")
	tasks := make([]analyze.Task, len(names))
	for i, name := range names {
		task, err := analyze.NewTask(strings.TrimSpace(name))
		if err != nil {
			return err
		}
		tasks[i] = task
	}
	reader, closeSrc, err := openSource(args[0], analyzeOpts.srcFormat, analyzeOpts.srcOpts)
	if err != nil {
		return err
	}
	defer closeSrc()
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
		for i, task := range tasks {
			if err := task.Run(t); err != nil {
				failed = append(failed, corpus.TreeError{SID: t.ID, Step: names[i], Err: err})
				break
			}
		}
	}
	fmt.Fprintln(os.Stderr)
	for i, task := range tasks {
		pterm.Info.Println(names[i])
		data := pterm.TableData{task.Header()}
		data = append(data, task.Rows()...)
		pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	}
	return reportFailures(failed)
}

// analyzeGrammar reads a stored grammar and reports its size, whether it
// is context-free, and the distribution of rules over left-hand side
// fan-outs.
func analyzeGrammar(src string) error {
	g, err := format.ReadGrammar(analyzeOpts.gramFormat, src, parseOpts(analyzeOpts.srcOpts))
	if err != nil {
		return err
	}
	fanouts := map[int]int{}
	g.Each(func(r *lcfrs.Rule) {
		fanouts[r.LHS.Fanout]++
	})
	pterm.Info.Println("grammar " + src)
	data := pterm.TableData{
		{"property", "value"},
		{"phrasal rules", strconv.Itoa(g.Size())},
		{"lexicon entries", strconv.Itoa(g.LexSize())},
		{"context-free", strconv.FormatBool(g.ContextFree())},
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	pterm.Info.Println("fan-outs")
	data = pterm.TableData{{"fan-out", "rules"}}
	keys := maps.Keys(fanouts)
	slices.Sort(keys)
	for _, f := range keys {
		data = append(data, []string{strconv.Itoa(f), strconv.Itoa(fanouts[f])})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil
}
